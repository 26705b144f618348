package eventbus

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/amirasaad/payauth/pkg/domain/events"
	"github.com/amirasaad/payauth/pkg/eventbus"
	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// partitionKeyer is implemented by events that must stay ordered per key.
type partitionKeyer interface {
	PartitionKey() string
}

// KafkaEventBus publishes events to one Kafka topic. Messages are keyed by
// the event's partition key so events of one sender keep their order.
type KafkaEventBus struct {
	brokers []string
	topic   string
	groupID string
	writer  messageWriter
	logger  *slog.Logger

	mu       sync.RWMutex
	registry registry
	start    sync.Once
	reader   *kafka.Reader

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWithKafka creates a Kafka-backed event bus.
func NewWithKafka(brokers []string, topic, groupID string, logger *slog.Logger) (*KafkaEventBus, error) {
	if len(brokers) == 0 || topic == "" {
		return nil, fmt.Errorf("kafka event bus: brokers and topic are required")
	}
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireOne,
		Balancer:               &kafka.Hash{},
	}
	return newKafkaBus(brokers, topic, groupID, writer, logger), nil
}

func newKafkaBus(brokers []string, topic, groupID string, writer messageWriter, logger *slog.Logger) *KafkaEventBus {
	if logger == nil {
		logger = slog.Default()
	}
	if groupID == "" {
		groupID = "payauth"
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &KafkaEventBus{
		brokers: brokers,
		topic:   topic,
		groupID: groupID,
		writer:  writer,
		logger:  logger.With("bus", "kafka", "topic", topic),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Emit publishes an event to Kafka.
func (b *KafkaEventBus) Emit(ctx context.Context, event events.Event) error {
	envBytes, err := encodeEnvelope(event)
	if err != nil {
		return fmt.Errorf("kafka event bus: %w", err)
	}
	key := event.Type()
	if k, ok := event.(partitionKeyer); ok {
		key = k.PartitionKey()
	}
	msg := kafka.Message{
		Key:     []byte(key),
		Value:   envBytes,
		Time:    time.Now(),
		Headers: []kafka.Header{{Key: "type", Value: []byte(event.Type())}},
	}
	if err := b.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka event bus: publish failed: %w", err)
	}
	return nil
}

// Register adds a handler. The first registration starts a consumer-group
// reader on the topic.
func (b *KafkaEventBus) Register(eventType string, handler eventbus.HandlerFunc) {
	b.mu.Lock()
	b.registry.add(eventType, handler)
	b.mu.Unlock()

	b.start.Do(func() {
		b.reader = kafka.NewReader(kafka.ReaderConfig{
			Brokers:     b.brokers,
			GroupID:     b.groupID,
			Topic:       b.topic,
			StartOffset: kafka.FirstOffset,
			MinBytes:    1,
			MaxBytes:    10e6,
			MaxWait:     time.Second,
		})
		b.wg.Add(1)
		go b.consume()
	})
}

func (b *KafkaEventBus) consume() {
	defer b.wg.Done()
	for {
		msg, err := b.reader.FetchMessage(b.ctx)
		if err != nil {
			if b.ctx.Err() != nil {
				return
			}
			b.logger.Error("kafka consume error", "error", err)
			select {
			case <-b.ctx.Done():
				return
			case <-time.After(500 * time.Millisecond):
			}
			continue
		}
		b.process(b.ctx, msg.Value)
		if err := b.reader.CommitMessages(b.ctx, msg); err != nil && b.ctx.Err() == nil {
			b.logger.Error("kafka commit error", "error", err, "partition", msg.Partition, "offset", msg.Offset)
		}
	}
}

// process decodes and dispatches one message. Undecodable messages are
// logged and skipped.
func (b *KafkaEventBus) process(ctx context.Context, raw []byte) {
	event, err := decodeEnvelope(raw)
	if err != nil {
		b.logger.Error("failed to decode event", "error", err)
		return
	}
	b.mu.RLock()
	handlers := b.registry.get(event.Type())
	b.mu.RUnlock()
	dispatch(ctx, b.logger, event, handlers)
}

// Close stops the consumer and closes the reader and writer.
func (b *KafkaEventBus) Close() error {
	b.cancel()
	b.wg.Wait()
	if b.reader != nil {
		_ = b.reader.Close()
	}
	return b.writer.Close()
}

var _ eventbus.Bus = (*KafkaEventBus)(nil)
