package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"time"

	infra_eventbus "github.com/amirasaad/payauth/infra/eventbus"
	"github.com/amirasaad/payauth/pkg/currency"
	"github.com/amirasaad/payauth/pkg/domain/events"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

// RunSmokeTest publishes a PaymentSucceeded event through the Kafka event
// bus and waits for the bus's own consumer to hand it back.
func RunSmokeTest() error {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	brokers := strings.TrimSpace(os.Getenv("BROKERS"))
	if brokers == "" {
		brokers = "localhost:9093,localhost:9092"
	}
	groupID := strings.TrimSpace(os.Getenv("GROUP_ID"))
	if groupID == "" {
		groupID = "payauth-smoketest"
	}
	topic := strings.TrimSpace(os.Getenv("TOPIC"))
	if topic == "" {
		topic = "payauth.payments.smoketest"
	}
	brokerList := strings.Split(brokers, ",")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Create the topic if it doesn't exist
	{
		dialer := &kafka.Dialer{Timeout: 5 * time.Second}
		conn, err := dialer.DialContext(ctx, "tcp", brokerList[0])
		if err != nil {
			logger.Error("dial failed", "error", err)
			return err
		}
		defer func() { _ = conn.Close() }()
		err = conn.CreateTopics(kafka.TopicConfig{
			Topic:             topic,
			NumPartitions:     1,
			ReplicationFactor: 1,
		})
		if err != nil && !strings.Contains(strings.ToLower(err.Error()), "already exists") {
			logger.Error("create topic failed", "topic", topic, "error", err)
			return err
		}
		logger.Info("topic ready", "topic", topic)
	}

	bus, err := infra_eventbus.NewWithKafka(brokerList, topic, groupID, logger)
	if err != nil {
		return err
	}
	defer func() { _ = bus.Close() }()

	want := events.PaymentSucceeded{
		PaymentEvent: events.NewPaymentEvent(
			"smoke-sender", "smoke-receiver", decimal.NewFromInt(1), currency.USD, "REGULAR", 1,
		),
		TransferredAmount: decimal.NewFromInt(1),
		Fee:               decimal.Zero,
	}

	received := make(chan struct{})
	bus.Register(events.PaymentSucceededType, func(_ context.Context, e events.Event) error {
		// Older runs may have left events on the topic.
		if got, ok := e.(events.PaymentSucceeded); ok && got.ID == want.ID {
			close(received)
		}
		return nil
	})

	if err := bus.Emit(ctx, want); err != nil {
		logger.Error("emit failed", "error", err)
		return err
	}
	logger.Info("produced", "topic", topic, "event_id", want.ID)

	select {
	case <-received:
		logger.Info("kafka smoke test passed", "event_id", want.ID)
		return nil
	case <-ctx.Done():
		logger.Error("event not consumed in time", "event_id", want.ID)
		return errors.New("kafka smoke test timed out")
	}
}

// main runs the smoke test and exits non-zero on failure.
func main() {
	if err := RunSmokeTest(); err != nil {
		os.Exit(1)
	}
}
