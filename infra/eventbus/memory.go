package eventbus

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/amirasaad/payauth/pkg/domain/events"
	"github.com/amirasaad/payauth/pkg/eventbus"
)

// ErrBusClosed is returned by Emit after Close.
var ErrBusClosed = errors.New("event bus closed")

// MemoryEventBus dispatches events synchronously to the registered handlers
// and records every published event.
type MemoryEventBus struct {
	mu        sync.RWMutex
	registry  registry
	logger    *slog.Logger
	published []events.Event
}

// NewWithMemory creates a new in-memory event bus.
func NewWithMemory(logger *slog.Logger) *MemoryEventBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &MemoryEventBus{logger: logger.With("bus", "memory")}
}

// Register registers a handler for a specific event type.
func (b *MemoryEventBus) Register(eventType string, handler eventbus.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.registry.add(eventType, handler)
}

// Emit dispatches the event to all registered handlers for its type. Handler
// failures are logged, not returned.
func (b *MemoryEventBus) Emit(ctx context.Context, event events.Event) error {
	b.mu.Lock()
	b.published = append(b.published, event)
	handlers := b.registry.get(event.Type())
	b.mu.Unlock()

	dispatch(ctx, b.logger, event, handlers)
	return nil
}

// Published returns a copy of the events emitted so far.
func (b *MemoryEventBus) Published() []events.Event {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]events.Event(nil), b.published...)
}

// ClearPublished clears the list of published events.
func (b *MemoryEventBus) ClearPublished() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = nil
}

var _ eventbus.Bus = (*MemoryEventBus)(nil)

type queued struct {
	ctx   context.Context
	event events.Event
}

// MemoryAsyncEventBus queues events on a buffered channel consumed by a
// single worker, so handlers run off the caller's goroutine in emit order.
type MemoryAsyncEventBus struct {
	hmu      sync.RWMutex
	registry registry
	// mu guards closed and the send side of eventCh.
	mu       sync.RWMutex
	eventCh  chan queued
	closed   bool
	wg       sync.WaitGroup
	log      *slog.Logger
}

// NewWithMemoryAsync creates the bus and starts its worker. Close drains the
// queue and stops the worker.
func NewWithMemoryAsync(buffer int, logger *slog.Logger) *MemoryAsyncEventBus {
	if logger == nil {
		logger = slog.Default()
	}
	if buffer <= 0 {
		buffer = 100
	}
	b := &MemoryAsyncEventBus{
		eventCh: make(chan queued, buffer),
		log:     logger.With("bus", "memory-async"),
	}
	b.wg.Add(1)
	go b.process()
	return b
}

func (b *MemoryAsyncEventBus) Register(eventType string, handler eventbus.HandlerFunc) {
	b.hmu.Lock()
	defer b.hmu.Unlock()
	b.registry.add(eventType, handler)
}

// Emit enqueues the event. It blocks while the queue is full unless ctx ends.
func (b *MemoryAsyncEventBus) Emit(ctx context.Context, event events.Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrBusClosed
	}
	// Handlers run after the request that emitted the event may have finished.
	item := queued{ctx: context.WithoutCancel(ctx), event: event}
	select {
	case b.eventCh <- item:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting events and waits for queued ones to be handled.
func (b *MemoryAsyncEventBus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	close(b.eventCh)
	b.mu.Unlock()

	b.wg.Wait()
	return nil
}

func (b *MemoryAsyncEventBus) process() {
	defer b.wg.Done()
	for item := range b.eventCh {
		b.hmu.RLock()
		handlers := b.registry.get(item.event.Type())
		b.hmu.RUnlock()
		dispatch(item.ctx, b.log, item.event, handlers)
	}
}

var _ eventbus.Bus = (*MemoryAsyncEventBus)(nil)
