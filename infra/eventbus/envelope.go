package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/amirasaad/payauth/pkg/domain/events"
	"github.com/amirasaad/payauth/pkg/eventbus"
)

// envelope is the wire format shared by the broker-backed buses.
type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func encodeEnvelope(event events.Event) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", event.Type(), err)
	}
	envBytes, err := json.Marshal(envelope{Type: event.Type(), Payload: data})
	if err != nil {
		return nil, fmt.Errorf("marshal envelope: %w", err)
	}
	return envBytes, nil
}

func decodeEnvelope(raw []byte) (events.Event, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("unmarshal envelope: %w", err)
	}
	return events.Decode(env.Type, env.Payload)
}

// dispatch runs every handler, recovering panics. It reports whether all
// handlers succeeded.
func dispatch(ctx context.Context, logger *slog.Logger, event events.Event, handlers []eventbus.HandlerFunc) bool {
	ok := true
	for _, handler := range handlers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("panic recovered in event handler", "type", event.Type(), "panic", r)
					ok = false
				}
			}()
			if err := handler(ctx, event); err != nil {
				logger.Error("failed to process event", "type", event.Type(), "error", err)
				ok = false
			}
		}()
	}
	return ok
}

type registry struct {
	handlers map[string][]eventbus.HandlerFunc
}

func (r *registry) add(eventType string, handler eventbus.HandlerFunc) {
	if r.handlers == nil {
		r.handlers = make(map[string][]eventbus.HandlerFunc)
	}
	r.handlers[eventType] = append(r.handlers[eventType], handler)
}

func (r *registry) get(eventType string) []eventbus.HandlerFunc {
	return append([]eventbus.HandlerFunc(nil), r.handlers[eventType]...)
}
