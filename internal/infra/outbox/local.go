package outbox

import (
	"context"
	"log/slog"
)

// EventHandler consumes a CloudEvent payload.
type EventHandler interface {
	HandleEvent(ctx context.Context, payload []byte) error
}

// LocalPublisher delivers events to in-process handlers when no broker is
// configured. Topics are ignored; every handler sees every event.
type LocalPublisher struct {
	Handlers []EventHandler
	Logger   *slog.Logger
}

func (p LocalPublisher) Publish(ctx context.Context, topic string, key string, payload []byte, headers map[string]string) error {
	for _, h := range p.Handlers {
		if err := h.HandleEvent(ctx, payload); err != nil {
			return err
		}
	}
	if p.Logger != nil {
		p.Logger.Debug("event delivered locally", "topic", topic, "key", key)
	}
	return nil
}

var _ Producer = LocalPublisher{}
