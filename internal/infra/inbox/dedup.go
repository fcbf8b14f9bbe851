package inbox

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

// Ledger tracks handled event ids.
type Ledger interface {
	Seen(ctx context.Context, eventID string) (bool, error)
	Forget(ctx context.Context, eventID string) error
}

// EventHandler consumes a CloudEvent payload.
type EventHandler interface {
	HandleEvent(ctx context.Context, payload []byte) error
}

// Deduplicator passes each CloudEvent id to Next at most once. Payloads
// without an id are always passed through.
type Deduplicator struct {
	Ledger Ledger
	Next   EventHandler
	Logger *slog.Logger
}

func (d Deduplicator) HandleEvent(ctx context.Context, payload []byte) error {
	var head struct {
		ID   string `json:"id"`
		Type string `json:"type"`
	}
	if err := json.Unmarshal(payload, &head); err != nil {
		return fmt.Errorf("inbox: decode event id: %w", err)
	}
	if head.ID == "" {
		return d.Next.HandleEvent(ctx, payload)
	}
	seen, err := d.Ledger.Seen(ctx, head.ID)
	if err != nil {
		return err
	}
	if seen {
		if d.Logger != nil {
			d.Logger.Debug("duplicate event dropped", "event_id", head.ID, "type", head.Type)
		}
		return nil
	}
	if err := d.Next.HandleEvent(ctx, payload); err != nil {
		if ferr := d.Ledger.Forget(ctx, head.ID); ferr != nil && d.Logger != nil {
			d.Logger.Warn("inbox marker not released", "event_id", head.ID, "error", ferr)
		}
		return err
	}
	return nil
}

// Memory is a process-local Ledger.
type Memory struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewMemory() *Memory {
	return &Memory{seen: make(map[string]struct{})}
}

func (m *Memory) Seen(ctx context.Context, eventID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.seen[eventID]; ok {
		return true, nil
	}
	m.seen[eventID] = struct{}{}
	return false, nil
}

func (m *Memory) Forget(ctx context.Context, eventID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.seen, eventID)
	return nil
}

var (
	_ Ledger = (*Memory)(nil)
	_ Ledger = (*Store)(nil)
)
