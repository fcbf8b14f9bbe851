package memory

import (
	"context"
	"sync"
	"time"

	appoutbox "rentcam/internal/app/outbox"
)

type outboxState int

const (
	outboxNew outboxState = iota
	outboxClaimed
	outboxSent
	outboxFailed
)

type outboxEntry struct {
	record   appoutbox.EventRecord
	state    outboxState
	attempts int
	next     time.Time
	lastErr  string
}

// Outbox keeps event records in memory until a relay worker delivers them.
type Outbox struct {
	mu      sync.Mutex
	entries []*outboxEntry
	now     func() time.Time
}

func NewOutbox() *Outbox {
	return &Outbox{now: time.Now}
}

func (o *Outbox) Add(ctx context.Context, record appoutbox.EventRecord) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.entries = append(o.entries, &outboxEntry{record: record, next: o.now().UTC()})
	return nil
}

// Flush drops records that were already delivered.
func (o *Outbox) Flush(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	kept := o.entries[:0]
	for _, entry := range o.entries {
		if entry.state != outboxSent {
			kept = append(kept, entry)
		}
	}
	o.entries = kept
	return nil
}

// Claim hands out the oldest due record in insertion order.
func (o *Outbox) Claim(ctx context.Context, workerID string) (*appoutbox.Pending, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	now := o.now().UTC()
	for _, entry := range o.entries {
		if entry.state != outboxNew && entry.state != outboxFailed {
			continue
		}
		if entry.next.After(now) {
			continue
		}
		entry.state = outboxClaimed
		return &appoutbox.Pending{EventRecord: entry.record, Attempts: entry.attempts}, nil
	}
	return nil, nil
}

func (o *Outbox) MarkSent(ctx context.Context, id string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if entry := o.find(id); entry != nil {
		entry.state = outboxSent
	}
	return nil
}

func (o *Outbox) MarkFailed(ctx context.Context, id string, next time.Time, errMsg string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if entry := o.find(id); entry != nil {
		entry.state = outboxFailed
		entry.attempts++
		entry.next = next
		entry.lastErr = errMsg
	}
	return nil
}

// Pending reports how many records are still waiting for delivery.
func (o *Outbox) Pending() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	n := 0
	for _, entry := range o.entries {
		if entry.state != outboxSent {
			n++
		}
	}
	return n
}

func (o *Outbox) find(id string) *outboxEntry {
	for _, entry := range o.entries {
		if entry.record.ID == id {
			return entry
		}
	}
	return nil
}

var (
	_ appoutbox.Outbox = (*Outbox)(nil)
	_ appoutbox.Queue  = (*Outbox)(nil)
)
