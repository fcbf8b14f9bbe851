package listings

import (
	"context"
	"errors"

	appoutbox "rentcam/internal/app/outbox"
	"rentcam/internal/app/policies"
	"rentcam/internal/domain/shared/events"
)

var ErrInvalidInput = errors.New("listings: invalid input")

// Effects are the side effects shared by every listing write: domain events go
// to the outbox and cached search pages are dropped.
type Effects struct {
	Outbox  appoutbox.Outbox
	Encoder appoutbox.EventEncoder
	Cache   policies.SearchCache
}

func (e Effects) commit(ctx context.Context, evs []events.DomainEvent) error {
	if err := appoutbox.RecordDomainEvents(ctx, e.Outbox, e.Encoder, evs); err != nil {
		return err
	}
	if e.Cache != nil {
		e.Cache.Invalidate(ctx)
	}
	return nil
}
