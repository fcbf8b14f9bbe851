package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	domainlistings "rentcam/internal/domain/listings"
	domainnotifications "rentcam/internal/domain/notifications"
	domainreviews "rentcam/internal/domain/reviews"
	"rentcam/internal/domain/shared/money"
	domainuser "rentcam/internal/domain/user"
)

type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// ListingEventNotifier turns listing.created events into inbox entries for
// every user except the listing owner, and tells an owner when one of their
// listings is reviewed. Other event types are ignored.
type ListingEventNotifier struct {
	Store    domainnotifications.Store
	Profiles domainuser.Repository
	Logger   *slog.Logger
}

// HandleEvent accepts the relay's CloudEvents JSON envelope.
func (n *ListingEventNotifier) HandleEvent(ctx context.Context, payload []byte) error {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return fmt.Errorf("notifications: decode envelope: %w", err)
	}
	switch strings.TrimSuffix(env.Type, ".v1") {
	case domainlistings.EventListingCreated:
		var ev domainlistings.ListingCreatedEvent
		if err := json.Unmarshal(env.Data, &ev); err != nil {
			return fmt.Errorf("notifications: decode %s: %w", env.Type, err)
		}
		return n.Notify(ctx, ev)
	case domainreviews.EventReviewSubmitted:
		var ev domainreviews.ReviewSubmittedEvent
		if err := json.Unmarshal(env.Data, &ev); err != nil {
			return fmt.Errorf("notifications: decode %s: %w", env.Type, err)
		}
		return n.NotifyReview(ctx, ev)
	default:
		return nil
	}
}

// NotifyReview adds one entry to the reviewed listing's owner inbox.
func (n *ListingEventNotifier) NotifyReview(ctx context.Context, ev domainreviews.ReviewSubmittedEvent) error {
	kind := domainnotifications.KindRent
	if ev.ListingKind != domainlistings.KindRentalProperty {
		kind = domainnotifications.KindSale
	}
	_, err := n.Store.Add(ctx, string(ev.OwnerID), domainnotifications.Draft{
		Title:            "New Review",
		Message:          fmt.Sprintf("%s received a %d-star review", ev.ListingTitle, ev.Rating),
		Kind:             kind,
		RelatedListingID: string(ev.ListingID),
	})
	if err != nil {
		return err
	}
	if n.Logger != nil {
		n.Logger.Info("owner told about review", "listing_id", ev.ListingID, "review_id", ev.ReviewID)
	}
	return nil
}

func (n *ListingEventNotifier) Notify(ctx context.Context, ev domainlistings.ListingCreatedEvent) error {
	profiles, err := n.Profiles.All(ctx)
	if err != nil {
		return err
	}
	draft := draftFor(ev)
	delivered := 0
	for _, p := range profiles {
		if string(p.ID) == string(ev.OwnerID) {
			continue
		}
		if _, err := n.Store.Add(ctx, string(p.ID), draft); err != nil {
			return err
		}
		delivered++
	}
	if n.Logger != nil {
		n.Logger.Info("listing announced", "listing_id", ev.ListingID, "recipients", delivered)
	}
	return nil
}

func draftFor(ev domainlistings.ListingCreatedEvent) domainnotifications.Draft {
	where := ""
	if city := strings.TrimSpace(ev.City); city != "" {
		where = " in " + city
	}
	price := money.FormatXAF(ev.Price)
	switch ev.Kind {
	case domainlistings.KindRentalProperty:
		return domainnotifications.Draft{
			Title:            "New Property Available",
			Message:          fmt.Sprintf("%s%s is now available for rent at %s", ev.Title, where, price),
			Kind:             domainnotifications.KindRent,
			RelatedListingID: string(ev.ListingID),
		}
	case domainlistings.KindSaleProperty:
		return domainnotifications.Draft{
			Title:            "New Property for Sale",
			Message:          fmt.Sprintf("%s%s posted for sale at %s", ev.Title, where, price),
			Kind:             domainnotifications.KindSale,
			RelatedListingID: string(ev.ListingID),
		}
	default:
		return domainnotifications.Draft{
			Title:            "New Item for Sale",
			Message:          fmt.Sprintf("%s posted for sale%s at %s", ev.Title, where, price),
			Kind:             domainnotifications.KindSale,
			RelatedListingID: string(ev.ListingID),
		}
	}
}
