package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"rentcam/internal/app/commands"
	"rentcam/internal/app/dto"
	"rentcam/internal/app/queries"
	domainlistings "rentcam/internal/domain/listings"
	domainnotifications "rentcam/internal/domain/notifications"
	domainreviews "rentcam/internal/domain/reviews"
	domainuser "rentcam/internal/domain/user"
	"rentcam/internal/infra/storage/memory"
)

func newStore() domainnotifications.Store {
	n := 0
	return domainnotifications.Store{
		Repo: memory.NewNotificationRepository(),
		NewID: func() domainnotifications.ID {
			n++
			return domainnotifications.ID(fmt.Sprintf("n-%d", n))
		},
	}
}

func TestInboxThroughBus(t *testing.T) {
	ctx := context.Background()
	cmds, qs := commands.NewInMemoryBus(), queries.NewInMemoryBus()
	Register(cmds, qs, newStore())

	if _, err := commands.Dispatch[AddNotificationCommand, *dto.Notification](ctx, cmds, AddNotificationCommand{RecipientID: "u-1", Title: "x", Kind: "lease"}); !errors.Is(err, ErrInvalidKind) {
		t.Fatalf("expected ErrInvalidKind, got %v", err)
	}
	for _, title := range []string{"Un", "Deux"} {
		if _, err := commands.Dispatch[AddNotificationCommand, *dto.Notification](ctx, cmds, AddNotificationCommand{RecipientID: "u-1", Title: title, Kind: "rent"}); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	f, err := queries.Ask[ListNotificationsQuery, dto.NotificationFeed](ctx, qs, ListNotificationsQuery{RecipientID: "u-1"})
	if err != nil || f.Unread != 2 || f.Items[0].Title != "Deux" {
		t.Fatalf("feed: %+v %v", f, err)
	}
	f, _ = commands.Dispatch[MarkReadCommand, dto.NotificationFeed](ctx, cmds, MarkReadCommand{RecipientID: "u-1", ID: f.Items[1].ID})
	if f.Unread != 1 {
		t.Fatalf("unread after mark = %d", f.Unread)
	}
	f, _ = commands.Dispatch[MarkAllReadCommand, dto.NotificationFeed](ctx, cmds, MarkAllReadCommand{RecipientID: "u-1"})
	if f.Unread != 0 {
		t.Fatalf("unread after mark all = %d", f.Unread)
	}
	f, _ = commands.Dispatch[ClearCommand, dto.NotificationFeed](ctx, cmds, ClearCommand{RecipientID: "u-1"})
	if len(f.Items) != 0 {
		t.Fatalf("feed not cleared")
	}
}

func TestListingEventNotifierSkipsOwner(t *testing.T) {
	ctx := context.Background()
	profiles := memory.NewProfileRepository()
	for _, id := range []string{"owner-1", "student-1", "student-2"} {
		p, _ := domainuser.NewProfile(domainuser.CreateParams{ID: domainuser.ID(id), Email: id + "@example.cm", Name: id})
		_ = profiles.Save(ctx, p)
	}
	store := newStore()
	notifier := &ListingEventNotifier{Store: store, Profiles: profiles}

	data, _ := json.Marshal(domainlistings.ListingCreatedEvent{
		ListingID: "l-9", OwnerID: "owner-1", Kind: domainlistings.KindSaleItem, Title: "MacBook Pro", City: "Yaoundé", Price: 450000,
	})
	payload, _ := json.Marshal(map[string]any{"type": "listing.created.v1", "data": json.RawMessage(data)})
	if err := notifier.HandleEvent(ctx, payload); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if feed, _ := store.List(ctx, "owner-1"); len(feed) != 0 {
		t.Fatalf("owner was notified about their own listing")
	}
	feed, _ := store.List(ctx, "student-2")
	if len(feed) != 1 {
		t.Fatalf("student feed = %d", len(feed))
	}
	n := feed[0]
	if n.Title != "New Item for Sale" || n.Kind != domainnotifications.KindSale || n.RelatedListingID != "l-9" {
		t.Fatalf("unexpected notification %+v", n)
	}
	if !strings.Contains(n.Message, "Yaoundé") || !strings.HasSuffix(n.Message, "FCFA") {
		t.Fatalf("unexpected message %q", n.Message)
	}

	other, _ := json.Marshal(map[string]any{"type": "message.sent.v1", "data": map[string]string{}})
	if err := notifier.HandleEvent(ctx, other); err != nil {
		t.Fatalf("unrelated event should be ignored: %v", err)
	}
	if err := notifier.HandleEvent(ctx, []byte("{")); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestListingEventNotifierTellsOwnerAboutReview(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	notifier := &ListingEventNotifier{Store: store, Profiles: memory.NewProfileRepository()}

	data, _ := json.Marshal(domainreviews.ReviewSubmittedEvent{
		ReviewID: "r-1", ListingID: "prop-1", ListingKind: domainlistings.KindRentalProperty,
		ListingTitle: "Studio Molyko", OwnerID: "landlord-1", AuthorID: "student-1", Rating: 4,
	})
	payload, _ := json.Marshal(map[string]any{"type": "review.submitted.v1", "data": json.RawMessage(data)})
	if err := notifier.HandleEvent(ctx, payload); err != nil {
		t.Fatalf("handle: %v", err)
	}
	feed, _ := store.List(ctx, "landlord-1")
	if len(feed) != 1 {
		t.Fatalf("owner feed = %d, want 1", len(feed))
	}
	n := feed[0]
	if n.Title != "New Review" || n.Kind != domainnotifications.KindRent || n.RelatedListingID != "prop-1" || !strings.Contains(n.Message, "4-star") {
		t.Fatalf("unexpected notification %+v", n)
	}
	if others, _ := store.List(ctx, "student-1"); len(others) != 0 {
		t.Fatalf("author should not be notified")
	}
}
