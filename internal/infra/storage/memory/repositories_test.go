package memory

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	appoutbox "rentcam/internal/app/outbox"
	domainlistings "rentcam/internal/domain/listings"
	domainnotifications "rentcam/internal/domain/notifications"
	domainreviews "rentcam/internal/domain/reviews"
	domainuser "rentcam/internal/domain/user"
)

func TestListingStoreAddThenAll(t *testing.T) {
	ctx := context.Background()
	seq := 0
	clock := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	store := domainlistings.Store{
		Repo: NewListingRepository(),
		NewID: func() domainlistings.ListingID {
			seq++
			return domainlistings.ListingID(fmt.Sprintf("l-%d", seq))
		},
		Now: func() time.Time {
			clock = clock.Add(time.Hour)
			return clock
		},
	}
	for _, title := range []string{"Studio Ngoa-Ekelle", "Chambre Bonamoussadi"} {
		_, err := store.Add(ctx, domainlistings.CreateListingParams{
			Kind:    domainlistings.KindRentalProperty,
			Title:   title,
			Price:   45000,
			OwnerID: "owner-1",
		})
		if err != nil {
			t.Fatalf("add %q: %v", title, err)
		}
	}
	all, err := store.All(ctx)
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(all) != 2 || all[0].ID != "l-2" || all[1].ID != "l-1" {
		t.Fatalf("expected newest first, got %v", listingIDs(all))
	}
	if all[0].Currency != "XAF" || all[0].CreatedAt.IsZero() {
		t.Fatalf("unexpected stamped listing %+v", all[0])
	}
}

func TestListingRepositoryUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewListingRepository()
	listing, err := domainlistings.NewListing(domainlistings.CreateListingParams{
		ID: "l-1", Kind: domainlistings.KindSaleItem, Title: "Frigo", Price: 90000, OwnerID: "owner-1",
	})
	if err != nil {
		t.Fatalf("new listing: %v", err)
	}
	if err := repo.Insert(ctx, listing); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := repo.Insert(ctx, listing); !errors.Is(err, domainlistings.ErrDuplicateEntry) {
		t.Fatalf("expected ErrDuplicateEntry, got %v", err)
	}

	bedrooms := 2
	if _, err := repo.UpdateFields(ctx, "l-1", domainlistings.Patch{Bedrooms: &bedrooms}, time.Time{}); !errors.Is(err, domainlistings.ErrNotAProperty) {
		t.Fatalf("expected ErrNotAProperty, got %v", err)
	}
	price := int64(75000)
	updated, err := repo.UpdateFields(ctx, "l-1", domainlistings.Patch{Price: &price}, time.Time{})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Price != 75000 || len(updated.PendingEvents()) != 1 {
		t.Fatalf("unexpected update result %+v", updated)
	}
	stored, _ := repo.ByID(ctx, "l-1")
	if stored.Price != 75000 {
		t.Fatalf("stored price = %d", stored.Price)
	}
	stored.Title = "mutated"
	again, _ := repo.ByID(ctx, "l-1")
	if again.Title != "Frigo" {
		t.Fatalf("repository leaked internal state")
	}

	if err := repo.DeleteByID(ctx, "l-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.ByID(ctx, "l-1"); !errors.Is(err, domainlistings.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if all, _ := repo.All(ctx); len(all) != 0 {
		t.Fatalf("expected empty collection, got %d", len(all))
	}
}

func TestListingRepositoryListByFilter(t *testing.T) {
	ctx := context.Background()
	repo := NewListingRepository()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	seed := []domainlistings.CreateListingParams{
		{ID: "a", Kind: domainlistings.KindRentalProperty, Price: 50000, OwnerID: "o", Location: domainlistings.Location{City: "Douala"}, Now: base},
		{ID: "b", Kind: domainlistings.KindSaleProperty, Price: 9000000, OwnerID: "o", Location: domainlistings.Location{City: "Douala"}, Now: base.Add(time.Hour)},
		{ID: "c", Kind: domainlistings.KindRentalProperty, Price: 40000, OwnerID: "o", Location: domainlistings.Location{City: "Yaoundé"}, Now: base.Add(2 * time.Hour)},
	}
	for _, params := range seed {
		listing, _ := domainlistings.NewListing(params)
		_ = repo.Insert(ctx, listing)
	}
	got, err := repo.ListByFilter(ctx, domainlistings.FilterSpec{Type: domainlistings.TypeRent, City: "douala"})
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if ids := listingIDs(got); len(ids) != 1 || ids[0] != "a" {
		t.Fatalf("unexpected matches %v", ids)
	}
}

func TestNotificationRepositoryFeed(t *testing.T) {
	ctx := context.Background()
	seq := 0
	store := domainnotifications.Store{
		Repo: NewNotificationRepository(),
		NewID: func() domainnotifications.ID {
			seq++
			return domainnotifications.ID(fmt.Sprintf("n-%d", seq))
		},
	}
	for _, title := range []string{"Nouvelle annonce", "Prix baissé"} {
		if _, err := store.Add(ctx, "u-1", domainnotifications.Draft{Title: title, Kind: domainnotifications.KindRent}); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	feed, _ := store.List(ctx, "u-1")
	if len(feed) != 2 || feed[0].ID != "n-2" {
		t.Fatalf("expected newest first, got %+v", feed)
	}
	if n, _ := store.UnreadCount(ctx, "u-1"); n != 2 {
		t.Fatalf("unread = %d", n)
	}
	if err := store.MarkRead(ctx, "u-1", "missing"); err != nil {
		t.Fatalf("unknown id should be ignored: %v", err)
	}
	_ = store.MarkRead(ctx, "u-1", "n-1")
	if n, _ := store.UnreadCount(ctx, "u-1"); n != 1 {
		t.Fatalf("unread after mark = %d", n)
	}
	_ = store.MarkAllRead(ctx, "u-1")
	if n, _ := store.UnreadCount(ctx, "u-1"); n != 0 {
		t.Fatalf("unread after mark all = %d", n)
	}
	_ = store.Clear(ctx, "u-1")
	if feed, _ := store.List(ctx, "u-1"); len(feed) != 0 {
		t.Fatalf("expected empty feed, got %d", len(feed))
	}
	if other, _ := store.List(ctx, "u-2"); len(other) != 0 {
		t.Fatalf("feeds leaked across recipients")
	}
}

func TestProfileRepositoryEmailUniqueness(t *testing.T) {
	ctx := context.Background()
	repo := NewProfileRepository()
	a, _ := domainuser.NewProfile(domainuser.CreateParams{ID: "u-1", Email: "a@example.cm", Name: "A"})
	b, _ := domainuser.NewProfile(domainuser.CreateParams{ID: "u-2", Email: "A@example.cm", Name: "B"})
	if err := repo.Save(ctx, a); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.Save(ctx, b); !errors.Is(err, domainuser.ErrEmailAlreadyUsed) {
		t.Fatalf("expected ErrEmailAlreadyUsed, got %v", err)
	}
	if _, err := repo.ByID(ctx, "u-2"); !errors.Is(err, domainuser.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestOutboxClaimLifecycle(t *testing.T) {
	ctx := context.Background()
	box := NewOutbox()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	box.now = func() time.Time { return now }

	_ = box.Add(ctx, appoutbox.EventRecord{ID: "e-1", Name: "listing.created"})
	_ = box.Add(ctx, appoutbox.EventRecord{ID: "e-2", Name: "message.sent"})

	first, err := box.Claim(ctx, "w")
	if err != nil || first == nil || first.ID != "e-1" {
		t.Fatalf("claim: %+v %v", first, err)
	}
	_ = box.MarkFailed(ctx, "e-1", now.Add(time.Minute), "broker down")

	second, _ := box.Claim(ctx, "w")
	if second == nil || second.ID != "e-2" {
		t.Fatalf("expected e-2, got %+v", second)
	}
	_ = box.MarkSent(ctx, "e-2")
	if none, _ := box.Claim(ctx, "w"); none != nil {
		t.Fatalf("failed record claimed before its retry time")
	}

	now = now.Add(2 * time.Minute)
	retry, _ := box.Claim(ctx, "w")
	if retry == nil || retry.ID != "e-1" || retry.Attempts != 1 {
		t.Fatalf("unexpected retry %+v", retry)
	}
	_ = box.MarkSent(ctx, "e-1")
	_ = box.Flush(ctx)
	if box.Pending() != 0 {
		t.Fatalf("pending = %d", box.Pending())
	}
}

func listingIDs(items []*domainlistings.Listing) []domainlistings.ListingID {
	out := make([]domainlistings.ListingID, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}

func TestReviewRepositoryOnePerAuthor(t *testing.T) {
	ctx := context.Background()
	repo := NewReviewRepository()
	at := time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)
	first := &domainreviews.Review{ID: "r-1", ListingID: "prop-1", AuthorID: "student-1", Rating: 4, CreatedAt: at}
	second := &domainreviews.Review{ID: "r-2", ListingID: "prop-1", AuthorID: "student-2", Rating: 5, CreatedAt: at.Add(time.Hour)}
	for _, r := range []*domainreviews.Review{first, second} {
		if err := repo.Add(ctx, r); err != nil {
			t.Fatalf("add %s: %v", r.ID, err)
		}
	}
	again := &domainreviews.Review{ID: "r-3", ListingID: "prop-1", AuthorID: "student-1", Rating: 1}
	if err := repo.Add(ctx, again); !errors.Is(err, domainreviews.ErrDuplicateReview) {
		t.Fatalf("expected ErrDuplicateReview, got %v", err)
	}
	if err := repo.Add(ctx, &domainreviews.Review{ID: "r-4", ListingID: "prop-2", AuthorID: "student-1", Rating: 3}); err != nil {
		t.Fatalf("same author on another listing: %v", err)
	}

	items, err := repo.ListByListing(ctx, "prop-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 || items[0].ID != "r-2" || items[1].ID != "r-1" {
		t.Fatalf("unexpected order %+v", items)
	}
	items[0].Rating = 1
	if fresh, _ := repo.ListByListing(ctx, "prop-1"); fresh[0].Rating != 5 {
		t.Fatalf("list must return copies")
	}
}
