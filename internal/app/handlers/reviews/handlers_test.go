package reviews

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	domainlistings "rentcam/internal/domain/listings"
	domainreviews "rentcam/internal/domain/reviews"
	domainuser "rentcam/internal/domain/user"
	"rentcam/internal/infra/storage/memory"
)

type harness struct {
	submit *SubmitReviewHandler
	list   *ListReviewsHandler
	box    *memory.Outbox
}

func newHarness(t *testing.T) harness {
	t.Helper()
	ctx := context.Background()
	listings := memory.NewListingRepository()
	listing, err := domainlistings.NewListing(domainlistings.CreateListingParams{
		ID: "prop-1", Kind: domainlistings.KindRentalProperty, Title: "Studio Molyko", Price: 40000, OwnerID: "landlord-1",
	})
	if err != nil {
		t.Fatalf("listing: %v", err)
	}
	if err := listings.Insert(ctx, listing); err != nil {
		t.Fatalf("insert: %v", err)
	}
	profiles := memory.NewProfileRepository()
	profile, err := domainuser.NewProfile(domainuser.CreateParams{ID: "student-1", Email: "awa@example.cm", Name: "Awa Nkem", AvatarURL: "https://cdn.example.cm/awa.jpg"})
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if err := profiles.Save(ctx, profile); err != nil {
		t.Fatalf("save profile: %v", err)
	}

	n := 0
	clock := time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC)
	store := domainreviews.Store{
		Repo:     memory.NewReviewRepository(),
		Listings: listings,
		NewID: func() domainreviews.ID {
			n++
			return domainreviews.ID(fmt.Sprintf("r-%d", n))
		},
		Now: func() time.Time {
			clock = clock.Add(time.Minute)
			return clock
		},
	}
	box := memory.NewOutbox()
	return harness{
		submit: &SubmitReviewHandler{Store: store, Profiles: profiles, Outbox: box},
		list:   &ListReviewsHandler{Store: store, Listings: listings, Profiles: profiles},
		box:    box,
	}
}

func TestSubmitReviewRecordsEventAndAuthor(t *testing.T) {
	h := newHarness(t)
	out, err := h.submit.Handle(context.Background(), SubmitReviewCommand{AuthorID: "student-1", ListingID: "prop-1", Rating: 5, Comment: "Très bon bailleur"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if out.AuthorName != "Awa Nkem" || out.AuthorAvatar == "" || out.Rating != 5 {
		t.Fatalf("unexpected dto %+v", out)
	}
	rec, _ := h.box.Claim(context.Background(), "test")
	if rec == nil || rec.Name != domainreviews.EventReviewSubmitted || rec.Aggregate != "prop-1" {
		t.Fatalf("unexpected outbox record %+v", rec)
	}
}

func TestSubmitReviewErrors(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	if _, err := h.submit.Handle(ctx, SubmitReviewCommand{AuthorID: "landlord-1", ListingID: "prop-1", Rating: 5}); !errors.Is(err, domainreviews.ErrOwnListing) {
		t.Fatalf("expected ErrOwnListing, got %v", err)
	}
	if _, err := h.submit.Handle(ctx, SubmitReviewCommand{AuthorID: "student-1", ListingID: "missing", Rating: 5}); !errors.Is(err, domainlistings.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if h.box.Pending() != 0 {
		t.Fatalf("failed submissions must not record events")
	}
}

func TestListReviewsPagesWithAverage(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	for i, rating := range []int{3, 4, 5} {
		author := fmt.Sprintf("student-%d", i+1)
		if _, err := h.submit.Handle(ctx, SubmitReviewCommand{AuthorID: author, ListingID: "prop-1", Rating: rating}); err != nil {
			t.Fatalf("submit %s: %v", author, err)
		}
	}

	page, err := h.list.Handle(ctx, ListReviewsQuery{ListingID: "prop-1", Limit: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 3 || page.AverageRating != 4 || len(page.Items) != 2 || page.Limit != 2 {
		t.Fatalf("unexpected page %+v", page)
	}
	if page.Items[0].AuthorID != "student-3" {
		t.Fatalf("expected newest first, got %s", page.Items[0].AuthorID)
	}

	tail, err := h.list.Handle(ctx, ListReviewsQuery{ListingID: "prop-1", Limit: 2, Offset: 2})
	if err != nil || len(tail.Items) != 1 || tail.Items[0].AuthorName != "Awa Nkem" {
		t.Fatalf("unexpected tail %+v %v", tail, err)
	}
	past, err := h.list.Handle(ctx, ListReviewsQuery{ListingID: "prop-1", Offset: 10})
	if err != nil || len(past.Items) != 0 || past.Total != 3 || past.Limit != defaultReviewLimit {
		t.Fatalf("unexpected page past the end %+v %v", past, err)
	}
	if _, err := h.list.Handle(ctx, ListReviewsQuery{ListingID: "missing"}); !errors.Is(err, domainlistings.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
