package reviews

import (
	"context"
	"strings"
	"time"

	domainlistings "rentcam/internal/domain/listings"
)

// Repository keeps reviews per listing. Add returns ErrDuplicateReview when
// the author already reviewed the listing. ListByListing is newest first.
type Repository interface {
	Add(ctx context.Context, review *Review) error
	ListByListing(ctx context.Context, listingID domainlistings.ListingID) ([]*Review, error)
}

type Store struct {
	Repo     Repository
	Listings domainlistings.Repository
	NewID    func() ID
	Now      func() time.Time
}

type SubmitParams struct {
	ListingID domainlistings.ListingID
	AuthorID  string
	Rating    int
	Comment   string
}

// Submit stores a review of a property listing and records
// ReviewSubmittedEvent on it. Unknown listings yield domainlistings.ErrNotFound.
func (s Store) Submit(ctx context.Context, params SubmitParams) (*Review, error) {
	if s.Repo == nil || s.Listings == nil || s.NewID == nil {
		return nil, ErrStoreMisconfigured
	}
	review, err := New(NewParams{
		ID:        s.NewID(),
		ListingID: domainlistings.ListingID(strings.TrimSpace(string(params.ListingID))),
		AuthorID:  params.AuthorID,
		Rating:    params.Rating,
		Comment:   params.Comment,
		CreatedAt: s.now(),
	})
	if err != nil {
		return nil, err
	}
	listing, err := s.Listings.ByID(ctx, review.ListingID)
	if err != nil {
		return nil, err
	}
	if !listing.Kind.IsProperty() {
		return nil, ErrNotReviewable
	}
	if string(listing.OwnerID) == review.AuthorID {
		return nil, ErrOwnListing
	}
	if err := s.Repo.Add(ctx, review); err != nil {
		return nil, err
	}
	review.Record(ReviewSubmittedEvent{
		ReviewID:     review.ID,
		ListingID:    listing.ID,
		ListingKind:  listing.Kind,
		ListingTitle: listing.Title,
		OwnerID:      listing.OwnerID,
		AuthorID:     review.AuthorID,
		Rating:       review.Rating,
		At:           review.CreatedAt,
	})
	return review, nil
}

// List returns the listing's reviews newest first with their summary.
func (s Store) List(ctx context.Context, listingID domainlistings.ListingID) ([]*Review, Summary, error) {
	if s.Repo == nil {
		return nil, Summary{}, ErrStoreMisconfigured
	}
	items, err := s.Repo.ListByListing(ctx, domainlistings.ListingID(strings.TrimSpace(string(listingID))))
	if err != nil {
		return nil, Summary{}, err
	}
	return items, Summarize(items), nil
}

func (s Store) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
