package memory

import (
	"context"
	"sync"

	domainlistings "rentcam/internal/domain/listings"
	domainreviews "rentcam/internal/domain/reviews"
)

// ReviewRepository keeps one newest-first list per listing.
type ReviewRepository struct {
	mu        sync.RWMutex
	byListing map[domainlistings.ListingID][]*domainreviews.Review
}

func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{byListing: make(map[domainlistings.ListingID][]*domainreviews.Review)}
}

func (r *ReviewRepository) Add(ctx context.Context, review *domainreviews.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing := r.byListing[review.ListingID]
	for _, other := range existing {
		if other.AuthorID == review.AuthorID {
			return domainreviews.ErrDuplicateReview
		}
	}
	stored := &domainreviews.Review{
		ID:        review.ID,
		ListingID: review.ListingID,
		AuthorID:  review.AuthorID,
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt,
	}
	r.byListing[review.ListingID] = append([]*domainreviews.Review{stored}, existing...)
	return nil
}

func (r *ReviewRepository) ListByListing(ctx context.Context, listingID domainlistings.ListingID) ([]*domainreviews.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := r.byListing[listingID]
	out := make([]*domainreviews.Review, 0, len(items))
	for _, review := range items {
		cp := *review
		out = append(out, &cp)
	}
	return out, nil
}

var _ domainreviews.Repository = (*ReviewRepository)(nil)
