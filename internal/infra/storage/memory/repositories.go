package memory

import (
	"context"
	"sync"
	"time"

	domainlistings "rentcam/internal/domain/listings"
)

// ListingRepository keeps listings newest-first in memory. Stored values are
// cloned on the way in and out so callers never share state with the store.
type ListingRepository struct {
	mu    sync.RWMutex
	order []domainlistings.ListingID
	items map[domainlistings.ListingID]*domainlistings.Listing
}

// NewListingRepository builds an empty repository.
func NewListingRepository() *ListingRepository {
	return &ListingRepository{
		items: make(map[domainlistings.ListingID]*domainlistings.Listing),
	}
}

// ByID returns a listing or domainlistings.ErrNotFound.
func (r *ListingRepository) ByID(ctx context.Context, id domainlistings.ListingID) (*domainlistings.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	listing, ok := r.items[id]
	if !ok {
		return nil, domainlistings.ErrNotFound
	}
	return listing.Clone(), nil
}

// All returns every listing, most recently inserted first.
func (r *ListingRepository) All(ctx context.Context) ([]*domainlistings.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainlistings.Listing, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.items[id].Clone())
	}
	return out, nil
}

func (r *ListingRepository) ListByFilter(ctx context.Context, spec domainlistings.FilterSpec) ([]*domainlistings.Listing, error) {
	all, err := r.All(ctx)
	if err != nil {
		return nil, err
	}
	return domainlistings.Search(all, spec), nil
}

// Insert puts the listing at the head of the collection.
func (r *ListingRepository) Insert(ctx context.Context, listing *domainlistings.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.items[listing.ID]; exists {
		return domainlistings.ErrDuplicateEntry
	}
	r.items[listing.ID] = listing.Clone()
	r.order = append([]domainlistings.ListingID{listing.ID}, r.order...)
	return nil
}

// UpdateFields applies the patch under the write lock and returns the updated
// listing carrying its update event.
func (r *ListingRepository) UpdateFields(ctx context.Context, id domainlistings.ListingID, patch domainlistings.Patch, now time.Time) (*domainlistings.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.items[id]
	if !ok {
		return nil, domainlistings.ErrNotFound
	}
	updated := current.Clone()
	if err := updated.Apply(patch, now); err != nil {
		return nil, err
	}
	r.items[id] = updated.Clone()
	return updated, nil
}

func (r *ListingRepository) DeleteByID(ctx context.Context, id domainlistings.ListingID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domainlistings.ErrNotFound
	}
	delete(r.items, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

var _ domainlistings.Repository = (*ListingRepository)(nil)
