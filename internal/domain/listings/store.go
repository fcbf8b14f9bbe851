package listings

import (
	"context"
	"errors"
	"time"
)

var ErrStoreMisconfigured = errors.New("listings: store requires a repository")

// Store stamps identity and creation time onto new listings and exposes the
// collection. It holds no state of its own beyond the repository.
type Store struct {
	Repo  Repository
	NewID func() ListingID
	Now   func() time.Time
}

// Add stamps a fresh id and the current time, stores the listing at the head
// of the collection and returns the stored record with its pending events.
func (s Store) Add(ctx context.Context, params CreateListingParams) (*Listing, error) {
	if s.Repo == nil || s.NewID == nil {
		return nil, ErrStoreMisconfigured
	}
	params.ID = s.NewID()
	params.Now = s.now()
	listing, err := NewListing(params)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.Insert(ctx, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

// All returns the collection most-recent-first.
func (s Store) All(ctx context.Context) ([]*Listing, error) {
	if s.Repo == nil {
		return nil, ErrStoreMisconfigured
	}
	return s.Repo.All(ctx)
}

func (s Store) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
