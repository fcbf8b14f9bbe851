package listings

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"rentcam/internal/app/dto"
	"rentcam/internal/app/policies"
	"rentcam/internal/app/queries"
	domainlistings "rentcam/internal/domain/listings"
)

type SearchListingsQuery struct {
	Spec   domainlistings.FilterSpec
	Limit  int
	Offset int
}

func (q SearchListingsQuery) Key() string { return searchListingsKey }

// SearchListingsHandler runs the filter pipeline over the repository and pages
// the ordered result. Pages are cached when a cache is configured.
type SearchListingsHandler struct {
	Repo     domainlistings.Repository
	Cache    policies.SearchCache
	CacheTTL time.Duration
	Logger   *slog.Logger
}

func (h *SearchListingsHandler) Handle(ctx context.Context, q SearchListingsQuery) (dto.ListingPage, error) {
	spec := q.Spec.Normalized()
	window := domainlistings.Paginate(nil, q.Limit, q.Offset)

	version := int64(-1)
	if h.Cache != nil {
		payload, v, ok := h.Cache.Get(ctx, spec, window.Limit, window.Offset)
		if ok {
			var cached dto.ListingPage
			if err := json.Unmarshal(payload, &cached); err == nil {
				return cached, nil
			}
		}
		version = v
	}

	matches, err := h.Repo.ListByFilter(ctx, spec)
	if err != nil {
		return dto.ListingPage{}, err
	}
	page := dto.MapListingPage(domainlistings.Paginate(matches, window.Limit, window.Offset))

	if h.Cache != nil {
		if payload, err := json.Marshal(page); err == nil {
			h.Cache.Set(ctx, version, spec, window.Limit, window.Offset, payload, h.CacheTTL)
		} else if h.Logger != nil {
			h.Logger.Warn("search page not cached", "error", err)
		}
	}
	return page, nil
}

type GetListingQuery struct {
	ID string
}

func (q GetListingQuery) Key() string { return getListingKey }

type GetListingHandler struct {
	Repo domainlistings.Repository
}

func (h *GetListingHandler) Handle(ctx context.Context, q GetListingQuery) (*dto.Listing, error) {
	id := strings.TrimSpace(q.ID)
	if id == "" {
		return nil, domainlistings.ErrNotFound
	}
	listing, err := h.Repo.ByID(ctx, domainlistings.ListingID(id))
	if err != nil {
		return nil, err
	}
	result := dto.MapListing(listing)
	return &result, nil
}

var (
	_ queries.Handler[SearchListingsQuery, dto.ListingPage] = (*SearchListingsHandler)(nil)
	_ queries.Handler[GetListingQuery, *dto.Listing]        = (*GetListingHandler)(nil)
)
