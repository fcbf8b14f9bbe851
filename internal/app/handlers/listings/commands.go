package listings

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"rentcam/internal/app/commands"
	"rentcam/internal/app/dto"
	domainlistings "rentcam/internal/domain/listings"
	"rentcam/internal/domain/shared/events"
)

const (
	createListingKey  = "listings.create"
	updateListingKey  = "listings.update"
	availabilityKey   = "listings.availability"
	deleteListingKey  = "listings.delete"
	attachPhotoKey    = "listings.photos.attach"
	searchListingsKey = "listings.search"
	getListingKey     = "listings.get"
)

type ListingPayload struct {
	Kind         domainlistings.Kind
	Title        string
	Description  string
	Price        int64
	Currency     string
	Location     domainlistings.Location
	Images       []string
	Available    bool
	Bedrooms     int
	Bathrooms    int
	SquareMeters float64
	Amenities    []domainlistings.Amenity
	Landmarks    []domainlistings.Landmark
	Category     domainlistings.Category
	Condition    domainlistings.Condition
	ContactPhone string
}

type CreateListingCommand struct {
	OwnerID string
	Payload ListingPayload
}

func (c CreateListingCommand) Key() string     { return createListingKey }
func (c CreateListingCommand) ActorID() string { return c.OwnerID }

type CreateListingHandler struct {
	Effects
	Store  domainlistings.Store
	Logger *slog.Logger
}

func (h *CreateListingHandler) Handle(ctx context.Context, cmd CreateListingCommand) (*dto.Listing, error) {
	p := cmd.Payload
	listing, err := h.Store.Add(ctx, domainlistings.CreateListingParams{
		Kind:         p.Kind,
		Title:        p.Title,
		Description:  p.Description,
		Price:        p.Price,
		Currency:     p.Currency,
		Location:     p.Location,
		Images:       p.Images,
		OwnerID:      domainlistings.OwnerID(strings.TrimSpace(cmd.OwnerID)),
		Available:    p.Available,
		Bedrooms:     p.Bedrooms,
		Bathrooms:    p.Bathrooms,
		SquareMeters: p.SquareMeters,
		Amenities:    p.Amenities,
		Landmarks:    p.Landmarks,
		Category:     p.Category,
		Condition:    p.Condition,
		ContactPhone: p.ContactPhone,
	})
	if err != nil {
		return nil, err
	}
	if err := h.commit(ctx, listing.DrainEvents()); err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("listing created", "listing_id", listing.ID, "owner_id", listing.OwnerID, "kind", listing.Kind)
	}
	result := dto.MapListing(listing)
	return &result, nil
}

type UpdateListingCommand struct {
	OwnerID   string
	ListingID string
	Patch     domainlistings.Patch
}

func (c UpdateListingCommand) Key() string     { return updateListingKey }
func (c UpdateListingCommand) ActorID() string { return c.OwnerID }

type UpdateListingHandler struct {
	Effects
	Repo   domainlistings.Repository
	Logger *slog.Logger
	Now    func() time.Time
}

func (h *UpdateListingHandler) Handle(ctx context.Context, cmd UpdateListingCommand) (*dto.Listing, error) {
	if cmd.Patch.Empty() {
		return nil, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}
	listing, err := updateOwned(ctx, h.Repo, cmd.OwnerID, cmd.ListingID, cmd.Patch, now(h.Now))
	if err != nil {
		return nil, err
	}
	if err := h.commit(ctx, listing.DrainEvents()); err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("listing updated", "listing_id", listing.ID, "owner_id", cmd.OwnerID)
	}
	result := dto.MapListing(listing)
	return &result, nil
}

type SetAvailabilityCommand struct {
	OwnerID   string
	ListingID string
	Available bool
}

func (c SetAvailabilityCommand) Key() string     { return availabilityKey }
func (c SetAvailabilityCommand) ActorID() string { return c.OwnerID }

type SetAvailabilityHandler struct {
	Effects
	Repo domainlistings.Repository
	Now  func() time.Time
}

func (h *SetAvailabilityHandler) Handle(ctx context.Context, cmd SetAvailabilityCommand) (*dto.Listing, error) {
	available := cmd.Available
	listing, err := updateOwned(ctx, h.Repo, cmd.OwnerID, cmd.ListingID, domainlistings.Patch{Available: &available}, now(h.Now))
	if err != nil {
		return nil, err
	}
	if err := h.commit(ctx, listing.DrainEvents()); err != nil {
		return nil, err
	}
	result := dto.MapListing(listing)
	return &result, nil
}

type DeleteListingCommand struct {
	OwnerID   string
	ListingID string
}

func (c DeleteListingCommand) Key() string     { return deleteListingKey }
func (c DeleteListingCommand) ActorID() string { return c.OwnerID }

type DeleteListingHandler struct {
	Effects
	Repo   domainlistings.Repository
	Logger *slog.Logger
	Now    func() time.Time
}

func (h *DeleteListingHandler) Handle(ctx context.Context, cmd DeleteListingCommand) (struct{}, error) {
	listing, err := loadOwned(ctx, h.Repo, cmd.OwnerID, cmd.ListingID)
	if err != nil {
		return struct{}{}, err
	}
	if err := h.Repo.DeleteByID(ctx, listing.ID); err != nil {
		return struct{}{}, err
	}
	removed := domainlistings.ListingRemovedEvent{ListingID: listing.ID, OwnerID: listing.OwnerID, At: now(h.Now)}
	if err := h.commit(ctx, []events.DomainEvent{removed}); err != nil {
		return struct{}{}, err
	}
	if h.Logger != nil {
		h.Logger.Info("listing deleted", "listing_id", listing.ID, "owner_id", cmd.OwnerID)
	}
	return struct{}{}, nil
}

func loadOwned(ctx context.Context, repo domainlistings.Repository, ownerID, listingID string) (*domainlistings.Listing, error) {
	if strings.TrimSpace(listingID) == "" {
		return nil, fmt.Errorf("%w: listing id is required", ErrInvalidInput)
	}
	listing, err := repo.ByID(ctx, domainlistings.ListingID(strings.TrimSpace(listingID)))
	if err != nil {
		return nil, err
	}
	if !listing.OwnedBy(domainlistings.OwnerID(strings.TrimSpace(ownerID))) {
		return nil, domainlistings.ErrNotOwner
	}
	return listing, nil
}

func updateOwned(ctx context.Context, repo domainlistings.Repository, ownerID, listingID string, patch domainlistings.Patch, at time.Time) (*domainlistings.Listing, error) {
	listing, err := loadOwned(ctx, repo, ownerID, listingID)
	if err != nil {
		return nil, err
	}
	return repo.UpdateFields(ctx, listing.ID, patch, at)
}

func now(clock func() time.Time) time.Time {
	if clock != nil {
		return clock().UTC()
	}
	return time.Now().UTC()
}

var (
	_ commands.Handler[CreateListingCommand, *dto.Listing]   = (*CreateListingHandler)(nil)
	_ commands.Handler[UpdateListingCommand, *dto.Listing]   = (*UpdateListingHandler)(nil)
	_ commands.Handler[SetAvailabilityCommand, *dto.Listing] = (*SetAvailabilityHandler)(nil)
	_ commands.Handler[DeleteListingCommand, struct{}]       = (*DeleteListingHandler)(nil)
)
