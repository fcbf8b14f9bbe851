package listings

import (
	"time"
)

const (
	EventListingCreated = "listing.created"
	EventListingUpdated = "listing.updated"
	EventListingRemoved = "listing.removed"
)

type ListingCreatedEvent struct {
	ListingID ListingID `json:"listing_id"`
	OwnerID   OwnerID   `json:"owner_id"`
	Kind      Kind      `json:"kind"`
	Title     string    `json:"title"`
	City      string    `json:"city"`
	Price     int64     `json:"price"`
	At        time.Time `json:"at"`
}

func (e ListingCreatedEvent) EventName() string     { return EventListingCreated }
func (e ListingCreatedEvent) AggregateID() string   { return string(e.ListingID) }
func (e ListingCreatedEvent) OccurredAt() time.Time { return e.At }

type ListingUpdatedEvent struct {
	ListingID ListingID `json:"listing_id"`
	At        time.Time `json:"at"`
}

func (e ListingUpdatedEvent) EventName() string     { return EventListingUpdated }
func (e ListingUpdatedEvent) AggregateID() string   { return string(e.ListingID) }
func (e ListingUpdatedEvent) OccurredAt() time.Time { return e.At }

type ListingRemovedEvent struct {
	ListingID ListingID `json:"listing_id"`
	OwnerID   OwnerID   `json:"owner_id"`
	At        time.Time `json:"at"`
}

func (e ListingRemovedEvent) EventName() string     { return EventListingRemoved }
func (e ListingRemovedEvent) AggregateID() string   { return string(e.ListingID) }
func (e ListingRemovedEvent) OccurredAt() time.Time { return e.At }
