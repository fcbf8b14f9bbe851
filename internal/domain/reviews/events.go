package reviews

import (
	"time"

	domainlistings "rentcam/internal/domain/listings"
)

const EventReviewSubmitted = "review.submitted"

// ReviewSubmittedEvent carries enough of the listing for the owner to be told
// without another lookup.
type ReviewSubmittedEvent struct {
	ReviewID     ID                       `json:"review_id"`
	ListingID    domainlistings.ListingID `json:"listing_id"`
	ListingKind  domainlistings.Kind      `json:"listing_kind"`
	ListingTitle string                   `json:"listing_title"`
	OwnerID      domainlistings.OwnerID   `json:"owner_id"`
	AuthorID     string                   `json:"author_id"`
	Rating       int                      `json:"rating"`
	At           time.Time                `json:"at"`
}

func (e ReviewSubmittedEvent) EventName() string     { return EventReviewSubmitted }
func (e ReviewSubmittedEvent) AggregateID() string   { return string(e.ListingID) }
func (e ReviewSubmittedEvent) OccurredAt() time.Time { return e.At }
