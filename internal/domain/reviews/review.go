package reviews

import (
	"errors"
	"math"
	"strings"
	"time"

	domainlistings "rentcam/internal/domain/listings"
	"rentcam/internal/domain/shared/events"
)

var (
	ErrInvalidRating      = errors.New("reviews: rating must be between 1 and 5")
	ErrAuthorRequired     = errors.New("reviews: author is required")
	ErrNotReviewable      = errors.New("reviews: only properties can be reviewed")
	ErrOwnListing         = errors.New("reviews: owners cannot review their own listing")
	ErrDuplicateReview    = errors.New("reviews: listing already reviewed by this user")
	ErrStoreMisconfigured = errors.New("reviews: store requires repositories and an id source")
)

const (
	MinRating = 1
	MaxRating = 5
)

type ID string

type Review struct {
	ID        ID
	ListingID domainlistings.ListingID
	AuthorID  string
	Rating    int
	Comment   string
	CreatedAt time.Time
	events.EventRecorder
}

type NewParams struct {
	ID        ID
	ListingID domainlistings.ListingID
	AuthorID  string
	Rating    int
	Comment   string
	CreatedAt time.Time
}

// New validates params and builds a review. No event is recorded; Store.Submit
// does that once the listing has been checked.
func New(params NewParams) (*Review, error) {
	if params.Rating < MinRating || params.Rating > MaxRating {
		return nil, ErrInvalidRating
	}
	author := strings.TrimSpace(params.AuthorID)
	if author == "" {
		return nil, ErrAuthorRequired
	}
	return &Review{
		ID:        params.ID,
		ListingID: params.ListingID,
		AuthorID:  author,
		Rating:    params.Rating,
		Comment:   strings.TrimSpace(params.Comment),
		CreatedAt: params.CreatedAt.UTC(),
	}, nil
}

// Summary is the rating aggregate shown next to a listing.
type Summary struct {
	Count   int
	Average float64
}

// Summarize averages the ratings of items. An empty slice gives a zero summary.
func Summarize(items []*Review) Summary {
	if len(items) == 0 {
		return Summary{}
	}
	total := 0
	for _, r := range items {
		total += r.Rating
	}
	return Summary{Count: len(items), Average: float64(total) / float64(len(items))}
}

// Rounded returns the average to one decimal place.
func (s Summary) Rounded() float64 {
	return math.Round(s.Average*10) / 10
}
