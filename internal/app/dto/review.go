package dto

import (
	"time"

	domainreviews "rentcam/internal/domain/reviews"
)

// Review is the public review payload. Author details are filled in when the
// author's profile is known.
type Review struct {
	ID           string    `json:"id"`
	ListingID    string    `json:"listing_id"`
	AuthorID     string    `json:"author_id"`
	AuthorName   string    `json:"author_name,omitempty"`
	AuthorAvatar string    `json:"author_avatar,omitempty"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// ReviewCollection is one page of a listing's reviews. Total and
// AverageRating cover every review of the listing, not just the page.
type ReviewCollection struct {
	Items         []Review `json:"items"`
	Total         int      `json:"total"`
	AverageRating float64  `json:"average_rating"`
	Limit         int      `json:"limit"`
	Offset        int      `json:"offset"`
}

func MapReview(review *domainreviews.Review) Review {
	if review == nil {
		return Review{}
	}
	return Review{
		ID:        string(review.ID),
		ListingID: string(review.ListingID),
		AuthorID:  review.AuthorID,
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt,
	}
}
