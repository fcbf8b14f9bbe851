package reviews

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"rentcam/internal/app/commands"
	"rentcam/internal/app/dto"
	appoutbox "rentcam/internal/app/outbox"
	"rentcam/internal/app/queries"
	domainlistings "rentcam/internal/domain/listings"
	domainreviews "rentcam/internal/domain/reviews"
	domainuser "rentcam/internal/domain/user"
)

const (
	submitReviewKey = "reviews.submit"
	listReviewsKey  = "reviews.listing.list"

	defaultReviewLimit = 20
	maxReviewLimit     = 100
)

// SubmitReviewCommand rates a property listing on behalf of AuthorID.
type SubmitReviewCommand struct {
	AuthorID  string
	ListingID string
	Rating    int
	Comment   string
}

func (c SubmitReviewCommand) Key() string     { return submitReviewKey }
func (c SubmitReviewCommand) ActorID() string { return c.AuthorID }

type SubmitReviewHandler struct {
	Store    domainreviews.Store
	Profiles domainuser.Repository
	Outbox   appoutbox.Outbox
	Encoder  appoutbox.EventEncoder
	Logger   *slog.Logger
}

func (h *SubmitReviewHandler) Handle(ctx context.Context, cmd SubmitReviewCommand) (*dto.Review, error) {
	review, err := h.Store.Submit(ctx, domainreviews.SubmitParams{
		ListingID: domainlistings.ListingID(cmd.ListingID),
		AuthorID:  cmd.AuthorID,
		Rating:    cmd.Rating,
		Comment:   cmd.Comment,
	})
	if err != nil {
		return nil, err
	}
	if err := appoutbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, review.DrainEvents()); err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("review submitted", "review_id", review.ID, "listing_id", review.ListingID, "author_id", review.AuthorID, "rating", review.Rating)
	}
	out := withAuthor(ctx, h.Profiles, dto.MapReview(review))
	return &out, nil
}

// ListReviewsQuery pages through a listing's reviews. It is public and carries
// no actor.
type ListReviewsQuery struct {
	ListingID string
	Limit     int
	Offset    int
}

func (q ListReviewsQuery) Key() string { return listReviewsKey }

type ListReviewsHandler struct {
	Store    domainreviews.Store
	Listings domainlistings.Repository
	Profiles domainuser.Repository
	Logger   *slog.Logger
}

func (h *ListReviewsHandler) Handle(ctx context.Context, q ListReviewsQuery) (dto.ReviewCollection, error) {
	listingID := domainlistings.ListingID(strings.TrimSpace(q.ListingID))
	if _, err := h.Listings.ByID(ctx, listingID); err != nil {
		return dto.ReviewCollection{}, err
	}
	all, summary, err := h.Store.List(ctx, listingID)
	if err != nil {
		return dto.ReviewCollection{}, err
	}

	limit := normalizeLimit(q.Limit)
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}
	start := offset
	if start > len(all) {
		start = len(all)
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}

	out := dto.ReviewCollection{
		Items:         make([]dto.Review, 0, end-start),
		Total:         summary.Count,
		AverageRating: summary.Rounded(),
		Limit:         limit,
		Offset:        offset,
	}
	for _, review := range all[start:end] {
		out.Items = append(out.Items, withAuthor(ctx, h.Profiles, dto.MapReview(review)))
	}
	if h.Logger != nil {
		h.Logger.Debug("listing reviews listed", "listing_id", listingID, "count", len(out.Items), "total", out.Total)
	}
	return out, nil
}

// withAuthor adds the author's display name and avatar. A missing profile
// leaves the review anonymous.
func withAuthor(ctx context.Context, profiles domainuser.Repository, review dto.Review) dto.Review {
	if profiles == nil {
		return review
	}
	profile, err := profiles.ByID(ctx, domainuser.ID(review.AuthorID))
	if err != nil {
		return review
	}
	review.AuthorName = profile.Name
	review.AuthorAvatar = profile.AvatarURL
	return review
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultReviewLimit
	}
	if limit > maxReviewLimit {
		return maxReviewLimit
	}
	return limit
}

type Deps struct {
	Repo     domainreviews.Repository
	Listings domainlistings.Repository
	Profiles domainuser.Repository
	Outbox   appoutbox.Outbox
	Encoder  appoutbox.EventEncoder
	Logger   *slog.Logger
}

// Register wires the review handlers onto the buses.
func Register(cmds *commands.InMemoryBus, qs *queries.InMemoryBus, d Deps) {
	store := domainreviews.Store{
		Repo:     d.Repo,
		Listings: d.Listings,
		NewID:    func() domainreviews.ID { return domainreviews.ID(uuid.NewString()) },
	}
	commands.Register[SubmitReviewCommand, *dto.Review](cmds, &SubmitReviewHandler{Store: store, Profiles: d.Profiles, Outbox: d.Outbox, Encoder: d.Encoder, Logger: d.Logger})
	queries.Register[ListReviewsQuery, dto.ReviewCollection](qs, &ListReviewsHandler{Store: store, Listings: d.Listings, Profiles: d.Profiles, Logger: d.Logger})
}

var (
	_ commands.Handler[SubmitReviewCommand, *dto.Review]      = (*SubmitReviewHandler)(nil)
	_ queries.Handler[ListReviewsQuery, dto.ReviewCollection] = (*ListReviewsHandler)(nil)
)
