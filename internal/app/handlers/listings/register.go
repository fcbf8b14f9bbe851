package listings

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"rentcam/internal/app/commands"
	"rentcam/internal/app/dto"
	"rentcam/internal/app/policies"
	"rentcam/internal/app/queries"
	domainlistings "rentcam/internal/domain/listings"
)

// Deps are the collaborators shared by the listing use cases.
type Deps struct {
	Effects
	Repo     domainlistings.Repository
	Uploader policies.PhotoUploader
	CacheTTL time.Duration
	Logger   *slog.Logger
	Now      func() time.Time
}

// Register wires every listing handler onto the buses.
func Register(cmds *commands.InMemoryBus, qs *queries.InMemoryBus, d Deps) {
	store := domainlistings.Store{
		Repo:  d.Repo,
		NewID: func() domainlistings.ListingID { return domainlistings.ListingID(uuid.NewString()) },
		Now:   d.Now,
	}
	commands.Register[CreateListingCommand, *dto.Listing](cmds, &CreateListingHandler{Effects: d.Effects, Store: store, Logger: d.Logger})
	commands.Register[UpdateListingCommand, *dto.Listing](cmds, &UpdateListingHandler{Effects: d.Effects, Repo: d.Repo, Logger: d.Logger, Now: d.Now})
	commands.Register[SetAvailabilityCommand, *dto.Listing](cmds, &SetAvailabilityHandler{Effects: d.Effects, Repo: d.Repo, Now: d.Now})
	commands.Register[DeleteListingCommand, struct{}](cmds, &DeleteListingHandler{Effects: d.Effects, Repo: d.Repo, Logger: d.Logger, Now: d.Now})
	commands.Register[AttachPhotoCommand, *dto.PhotoUploadResult](cmds, &AttachPhotoHandler{Effects: d.Effects, Repo: d.Repo, Uploader: d.Uploader, Logger: d.Logger, Now: d.Now})
	queries.Register[SearchListingsQuery, dto.ListingPage](qs, &SearchListingsHandler{Repo: d.Repo, Cache: d.Cache, CacheTTL: d.CacheTTL, Logger: d.Logger})
	queries.Register[GetListingQuery, *dto.Listing](qs, &GetListingHandler{Repo: d.Repo})
}
