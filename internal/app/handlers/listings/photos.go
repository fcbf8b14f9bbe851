package listings

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"rentcam/internal/app/commands"
	"rentcam/internal/app/dto"
	"rentcam/internal/app/policies"
	domainlistings "rentcam/internal/domain/listings"
)

var ErrUploaderUnavailable = errors.New("listings: photo uploader unavailable")

type AttachPhotoCommand struct {
	OwnerID     string
	ListingID   string
	FileName    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

func (c AttachPhotoCommand) Key() string     { return attachPhotoKey }
func (c AttachPhotoCommand) ActorID() string { return c.OwnerID }

// AttachPhotoHandler uploads a photo and appends its public URL to the
// listing's images.
type AttachPhotoHandler struct {
	Effects
	Repo     domainlistings.Repository
	Uploader policies.PhotoUploader
	Logger   *slog.Logger
	Now      func() time.Time
}

func (h *AttachPhotoHandler) Handle(ctx context.Context, cmd AttachPhotoCommand) (*dto.PhotoUploadResult, error) {
	if h.Uploader == nil {
		return nil, ErrUploaderUnavailable
	}
	if cmd.Reader == nil {
		return nil, fmt.Errorf("%w: photo is required", ErrInvalidInput)
	}
	listing, err := loadOwned(ctx, h.Repo, cmd.OwnerID, cmd.ListingID)
	if err != nil {
		return nil, err
	}

	objectKey := photoObjectKey(listing.ID, cmd.FileName)
	url, err := h.Uploader.Upload(ctx, objectKey, cmd.Reader, cmd.Size, cmd.ContentType)
	if err != nil {
		return nil, fmt.Errorf("upload photo: %w", err)
	}
	updated, err := h.Repo.UpdateFields(ctx, listing.ID, domainlistings.Patch{AddImages: []string{url}}, now(h.Now))
	if err != nil {
		return nil, err
	}
	if err := h.commit(ctx, updated.DrainEvents()); err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("listing photo added", "listing_id", listing.ID, "object_key", objectKey)
	}
	return &dto.PhotoUploadResult{
		ListingID: string(updated.ID),
		URL:       url,
		Images:    append([]string(nil), updated.Images...),
	}, nil
}

func photoObjectKey(id domainlistings.ListingID, fileName string) string {
	ext := strings.ToLower(path.Ext(strings.TrimSpace(fileName)))
	if len(ext) > 8 {
		ext = ""
	}
	return fmt.Sprintf("listings/%s/%s%s", id, uuid.NewString(), ext)
}

var _ commands.Handler[AttachPhotoCommand, *dto.PhotoUploadResult] = (*AttachPhotoHandler)(nil)
