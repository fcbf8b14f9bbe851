package profiles

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"rentcam/internal/app/commands"
	"rentcam/internal/app/dto"
	"rentcam/internal/app/queries"
	domainuser "rentcam/internal/domain/user"
)

const (
	getProfileKey    = "me.profile.get"
	updateProfileKey = "me.profile.update"
	applyLandlordKey = "me.landlord.apply"
)

type GetProfileQuery struct {
	UserID string
}

func (q GetProfileQuery) Key() string     { return getProfileKey }
func (q GetProfileQuery) ActorID() string { return q.UserID }

type GetProfileHandler struct {
	Repo domainuser.Repository
}

func (h *GetProfileHandler) Handle(ctx context.Context, q GetProfileQuery) (*dto.Profile, error) {
	profile, err := h.Repo.ByID(ctx, domainuser.ID(strings.TrimSpace(q.UserID)))
	if err != nil {
		return nil, err
	}
	out := dto.MapProfile(profile)
	return &out, nil
}

type UpdateProfileCommand struct {
	UserID  string
	Details domainuser.Details
}

func (c UpdateProfileCommand) Key() string     { return updateProfileKey }
func (c UpdateProfileCommand) ActorID() string { return c.UserID }

type UpdateProfileHandler struct {
	Repo   domainuser.Repository
	Logger *slog.Logger
	Now    func() time.Time
}

func (h *UpdateProfileHandler) Handle(ctx context.Context, cmd UpdateProfileCommand) (*dto.Profile, error) {
	profile, err := h.Repo.ByID(ctx, domainuser.ID(strings.TrimSpace(cmd.UserID)))
	if err != nil {
		return nil, err
	}
	if err := profile.UpdateDetails(cmd.Details, clock(h.Now)); err != nil {
		return nil, err
	}
	if err := h.Repo.Save(ctx, profile); err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("profile updated", "user_id", profile.ID)
	}
	out := dto.MapProfile(profile)
	return &out, nil
}

type ApplyLandlordCommand struct {
	UserID string
}

func (c ApplyLandlordCommand) Key() string     { return applyLandlordKey }
func (c ApplyLandlordCommand) ActorID() string { return c.UserID }

type ApplyLandlordHandler struct {
	Repo   domainuser.Repository
	Logger *slog.Logger
	Now    func() time.Time
}

func (h *ApplyLandlordHandler) Handle(ctx context.Context, cmd ApplyLandlordCommand) (*dto.Profile, error) {
	profile, err := h.Repo.ByID(ctx, domainuser.ID(strings.TrimSpace(cmd.UserID)))
	if err != nil {
		return nil, err
	}
	if err := profile.ApplyForLandlord(clock(h.Now)); err != nil {
		return nil, err
	}
	if err := h.Repo.Save(ctx, profile); err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("landlord application filed", "user_id", profile.ID)
	}
	out := dto.MapProfile(profile)
	return &out, nil
}

func clock(now func() time.Time) time.Time {
	if now != nil {
		return now()
	}
	return time.Now()
}

var (
	_ queries.Handler[GetProfileQuery, *dto.Profile]       = (*GetProfileHandler)(nil)
	_ commands.Handler[UpdateProfileCommand, *dto.Profile] = (*UpdateProfileHandler)(nil)
	_ commands.Handler[ApplyLandlordCommand, *dto.Profile] = (*ApplyLandlordHandler)(nil)
)

// Register wires the profile handlers onto the buses.
func Register(cmds *commands.InMemoryBus, qs *queries.InMemoryBus, repo domainuser.Repository, logger *slog.Logger) {
	queries.Register[GetProfileQuery, *dto.Profile](qs, &GetProfileHandler{Repo: repo})
	commands.Register[UpdateProfileCommand, *dto.Profile](cmds, &UpdateProfileHandler{Repo: repo, Logger: logger})
	commands.Register[ApplyLandlordCommand, *dto.Profile](cmds, &ApplyLandlordHandler{Repo: repo, Logger: logger})
}
