package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"rentcam/internal/app/commands"
	"rentcam/internal/app/dto"
	profileapp "rentcam/internal/app/handlers/profiles"
	"rentcam/internal/app/queries"
	domainuser "rentcam/internal/domain/user"
)

// MeHandler serves the caller's own profile.
type MeHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

type updateProfileRequest struct {
	Name      *string `json:"name" binding:"omitempty,min=1"`
	Phone     *string `json:"phone"`
	Bio       *string `json:"bio" binding:"omitempty,max=500"`
	AvatarURL *string `json:"avatar_url" binding:"omitempty,url"`
}

func (h MeHandler) Get(c *gin.Context) {
	p, ok := requireUser(c)
	if !ok {
		return
	}
	profile, err := queries.Ask[profileapp.GetProfileQuery, *dto.Profile](c.Request.Context(), h.Queries, profileapp.GetProfileQuery{UserID: p.ID})
	if err != nil {
		respondError(c, h.Logger, err, "get profile", "user_id", p.ID)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h MeHandler) Update(c *gin.Context) {
	p, ok := requireUser(c)
	if !ok {
		return
	}
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := profileapp.UpdateProfileCommand{
		UserID: p.ID,
		Details: domainuser.Details{
			Name:      req.Name,
			Phone:     req.Phone,
			Bio:       req.Bio,
			AvatarURL: req.AvatarURL,
		},
	}
	profile, err := commands.Dispatch[profileapp.UpdateProfileCommand, *dto.Profile](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err, "update profile", "user_id", p.ID)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h MeHandler) ApplyLandlord(c *gin.Context) {
	p, ok := requireUser(c)
	if !ok {
		return
	}
	profile, err := commands.Dispatch[profileapp.ApplyLandlordCommand, *dto.Profile](c.Request.Context(), h.Commands, profileapp.ApplyLandlordCommand{UserID: p.ID})
	if err != nil {
		respondError(c, h.Logger, err, "apply for landlord", "user_id", p.ID)
		return
	}
	c.JSON(http.StatusAccepted, profile)
}

var _ MeHTTP = MeHandler{}
