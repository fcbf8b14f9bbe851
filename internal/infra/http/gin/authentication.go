package ginserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"

	domainuser "rentcam/internal/domain/user"
)

const (
	principalContextKey = "rentcam.principal"
	userHeader          = "X-User-ID"
)

type principal struct {
	ID       string
	Name     string
	Type     domainuser.Type
	Verified bool
}

func (p principal) IsLandlord() bool {
	return p.Type == domainuser.TypeLandlord
}

// AuthMiddleware trusts the X-User-ID header as the caller identity and, when
// a profile exists for it, attaches the profile's user type. There is no
// credential check.
type AuthMiddleware struct {
	Profiles domainuser.Repository
	Logger   *slog.Logger
}

func (m AuthMiddleware) Handle(c *gin.Context) {
	id := strings.TrimSpace(c.GetHeader(userHeader))
	if id == "" {
		c.Next()
		return
	}
	p := principal{ID: id}
	if m.Profiles != nil {
		profile, err := m.Profiles.ByID(c.Request.Context(), domainuser.ID(id))
		switch {
		case err == nil:
			p.Name = profile.Name
			p.Type = profile.Type
			p.Verified = profile.Verified
		case !errors.Is(err, domainuser.ErrNotFound) && m.Logger != nil:
			m.Logger.Debug("principal profile lookup failed", "user_id", id, "error", err)
		}
	}
	c.Set(principalContextKey, p)
	c.Next()
}

func currentPrincipal(c *gin.Context) (principal, bool) {
	val, exists := c.Get(principalContextKey)
	if !exists {
		return principal{}, false
	}
	p, ok := val.(principal)
	return p, ok
}

func requireUser(c *gin.Context) (principal, bool) {
	p, ok := currentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "auth required"})
		return principal{}, false
	}
	return p, true
}

// requireLandlord reports whether p may post properties and answers 403 when
// it may not.
func requireLandlord(c *gin.Context, p principal) bool {
	if !p.IsLandlord() {
		c.JSON(http.StatusForbidden, gin.H{"error": "only landlords can post properties"})
		return false
	}
	return true
}
