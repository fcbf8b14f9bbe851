package ginserver

import (
	"errors"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"rentcam/internal/app/commands"
	listingapp "rentcam/internal/app/handlers/listings"
	messagingapp "rentcam/internal/app/handlers/messaging"
	notificationapp "rentcam/internal/app/handlers/notifications"
	"rentcam/internal/app/middleware"
	"rentcam/internal/app/queries"
	domainlistings "rentcam/internal/domain/listings"
	domainmessaging "rentcam/internal/domain/messaging"
	domainnotifications "rentcam/internal/domain/notifications"
	domainreviews "rentcam/internal/domain/reviews"
	domainuser "rentcam/internal/domain/user"
)

var (
	notFoundErrors = []error{
		domainlistings.ErrNotFound,
		domainmessaging.ErrThreadNotFound,
		domainuser.ErrNotFound,
	}
	forbiddenErrors = []error{
		domainlistings.ErrNotOwner,
		domainmessaging.ErrNotParticipant,
		domainreviews.ErrOwnListing,
	}
	badRequestErrors = []error{
		listingapp.ErrInvalidInput,
		domainlistings.ErrUnknownKind,
		domainlistings.ErrNegativePrice,
		domainlistings.ErrNegativeCount,
		domainlistings.ErrNotSaleItem,
		domainlistings.ErrNotAProperty,
		domainlistings.ErrEmptyPhotoURL,
		domainmessaging.ErrSelfConversation,
		domainmessaging.ErrParticipantNeeded,
		messagingapp.ErrListingRequired,
		notificationapp.ErrInvalidKind,
		domainnotifications.ErrRecipientRequired,
		domainuser.ErrNameRequired,
		domainuser.ErrInvalidType,
		domainreviews.ErrInvalidRating,
		domainreviews.ErrNotReviewable,
	}
	conflictErrors = []error{
		domainlistings.ErrDuplicateEntry,
		domainuser.ErrAlreadyLandlord,
		domainuser.ErrApplicationPending,
		domainuser.ErrEmailAlreadyUsed,
		domainreviews.ErrDuplicateReview,
	}
	unavailableErrors = []error{
		listingapp.ErrUploaderUnavailable,
		commands.ErrHandlerNotFound,
		queries.ErrHandlerNotFound,
	}
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, middleware.ErrUnauthenticated):
		return http.StatusUnauthorized
	case isAny(err, notFoundErrors):
		return http.StatusNotFound
	case isAny(err, forbiddenErrors):
		return http.StatusForbidden
	case isAny(err, badRequestErrors):
		return http.StatusBadRequest
	case isAny(err, conflictErrors):
		return http.StatusConflict
	case isAny(err, unavailableErrors):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err with its mapped status. Internal errors are logged
// and their message is not echoed to the client.
func respondError(c *gin.Context, logger *slog.Logger, err error, op string, attrs ...any) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		if logger != nil {
			logger.Error(op+" failed", append(attrs, "error", err, "request_id", c.GetString("request_id"))...)
		}
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
