package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"rentcam/internal/app/commands"
	"rentcam/internal/app/dto"
	notificationapp "rentcam/internal/app/handlers/notifications"
	"rentcam/internal/app/queries"
)

type NotificationHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

type addNotificationRequest struct {
	Title            string `json:"title" binding:"required"`
	Message          string `json:"message"`
	Kind             string `json:"type" binding:"required,oneof=rent sale"`
	RelatedListingID string `json:"related_listing_id"`
}

func (h NotificationHandler) List(c *gin.Context) {
	p, ok := requireUser(c)
	if !ok {
		return
	}
	feed, err := queries.Ask[notificationapp.ListNotificationsQuery, dto.NotificationFeed](c.Request.Context(), h.Queries, notificationapp.ListNotificationsQuery{RecipientID: p.ID})
	if err != nil {
		respondError(c, h.Logger, err, "list notifications")
		return
	}
	c.JSON(http.StatusOK, feed)
}

func (h NotificationHandler) Add(c *gin.Context) {
	p, ok := requireUser(c)
	if !ok {
		return
	}
	var req addNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := notificationapp.AddNotificationCommand{
		RecipientID:      p.ID,
		Title:            req.Title,
		Message:          req.Message,
		Kind:             req.Kind,
		RelatedListingID: req.RelatedListingID,
	}
	n, err := commands.Dispatch[notificationapp.AddNotificationCommand, *dto.Notification](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err, "add notification")
		return
	}
	c.JSON(http.StatusCreated, n)
}

func (h NotificationHandler) MarkRead(c *gin.Context) {
	p, ok := requireUser(c)
	if !ok {
		return
	}
	cmd := notificationapp.MarkReadCommand{RecipientID: p.ID, ID: c.Param("id")}
	feed, err := commands.Dispatch[notificationapp.MarkReadCommand, dto.NotificationFeed](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err, "mark notification read", "notification_id", cmd.ID)
		return
	}
	c.JSON(http.StatusOK, feed)
}

func (h NotificationHandler) MarkAllRead(c *gin.Context) {
	p, ok := requireUser(c)
	if !ok {
		return
	}
	feed, err := commands.Dispatch[notificationapp.MarkAllReadCommand, dto.NotificationFeed](c.Request.Context(), h.Commands, notificationapp.MarkAllReadCommand{RecipientID: p.ID})
	if err != nil {
		respondError(c, h.Logger, err, "mark all notifications read")
		return
	}
	c.JSON(http.StatusOK, feed)
}

func (h NotificationHandler) Clear(c *gin.Context) {
	p, ok := requireUser(c)
	if !ok {
		return
	}
	feed, err := commands.Dispatch[notificationapp.ClearCommand, dto.NotificationFeed](c.Request.Context(), h.Commands, notificationapp.ClearCommand{RecipientID: p.ID})
	if err != nil {
		respondError(c, h.Logger, err, "clear notifications")
		return
	}
	c.JSON(http.StatusOK, feed)
}

var _ NotificationHTTP = NotificationHandler{}
