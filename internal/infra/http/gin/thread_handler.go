package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"rentcam/internal/app/commands"
	"rentcam/internal/app/dto"
	messagingapp "rentcam/internal/app/handlers/messaging"
	"rentcam/internal/app/queries"
)

// ThreadHandler bridges HTTP with the conversation use cases.
type ThreadHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

type sendMessageRequest struct {
	Content string `json:"content"`
}

// Start opens (or returns) the conversation between the caller and the
// listing owner.
func (h ThreadHandler) Start(c *gin.Context) {
	p, ok := requireUser(c)
	if !ok {
		return
	}
	cmd := messagingapp.StartThreadCommand{RequesterID: p.ID, ListingID: c.Param("id")}
	result, err := commands.Dispatch[messagingapp.StartThreadCommand, *dto.StartThreadResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err, "start thread", "listing_id", cmd.ListingID)
		return
	}
	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	c.JSON(status, result)
}

func (h ThreadHandler) List(c *gin.Context) {
	p, ok := requireUser(c)
	if !ok {
		return
	}
	list, err := queries.Ask[messagingapp.ListThreadsQuery, dto.ThreadList](c.Request.Context(), h.Queries, messagingapp.ListThreadsQuery{UserID: p.ID})
	if err != nil {
		respondError(c, h.Logger, err, "list threads")
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h ThreadHandler) UnreadTotal(c *gin.Context) {
	p, ok := requireUser(c)
	if !ok {
		return
	}
	total, err := queries.Ask[messagingapp.UnreadTotalQuery, dto.UnreadTotal](c.Request.Context(), h.Queries, messagingapp.UnreadTotalQuery{UserID: p.ID})
	if err != nil {
		respondError(c, h.Logger, err, "unread total")
		return
	}
	c.JSON(http.StatusOK, total)
}

func (h ThreadHandler) MarkAllRead(c *gin.Context) {
	p, ok := requireUser(c)
	if !ok {
		return
	}
	result, err := commands.Dispatch[messagingapp.MarkAllThreadsReadCommand, dto.ReadResult](c.Request.Context(), h.Commands, messagingapp.MarkAllThreadsReadCommand{UserID: p.ID})
	if err != nil {
		respondError(c, h.Logger, err, "mark all threads read")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ThreadHandler) Messages(c *gin.Context) {
	p, ok := requireUser(c)
	if !ok {
		return
	}
	query := messagingapp.ListMessagesQuery{ViewerID: p.ID, ThreadID: c.Param("id")}
	list, err := queries.Ask[messagingapp.ListMessagesQuery, dto.ChatMessageList](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, err, "list messages", "thread_id", query.ThreadID)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Send stores a message. Blank content is accepted and ignored with 204.
func (h ThreadHandler) Send(c *gin.Context) {
	p, ok := requireUser(c)
	if !ok {
		return
	}
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := messagingapp.SendMessageCommand{SenderID: p.ID, ThreadID: c.Param("id"), Content: req.Content}
	result, err := commands.Dispatch[messagingapp.SendMessageCommand, dto.SendResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err, "send message", "thread_id", cmd.ThreadID)
		return
	}
	if !result.Sent {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusCreated, result.Message)
}

func (h ThreadHandler) MarkRead(c *gin.Context) {
	p, ok := requireUser(c)
	if !ok {
		return
	}
	cmd := messagingapp.MarkThreadReadCommand{ReaderID: p.ID, ThreadID: c.Param("id")}
	result, err := commands.Dispatch[messagingapp.MarkThreadReadCommand, dto.ReadResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err, "mark thread read", "thread_id", cmd.ThreadID)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ ThreadHTTP = ThreadHandler{}
