package messaging

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"rentcam/internal/app/commands"
	"rentcam/internal/app/dto"
	appoutbox "rentcam/internal/app/outbox"
	domainlistings "rentcam/internal/domain/listings"
	domainmessaging "rentcam/internal/domain/messaging"
	"rentcam/internal/domain/shared/events"
)

const (
	startThreadKey    = "messaging.threads.start"
	sendMessageKey    = "messaging.messages.send"
	markThreadReadKey = "messaging.threads.read"
	markAllReadKey    = "messaging.threads.read_all"
	listThreadsKey    = "messaging.threads.list"
	listMessagesKey   = "messaging.messages.list"
	unreadTotalKey    = "messaging.unread_total"
)

var ErrListingRequired = errors.New("messaging: listing id is required")

// StartThreadCommand opens (or reopens) the conversation between the caller
// and the owner of a listing.
type StartThreadCommand struct {
	RequesterID string
	ListingID   string
}

func (c StartThreadCommand) Key() string     { return startThreadKey }
func (c StartThreadCommand) ActorID() string { return c.RequesterID }

type StartThreadHandler struct {
	Store    domainmessaging.Store
	Listings domainlistings.Repository
	Logger   *slog.Logger
}

func (h *StartThreadHandler) Handle(ctx context.Context, cmd StartThreadCommand) (*dto.StartThreadResult, error) {
	listingID := strings.TrimSpace(cmd.ListingID)
	if listingID == "" {
		return nil, ErrListingRequired
	}
	listing, err := h.Listings.ByID(ctx, domainlistings.ListingID(listingID))
	if err != nil {
		return nil, err
	}
	thread, created, err := h.Store.StartThread(ctx, listingID, cmd.RequesterID, string(listing.OwnerID))
	if err != nil {
		return nil, err
	}
	if created && h.Logger != nil {
		h.Logger.Info("thread started", "thread_id", thread.ID, "listing_id", listingID)
	}
	unread, err := h.Store.Repo.UnreadCount(ctx, thread.ID, cmd.RequesterID)
	if err != nil {
		return nil, err
	}
	return &dto.StartThreadResult{Thread: dto.MapThread(thread, cmd.RequesterID, unread), Created: created}, nil
}

type SendMessageCommand struct {
	SenderID string
	ThreadID string
	Content  string
}

func (c SendMessageCommand) Key() string     { return sendMessageKey }
func (c SendMessageCommand) ActorID() string { return c.SenderID }

type SendMessageHandler struct {
	Store   domainmessaging.Store
	Outbox  appoutbox.Outbox
	Encoder appoutbox.EventEncoder
	Logger  *slog.Logger
}

func (h *SendMessageHandler) Handle(ctx context.Context, cmd SendMessageCommand) (dto.SendResult, error) {
	threadID := domainmessaging.ThreadID(strings.TrimSpace(cmd.ThreadID))
	msg, sent, err := h.Store.SendMessage(ctx, threadID, cmd.SenderID, cmd.Content)
	if err != nil || !sent {
		return dto.SendResult{}, err
	}
	thread, err := h.Store.Repo.Thread(ctx, threadID)
	if err != nil {
		return dto.SendResult{}, err
	}
	ev := domainmessaging.MessageSentEvent{
		ThreadID:    thread.ID,
		MessageID:   msg.ID,
		SenderID:    msg.SenderID,
		RecipientID: thread.Peer(msg.SenderID),
		ListingID:   thread.ListingID,
		At:          msg.Timestamp,
	}
	if err := appoutbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, []events.DomainEvent{ev}); err != nil {
		return dto.SendResult{}, err
	}
	if h.Logger != nil {
		h.Logger.Debug("message sent", "thread_id", thread.ID, "message_id", msg.ID)
	}
	out := dto.MapChatMessage(msg)
	return dto.SendResult{Sent: true, Message: &out}, nil
}

type MarkThreadReadCommand struct {
	ReaderID string
	ThreadID string
}

func (c MarkThreadReadCommand) Key() string     { return markThreadReadKey }
func (c MarkThreadReadCommand) ActorID() string { return c.ReaderID }

type MarkThreadReadHandler struct {
	Store domainmessaging.Store
}

func (h *MarkThreadReadHandler) Handle(ctx context.Context, cmd MarkThreadReadCommand) (dto.ReadResult, error) {
	n, err := h.Store.MarkThreadRead(ctx, domainmessaging.ThreadID(strings.TrimSpace(cmd.ThreadID)), cmd.ReaderID)
	if err != nil {
		return dto.ReadResult{}, err
	}
	return dto.ReadResult{Marked: n}, nil
}

type MarkAllThreadsReadCommand struct {
	UserID string
}

func (c MarkAllThreadsReadCommand) Key() string     { return markAllReadKey }
func (c MarkAllThreadsReadCommand) ActorID() string { return c.UserID }

type MarkAllThreadsReadHandler struct {
	Store domainmessaging.Store
}

func (h *MarkAllThreadsReadHandler) Handle(ctx context.Context, cmd MarkAllThreadsReadCommand) (dto.ReadResult, error) {
	n, err := h.Store.MarkAllRead(ctx, cmd.UserID)
	if err != nil {
		return dto.ReadResult{}, err
	}
	return dto.ReadResult{Marked: n}, nil
}

var (
	_ commands.Handler[StartThreadCommand, *dto.StartThreadResult] = (*StartThreadHandler)(nil)
	_ commands.Handler[SendMessageCommand, dto.SendResult]         = (*SendMessageHandler)(nil)
	_ commands.Handler[MarkThreadReadCommand, dto.ReadResult]      = (*MarkThreadReadHandler)(nil)
	_ commands.Handler[MarkAllThreadsReadCommand, dto.ReadResult]  = (*MarkAllThreadsReadHandler)(nil)
)
