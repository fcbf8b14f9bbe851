package notifications

import (
	"context"
	"errors"
	"strings"

	"rentcam/internal/app/commands"
	"rentcam/internal/app/dto"
	"rentcam/internal/app/queries"
	domainnotifications "rentcam/internal/domain/notifications"
)

const (
	addNotificationKey  = "notifications.add"
	markReadKey         = "notifications.read"
	markAllReadKey      = "notifications.read_all"
	clearKey            = "notifications.clear"
	listNotificationKey = "notifications.list"
)

var ErrInvalidKind = errors.New("notifications: kind must be rent or sale")

type AddNotificationCommand struct {
	RecipientID      string
	Title            string
	Message          string
	Kind             string
	RelatedListingID string
}

func (c AddNotificationCommand) Key() string     { return addNotificationKey }
func (c AddNotificationCommand) ActorID() string { return c.RecipientID }

type AddNotificationHandler struct {
	Store domainnotifications.Store
}

func (h *AddNotificationHandler) Handle(ctx context.Context, cmd AddNotificationCommand) (*dto.Notification, error) {
	kind := domainnotifications.Kind(strings.ToLower(strings.TrimSpace(cmd.Kind)))
	if kind != domainnotifications.KindRent && kind != domainnotifications.KindSale {
		return nil, ErrInvalidKind
	}
	n, err := h.Store.Add(ctx, cmd.RecipientID, domainnotifications.Draft{
		Title:            cmd.Title,
		Message:          cmd.Message,
		Kind:             kind,
		RelatedListingID: cmd.RelatedListingID,
	})
	if err != nil {
		return nil, err
	}
	out := dto.MapNotification(n)
	return &out, nil
}

type MarkReadCommand struct {
	RecipientID string
	ID          string
}

func (c MarkReadCommand) Key() string     { return markReadKey }
func (c MarkReadCommand) ActorID() string { return c.RecipientID }

type MarkAllReadCommand struct {
	RecipientID string
}

func (c MarkAllReadCommand) Key() string     { return markAllReadKey }
func (c MarkAllReadCommand) ActorID() string { return c.RecipientID }

type ClearCommand struct {
	RecipientID string
}

func (c ClearCommand) Key() string     { return clearKey }
func (c ClearCommand) ActorID() string { return c.RecipientID }

// InboxHandler serves the mutating inbox operations, all of which return the
// refreshed feed.
type InboxHandler struct {
	Store domainnotifications.Store
}

func (h *InboxHandler) MarkRead(ctx context.Context, cmd MarkReadCommand) (dto.NotificationFeed, error) {
	if err := h.Store.MarkRead(ctx, cmd.RecipientID, domainnotifications.ID(strings.TrimSpace(cmd.ID))); err != nil {
		return dto.NotificationFeed{}, err
	}
	return feed(ctx, h.Store, cmd.RecipientID)
}

func (h *InboxHandler) MarkAllRead(ctx context.Context, cmd MarkAllReadCommand) (dto.NotificationFeed, error) {
	if err := h.Store.MarkAllRead(ctx, cmd.RecipientID); err != nil {
		return dto.NotificationFeed{}, err
	}
	return feed(ctx, h.Store, cmd.RecipientID)
}

func (h *InboxHandler) Clear(ctx context.Context, cmd ClearCommand) (dto.NotificationFeed, error) {
	if err := h.Store.Clear(ctx, cmd.RecipientID); err != nil {
		return dto.NotificationFeed{}, err
	}
	return feed(ctx, h.Store, cmd.RecipientID)
}

type ListNotificationsQuery struct {
	RecipientID string
}

func (q ListNotificationsQuery) Key() string     { return listNotificationKey }
func (q ListNotificationsQuery) ActorID() string { return q.RecipientID }

type ListNotificationsHandler struct {
	Store domainnotifications.Store
}

func (h *ListNotificationsHandler) Handle(ctx context.Context, q ListNotificationsQuery) (dto.NotificationFeed, error) {
	return feed(ctx, h.Store, q.RecipientID)
}

func feed(ctx context.Context, store domainnotifications.Store, recipientID string) (dto.NotificationFeed, error) {
	items, err := store.List(ctx, recipientID)
	if err != nil {
		return dto.NotificationFeed{}, err
	}
	out := dto.NotificationFeed{Items: make([]dto.Notification, 0, len(items))}
	for _, n := range items {
		out.Items = append(out.Items, dto.MapNotification(n))
		if !n.Read {
			out.Unread++
		}
	}
	return out, nil
}

// Register wires every notification handler onto the buses.
func Register(cmds *commands.InMemoryBus, qs *queries.InMemoryBus, store domainnotifications.Store) {
	inbox := &InboxHandler{Store: store}
	commands.Register[AddNotificationCommand, *dto.Notification](cmds, &AddNotificationHandler{Store: store})
	commands.Register[MarkReadCommand, dto.NotificationFeed](cmds, commands.HandlerFunc[MarkReadCommand, dto.NotificationFeed](inbox.MarkRead))
	commands.Register[MarkAllReadCommand, dto.NotificationFeed](cmds, commands.HandlerFunc[MarkAllReadCommand, dto.NotificationFeed](inbox.MarkAllRead))
	commands.Register[ClearCommand, dto.NotificationFeed](cmds, commands.HandlerFunc[ClearCommand, dto.NotificationFeed](inbox.Clear))
	queries.Register[ListNotificationsQuery, dto.NotificationFeed](qs, &ListNotificationsHandler{Store: store})
}
