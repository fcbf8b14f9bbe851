package memory

import (
	"context"
	"sync"

	domainnotifications "rentcam/internal/domain/notifications"
)

// NotificationRepository keeps one newest-first feed per recipient.
type NotificationRepository struct {
	mu    sync.RWMutex
	feeds map[string][]*domainnotifications.Notification
}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{feeds: make(map[string][]*domainnotifications.Notification)}
}

func (r *NotificationRepository) Add(ctx context.Context, n *domainnotifications.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *n
	r.feeds[n.RecipientID] = append([]*domainnotifications.Notification{&stored}, r.feeds[n.RecipientID]...)
	return nil
}

func (r *NotificationRepository) List(ctx context.Context, recipientID string) ([]*domainnotifications.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	feed := r.feeds[recipientID]
	out := make([]*domainnotifications.Notification, 0, len(feed))
	for _, n := range feed {
		cp := *n
		out = append(out, &cp)
	}
	return out, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, recipientID string, id domainnotifications.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.feeds[recipientID] {
		if n.ID == id {
			n.Read = true
			return nil
		}
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, recipientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.feeds[recipientID] {
		n.Read = true
	}
	return nil
}

func (r *NotificationRepository) UnreadCount(ctx context.Context, recipientID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, n := range r.feeds[recipientID] {
		if !n.Read {
			count++
		}
	}
	return count, nil
}

func (r *NotificationRepository) Clear(ctx context.Context, recipientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.feeds, recipientID)
	return nil
}

var _ domainnotifications.Repository = (*NotificationRepository)(nil)
