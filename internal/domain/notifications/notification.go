package notifications

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrStoreMisconfigured = errors.New("notifications: store requires a repository")
	ErrRecipientRequired  = errors.New("notifications: recipient is required")
)

type ID string

// Kind tells the client which marketplace section a notification belongs to.
type Kind string

const (
	KindRent Kind = "rent"
	KindSale Kind = "sale"
)

type Notification struct {
	ID               ID
	RecipientID      string
	Title            string
	Message          string
	Kind             Kind
	Timestamp        time.Time
	Read             bool
	RelatedListingID string
}

// Draft is the caller-supplied part of a notification.
type Draft struct {
	Title            string
	Message          string
	Kind             Kind
	RelatedListingID string
}

// Repository keeps one newest-first feed per recipient. Unknown ids are
// ignored by MarkRead.
type Repository interface {
	Add(ctx context.Context, n *Notification) error
	List(ctx context.Context, recipientID string) ([]*Notification, error)
	MarkRead(ctx context.Context, recipientID string, id ID) error
	MarkAllRead(ctx context.Context, recipientID string) error
	UnreadCount(ctx context.Context, recipientID string) (int, error)
	Clear(ctx context.Context, recipientID string) error
}

// Store stamps new notifications and forwards the rest to the repository.
type Store struct {
	Repo  Repository
	NewID func() ID
	Now   func() time.Time
}

// Add stamps an id and timestamp and stores an unread notification.
func (s Store) Add(ctx context.Context, recipientID string, draft Draft) (*Notification, error) {
	if s.Repo == nil || s.NewID == nil {
		return nil, ErrStoreMisconfigured
	}
	recipientID = strings.TrimSpace(recipientID)
	if recipientID == "" {
		return nil, ErrRecipientRequired
	}
	n := &Notification{
		ID:               s.NewID(),
		RecipientID:      recipientID,
		Title:            strings.TrimSpace(draft.Title),
		Message:          strings.TrimSpace(draft.Message),
		Kind:             draft.Kind,
		Timestamp:        s.now(),
		RelatedListingID: strings.TrimSpace(draft.RelatedListingID),
	}
	if err := s.Repo.Add(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s Store) List(ctx context.Context, recipientID string) ([]*Notification, error) {
	if s.Repo == nil {
		return nil, ErrStoreMisconfigured
	}
	return s.Repo.List(ctx, recipientID)
}

func (s Store) MarkRead(ctx context.Context, recipientID string, id ID) error {
	if s.Repo == nil {
		return ErrStoreMisconfigured
	}
	return s.Repo.MarkRead(ctx, recipientID, id)
}

func (s Store) MarkAllRead(ctx context.Context, recipientID string) error {
	if s.Repo == nil {
		return ErrStoreMisconfigured
	}
	return s.Repo.MarkAllRead(ctx, recipientID)
}

func (s Store) UnreadCount(ctx context.Context, recipientID string) (int, error) {
	if s.Repo == nil {
		return 0, ErrStoreMisconfigured
	}
	return s.Repo.UnreadCount(ctx, recipientID)
}

func (s Store) Clear(ctx context.Context, recipientID string) error {
	if s.Repo == nil {
		return ErrStoreMisconfigured
	}
	return s.Repo.Clear(ctx, recipientID)
}

func (s Store) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
