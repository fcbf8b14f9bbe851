package dto

import (
	"time"

	domainnotifications "rentcam/internal/domain/notifications"
)

type Notification struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Message          string    `json:"message"`
	Kind             string    `json:"kind"`
	Timestamp        time.Time `json:"timestamp"`
	Read             bool      `json:"read"`
	RelatedListingID string    `json:"related_listing_id,omitempty"`
}

type NotificationFeed struct {
	Items  []Notification `json:"items"`
	Unread int            `json:"unread"`
}

func MapNotification(n *domainnotifications.Notification) Notification {
	return Notification{
		ID:               string(n.ID),
		Title:            n.Title,
		Message:          n.Message,
		Kind:             string(n.Kind),
		Timestamp:        n.Timestamp,
		Read:             n.Read,
		RelatedListingID: n.RelatedListingID,
	}
}
