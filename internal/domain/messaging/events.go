package messaging

import "time"

const EventMessageSent = "message.sent"

type MessageSentEvent struct {
	ThreadID    ThreadID  `json:"thread_id"`
	MessageID   MessageID `json:"message_id"`
	SenderID    string    `json:"sender_id"`
	RecipientID string    `json:"recipient_id"`
	ListingID   string    `json:"listing_id,omitempty"`
	At          time.Time `json:"at"`
}

func (e MessageSentEvent) EventName() string     { return EventMessageSent }
func (e MessageSentEvent) AggregateID() string   { return string(e.ThreadID) }
func (e MessageSentEvent) OccurredAt() time.Time { return e.At }
