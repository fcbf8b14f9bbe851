package dto

import (
	"time"

	domainmessaging "rentcam/internal/domain/messaging"
)

// Thread is a conversation as seen by one participant.
type Thread struct {
	ID              string    `json:"id"`
	Kind            string    `json:"kind"`
	ListingID       string    `json:"listing_id,omitempty"`
	Participants    []string  `json:"participants"`
	PeerID          string    `json:"peer_id"`
	LastMessage     string    `json:"last_message,omitempty"`
	LastMessageTime time.Time `json:"last_message_time"`
	UnreadCount     int       `json:"unread_count"`
	CreatedAt       time.Time `json:"created_at"`
}

type ThreadList struct {
	Items       []Thread `json:"items"`
	UnreadTotal int      `json:"unread_total"`
}

type ChatMessage struct {
	ID        string    `json:"id"`
	ThreadID  string    `json:"thread_id"`
	SenderID  string    `json:"sender_id"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
}

type ChatMessageList struct {
	Thread Thread        `json:"thread"`
	Items  []ChatMessage `json:"items"`
}

// SendResult reports whether a message was stored; blank content is not.
type SendResult struct {
	Sent    bool         `json:"sent"`
	Message *ChatMessage `json:"message,omitempty"`
}

type ReadResult struct {
	Marked int `json:"marked"`
}

type UnreadTotal struct {
	Unread int `json:"unread"`
}

func MapThread(t *domainmessaging.Thread, viewerID string, unread int) Thread {
	if t == nil {
		return Thread{}
	}
	return Thread{
		ID:              string(t.ID),
		Kind:            string(t.Kind),
		ListingID:       t.ListingID,
		Participants:    []string{t.ParticipantIDs[0], t.ParticipantIDs[1]},
		PeerID:          t.Peer(viewerID),
		LastMessage:     t.LastMessage,
		LastMessageTime: t.LastMessageTime,
		UnreadCount:     unread,
		CreatedAt:       t.CreatedAt,
	}
}

func MapChatMessage(m *domainmessaging.Message) ChatMessage {
	return ChatMessage{
		ID:        string(m.ID),
		ThreadID:  string(m.ThreadID),
		SenderID:  m.SenderID,
		Content:   m.Content,
		Timestamp: m.Timestamp,
		Read:      m.Read,
	}
}

type StartThreadResult struct {
	Thread  Thread `json:"thread"`
	Created bool   `json:"created"`
}
