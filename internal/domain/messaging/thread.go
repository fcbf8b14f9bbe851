package messaging

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrThreadNotFound    = errors.New("messaging: thread not found")
	ErrNotParticipant    = errors.New("messaging: user is not a participant")
	ErrSelfConversation  = errors.New("messaging: cannot start a thread with yourself")
	ErrParticipantNeeded = errors.New("messaging: both participants are required")
	ErrUnknownThreadKind = errors.New("messaging: unknown thread kind")
)

type ThreadID string
type MessageID string

// ThreadKind records which ingestion format produced a thread. It is decided
// once when the thread enters the system.
type ThreadKind string

const (
	KindConversation ThreadKind = "conversation"
	KindLegacyChat   ThreadKind = "legacy-chat"
)

func (k ThreadKind) Valid() bool {
	return k == KindConversation || k == KindLegacyChat
}

// Thread is a conversation between exactly two users, usually about a listing.
type Thread struct {
	ID              ThreadID
	Kind            ThreadKind
	ListingID       string
	ParticipantIDs  [2]string
	LastMessage     string
	LastMessageTime time.Time
	CreatedAt       time.Time
}

// Message is immutable apart from the one-way Read flag.
type Message struct {
	ID        MessageID
	ThreadID  ThreadID
	SenderID  string
	Content   string
	Timestamp time.Time
	Read      bool
}

// Repository persists threads and their messages. Message read flags are the
// only read-state kept; unread counts are derived from them.
type Repository interface {
	Thread(ctx context.Context, id ThreadID) (*Thread, error)
	FindThread(ctx context.Context, listingID string, participants [2]string) (*Thread, error)
	SaveThread(ctx context.Context, thread *Thread) error
	ThreadsFor(ctx context.Context, userID string) ([]*Thread, error)
	AppendMessage(ctx context.Context, msg *Message) error
	Messages(ctx context.Context, id ThreadID) ([]*Message, error)
	// MarkRead flips every unread message in the thread not sent by readerID
	// and returns how many changed.
	MarkRead(ctx context.Context, id ThreadID, readerID string) (int, error)
	// UnreadCount counts unread messages in the thread not sent by viewerID.
	UnreadCount(ctx context.Context, id ThreadID, viewerID string) (int, error)
}

// NewThread validates participants and returns a thread with canonical
// participant order.
func NewThread(id ThreadID, kind ThreadKind, listingID, a, b string, now time.Time) (*Thread, error) {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	if a == "" || b == "" {
		return nil, ErrParticipantNeeded
	}
	if a == b {
		return nil, ErrSelfConversation
	}
	if kind == "" {
		kind = KindConversation
	}
	if !kind.Valid() {
		return nil, ErrUnknownThreadKind
	}
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()
	return &Thread{
		ID:              id,
		Kind:            kind,
		ListingID:       strings.TrimSpace(listingID),
		ParticipantIDs:  Participants(a, b),
		CreatedAt:       now,
		LastMessageTime: now,
	}, nil
}

// Participants returns a and b in canonical (sorted) order.
func Participants(a, b string) [2]string {
	if b < a {
		return [2]string{b, a}
	}
	return [2]string{a, b}
}

func (t *Thread) HasParticipant(userID string) bool {
	return t != nil && userID != "" && (t.ParticipantIDs[0] == userID || t.ParticipantIDs[1] == userID)
}

// Peer returns the participant that is not userID.
func (t *Thread) Peer(userID string) string {
	if t.ParticipantIDs[0] == userID {
		return t.ParticipantIDs[1]
	}
	return t.ParticipantIDs[0]
}

func (t *Thread) recordMessage(msg *Message) {
	t.LastMessage = msg.Content
	t.LastMessageTime = msg.Timestamp
}

func (t *Thread) Clone() *Thread {
	if t == nil {
		return nil
	}
	out := *t
	return &out
}

// MarkRead performs the unread -> read transition and reports whether it
// changed anything.
func (m *Message) MarkRead() bool {
	if m.Read {
		return false
	}
	m.Read = true
	return true
}

// UnreadFor reports whether the message counts as unread for viewerID.
func (m *Message) UnreadFor(viewerID string) bool {
	return !m.Read && m.SenderID != viewerID
}

func (m *Message) Clone() *Message {
	if m == nil {
		return nil
	}
	out := *m
	return &out
}
