package messaging

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"
)

var ErrStoreMisconfigured = errors.New("messaging: store requires a repository and id generators")

// Store implements the conversation use cases on top of a Repository.
type Store struct {
	Repo         Repository
	NewThreadID  func() ThreadID
	NewMessageID func() MessageID
	Now          func() time.Time
}

// ThreadSummary is a thread as seen by one participant.
type ThreadSummary struct {
	Thread      *Thread
	UnreadCount int
}

// StartThread returns the existing thread between requester and owner about
// listingID, creating it on first contact. created reports which happened.
func (s Store) StartThread(ctx context.Context, listingID, requesterID, ownerID string) (thread *Thread, created bool, err error) {
	if err := s.check(); err != nil {
		return nil, false, err
	}
	requesterID = strings.TrimSpace(requesterID)
	ownerID = strings.TrimSpace(ownerID)
	if requesterID == "" || ownerID == "" {
		return nil, false, ErrParticipantNeeded
	}
	if requesterID == ownerID {
		return nil, false, ErrSelfConversation
	}
	listingID = strings.TrimSpace(listingID)
	existing, err := s.Repo.FindThread(ctx, listingID, Participants(requesterID, ownerID))
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrThreadNotFound) {
		return nil, false, err
	}
	thread, err = NewThread(s.NewThreadID(), KindConversation, listingID, requesterID, ownerID, s.now())
	if err != nil {
		return nil, false, err
	}
	if err := s.Repo.SaveThread(ctx, thread); err != nil {
		return nil, false, err
	}
	return thread, true, nil
}

// SendMessage appends an unread message and moves the thread's last-message
// preview. Blank content is a silent no-op: sent is false, nothing is stored
// and the thread is left untouched. Content is stored as typed.
func (s Store) SendMessage(ctx context.Context, threadID ThreadID, senderID, content string) (msg *Message, sent bool, err error) {
	if strings.TrimSpace(content) == "" {
		return nil, false, nil
	}
	if err := s.check(); err != nil {
		return nil, false, err
	}
	thread, err := s.Repo.Thread(ctx, threadID)
	if err != nil {
		return nil, false, err
	}
	if !thread.HasParticipant(senderID) {
		return nil, false, ErrNotParticipant
	}
	msg = &Message{
		ID:        s.NewMessageID(),
		ThreadID:  thread.ID,
		SenderID:  senderID,
		Content:   content,
		Timestamp: s.now(),
	}
	if err := s.Repo.AppendMessage(ctx, msg); err != nil {
		return nil, false, err
	}
	thread.recordMessage(msg)
	if err := s.Repo.SaveThread(ctx, thread); err != nil {
		return nil, false, err
	}
	return msg, true, nil
}

// MarkThreadRead marks everything the peer sent in the thread as read for
// readerID. Calling it again changes nothing.
func (s Store) MarkThreadRead(ctx context.Context, threadID ThreadID, readerID string) (int, error) {
	if err := s.check(); err != nil {
		return 0, err
	}
	thread, err := s.Repo.Thread(ctx, threadID)
	if err != nil {
		return 0, err
	}
	if !thread.HasParticipant(readerID) {
		return 0, ErrNotParticipant
	}
	return s.Repo.MarkRead(ctx, thread.ID, readerID)
}

// MarkAllRead marks every thread of userID as read.
func (s Store) MarkAllRead(ctx context.Context, userID string) (int, error) {
	if err := s.check(); err != nil {
		return 0, err
	}
	threads, err := s.Repo.ThreadsFor(ctx, userID)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, thread := range threads {
		n, err := s.Repo.MarkRead(ctx, thread.ID, userID)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// UnreadTotal sums the unread counts of every thread visible to userID.
func (s Store) UnreadTotal(ctx context.Context, userID string) (int, error) {
	summaries, err := s.ListThreads(ctx, userID)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, summary := range summaries {
		total += summary.UnreadCount
	}
	return total, nil
}

// ListThreads returns userID's threads, most recently active first.
func (s Store) ListThreads(ctx context.Context, userID string) ([]ThreadSummary, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	threads, err := s.Repo.ThreadsFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]ThreadSummary, 0, len(threads))
	for _, thread := range threads {
		unread, err := s.Repo.UnreadCount(ctx, thread.ID, userID)
		if err != nil {
			return nil, err
		}
		out = append(out, ThreadSummary{Thread: thread, UnreadCount: unread})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Thread.LastMessageTime.After(out[j].Thread.LastMessageTime)
	})
	return out, nil
}

// Messages returns the thread's messages in chronological order. Only
// participants may read them.
func (s Store) Messages(ctx context.Context, threadID ThreadID, viewerID string) (*Thread, []*Message, error) {
	if err := s.check(); err != nil {
		return nil, nil, err
	}
	thread, err := s.Repo.Thread(ctx, threadID)
	if err != nil {
		return nil, nil, err
	}
	if !thread.HasParticipant(viewerID) {
		return nil, nil, ErrNotParticipant
	}
	msgs, err := s.Repo.Messages(ctx, thread.ID)
	if err != nil {
		return nil, nil, err
	}
	return thread, msgs, nil
}

// Import stores a thread with its history as-is. Used for seeding.
func (s Store) Import(ctx context.Context, thread *Thread, msgs []*Message) error {
	if s.Repo == nil {
		return ErrStoreMisconfigured
	}
	if thread == nil {
		return ErrThreadNotFound
	}
	if !thread.Kind.Valid() {
		return ErrUnknownThreadKind
	}
	sort.SliceStable(msgs, func(i, j int) bool { return msgs[i].Timestamp.Before(msgs[j].Timestamp) })
	for _, msg := range msgs {
		msg.ThreadID = thread.ID
		if err := s.Repo.AppendMessage(ctx, msg); err != nil {
			return err
		}
		thread.recordMessage(msg)
	}
	return s.Repo.SaveThread(ctx, thread)
}

func (s Store) check() error {
	if s.Repo == nil || s.NewThreadID == nil || s.NewMessageID == nil {
		return ErrStoreMisconfigured
	}
	return nil
}

func (s Store) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
