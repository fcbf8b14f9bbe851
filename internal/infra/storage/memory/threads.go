package memory

import (
	"context"
	"sync"

	domainmessaging "rentcam/internal/domain/messaging"
)

// ThreadRepository stores conversation threads and their messages in memory.
type ThreadRepository struct {
	mu       sync.RWMutex
	threads  map[domainmessaging.ThreadID]*domainmessaging.Thread
	messages map[domainmessaging.ThreadID][]*domainmessaging.Message
}

func NewThreadRepository() *ThreadRepository {
	return &ThreadRepository{
		threads:  make(map[domainmessaging.ThreadID]*domainmessaging.Thread),
		messages: make(map[domainmessaging.ThreadID][]*domainmessaging.Message),
	}
}

func (r *ThreadRepository) Thread(ctx context.Context, id domainmessaging.ThreadID) (*domainmessaging.Thread, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	thread, ok := r.threads[id]
	if !ok {
		return nil, domainmessaging.ErrThreadNotFound
	}
	return thread.Clone(), nil
}

// FindThread locates the thread for a listing between the two participants.
func (r *ThreadRepository) FindThread(ctx context.Context, listingID string, participants [2]string) (*domainmessaging.Thread, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, thread := range r.threads {
		if thread.ListingID == listingID && thread.ParticipantIDs == participants {
			return thread.Clone(), nil
		}
	}
	return nil, domainmessaging.ErrThreadNotFound
}

func (r *ThreadRepository) SaveThread(ctx context.Context, thread *domainmessaging.Thread) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.threads[thread.ID] = thread.Clone()
	return nil
}

func (r *ThreadRepository) ThreadsFor(ctx context.Context, userID string) ([]*domainmessaging.Thread, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainmessaging.Thread, 0)
	for _, thread := range r.threads {
		if thread.HasParticipant(userID) {
			out = append(out, thread.Clone())
		}
	}
	return out, nil
}

func (r *ThreadRepository) AppendMessage(ctx context.Context, msg *domainmessaging.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages[msg.ThreadID] = append(r.messages[msg.ThreadID], msg.Clone())
	return nil
}

func (r *ThreadRepository) Messages(ctx context.Context, id domainmessaging.ThreadID) ([]*domainmessaging.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored := r.messages[id]
	out := make([]*domainmessaging.Message, 0, len(stored))
	for _, msg := range stored {
		out = append(out, msg.Clone())
	}
	return out, nil
}

func (r *ThreadRepository) MarkRead(ctx context.Context, id domainmessaging.ThreadID, readerID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	changed := 0
	for _, msg := range r.messages[id] {
		if msg.UnreadFor(readerID) && msg.MarkRead() {
			changed++
		}
	}
	return changed, nil
}

func (r *ThreadRepository) UnreadCount(ctx context.Context, id domainmessaging.ThreadID, viewerID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, msg := range r.messages[id] {
		if msg.UnreadFor(viewerID) {
			count++
		}
	}
	return count, nil
}

var _ domainmessaging.Repository = (*ThreadRepository)(nil)
