package scylla

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gocql/gocql"

	domainmessaging "rentcam/internal/domain/messaging"
)

var errNoSession = errors.New("scylla: session not initialized")

const threadColumns = `id, kind, listing_id, participant_a, participant_b, last_message, last_message_at, created_at`

// ThreadRepository keeps threads and messages in Scylla. Lookups by user and
// by listing go through denormalized index tables.
type ThreadRepository struct {
	session *gocql.Session
	logger  *slog.Logger
}

func NewThreadRepository(session *gocql.Session, logger *slog.Logger) *ThreadRepository {
	return &ThreadRepository{session: session, logger: logger}
}

func (r *ThreadRepository) Thread(ctx context.Context, id domainmessaging.ThreadID) (*domainmessaging.Thread, error) {
	if r.session == nil {
		return nil, errNoSession
	}
	var row threadRow
	err := r.session.
		Query(`SELECT `+threadColumns+` FROM threads WHERE id = ? LIMIT 1`, string(id)).
		WithContext(ctx).
		Consistency(gocql.One).
		Scan(row.dest()...)
	if err != nil {
		if errors.Is(err, gocql.ErrNotFound) {
			return nil, domainmessaging.ErrThreadNotFound
		}
		return nil, err
	}
	return row.toDomain()
}

func (r *ThreadRepository) FindThread(ctx context.Context, listingID string, participants [2]string) (*domainmessaging.Thread, error) {
	if r.session == nil {
		return nil, errNoSession
	}
	var threadID string
	err := r.session.
		Query(`SELECT thread_id FROM threads_by_listing WHERE listing_id = ? AND participant_a = ? AND participant_b = ?`,
			listingID, participants[0], participants[1]).
		WithContext(ctx).
		Consistency(gocql.One).
		Scan(&threadID)
	if err != nil {
		if errors.Is(err, gocql.ErrNotFound) {
			return nil, domainmessaging.ErrThreadNotFound
		}
		return nil, err
	}
	return r.Thread(ctx, domainmessaging.ThreadID(threadID))
}

func (r *ThreadRepository) SaveThread(ctx context.Context, thread *domainmessaging.Thread) error {
	if r.session == nil {
		return errNoSession
	}
	batch := r.session.NewBatch(gocql.LoggedBatch).WithContext(ctx)
	batch.Query(`INSERT INTO threads (`+threadColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		string(thread.ID), string(thread.Kind), thread.ListingID, thread.ParticipantIDs[0], thread.ParticipantIDs[1],
		thread.LastMessage, thread.LastMessageTime.UTC(), thread.CreatedAt.UTC())
	for _, userID := range thread.ParticipantIDs {
		batch.Query(`INSERT INTO threads_by_user (user_id, thread_id) VALUES (?, ?)`, userID, string(thread.ID))
	}
	batch.Query(`INSERT INTO threads_by_listing (listing_id, participant_a, participant_b, thread_id) VALUES (?, ?, ?, ?)`,
		thread.ListingID, thread.ParticipantIDs[0], thread.ParticipantIDs[1], string(thread.ID))
	return r.session.ExecuteBatch(batch)
}

func (r *ThreadRepository) ThreadsFor(ctx context.Context, userID string) ([]*domainmessaging.Thread, error) {
	if r.session == nil {
		return nil, errNoSession
	}
	iter := r.session.
		Query(`SELECT thread_id FROM threads_by_user WHERE user_id = ?`, userID).
		WithContext(ctx).
		Consistency(gocql.One).
		Iter()
	var (
		threadID string
		ids      []string
	)
	for iter.Scan(&threadID) {
		ids = append(ids, threadID)
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	out := make([]*domainmessaging.Thread, 0, len(ids))
	for _, id := range ids {
		thread, err := r.Thread(ctx, domainmessaging.ThreadID(id))
		if errors.Is(err, domainmessaging.ErrThreadNotFound) {
			if r.logger != nil {
				r.logger.Warn("dangling thread index entry", "user_id", userID, "thread_id", id)
			}
			continue
		}
		if errors.Is(err, domainmessaging.ErrUnknownThreadKind) {
			if r.logger != nil {
				r.logger.Warn("skipping thread with unknown kind", "user_id", userID, "thread_id", id, "error", err)
			}
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, thread)
	}
	return out, nil
}

func (r *ThreadRepository) AppendMessage(ctx context.Context, msg *domainmessaging.Message) error {
	if r.session == nil {
		return errNoSession
	}
	return r.session.
		Query(`INSERT INTO messages (thread_id, sent_at, id, sender_id, content, read) VALUES (?, ?, ?, ?, ?, ?)`,
			string(msg.ThreadID), msg.Timestamp.UTC(), string(msg.ID), msg.SenderID, msg.Content, msg.Read).
		WithContext(ctx).
		Exec()
}

func (r *ThreadRepository) Messages(ctx context.Context, id domainmessaging.ThreadID) ([]*domainmessaging.Message, error) {
	if r.session == nil {
		return nil, errNoSession
	}
	iter := r.session.
		Query(`SELECT thread_id, sent_at, id, sender_id, content, read FROM messages WHERE thread_id = ?`, string(id)).
		WithContext(ctx).
		Consistency(gocql.One).
		Iter()
	var (
		row messageRow
		out []*domainmessaging.Message
	)
	for iter.Scan(row.dest()...) {
		out = append(out, row.toDomain())
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ThreadRepository) MarkRead(ctx context.Context, id domainmessaging.ThreadID, readerID string) (int, error) {
	msgs, err := r.Messages(ctx, id)
	if err != nil {
		return 0, err
	}
	batch := r.session.NewBatch(gocql.UnloggedBatch).WithContext(ctx)
	for _, msg := range msgs {
		if msg.UnreadFor(readerID) {
			batch.Query(`UPDATE messages SET read = true WHERE thread_id = ? AND sent_at = ? AND id = ?`,
				string(msg.ThreadID), msg.Timestamp.UTC(), string(msg.ID))
		}
	}
	if batch.Size() == 0 {
		return 0, nil
	}
	if err := r.session.ExecuteBatch(batch); err != nil {
		return 0, err
	}
	return batch.Size(), nil
}

func (r *ThreadRepository) UnreadCount(ctx context.Context, id domainmessaging.ThreadID, viewerID string) (int, error) {
	msgs, err := r.Messages(ctx, id)
	if err != nil {
		return 0, err
	}
	return countUnread(msgs, viewerID), nil
}

// Ping runs a trivial query against the system keyspace.
func (r *ThreadRepository) Ping(ctx context.Context) error {
	if r.session == nil {
		return errNoSession
	}
	var release string
	return r.session.Query(`SELECT release_version FROM system.local`).WithContext(ctx).Consistency(gocql.One).Scan(&release)
}

func countUnread(msgs []*domainmessaging.Message, viewerID string) int {
	n := 0
	for _, msg := range msgs {
		if msg.UnreadFor(viewerID) {
			n++
		}
	}
	return n
}

type threadRow struct {
	ID            string
	Kind          string
	ListingID     string
	ParticipantA  string
	ParticipantB  string
	LastMessage   string
	LastMessageAt time.Time
	CreatedAt     time.Time
}

func (r *threadRow) dest() []any {
	return []any{&r.ID, &r.Kind, &r.ListingID, &r.ParticipantA, &r.ParticipantB, &r.LastMessage, &r.LastMessageAt, &r.CreatedAt}
}

// toDomain rejects rows whose kind is not one the domain knows. The kind is
// fixed when the thread is written, so an unknown value means a bad row.
func (r threadRow) toDomain() (*domainmessaging.Thread, error) {
	kind := domainmessaging.ThreadKind(r.Kind)
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: thread %s has kind %q", domainmessaging.ErrUnknownThreadKind, r.ID, r.Kind)
	}
	return &domainmessaging.Thread{
		ID:              domainmessaging.ThreadID(r.ID),
		Kind:            kind,
		ListingID:       r.ListingID,
		ParticipantIDs:  [2]string{r.ParticipantA, r.ParticipantB},
		LastMessage:     r.LastMessage,
		LastMessageTime: r.LastMessageAt.UTC(),
		CreatedAt:       r.CreatedAt.UTC(),
	}, nil
}

type messageRow struct {
	ThreadID string
	SentAt   time.Time
	ID       string
	SenderID string
	Content  string
	Read     bool
}

func (r *messageRow) dest() []any {
	return []any{&r.ThreadID, &r.SentAt, &r.ID, &r.SenderID, &r.Content, &r.Read}
}

func (r messageRow) toDomain() *domainmessaging.Message {
	return &domainmessaging.Message{
		ID:        domainmessaging.MessageID(r.ID),
		ThreadID:  domainmessaging.ThreadID(r.ThreadID),
		SenderID:  r.SenderID,
		Content:   r.Content,
		Timestamp: r.SentAt.UTC(),
		Read:      r.Read,
	}
}

var _ domainmessaging.Repository = (*ThreadRepository)(nil)
