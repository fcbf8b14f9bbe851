package scylla

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	domainmessaging "rentcam/internal/domain/messaging"
)

func TestNewSessionRejectsInvalidConfig(t *testing.T) {
	ctx := context.Background()
	if _, err := NewSession(ctx, Config{Hosts: []string{"127.0.0.1"}, Keyspace: "rentcam; DROP"}, nil); err == nil {
		t.Fatalf("expected invalid keyspace error")
	}
	if _, err := NewSession(ctx, Config{Keyspace: "rentcam"}, nil); err == nil {
		t.Fatalf("expected missing hosts error")
	}
}

func TestSchemaStatements(t *testing.T) {
	if got := keyspaceStatement(Config{Keyspace: "rentcam"}); !strings.Contains(got, "'replication_factor': 1") {
		t.Fatalf("unexpected keyspace statement %q", got)
	}
	stmts := tableStatements("rentcam")
	if len(stmts) != 4 {
		t.Fatalf("statements = %d", len(stmts))
	}
	for _, table := range []string{"rentcam.threads ", "rentcam.threads_by_user", "rentcam.threads_by_listing", "rentcam.messages"} {
		found := false
		for _, stmt := range stmts {
			if strings.Contains(stmt, table) {
				found = true
			}
		}
		if !found {
			t.Fatalf("no statement creates %s", table)
		}
	}
}

func TestRowConversion(t *testing.T) {
	at := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	thread, err := threadRow{ID: "t-1", Kind: string(domainmessaging.KindConversation), ListingID: "l-1", ParticipantA: "a", ParticipantB: "b", CreatedAt: at}.toDomain()
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if thread.Kind != domainmessaging.KindConversation || thread.ParticipantIDs != [2]string{"a", "b"} {
		t.Fatalf("unexpected thread %+v", thread)
	}
	if _, err := (threadRow{ID: "t-2", Kind: "unknown", ParticipantA: "a", ParticipantB: "b"}).toDomain(); !errors.Is(err, domainmessaging.ErrUnknownThreadKind) {
		t.Fatalf("expected ErrUnknownThreadKind, got %v", err)
	}
	if _, err := (threadRow{ID: "t-3", Kind: ""}).toDomain(); !errors.Is(err, domainmessaging.ErrUnknownThreadKind) {
		t.Fatalf("empty kind should be rejected, got %v", err)
	}
	msgs := []*domainmessaging.Message{
		messageRow{ThreadID: "t-1", SentAt: at, ID: "m-1", SenderID: "a", Content: "Bonjour"}.toDomain(),
		messageRow{ThreadID: "t-1", SentAt: at.Add(time.Minute), ID: "m-2", SenderID: "b", Content: "Oui", Read: true}.toDomain(),
		messageRow{ThreadID: "t-1", SentAt: at.Add(2 * time.Minute), ID: "m-3", SenderID: "b", Content: "Venez"}.toDomain(),
	}
	if n := countUnread(msgs, "a"); n != 1 {
		t.Fatalf("unread for a = %d, want 1", n)
	}
	if n := countUnread(msgs, "b"); n != 1 {
		t.Fatalf("unread for b = %d, want 1", n)
	}
}

func TestRepositoryWithoutSession(t *testing.T) {
	repo := NewThreadRepository(nil, nil)
	if _, err := repo.Thread(context.Background(), "t-1"); err != errNoSession {
		t.Fatalf("expected errNoSession, got %v", err)
	}
}
