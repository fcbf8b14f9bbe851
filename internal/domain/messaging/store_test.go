package messaging_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"rentcam/internal/domain/messaging"
	"rentcam/internal/infra/storage/memory"
)

func newStore() messaging.Store {
	var threads, msgs int
	clock := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	return messaging.Store{
		Repo: memory.NewThreadRepository(),
		NewThreadID: func() messaging.ThreadID {
			threads++
			return messaging.ThreadID(fmt.Sprintf("t-%d", threads))
		},
		NewMessageID: func() messaging.MessageID {
			msgs++
			return messaging.MessageID(fmt.Sprintf("m-%d", msgs))
		},
		Now: func() time.Time {
			clock = clock.Add(time.Minute)
			return clock
		},
	}
}

func TestStartThreadIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	first, created, err := store.StartThread(ctx, "l-1", "student-1", "owner-1")
	if err != nil || !created {
		t.Fatalf("start thread: created=%v err=%v", created, err)
	}
	again, created, err := store.StartThread(ctx, "l-1", "owner-1", "student-1")
	if err != nil {
		t.Fatalf("start thread again: %v", err)
	}
	if created || again.ID != first.ID {
		t.Fatalf("expected existing thread %s, got %s (created=%v)", first.ID, again.ID, created)
	}
	if _, _, err := store.StartThread(ctx, "l-1", "owner-1", "owner-1"); !errors.Is(err, messaging.ErrSelfConversation) {
		t.Fatalf("expected ErrSelfConversation, got %v", err)
	}
}

func TestSendMessageBlankIsNoop(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	thread, _, _ := store.StartThread(ctx, "l-1", "student-1", "owner-1")

	msg, sent, err := store.SendMessage(ctx, thread.ID, "student-1", "   ")
	if err != nil || sent || msg != nil {
		t.Fatalf("expected silent no-op, got msg=%v sent=%v err=%v", msg, sent, err)
	}
	_, msgs, err := store.Messages(ctx, thread.ID, "student-1")
	if err != nil {
		t.Fatalf("messages: %v", err)
	}
	if len(msgs) != 0 {
		t.Fatalf("expected no messages, got %d", len(msgs))
	}
	after, _ := store.Repo.Thread(ctx, thread.ID)
	if after.LastMessage != "" || !after.LastMessageTime.Equal(thread.LastMessageTime) {
		t.Fatalf("thread preview changed: %+v", after)
	}
}

func TestSendMessageKeepsContentAsTyped(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	thread, _, _ := store.StartThread(ctx, "l-1", "student-1", "owner-1")

	typed := "  Bonjour,\n  visite demain ?  "
	msg, sent, err := store.SendMessage(ctx, thread.ID, "student-1", typed)
	if err != nil || !sent {
		t.Fatalf("send: sent=%v err=%v", sent, err)
	}
	if msg.Content != typed {
		t.Fatalf("content = %q, want %q", msg.Content, typed)
	}
	_, msgs, _ := store.Messages(ctx, thread.ID, "owner-1")
	if len(msgs) != 1 || msgs[0].Content != typed {
		t.Fatalf("stored messages %+v", msgs)
	}
}

func TestSendMessageUpdatesPreviewAndUnread(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	thread, _, _ := store.StartThread(ctx, "l-1", "student-1", "owner-1")

	msg, sent, err := store.SendMessage(ctx, thread.ID, "student-1", "Bonjour, la chambre est-elle libre ?")
	if err != nil || !sent {
		t.Fatalf("send: sent=%v err=%v", sent, err)
	}
	if msg.Read {
		t.Fatalf("new message must be unread")
	}
	got, _ := store.Repo.Thread(ctx, thread.ID)
	if got.LastMessage != msg.Content || !got.LastMessageTime.Equal(msg.Timestamp) {
		t.Fatalf("preview not updated: %+v", got)
	}
	if n, _ := store.UnreadTotal(ctx, "owner-1"); n != 1 {
		t.Fatalf("owner unread = %d, want 1", n)
	}
	if n, _ := store.UnreadTotal(ctx, "student-1"); n != 0 {
		t.Fatalf("sender unread = %d, want 0", n)
	}
	if _, _, err := store.SendMessage(ctx, thread.ID, "stranger", "hi"); !errors.Is(err, messaging.ErrNotParticipant) {
		t.Fatalf("expected ErrNotParticipant, got %v", err)
	}
}

func TestMarkThreadReadDropsUnreadTotalByThreadCount(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	a, _, _ := store.StartThread(ctx, "l-1", "student-1", "owner-1")
	b, _, _ := store.StartThread(ctx, "l-2", "student-2", "owner-1")
	for _, content := range []string{"un", "deux", "trois"} {
		if _, _, err := store.SendMessage(ctx, a.ID, "student-1", content); err != nil {
			t.Fatalf("send: %v", err)
		}
	}
	if _, _, err := store.SendMessage(ctx, b.ID, "student-2", "salut"); err != nil {
		t.Fatalf("send: %v", err)
	}

	before, _ := store.UnreadTotal(ctx, "owner-1")
	threadUnread, _ := store.Repo.UnreadCount(ctx, a.ID, "owner-1")
	changed, err := store.MarkThreadRead(ctx, a.ID, "owner-1")
	if err != nil {
		t.Fatalf("mark read: %v", err)
	}
	after, _ := store.UnreadTotal(ctx, "owner-1")
	if changed != threadUnread || before-after != threadUnread {
		t.Fatalf("before=%d after=%d thread=%d changed=%d", before, after, threadUnread, changed)
	}
	again, _ := store.MarkThreadRead(ctx, a.ID, "owner-1")
	if again != 0 {
		t.Fatalf("second mark read changed %d messages", again)
	}

	if _, err := store.MarkAllRead(ctx, "owner-1"); err != nil {
		t.Fatalf("mark all: %v", err)
	}
	if n, _ := store.UnreadTotal(ctx, "owner-1"); n != 0 {
		t.Fatalf("unread after mark all = %d", n)
	}
}

func TestListThreadsMostRecentFirst(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	a, _, _ := store.StartThread(ctx, "l-1", "student-1", "owner-1")
	b, _, _ := store.StartThread(ctx, "l-2", "student-2", "owner-1")
	_, _, _ = store.SendMessage(ctx, b.ID, "student-2", "premier")
	_, _, _ = store.SendMessage(ctx, a.ID, "student-1", "second")

	summaries, err := store.ListThreads(ctx, "owner-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(summaries) != 2 || summaries[0].Thread.ID != a.ID {
		t.Fatalf("unexpected order: %+v", summaries)
	}
	if summaries[0].UnreadCount != 1 {
		t.Fatalf("unread = %d, want 1", summaries[0].UnreadCount)
	}
	if _, _, err := store.Messages(ctx, a.ID, "student-2"); !errors.Is(err, messaging.ErrNotParticipant) {
		t.Fatalf("expected ErrNotParticipant, got %v", err)
	}
}

func TestImportKeepsLegacyKindAndReadFlags(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	base := time.Date(2024, 12, 1, 8, 0, 0, 0, time.UTC)
	thread, err := messaging.NewThread("legacy-1", messaging.KindLegacyChat, "l-9", "owner-2", "student-3", base)
	if err != nil {
		t.Fatalf("new thread: %v", err)
	}
	msgs := []*messaging.Message{
		{ID: "m-b", SenderID: "owner-2", Content: "Oui", Timestamp: base.Add(2 * time.Hour)},
		{ID: "m-a", SenderID: "student-3", Content: "Disponible ?", Timestamp: base.Add(time.Hour), Read: true},
	}
	if err := store.Import(ctx, thread, msgs); err != nil {
		t.Fatalf("import: %v", err)
	}
	got, _ := store.Repo.Thread(ctx, "legacy-1")
	if got.Kind != messaging.KindLegacyChat || got.LastMessage != "Oui" {
		t.Fatalf("unexpected thread %+v", got)
	}
	if n, _ := store.UnreadTotal(ctx, "student-3"); n != 1 {
		t.Fatalf("student unread = %d, want 1", n)
	}
}
