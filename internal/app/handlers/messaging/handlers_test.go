package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	domainlistings "rentcam/internal/domain/listings"
	domainmessaging "rentcam/internal/domain/messaging"
	"rentcam/internal/infra/storage/memory"
)

func setup(t *testing.T) (domainmessaging.Store, *memory.ListingRepository, *memory.Outbox) {
	t.Helper()
	listings := memory.NewListingRepository()
	listing, err := domainlistings.NewListing(domainlistings.CreateListingParams{
		ID: "l-1", Kind: domainlistings.KindRentalProperty, Title: "Chambre Ngoa", Price: 30000, OwnerID: "owner-1",
	})
	if err != nil {
		t.Fatalf("listing: %v", err)
	}
	if err := listings.Insert(context.Background(), listing); err != nil {
		t.Fatalf("insert: %v", err)
	}
	n := 0
	store := domainmessaging.Store{
		Repo: memory.NewThreadRepository(),
		NewThreadID: func() domainmessaging.ThreadID {
			n++
			return domainmessaging.ThreadID(fmt.Sprintf("t-%d", n))
		},
		NewMessageID: func() domainmessaging.MessageID {
			n++
			return domainmessaging.MessageID(fmt.Sprintf("m-%d", n))
		},
	}
	return store, listings, memory.NewOutbox()
}

func TestStartThreadWithListingOwner(t *testing.T) {
	store, listings, _ := setup(t)
	h := &StartThreadHandler{Store: store, Listings: listings}
	res, err := h.Handle(context.Background(), StartThreadCommand{RequesterID: "student-1", ListingID: "l-1"})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if !res.Created || res.Thread.PeerID != "owner-1" {
		t.Fatalf("unexpected result %+v", res)
	}
	if _, err := h.Handle(context.Background(), StartThreadCommand{RequesterID: "owner-1", ListingID: "l-1"}); !errors.Is(err, domainmessaging.ErrSelfConversation) {
		t.Fatalf("expected ErrSelfConversation, got %v", err)
	}
	if _, err := h.Handle(context.Background(), StartThreadCommand{RequesterID: "student-1", ListingID: "missing"}); !errors.Is(err, domainlistings.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSendMessageRecordsEvent(t *testing.T) {
	store, listings, box := setup(t)
	start := &StartThreadHandler{Store: store, Listings: listings}
	res, _ := start.Handle(context.Background(), StartThreadCommand{RequesterID: "student-1", ListingID: "l-1"})

	send := &SendMessageHandler{Store: store, Outbox: box}
	empty, err := send.Handle(context.Background(), SendMessageCommand{SenderID: "student-1", ThreadID: res.Thread.ID, Content: "  "})
	if err != nil || empty.Sent {
		t.Fatalf("blank send: %+v %v", empty, err)
	}
	if box.Pending() != 0 {
		t.Fatalf("blank send recorded an event")
	}

	out, err := send.Handle(context.Background(), SendMessageCommand{SenderID: "student-1", ThreadID: res.Thread.ID, Content: "Toujours libre ?"})
	if err != nil || !out.Sent || out.Message == nil {
		t.Fatalf("send: %+v %v", out, err)
	}
	rec, _ := box.Claim(context.Background(), "test")
	if rec == nil || rec.Name != domainmessaging.EventMessageSent {
		t.Fatalf("unexpected record %+v", rec)
	}
	var ev domainmessaging.MessageSentEvent
	if err := json.Unmarshal(rec.Payload, &ev); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ev.RecipientID != "owner-1" || ev.ListingID != "l-1" {
		t.Fatalf("unexpected event %+v", ev)
	}

	total := &UnreadTotalHandler{Store: store}
	unread, _ := total.Handle(context.Background(), UnreadTotalQuery{UserID: "owner-1"})
	if unread.Unread != 1 {
		t.Fatalf("owner unread = %d", unread.Unread)
	}
	list := &ListMessagesHandler{Store: store}
	msgs, err := list.Handle(context.Background(), ListMessagesQuery{ViewerID: "owner-1", ThreadID: res.Thread.ID})
	if err != nil || len(msgs.Items) != 1 || msgs.Thread.UnreadCount != 1 {
		t.Fatalf("messages: %+v %v", msgs, err)
	}
	read := &MarkThreadReadHandler{Store: store}
	marked, _ := read.Handle(context.Background(), MarkThreadReadCommand{ReaderID: "owner-1", ThreadID: res.Thread.ID})
	if marked.Marked != 1 {
		t.Fatalf("marked = %d", marked.Marked)
	}
	threads := &ListThreadsHandler{Store: store}
	tl, _ := threads.Handle(context.Background(), ListThreadsQuery{UserID: "owner-1"})
	if len(tl.Items) != 1 || tl.UnreadTotal != 0 {
		t.Fatalf("threads: %+v", tl)
	}
}
