package messaging

import (
	"context"
	"strings"

	"rentcam/internal/app/dto"
	"rentcam/internal/app/queries"
	domainmessaging "rentcam/internal/domain/messaging"
)

type ListThreadsQuery struct {
	UserID string
}

func (q ListThreadsQuery) Key() string     { return listThreadsKey }
func (q ListThreadsQuery) ActorID() string { return q.UserID }

type ListThreadsHandler struct {
	Store domainmessaging.Store
}

func (h *ListThreadsHandler) Handle(ctx context.Context, q ListThreadsQuery) (dto.ThreadList, error) {
	summaries, err := h.Store.ListThreads(ctx, q.UserID)
	if err != nil {
		return dto.ThreadList{}, err
	}
	out := dto.ThreadList{Items: make([]dto.Thread, 0, len(summaries))}
	for _, s := range summaries {
		out.Items = append(out.Items, dto.MapThread(s.Thread, q.UserID, s.UnreadCount))
		out.UnreadTotal += s.UnreadCount
	}
	return out, nil
}

type ListMessagesQuery struct {
	ViewerID string
	ThreadID string
}

func (q ListMessagesQuery) Key() string     { return listMessagesKey }
func (q ListMessagesQuery) ActorID() string { return q.ViewerID }

type ListMessagesHandler struct {
	Store domainmessaging.Store
}

func (h *ListMessagesHandler) Handle(ctx context.Context, q ListMessagesQuery) (dto.ChatMessageList, error) {
	thread, msgs, err := h.Store.Messages(ctx, domainmessaging.ThreadID(strings.TrimSpace(q.ThreadID)), q.ViewerID)
	if err != nil {
		return dto.ChatMessageList{}, err
	}
	unread := 0
	items := make([]dto.ChatMessage, 0, len(msgs))
	for _, m := range msgs {
		if m.UnreadFor(q.ViewerID) {
			unread++
		}
		items = append(items, dto.MapChatMessage(m))
	}
	return dto.ChatMessageList{Thread: dto.MapThread(thread, q.ViewerID, unread), Items: items}, nil
}

type UnreadTotalQuery struct {
	UserID string
}

func (q UnreadTotalQuery) Key() string     { return unreadTotalKey }
func (q UnreadTotalQuery) ActorID() string { return q.UserID }

type UnreadTotalHandler struct {
	Store domainmessaging.Store
}

func (h *UnreadTotalHandler) Handle(ctx context.Context, q UnreadTotalQuery) (dto.UnreadTotal, error) {
	n, err := h.Store.UnreadTotal(ctx, q.UserID)
	if err != nil {
		return dto.UnreadTotal{}, err
	}
	return dto.UnreadTotal{Unread: n}, nil
}

var (
	_ queries.Handler[ListThreadsQuery, dto.ThreadList]       = (*ListThreadsHandler)(nil)
	_ queries.Handler[ListMessagesQuery, dto.ChatMessageList] = (*ListMessagesHandler)(nil)
	_ queries.Handler[UnreadTotalQuery, dto.UnreadTotal]      = (*UnreadTotalHandler)(nil)
)
