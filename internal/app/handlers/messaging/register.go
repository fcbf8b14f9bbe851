package messaging

import (
	"log/slog"

	"rentcam/internal/app/commands"
	"rentcam/internal/app/dto"
	appoutbox "rentcam/internal/app/outbox"
	"rentcam/internal/app/queries"
	domainlistings "rentcam/internal/domain/listings"
	domainmessaging "rentcam/internal/domain/messaging"
)

type Deps struct {
	Store    domainmessaging.Store
	Listings domainlistings.Repository
	Outbox   appoutbox.Outbox
	Encoder  appoutbox.EventEncoder
	Logger   *slog.Logger
}

func Register(cmds *commands.InMemoryBus, qs *queries.InMemoryBus, d Deps) {
	commands.Register[StartThreadCommand, *dto.StartThreadResult](cmds, &StartThreadHandler{Store: d.Store, Listings: d.Listings, Logger: d.Logger})
	commands.Register[SendMessageCommand, dto.SendResult](cmds, &SendMessageHandler{Store: d.Store, Outbox: d.Outbox, Encoder: d.Encoder, Logger: d.Logger})
	commands.Register[MarkThreadReadCommand, dto.ReadResult](cmds, &MarkThreadReadHandler{Store: d.Store})
	commands.Register[MarkAllThreadsReadCommand, dto.ReadResult](cmds, &MarkAllThreadsReadHandler{Store: d.Store})
	queries.Register[ListThreadsQuery, dto.ThreadList](qs, &ListThreadsHandler{Store: d.Store})
	queries.Register[ListMessagesQuery, dto.ChatMessageList](qs, &ListMessagesHandler{Store: d.Store})
	queries.Register[UnreadTotalQuery, dto.UnreadTotal](qs, &UnreadTotalHandler{Store: d.Store})
}
