package middleware

import (
	"context"
	"errors"
	"strings"

	"rentcam/internal/app/commands"
	"rentcam/internal/app/queries"
)

var ErrUnauthenticated = errors.New("authentication required")

// Actor is implemented by messages that act on behalf of a signed-in user.
type Actor interface {
	ActorID() string
}

// RequireActor rejects commands whose ActorID is blank.
func RequireActor() CommandMiddleware {
	return func(next commands.Bus) commands.Bus {
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			if err := checkActor(cmd); err != nil {
				return nil, err
			}
			return next.Dispatch(ctx, cmd)
		})
	}
}

func RequireQueryActor() QueryMiddleware {
	return func(next queries.Bus) queries.Bus {
		return queryFunc(func(ctx context.Context, q queries.Query) (any, error) {
			if err := checkActor(q); err != nil {
				return nil, err
			}
			return next.Ask(ctx, q)
		})
	}
}

func checkActor(message any) error {
	actor, ok := message.(Actor)
	if !ok {
		return nil
	}
	if strings.TrimSpace(actor.ActorID()) == "" {
		return ErrUnauthenticated
	}
	return nil
}
