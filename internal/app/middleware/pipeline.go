package middleware

import (
	"context"

	"rentcam/internal/app/commands"
	"rentcam/internal/app/queries"
)

// CommandMiddleware decorates the command bus. The returned bus decides
// whether and when to hand a command to next.
type CommandMiddleware func(next commands.Bus) commands.Bus

type QueryMiddleware func(next queries.Bus) queries.Bus

// ChainCommands builds the command pipeline. The first middleware sees every
// command first and its result last.
func ChainCommands(base commands.Bus, mws ...CommandMiddleware) commands.Bus {
	return wrap(base, mws)
}

func ChainQueries(base queries.Bus, mws ...QueryMiddleware) queries.Bus {
	return wrap(base, mws)
}

// wrap folds mws around base from the inside out. Nil entries are skipped so
// optional stages can be listed inline.
func wrap[B any, M ~func(B) B](base B, mws []M) B {
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] == nil {
			continue
		}
		base = mws[i](base)
	}
	return base
}

type commandFunc func(ctx context.Context, cmd commands.Command) (any, error)

func (f commandFunc) Dispatch(ctx context.Context, cmd commands.Command) (any, error) {
	return f(ctx, cmd)
}

type queryFunc func(ctx context.Context, q queries.Query) (any, error)

func (f queryFunc) Ask(ctx context.Context, q queries.Query) (any, error) {
	return f(ctx, q)
}
