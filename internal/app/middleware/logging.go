package middleware

import (
	"context"
	"log/slog"
	"time"

	"rentcam/internal/app/commands"
	"rentcam/internal/app/queries"
)

// Observer receives the outcome of every dispatched message.
type Observer interface {
	Observe(kind, key string, took time.Duration, err error)
}

func CommandLogging(logger *slog.Logger, observer Observer) CommandMiddleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next commands.Bus) commands.Bus {
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			start := time.Now()
			res, err := next.Dispatch(ctx, cmd)
			report(ctx, logger, observer, "command", cmd.Key(), time.Since(start), err)
			return res, err
		})
	}
}

func QueryLogging(logger *slog.Logger, observer Observer) QueryMiddleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next queries.Bus) queries.Bus {
		return queryFunc(func(ctx context.Context, q queries.Query) (any, error) {
			start := time.Now()
			res, err := next.Ask(ctx, q)
			report(ctx, logger, observer, "query", q.Key(), time.Since(start), err)
			return res, err
		})
	}
}

func report(ctx context.Context, logger *slog.Logger, observer Observer, kind, key string, took time.Duration, err error) {
	if observer != nil {
		observer.Observe(kind, key, took, err)
	}
	if err != nil {
		logger.WarnContext(ctx, kind+" failed", "key", key, "duration", took, "error", err)
		return
	}
	logger.DebugContext(ctx, kind+" handled", "key", key, "duration", took)
}
