package middleware

import (
	"context"
	"log/slog"

	"rentcam/internal/app/commands"
	"rentcam/internal/app/outbox"
)

// CompactOutbox asks box to drop delivered records once a command succeeds.
// The command's writes are already stored at that point, so a compaction
// failure is logged and the command result still returned. A nil box leaves
// the pipeline unchanged.
func CompactOutbox(box outbox.Outbox, logger *slog.Logger) CommandMiddleware {
	if box == nil {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	return func(next commands.Bus) commands.Bus {
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			res, err := next.Dispatch(ctx, cmd)
			if err != nil {
				return res, err
			}
			if flushErr := box.Flush(ctx); flushErr != nil {
				logger.WarnContext(ctx, "outbox compaction failed", "command", cmd.Key(), "error", flushErr)
			}
			return res, nil
		})
	}
}
