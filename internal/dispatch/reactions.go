package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/lithammer/shortuuid/v4"

	"github.com/feldmaus/wabot/core/gateway"
	"github.com/feldmaus/wabot/core/logger"
	"github.com/feldmaus/wabot/internal/workflow"
)

func (d *Dispatcher) handleReaction(ctx context.Context, r gateway.Reaction) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error(ctx, "dispatch", "reaction.panic",
				slog.Any("err", rec),
				slog.String("stack", string(debug.Stack())),
			)
		}
	}()

	ctx = logger.WithRID(ctx, shortuuid.New())

	entry, ok := d.tracker.Lookup(r.TargetMessageID)
	if !ok {
		// Reaction on some unrelated message; nothing to route.
		if logger.ShouldSampleDebug() {
			logger.Debug(ctx, "dispatch", "reaction.untracked",
				slog.String("target_msg_id", r.TargetMessageID.String()),
			)
		}
		return
	}

	if r.Sender != d.adminChat {
		logger.Debug(ctx, "dispatch", "reaction.not_admin",
			slog.String("sender", r.Sender.String()),
		)
		return
	}

	ctx = logger.WithEventMeta(ctx, entry.Chat.String(), r.TargetMessageID.String())
	text := verdictText(r.Glyph, entry.Kind)
	d.send(ctx, "send.verdict", entry.Chat, text)

	logger.Info(ctx, "dispatch", "reaction.routed",
		slog.String("glyph", r.Glyph),
		slog.String("kind", string(entry.Kind)),
	)
}

// verdictText maps the admin's reaction emoji onto the status line relayed to
// the user who originated the request.
func verdictText(glyph string, kind workflow.Kind) string {
	switch glyph {
	case "👍", "✅":
		return fmt.Sprintf("✅ Great news! Your %s request has been approved by the admin and is being processed.", kind)
	case "❌", "👎":
		return fmt.Sprintf("❌ Your %s request has been reviewed. The admin will contact you shortly with feedback.", kind)
	case "👀", "⏳":
		return fmt.Sprintf("👀 Your %s request is being reviewed by the admin.", kind)
	default:
		return fmt.Sprintf("📬 Update: The admin has reviewed your %s request.", kind)
	}
}
