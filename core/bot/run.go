// Package bot composes the gateway, dispatcher and send queue into a running
// service.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	coreconfig "github.com/feldmaus/wabot/core/config"
	"github.com/feldmaus/wabot/core/gateway"
	"github.com/feldmaus/wabot/core/logger"
	"github.com/feldmaus/wabot/core/sender"
	"github.com/feldmaus/wabot/internal/correlate"
	"github.com/feldmaus/wabot/internal/dispatch"
	"github.com/feldmaus/wabot/internal/session"
)

// Transport is a gateway with a connection lifecycle.
type Transport interface {
	gateway.Gateway
	Connect(ctx context.Context) error
	Disconnect()
}

// RunOptions controls the behaviour of Run.
type RunOptions struct {
	Config  *coreconfig.Config
	Gateway Transport

	// Queue overrides the send queue built from Config.Sender.
	Queue *sender.Queue

	OnStart func(ctx context.Context, rt Runtime) error
	OnStop  func(ctx context.Context, rt Runtime) error
}

// Runtime exposes runtime components to lifecycle hooks.
type Runtime struct {
	Queue      *sender.Queue
	Sessions   *session.Store
	Tracker    *correlate.Table
	Dispatcher *dispatch.Dispatcher
}

// Run wires the components together, connects the transport and serves until
// the context is cancelled.
func Run(ctx context.Context, opts RunOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Config == nil {
		return fmt.Errorf("bot: nil config provided")
	}
	if opts.Gateway == nil {
		return fmt.Errorf("bot: nil gateway provided")
	}
	cfg := opts.Config

	queue := opts.Queue
	if queue == nil {
		queue = sender.New(sender.Options{
			QueueSize:    cfg.Sender.QueueSize,
			Workers:      cfg.Sender.Workers,
			MaxRetries:   cfg.Sender.MaxRetries,
			RetryBackoff: time.Duration(cfg.Sender.RetryBackoffMS) * time.Millisecond,
			MaxDuration:  time.Duration(cfg.Sender.MaxDurationMS) * time.Millisecond,
		})
	}

	sessions := session.NewStore()
	tracker := correlate.NewTable()

	d := dispatch.New(dispatch.Options{
		Gateway:   opts.Gateway,
		Sessions:  sessions,
		Tracker:   tracker,
		Out:       queue,
		AdminChat: gateway.ChatID(cfg.WhatsApp.AdminJID),
		MenuDelay: time.Duration(cfg.Workflow.MenuRedisplayDelayMS) * time.Millisecond,
	})

	retentionCtx, cancelRetention := context.WithCancel(ctx)
	defer cancelRetention()
	go d.RunRetention(retentionCtx,
		time.Duration(cfg.Retention.SessionTTLHours)*time.Hour,
		time.Duration(cfg.Retention.CorrelationTTLHours)*time.Hour,
		time.Duration(cfg.Retention.SweepIntervalMinutes)*time.Minute,
	)

	connectStart := time.Now()
	if err := opts.Gateway.Connect(ctx); err != nil {
		queue.Close()
		return fmt.Errorf("bot: gateway connect failed: %w", err)
	}
	logger.Info(ctx, "gateway", "connect",
		slog.Duration("duration", logger.RoundMS(time.Since(connectStart))),
	)

	rt := Runtime{Queue: queue, Sessions: sessions, Tracker: tracker, Dispatcher: d}
	if opts.OnStart != nil {
		if err := opts.OnStart(ctx, rt); err != nil {
			opts.Gateway.Disconnect()
			queue.Close()
			return err
		}
	}

	<-ctx.Done()

	var stopErr error
	if opts.OnStop != nil {
		stopErr = opts.OnStop(context.Background(), rt)
	}

	opts.Gateway.Disconnect()
	queue.Close()

	if stopErr != nil {
		return stopErr
	}
	if err := ctx.Err(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
