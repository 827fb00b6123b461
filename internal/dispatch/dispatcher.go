// Package dispatch wires gateway events into the conversation state machine
// and applies the resulting side effects.
package dispatch

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/lithammer/shortuuid/v4"

	"github.com/feldmaus/wabot/core/gateway"
	"github.com/feldmaus/wabot/core/logger"
	"github.com/feldmaus/wabot/core/sender"
	"github.com/feldmaus/wabot/internal/correlate"
	"github.com/feldmaus/wabot/internal/session"
	"github.com/feldmaus/wabot/internal/workflow"
)

// Options configures a Dispatcher.
type Options struct {
	Gateway  gateway.Gateway
	Sessions *session.Store
	Tracker  *correlate.Table
	// Out is the asynchronous send queue; nil means synchronous sends.
	Out *sender.Queue
	// AdminChat receives submission forwards and is the only identity whose
	// reactions are routed back to users.
	AdminChat gateway.ChatID
	// MenuDelay is the pause before the welcome menu is re-sent after a
	// successful submission.
	MenuDelay time.Duration
	// Now allows tests to control time; defaults to time.Now.
	Now func() time.Time
}

// Dispatcher processes inbound messages and reactions.
type Dispatcher struct {
	gw        gateway.Gateway
	sessions  *session.Store
	tracker   *correlate.Table
	out       *sender.Queue
	adminChat gateway.ChatID
	menuDelay time.Duration
	now       func() time.Time
	startedAt time.Time

	locksMu sync.Mutex
	locks   map[gateway.ChatID]*sync.Mutex
}

// New builds a Dispatcher and registers it on the gateway. The construction
// time becomes the cutover: messages older than it are never processed, so a
// backlog queued while the bot was offline is not replayed.
func New(opts Options) *Dispatcher {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	menuDelay := opts.MenuDelay
	if menuDelay <= 0 {
		menuDelay = 2 * time.Second
	}

	d := &Dispatcher{
		gw:        opts.Gateway,
		sessions:  opts.Sessions,
		tracker:   opts.Tracker,
		out:       opts.Out,
		adminChat: opts.AdminChat,
		menuDelay: menuDelay,
		now:       now,
		startedAt: now(),
		locks:     make(map[gateway.ChatID]*sync.Mutex),
	}

	d.gw.OnMessage(d.handleMessage)
	d.gw.OnReaction(d.handleReaction)
	return d
}

// StartedAt reports the cutover timestamp recorded at construction.
func (d *Dispatcher) StartedAt() time.Time {
	return d.startedAt
}

func (d *Dispatcher) chatLock(chat gateway.ChatID) *sync.Mutex {
	d.locksMu.Lock()
	defer d.locksMu.Unlock()
	mu, ok := d.locks[chat]
	if !ok {
		mu = &sync.Mutex{}
		d.locks[chat] = mu
	}
	return mu
}

func (d *Dispatcher) handleMessage(ctx context.Context, msg gateway.Message) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error(ctx, "dispatch", "dispatch.panic",
				slog.Any("err", r),
				slog.String("stack", string(debug.Stack())),
			)
		}
	}()

	rid := shortuuid.New()
	ctx = logger.WithRID(ctx, rid)
	ctx = logger.WithEventMeta(ctx, msg.Chat.String(), msg.ID.String())

	if msg.Timestamp.Before(d.startedAt) {
		logger.Debug(ctx, "dispatch", "message.stale",
			slog.Time("ts", msg.Timestamp),
			slog.Time("cutover", d.startedAt),
		)
		return
	}

	if logger.ShouldSampleDebug() {
		logger.Debug(ctx, "dispatch", "message.received",
			slog.String("payload", logger.SanitizeLimit(msg.Text, 256)),
			slog.Bool("has_media", msg.HasMedia),
		)
	}

	mu := d.chatLock(msg.Chat)
	mu.Lock()
	defer mu.Unlock()

	sess := d.sessions.Get(msg.Chat)

	ev := workflow.Event{Text: msg.Text, Timestamp: msg.Timestamp}
	if sess.State == workflow.StateAddArticleImage && msg.HasMedia {
		media, err := d.gw.DownloadMedia(ctx, msg)
		if err != nil {
			// A failed fetch counts as "no media provided".
			logger.Warn(ctx, "dispatch", "media.download_failed",
				slog.String("err", err.Error()),
			)
		} else {
			ev.HasMedia = true
			ev.Media = &media
		}
	}

	next, form, effects := workflow.Transition(sess.State, sess.Form, ev)

	logger.Debug(ctx, "workflow", "transition",
		slog.String("from", string(sess.State)),
		slog.String("to", string(next)),
	)

	for _, effect := range effects {
		switch e := effect.(type) {
		case workflow.Reply:
			d.send(ctx, "send.reply", msg.Chat, e.Text)
		case workflow.Submit:
			d.submit(ctx, msg.Chat, e)
		case workflow.ScheduleMenu:
			d.scheduleMenu(ctx, msg.Chat)
		}
	}

	d.sessions.Put(msg.Chat, session.Session{State: next, Form: form, UpdatedAt: d.now()})
}

// submit forwards a finished request to the administrator synchronously, so
// the correlation entry can record the outbound message id. A delivery
// failure is logged and no entry is recorded; the user simply never receives
// an admin verdict for it.
func (d *Dispatcher) submit(ctx context.Context, origin gateway.ChatID, sub workflow.Submit) {
	var (
		id  gateway.MessageID
		err error
	)
	if sub.Media != nil {
		id, err = d.gw.SendMedia(ctx, d.adminChat, sub.Body, *sub.Media)
	} else {
		id, err = d.gw.SendText(ctx, d.adminChat, sub.Body)
	}
	if err != nil {
		logger.Error(ctx, "dispatch", "submit.forward_failed",
			slog.String("kind", string(sub.Kind)),
			slog.String("err", err.Error()),
		)
		return
	}

	d.tracker.Record(id, correlate.Entry{
		Chat:      origin,
		Kind:      sub.Kind,
		Snapshot:  sub.Snapshot,
		CreatedAt: d.now(),
	})
	logger.Info(ctx, "dispatch", "submit.forwarded",
		slog.String("kind", string(sub.Kind)),
		slog.String("admin_msg_id", id.String()),
	)
}

// scheduleMenu re-sends the welcome menu after the configured delay. The task
// is fire and forget: it is not cancelled by a later reset and its failure is
// only visible in logs.
func (d *Dispatcher) scheduleMenu(ctx context.Context, chat gateway.ChatID) {
	rid := logger.RIDFrom(ctx)
	time.AfterFunc(d.menuDelay, func() {
		menuCtx := logger.WithRID(logger.Background(), rid)
		menuCtx = logger.WithEventMeta(menuCtx, chat.String(), "")
		d.send(menuCtx, "send.menu", chat, workflow.WelcomeMenu())
	})
}

// send delivers text through the async queue when one is wired, falling back
// to a direct call when the queue is absent, saturated, or closed.
func (d *Dispatcher) send(ctx context.Context, action string, chat gateway.ChatID, text string) {
	run := func() error {
		_, err := d.gw.SendText(ctx, chat, text)
		return err
	}
	if d.out == nil {
		if err := run(); err != nil {
			logger.Error(ctx, "dispatch", "send.failed",
				slog.String("action", action),
				slog.String("err", err.Error()),
			)
		}
		return
	}
	if err := d.out.Enqueue(ctx, action, run); err != nil {
		logger.Warn(ctx, "dispatch", "queue.fallback",
			slog.String("action", action),
			slog.String("err", err.Error()),
		)
		if err := run(); err != nil {
			logger.Error(ctx, "dispatch", "send.failed",
				slog.String("action", action),
				slog.String("err", err.Error()),
			)
		}
	}
}

// RunRetention periodically evicts idle sessions and stale correlation
// entries. TTLs of zero keep entries for the whole process lifetime.
func (d *Dispatcher) RunRetention(ctx context.Context, sessionTTL, correlationTTL, interval time.Duration) {
	if sessionTTL <= 0 && correlationTTL <= 0 {
		return
	}
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			sessions := d.sessions.Sweep(now, sessionTTL)
			entries := d.tracker.Sweep(now, correlationTTL)
			if sessions > 0 || entries > 0 {
				logger.Info(ctx, "dispatch", "retention.sweep",
					slog.Int("sessions_removed", sessions),
					slog.Int("entries_removed", entries),
				)
			}
		}
	}
}
