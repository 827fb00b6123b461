package wameow

import (
	"fmt"
	"log/slog"

	waLog "go.mau.fi/whatsmeow/util/log"

	"github.com/feldmaus/wabot/core/logger"
)

// walogAdapter bridges whatsmeow's printf-style logger onto slog so the
// library's internals land in the same sinks as everything else.
type walogAdapter struct {
	l *slog.Logger
}

func newWALogger(module string) waLog.Logger {
	base := logger.Component("gateway")
	if base == nil {
		base = slog.Default()
	}
	return walogAdapter{l: base.With("wa_module", module)}
}

func (a walogAdapter) Errorf(msg string, args ...interface{}) {
	a.l.Error(fmt.Sprintf(msg, args...))
}

func (a walogAdapter) Warnf(msg string, args ...interface{}) {
	a.l.Warn(fmt.Sprintf(msg, args...))
}

func (a walogAdapter) Infof(msg string, args ...interface{}) {
	a.l.Info(fmt.Sprintf(msg, args...))
}

func (a walogAdapter) Debugf(msg string, args ...interface{}) {
	a.l.Debug(fmt.Sprintf(msg, args...))
}

func (a walogAdapter) Sub(module string) waLog.Logger {
	return walogAdapter{l: a.l.With("wa_module", module)}
}
