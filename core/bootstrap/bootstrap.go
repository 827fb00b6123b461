// Package bootstrap initializes process-wide infrastructure before the bot
// starts serving.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/feldmaus/wabot/core/bot"
	coreconfig "github.com/feldmaus/wabot/core/config"
	"github.com/feldmaus/wabot/core/gateway/wameow"
	"github.com/feldmaus/wabot/core/logger"
)

// Options control the bootstrap pipeline.
type Options struct {
	Config *coreconfig.Config

	LoggerInit func(*coreconfig.Config) error
	NewGateway func(ctx context.Context, deviceStoreDSN string) (bot.Transport, error)
}

// Result exposes infrastructure initialized by the bootstrap pipeline.
type Result struct {
	Gateway bot.Transport
}

// Run initializes the logger and builds the WhatsApp transport.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("bootstrap: nil config provided")
	}

	loggerInit := opts.LoggerInit
	if loggerInit == nil {
		loggerInit = logger.InitLogger
	}
	if err := loggerInit(opts.Config); err != nil {
		return nil, fmt.Errorf("bootstrap: logger init failed: %w", err)
	}

	newGateway := opts.NewGateway
	if newGateway == nil {
		newGateway = func(ctx context.Context, dsn string) (bot.Transport, error) {
			return wameow.New(ctx, dsn)
		}
	}
	gw, err := newGateway(ctx, opts.Config.WhatsApp.DeviceStoreDSN)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: gateway initialization failed: %w", err)
	}

	return &Result{Gateway: gw}, nil
}
