package main

import (
	"context"
	"log"

	corebootstrap "github.com/feldmaus/wabot/core/bootstrap"
	corebot "github.com/feldmaus/wabot/core/bot"
	corecmd "github.com/feldmaus/wabot/core/cmd"
	coreconfig "github.com/feldmaus/wabot/core/config"
)

func main() {
	err := corecmd.Run(corecmd.Options{
		DefaultConfigPath: "configs/config.yaml",
		Bootstrap: func(ctx context.Context, cfg *coreconfig.Config) (corebot.Transport, error) {
			result, err := corebootstrap.Run(ctx, corebootstrap.Options{Config: cfg})
			if err != nil {
				return nil, err
			}
			return result.Gateway, nil
		},
	})
	if err != nil {
		log.Fatalf("wabot: %v", err)
	}
}
