package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/rollcall/internal/services"
	"github.com/desertthunder/rollcall/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	var discord services.MembershipService
	if config.Discord.Token != "" {
		if svc, err := services.NewDiscordService(map[string]string{
			"token":    config.Discord.Token,
			"base_url": config.Discord.APIBaseURL,
		}, nil); err == nil {
			if config.Discord.RateLimit > 0 {
				svc.SetRateLimit(config.Discord.RateLimit)
			}
			discord = svc
		}
	}

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Discord: discord,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "rollcall",
		Usage:    "Reconcile Discord server members against a registered attendee roster",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
