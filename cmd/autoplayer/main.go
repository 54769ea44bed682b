// Command autoplayer plays a running claimsim through its HTTP API.
// Each step observes the state, assesses the arrest risk, picks one action
// and performs it.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/talgya/claimrush/internal/autoplay"
	"github.com/talgya/claimrush/internal/config"
)

func main() {
	cfg, err := config.LoadAutoplayer()
	config.SetupLogging(cfg.LogLevel)
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("claimrush autoplayer starting",
		"api_url", cfg.APIURL,
		"interval", cfg.Interval,
		"defense", cfg.Defense,
	)

	bot := autoplay.NewBot(cfg.APIURL, autoplay.Preferences{
		Defense:       cfg.Defense,
		StopOnVictory: cfg.StopOnVictory,
	})
	if cfg.MemoryPath != "" {
		bot.Memory = autoplay.LoadMemory(cfg.MemoryPath)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Wait for claimsim to be ready before the first step.
	slog.Info("waiting for claimsim API...")
	if err := bot.WaitReady(ctx, 5*time.Minute); err != nil {
		slog.Error("claimsim unavailable", "error", err)
		os.Exit(1)
	}

	err = bot.Run(ctx, cfg.Interval, cfg.ReportEvery)
	if err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("autoplayer stopped", "error", err)
	}

	if cfg.MemoryPath != "" {
		if err := bot.Memory.Save(cfg.MemoryPath); err != nil {
			slog.Error("failed to save memory", "error", err)
		}
	}
	slog.Info("final tally", "summary", bot.Memory.Summary())
	fmt.Println("Autoplayer stopped.")
}
