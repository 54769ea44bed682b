// Command claimsim hosts a claimrush game: it restores or starts a player,
// ticks the simulation, autosaves to SQLite and serves the HTTP API.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/time/rate"

	"github.com/talgya/claimrush/internal/api"
	"github.com/talgya/claimrush/internal/catalog"
	"github.com/talgya/claimrush/internal/config"
	"github.com/talgya/claimrush/internal/engine"
	"github.com/talgya/claimrush/internal/entropy"
	"github.com/talgya/claimrush/internal/game"
	"github.com/talgya/claimrush/internal/persistence"
)

func main() {
	cfg, err := config.LoadServer()
	config.SetupLogging(cfg.LogLevel)
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("claimrush starting",
		"db", cfg.DBPath,
		"port", cfg.Port,
		"tick", cfg.TickInterval,
		"autosave", cfg.AutosaveInterval,
	)

	// ── Catalog ───────────────────────────────────────────────────────
	cat := catalog.Default()
	if cfg.CatalogPath != "" {
		cat, err = catalog.LoadFile(cfg.CatalogPath)
		if err != nil {
			slog.Error("failed to load catalog", "path", cfg.CatalogPath, "error", err)
			os.Exit(1)
		}
	}
	slog.Info("catalog ready",
		"zones", len(cat.Zones),
		"upgrades", len(cat.Upgrades),
		"events", len(cat.Events),
		"achievements", len(cat.Achievements),
		"defenses", len(cat.Defenses),
	)

	// ── Database ──────────────────────────────────────────────────────
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		slog.Error("failed to create data dir", "error", err)
		os.Exit(1)
	}
	db, err := persistence.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// ── Randomness ────────────────────────────────────────────────────
	seed := cfg.Seed
	if seed == 0 {
		seed = entropy.NewSeed()
	}
	// Placement noise keeps its seed across restarts so golden claims keep
	// wandering along the same path.
	placementSeed := seed
	if v, err := db.GetMeta("placement_seed"); err == nil && v != "" {
		if s, err := strconv.ParseInt(v, 10, 64); err == nil {
			placementSeed = s
		}
	}
	if err := db.SaveMeta("placement_seed", strconv.FormatInt(placementSeed, 10)); err != nil {
		slog.Error("failed to store placement seed", "error", err)
	}
	slog.Info("random source ready", "seed", seed, "placement_seed", placementSeed)

	// ── Load or start the player ──────────────────────────────────────
	now := time.Now()
	state, entries, found, err := db.LoadGame(cat, now)
	if err != nil {
		slog.Error("failed to load game", "error", err)
		os.Exit(1)
	}
	if found {
		savedAt, _ := db.GetMeta("saved_at")
		slog.Info("game restored",
			"run", state.RunID,
			"money", game.FormatCount(state.Money),
			"total_earned", game.FormatCount(state.TotalEarned),
			"views", game.FormatCount(state.ViralViews),
			"arrests", state.TotalArrestCount,
			"status", state.Status(),
			"saved_at", savedAt,
		)
	} else {
		state = game.NewState(cat, now)
		slog.Info("no saved game found, starting fresh", "run", state.RunID)
	}

	log := game.NewEventLog()
	log.Load(entries)

	m := game.NewMachine(cat, state, game.Options{
		Rand:      entropy.NewSeeded(seed),
		Placement: entropy.NewPlacement(placementSeed),
		Log:       log,
	})
	m.OnArrest = func(a game.Arrest) {
		if err := db.RecordArrest(a); err != nil {
			slog.Error("failed to record arrest", "error", err)
		}
	}

	if !found {
		save(db, m, "initial")
	}

	// ── Engine ────────────────────────────────────────────────────────
	eng := engine.NewEngine()
	eng.Interval = cfg.TickInterval
	eng.AutosaveEach = cfg.AutosaveInterval
	eng.OnTick = func(uint64) { m.Tick() }
	eng.OnSecond = func(tick uint64) {
		s := m.Snapshot()
		slog.Debug("status",
			"tick", tick,
			"money", game.FormatCount(s.Money),
			"views", game.FormatCount(s.ViralViews),
			"threat", s.ThreatLevel,
			"status", s.Status(),
		)
	}
	eng.OnAutosave = func(uint64) { save(db, m, "autosave") }

	// ── HTTP API ──────────────────────────────────────────────────────
	if cfg.AdminKey == "" {
		slog.Warn("CLAIMSIM_ADMIN_KEY not set, admin endpoints will be disabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	apiServer := &api.Server{
		Machine:     m,
		DB:          db,
		Port:        cfg.Port,
		AdminKey:    cfg.AdminKey,
		ActionRate:  rate.Limit(cfg.ActionRate),
		ActionBurst: cfg.ActionBurst,
	}
	apiServer.Start(ctx)

	// ── Start ─────────────────────────────────────────────────────────
	fmt.Printf("\nclaimrush is open for business: $%s on the books, %d arrests so far.\n",
		game.FormatCount(state.Money), state.TotalArrestCount)
	fmt.Printf("API: http://localhost:%d/api/v1/state\n", cfg.Port)
	fmt.Println("Starting simulation... (Ctrl+C to stop)")

	eng.Run(ctx)

	// Final save on shutdown.
	slog.Info("final save...")
	save(db, m, "final")

	fmt.Println("Simulation stopped. Game saved.")
}

func save(db *persistence.DB, m *game.Machine, reason string) {
	s := m.Snapshot()
	if err := db.SaveGame(s, m.Log()); err != nil {
		slog.Error("save failed", "reason", reason, "error", err)
		return
	}
	slog.Info("game state saved",
		"reason", reason,
		"money", game.FormatCount(s.Money),
		"total_earned", humanize.SIWithDigits(s.TotalEarned, 2, "$"),
	)
}
