// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Server configures cmd/claimsim.
type Server struct {
	DBPath      string `env:"CLAIMSIM_DB_PATH" envDefault:"data/claimrush.db"`
	Port        int    `env:"CLAIMSIM_PORT" envDefault:"8080"`
	AdminKey    string `env:"CLAIMSIM_ADMIN_KEY"`
	CatalogPath string `env:"CLAIMSIM_CATALOG"` // empty = built-in tables

	// Seed fixes the random source for replays. 0 = seeded from crypto/rand.
	Seed int64 `env:"CLAIMSIM_SEED" envDefault:"0"`

	TickInterval     time.Duration `env:"CLAIMSIM_TICK_INTERVAL" envDefault:"100ms"`
	AutosaveInterval time.Duration `env:"CLAIMSIM_AUTOSAVE_INTERVAL" envDefault:"30s"`

	ActionRate  float64 `env:"CLAIMSIM_ACTION_RATE" envDefault:"20"`
	ActionBurst int     `env:"CLAIMSIM_ACTION_BURST" envDefault:"40"`

	LogLevel string `env:"CLAIMSIM_LOG_LEVEL" envDefault:"info"`
}

// LoadServer parses and validates the server configuration.
func LoadServer() (Server, error) {
	var cfg Server
	if err := ParseEnv(&cfg); err != nil {
		return Server{}, err
	}
	return cfg, cfg.Validate()
}

// Validate rejects values the host cannot run with.
func (c Server) Validate() error {
	var errs []error
	if c.DBPath == "" {
		errs = append(errs, errors.New("CLAIMSIM_DB_PATH is empty"))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("CLAIMSIM_PORT %d out of range", c.Port))
	}
	if c.TickInterval < time.Millisecond {
		errs = append(errs, fmt.Errorf("CLAIMSIM_TICK_INTERVAL %s too short", c.TickInterval))
	}
	if c.AutosaveInterval < 0 {
		errs = append(errs, errors.New("CLAIMSIM_AUTOSAVE_INTERVAL is negative"))
	}
	if c.ActionRate <= 0 || c.ActionBurst <= 0 {
		errs = append(errs, errors.New("action rate and burst must be positive"))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Autoplayer configures cmd/autoplayer.
type Autoplayer struct {
	APIURL   string        `env:"CLAIMSIM_API_URL" envDefault:"http://localhost:8080"`
	Interval time.Duration `env:"AUTOPLAYER_INTERVAL" envDefault:"250ms"`

	// Defense used at trial. Empty picks the lowest expected loss.
	Defense string `env:"AUTOPLAYER_DEFENSE"`

	// StopOnVictory ends the bot once the run is won.
	StopOnVictory bool `env:"AUTOPLAYER_STOP_ON_VICTORY" envDefault:"true"`

	// MemoryPath keeps the bot's tallies between runs. Empty = in memory only.
	MemoryPath string `env:"AUTOPLAYER_MEMORY"`

	ReportEvery time.Duration `env:"AUTOPLAYER_REPORT_EVERY" envDefault:"30s"`
	LogLevel    string        `env:"AUTOPLAYER_LOG_LEVEL" envDefault:"info"`
}

// LoadAutoplayer parses and validates the bot configuration.
func LoadAutoplayer() (Autoplayer, error) {
	var cfg Autoplayer
	if err := ParseEnv(&cfg); err != nil {
		return Autoplayer{}, err
	}
	return cfg, cfg.Validate()
}

// Validate rejects values the bot cannot run with.
func (c Autoplayer) Validate() error {
	var errs []error
	if c.APIURL == "" {
		errs = append(errs, errors.New("CLAIMSIM_API_URL is empty"))
	}
	if c.Interval <= 0 {
		errs = append(errs, errors.New("AUTOPLAYER_INTERVAL must be positive"))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
