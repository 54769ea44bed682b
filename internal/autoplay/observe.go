// Package autoplay is a bot that plays claimsim through its HTTP API.
// Each step observes the state, assesses the arrest risk, decides on one
// action and performs it.
package autoplay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/talgya/claimrush/internal/catalog"
	"github.com/talgya/claimrush/internal/formula"
	"github.com/talgya/claimrush/internal/game"
)

// Snapshot holds everything collected during one observation.
type Snapshot struct {
	State    game.State
	Overview game.Overview
	LogSeq   uint64
	Catalog  *catalog.Catalog
	Trial    *TrialPreview // only fetched while under arrest
}

// stateBody mirrors GET /api/v1/state.
type stateBody struct {
	State    game.State    `json:"state"`
	Overview game.Overview `json:"overview"`
	LogSeq   uint64        `json:"log_seq"`
}

// TrialPreview mirrors GET /api/v1/trial.
type TrialPreview struct {
	Arrested   bool               `json:"arrested"`
	Indictment formula.Indictment `json:"indictment"`
	Defenses   []DefenseQuote     `json:"defenses"`
}

// DefenseQuote is one defense with its expected share of money lost.
type DefenseQuote struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	FeeRate      float64 `json:"fee_rate"`
	ExpectedLoss float64 `json:"expected_loss"`
}

// Observer fetches game state from the API.
type Observer struct {
	BaseURL    string
	HTTPClient *http.Client

	catalog *catalog.Catalog
}

// NewObserver creates an Observer targeting the given API base URL.
func NewObserver(baseURL string) *Observer {
	return &Observer{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Observe fetches the state, the catalog on first use and, when arrested,
// the trial preview.
func (o *Observer) Observe(ctx context.Context) (*Snapshot, error) {
	if o.catalog == nil {
		var c catalog.Catalog
		if err := o.fetchJSON(ctx, "/api/v1/catalog", &c); err != nil {
			return nil, fmt.Errorf("fetch catalog: %w", err)
		}
		o.catalog = catalog.New(c.Zones, c.Upgrades, c.Events, c.Achievements, c.Defenses)
	}

	var body stateBody
	if err := o.fetchJSON(ctx, "/api/v1/state", &body); err != nil {
		return nil, fmt.Errorf("fetch state: %w", err)
	}
	snap := &Snapshot{
		State:    body.State,
		Overview: body.Overview,
		LogSeq:   body.LogSeq,
		Catalog:  o.catalog,
	}

	if snap.State.IsGameOver {
		var preview TrialPreview
		if err := o.fetchJSON(ctx, "/api/v1/trial", &preview); err != nil {
			return nil, fmt.Errorf("fetch trial preview: %w", err)
		}
		snap.Trial = &preview
	}
	return snap, nil
}

// Events fetches log entries after seq.
func (o *Observer) Events(ctx context.Context, since uint64) ([]game.Entry, error) {
	var entries []game.Entry
	if err := o.fetchJSON(ctx, fmt.Sprintf("/api/v1/events?since=%d&limit=100", since), &entries); err != nil {
		return nil, fmt.Errorf("fetch events: %w", err)
	}
	return entries, nil
}

// Ready reports whether the API answers.
func (o *Observer) Ready(ctx context.Context) bool {
	var body stateBody
	return o.fetchJSON(ctx, "/api/v1/state", &body) == nil
}

// fetchJSON GETs a path and decodes the JSON response into target.
func (o *Observer) fetchJSON(ctx context.Context, path string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := o.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("GET %s returned %d: %s", path, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
