// Package api serves the game over HTTP.
// GET endpoints are read-only views of the machine.
// POST endpoints perform player actions and are rate limited per IP.
// Destructive admin endpoints require a bearer token.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/talgya/claimrush/internal/catalog"
	"github.com/talgya/claimrush/internal/formula"
	"github.com/talgya/claimrush/internal/game"
	"github.com/talgya/claimrush/internal/persistence"
	"github.com/talgya/claimrush/internal/trial"
)

// Default per-IP allowance for action endpoints. Clicking is the hot path,
// so the burst is generous.
const (
	DefaultActionRate  = rate.Limit(20)
	DefaultActionBurst = 40
)

// Server serves one Machine over HTTP.
type Server struct {
	Machine  *game.Machine
	DB       *persistence.DB // optional; nil disables history and saving
	Port     int
	AdminKey string // Bearer token for admin endpoints. Empty = admin disabled.

	ActionRate  rate.Limit // per-IP action rate; 0 = DefaultActionRate
	ActionBurst int        // 0 = DefaultActionBurst

	hub *Hub
}

// stateResponse is the body of every endpoint that returns the game.
type stateResponse struct {
	State    game.State    `json:"state"`
	Overview game.Overview `json:"overview"`
	LogSeq   uint64        `json:"log_seq"`
}

func (s *Server) current() stateResponse {
	st, o := s.Machine.Overview()
	return stateResponse{State: st, Overview: o, LogSeq: s.Machine.Log().Seq()}
}

// Handler builds the routes. The websocket hub runs until ctx is done.
func (s *Server) Handler(ctx context.Context) http.Handler {
	if s.ActionRate == 0 {
		s.ActionRate = DefaultActionRate
	}
	if s.ActionBurst == 0 {
		s.ActionBurst = DefaultActionBurst
	}
	actions := NewRateLimiter(s.ActionRate, s.ActionBurst)
	go actions.CleanupLoop(ctx, 10*time.Minute)

	s.hub = NewHub(func() ([]byte, error) { return json.Marshal(s.current()) })
	go s.hub.Run(ctx)
	unsubscribe := s.Machine.Subscribe(func(game.State) { s.hub.Publish() })
	go func() {
		<-ctx.Done()
		unsubscribe()
	}()

	limited := func(h http.HandlerFunc) http.HandlerFunc { return RateLimitMiddleware(actions, h) }

	mux := http.NewServeMux()

	// Read-only views.
	mux.HandleFunc("GET /api/v1/state", s.handleState)
	mux.HandleFunc("GET /api/v1/catalog", s.handleCatalog)
	mux.HandleFunc("GET /api/v1/events", s.handleEvents)
	mux.HandleFunc("GET /api/v1/arrests", s.handleArrests)
	mux.HandleFunc("GET /api/v1/trial", s.handleTrialPreview)
	mux.HandleFunc("GET /api/v1/preview/cost", s.handleCostPreview)

	// Websocket push of the state after every change.
	mux.HandleFunc("GET /api/v1/stream", s.handleStream)

	// Player actions.
	mux.HandleFunc("POST /api/v1/click", limited(s.handleClick))
	mux.HandleFunc("POST /api/v1/golden", limited(s.handleGolden))
	mux.HandleFunc("POST /api/v1/upgrade/{id}", limited(s.handleUpgrade))
	mux.HandleFunc("POST /api/v1/zone/{id}/unlock", limited(s.handleZoneUnlock))
	mux.HandleFunc("POST /api/v1/zone/{id}/select", limited(s.handleZoneSelect))
	mux.HandleFunc("POST /api/v1/trial", limited(s.handleTrial))
	mux.HandleFunc("POST /api/v1/new-game", limited(s.handleNewGame))

	// Admin endpoints (require bearer token).
	mux.HandleFunc("POST /api/v1/reset", s.adminOnly(s.handleReset))
	mux.HandleFunc("POST /api/v1/save", s.adminOnly(s.handleSave))

	return corsMiddleware(mux)
}

// Start serves the API in a goroutine and shuts it down when ctx is done.
func (s *Server) Start(ctx context.Context) {
	addr := fmt.Sprintf(":%d", s.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(ctx),
		ReadHeaderTimeout: 10 * time.Second,
	}
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "", "persistence", s.DB != nil)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("HTTP shutdown error", "error", err)
		}
	}()
}

// allowedOrigins returns the browser origins allowed to call the API.
// Set CORS_ORIGINS to a comma-separated list to add deployed frontends.
// Localhost dev servers are always allowed.
func allowedOrigins() map[string]bool {
	allowed := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:4173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowed[origin] = true
			}
		}
	}
	return allowed
}

func corsMiddleware(next http.Handler) http.Handler {
	allowed := allowedOrigins()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowed[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// checkBearerToken validates the Authorization header against AdminKey.
func (s *Server) checkBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	return strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.AdminKey
}

// adminOnly wraps a handler to require bearer token auth.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.AdminKey == "" {
			http.Error(w, "admin endpoints disabled (no admin key)", http.StatusForbidden)
			return
		}
		if !s.checkBearerToken(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.current())
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Machine.Catalog())
}

// handleEvents returns log entries, oldest first. With ?since=N only entries
// after sequence N are returned.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= game.MaxLogEntries {
			limit = n
		}
	}

	log := s.Machine.Log()
	var entries []game.Entry
	if since := r.URL.Query().Get("since"); since != "" {
		seq, err := strconv.ParseUint(since, 10, 64)
		if err != nil {
			http.Error(w, "invalid since", http.StatusBadRequest)
			return
		}
		entries = log.Since(seq)
		if len(entries) > limit {
			entries = entries[:limit]
		}
	} else {
		entries = log.Recent(limit)
	}
	if entries == nil {
		entries = []game.Entry{}
	}
	writeJSON(w, entries)
}

func (s *Server) handleArrests(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}
	arrests := []game.Arrest{}
	if s.DB != nil {
		var err error
		if arrests, err = s.DB.RecentArrests(limit); err != nil {
			slog.Error("load arrests", "error", err)
			http.Error(w, "failed to load arrests", http.StatusInternalServerError)
			return
		}
	}
	writeJSON(w, arrests)
}

type defenseQuote struct {
	catalog.Defense
	ExpectedLoss float64 `json:"expected_loss"` // expected share of money lost
}

type trialPreview struct {
	Arrested   bool               `json:"arrested"`
	Indictment formula.Indictment `json:"indictment"`
	Defenses   []defenseQuote     `json:"defenses"`
}

// handleTrialPreview shows the indictment the current run would face and
// what each defense is expected to cost.
func (s *Server) handleTrialPreview(w http.ResponseWriter, r *http.Request) {
	st := s.Machine.Snapshot()
	ind := st.Indict()
	resp := trialPreview{Arrested: st.IsGameOver, Indictment: ind, Defenses: []defenseQuote{}}
	for _, d := range s.Machine.Catalog().Defenses {
		resp.Defenses = append(resp.Defenses, defenseQuote{Defense: d, ExpectedLoss: trial.ExpectedLoss(ind, d)})
	}
	writeJSON(w, resp)
}

type costPreview struct {
	Upgrade    string  `json:"upgrade"`
	Owned      int     `json:"owned"`
	N          int     `json:"n"`
	Cost       float64 `json:"cost"`
	Affordable int     `json:"affordable"` // how many the current money buys
	Discount   bool    `json:"discount"`
}

// handleCostPreview prices the next n purchases of one upgrade.
func (s *Server) handleCostPreview(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("upgrade")
	u, ok := s.Machine.Catalog().Upgrade(id)
	if !ok {
		http.Error(w, "unknown upgrade", http.StatusNotFound)
		return
	}
	n := 1
	if v := r.URL.Query().Get("n"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > 1000 {
			http.Error(w, "n must be between 1 and 1000", http.StatusBadRequest)
			return
		}
		n = parsed
	}

	st, o := s.Machine.Overview()
	owned := st.OwnedUpgrades[id]
	writeJSON(w, costPreview{
		Upgrade:    id,
		Owned:      owned,
		N:          n,
		Cost:       formula.BulkCost(u, owned, n, o.DiscountActive),
		Affordable: formula.Affordable(u, owned, st.Money, o.DiscountActive),
		Discount:   o.DiscountActive,
	})
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		http.Error(w, "streaming not available", http.StatusServiceUnavailable)
		return
	}
	s.hub.ServeWS(w, r)
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	s.Machine.Click()
	writeJSON(w, s.current())
}

func (s *Server) handleGolden(w http.ResponseWriter, r *http.Request) {
	s.Machine.CollectGolden()
	writeJSON(w, s.current())
}

func (s *Server) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, ok := s.Machine.Catalog().Upgrade(id); !ok {
		http.Error(w, "unknown upgrade", http.StatusNotFound)
		return
	}
	s.Machine.BuyUpgrade(id)
	writeJSON(w, s.current())
}

func (s *Server) handleZoneUnlock(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, ok := s.Machine.Catalog().Zone(id); !ok {
		http.Error(w, "unknown zone", http.StatusNotFound)
		return
	}
	s.Machine.UnlockZone(id)
	writeJSON(w, s.current())
}

func (s *Server) handleZoneSelect(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, ok := s.Machine.Catalog().Zone(id); !ok {
		http.Error(w, "unknown zone", http.StatusNotFound)
		return
	}
	s.Machine.SelectZone(id)
	writeJSON(w, s.current())
}

type trialRequest struct {
	Defense string `json:"defense"` // empty = no lawyer
}

type trialResponse struct {
	Arrest game.Arrest `json:"arrest"`
	stateResponse
}

func (s *Server) handleTrial(w http.ResponseWriter, r *http.Request) {
	var req trialRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
	}
	if req.Defense != "" {
		if _, ok := s.Machine.Catalog().Defense(req.Defense); !ok {
			http.Error(w, "unknown defense", http.StatusNotFound)
			return
		}
	}

	arrest, ok := s.Machine.StandTrial(req.Defense)
	if !ok {
		http.Error(w, "not under arrest", http.StatusConflict)
		return
	}
	writeJSON(w, trialResponse{Arrest: arrest, stateResponse: s.current()})
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	s.Machine.NewGame()
	writeJSON(w, s.current())
}

// handleReset wipes the player, including the stored arrest history and
// event log.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.Machine.FullReset()
	if s.DB != nil {
		if err := s.DB.DeleteArrests(); err != nil {
			slog.Error("clear arrests", "error", err)
		}
		if err := s.DB.DeleteEvents(); err != nil {
			slog.Error("clear events", "error", err)
		}
	}
	slog.Info("full reset via API")
	writeJSON(w, s.current())
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "persistence disabled", http.StatusServiceUnavailable)
		return
	}
	st := s.Machine.Snapshot()
	if err := s.DB.SaveGame(st, s.Machine.Log()); err != nil {
		slog.Error("manual save failed", "error", err)
		http.Error(w, "save failed", http.StatusInternalServerError)
		return
	}
	slog.Info("game saved via API", "run", st.RunID)
	writeJSON(w, map[string]string{"status": "saved", "run_id": st.RunID})
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
