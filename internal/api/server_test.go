package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/claimrush/internal/catalog"
	"github.com/talgya/claimrush/internal/entropy"
	"github.com/talgya/claimrush/internal/formula"
	"github.com/talgya/claimrush/internal/game"
	"github.com/talgya/claimrush/internal/persistence"
)

var start = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T, configure func(*Server)) (*httptest.Server, *game.Machine) {
	t.Helper()
	cat := catalog.Default()
	m := game.NewMachine(cat, game.NewState(cat, start), game.Options{
		Clock: game.NewFakeClock(start),
		Rand:  entropy.NewPool(nil),
	})
	s := &Server{Machine: m}
	if configure != nil {
		configure(s)
	}

	ctx, cancel := context.WithCancel(context.Background())
	ts := httptest.NewServer(s.Handler(ctx))
	t.Cleanup(func() {
		ts.Close()
		cancel()
	})
	return ts, m
}

func post(t *testing.T, ts *httptest.Server, path, body string, header http.Header) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, ts.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	for k, v := range header {
		req.Header[k] = v
	}
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func get(t *testing.T, ts *httptest.Server, path string) *http.Response {
	t.Helper()
	resp, err := ts.Client().Get(ts.URL + path)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestStateAndClick(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	resp := get(t, ts, "/api/v1/state")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[stateResponse](t, resp)
	assert.Equal(t, "parking-lot", body.State.ActiveZone)
	assert.Equal(t, 10.0, body.Overview.ClickValue)
	assert.Equal(t, game.StatusPlaying, body.Overview.Status)

	resp = post(t, ts, "/api/v1/click", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decode[stateResponse](t, resp)
	assert.Equal(t, 10.0, body.State.Money)
	assert.Equal(t, 1, body.State.FakeClaims)
	assert.Equal(t, 50.0, body.State.ViralViews)
}

func TestClickRequiresPost(t *testing.T) {
	ts, _ := newTestServer(t, nil)
	resp := get(t, ts, "/api/v1/click")
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestUpgradeAndZones(t *testing.T) {
	ts, m := newTestServer(t, nil)
	for i := 0; i < 5; i++ {
		m.Click()
	}

	resp := post(t, ts, "/api/v1/upgrade/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = post(t, ts, "/api/v1/upgrade/neck-brace", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[stateResponse](t, resp)
	assert.Equal(t, 1, body.State.OwnedUpgrades["neck-brace"])
	assert.Zero(t, body.State.Money)
	assert.Equal(t, 15.0, body.Overview.ClickValue)

	// Too poor: the action is a no-op, not an error.
	resp = post(t, ts, "/api/v1/zone/grocery-aisle/unlock", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decode[stateResponse](t, resp)
	assert.False(t, body.State.UnlockedZones["grocery-aisle"])

	resp = post(t, ts, "/api/v1/zone/atlantis/select", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCostPreview(t *testing.T) {
	ts, m := newTestServer(t, nil)
	for i := 0; i < 20; i++ {
		m.Click()
	}

	resp := get(t, ts, "/api/v1/preview/cost?upgrade=neck-brace&n=3")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	p := decode[costPreview](t, resp)
	u, _ := catalog.Default().Upgrade("neck-brace")
	assert.Equal(t, formula.BulkCost(u, 0, 3, false), p.Cost)
	assert.Equal(t, 3, p.N)
	assert.Equal(t, formula.Affordable(u, 0, 200, false), p.Affordable)

	assert.Equal(t, http.StatusNotFound, get(t, ts, "/api/v1/preview/cost?upgrade=nope").StatusCode)
	assert.Equal(t, http.StatusBadRequest, get(t, ts, "/api/v1/preview/cost?upgrade=neck-brace&n=0").StatusCode)
}

func arrest(m *game.Machine) {
	s := m.Snapshot()
	s.Money = 10_000
	s.TotalEarned = 50_000
	s.FakeClaims = 2_000
	s.ViralViews = formula.ViralThreshold
	s.IsGameOver = true
	m.Restore(s)
}

func TestTrialFlow(t *testing.T) {
	ts, m := newTestServer(t, nil)

	resp := post(t, ts, "/api/v1/trial", `{"defense":"plea-deal"}`, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	arrest(m)

	preview := decode[trialPreview](t, get(t, ts, "/api/v1/trial"))
	assert.True(t, preview.Arrested)
	assert.Len(t, preview.Defenses, len(catalog.Default().Defenses))
	assert.Equal(t, m.Snapshot().Indict(), preview.Indictment)

	resp = post(t, ts, "/api/v1/trial", `{"defense":"houdini"}`, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = post(t, ts, "/api/v1/trial", `{"defense":`, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = post(t, ts, "/api/v1/trial", `{"defense":"plea-deal"}`, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[trialResponse](t, resp)
	assert.Equal(t, catalog.OutcomeReduced, body.Arrest.Outcome)
	assert.Equal(t, 500.0, body.Arrest.Fee)
	assert.Equal(t, 1, body.State.TotalArrestCount)
	assert.False(t, body.State.IsGameOver)
	assert.Zero(t, body.State.ViralViews)
}

func TestTrialWithoutLawyer(t *testing.T) {
	ts, m := newTestServer(t, nil)
	arrest(m)

	resp := post(t, ts, "/api/v1/trial", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[trialResponse](t, resp)
	assert.Equal(t, catalog.OutcomeConvicted, body.Arrest.Outcome)
	assert.Empty(t, body.Arrest.Defense)
}

func TestEventsEndpoint(t *testing.T) {
	ts, m := newTestServer(t, nil)
	log := m.Log()
	for i := 0; i < 5; i++ {
		log.Record(start, game.CategoryEvent, "entry %d", i)
	}

	entries := decode[[]game.Entry](t, get(t, ts, "/api/v1/events?limit=2"))
	require.Len(t, entries, 2)
	assert.Equal(t, "entry 4", entries[1].Text)

	entries = decode[[]game.Entry](t, get(t, ts, "/api/v1/events?since=3"))
	require.Len(t, entries, 2)
	assert.Equal(t, uint64(4), entries[0].Seq)

	entries = decode[[]game.Entry](t, get(t, ts, "/api/v1/events?since=99"))
	assert.Empty(t, entries)

	assert.Equal(t, http.StatusBadRequest, get(t, ts, "/api/v1/events?since=x").StatusCode)
}

func TestArrestsAndSave(t *testing.T) {
	db, err := persistence.Open(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ts, m := newTestServer(t, func(s *Server) {
		s.DB = db
		s.AdminKey = "secret"
		s.Machine.OnArrest = func(a game.Arrest) { assert.NoError(t, db.RecordArrest(a)) }
	})
	arrest(m)
	post(t, ts, "/api/v1/trial", `{"defense":"public-defender"}`, nil)

	arrests := decode[[]game.Arrest](t, get(t, ts, "/api/v1/arrests"))
	require.Len(t, arrests, 1)
	assert.Equal(t, "public-defender", arrests[0].Defense)

	auth := http.Header{"Authorization": {"Bearer secret"}}
	resp := post(t, ts, "/api/v1/save", "", auth)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	ok, err := db.HasSave()
	require.NoError(t, err)
	assert.True(t, ok)
	saved, err := db.RecentEvents(game.MaxLogEntries)
	require.NoError(t, err)
	assert.NotEmpty(t, saved)

	resp = post(t, ts, "/api/v1/reset", "", auth)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[stateResponse](t, resp)
	assert.Zero(t, body.State.TotalArrestCount)
	assert.Empty(t, decode[[]game.Arrest](t, get(t, ts, "/api/v1/arrests")))
	saved, err = db.RecentEvents(game.MaxLogEntries)
	require.NoError(t, err)
	assert.Empty(t, saved)
}

func TestAdminAuth(t *testing.T) {
	ts, _ := newTestServer(t, nil)
	assert.Equal(t, http.StatusForbidden, post(t, ts, "/api/v1/reset", "", nil).StatusCode)

	ts, _ = newTestServer(t, func(s *Server) { s.AdminKey = "secret" })
	assert.Equal(t, http.StatusUnauthorized, post(t, ts, "/api/v1/reset", "", nil).StatusCode)
	wrong := http.Header{"Authorization": {"Bearer nope"}}
	assert.Equal(t, http.StatusUnauthorized, post(t, ts, "/api/v1/reset", "", wrong).StatusCode)
	assert.Equal(t, http.StatusServiceUnavailable,
		post(t, ts, "/api/v1/save", "", http.Header{"Authorization": {"Bearer secret"}}).StatusCode)
}

func TestActionRateLimit(t *testing.T) {
	ts, _ := newTestServer(t, func(s *Server) {
		s.ActionRate = 0.5
		s.ActionBurst = 2
	})

	assert.Equal(t, http.StatusOK, post(t, ts, "/api/v1/click", "", nil).StatusCode)
	assert.Equal(t, http.StatusOK, post(t, ts, "/api/v1/click", "", nil).StatusCode)
	resp := post(t, ts, "/api/v1/click", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "2", resp.Header.Get("Retry-After"))

	// Another client has its own bucket; reads are never limited.
	other := http.Header{"X-Forwarded-For": {"203.0.113.7, 10.0.0.1"}}
	assert.Equal(t, http.StatusOK, post(t, ts, "/api/v1/click", "", other).StatusCode)
	assert.Equal(t, http.StatusOK, get(t, ts, "/api/v1/state").StatusCode)
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.0.2.1:5555"
	assert.Equal(t, "192.0.2.1", clientIP(r))

	r.Header.Set("X-Forwarded-For", " 198.51.100.2 ,10.0.0.1")
	assert.Equal(t, "198.51.100.2", clientIP(r))
}

func TestCORSPreflight(t *testing.T) {
	ts, _ := newTestServer(t, nil)
	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/v1/click", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestStreamPushesSnapshots(t *testing.T) {
	ts, m := newTestServer(t, nil)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var first stateResponse
	require.NoError(t, conn.ReadJSON(&first))
	assert.Zero(t, first.State.Money)

	m.Click()
	m.Click()

	for {
		var next stateResponse
		require.NoError(t, conn.ReadJSON(&next))
		if next.State.Money == 20 {
			assert.Equal(t, 2, next.State.FakeClaims)
			return
		}
	}
}
