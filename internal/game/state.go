// Package game is the progression state machine: the State aggregate, the
// transitions that change it, achievement evaluation, the prestige reset and
// the Machine that hosts a single run.
//
// Transitions are functions of the form func(State, Env, ...) State. They
// never mutate their input and never fail: an action that is not valid in
// the current state returns the state unchanged.
package game

import (
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/talgya/claimrush/internal/catalog"
	"github.com/talgya/claimrush/internal/entropy"
	"github.com/talgya/claimrush/internal/formula"
)

// GoldenType selects the reward of a golden claim.
type GoldenType string

const (
	GoldenMoney    GoldenType = "money"
	GoldenViews    GoldenType = "views"
	GoldenDiscount GoldenType = "discount"
)

var goldenTypes = [...]GoldenType{GoldenMoney, GoldenViews, GoldenDiscount}

// GoldenClaim is a short-lived bonus pickup placed somewhere on screen.
type GoldenClaim struct {
	ID        string     `json:"id"`
	Type      GoldenType `json:"type"`
	SpawnedAt time.Time  `json:"spawned_at"`
	ExpiresAt time.Time  `json:"expires_at"`
	X         float64    `json:"x"` // [0,1] share of screen width
	Y         float64    `json:"y"` // [0,1] share of screen height
}

// PrestigeBonuses are the long-term multipliers that survive prestige.
type PrestigeBonuses struct {
	Percent          float64 `json:"percent"`           // summed arrest tiers
	GlobalMultiplier float64 `json:"global_multiplier"` // 1 plus achievement rewards
}

// LifetimeStats accumulate across every run until a full reset.
type LifetimeStats struct {
	TotalEarned    float64 `json:"total_earned"`
	Clicks         int     `json:"clicks"`
	GoldenClaims   int     `json:"golden_claims"`
	Victories      int     `json:"victories"`
	Arrests        int     `json:"arrests"`
	Acquittals     int     `json:"acquittals"`
	Reduced        int     `json:"reduced"`
	Convictions    int     `json:"convictions"`
	YearsSentenced int     `json:"years_sentenced"`
	MoneySeized    float64 `json:"money_seized"`
	GamesStarted   int     `json:"games_started"`
}

// Outcomes returns how many trials ended with o.
func (l LifetimeStats) Outcomes(o catalog.Outcome) int {
	switch o {
	case catalog.OutcomeAcquitted:
		return l.Acquittals
	case catalog.OutcomeReduced:
		return l.Reduced
	case catalog.OutcomeConvicted:
		return l.Convictions
	}
	return 0
}

// Status is the coarse phase of the state machine.
type Status string

const (
	StatusPlaying  Status = "playing"
	StatusPaused   Status = "paused"
	StatusGameOver Status = "game-over"
	StatusVictory  Status = "victory"
)

// State is the whole simulation aggregate.
type State struct {
	RunID string `json:"run_id"`

	Money       float64 `json:"money"`
	TotalEarned float64 `json:"total_earned"`
	FakeClaims  int     `json:"fake_claims"`

	ViralViews     float64             `json:"viral_views"`
	ThreatLevel    formula.ThreatLevel `json:"threat_level"`
	MaxThreatLevel formula.ThreatLevel `json:"max_threat_level"`

	ActiveZone    string          `json:"active_zone"`
	UnlockedZones map[string]bool `json:"unlocked_zones"`
	OwnedUpgrades map[string]int  `json:"owned_upgrades"`

	ActiveEvent     string       `json:"active_event,omitempty"`
	EventEndTime    time.Time    `json:"event_end_time"`
	Golden          *GoldenClaim `json:"golden,omitempty"`
	DiscountEndTime time.Time    `json:"discount_end_time"`
	LastGoldenSpawn time.Time    `json:"last_golden_spawn"`
	AntagonistZone  string       `json:"antagonist_zone,omitempty"`

	UnlockedAchievements []string        `json:"unlocked_achievements"`
	TotalArrestCount     int             `json:"total_arrest_count"`
	Prestige             PrestigeBonuses `json:"prestige"`
	Lifetime             LifetimeStats   `json:"lifetime"`

	IsGameOver bool `json:"is_game_over"`
	IsVictory  bool `json:"is_victory"`
	IsPaused   bool `json:"is_paused"`

	LastTick time.Time `json:"last_tick"`
}

// NewState creates the initial state of a brand new player.
func NewState(cat *catalog.Catalog, now time.Time) State {
	start := cat.StartingZone()
	return State{
		RunID:           uuid.NewString(),
		ActiveZone:      start.ID,
		UnlockedZones:   map[string]bool{start.ID: true},
		OwnedUpgrades:   map[string]int{},
		LastGoldenSpawn: now,
		Prestige:        PrestigeBonuses{GlobalMultiplier: 1},
		Lifetime:        LifetimeStats{GamesStarted: 1},
		LastTick:        now,
	}
}

// Clone returns a deep copy.
func (s State) Clone() State {
	c := s
	c.UnlockedZones = maps.Clone(s.UnlockedZones)
	if c.UnlockedZones == nil {
		c.UnlockedZones = map[string]bool{}
	}
	c.OwnedUpgrades = maps.Clone(s.OwnedUpgrades)
	if c.OwnedUpgrades == nil {
		c.OwnedUpgrades = map[string]int{}
	}
	c.UnlockedAchievements = slices.Clone(s.UnlockedAchievements)
	if s.Golden != nil {
		g := *s.Golden
		c.Golden = &g
	}
	return c
}

// Status derives the current phase.
func (s State) Status() Status {
	switch {
	case s.IsGameOver:
		return StatusGameOver
	case s.IsPaused:
		return StatusPaused
	case s.IsVictory:
		return StatusVictory
	}
	return StatusPlaying
}

// Loadout collects owned upgrades in catalog order for the formulas.
func (s State) Loadout(cat *catalog.Catalog) formula.Loadout {
	l := formula.Loadout{Unlocked: s.UnlockedZones}
	if l.Unlocked == nil {
		l.Unlocked = map[string]bool{}
	}
	for _, u := range cat.Upgrades {
		if n := s.OwnedUpgrades[u.ID]; n > 0 {
			l.Holdings = append(l.Holdings, formula.Holding{Upgrade: u, Count: n})
		}
	}
	return l
}

// Modifiers returns the long-term income modifiers.
func (s State) Modifiers() formula.Modifiers {
	return formula.Modifiers{
		PrestigePercent: s.Prestige.Percent,
		Veteran:         s.Lifetime.Victories > 0,
		Global:          s.Prestige.GlobalMultiplier,
	}
}

// Event returns the active random event, if any.
func (s State) Event(cat *catalog.Catalog) (catalog.Event, bool) {
	if s.ActiveEvent == "" {
		return catalog.Event{}, false
	}
	return cat.Event(s.ActiveEvent)
}

// DiscountActive reports whether prices are discounted at now.
func (s State) DiscountActive(now time.Time) bool {
	return !s.DiscountEndTime.IsZero() && now.Before(s.DiscountEndTime)
}

// GoldenLive reports whether a golden claim can be collected at now.
func (s State) GoldenLive(now time.Time) bool {
	return s.Golden != nil && now.Before(s.Golden.ExpiresAt)
}

// HasAchievement reports whether id is unlocked.
func (s State) HasAchievement(id string) bool {
	return slices.Contains(s.UnlockedAchievements, id)
}

// UpgradeCount is the total number of upgrades owned.
func (s State) UpgradeCount() int {
	total := 0
	for _, n := range s.OwnedUpgrades {
		total += n
	}
	return total
}

// Indict previews the sentencing math for the current state.
func (s State) Indict() formula.Indictment {
	return formula.Indict(s.ViralViews, float64(s.FakeClaims), s.TotalEarned)
}

// Env is what a transition needs besides the state itself.
type Env struct {
	Catalog   *catalog.Catalog
	Now       time.Time
	Rand      entropy.Source
	Placement *entropy.Placement // optional; golden claims fall back to Rand
	Log       *EventLog          // optional
}

func (e Env) record(category, format string, args ...any) {
	e.Log.Record(e.Now, category, format, args...)
}

// settle re-derives everything that follows from the counters and unlocks
// any achievements the new state satisfies.
func settle(s State, env Env) State {
	s = derive(s, env)
	return applyAchievements(s, env)
}

// derive clamps exposure, recomputes threat and checks the terminal
// conditions.
func derive(s State, env Env) State {
	limit := formula.ViewCap(s.Loadout(env.Catalog))
	if s.ViralViews < 0 {
		s.ViralViews = 0
	}
	if s.ViralViews > limit {
		s.ViralViews = limit
	}

	s.ThreatLevel = formula.Threat(s.ViralViews)
	if s.ThreatLevel > s.MaxThreatLevel {
		s.MaxThreatLevel = s.ThreatLevel
	}

	if !s.IsGameOver && s.ViralViews >= formula.ViralThreshold {
		s.IsGameOver = true
		s.IsPaused = false
		s.Golden = nil
		env.record(CategoryArrest, "the video went viral at %s views", FormatCount(s.ViralViews))
	}
	if !s.IsVictory && s.TotalEarned >= formula.TargetAmount {
		s.IsVictory = true
		s.Lifetime.Victories++
		env.record(CategoryVictory, "a billion in fake claims")
	}
	return s
}
