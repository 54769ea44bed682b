package game

import (
	"time"

	"github.com/google/uuid"

	"github.com/talgya/claimrush/internal/catalog"
	"github.com/talgya/claimrush/internal/formula"
	"github.com/talgya/claimrush/internal/trial"
)

// Arrest records what one prestige cost the player.
type Arrest struct {
	RunID       string          `json:"run_id"`
	Number      int             `json:"number"`
	Time        time.Time       `json:"time"`
	Defense     string          `json:"defense"`
	Outcome     catalog.Outcome `json:"outcome"`
	Sentence    int             `json:"sentence"`
	SeizureRate float64         `json:"seizure_rate"`
	Fee         float64         `json:"fee"`
	Seized      float64         `json:"seized"`
	MoneyBefore float64         `json:"money_before"`
	MoneyAfter  float64         `json:"money_after"`
	TotalEarned float64         `json:"total_earned"`
	FakeClaims  int             `json:"fake_claims"`
	ViralViews  float64         `json:"viral_views"`
}

// Prestige applies a trial verdict to an arrested player and starts the next
// run. The lawyer's fee comes out first, then the seizure. Zones, upgrades,
// achievements and lifetime stats are kept; exposure and session counters
// start over. It only applies from game over.
func Prestige(s State, env Env, v trial.Verdict) (State, Arrest, bool) {
	if !s.IsGameOver {
		return s, Arrest{}, false
	}
	s = s.Clone()

	a := Arrest{
		RunID:       s.RunID,
		Number:      s.TotalArrestCount + 1,
		Time:        env.Now,
		Defense:     v.Defense,
		Outcome:     v.Outcome,
		Sentence:    v.Sentence,
		SeizureRate: v.SeizureRate,
		MoneyBefore: s.Money,
		TotalEarned: s.TotalEarned,
		FakeClaims:  s.FakeClaims,
		ViralViews:  s.ViralViews,
	}
	a.Fee = v.Fee(s.Money)
	s.Money -= a.Fee
	a.Seized = formula.Seized(s.Money, v.SeizureRate)
	s.Money -= a.Seized
	a.MoneyAfter = s.Money

	s.TotalArrestCount++
	s.Prestige.Percent += formula.PrestigeTierPercent(s.TotalArrestCount)
	s.Lifetime.Arrests++
	s.Lifetime.YearsSentenced += v.Sentence
	s.Lifetime.MoneySeized += a.Seized
	switch v.Outcome {
	case catalog.OutcomeAcquitted:
		s.Lifetime.Acquittals++
	case catalog.OutcomeReduced:
		s.Lifetime.Reduced++
	case catalog.OutcomeConvicted:
		s.Lifetime.Convictions++
	}

	s = resetSession(s, env.Now)
	if v.Outcome == catalog.OutcomeAcquitted {
		env.record(CategoryTrial, "acquitted, walked out with %s", FormatMoney(s.Money))
	} else {
		env.record(CategoryTrial, "%s: %d years, %s seized", v.Outcome, v.Sentence, FormatMoney(a.Seized))
	}
	return settle(s, env), a, true
}

// resetSession clears exposure and the per-run timers.
func resetSession(s State, now time.Time) State {
	s.RunID = uuid.NewString()
	s.FakeClaims = 0
	s.ViralViews = 0
	s.ThreatLevel = formula.ThreatSafe
	s.ActiveEvent = ""
	s.EventEndTime = time.Time{}
	s.Golden = nil
	s.DiscountEndTime = time.Time{}
	s.LastGoldenSpawn = now
	s.AntagonistZone = ""
	s.IsGameOver = false
	s.IsPaused = false
	s.LastTick = now
	return s
}

// NewGame is the soft reset: a fresh run that keeps achievements, prestige
// bonuses, lifetime stats and the historical records.
func NewGame(s State, env Env) State {
	fresh := NewState(env.Catalog, env.Now)
	fresh.TotalEarned = s.TotalEarned
	fresh.MaxThreatLevel = s.MaxThreatLevel
	fresh.IsVictory = s.IsVictory
	fresh.TotalArrestCount = s.TotalArrestCount
	fresh.Prestige = s.Prestige
	fresh.UnlockedAchievements = append([]string(nil), s.UnlockedAchievements...)
	fresh.Lifetime = s.Lifetime
	fresh.Lifetime.GamesStarted++
	env.record(CategoryReset, "started a new game")
	return settle(fresh, env)
}

// FullReset wipes everything back to a brand new player.
func FullReset(env Env) State {
	env.record(CategoryReset, "wiped all progress")
	return NewState(env.Catalog, env.Now)
}
