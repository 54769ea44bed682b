package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/claimrush/internal/catalog"
	"github.com/talgya/claimrush/internal/formula"
	"github.com/talgya/claimrush/internal/trial"
)

func arrested(cat *catalog.Catalog) State {
	s := NewState(cat, start)
	s.Money = 1_001
	s.TotalEarned = 3_000_000
	s.FakeClaims = 400
	s.ViralViews = formula.ViralThreshold
	s.ThreatLevel = formula.ThreatTheVideo
	s.MaxThreatLevel = formula.ThreatTheVideo
	s.IsGameOver = true
	s.UnlockedZones["clinic"] = true
	s.ActiveZone = "clinic"
	s.OwnedUpgrades["brace"] = 3
	s.UnlockedAchievements = []string{"million", "clinical"}
	s.AntagonistZone = "street"
	return s
}

func TestPrestigeRequiresGameOver(t *testing.T) {
	env := testEnv(start, quiet())
	s := NewState(env.Catalog, start)
	s.Money = 500

	next, _, ok := Prestige(s, env, trial.Verdict{Outcome: catalog.OutcomeConvicted, SeizureRate: 0.5})
	assert.False(t, ok)
	assert.Equal(t, 500.0, next.Money)
	assert.Zero(t, next.TotalArrestCount)
}

func TestPrestigeAcquittalKeepsMoney(t *testing.T) {
	env := testEnv(start.Add(time.Hour), quiet())
	s := arrested(env.Catalog)
	runID := s.RunID

	next, a, ok := Prestige(s, env, trial.Verdict{Outcome: catalog.OutcomeAcquitted, Defense: "pd"})
	require.True(t, ok)
	assert.Equal(t, 1_001.0, next.Money)
	assert.Zero(t, a.Seized)
	assert.Equal(t, runID, a.RunID)
	assert.Equal(t, 1, a.Number)

	// Session counters start over.
	assert.False(t, next.IsGameOver)
	assert.Zero(t, next.ViralViews)
	assert.Zero(t, next.FakeClaims)
	assert.Equal(t, formula.ThreatSafe, next.ThreatLevel)
	assert.Empty(t, next.AntagonistZone)
	assert.NotEqual(t, runID, next.RunID)
	assert.Equal(t, env.Now, next.LastTick)
	assert.Equal(t, StatusPlaying, next.Status())

	// Long-term progress survives.
	assert.Equal(t, 3_000_000.0, next.TotalEarned)
	assert.Equal(t, formula.ThreatTheVideo, next.MaxThreatLevel)
	assert.True(t, next.UnlockedZones["clinic"])
	assert.Equal(t, "clinic", next.ActiveZone)
	assert.Equal(t, 3, next.OwnedUpgrades["brace"])
	assert.Equal(t, 1, next.TotalArrestCount)
	assert.Equal(t, 15.0, next.Prestige.Percent)
	assert.Equal(t, 1, next.Lifetime.Acquittals)
	assert.Equal(t, 1, next.Lifetime.Arrests)

	// Walking free unlocks the trial achievement.
	assert.Equal(t, []string{"million", "clinical", "free"}, next.UnlockedAchievements)
}

func TestPrestigeMaximumSentenceSeizes93Percent(t *testing.T) {
	env := testEnv(start, quiet())
	s := arrested(env.Catalog)

	v := trial.Verdict{Outcome: catalog.OutcomeConvicted, Sentence: formula.MaxSentence, SeizureRate: formula.SeizureRate(formula.MaxSentence)}
	next, a, ok := Prestige(s, env, v)
	require.True(t, ok)
	assert.Equal(t, 930.0, a.Seized)
	assert.Equal(t, 71.0, next.Money)
	assert.Equal(t, 71.0, a.MoneyAfter)
	assert.Equal(t, 1, next.Lifetime.Convictions)
	assert.Equal(t, formula.MaxSentence, next.Lifetime.YearsSentenced)
	assert.Equal(t, 930.0, next.Lifetime.MoneySeized)
}

func TestPrestigeFeeBeforeSeizure(t *testing.T) {
	env := testEnv(start, quiet())
	s := arrested(env.Catalog)
	s.Money = 1_000

	next, a, ok := Prestige(s, env, trial.Verdict{Outcome: catalog.OutcomeReduced, FeeRate: 0.2, Sentence: 15, SeizureRate: 0.5})
	require.True(t, ok)
	assert.Equal(t, 200.0, a.Fee)
	assert.Equal(t, 400.0, a.Seized)
	assert.Equal(t, 400.0, next.Money)
	assert.Equal(t, 1, next.Lifetime.Reduced)
}

func TestPrestigeTiersAccumulate(t *testing.T) {
	env := testEnv(start, quiet())
	s := arrested(env.Catalog)
	for i := 0; i < 5; i++ {
		s.IsGameOver = true
		s.ViralViews = formula.ViralThreshold
		var ok bool
		s, _, ok = Prestige(s, env, trial.Conviction(s.Indict()))
		require.True(t, ok)
	}
	assert.Equal(t, 5, s.TotalArrestCount)
	assert.Equal(t, formula.PrestigePercent(5), s.Prestige.Percent)
	assert.InDelta(t, 1.53, s.Modifiers().Multiplier(), 1e-9)
	// Every arrest also speeds up decay.
	assert.InDelta(t, formula.BaseViewDecay*1.25, formula.ViewDecay(s.Loadout(env.Catalog), s.TotalArrestCount), 1e-9)
}

func TestIndictPreview(t *testing.T) {
	s := arrested(testCatalog())
	ind := s.Indict()
	// 0.6 × 100M/80M + 0.4 × 400/5000; 3M earned is 2 years, raised to 3.
	assert.InDelta(t, 0.782, ind.Evidence, 1e-9)
	assert.Equal(t, 3, ind.Sentence)
	assert.InDelta(t, 0.1, ind.SeizureRate, 1e-9)
}

func TestNewGameIsSoftReset(t *testing.T) {
	env := testEnv(start.Add(time.Hour), quiet())
	s := arrested(env.Catalog)
	s.IsGameOver = false
	s.ViralViews = 5_000
	s.TotalArrestCount = 2
	s.Prestige = PrestigeBonuses{Percent: 27, GlobalMultiplier: 1.05}
	s.Lifetime.Clicks = 99

	next := NewGame(s, env)
	assert.Zero(t, next.Money)
	assert.Zero(t, next.ViralViews)
	assert.Equal(t, "street", next.ActiveZone)
	assert.False(t, next.UnlockedZones["clinic"])
	assert.Empty(t, next.OwnedUpgrades)

	assert.Equal(t, []string{"million", "clinical"}, next.UnlockedAchievements)
	assert.Equal(t, 2, next.TotalArrestCount)
	assert.Equal(t, s.Prestige, next.Prestige)
	assert.Equal(t, 99, next.Lifetime.Clicks)
	assert.Equal(t, 2, next.Lifetime.GamesStarted)
	assert.Equal(t, s.TotalEarned, next.TotalEarned)
	assert.Equal(t, formula.ThreatTheVideo, next.MaxThreatLevel)
}

func TestFullResetWipesEverything(t *testing.T) {
	env := testEnv(start, quiet())
	s := FullReset(env)
	fresh := NewState(env.Catalog, start)

	assert.Empty(t, s.UnlockedAchievements)
	assert.Zero(t, s.TotalArrestCount)
	assert.Zero(t, s.TotalEarned)
	assert.Equal(t, fresh.Prestige, s.Prestige)
	assert.Equal(t, fresh.Lifetime, s.Lifetime)
	assert.Equal(t, formula.ThreatSafe, s.MaxThreatLevel)
}

func TestAchievementCrossingInsideLargeTick(t *testing.T) {
	env := testEnv(start, quiet())
	s := NewState(env.Catalog, start)
	s.OwnedUpgrades["runner"] = 2 // 100/s
	s.TotalEarned = 999_000

	env.Now = start.Add(9 * time.Second)
	s = Tick(s, env)
	assert.False(t, s.HasAchievement("million"))
	assert.Empty(t, Evaluate(s, env.Catalog))

	env.Now = start.Add(30 * time.Second)
	s = Tick(s, env)
	assert.True(t, s.HasAchievement("million"))
	assert.InDelta(t, 1.1, s.Prestige.GlobalMultiplier, 1e-9)

	// Re-evaluation never duplicates.
	s = Tick(s, Env{Catalog: env.Catalog, Now: env.Now.Add(time.Second), Rand: quiet()})
	assert.Equal(t, []string{"million"}, s.UnlockedAchievements)
	assert.Empty(t, Evaluate(s, env.Catalog))
}

func TestCounterValues(t *testing.T) {
	s := arrested(testCatalog())
	s.Lifetime.GoldenClaims = 4
	assert.Equal(t, 400.0, CounterValue(s, catalog.CounterFakeClaims))
	assert.Equal(t, 3.0, CounterValue(s, catalog.CounterUpgradesOwned))
	assert.Equal(t, 2.0, CounterValue(s, catalog.CounterZonesUnlocked))
	assert.Equal(t, float64(formula.ThreatTheVideo), CounterValue(s, catalog.CounterMaxThreat))
	assert.Equal(t, 4.0, CounterValue(s, catalog.CounterGoldenClaims))
	assert.Zero(t, CounterValue(s, catalog.Counter("unknown")))
}
