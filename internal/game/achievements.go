package game

import (
	"github.com/talgya/claimrush/internal/catalog"
)

// Evaluate returns the ids of achievements that s satisfies but has not yet
// unlocked, in catalog order. It does not modify s.
func Evaluate(s State, cat *catalog.Catalog) []string {
	var ids []string
	for _, a := range cat.Achievements {
		if s.HasAchievement(a.ID) {
			continue
		}
		if satisfied(s, a.Condition) {
			ids = append(ids, a.ID)
		}
	}
	return ids
}

func satisfied(s State, c catalog.Condition) bool {
	switch c.Kind {
	case catalog.ConditionCounter:
		return CounterValue(s, c.Counter) >= c.Threshold
	case catalog.ConditionZone:
		return s.UnlockedZones[c.Zone]
	case catalog.ConditionTrial:
		return s.Lifetime.Outcomes(c.Outcome) > 0
	}
	return false
}

// CounterValue reads a tracked counter from the state.
func CounterValue(s State, c catalog.Counter) float64 {
	switch c {
	case catalog.CounterTotalEarned:
		return s.TotalEarned
	case catalog.CounterMoney:
		return s.Money
	case catalog.CounterFakeClaims:
		return float64(s.FakeClaims)
	case catalog.CounterViralViews:
		return s.ViralViews
	case catalog.CounterMaxThreat:
		return float64(s.MaxThreatLevel)
	case catalog.CounterTotalArrests:
		return float64(s.TotalArrestCount)
	case catalog.CounterGoldenClaims:
		return float64(s.Lifetime.GoldenClaims)
	case catalog.CounterTotalClicks:
		return float64(s.Lifetime.Clicks)
	case catalog.CounterUpgradesOwned:
		return float64(s.UpgradeCount())
	case catalog.CounterZonesUnlocked:
		return float64(len(s.UnlockedZones))
	case catalog.CounterLifetimeEarned:
		return s.Lifetime.TotalEarned
	}
	return 0
}

func applyAchievements(s State, env Env) State {
	ids := Evaluate(s, env.Catalog)
	if len(ids) == 0 {
		return s
	}
	for _, id := range ids {
		a, _ := env.Catalog.Achievement(id)
		s.UnlockedAchievements = append(s.UnlockedAchievements, id)
		s.Prestige.GlobalMultiplier += a.RewardPercent / 100
		env.record(CategoryAchievement, "achievement unlocked: %s", a.Name)
	}
	return s
}
