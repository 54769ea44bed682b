package formula

import (
	"math"

	"github.com/talgya/claimrush/internal/catalog"
)

// Holding is an upgrade and how many of it are owned.
type Holding struct {
	Upgrade catalog.Upgrade
	Count   int
}

// Loadout is everything the formulas need to know about owned upgrades.
type Loadout struct {
	Holdings []Holding
	// Unlocked gates passive income by zone. A nil map counts every zone.
	Unlocked map[string]bool
}

func (l Loadout) zoneActive(zone string) bool {
	if l.Unlocked == nil {
		return true
	}
	return l.Unlocked[zone]
}

// Modifiers are the long-term bonuses that scale all income.
type Modifiers struct {
	PrestigePercent float64 // accumulated prestige tiers, in percent
	Veteran         bool    // the player has won at least once
	Global          float64 // bonus multiplier from achievements; 0 means 1
}

// Multiplier folds prestige, veteran and global bonuses into one factor.
func (m Modifiers) Multiplier() float64 {
	mult := 1 + m.PrestigePercent/100
	if m.Veteran {
		mult *= VeteranMultiplier
	}
	if m.Global > 0 {
		mult *= m.Global
	}
	return mult
}

// PrestigeTierPercent is the bonus earned by the n-th arrest (1-based).
func PrestigeTierPercent(arrest int) float64 {
	if arrest <= 0 {
		return 0
	}
	if arrest <= len(prestigeTiers) {
		return prestigeTiers[arrest-1]
	}
	return PrestigeLaterTier
}

// PrestigePercent is the summed tier bonus after the given number of arrests.
func PrestigePercent(arrests int) float64 {
	total := 0.0
	for i := 1; i <= arrests; i++ {
		total += PrestigeTierPercent(i)
	}
	return total
}

// ClickValue is the money earned by one click in a zone with the given base
// value: flat bonuses are added, then every click multiplier is applied as
// value^owned, then the long-term modifiers. The result is truncated.
func ClickValue(zoneBase float64, l Loadout, m Modifiers) float64 {
	flat := zoneBase
	mult := 1.0
	for _, h := range l.Holdings {
		if h.Count <= 0 {
			continue
		}
		switch h.Upgrade.Effect.Kind {
		case catalog.EffectClickBonus:
			flat += h.Upgrade.Effect.Value * float64(h.Count)
		case catalog.EffectClickMultiplier:
			mult *= math.Pow(h.Upgrade.Effect.Value, float64(h.Count))
		}
	}
	return truncate(flat * mult * m.Multiplier())
}

// truncEpsilon absorbs float error from percent multipliers such as 1.15.
// It is relative so values a hair below an integer still round down.
const truncEpsilon = 1e-12

func truncate(v float64) float64 {
	if v <= 0 {
		return 0
	}
	return math.Trunc(v * (1 + truncEpsilon))
}

// PassiveIncome is the money earned per second from passive upgrades whose
// zone is unlocked. It is not truncated.
func PassiveIncome(l Loadout, m Modifiers) float64 {
	total := 0.0
	for _, h := range l.Holdings {
		if h.Count <= 0 || h.Upgrade.Effect.Kind != catalog.EffectPassiveIncome {
			continue
		}
		if !l.zoneActive(h.Upgrade.Zone) {
			continue
		}
		total += h.Upgrade.Effect.Value * float64(h.Count)
	}
	return total * m.Multiplier()
}

// GoldenMultiplier scales golden claim rewards by owned boost upgrades.
func GoldenMultiplier(l Loadout) float64 {
	mult := 1.0
	for _, h := range l.Holdings {
		if h.Count > 0 && h.Upgrade.Effect.Kind == catalog.EffectGoldenBoost {
			mult *= math.Pow(h.Upgrade.Effect.Value, float64(h.Count))
		}
	}
	return mult
}

// GoldenMoneyReward is the payout of a money-type golden claim.
func GoldenMoneyReward(clickValue, totalEarned, goldenMult float64) float64 {
	return (GoldenMoneyClicks*clickValue + math.Max(GoldenMoneyFloor, GoldenMoneyEarnedShare*totalEarned)) * goldenMult
}

// GoldenViewsReduction is how many views a views-type golden claim removes.
func GoldenViewsReduction(views, goldenMult float64) float64 {
	return clamp(GoldenViewsShare*views, GoldenViewsMin, GoldenViewsMax) * goldenMult
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
