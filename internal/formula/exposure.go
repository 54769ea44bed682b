package formula

import (
	"math"

	"github.com/talgya/claimrush/internal/catalog"
)

// ViewsGain is the exposure from one click in a zone. Each view reduction
// upgrade applies (1-reduction)^owned, then the event multiplier, then the
// journalist bonus when the journalist is in the same zone.
func ViewsGain(zoneBaseViews float64, l Loadout, eventViewMult float64, journalistHere bool) float64 {
	views := zoneBaseViews
	for _, h := range l.Holdings {
		if h.Count > 0 && h.Upgrade.Effect.Kind == catalog.EffectViewReduction {
			views *= math.Pow(1-h.Upgrade.Effect.Value, float64(h.Count))
		}
	}
	if eventViewMult > 0 {
		views *= eventViewMult
	}
	if journalistHere {
		views *= AntagonistViewGain
	}
	return views
}

// ViewDecay is the views removed per second.
func ViewDecay(l Loadout, arrests int) float64 {
	flat := BaseViewDecay
	mult := 1.0
	for _, h := range l.Holdings {
		if h.Count <= 0 {
			continue
		}
		switch h.Upgrade.Effect.Kind {
		case catalog.EffectDecayBonus:
			flat += h.Upgrade.Effect.Value * float64(h.Count)
		case catalog.EffectDecayMultiplier:
			mult *= math.Pow(h.Upgrade.Effect.Value, float64(h.Count))
		}
	}
	return flat * mult * (1 + ArrestDecayBonus*float64(arrests))
}

// ViewCap is the ceiling on exposure. Cap upgrades only ever lower it.
func ViewCap(l Loadout) float64 {
	limit := ViewCeiling
	for _, h := range l.Holdings {
		if h.Count > 0 && h.Upgrade.Effect.Kind == catalog.EffectViewCap && h.Upgrade.Effect.Value < limit {
			limit = h.Upgrade.Effect.Value
		}
	}
	return limit
}

// PassiveViews is the exposure that accompanies passive income over elapsed
// seconds.
func PassiveViews(income, elapsed, eventViewMult float64) float64 {
	views := income * PassiveViewRatio * elapsed
	if eventViewMult > 0 {
		views *= eventViewMult
	}
	return views
}

// AppliedDecay is the decay actually removed in one tick: the full decay for
// the elapsed time, but never more than MaxDecayShare of the passive gain.
func AppliedDecay(decayPerSecond, elapsed, passiveGain float64) float64 {
	decay := decayPerSecond * elapsed
	limit := passiveGain * MaxDecayShare
	if decay > limit {
		decay = limit
	}
	if decay < 0 {
		return 0
	}
	return decay
}
