package autoplay

import (
	"github.com/talgya/claimrush/internal/formula"
)

// Risk grades how close the run is to an arrest.
type Risk string

const (
	RiskSafe     Risk = "SAFE" // the view cap sits below the viral threshold
	RiskCalm     Risk = "CALM"
	RiskWatch    Risk = "WATCH"
	RiskWarning  Risk = "WARNING"
	RiskCritical Risk = "CRITICAL"
)

// Assessment holds signals derived from a Snapshot. It is deterministic and
// needs no extra requests.
type Assessment struct {
	Pressure    float64 // viral views as a share of the viral threshold
	ViewRate    float64 // net passive views gained per second
	SecondsLeft float64 // until passive exposure alone triggers an arrest; 0 = never
	Risk        Risk
}

// Assess computes the arrest risk of a snapshot.
func Assess(snap *Snapshot) Assessment {
	o := snap.Overview
	a := Assessment{Pressure: snap.State.ViralViews / formula.ViralThreshold}

	gain := o.PassiveIncome * formula.PassiveViewRatio
	if o.Event != nil {
		if ev, ok := snap.Catalog.Event(o.Event.ID); ok {
			gain *= ev.Views()
		}
	}
	a.ViewRate = gain - formula.AppliedDecay(o.ViewDecay, 1, gain)

	if o.ViewCap < formula.ViralThreshold {
		a.Risk = RiskSafe
		return a
	}
	if a.ViewRate > 0 {
		a.SecondsLeft = (formula.ViralThreshold - snap.State.ViralViews) / a.ViewRate
	}

	switch {
	case a.Pressure >= 0.9:
		a.Risk = RiskCritical
	case a.Pressure >= 0.7:
		a.Risk = RiskWarning
	case a.Pressure >= 0.4:
		a.Risk = RiskWatch
	default:
		a.Risk = RiskCalm
	}
	return a
}

// Elevated reports whether exposure control should come before growth.
func (a Assessment) Elevated() bool {
	return a.Risk == RiskWarning || a.Risk == RiskCritical
}
