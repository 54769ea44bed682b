package autoplay

import (
	"fmt"

	"github.com/talgya/claimrush/internal/catalog"
	"github.com/talgya/claimrush/internal/game"
)

// ActionKind names one API action.
type ActionKind string

const (
	ActionNone    ActionKind = "none"
	ActionClick   ActionKind = "click"
	ActionGolden  ActionKind = "golden"
	ActionUpgrade ActionKind = "upgrade"
	ActionUnlock  ActionKind = "unlock"
	ActionSelect  ActionKind = "select"
	ActionTrial   ActionKind = "trial"
)

// Action is the bot's choice for one step.
type Action struct {
	Kind      ActionKind
	Target    string // upgrade, zone or defense id
	Rationale string
}

// Preferences tune the strategy.
type Preferences struct {
	Defense       string // fixed trial defense; empty picks the lowest expected loss
	StopOnVictory bool
}

// exposureEffects are the upgrade effects that slow or cap exposure.
var exposureEffects = map[catalog.EffectKind]bool{
	catalog.EffectViewReduction:   true,
	catalog.EffectDecayBonus:      true,
	catalog.EffectDecayMultiplier: true,
	catalog.EffectViewCap:         true,
}

// Decide picks one action. Priorities, highest first: stand trial when
// arrested, grab a live golden claim, buy exposure control under pressure,
// open the next zone, move to the richest zone, buy the cheapest upgrade,
// click.
func Decide(snap *Snapshot, a Assessment, prefs Preferences) Action {
	s := snap.State
	o := snap.Overview

	if s.IsGameOver {
		return chooseDefense(snap, prefs)
	}
	if s.IsVictory && prefs.StopOnVictory {
		return Action{Kind: ActionNone, Rationale: "run won"}
	}
	if s.Golden != nil {
		return Action{Kind: ActionGolden, Target: s.Golden.ID, Rationale: fmt.Sprintf("%s golden claim", s.Golden.Type)}
	}

	if a.Elevated() {
		if u, ok := cheapest(o.Upgrades, func(u game.UpgradeView) bool { return exposureUpgrade(snap.Catalog, u.ID) }); ok {
			return Action{Kind: ActionUpgrade, Target: u.ID,
				Rationale: fmt.Sprintf("exposure control at %.0f%% pressure", a.Pressure*100)}
		}
	}

	if z, ok := nextZone(o.Zones, s.Money); ok {
		return Action{Kind: ActionUnlock, Target: z.ID, Rationale: "open " + z.Name + " for " + game.FormatMoney(z.UnlockCost)}
	}
	if best, ok := richestZone(snap); ok && best.ID != s.ActiveZone {
		return Action{Kind: ActionSelect, Target: best.ID, Rationale: "best click value in " + best.Name}
	}

	if u, ok := cheapest(o.Upgrades, nil); ok {
		return Action{Kind: ActionUpgrade, Target: u.ID, Rationale: "cheapest upgrade at " + game.FormatMoney(u.Cost)}
	}

	if s.IsPaused {
		return Action{Kind: ActionNone, Rationale: "lying low until the event ends"}
	}
	return Action{Kind: ActionClick, Rationale: "file another claim"}
}

func chooseDefense(snap *Snapshot, prefs Preferences) Action {
	if prefs.Defense != "" {
		return Action{Kind: ActionTrial, Target: prefs.Defense, Rationale: "preferred defense"}
	}
	if snap.Trial == nil || len(snap.Trial.Defenses) == 0 {
		return Action{Kind: ActionTrial, Rationale: "no lawyer available"}
	}
	best := snap.Trial.Defenses[0]
	for _, d := range snap.Trial.Defenses[1:] {
		if d.ExpectedLoss < best.ExpectedLoss {
			best = d
		}
	}
	return Action{Kind: ActionTrial, Target: best.ID,
		Rationale: fmt.Sprintf("lowest expected loss %.1f%%", best.ExpectedLoss*100)}
}

func exposureUpgrade(cat *catalog.Catalog, id string) bool {
	u, ok := cat.Upgrade(id)
	return ok && exposureEffects[u.Effect.Kind]
}

// cheapest returns the lowest priced affordable upgrade matching keep.
func cheapest(upgrades []game.UpgradeView, keep func(game.UpgradeView) bool) (game.UpgradeView, bool) {
	var (
		best  game.UpgradeView
		found bool
	)
	for _, u := range upgrades {
		if !u.Affordable || (keep != nil && !keep(u)) {
			continue
		}
		if !found || u.Cost < best.Cost {
			best, found = u, true
		}
	}
	return best, found
}

// nextZone is the first locked zone the money covers.
func nextZone(zones []game.ZoneView, money float64) (game.ZoneView, bool) {
	for _, z := range zones {
		if !z.Unlocked && z.UnlockCost <= money {
			return z, true
		}
	}
	return game.ZoneView{}, false
}

// richestZone is the unlocked zone with the highest base click, skipping the
// journalist's zone when another is open.
func richestZone(snap *Snapshot) (catalog.Zone, bool) {
	var (
		best  catalog.Zone
		found bool
	)
	for _, zv := range snap.Overview.Zones {
		if !zv.Unlocked || zv.Journalist {
			continue
		}
		z, ok := snap.Catalog.Zone(zv.ID)
		if !ok {
			continue
		}
		if !found || z.BaseClick > best.BaseClick {
			best, found = z, true
		}
	}
	return best, found
}
