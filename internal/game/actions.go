package game

import (
	"math"

	"github.com/talgya/claimrush/internal/formula"
)

// Click files one fake claim in the active zone.
func Click(s State, env Env) State {
	s = expire(s.Clone(), env)
	if s.IsGameOver || s.IsPaused {
		return s
	}
	zone, ok := env.Catalog.Zone(s.ActiveZone)
	if !ok {
		return s
	}

	l := s.Loadout(env.Catalog)
	value := formula.ClickValue(zone.BaseClick, l, s.Modifiers())
	viewMult := 1.0
	if ev, ok := s.Event(env.Catalog); ok {
		value = math.Floor(value * ev.Click())
		viewMult = ev.Views()
	}
	views := formula.ViewsGain(zone.BaseViews, l, viewMult, s.AntagonistZone == zone.ID)

	s.Money += value
	s.TotalEarned += value
	s.Lifetime.TotalEarned += value
	s.FakeClaims++
	s.Lifetime.Clicks++
	s.ViralViews += views
	return settle(s, env)
}

// ClickValue is the money the next click in the active zone would earn.
func ClickValue(s State, env Env) float64 {
	zone, ok := env.Catalog.Zone(s.ActiveZone)
	if !ok {
		return 0
	}
	value := formula.ClickValue(zone.BaseClick, s.Loadout(env.Catalog), s.Modifiers())
	if ev, ok := s.Event(env.Catalog); ok {
		value = math.Floor(value * ev.Click())
	}
	return value
}

// UpgradeCost is the price of the next unit of upgrade id.
func UpgradeCost(s State, env Env, id string) (float64, bool) {
	u, ok := env.Catalog.Upgrade(id)
	if !ok {
		return 0, false
	}
	return formula.UpgradeCost(u, s.OwnedUpgrades[id], s.DiscountActive(env.Now)), true
}

// BuyUpgrade buys exactly one unit of upgrade id.
func BuyUpgrade(s State, env Env, id string) State {
	if s.IsGameOver {
		return s
	}
	u, ok := env.Catalog.Upgrade(id)
	if !ok || !s.UnlockedZones[u.Zone] {
		return s
	}
	owned := s.OwnedUpgrades[id]
	if u.Capped() && owned >= u.MaxQuantity {
		return s
	}
	cost := formula.UpgradeCost(u, owned, s.DiscountActive(env.Now))
	if s.Money < cost {
		return s
	}

	s = s.Clone()
	s.Money -= cost
	s.OwnedUpgrades[id] = owned + 1
	return settle(s, env)
}

// UnlockZone buys zone id and makes it the active zone.
func UnlockZone(s State, env Env, id string) State {
	if s.IsGameOver || s.UnlockedZones[id] {
		return s
	}
	zone, ok := env.Catalog.Zone(id)
	if !ok || s.Money < zone.UnlockCost {
		return s
	}

	s = s.Clone()
	s.Money -= zone.UnlockCost
	s.UnlockedZones[id] = true
	s.ActiveZone = id
	env.record(CategoryZone, "moved operations to %s", zone.Name)
	return settle(s, env)
}

// SelectZone switches the active zone to an unlocked one.
func SelectZone(s State, env Env, id string) State {
	if s.IsGameOver || !s.UnlockedZones[id] || s.ActiveZone == id {
		return s
	}
	s = s.Clone()
	s.ActiveZone = id
	return s
}
