package game

import (
	"time"

	"github.com/talgya/claimrush/internal/formula"
)

// Overview is the state as a player sees it: every derived value the
// interface shows, computed once.
type Overview struct {
	Status           Status              `json:"status"`
	ClickValue       float64             `json:"click_value"`
	ViewsPerClick    float64             `json:"views_per_click"`
	PassiveIncome    float64             `json:"passive_income"`
	ViewDecay        float64             `json:"view_decay"`
	ViewCap          float64             `json:"view_cap"`
	Multiplier       float64             `json:"multiplier"`
	GoldenMultiplier float64             `json:"golden_multiplier"`
	DiscountActive   bool                `json:"discount_active"`
	Event            *EventView          `json:"event,omitempty"`
	Zones            []ZoneView          `json:"zones"`
	Upgrades         []UpgradeView       `json:"upgrades"`
	Indictment       *formula.Indictment `json:"indictment,omitempty"`
}

type EventView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	EndsAt    time.Time `json:"ends_at"`
	Remaining float64   `json:"remaining_seconds"`
	Pauses    bool      `json:"pauses"`
}

type ZoneView struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	UnlockCost float64 `json:"unlock_cost"`
	Unlocked   bool    `json:"unlocked"`
	Active     bool    `json:"active"`
	Journalist bool    `json:"journalist"`
}

type UpgradeView struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Zone       string  `json:"zone"`
	Owned      int     `json:"owned"`
	Cost       float64 `json:"cost"`
	Available  bool    `json:"available"` // zone unlocked and below cap
	Affordable bool    `json:"affordable"`
	MaxedOut   bool    `json:"maxed_out"`
}

// Describe computes the overview of s.
func Describe(s State, env Env) Overview {
	cat := env.Catalog
	l := s.Loadout(cat)
	m := s.Modifiers()
	discount := s.DiscountActive(env.Now)

	o := Overview{
		Status:           s.Status(),
		ClickValue:       ClickValue(s, env),
		PassiveIncome:    formula.PassiveIncome(l, m),
		ViewDecay:        formula.ViewDecay(l, s.TotalArrestCount),
		ViewCap:          formula.ViewCap(l),
		Multiplier:       m.Multiplier(),
		GoldenMultiplier: formula.GoldenMultiplier(l),
		DiscountActive:   discount,
	}

	viewMult := 1.0
	if ev, ok := s.Event(cat); ok {
		viewMult = ev.Views()
		o.PassiveIncome *= ev.Income()
		remaining := s.EventEndTime.Sub(env.Now).Seconds()
		if remaining < 0 {
			remaining = 0
		}
		o.Event = &EventView{ID: ev.ID, Name: ev.Name, EndsAt: s.EventEndTime, Remaining: remaining, Pauses: ev.Pauses}
	}
	if zone, ok := cat.Zone(s.ActiveZone); ok {
		o.ViewsPerClick = formula.ViewsGain(zone.BaseViews, l, viewMult, s.AntagonistZone == zone.ID)
	}

	for _, z := range cat.Zones {
		o.Zones = append(o.Zones, ZoneView{
			ID:         z.ID,
			Name:       z.Name,
			UnlockCost: z.UnlockCost,
			Unlocked:   s.UnlockedZones[z.ID],
			Active:     s.ActiveZone == z.ID,
			Journalist: s.AntagonistZone == z.ID,
		})
	}
	for _, u := range cat.Upgrades {
		owned := s.OwnedUpgrades[u.ID]
		maxed := u.Capped() && owned >= u.MaxQuantity
		cost := formula.UpgradeCost(u, owned, discount)
		available := s.UnlockedZones[u.Zone] && !maxed
		o.Upgrades = append(o.Upgrades, UpgradeView{
			ID:         u.ID,
			Name:       u.Name,
			Zone:       u.Zone,
			Owned:      owned,
			Cost:       cost,
			Available:  available,
			Affordable: available && s.Money >= cost,
			MaxedOut:   maxed,
		})
	}
	if s.IsGameOver {
		ind := s.Indict()
		o.Indictment = &ind
	}
	return o
}
