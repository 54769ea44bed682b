// Package catalog holds the static reference tables the engine reads by id:
// zones, upgrades, random events, achievements and legal defenses.
// Tables are never mutated after construction.
package catalog

// EffectKind names the single formulaic effect an upgrade applies.
type EffectKind string

const (
	EffectClickBonus      EffectKind = "click_bonus"      // flat money per click, × owned
	EffectClickMultiplier EffectKind = "click_multiplier" // value^owned on click money
	EffectPassiveIncome   EffectKind = "passive_income"   // money per second, × owned
	EffectViewReduction   EffectKind = "view_reduction"   // (1-value)^owned on views per click
	EffectDecayBonus      EffectKind = "decay_bonus"      // flat views decayed per second, × owned
	EffectDecayMultiplier EffectKind = "decay_multiplier" // value^owned on view decay
	EffectViewCap         EffectKind = "view_cap"         // tightens the view ceiling to value
	EffectGoldenBoost     EffectKind = "golden_boost"     // value^owned on golden claim rewards
)

// Outcome is the result of a trial after an arrest.
type Outcome string

const (
	OutcomeAcquitted Outcome = "acquitted"
	OutcomeReduced   Outcome = "reduced"
	OutcomeConvicted Outcome = "convicted"
)

// Zone is a themed working context unlocked with money.
type Zone struct {
	ID          string  `yaml:"id" json:"id"`
	Name        string  `yaml:"name" json:"name"`
	Description string  `yaml:"description" json:"description"`
	UnlockCost  float64 `yaml:"unlock_cost" json:"unlock_cost"`
	BaseClick   float64 `yaml:"base_click" json:"base_click"` // money per click before upgrades
	BaseViews   float64 `yaml:"base_views" json:"base_views"` // exposure per click before upgrades
}

// Effect is the formula an upgrade contributes.
type Effect struct {
	Kind  EffectKind `yaml:"kind" json:"kind"`
	Value float64    `yaml:"value" json:"value"`
}

// Upgrade is a repeatable purchase with an exponential cost curve.
type Upgrade struct {
	ID             string  `yaml:"id" json:"id"`
	Name           string  `yaml:"name" json:"name"`
	Description    string  `yaml:"description" json:"description"`
	Zone           string  `yaml:"zone" json:"zone"`
	BaseCost       float64 `yaml:"base_cost" json:"base_cost"`
	CostMultiplier float64 `yaml:"cost_multiplier" json:"cost_multiplier"`
	MaxQuantity    int     `yaml:"max_quantity" json:"max_quantity,omitempty"` // 0 = uncapped
	Effect         Effect  `yaml:"effect" json:"effect"`
}

// Capped reports whether the upgrade has a purchase limit.
func (u Upgrade) Capped() bool { return u.MaxQuantity > 0 }

// Event is a time-boxed modifier that may start at random during play.
type Event struct {
	ID               string  `yaml:"id" json:"id"`
	Name             string  `yaml:"name" json:"name"`
	Description      string  `yaml:"description" json:"description"`
	Weight           float64 `yaml:"weight" json:"weight"`
	DurationSeconds  float64 `yaml:"duration_seconds" json:"duration_seconds"`
	IncomeMultiplier float64 `yaml:"income_multiplier" json:"income_multiplier"`
	ViewMultiplier   float64 `yaml:"view_multiplier" json:"view_multiplier"`
	ClickMultiplier  float64 `yaml:"click_multiplier" json:"click_multiplier"`
	Pauses           bool    `yaml:"pauses" json:"pauses"` // suspends clicks and income while active
}

// Income returns the income multiplier, treating an unset value as neutral.
func (e Event) Income() float64 { return neutral(e.IncomeMultiplier) }

// Views returns the view multiplier, treating an unset value as neutral.
func (e Event) Views() float64 { return neutral(e.ViewMultiplier) }

// Click returns the click multiplier, treating an unset value as neutral.
func (e Event) Click() float64 { return neutral(e.ClickMultiplier) }

func neutral(v float64) float64 {
	if v <= 0 {
		return 1
	}
	return v
}

// ConditionKind selects how an achievement condition is evaluated.
type ConditionKind string

const (
	ConditionCounter ConditionKind = "counter" // Counter >= Threshold
	ConditionZone    ConditionKind = "zone"    // Zone is unlocked
	ConditionTrial   ConditionKind = "trial"   // a trial ended with Outcome at least once
)

// Counter names a tracked numeric quantity achievements can test.
type Counter string

const (
	CounterTotalEarned    Counter = "total_earned"
	CounterMoney          Counter = "money"
	CounterFakeClaims     Counter = "fake_claims"
	CounterViralViews     Counter = "viral_views"
	CounterMaxThreat      Counter = "max_threat" // ordinal of the highest threat level reached
	CounterTotalArrests   Counter = "total_arrests"
	CounterGoldenClaims   Counter = "golden_claims"
	CounterTotalClicks    Counter = "total_clicks"
	CounterUpgradesOwned  Counter = "upgrades_owned"
	CounterZonesUnlocked  Counter = "zones_unlocked"
	CounterLifetimeEarned Counter = "lifetime_earned"
)

// Condition is the predicate an achievement waits on.
type Condition struct {
	Kind      ConditionKind `yaml:"kind" json:"kind"`
	Counter   Counter       `yaml:"counter,omitempty" json:"counter,omitempty"`
	Threshold float64       `yaml:"threshold,omitempty" json:"threshold,omitempty"`
	Zone      string        `yaml:"zone,omitempty" json:"zone,omitempty"`
	Outcome   Outcome       `yaml:"outcome,omitempty" json:"outcome,omitempty"`
}

// Achievement is a one-time unlock. RewardPercent is added to the global
// bonus multiplier when it unlocks.
type Achievement struct {
	ID            string    `yaml:"id" json:"id"`
	Name          string    `yaml:"name" json:"name"`
	Description   string    `yaml:"description" json:"description"`
	Condition     Condition `yaml:"condition" json:"condition"`
	RewardPercent float64   `yaml:"reward_percent" json:"reward_percent"`
}

// Defense is a legal strategy chosen after an arrest.
type Defense struct {
	ID           string  `yaml:"id" json:"id"`
	Name         string  `yaml:"name" json:"name"`
	Description  string  `yaml:"description" json:"description"`
	FeeRate      float64 `yaml:"fee_rate" json:"fee_rate"`           // share of money paid up front
	AcquitChance float64 `yaml:"acquit_chance" json:"acquit_chance"` // probability of walking free
	ReduceChance float64 `yaml:"reduce_chance" json:"reduce_chance"` // probability of a reduced sentence
	ReduceFactor float64 `yaml:"reduce_factor" json:"reduce_factor"` // sentence multiplier when reduced
}

// Catalog is the complete set of reference tables.
type Catalog struct {
	Zones        []Zone        `yaml:"zones" json:"zones"`
	Upgrades     []Upgrade     `yaml:"upgrades" json:"upgrades"`
	Events       []Event       `yaml:"events" json:"events"`
	Achievements []Achievement `yaml:"achievements" json:"achievements"`
	Defenses     []Defense     `yaml:"defenses" json:"defenses"`

	zoneIndex        map[string]int
	upgradeIndex     map[string]int
	eventIndex       map[string]int
	achievementIndex map[string]int
	defenseIndex     map[string]int
}

// New builds a catalog from tables and indexes it by id.
func New(zones []Zone, upgrades []Upgrade, events []Event, achievements []Achievement, defenses []Defense) *Catalog {
	c := &Catalog{
		Zones:        zones,
		Upgrades:     upgrades,
		Events:       events,
		Achievements: achievements,
		Defenses:     defenses,
	}
	c.reindex()
	return c
}

func (c *Catalog) reindex() {
	c.zoneIndex = make(map[string]int, len(c.Zones))
	for i, z := range c.Zones {
		c.zoneIndex[z.ID] = i
	}
	c.upgradeIndex = make(map[string]int, len(c.Upgrades))
	for i, u := range c.Upgrades {
		c.upgradeIndex[u.ID] = i
	}
	c.eventIndex = make(map[string]int, len(c.Events))
	for i, e := range c.Events {
		c.eventIndex[e.ID] = i
	}
	c.achievementIndex = make(map[string]int, len(c.Achievements))
	for i, a := range c.Achievements {
		c.achievementIndex[a.ID] = i
	}
	c.defenseIndex = make(map[string]int, len(c.Defenses))
	for i, d := range c.Defenses {
		c.defenseIndex[d.ID] = i
	}
}

// Zone looks up a zone by id.
func (c *Catalog) Zone(id string) (Zone, bool) {
	i, ok := c.zoneIndex[id]
	if !ok {
		return Zone{}, false
	}
	return c.Zones[i], true
}

// Upgrade looks up an upgrade by id.
func (c *Catalog) Upgrade(id string) (Upgrade, bool) {
	i, ok := c.upgradeIndex[id]
	if !ok {
		return Upgrade{}, false
	}
	return c.Upgrades[i], true
}

// Event looks up a random event by id.
func (c *Catalog) Event(id string) (Event, bool) {
	i, ok := c.eventIndex[id]
	if !ok {
		return Event{}, false
	}
	return c.Events[i], true
}

// Achievement looks up an achievement by id.
func (c *Catalog) Achievement(id string) (Achievement, bool) {
	i, ok := c.achievementIndex[id]
	if !ok {
		return Achievement{}, false
	}
	return c.Achievements[i], true
}

// Defense looks up a legal defense by id.
func (c *Catalog) Defense(id string) (Defense, bool) {
	i, ok := c.defenseIndex[id]
	if !ok {
		return Defense{}, false
	}
	return c.Defenses[i], true
}

// StartingZone returns the zone every run begins in: the first free zone,
// or the first zone when none is free.
func (c *Catalog) StartingZone() Zone {
	for _, z := range c.Zones {
		if z.UnlockCost <= 0 {
			return z
		}
	}
	if len(c.Zones) > 0 {
		return c.Zones[0]
	}
	return Zone{}
}
