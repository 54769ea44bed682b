package game

import (
	"time"

	"github.com/google/uuid"

	"github.com/talgya/claimrush/internal/catalog"
	"github.com/talgya/claimrush/internal/formula"
)

// Per-tick spawn probabilities and timed windows.
const (
	EventChance      = 0.002
	AntagonistChance = 0.004
	GoldenChance     = 0.02

	GoldenCooldown = 45 * time.Second
	GoldenLifetime = 12 * time.Second
	DiscountWindow = 30 * time.Second
)

// Tick advances passive accrual by the real time elapsed since the last
// tick, expires timed modifiers, rolls for random spawns and re-derives the
// terminal flags. A tick with no elapsed time only runs the expiry checks.
func Tick(s State, env Env) State {
	s = s.Clone()
	elapsed := env.Now.Sub(s.LastTick).Seconds()
	if elapsed < 0 {
		elapsed = 0
	}
	s.LastTick = env.Now
	s = expire(s, env)

	if elapsed == 0 || s.IsGameOver {
		return settle(s, env)
	}

	s = accrue(s, env, elapsed)
	s = rollEvent(s, env)
	s = rollAntagonist(s, env)
	s = rollGolden(s, env)
	return settle(s, env)
}

// expire clears the event, golden claim and discount window once their end
// time has passed.
func expire(s State, env Env) State {
	if s.ActiveEvent != "" && !env.Now.Before(s.EventEndTime) {
		if ev, ok := env.Catalog.Event(s.ActiveEvent); ok {
			env.record(CategoryEvent, "%s is over", ev.Name)
		}
		s.ActiveEvent = ""
		s.EventEndTime = time.Time{}
		s.IsPaused = false
	}
	if s.Golden != nil && !env.Now.Before(s.Golden.ExpiresAt) {
		env.record(CategoryGolden, "a golden claim slipped away")
		s.Golden = nil
	}
	if !s.DiscountEndTime.IsZero() && !env.Now.Before(s.DiscountEndTime) {
		s.DiscountEndTime = time.Time{}
	}
	return s
}

func accrue(s State, env Env, elapsed float64) State {
	if s.IsPaused {
		return s
	}
	l := s.Loadout(env.Catalog)
	income := formula.PassiveIncome(l, s.Modifiers())
	incomeMult, viewMult := 1.0, 1.0
	if ev, ok := s.Event(env.Catalog); ok {
		incomeMult, viewMult = ev.Income(), ev.Views()
	}

	earned := income * incomeMult * elapsed
	s.Money += earned
	s.TotalEarned += earned
	s.Lifetime.TotalEarned += earned

	gain := formula.PassiveViews(income, elapsed, viewMult)
	decay := formula.AppliedDecay(formula.ViewDecay(l, s.TotalArrestCount), elapsed, gain)
	s.ViralViews += gain - decay
	return s
}

func rollEvent(s State, env Env) State {
	events := env.Catalog.Events
	if s.ActiveEvent != "" || len(events) == 0 || env.Rand == nil {
		return s
	}
	if env.Rand.Float64() >= EventChance {
		return s
	}
	ev, ok := pickEvent(events, env.Rand.Float64())
	if !ok {
		return s
	}
	s.ActiveEvent = ev.ID
	s.EventEndTime = env.Now.Add(time.Duration(ev.DurationSeconds * float64(time.Second)))
	s.IsPaused = ev.Pauses
	env.record(CategoryEvent, "%s: %s", ev.Name, ev.Description)
	return s
}

// pickEvent chooses an event by weight using r in [0,1).
func pickEvent(events []catalog.Event, r float64) (catalog.Event, bool) {
	total := 0.0
	for _, e := range events {
		if e.Weight > 0 {
			total += e.Weight
		}
	}
	if total <= 0 {
		return catalog.Event{}, false
	}
	target := r * total
	for _, e := range events {
		if e.Weight <= 0 {
			continue
		}
		if target < e.Weight {
			return e, true
		}
		target -= e.Weight
	}
	// Float error can leave target just above the last weight.
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].Weight > 0 {
			return events[i], true
		}
	}
	return catalog.Event{}, false
}

func rollAntagonist(s State, env Env) State {
	zones := env.Catalog.Zones
	if len(zones) == 0 || env.Rand == nil {
		return s
	}
	if env.Rand.Float64() >= AntagonistChance {
		return s
	}
	zone := zones[env.Rand.Intn(len(zones))]
	if zone.ID != s.AntagonistZone {
		s.AntagonistZone = zone.ID
		env.record(CategoryJournalist, "the journalist is sniffing around %s", zone.Name)
	}
	return s
}

func rollGolden(s State, env Env) State {
	if s.Golden != nil || env.Rand == nil || env.Now.Sub(s.LastGoldenSpawn) < GoldenCooldown {
		return s
	}
	if env.Rand.Float64() >= GoldenChance {
		return s
	}
	g := &GoldenClaim{
		ID:        uuid.NewString(),
		Type:      goldenTypes[env.Rand.Intn(len(goldenTypes))],
		SpawnedAt: env.Now,
		ExpiresAt: env.Now.Add(GoldenLifetime),
	}
	if env.Placement != nil {
		g.X, g.Y = env.Placement.At(float64(env.Now.UnixMilli()) / 1000)
	} else {
		g.X, g.Y = env.Rand.Float64(), env.Rand.Float64()
	}
	s.Golden = g
	s.LastGoldenSpawn = env.Now
	env.record(CategoryGolden, "a golden %s claim appeared", g.Type)
	return s
}

// CollectGolden redeems the live golden claim.
func CollectGolden(s State, env Env) State {
	s = expire(s.Clone(), env)
	if s.IsGameOver || s.Golden == nil {
		return s
	}

	l := s.Loadout(env.Catalog)
	mult := formula.GoldenMultiplier(l)
	switch s.Golden.Type {
	case GoldenMoney:
		reward := formula.GoldenMoneyReward(ClickValue(s, env), s.TotalEarned, mult)
		s.Money += reward
		s.TotalEarned += reward
		s.Lifetime.TotalEarned += reward
		env.record(CategoryGolden, "golden claim paid out %s", FormatMoney(reward))
	case GoldenViews:
		cut := formula.GoldenViewsReduction(s.ViralViews, mult)
		s.ViralViews -= cut
		env.record(CategoryGolden, "golden claim buried %s views", FormatCount(cut))
	case GoldenDiscount:
		s.DiscountEndTime = env.Now.Add(DiscountWindow)
		env.record(CategoryGolden, "golden claim opened a discount window")
	}
	s.Golden = nil
	s.Lifetime.GoldenClaims++
	return settle(s, env)
}
