package catalog

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a catalog from a YAML file and validates it.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalog and validates it.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	c.reindex()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks ids are unique and every cross-reference resolves.
func (c *Catalog) Validate() error {
	var errs []error

	if len(c.Zones) == 0 {
		errs = append(errs, errors.New("catalog has no zones"))
	}

	seen := make(map[string]bool)
	for _, z := range c.Zones {
		if z.ID == "" {
			errs = append(errs, errors.New("zone with empty id"))
			continue
		}
		if seen["zone:"+z.ID] {
			errs = append(errs, fmt.Errorf("duplicate zone %q", z.ID))
		}
		seen["zone:"+z.ID] = true
		if z.UnlockCost < 0 || z.BaseClick < 0 || z.BaseViews < 0 {
			errs = append(errs, fmt.Errorf("zone %q: negative value", z.ID))
		}
	}

	for _, u := range c.Upgrades {
		if seen["upgrade:"+u.ID] {
			errs = append(errs, fmt.Errorf("duplicate upgrade %q", u.ID))
		}
		seen["upgrade:"+u.ID] = true
		if _, ok := c.Zone(u.Zone); !ok {
			errs = append(errs, fmt.Errorf("upgrade %q: unknown zone %q", u.ID, u.Zone))
		}
		if u.BaseCost <= 0 {
			errs = append(errs, fmt.Errorf("upgrade %q: base cost must be positive", u.ID))
		}
		if u.CostMultiplier < 1 {
			errs = append(errs, fmt.Errorf("upgrade %q: cost multiplier below 1", u.ID))
		}
		if u.MaxQuantity < 0 {
			errs = append(errs, fmt.Errorf("upgrade %q: negative max quantity", u.ID))
		}
		if err := validateEffect(u.Effect); err != nil {
			errs = append(errs, fmt.Errorf("upgrade %q: %w", u.ID, err))
		}
	}

	for _, e := range c.Events {
		if seen["event:"+e.ID] {
			errs = append(errs, fmt.Errorf("duplicate event %q", e.ID))
		}
		seen["event:"+e.ID] = true
		if e.Weight < 0 {
			errs = append(errs, fmt.Errorf("event %q: negative weight", e.ID))
		}
		if e.DurationSeconds <= 0 {
			errs = append(errs, fmt.Errorf("event %q: duration must be positive", e.ID))
		}
	}

	for _, a := range c.Achievements {
		if seen["achievement:"+a.ID] {
			errs = append(errs, fmt.Errorf("duplicate achievement %q", a.ID))
		}
		seen["achievement:"+a.ID] = true
		if err := c.validateCondition(a.Condition); err != nil {
			errs = append(errs, fmt.Errorf("achievement %q: %w", a.ID, err))
		}
	}

	for _, d := range c.Defenses {
		if seen["defense:"+d.ID] {
			errs = append(errs, fmt.Errorf("duplicate defense %q", d.ID))
		}
		seen["defense:"+d.ID] = true
		if d.AcquitChance < 0 || d.ReduceChance < 0 || d.AcquitChance+d.ReduceChance > 1 {
			errs = append(errs, fmt.Errorf("defense %q: chances must be within [0,1]", d.ID))
		}
		if d.FeeRate < 0 || d.FeeRate > 1 {
			errs = append(errs, fmt.Errorf("defense %q: fee rate must be within [0,1]", d.ID))
		}
	}

	return errors.Join(errs...)
}

func validateEffect(e Effect) error {
	switch e.Kind {
	case EffectClickBonus, EffectPassiveIncome, EffectDecayBonus:
		if e.Value < 0 {
			return fmt.Errorf("%s: negative value", e.Kind)
		}
	case EffectClickMultiplier, EffectDecayMultiplier, EffectGoldenBoost:
		if e.Value <= 0 {
			return fmt.Errorf("%s: multiplier must be positive", e.Kind)
		}
	case EffectViewReduction:
		if e.Value < 0 || e.Value >= 1 {
			return fmt.Errorf("%s: reduction must be within [0,1)", e.Kind)
		}
	case EffectViewCap:
		if e.Value <= 0 {
			return fmt.Errorf("%s: cap must be positive", e.Kind)
		}
	default:
		return fmt.Errorf("unknown effect kind %q", e.Kind)
	}
	return nil
}

func (c *Catalog) validateCondition(cond Condition) error {
	switch cond.Kind {
	case ConditionCounter:
		switch cond.Counter {
		case CounterTotalEarned, CounterMoney, CounterFakeClaims, CounterViralViews,
			CounterMaxThreat, CounterTotalArrests, CounterGoldenClaims, CounterTotalClicks,
			CounterUpgradesOwned, CounterZonesUnlocked, CounterLifetimeEarned:
		default:
			return fmt.Errorf("unknown counter %q", cond.Counter)
		}
	case ConditionZone:
		if _, ok := c.Zone(cond.Zone); !ok {
			return fmt.Errorf("unknown zone %q", cond.Zone)
		}
	case ConditionTrial:
		switch cond.Outcome {
		case OutcomeAcquitted, OutcomeReduced, OutcomeConvicted:
		default:
			return fmt.Errorf("unknown outcome %q", cond.Outcome)
		}
	default:
		return fmt.Errorf("unknown condition kind %q", cond.Kind)
	}
	return nil
}
