package formula

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/claimrush/internal/catalog"
)

func upgrade(id string, kind catalog.EffectKind, value float64) catalog.Upgrade {
	return catalog.Upgrade{
		ID:             id,
		Zone:           "z",
		BaseCost:       100,
		CostMultiplier: 1.15,
		Effect:         catalog.Effect{Kind: kind, Value: value},
	}
}

func TestClickValueExample(t *testing.T) {
	l := Loadout{Holdings: []Holding{
		{Upgrade: upgrade("bonus", catalog.EffectClickBonus, 5), Count: 2},
		{Upgrade: upgrade("double", catalog.EffectClickMultiplier, 2), Count: 1},
	}}
	assert.Equal(t, 40.0, ClickValue(10, l, Modifiers{}))
}

func TestClickValueModifiers(t *testing.T) {
	l := Loadout{}

	// One arrest: +15%.
	assert.Equal(t, 115.0, ClickValue(100, l, Modifiers{PrestigePercent: PrestigePercent(1)}))
	// Veteran and an achievement bonus stack multiplicatively.
	assert.Equal(t, 132.0, ClickValue(100, l, Modifiers{Veteran: true, Global: 1.1}))
	// Truncation, not rounding.
	assert.Equal(t, 11.0, ClickValue(10, l, Modifiers{PrestigePercent: 15}))
	assert.Equal(t, 115.0, ClickValue(100, l, Modifiers{PrestigePercent: 15}))
}

func TestPrestigeTiers(t *testing.T) {
	assert.Equal(t, 0.0, PrestigePercent(0))
	assert.Equal(t, 15.0, PrestigePercent(1))
	assert.Equal(t, 27.0, PrestigePercent(2))
	assert.Equal(t, 37.0, PrestigePercent(3))
	assert.Equal(t, 45.0, PrestigePercent(4))
	assert.Equal(t, 53.0, PrestigePercent(5))
	assert.InDelta(t, 1.53, Modifiers{PrestigePercent: PrestigePercent(5)}.Multiplier(), 1e-9)
}

func TestPassiveIncomeOnlyCountsUnlockedZones(t *testing.T) {
	a := upgrade("a", catalog.EffectPassiveIncome, 10)
	b := upgrade("b", catalog.EffectPassiveIncome, 100)
	b.Zone = "locked"

	l := Loadout{
		Holdings: []Holding{{Upgrade: a, Count: 3}, {Upgrade: b, Count: 1}},
		Unlocked: map[string]bool{"z": true},
	}
	assert.Equal(t, 30.0, PassiveIncome(l, Modifiers{}))
	assert.InDelta(t, 34.5, PassiveIncome(l, Modifiers{PrestigePercent: 15}), 1e-9)

	l.Unlocked = nil
	assert.Equal(t, 130.0, PassiveIncome(l, Modifiers{}))
}

func TestViewsGain(t *testing.T) {
	l := Loadout{Holdings: []Holding{
		{Upgrade: upgrade("burner", catalog.EffectViewReduction, 0.5), Count: 2},
	}}
	assert.Equal(t, 25.0, ViewsGain(100, l, 0, false))
	assert.Equal(t, 75.0, ViewsGain(100, l, 3, false))
	assert.Equal(t, 37.5, ViewsGain(100, l, 1, true))
}

func TestViewDecay(t *testing.T) {
	l := Loadout{Holdings: []Holding{
		{Upgrade: upgrade("flat", catalog.EffectDecayBonus, 250), Count: 2},
		{Upgrade: upgrade("mult", catalog.EffectDecayMultiplier, 2), Count: 1},
	}}
	assert.Equal(t, BaseViewDecay, ViewDecay(Loadout{}, 0))
	assert.Equal(t, 2000.0, ViewDecay(l, 0))
	assert.InDelta(t, 2200.0, ViewDecay(l, 2), 1e-9)
}

func TestViewCapOnlyTightens(t *testing.T) {
	assert.Equal(t, ViewCeiling, ViewCap(Loadout{}))

	l := Loadout{Holdings: []Holding{
		{Upgrade: upgrade("loose", catalog.EffectViewCap, 200_000_000), Count: 1},
		{Upgrade: upgrade("tight", catalog.EffectViewCap, 96_000_000), Count: 1},
		{Upgrade: upgrade("unowned", catalog.EffectViewCap, 1_000), Count: 0},
	}}
	assert.Equal(t, 96_000_000.0, ViewCap(l))
	assert.LessOrEqual(t, ViewCap(l), ViralThreshold)
}

func TestTickAccrualExample(t *testing.T) {
	gain := PassiveViews(100, 2, 0)
	assert.InDelta(t, 20.0, gain, 1e-9)

	decay := AppliedDecay(50, 2, gain)
	assert.InDelta(t, 18.0, decay, 1e-9)
	assert.InDelta(t, 2.0, gain-decay, 1e-9)

	// Small decay is applied in full.
	assert.InDelta(t, 5.0, AppliedDecay(2.5, 2, gain), 1e-9)
	// No passive gain means no decay.
	assert.Zero(t, AppliedDecay(500, 2, 0))
}

func TestThreatSteps(t *testing.T) {
	cases := []struct {
		views float64
		want  ThreatLevel
	}{
		{0, ThreatSafe},
		{9_999, ThreatSafe},
		{10_000, ThreatLocalBlogger},
		{100_000, ThreatGainingTraction},
		{1_000_000, ThreatRegionalNews},
		{10_000_000, ThreatNationalStory},
		{50_000_000, ThreatViral},
		{94_999_999, ThreatViral},
		{95_000_000, ThreatTheVideo},
		{96_000_000, ThreatTheVideo},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Threat(c.views), "views=%v", c.views)
	}
	assert.Equal(t, "the-video", Threat(96_000_000).String())
	assert.Equal(t, "viral", Threat(94_999_999).String())
}

func TestThreatTextRoundTrip(t *testing.T) {
	text, err := ThreatNationalStory.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "national-story", string(text))

	var lvl ThreatLevel
	require.NoError(t, lvl.UnmarshalText(text))
	assert.Equal(t, ThreatNationalStory, lvl)
	assert.Error(t, lvl.UnmarshalText([]byte("apocalypse")))
	assert.Equal(t, 50_000_000.0, ThreatThreshold(ThreatViral))
}

func TestUpgradeCostCurve(t *testing.T) {
	u := catalog.Upgrade{BaseCost: 50, CostMultiplier: 1.15}
	assert.Equal(t, 50.0, UpgradeCost(u, 0, false))
	assert.Equal(t, 57.0, UpgradeCost(u, 1, false)) // 57.5 floored
	assert.Equal(t, 66.0, UpgradeCost(u, 2, false)) // 66.125 floored
	assert.Equal(t, 42.0, UpgradeCost(u, 1, true))  // floor(57 × 0.75)

	prev := UpgradeCost(u, 0, false)
	for owned := 1; owned < 200; owned++ {
		cost := UpgradeCost(u, owned, false)
		require.GreaterOrEqual(t, cost, prev, "owned=%d", owned)
		prev = cost
	}
}

func TestRoundingIsAlwaysDown(t *testing.T) {
	u := catalog.Upgrade{BaseCost: 99.9999999995, CostMultiplier: 1}
	assert.Equal(t, 99.0, UpgradeCost(u, 0, false))
	assert.Equal(t, 99.0, Seized(1_000, 0.0999999999995))

	// Float noise from percent multipliers still lands on the integer.
	assert.Equal(t, 100.0, Seized(1_000, 0.1))
	mult := 1.15
	assert.Equal(t, 23.0, truncate(20*mult))
	assert.Equal(t, 930.0, Seized(1_000, MaxSeizureRate))
}

func TestBulkCostMatchesSequentialPurchases(t *testing.T) {
	u := catalog.Upgrade{BaseCost: 120, CostMultiplier: 1.15}
	spent := 0.0
	for i := 0; i < 25; i++ {
		spent += UpgradeCost(u, 3+i, false)
	}
	assert.Equal(t, spent, BulkCost(u, 3, 25, false))
	assert.Zero(t, BulkCost(u, 3, 0, false))
}

func TestAffordable(t *testing.T) {
	u := catalog.Upgrade{BaseCost: 10, CostMultiplier: 2}
	// 10 + 20 + 40 = 70.
	assert.Equal(t, 3, Affordable(u, 0, 75, false))
	assert.Equal(t, 0, Affordable(u, 0, 9, false))

	u.MaxQuantity = 2
	assert.Equal(t, 2, Affordable(u, 0, 1_000, false))
	assert.Equal(t, 0, Affordable(u, 2, 1_000, false))
}

func TestSentencing(t *testing.T) {
	assert.Equal(t, 0.0, EvidenceStrength(0, 0))
	assert.InDelta(t, 0.6, EvidenceStrength(80_000_000, 0), 1e-9)
	assert.InDelta(t, 0.4, EvidenceStrength(0, 5_000), 1e-9)
	assert.Equal(t, 1.0, EvidenceStrength(100_000_000, 10_000))

	// Nothing earned still carries the minimum sentence.
	assert.Equal(t, 1, Sentence(0, 0))
	// 3M earned: 2 years base, ×1.25 at full evidence → ceil(2.5) = 3.
	assert.Equal(t, 3, Sentence(3_000_000, 1))
	// Huge runs top out.
	assert.Equal(t, MaxSentence, Sentence(1e12, 1))

	assert.Equal(t, MaxSeizureRate, SeizureRate(28))
	assert.InDelta(t, 0.1, SeizureRate(3), 1e-9)
	assert.Zero(t, SeizureRate(0))

	assert.Equal(t, 930.0, Seized(1_000, SeizureRate(28)))
	assert.Zero(t, Seized(1_000, 0))
}

func TestIndict(t *testing.T) {
	ind := Indict(ViralThreshold, 5_000, 50_000_000)
	assert.Equal(t, 1.0, ind.Evidence)
	assert.Equal(t, MaxSentence, ind.Sentence)
	assert.Equal(t, MaxSeizureRate, ind.SeizureRate)
}

func TestGoldenRewards(t *testing.T) {
	// Floor of 1,000 applies to small runs.
	assert.Equal(t, 1_250.0, GoldenMoneyReward(10, 0, 1))
	// 2% of earnings beats the floor later on.
	assert.InDelta(t, 27_000.0, GoldenMoneyReward(100, 1_000_000, 1.2), 1e-6)

	assert.Equal(t, GoldenViewsMin, GoldenViewsReduction(1_000, 1))
	assert.InDelta(t, 50_000.0, GoldenViewsReduction(1_000_000, 1), 1e-6)
	assert.Equal(t, GoldenViewsMax, GoldenViewsReduction(90_000_000, 1))

	l := Loadout{Holdings: []Holding{{Upgrade: upgrade("luck", catalog.EffectGoldenBoost, 1.5), Count: 2}}}
	assert.Equal(t, 2.25, GoldenMultiplier(l))
}
