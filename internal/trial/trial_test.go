package trial

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/talgya/claimrush/internal/catalog"
	"github.com/talgya/claimrush/internal/entropy"
	"github.com/talgya/claimrush/internal/formula"
)

var lawyer = catalog.Defense{
	ID:           "lawyer",
	FeeRate:      0.2,
	AcquitChance: 0.3,
	ReduceChance: 0.4,
	ReduceFactor: 0.5,
}

func TestResolveOutcomes(t *testing.T) {
	ind := formula.Indictment{Evidence: 1, Sentence: 20, SeizureRate: formula.SeizureRate(20)}

	v := Resolve(ind, lawyer, entropy.NewPool(nil, 0.1))
	assert.Equal(t, catalog.OutcomeAcquitted, v.Outcome)
	assert.Zero(t, v.Sentence)
	assert.Zero(t, v.SeizureRate)
	assert.Equal(t, "lawyer", v.Defense)

	v = Resolve(ind, lawyer, entropy.NewPool(nil, 0.5))
	assert.Equal(t, catalog.OutcomeReduced, v.Outcome)
	assert.Equal(t, 10, v.Sentence)
	assert.InDelta(t, 10.0/30, v.SeizureRate, 1e-9)

	v = Resolve(ind, lawyer, entropy.NewPool(nil, 0.9))
	assert.Equal(t, catalog.OutcomeConvicted, v.Outcome)
	assert.Equal(t, 20, v.Sentence)
	assert.Equal(t, ind.SeizureRate, v.SeizureRate)
}

func TestReduceKeepsMinimum(t *testing.T) {
	assert.Equal(t, formula.MinSentence, Reduce(1, 0.1))
	assert.Equal(t, 3, Reduce(5, 0.5))
	assert.Equal(t, 7, Reduce(7, 0))
}

func TestFeeAndConviction(t *testing.T) {
	v := Verdict{FeeRate: 0.25}
	assert.Equal(t, 250.0, v.Fee(1_001))
	assert.Zero(t, v.Fee(-5))

	ind := formula.Indict(formula.ViralThreshold, 5_000, 1e12)
	c := Conviction(ind)
	assert.Equal(t, catalog.OutcomeConvicted, c.Outcome)
	assert.Equal(t, formula.MaxSentence, c.Sentence)
	assert.Equal(t, formula.MaxSeizureRate, c.SeizureRate)
}

func TestExpectedLossPrefersStrongDefense(t *testing.T) {
	ind := formula.Indict(formula.ViralThreshold, 5_000, 1e12)
	none := catalog.Defense{ID: "none"}
	assert.InDelta(t, formula.MaxSeizureRate, ExpectedLoss(ind, none), 1e-9)
	assert.Less(t, ExpectedLoss(ind, lawyer), ExpectedLoss(ind, none))
}
