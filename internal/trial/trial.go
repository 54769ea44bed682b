// Package trial resolves the legal defense chosen after an arrest.
package trial

import (
	"math"

	"github.com/talgya/claimrush/internal/catalog"
	"github.com/talgya/claimrush/internal/entropy"
	"github.com/talgya/claimrush/internal/formula"
)

// Verdict is the outcome of a trial, ready to apply at prestige.
type Verdict struct {
	Outcome     catalog.Outcome `json:"outcome"`
	Defense     string          `json:"defense"`
	FeeRate     float64         `json:"fee_rate"`
	Sentence    int             `json:"sentence"`
	SeizureRate float64         `json:"seizure_rate"`
}

// Resolve rolls a single random value against the defense's chances: below
// the acquittal chance walks free, below acquittal+reduction gets a reduced
// sentence, anything else takes the full indictment.
func Resolve(ind formula.Indictment, d catalog.Defense, src entropy.Source) Verdict {
	v := Verdict{Defense: d.ID, FeeRate: d.FeeRate}

	r := src.Float64()
	switch {
	case r < d.AcquitChance:
		v.Outcome = catalog.OutcomeAcquitted
	case r < d.AcquitChance+d.ReduceChance:
		v.Outcome = catalog.OutcomeReduced
		v.Sentence = Reduce(ind.Sentence, d.ReduceFactor)
		v.SeizureRate = formula.SeizureRate(v.Sentence)
	default:
		v.Outcome = catalog.OutcomeConvicted
		v.Sentence = ind.Sentence
		v.SeizureRate = ind.SeizureRate
	}
	return v
}

// Reduce shortens a sentence by factor, never below the minimum.
func Reduce(sentence int, factor float64) int {
	if factor <= 0 || factor > 1 {
		factor = 1
	}
	reduced := int(math.Ceil(float64(sentence) * factor))
	if reduced < formula.MinSentence {
		reduced = formula.MinSentence
	}
	return reduced
}

// Conviction is the verdict without a defense: the full indictment applies.
func Conviction(ind formula.Indictment) Verdict {
	return Verdict{
		Outcome:     catalog.OutcomeConvicted,
		Sentence:    ind.Sentence,
		SeizureRate: ind.SeizureRate,
	}
}

// Fee is the lawyer's cut of money, taken before seizure.
func (v Verdict) Fee(money float64) float64 {
	if v.FeeRate <= 0 || money <= 0 {
		return 0
	}
	return math.Floor(money * v.FeeRate)
}

// ExpectedLoss estimates the share of money lost to a defense: the fee plus
// the seizure expected across the three outcomes.
func ExpectedLoss(ind formula.Indictment, d catalog.Defense) float64 {
	reduce := formula.SeizureRate(Reduce(ind.Sentence, d.ReduceFactor))
	convict := 1 - d.AcquitChance - d.ReduceChance
	if convict < 0 {
		convict = 0
	}
	seizure := d.ReduceChance*reduce + convict*ind.SeizureRate
	return d.FeeRate + (1-d.FeeRate)*seizure
}
