package formula

import "math"

// Indictment is the penalty preview computed at the arrest boundary.
type Indictment struct {
	Evidence    float64 `json:"evidence"`     // 0..1
	Sentence    int     `json:"sentence"`     // years, before any defense
	SeizureRate float64 `json:"seizure_rate"` // share of money seized on conviction
}

// Indict runs the sentencing pipeline for a run's exposure, claims and
// earnings.
func Indict(views, claims, earned float64) Indictment {
	evidence := EvidenceStrength(views, claims)
	sentence := Sentence(earned, evidence)
	return Indictment{
		Evidence:    evidence,
		Sentence:    sentence,
		SeizureRate: SeizureRate(sentence),
	}
}

// EvidenceStrength weighs exposure and claim volume, capped at 1.
func EvidenceStrength(views, claims float64) float64 {
	e := EvidenceViewWeight*views/EvidenceViewScale + EvidenceClaimWeight*claims/EvidenceClaimScale
	if e > 1 {
		return 1
	}
	if e < 0 {
		return 0
	}
	return e
}

// Sentence is the prison term in years: one year per EarningsPerYear earned
// (capped), raised by evidence, clamped to [MinSentence, MaxSentence].
func Sentence(earned, evidence float64) int {
	base := math.Min(MaxSentence, math.Ceil(earned/EarningsPerYear))
	years := int(math.Ceil(base * (1 + EvidenceSentence*evidence)))
	if years < MinSentence {
		return MinSentence
	}
	if years > MaxSentence {
		return MaxSentence
	}
	return years
}

// SeizureRate is the share of money seized for a sentence.
func SeizureRate(sentence int) float64 {
	if sentence <= 0 {
		return 0
	}
	return math.Min(MaxSeizureRate, float64(sentence)/SentenceDivisor)
}

// Seized is the money taken at a seizure rate, rounded down.
func Seized(money, rate float64) float64 {
	if money <= 0 || rate <= 0 {
		return 0
	}
	return truncate(money * rate)
}
