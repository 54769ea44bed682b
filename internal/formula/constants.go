// Package formula provides the pure balance formulas: click value, passive
// income, exposure gain and decay, cost curves, threat levels and the
// sentencing pipeline applied at an arrest.
//
// Every function is deterministic and side-effect free. Inputs are small
// explicit structs rather than the whole game state, so callers can ask
// "what if" questions with hypothetical values.
package formula

// Exposure limits.
const (
	// ViewCeiling is the global view cap before any cap upgrade.
	ViewCeiling = 100_000_000.0

	// ViralThreshold is the exposure at which the run ends in an arrest.
	ViralThreshold = ViewCeiling
)

// TargetAmount is the total earnings that count as a victory.
const TargetAmount = 1_000_000_000.0

// View decay and passive exposure.
const (
	BaseViewDecay      = 500.0 // views removed per second before upgrades
	ArrestDecayBonus   = 0.05  // extra decay per prior arrest
	PassiveViewRatio   = 0.1   // views gained per unit of passive income
	MaxDecayShare      = 0.9   // decay may remove at most this share of passive view gain
	AntagonistViewGain = 1.5   // views multiplier when the journalist is in the zone
)

// Income multipliers.
const (
	VeteranMultiplier = 1.2 // applied once the player has ever won
)

// Prestige tiers, in percent, for the first arrests; later arrests add
// PrestigeLaterTier each.
var prestigeTiers = [...]float64{15, 12, 10}

const PrestigeLaterTier = 8.0

// DiscountRate is the price reduction during a discount window.
const DiscountRate = 0.25

// Golden claim rewards.
const (
	GoldenMoneyClicks      = 25.0
	GoldenMoneyFloor       = 1_000.0
	GoldenMoneyEarnedShare = 0.02
	GoldenViewsShare       = 0.05
	GoldenViewsMin         = 10_000.0
	GoldenViewsMax         = 500_000.0
)

// Sentencing.
const (
	EvidenceViewScale   = 80_000_000.0
	EvidenceClaimScale  = 5_000.0
	EvidenceViewWeight  = 0.6
	EvidenceClaimWeight = 0.4

	EarningsPerYear  = 1_500_000.0
	MinSentence      = 1
	MaxSentence      = 28
	EvidenceSentence = 0.25 // sentence increase at full evidence
	SentenceDivisor  = 30.0
	MaxSeizureRate   = 0.93
)
