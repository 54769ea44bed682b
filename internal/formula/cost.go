package formula

import (
	"math"

	"github.com/talgya/claimrush/internal/catalog"
)

// UpgradeCost is the price of the next unit: floor(base × multiplier^owned),
// then floored again after the discount when a discount window is open.
// Rounding is always down.
func UpgradeCost(u catalog.Upgrade, owned int, discountActive bool) float64 {
	cost := truncate(u.BaseCost * math.Pow(u.CostMultiplier, float64(owned)))
	if discountActive {
		cost = truncate(cost * (1 - DiscountRate))
	}
	return cost
}

// BulkCost is the total price of buying n more units one after another.
func BulkCost(u catalog.Upgrade, owned, n int, discountActive bool) float64 {
	total := 0.0
	for i := 0; i < n; i++ {
		total += UpgradeCost(u, owned+i, discountActive)
	}
	return total
}

// Affordable returns how many more units fit within budget, respecting the
// upgrade's cap.
func Affordable(u catalog.Upgrade, owned int, budget float64, discountActive bool) int {
	n := 0
	for {
		if u.Capped() && owned+n >= u.MaxQuantity {
			return n
		}
		cost := UpgradeCost(u, owned+n, discountActive)
		if cost > budget {
			return n
		}
		budget -= cost
		n++
		// Unbounded curves with multiplier 1 never outgrow the budget on
		// their own; stop at a sane preview size.
		if n >= 10_000 {
			return n
		}
	}
}
