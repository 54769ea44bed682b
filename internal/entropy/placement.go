package entropy

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

// Screen margin kept clear of golden claim positions, as a share of width
// and height.
const placementMargin = 0.08

// Placement turns a spawn counter into a screen position that wanders
// smoothly between spawns instead of jumping uniformly.
type Placement struct {
	x opensimplex.Noise
	y opensimplex.Noise
}

// NewPlacement creates deterministic placement noise for a seed.
func NewPlacement(seed int64) *Placement {
	return &Placement{
		x: opensimplex.NewNormalized(seed),
		y: opensimplex.NewNormalized(seed + 1),
	}
}

// At returns a position in [margin, 1-margin]² for a point along the noise
// path. Nearby t values give nearby positions.
func (p *Placement) At(t float64) (x, y float64) {
	const frequency = 0.37
	nx := p.x.Eval2(t*frequency, 0.5)
	ny := p.y.Eval2(0.5, t*frequency)
	span := 1 - 2*placementMargin
	return placementMargin + clamp01(nx)*span, placementMargin + clamp01(ny)*span
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
