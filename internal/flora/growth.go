package flora

// DefaultGrowthCeiling is the hard upper bound on part size. The
// value is a tunable constant; 50 is the other supported variant for
// smaller canvases.
const DefaultGrowthCeiling = 80.0

// climbingBonus is the extra per-tick multiplier for climbing
// structures (vines and tendrils).
const climbingBonus = 1.3

// Multiplier returns the per-tick base growth multiplier for the rate.
// Unset rates grow at the normal rate.
func (r GrowthRate) Multiplier() float64 {
	switch r {
	case GrowthSlow:
		return 1.1
	case GrowthFast:
		return 1.4
	case GrowthRapid:
		return 1.8
	default:
		return 1.2
	}
}

// GrowthEngine advances every part of a plant deterministically per
// tick. Parts do not interact with one another; each grows by its own
// combined multiplier and is clamped at the ceiling.
type GrowthEngine struct {
	Ceiling float64
}

// NewGrowthEngine creates an engine with the default ceiling.
func NewGrowthEngine() *GrowthEngine {
	return &GrowthEngine{Ceiling: DefaultGrowthCeiling}
}

// NewGrowthEngineWithCeiling creates an engine with a custom ceiling.
func NewGrowthEngineWithCeiling(ceiling float64) *GrowthEngine {
	return &GrowthEngine{Ceiling: ceiling}
}

// Advance applies one discrete growth tick and returns the grown
// plant. The input plant is left untouched; the result shares no part
// storage with it. A part at the ceiling stays at the ceiling, and no
// part ever shrinks, so size is monotonically non-decreasing across
// any sequence of ticks.
func (e *GrowthEngine) Advance(p Plant) Plant {
	if len(p.Parts) == 0 {
		return p
	}

	parts := make([]PlantPart, len(p.Parts))
	for i, part := range p.Parts {
		m := part.GrowthRate.Multiplier()
		if part.Type == PartVine || part.Type == PartTendril {
			m *= climbingBonus
		}
		size := part.Size * m
		if size > e.Ceiling {
			size = e.Ceiling
		}
		// A ceiling below the current size must hold, not shrink.
		if size < part.Size {
			size = part.Size
		}
		part.Size = size
		parts[i] = part
	}
	p.Parts = parts
	return p
}
