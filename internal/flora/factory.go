package flora

import "math/rand"

// DefaultPartSize is the initial rendered size of every new part.
// Callers cannot override it; growth is the only way a part changes size.
const DefaultPartSize = 20.0

// Parts created without an explicit position are placed uniformly at
// random inside this region so they land on the visible canvas.
const (
	placementMin = 100.0
	placementMax = 300.0
)

// PartOption customizes optional attributes of a new part.
type PartOption func(*PlantPart)

// WithGrowthRate sets the part's growth rate class.
func WithGrowthRate(r GrowthRate) PartOption {
	return func(p *PlantPart) { p.GrowthRate = r }
}

// WithSpecial sets the part's special behavior trait.
func WithSpecial(s SpecialTrait) PartOption {
	return func(p *PlantPart) { p.Special = s }
}

// WithPosition sets an explicit placement instead of a random one.
func WithPosition(pos Position) PartOption {
	return func(p *PlantPart) { p.Position = pos }
}

// NewPart creates a new plant part with a fresh ID, the default size,
// and a random placement unless WithPosition is given. The growth rate
// defaults to normal. Insertion into a plant is the caller's job.
func NewPart(t PartType, color string, opts ...PartOption) PlantPart {
	p := PlantPart{
		ID:         NewPartID(),
		Type:       t,
		Color:      color,
		Size:       DefaultPartSize,
		Position:   randomPosition(),
		GrowthRate: GrowthNormal,
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

func randomPosition() Position {
	span := placementMax - placementMin
	return Position{
		X: placementMin + rand.Float64()*span,
		Y: placementMin + rand.Float64()*span,
	}
}
