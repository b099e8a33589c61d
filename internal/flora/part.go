package flora

// PartID is a unique identifier for a plant part.
type PartID string

// PartType classifies a structural unit of a plant.
type PartType string

const (
	PartTrunk   PartType = "trunk"
	PartBranch  PartType = "branch"
	PartLeaf    PartType = "leaf"
	PartFlower  PartType = "flower"
	PartRoot    PartType = "root"
	PartVine    PartType = "vine"
	PartFruit   PartType = "fruit"
	PartSeed    PartType = "seed"
	PartThorn   PartType = "thorn"
	PartMoss    PartType = "moss"
	PartFungus  PartType = "fungus"
	PartBud     PartType = "bud"
	PartStem    PartType = "stem"
	PartBulb    PartType = "bulb"
	PartTendril PartType = "tendril"
)

// GrowthRate classifies how quickly a part grows per tick.
type GrowthRate string

const (
	GrowthSlow   GrowthRate = "slow"
	GrowthNormal GrowthRate = "normal"
	GrowthFast   GrowthRate = "fast"
	GrowthRapid  GrowthRate = "rapid"
)

// SpecialTrait is a descriptive behavior tag consumed by rendering,
// never by the growth math.
type SpecialTrait string

const (
	TraitClimbing  SpecialTrait = "climbing"
	TraitSpreading SpecialTrait = "spreading"
	TraitDrooping  SpecialTrait = "drooping"
	TraitUpright   SpecialTrait = "upright"
	TraitSpiral    SpecialTrait = "spiral"
)

// Closed vocabularies, in a stable order for prompt and schema building.
var (
	allPartTypes = []PartType{
		PartTrunk, PartBranch, PartLeaf, PartFlower, PartRoot,
		PartVine, PartFruit, PartSeed, PartThorn, PartMoss,
		PartFungus, PartBud, PartStem, PartBulb, PartTendril,
	}
	allGrowthRates   = []GrowthRate{GrowthSlow, GrowthNormal, GrowthFast, GrowthRapid}
	allSpecialTraits = []SpecialTrait{TraitClimbing, TraitSpreading, TraitDrooping, TraitUpright, TraitSpiral}
)

var (
	partTypeSet     = make(map[PartType]struct{}, len(allPartTypes))
	growthRateSet   = make(map[GrowthRate]struct{}, len(allGrowthRates))
	specialTraitSet = make(map[SpecialTrait]struct{}, len(allSpecialTraits))
)

func init() {
	for _, t := range allPartTypes {
		partTypeSet[t] = struct{}{}
	}
	for _, r := range allGrowthRates {
		growthRateSet[r] = struct{}{}
	}
	for _, s := range allSpecialTraits {
		specialTraitSet[s] = struct{}{}
	}
}

// Valid reports whether the part type belongs to the closed vocabulary.
func (t PartType) Valid() bool {
	_, ok := partTypeSet[t]
	return ok
}

// Valid reports whether the growth rate belongs to the closed vocabulary.
func (r GrowthRate) Valid() bool {
	_, ok := growthRateSet[r]
	return ok
}

// Valid reports whether the trait belongs to the closed vocabulary.
func (s SpecialTrait) Valid() bool {
	_, ok := specialTraitSet[s]
	return ok
}

// PartTypes returns the closed vocabulary of part types.
func PartTypes() []PartType {
	out := make([]PartType, len(allPartTypes))
	copy(out, allPartTypes)
	return out
}

// GrowthRates returns the closed vocabulary of growth rates.
func GrowthRates() []GrowthRate {
	out := make([]GrowthRate, len(allGrowthRates))
	copy(out, allGrowthRates)
	return out
}

// SpecialTraits returns the closed vocabulary of special traits.
func SpecialTraits() []SpecialTrait {
	out := make([]SpecialTrait, len(allSpecialTraits))
	copy(out, allSpecialTraits)
	return out
}

// Position is a 2-D placement on the canvas, fixed at part creation.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PlantPart represents one structural unit of a plant.
// Parts have a type, color, current rendered size, and a placement
// that never changes after creation.
type PlantPart struct {
	ID         PartID       `json:"id"`
	Type       PartType     `json:"type"`
	Color      string       `json:"color"`
	Size       float64      `json:"size"`
	Position   Position     `json:"position"`
	GrowthRate GrowthRate   `json:"growthRate"`
	Special    SpecialTrait `json:"special,omitempty"`
	CreatedAt  int64        `json:"createdAt"`
}
