package flora

// Wire representation of an externally produced plant structure, as the
// structured-generation service emits it. Optional and required fields
// are pointers so that absence is distinguishable from a zero value;
// nothing here is trusted until it passes ValidatePlantConfig.

// PositionConfig is the wire form of a part placement.
type PositionConfig struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

// PartConfig is the wire form of a single plant part.
type PartConfig struct {
	ID         string          `json:"id,omitempty"`
	Type       *string         `json:"type"`
	Color      *string         `json:"color"`
	Size       *float64        `json:"size"`
	Position   *PositionConfig `json:"position"`
	GrowthRate *string         `json:"growthRate,omitempty"`
	Special    *string         `json:"special,omitempty"`
}

// PlantConfig is the wire form of a complete plant structure.
type PlantConfig struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Parts       []PartConfig `json:"parts"`
}
