package flora

// PlantID is a unique identifier for a plant aggregate.
type PlantID string

// EnvironmentField names one of the three environment percentages.
type EnvironmentField string

const (
	EnvSunlight    EnvironmentField = "sunlight"
	EnvWater       EnvironmentField = "water"
	EnvTemperature EnvironmentField = "temperature"
)

// Environment holds the plant's ambient parameters, each a percentage
// in [0, 100]. The values are stored and validated but do not feed the
// growth multipliers; that coupling is deliberately left open.
type Environment struct {
	Sunlight    float64 `json:"sunlight"`
	Water       float64 `json:"water"`
	Temperature float64 `json:"temperature"`
}

// DefaultEnvironment returns mid-range values for all three parameters.
func DefaultEnvironment() Environment {
	return Environment{Sunlight: 50, Water: 50, Temperature: 50}
}

// Plant is the composite aggregate: an ordered sequence of parts plus
// environment parameters. All mutating operations are value-returning,
// so any holder of a previous Plant observes a frozen snapshot.
type Plant struct {
	ID          PlantID     `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parts       []PlantPart `json:"parts"`
	Environment Environment `json:"environment"`
}

// NewPlant creates an empty plant aggregate.
func NewPlant(name, description string, env Environment) Plant {
	return Plant{
		ID:          PlantID(NewID()),
		Name:        name,
		Description: description,
		Parts:       make([]PlantPart, 0),
		Environment: env,
	}
}

// AppendPart returns a copy of the plant with part appended. The part's
// type, growth rate, and trait are re-checked against the closed
// vocabularies even when the caller believes them valid. Fails without
// modifying the receiver's part sequence.
func (p Plant) AppendPart(part PlantPart) (Plant, error) {
	if part.ID == "" {
		return p, newError(ErrMissingField, "part has no id")
	}
	if !part.Type.Valid() {
		return p, newError(ErrInvalidEnumValue, "invalid part type %q", part.Type)
	}
	if !part.GrowthRate.Valid() {
		return p, newError(ErrInvalidEnumValue, "invalid growth rate %q", part.GrowthRate)
	}
	if part.Special != "" && !part.Special.Valid() {
		return p, newError(ErrInvalidEnumValue, "invalid special trait %q", part.Special)
	}
	for _, existing := range p.Parts {
		if existing.ID == part.ID {
			return p, newError(ErrDuplicateID, "part id %s already present in plant %s", part.ID, p.ID)
		}
	}

	parts := make([]PlantPart, len(p.Parts), len(p.Parts)+1)
	copy(parts, p.Parts)
	p.Parts = append(parts, part)
	return p, nil
}

// WithEnvironment returns a copy of the plant with exactly one
// environment field updated. Fails with an out-of-range error when the
// value is outside [0, 100].
func (p Plant) WithEnvironment(field EnvironmentField, value float64) (Plant, error) {
	if value < 0 || value > 100 {
		return p, newError(ErrOutOfRange, "environment %s value %v outside [0, 100]", field, value)
	}
	switch field {
	case EnvSunlight:
		p.Environment.Sunlight = value
	case EnvWater:
		p.Environment.Water = value
	case EnvTemperature:
		p.Environment.Temperature = value
	default:
		return p, newError(ErrInvalidEnumValue, "unknown environment field %q", field)
	}
	return p, nil
}

// Part retrieves a part by ID.
// Returns the part and a boolean indicating if it was found.
func (p Plant) Part(id PartID) (PlantPart, bool) {
	for _, part := range p.Parts {
		if part.ID == id {
			return part, true
		}
	}
	return PlantPart{}, false
}
