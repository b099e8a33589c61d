package flora

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// PlantPreset is the YAML form of a starter plant, used to seed a
// garden at startup. Unlike the wire PlantConfig, presets are allowed
// to omit size and position; defaults are filled in before the preset
// runs through the normal validation path.
type PlantPreset struct {
	Name        string             `yaml:"name"`
	Description string             `yaml:"description"`
	Environment *EnvironmentPreset `yaml:"environment"`
	Parts       []PartPreset       `yaml:"parts"`
}

// EnvironmentPreset is the YAML form of the environment parameters.
type EnvironmentPreset struct {
	Sunlight    float64 `yaml:"sunlight"`
	Water       float64 `yaml:"water"`
	Temperature float64 `yaml:"temperature"`
}

// PartPreset is the YAML form of a single part.
type PartPreset struct {
	Type       string          `yaml:"type"`
	Color      string          `yaml:"color"`
	Size       *float64        `yaml:"size"`
	Position   *PositionPreset `yaml:"position"`
	GrowthRate string          `yaml:"growth_rate"`
	Special    string          `yaml:"special"`
}

// PositionPreset is the YAML form of a part placement.
type PositionPreset struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// ParsePlantPreset parses a YAML plant preset.
func ParsePlantPreset(data []byte) (PlantPreset, error) {
	var preset PlantPreset
	if err := yaml.Unmarshal(data, &preset); err != nil {
		return PlantPreset{}, fmt.Errorf("parsing plant preset: %w", err)
	}
	return preset, nil
}

// Config converts the preset into a wire PlantConfig, filling in the
// factory defaults for omitted sizes and positions. The result still
// goes through ValidatePlantConfig like any untrusted structure.
func (p PlantPreset) Config() PlantConfig {
	cfg := PlantConfig{
		Name:        p.Name,
		Description: p.Description,
		Parts:       make([]PartConfig, len(p.Parts)),
	}
	for i, pp := range p.Parts {
		partType := pp.Type
		color := pp.Color

		size := DefaultPartSize
		if pp.Size != nil {
			size = *pp.Size
		}

		var pos Position
		if pp.Position != nil {
			pos = Position{X: pp.Position.X, Y: pp.Position.Y}
		} else {
			pos = randomPosition()
		}
		x, y := pos.X, pos.Y

		pc := PartConfig{
			Type:     &partType,
			Color:    &color,
			Size:     &size,
			Position: &PositionConfig{X: &x, Y: &y},
		}
		if pp.GrowthRate != "" {
			rate := pp.GrowthRate
			pc.GrowthRate = &rate
		}
		if pp.Special != "" {
			special := pp.Special
			pc.Special = &special
		}
		cfg.Parts[i] = pc
	}
	return cfg
}

// EnvironmentValues returns the preset environment, defaulting to
// mid-range values when the section is omitted.
func (p PlantPreset) EnvironmentValues() Environment {
	if p.Environment == nil {
		return DefaultEnvironment()
	}
	return Environment{
		Sunlight:    p.Environment.Sunlight,
		Water:       p.Environment.Water,
		Temperature: p.Environment.Temperature,
	}
}
