package flora

// BuildPlantFromConfig validates an untrusted plant config and
// normalizes it into a Plant aggregate. Every part is given a locally
// generated ID regardless of what the source supplied, so colliding or
// missing IDs from the wire can never break the no-duplicate-id
// invariant. The environment is taken from the caller, never from the
// wire payload. Pure function; the config is not modified.
func BuildPlantFromConfig(cfg PlantConfig, env Environment) (Plant, error) {
	if err := ValidatePlantConfig(cfg); err != nil {
		return Plant{}, err
	}

	plant := NewPlant(cfg.Name, cfg.Description, env)
	for _, pc := range cfg.Parts {
		part := buildPart(pc)
		next, err := plant.AppendPart(part)
		if err != nil {
			return Plant{}, err
		}
		plant = next
	}
	return plant, nil
}

// buildPart converts a validated PartConfig into a PlantPart through
// the factory's id-assignment path. The validated size overrides the
// factory default so grown structures round-trip intact.
func buildPart(pc PartConfig) PlantPart {
	opts := []PartOption{
		WithPosition(Position{X: *pc.Position.X, Y: *pc.Position.Y}),
	}
	if pc.GrowthRate != nil {
		opts = append(opts, WithGrowthRate(GrowthRate(*pc.GrowthRate)))
	}
	if pc.Special != nil {
		opts = append(opts, WithSpecial(SpecialTrait(*pc.Special)))
	}

	part := NewPart(PartType(*pc.Type), *pc.Color, opts...)
	part.Size = *pc.Size
	return part
}
