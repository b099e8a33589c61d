package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/florasim/florasim/internal/flora"
)

func main() {
	var (
		presetFile = flag.String("preset", "", "path to a YAML plant preset (optional; a sample plant is used otherwise)")
		ticks      = flag.Int("ticks", 10, "number of growth ticks to run")
		ceiling    = flag.Float64("ceiling", flora.DefaultGrowthCeiling, "hard upper bound on part size")
	)
	flag.Parse()

	plant, err := loadPlant(*presetFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading preset: %v\n", err)
		os.Exit(1)
	}

	engine := flora.NewGrowthEngineWithCeiling(*ceiling)
	for i := 0; i < *ticks; i++ {
		plant = engine.Advance(plant)
	}

	printSummary(plant, *ticks, *ceiling)
}

func loadPlant(path string) (flora.Plant, error) {
	if path == "" {
		return samplePlant()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return flora.Plant{}, fmt.Errorf("reading preset file: %w", err)
	}

	preset, err := flora.ParsePlantPreset(data)
	if err != nil {
		return flora.Plant{}, err
	}

	return flora.BuildPlantFromConfig(preset.Config(), preset.EnvironmentValues())
}

func samplePlant() (flora.Plant, error) {
	plant := flora.NewPlant("Sample Oak", "A small oak with a stubborn vine", flora.DefaultEnvironment())

	parts := []flora.PlantPart{
		flora.NewPart(flora.PartTrunk, "#8B4513", flora.WithGrowthRate(flora.GrowthSlow)),
		flora.NewPart(flora.PartBranch, "#A0522D"),
		flora.NewPart(flora.PartLeaf, "#228B22", flora.WithGrowthRate(flora.GrowthFast)),
		flora.NewPart(flora.PartVine, "#2E8B57", flora.WithGrowthRate(flora.GrowthRapid), flora.WithSpecial(flora.TraitClimbing)),
	}

	for _, part := range parts {
		next, err := plant.AppendPart(part)
		if err != nil {
			return flora.Plant{}, err
		}
		plant = next
	}
	return plant, nil
}

func printSummary(plant flora.Plant, ticks int, ceiling float64) {
	fmt.Printf("Simulation finished (plant=%q, ticks=%d, ceiling=%.0f)\n", plant.Name, ticks, ceiling)
	fmt.Println("Part sizes:")

	parts := make([]flora.PlantPart, len(plant.Parts))
	copy(parts, plant.Parts)
	sort.Slice(parts, func(i, j int) bool {
		if parts[i].Type != parts[j].Type {
			return parts[i].Type < parts[j].Type
		}
		return parts[i].ID < parts[j].ID
	})

	for _, part := range parts {
		trait := ""
		if part.Special != "" {
			trait = " (" + string(part.Special) + ")"
		}
		fmt.Printf("  %-8s %-7s size=%.2f%s\n", part.Type, part.GrowthRate, part.Size, trait)
	}
}
