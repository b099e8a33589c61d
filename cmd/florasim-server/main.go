package main

import (
	"net/http"

	"github.com/florasim/florasim/internal/flora"
)

func main() {
	cfg := loadServerConfig()
	logger := NewLogger(cfg.LogLevel)

	srv := NewServer(logger)
	srv.SetGrowthCeiling(cfg.GrowthCeiling)
	srv.SetTickInterval(cfg.TickInterval)
	defer srv.Close()

	if cfg.GeneratorURL != "" {
		srv.SetGenerator(flora.NewGeneratorWithLogger(cfg.GeneratorURL, &floraLoggerAdapter{logger: logger}))
		logger.Infof("Generation service configured: url=%s", cfg.GeneratorURL)
	}

	// Seed the default garden, from a preset file when one is given.
	gardenID := flora.GardenID(cfg.DefaultGardenID)
	plant := flora.NewPlant("My Plant", "", flora.DefaultEnvironment())
	if cfg.PresetFile != "" {
		preset, presetPlant, err := loadPlantPreset(cfg.PresetFile)
		if err != nil {
			logger.Fatalf("cannot load preset file %s: %v", cfg.PresetFile, err)
		}
		plant = presetPlant
		logger.Infof("Preset loaded: file=%s name=%q parts=%d", cfg.PresetFile, preset.Name, len(plant.Parts))
	}

	garden, err := srv.createGarden(gardenID, plant)
	if err != nil {
		logger.Fatalf("cannot create default garden: %v", err)
	}
	logger.Infof("Default garden ready: garden_id=%s", gardenID)

	if cfg.PresetFile != "" && cfg.WatchPreset {
		watcher, err := watchPreset(cfg.PresetFile, garden, logger)
		if err != nil {
			logger.Warnf("cannot watch preset file: %v", err)
		} else {
			defer watcher.Close()
			logger.Infof("Watching preset file: %s", cfg.PresetFile)
		}
	}

	if cfg.TickInterval > 0 {
		garden.Run(cfg.TickInterval)
		logger.Infof("Auto-grow running: garden_id=%s interval=%s", gardenID, cfg.TickInterval)
	}

	router := NewRouter(srv)
	logger.Infof("florasim-server listening on %s", cfg.Addr)
	logger.Fatalf("%v", http.ListenAndServe(cfg.Addr, router))
}
