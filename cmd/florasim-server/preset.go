package main

import (
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/florasim/florasim/internal/flora"
)

// loadPlantPreset reads a YAML plant preset and builds the seed plant
// through the normal validation path.
func loadPlantPreset(path string) (flora.PlantPreset, flora.Plant, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return flora.PlantPreset{}, flora.Plant{}, err
	}

	preset, err := flora.ParsePlantPreset(data)
	if err != nil {
		return flora.PlantPreset{}, flora.Plant{}, err
	}

	plant, err := flora.BuildPlantFromConfig(preset.Config(), preset.EnvironmentValues())
	if err != nil {
		return flora.PlantPreset{}, flora.Plant{}, err
	}

	return preset, plant, nil
}

// watchPreset reloads the default garden whenever the preset file is
// rewritten. Editors often replace the file, so the watch is on the
// directory and filtered by name.
func watchPreset(path string, garden *flora.Garden, logger *Logger) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}

	target := filepath.Clean(path)

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}

				data, err := os.ReadFile(target)
				if err != nil {
					logger.Warnf("preset reload failed: %v", err)
					continue
				}
				preset, err := flora.ParsePlantPreset(data)
				if err != nil {
					logger.Warnf("preset reload failed: %v", err)
					continue
				}
				// ReplaceFromConfig keeps the garden's live environment.
				if err := garden.ReplaceFromConfig(preset.Config()); err != nil {
					logger.Warnf("preset reload rejected: %v", err)
					continue
				}
				logger.Infof("Preset reloaded: garden_id=%s file=%s", garden.ID(), target)

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warnf("preset watcher error: %v", err)
			}
		}
	}()

	return watcher, nil
}
