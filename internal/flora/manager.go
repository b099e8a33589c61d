package flora

import (
	"fmt"
	"sync"
)

// GardenManager manages multiple gardens, each isolated from others
type GardenManager struct {
	mu      sync.RWMutex
	gardens map[GardenID]*Garden
	logger  Logger
}

// NewGardenManager creates a new garden manager
func NewGardenManager() *GardenManager {
	return NewGardenManagerWithLogger(NewNoOpLogger())
}

// NewGardenManagerWithLogger creates a new garden manager with an injected logger
func NewGardenManagerWithLogger(logger Logger) *GardenManager {
	return &GardenManager{
		gardens: make(map[GardenID]*Garden),
		logger:  logger,
	}
}

// CreateGarden creates a new garden with the given ID and initial plant.
// Returns an error if a garden with that ID already exists.
func (gm *GardenManager) CreateGarden(id GardenID, plant Plant, engine *GrowthEngine) (*Garden, error) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.gardens[id]; exists {
		return nil, newError(ErrDuplicateID, "garden with id %s already exists", id)
	}

	garden := NewGarden(id, plant, engine)
	garden.SetLogger(gm.logger)
	gm.gardens[id] = garden
	return garden, nil
}

// GetGarden retrieves a garden by ID
// Returns the garden and a boolean indicating if it was found
func (gm *GardenManager) GetGarden(id GardenID) (*Garden, bool) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	garden, exists := gm.gardens[id]
	return garden, exists
}

// DeleteGarden removes a garden by ID, stopping its ticker if running.
// Returns an error if the garden doesn't exist.
func (gm *GardenManager) DeleteGarden(id GardenID) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	garden, exists := gm.gardens[id]
	if !exists {
		return fmt.Errorf("garden with id %s does not exist", id)
	}

	garden.Stop()
	delete(gm.gardens, id)
	return nil
}

// ListGardens returns a list of all garden IDs
func (gm *GardenManager) ListGardens() []GardenID {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	ids := make([]GardenID, 0, len(gm.gardens))
	for id := range gm.gardens {
		ids = append(ids, id)
	}
	return ids
}
