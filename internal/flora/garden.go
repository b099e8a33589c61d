package flora

import (
	"context"
	"strings"
	"sync"
	"time"
)

// GardenID is a unique identifier for a garden session.
type GardenID string

// Garden owns the live plant for one session and is the sole mutation
// boundary around it. The plant itself is an immutable value: every
// operation swaps in a new Plant, so readers holding a snapshot from
// Plant() are never affected by later mutations.
type Garden struct {
	mu     sync.RWMutex
	id     GardenID
	plant  Plant
	engine *GrowthEngine
	tick   int64

	// generation state: one in-flight request at a time, fenced by a
	// monotonic sequence number so a stale response can never replace
	// a newer plant.
	generating bool
	genSeq     uint64

	notifier *NotificationManager
	logger   Logger

	stopCh    chan struct{}
	isRunning bool
}

// NewGarden creates a garden around an initial plant. A nil engine
// gets the default growth ceiling.
func NewGarden(id GardenID, plant Plant, engine *GrowthEngine) *Garden {
	if engine == nil {
		engine = NewGrowthEngine()
	}
	return &Garden{
		id:     id,
		plant:  plant,
		engine: engine,
		logger: NewNoOpLogger(),
		stopCh: make(chan struct{}),
	}
}

// ID returns the garden's identifier.
func (g *Garden) ID() GardenID {
	return g.id
}

// SetLogger injects a logger. Safe to call before the garden is shared.
func (g *Garden) SetLogger(logger Logger) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if logger != nil {
		g.logger = logger
	}
}

// SetNotificationManager attaches a notification manager that receives
// an event after every committed state change.
func (g *Garden) SetNotificationManager(nm *NotificationManager) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.notifier = nm
}

// Plant returns a consistent snapshot of the current plant.
func (g *Garden) Plant() Plant {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.plant
}

// Tick returns the number of growth ticks applied so far.
func (g *Garden) Tick() int64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.tick
}

// Generating reports whether a generation request is in flight.
func (g *Garden) Generating() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.generating
}

// AppendPart commits a new part to the plant. The part's CreatedAt is
// stamped with the current tick. Fails without changing the plant when
// the part is invalid or its ID collides.
func (g *Garden) AppendPart(part PlantPart) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	part.CreatedAt = g.tick
	next, err := g.plant.AppendPart(part)
	if err != nil {
		return err
	}
	g.plant = next
	g.notifyLocked(EventPartAdded, []PlantPart{part})
	return nil
}

// SetEnvironment updates exactly one environment field.
func (g *Garden) SetEnvironment(field EnvironmentField, value float64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	next, err := g.plant.WithEnvironment(field, value)
	if err != nil {
		return err
	}
	g.plant = next
	g.notifyLocked(EventEnvironmentUpdated, nil)
	return nil
}

// Advance applies one growth tick to every part.
func (g *Garden) Advance() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.tick++
	g.plant = g.engine.Advance(g.plant)
	g.notifyLocked(EventTick, nil)
}

// Replace swaps in a wholly new plant, discarding the prior one.
func (g *Garden) Replace(plant Plant) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.plant = plant
	g.notifyLocked(EventPlantReplaced, nil)
}

// ReplaceFromConfig validates an untrusted plant structure and, on
// success, wholesale-replaces the current plant while carrying the
// configured environment forward. On validation failure the prior
// plant is left completely untouched.
func (g *Garden) ReplaceFromConfig(cfg PlantConfig) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	plant, err := BuildPlantFromConfig(cfg, g.plant.Environment)
	if err != nil {
		return err
	}
	g.plant = plant
	g.notifyLocked(EventPlantReplaced, nil)
	return nil
}

// Snapshot returns a point-in-time capture of the garden.
func (g *Garden) Snapshot() Snapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return Snapshot{GardenID: g.id, Tick: g.tick, Plant: g.plant}
}

// Generate runs the full generation pipeline: it asks gen for a plant
// structure matching the description, validates the result, and
// wholesale-replaces the plant carrying the current environment
// forward. Only one request may be in flight per garden; the prior
// plant survives any failure untouched.
func (g *Garden) Generate(ctx context.Context, gen *Generator, description string) error {
	// Guard before any network activity or state change.
	if strings.TrimSpace(description) == "" {
		return newError(ErrEmptyDescription, "plant description is empty")
	}

	g.mu.Lock()
	if g.generating {
		g.mu.Unlock()
		return newError(ErrGenerationFailed, "a generation request is already in flight for garden %s", g.id)
	}
	g.generating = true
	g.genSeq++
	seq := g.genSeq
	env := g.plant.Environment
	g.mu.Unlock()

	cfg, err := gen.Generate(ctx, description)

	g.mu.Lock()
	defer g.mu.Unlock()
	g.generating = false

	if err != nil {
		g.notifyLocked(EventGenerationFailed, nil)
		return err
	}

	if seq != g.genSeq {
		// A newer request superseded this one; drop the stale result.
		g.logger.Debugf("discarding stale generation result: garden=%s seq=%d latest=%d", g.id, seq, g.genSeq)
		return nil
	}

	plant, err := BuildPlantFromConfig(cfg, env)
	if err != nil {
		g.notifyLocked(EventGenerationFailed, nil)
		return wrapError(ErrGenerationFailed, err, "generated plant rejected")
	}

	g.plant = plant
	g.notifyLocked(EventPlantReplaced, nil)
	return nil
}

// notifyLocked emits an event for the current state. Callers must hold g.mu.
func (g *Garden) notifyLocked(eventType GardenEventType, parts []PlantPart) {
	if g.notifier == nil {
		return
	}
	g.notifier.Broadcast(GardenEvent{
		GardenID:  g.id,
		Type:      eventType,
		Tick:      g.tick,
		Timestamp: time.Now().Unix(),
		Plant:     g.plant,
		Parts:     parts,
	})
}

// Run will start the garden in a goroutine, starting its own ticker
// that advances growth until the stop channel is closed. It can be
// called multiple times to restart after stopping.
func (g *Garden) Run(interval time.Duration) {
	g.mu.Lock()
	if g.isRunning {
		g.mu.Unlock()
		return
	}
	// Create a new stop channel for this run (allows restart after stop)
	g.stopCh = make(chan struct{})
	g.isRunning = true
	g.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				g.Advance()
			case <-g.stopCh:
				g.mu.Lock()
				g.isRunning = false
				g.mu.Unlock()
				return
			}
		}
	}()
}

// Stop will stop the garden's ticker by closing the stop channel.
// After stopping, Run() can be called again to restart.
func (g *Garden) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.isRunning {
		return
	}
	close(g.stopCh)
}
