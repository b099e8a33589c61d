package flora

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// GardenEventType classifies what happened in a garden.
type GardenEventType string

const (
	EventPartAdded          GardenEventType = "part_added"
	EventEnvironmentUpdated GardenEventType = "environment_updated"
	EventTick               GardenEventType = "tick"
	EventPlantReplaced      GardenEventType = "plant_replaced"
	EventGenerationFailed   GardenEventType = "generation_failed"
)

// GardenEvent represents a state change in a garden, delivered to
// registered notifiers after the change was committed.
type GardenEvent struct {
	GardenID  GardenID        `json:"garden_id"`
	Type      GardenEventType `json:"type"`
	Tick      int64           `json:"tick"`
	Timestamp int64           `json:"timestamp"`

	// Plant is the full aggregate after the change.
	Plant Plant `json:"plant"`

	// Parts lists the parts directly involved, e.g. the appended part.
	Parts []PlantPart `json:"parts,omitempty"`
}

// JSON returns the garden event as JSON bytes
func (e GardenEvent) JSON() ([]byte, error) {
	return json.Marshal(e)
}

// Notifier is the interface that all notification channels must implement
type Notifier interface {
	// ID returns a unique identifier for this notifier
	ID() string

	// Type returns the type of notifier (e.g., "webhook", "websocket")
	Type() string

	// Notify sends a notification event. Returns an error if notification fails.
	// The context can be used for cancellation and timeout.
	Notify(ctx context.Context, event GardenEvent) error

	// Close closes the notifier and releases any resources
	Close() error
}

// notificationJob represents a job to be processed by the notification queue
type notificationJob struct {
	Event       GardenEvent
	NotifierIDs []string
}

// NotificationManager manages all notifiers and routes notifications
type NotificationManager struct {
	mu        sync.RWMutex
	notifiers map[string]Notifier
	jobs      chan notificationJob
	closed    bool
	wg        sync.WaitGroup
	logger    Logger
}

// NewNotificationManager creates a new notification manager
func NewNotificationManager() *NotificationManager {
	return NewNotificationManagerWithLogger(NewNoOpLogger())
}

// NewNotificationManagerWithLogger creates a new notification manager
// with an injected logger
func NewNotificationManagerWithLogger(logger Logger) *NotificationManager {
	mgr := &NotificationManager{
		notifiers: make(map[string]Notifier),
		jobs:      make(chan notificationJob, 1024),
		logger:    logger,
	}
	mgr.startWorkers(1)
	return mgr
}

func (nm *NotificationManager) startWorkers(count int) {
	for i := 0; i < count; i++ {
		nm.wg.Add(1)
		go func() {
			defer nm.wg.Done()
			for job := range nm.jobs {
				nm.processJob(job)
			}
		}()
	}
}

func (nm *NotificationManager) processJob(job notificationJob) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, id := range job.NotifierIDs {
		nm.deliver(ctx, id, job.Event)
	}
}

// deliver sends one event to one notifier with a basic retry/backoff policy.
func (nm *NotificationManager) deliver(ctx context.Context, notifierID string, event GardenEvent) {
	nm.mu.RLock()
	notifier, exists := nm.notifiers[notifierID]
	nm.mu.RUnlock()
	if !exists {
		return
	}

	const maxRetries = 3
	backoff := 100 * time.Millisecond

	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := notifier.Notify(ctx, event)
		if err == nil {
			return
		}

		nm.logger.Warnf("notification failed: notifier=%s attempt=%d error=%v", notifierID, attempt+1, err)

		if attempt == maxRetries {
			nm.logger.Errorf("notification failed after %d attempts: notifier=%s", maxRetries+1, notifierID)
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
			backoff *= 2 // exponential backoff
		}
	}
}

// RegisterNotifier registers a notifier with the manager
func (nm *NotificationManager) RegisterNotifier(notifier Notifier) error {
	if notifier == nil {
		return fmt.Errorf("notifier cannot be nil")
	}

	id := notifier.ID()
	if id == "" {
		return fmt.Errorf("notifier ID cannot be empty")
	}

	nm.mu.Lock()
	defer nm.mu.Unlock()

	if _, exists := nm.notifiers[id]; exists {
		return fmt.Errorf("notifier with ID %s already exists", id)
	}

	nm.notifiers[id] = notifier
	return nil
}

// UnregisterNotifier removes a notifier from the manager
func (nm *NotificationManager) UnregisterNotifier(id string) error {
	nm.mu.Lock()
	notifier, exists := nm.notifiers[id]
	nm.mu.Unlock()

	if !exists {
		return fmt.Errorf("notifier with ID %s not found", id)
	}

	if err := notifier.Close(); err != nil {
		return fmt.Errorf("error closing notifier %s: %w", id, err)
	}

	nm.mu.Lock()
	delete(nm.notifiers, id)
	nm.mu.Unlock()

	return nil
}

// GetNotifier retrieves a notifier by ID
func (nm *NotificationManager) GetNotifier(id string) (Notifier, bool) {
	nm.mu.RLock()
	defer nm.mu.RUnlock()
	notifier, exists := nm.notifiers[id]
	return notifier, exists
}

// ListNotifiers returns a list of all registered notifier IDs
func (nm *NotificationManager) ListNotifiers() []string {
	nm.mu.RLock()
	defer nm.mu.RUnlock()
	ids := make([]string, 0, len(nm.notifiers))
	for id := range nm.notifiers {
		ids = append(ids, id)
	}
	return ids
}

// Broadcast enqueues an event for delivery to every registered
// notifier. Delivery is asynchronous; a full queue drops the event
// rather than blocking the garden's mutation path.
func (nm *NotificationManager) Broadcast(event GardenEvent) {
	nm.mu.RLock()
	if nm.closed || len(nm.notifiers) == 0 {
		nm.mu.RUnlock()
		return
	}
	ids := make([]string, 0, len(nm.notifiers))
	for id := range nm.notifiers {
		ids = append(ids, id)
	}
	nm.mu.RUnlock()

	select {
	case nm.jobs <- notificationJob{Event: event, NotifierIDs: ids}:
	default:
		nm.logger.Warnf("notification queue full, dropping event: garden=%s type=%s", event.GardenID, event.Type)
	}
}

// Notify sends a notification event to the specified notifiers synchronously.
// For async processing, use Broadcast instead.
func (nm *NotificationManager) Notify(ctx context.Context, event GardenEvent, notifierIDs []string) error {
	if len(notifierIDs) == 0 {
		return nil
	}

	var errs []error
	for _, id := range notifierIDs {
		nm.mu.RLock()
		notifier, exists := nm.notifiers[id]
		nm.mu.RUnlock()

		if !exists {
			errs = append(errs, fmt.Errorf("notifier %s not found", id))
			continue
		}

		if err := notifier.Notify(ctx, event); err != nil {
			errs = append(errs, fmt.Errorf("notifier %s failed: %w", id, err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("notification errors: %v", errs)
	}

	return nil
}

// Close closes all registered notifiers and shuts down worker goroutines
func (nm *NotificationManager) Close() error {
	nm.mu.Lock()
	if nm.closed {
		nm.mu.Unlock()
		return nil
	}
	nm.closed = true
	close(nm.jobs)
	nm.mu.Unlock()

	// Wait for workers to drain the queue
	nm.wg.Wait()

	nm.mu.Lock()
	var errs []error
	for id, notifier := range nm.notifiers {
		if err := notifier.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing notifier %s: %w", id, err))
		}
	}
	nm.notifiers = make(map[string]Notifier)
	nm.mu.Unlock()

	if len(errs) > 0 {
		return fmt.Errorf("errors closing notifiers: %v", errs)
	}

	return nil
}
