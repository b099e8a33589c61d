package flora

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

// recordingNotifier captures events for assertions
type recordingNotifier struct {
	id     string
	mu     sync.Mutex
	events []GardenEvent
	fail   bool
	closed bool
}

func newRecordingNotifier(id string) *recordingNotifier {
	return &recordingNotifier{id: id}
}

func (rn *recordingNotifier) ID() string   { return rn.id }
func (rn *recordingNotifier) Type() string { return "recording" }

func (rn *recordingNotifier) Notify(ctx context.Context, event GardenEvent) error {
	rn.mu.Lock()
	defer rn.mu.Unlock()
	if rn.fail {
		return fmt.Errorf("notifier forced failure")
	}
	rn.events = append(rn.events, event)
	return nil
}

func (rn *recordingNotifier) Close() error {
	rn.mu.Lock()
	defer rn.mu.Unlock()
	rn.closed = true
	return nil
}

func (rn *recordingNotifier) Events() []GardenEvent {
	rn.mu.Lock()
	defer rn.mu.Unlock()
	out := make([]GardenEvent, len(rn.events))
	copy(out, rn.events)
	return out
}

// waitForEvents polls until the recorder has seen at least n events.
// Delivery is asynchronous, so tests cannot assert immediately.
func waitForEvents(t *testing.T, rn *recordingNotifier, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(rn.Events()) >= n {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d events, got %d", n, len(rn.Events()))
}

func TestNotificationManager_RegisterUnregister(t *testing.T) {
	nm := NewNotificationManager()
	defer nm.Close()

	rec := newRecordingNotifier("rec")
	if err := nm.RegisterNotifier(rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Duplicate registration fails
	if err := nm.RegisterNotifier(newRecordingNotifier("rec")); err == nil {
		t.Fatal("expected error for duplicate notifier ID")
	}

	if _, exists := nm.GetNotifier("rec"); !exists {
		t.Fatal("expected to find registered notifier")
	}
	if got := len(nm.ListNotifiers()); got != 1 {
		t.Fatalf("expected 1 notifier, got %d", got)
	}

	if err := nm.UnregisterNotifier("rec"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rec.closed {
		t.Error("expected notifier to be closed on unregister")
	}
	if err := nm.UnregisterNotifier("rec"); err == nil {
		t.Fatal("expected error for unknown notifier ID")
	}
}

func TestNotificationManager_RegisterNil(t *testing.T) {
	nm := NewNotificationManager()
	defer nm.Close()

	if err := nm.RegisterNotifier(nil); err == nil {
		t.Fatal("expected error for nil notifier")
	}
}

func TestNotificationManager_Broadcast(t *testing.T) {
	nm := NewNotificationManager()
	defer nm.Close()

	a := newRecordingNotifier("a")
	b := newRecordingNotifier("b")
	if err := nm.RegisterNotifier(a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := nm.RegisterNotifier(b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	event := GardenEvent{GardenID: "g", Type: EventTick, Tick: 7}
	nm.Broadcast(event)

	waitForEvents(t, a, 1)
	waitForEvents(t, b, 1)

	if got := a.Events()[0]; got.Tick != 7 || got.Type != EventTick {
		t.Errorf("unexpected event delivered: %+v", got)
	}
}

func TestNotificationManager_NotifySync(t *testing.T) {
	nm := NewNotificationManager()
	defer nm.Close()

	rec := newRecordingNotifier("rec")
	if err := nm.RegisterNotifier(rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	event := GardenEvent{GardenID: "g", Type: EventPlantReplaced}
	if err := nm.Notify(context.Background(), event, []string{"rec"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rec.Events()) != 1 {
		t.Fatalf("expected 1 event, got %d", len(rec.Events()))
	}

	// Unknown notifier reported as error
	if err := nm.Notify(context.Background(), event, []string{"ghost"}); err == nil {
		t.Fatal("expected error for unknown notifier")
	}
}

func TestNotificationManager_CloseIdempotent(t *testing.T) {
	nm := NewNotificationManager()

	rec := newRecordingNotifier("rec")
	if err := nm.RegisterNotifier(rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := nm.Close(); err != nil {
		t.Fatalf("unexpected error on close: %v", err)
	}
	if !rec.closed {
		t.Error("expected notifier closed")
	}
	if err := nm.Close(); err != nil {
		t.Fatalf("second close should be a no-op, got: %v", err)
	}
}

func TestGardenEvent_JSON(t *testing.T) {
	event := GardenEvent{
		GardenID:  "g",
		Type:      EventPartAdded,
		Tick:      3,
		Timestamp: 1700000000,
	}

	data, err := event.JSON()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected JSON bytes")
	}
}
