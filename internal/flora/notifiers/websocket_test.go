package notifiers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestNewWebSocketNotifier(t *testing.T) {
	notifier := NewWebSocketNotifier("test-ws")
	defer notifier.Close()

	if notifier.ID() != "test-ws" {
		t.Errorf("Expected ID 'test-ws', got '%s'", notifier.ID())
	}
	if notifier.Type() != "websocket" {
		t.Errorf("Expected type 'websocket', got '%s'", notifier.Type())
	}
}

func TestWebSocketNotifier_Upgrader(t *testing.T) {
	notifier := NewWebSocketNotifier("test")
	defer notifier.Close()

	upgrader := notifier.Upgrader()
	if upgrader.ReadBufferSize == 0 {
		t.Error("Expected non-zero ReadBufferSize")
	}
	if upgrader.WriteBufferSize == 0 {
		t.Error("Expected non-zero WriteBufferSize")
	}
}

func TestWebSocketNotifier_NotifyNoClients(t *testing.T) {
	notifier := NewWebSocketNotifier("test")
	defer notifier.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	if err := notifier.Notify(ctx, testEvent()); err != nil {
		t.Errorf("Expected no error with no clients, got %v", err)
	}
}

func TestWebSocketNotifier_BroadcastToClient(t *testing.T) {
	notifier := NewWebSocketNotifier("test")
	defer notifier.Close()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upgrader := notifier.Upgrader()
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		notifier.RegisterClient(conn)
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("failed to dial websocket: %v", err)
	}
	if resp != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	// Give the hub a beat to register the connection.
	time.Sleep(50 * time.Millisecond)

	if err := notifier.Notify(context.Background(), testEvent()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, message, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read broadcast message: %v", err)
	}

	var payload map[string]any
	if err := json.Unmarshal(message, &payload); err != nil {
		t.Fatalf("broadcast message is not valid JSON: %v", err)
	}
	if payload["garden_id"] != "test-garden" {
		t.Errorf("expected garden_id test-garden, got %v", payload["garden_id"])
	}
}

func TestWebSocketNotifier_UnregisterClient(t *testing.T) {
	notifier := NewWebSocketNotifier("test")

	// Nil registrations are ignored by the hub.
	notifier.RegisterClient(nil)
	notifier.UnregisterClient(nil)

	if err := notifier.Close(); err != nil {
		t.Errorf("Expected no error on close, got %v", err)
	}
}

func TestWebSocketNotifier_NotifyCancelledContext(t *testing.T) {
	notifier := NewWebSocketNotifier("test")
	defer notifier.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// May or may not error depending on timing; must not panic.
	_ = notifier.Notify(ctx, testEvent())
}
