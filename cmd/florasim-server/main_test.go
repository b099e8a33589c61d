package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/florasim/florasim/internal/flora"
)

func newTestServer(t *testing.T) (*Server, http.Handler) {
	t.Helper()
	srv := NewServer(NewLogger("error"))
	t.Cleanup(func() { srv.Close() })
	return srv, NewRouter(srv)
}

func doRequest(router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeSnapshot(t *testing.T, w *httptest.ResponseRecorder) flora.Snapshot {
	t.Helper()
	var snap flora.Snapshot
	if err := json.Unmarshal(w.Body.Bytes(), &snap); err != nil {
		t.Fatalf("Failed to parse snapshot response: %v", err)
	}
	return snap
}

func TestServer_HandleHealth(t *testing.T) {
	_, router := newTestServer(t)

	w := doRequest(router, http.MethodGet, "/healthz", nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
}

func TestServer_HandleCreateGarden(t *testing.T) {
	_, router := newTestServer(t)

	w := doRequest(router, http.MethodPost, "/gardens", map[string]any{
		"id":          "g1",
		"name":        "Test Garden",
		"description": "a small test plot",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	snap := decodeSnapshot(t, w)
	if snap.GardenID != "g1" {
		t.Errorf("Expected garden_id g1, got %s", snap.GardenID)
	}
	if snap.Plant.Name != "Test Garden" {
		t.Errorf("Expected plant name 'Test Garden', got %q", snap.Plant.Name)
	}
	if snap.Plant.Environment != flora.DefaultEnvironment() {
		t.Errorf("Expected default environment, got %+v", snap.Plant.Environment)
	}

	// Duplicate ID is rejected with a conflict.
	w = doRequest(router, http.MethodPost, "/gardens", map[string]any{"id": "g1", "name": "dup"})
	if w.Code != http.StatusConflict {
		t.Errorf("Expected status 409 for duplicate garden, got %d", w.Code)
	}

	// Omitted ID gets a generated one.
	w = doRequest(router, http.MethodPost, "/gardens", map[string]any{"name": "anon"})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", w.Code)
	}
	if snap := decodeSnapshot(t, w); snap.GardenID == "" {
		t.Error("Expected a generated garden_id")
	}
}

func TestServer_HandleGetAndDeleteGarden(t *testing.T) {
	_, router := newTestServer(t)

	doRequest(router, http.MethodPost, "/gardens", map[string]any{"id": "g1", "name": "x"})

	if w := doRequest(router, http.MethodGet, "/gardens/g1", nil); w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w := doRequest(router, http.MethodGet, "/gardens/nope", nil); w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}

	if w := doRequest(router, http.MethodDelete, "/gardens/g1", nil); w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w := doRequest(router, http.MethodDelete, "/gardens/g1", nil); w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 on second delete, got %d", w.Code)
	}
}

func TestServer_HandleAddPart(t *testing.T) {
	_, router := newTestServer(t)
	doRequest(router, http.MethodPost, "/gardens", map[string]any{"id": "g1", "name": "x"})

	w := doRequest(router, http.MethodPost, "/gardens/g1/parts", map[string]any{
		"type":       "leaf",
		"color":      "#228B22",
		"growthRate": "fast",
		"position":   map[string]float64{"x": 120, "y": 240},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var part flora.PlantPart
	if err := json.Unmarshal(w.Body.Bytes(), &part); err != nil {
		t.Fatalf("Failed to parse part response: %v", err)
	}
	if part.Type != flora.PartLeaf {
		t.Errorf("Expected leaf, got %s", part.Type)
	}
	if part.Size != flora.DefaultPartSize {
		t.Errorf("Expected default size, got %v", part.Size)
	}
	if part.ID == "" {
		t.Error("Expected a generated part ID")
	}

	// Invalid enum values are rejected.
	w = doRequest(router, http.MethodPost, "/gardens/g1/parts", map[string]any{
		"type":  "shrub",
		"color": "#228B22",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for invalid part type, got %d", w.Code)
	}
}

func TestServer_HandleSetEnvironment(t *testing.T) {
	_, router := newTestServer(t)
	doRequest(router, http.MethodPost, "/gardens", map[string]any{"id": "g1", "name": "x"})

	w := doRequest(router, http.MethodPut, "/gardens/g1/environment", map[string]any{
		"field": "water",
		"value": 70,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var env flora.Environment
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("Failed to parse environment response: %v", err)
	}
	if env.Water != 70 {
		t.Errorf("Expected water 70, got %v", env.Water)
	}

	// Out-of-range values are rejected.
	w = doRequest(router, http.MethodPut, "/gardens/g1/environment", map[string]any{
		"field": "sunlight",
		"value": 150,
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for out-of-range value, got %d", w.Code)
	}

	// Unknown fields are rejected.
	w = doRequest(router, http.MethodPut, "/gardens/g1/environment", map[string]any{
		"field": "humidity",
		"value": 50,
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for unknown field, got %d", w.Code)
	}
}

func TestServer_HandleTick(t *testing.T) {
	_, router := newTestServer(t)
	doRequest(router, http.MethodPost, "/gardens", map[string]any{"id": "g1", "name": "x"})
	doRequest(router, http.MethodPost, "/gardens/g1/parts", map[string]any{
		"type":  "leaf",
		"color": "#228B22",
	})

	w := doRequest(router, http.MethodPost, "/gardens/g1/tick?n=3", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	snap := decodeSnapshot(t, w)
	if snap.Tick != 3 {
		t.Errorf("Expected tick 3, got %d", snap.Tick)
	}
	// Normal growth over 3 ticks: 20 * 1.2^3.
	want := 20.0 * 1.2 * 1.2 * 1.2
	got := snap.Plant.Parts[0].Size
	if got < want-1e-9 || got > want+1e-9 {
		t.Errorf("Expected size %v, got %v", want, got)
	}

	for _, bad := range []string{"0", "-1", "1001", "abc"} {
		w = doRequest(router, http.MethodPost, "/gardens/g1/tick?n="+bad, nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400 for n=%s, got %d", bad, w.Code)
		}
	}
}

func TestServer_HandleReplace(t *testing.T) {
	_, router := newTestServer(t)
	doRequest(router, http.MethodPost, "/gardens", map[string]any{
		"id":          "g1",
		"name":        "x",
		"environment": map[string]float64{"sunlight": 90, "water": 30, "temperature": 60},
	})

	w := doRequest(router, http.MethodPost, "/gardens/g1/replace", map[string]any{
		"name": "Replacement",
		"parts": []map[string]any{
			{
				"type":     "trunk",
				"color":    "#8B4513",
				"size":     25,
				"position": map[string]float64{"x": 150, "y": 250},
			},
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	snap := decodeSnapshot(t, w)
	if snap.Plant.Name != "Replacement" {
		t.Errorf("Expected replaced plant name, got %q", snap.Plant.Name)
	}
	if len(snap.Plant.Parts) != 1 {
		t.Fatalf("Expected 1 part, got %d", len(snap.Plant.Parts))
	}
	// The environment survives the replacement.
	if snap.Plant.Environment.Sunlight != 90 {
		t.Errorf("Expected sunlight 90 after replace, got %v", snap.Plant.Environment.Sunlight)
	}

	// A structurally invalid payload is rejected and leaves the plant alone.
	w = doRequest(router, http.MethodPost, "/gardens/g1/replace", map[string]any{
		"name": "Broken",
		"parts": []map[string]any{
			{"type": "shrub", "color": "#fff"},
		},
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
	w = doRequest(router, http.MethodGet, "/gardens/g1/snapshot", nil)
	if snap := decodeSnapshot(t, w); snap.Plant.Name != "Replacement" {
		t.Errorf("Expected prior plant to survive failed replace, got %q", snap.Plant.Name)
	}
}

func TestServer_HandleGenerate(t *testing.T) {
	srv, router := newTestServer(t)
	doRequest(router, http.MethodPost, "/gardens", map[string]any{"id": "g1", "name": "x"})

	// Without a generator the endpoint is unavailable.
	w := doRequest(router, http.MethodPost, "/gardens/g1/generate", map[string]any{"description": "a fern"})
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503 without generator, got %d", w.Code)
	}

	object := map[string]any{
		"name":        "Generated Fern",
		"description": "a lush fern",
		"parts": []map[string]any{
			{
				"id":       "gen-1",
				"type":     "leaf",
				"color":    "#00FF00",
				"size":     20,
				"position": map[string]float64{"x": 150, "y": 200},
			},
		},
	}
	service := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"object": object})
	}))
	defer service.Close()

	srv.SetGenerator(flora.NewGenerator(service.URL))

	w = doRequest(router, http.MethodPost, "/gardens/g1/generate", map[string]any{"description": "a fern"})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	snap := decodeSnapshot(t, w)
	if snap.Plant.Name != "Generated Fern" {
		t.Errorf("Expected generated plant, got %q", snap.Plant.Name)
	}

	// An empty description never reaches the service.
	w = doRequest(router, http.MethodPost, "/gardens/g1/generate", map[string]any{"description": "   "})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for empty description, got %d", w.Code)
	}
}

func TestServer_HandleGenerateServiceFailure(t *testing.T) {
	srv, router := newTestServer(t)
	doRequest(router, http.MethodPost, "/gardens", map[string]any{"id": "g1", "name": "x"})

	service := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusInternalServerError)
	}))
	defer service.Close()

	srv.SetGenerator(flora.NewGenerator(service.URL))

	w := doRequest(router, http.MethodPost, "/gardens/g1/generate", map[string]any{"description": "a fern"})
	if w.Code != http.StatusBadGateway {
		t.Errorf("Expected status 502 for failed generation, got %d", w.Code)
	}

	// The garden still answers with its previous plant.
	w = doRequest(router, http.MethodGet, "/gardens/g1", nil)
	if snap := decodeSnapshot(t, w); snap.Plant.Name != "x" {
		t.Errorf("Expected prior plant after failure, got %q", snap.Plant.Name)
	}
}

func TestServer_HandleNotifiers(t *testing.T) {
	_, router := newTestServer(t)

	// The built-in websocket notifier is registered at startup.
	w := doRequest(router, http.MethodGet, "/notifiers", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var listing struct {
		Notifiers []map[string]string `json:"notifiers"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &listing); err != nil {
		t.Fatalf("Failed to parse notifier list: %v", err)
	}
	if len(listing.Notifiers) != 1 || listing.Notifiers[0]["type"] != "websocket" {
		t.Fatalf("Expected single websocket notifier, got %+v", listing.Notifiers)
	}

	w = doRequest(router, http.MethodPost, "/notifiers", map[string]any{
		"type":   "webhook",
		"id":     "hook-1",
		"config": map[string]any{"url": "http://localhost:9999/hook"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	// Missing URL and unknown types are rejected.
	w = doRequest(router, http.MethodPost, "/notifiers", map[string]any{"type": "webhook", "id": "hook-2"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for missing url, got %d", w.Code)
	}
	w = doRequest(router, http.MethodPost, "/notifiers", map[string]any{"type": "carrier-pigeon", "id": "p"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for unknown type, got %d", w.Code)
	}

	if w := doRequest(router, http.MethodDelete, "/notifiers/hook-1", nil); w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w := doRequest(router, http.MethodDelete, "/notifiers/hook-1", nil); w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 on second delete, got %d", w.Code)
	}
}

func TestServer_HandleStartStop(t *testing.T) {
	_, router := newTestServer(t)
	doRequest(router, http.MethodPost, "/gardens", map[string]any{"id": "g1", "name": "x"})

	// No interval configured and none supplied.
	w := doRequest(router, http.MethodPost, "/gardens/g1/start", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 without interval, got %d", w.Code)
	}

	w = doRequest(router, http.MethodPost, "/gardens/g1/start", map[string]any{"interval_ms": 50})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	if w := doRequest(router, http.MethodPost, "/gardens/g1/stop", nil); w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
}

func TestServer_ListGardens(t *testing.T) {
	_, router := newTestServer(t)

	for i := 0; i < 3; i++ {
		doRequest(router, http.MethodPost, "/gardens", map[string]any{
			"id":   fmt.Sprintf("g%d", i),
			"name": "x",
		})
	}

	w := doRequest(router, http.MethodGet, "/gardens", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var listing struct {
		Gardens []string `json:"gardens"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &listing); err != nil {
		t.Fatalf("Failed to parse garden list: %v", err)
	}
	if len(listing.Gardens) != 3 {
		t.Errorf("Expected 3 gardens, got %d", len(listing.Gardens))
	}
}
