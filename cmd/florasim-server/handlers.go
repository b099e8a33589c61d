package main

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/florasim/florasim/internal/flora"
	floranotifiers "github.com/florasim/florasim/internal/flora/notifiers"
)

// maxTicksPerRequest caps the tick endpoint so a single request cannot
// stall the server.
const maxTicksPerRequest = 1000

// NewRouter builds the HTTP routing table for the server.
func NewRouter(s *Server) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	r.HandleFunc("/gardens", s.handleCreateGarden).Methods(http.MethodPost)
	r.HandleFunc("/gardens", s.handleListGardens).Methods(http.MethodGet)
	r.HandleFunc("/gardens/{id}", s.handleGetGarden).Methods(http.MethodGet)
	r.HandleFunc("/gardens/{id}", s.handleDeleteGarden).Methods(http.MethodDelete)
	r.HandleFunc("/gardens/{id}/parts", s.handleAddPart).Methods(http.MethodPost)
	r.HandleFunc("/gardens/{id}/environment", s.handleSetEnvironment).Methods(http.MethodPut)
	r.HandleFunc("/gardens/{id}/tick", s.handleTick).Methods(http.MethodPost)
	r.HandleFunc("/gardens/{id}/generate", s.handleGenerate).Methods(http.MethodPost)
	r.HandleFunc("/gardens/{id}/replace", s.handleReplace).Methods(http.MethodPost)
	r.HandleFunc("/gardens/{id}/snapshot", s.handleSnapshot).Methods(http.MethodGet)
	r.HandleFunc("/gardens/{id}/start", s.handleStart).Methods(http.MethodPost)
	r.HandleFunc("/gardens/{id}/stop", s.handleStop).Methods(http.MethodPost)

	r.HandleFunc("/ws", s.handleWebSocket).Methods(http.MethodGet)

	r.HandleFunc("/notifiers", s.handleListNotifiers).Methods(http.MethodGet)
	r.HandleFunc("/notifiers", s.handleRegisterNotifier).Methods(http.MethodPost)
	r.HandleFunc("/notifiers/{id}", s.handleUnregisterNotifier).Methods(http.MethodDelete)

	return r
}

// statusForError maps domain error kinds to HTTP status codes.
func statusForError(err error) int {
	switch {
	case flora.IsKind(err, flora.ErrDuplicateID):
		return http.StatusConflict
	case flora.IsKind(err, flora.ErrGenerationFailed):
		return http.StatusBadGateway
	case flora.IsKind(err, flora.ErrInvalidEnumValue),
		flora.IsKind(err, flora.ErrMissingField),
		flora.IsKind(err, flora.ErrOutOfRange),
		flora.IsKind(err, flora.ErrEmptyDescription):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers already sent; nothing useful left to do.
		return
	}
}

func (s *Server) garden(w http.ResponseWriter, r *http.Request) (*flora.Garden, bool) {
	id := flora.GardenID(mux.Vars(r)["id"])
	garden, exists := s.manager.GetGarden(id)
	if !exists {
		http.Error(w, "garden not found: "+string(id), http.StatusNotFound)
		return nil, false
	}
	return garden, true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// POST /gardens
// Body: { "id": "...", "name": "...", "description": "...", "environment": { ... } }
// The environment section is optional; omitted fields default to mid-range.
type createGardenRequest struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Environment *flora.Environment `json:"environment"`
}

func (s *Server) handleCreateGarden(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req createGardenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}

	id := flora.GardenID(req.ID)
	if id == "" {
		id = flora.GardenID(flora.NewID())
	}

	env := flora.DefaultEnvironment()
	if req.Environment != nil {
		env = *req.Environment
	}

	garden, err := s.createGarden(id, flora.NewPlant(req.Name, req.Description, env))
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	s.logger.Infof("Garden created: garden_id=%s name=%q", id, req.Name)
	writeJSON(w, http.StatusCreated, garden.Snapshot())
}

// GET /gardens
func (s *Server) handleListGardens(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"gardens": s.manager.ListGardens()})
}

// GET /gardens/{id}
func (s *Server) handleGetGarden(w http.ResponseWriter, r *http.Request) {
	garden, ok := s.garden(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, garden.Snapshot())
}

// DELETE /gardens/{id}
func (s *Server) handleDeleteGarden(w http.ResponseWriter, r *http.Request) {
	id := flora.GardenID(mux.Vars(r)["id"])
	if err := s.manager.DeleteGarden(id); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	s.logger.Infof("Garden deleted: garden_id=%s", id)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("garden deleted"))
}

// POST /gardens/{id}/parts
// Body: { "type": "leaf", "color": "#228B22", "growthRate": "fast",
//         "special": "drooping", "position": { "x": 120, "y": 240 } }
// Only type and color are required; size is always the default and
// cannot be set by the caller.
type addPartRequest struct {
	Type       string          `json:"type"`
	Color      string          `json:"color"`
	GrowthRate string          `json:"growthRate"`
	Special    string          `json:"special"`
	Position   *flora.Position `json:"position"`
}

func (s *Server) handleAddPart(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	garden, ok := s.garden(w, r)
	if !ok {
		return
	}

	var req addPartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}

	opts := make([]flora.PartOption, 0, 3)
	if req.GrowthRate != "" {
		opts = append(opts, flora.WithGrowthRate(flora.GrowthRate(req.GrowthRate)))
	}
	if req.Special != "" {
		opts = append(opts, flora.WithSpecial(flora.SpecialTrait(req.Special)))
	}
	if req.Position != nil {
		opts = append(opts, flora.WithPosition(*req.Position))
	}

	part := flora.NewPart(flora.PartType(req.Type), req.Color, opts...)
	if err := garden.AppendPart(part); err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	s.logger.Debugf("Part added: garden_id=%s part_id=%s type=%s", garden.ID(), part.ID, part.Type)
	writeJSON(w, http.StatusCreated, part)
}

// PUT /gardens/{id}/environment
// Body: { "field": "water", "value": 70 }
type setEnvironmentRequest struct {
	Field string  `json:"field"`
	Value float64 `json:"value"`
}

func (s *Server) handleSetEnvironment(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	garden, ok := s.garden(w, r)
	if !ok {
		return
	}

	var req setEnvironmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := garden.SetEnvironment(flora.EnvironmentField(req.Field), req.Value); err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	writeJSON(w, http.StatusOK, garden.Plant().Environment)
}

// POST /gardens/{id}/tick?n=3
// Applies n growth ticks (default 1).
func (s *Server) handleTick(w http.ResponseWriter, r *http.Request) {
	garden, ok := s.garden(w, r)
	if !ok {
		return
	}

	n := 1
	if raw := r.URL.Query().Get("n"); raw != "" {
		val, err := strconv.Atoi(raw)
		if err != nil || val < 1 || val > maxTicksPerRequest {
			http.Error(w, "n must be an integer in [1, 1000]", http.StatusBadRequest)
			return
		}
		n = val
	}

	for i := 0; i < n; i++ {
		garden.Advance()
	}

	writeJSON(w, http.StatusOK, garden.Snapshot())
}

// POST /gardens/{id}/generate
// Body: { "description": "a gnarled oak covered in moss" }
type generateRequest struct {
	Description string `json:"description"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	garden, ok := s.garden(w, r)
	if !ok {
		return
	}

	if s.generator == nil {
		http.Error(w, "no generation service configured", http.StatusServiceUnavailable)
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}

	if garden.Generating() {
		http.Error(w, "a generation request is already in flight", http.StatusConflict)
		return
	}

	if err := garden.Generate(r.Context(), s.generator, req.Description); err != nil {
		s.logger.Warnf("Generation failed: garden_id=%s error=%v", garden.ID(), err)
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	s.logger.Infof("Plant generated: garden_id=%s parts=%d", garden.ID(), len(garden.Plant().Parts))
	writeJSON(w, http.StatusOK, garden.Snapshot())
}

// POST /gardens/{id}/replace
// Body: PlantConfig JSON. The structure is validated like any untrusted
// payload and replaces the plant wholesale, keeping the environment.
func (s *Server) handleReplace(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	garden, ok := s.garden(w, r)
	if !ok {
		return
	}

	var cfg flora.PlantConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		http.Error(w, "invalid plant json: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := garden.ReplaceFromConfig(cfg); err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	s.logger.Infof("Plant replaced: garden_id=%s parts=%d", garden.ID(), len(garden.Plant().Parts))
	writeJSON(w, http.StatusOK, garden.Snapshot())
}

// GET /gardens/{id}/snapshot
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	garden, ok := s.garden(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, garden.Snapshot())
}

// POST /gardens/{id}/start
// Body (optional): { "interval_ms": 500 }
type startRequest struct {
	IntervalMs int `json:"interval_ms"`
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	garden, ok := s.garden(w, r)
	if !ok {
		return
	}

	interval := s.tickInterval
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil && req.IntervalMs > 0 {
		interval = time.Duration(req.IntervalMs) * time.Millisecond
	}
	if interval <= 0 {
		http.Error(w, "no tick interval configured; pass interval_ms", http.StatusBadRequest)
		return
	}

	garden.Run(interval)
	s.logger.Infof("Auto-grow started: garden_id=%s interval=%s", garden.ID(), interval)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("started"))
}

// POST /gardens/{id}/stop
func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	garden, ok := s.garden(w, r)
	if !ok {
		return
	}
	garden.Stop()
	s.logger.Infof("Auto-grow stopped: garden_id=%s", garden.ID())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("stopped"))
}

// GET /ws
// Upgrades to a WebSocket subscription carrying every garden event.
// Clients filter by garden_id.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	upgrader := s.wsNotifier.Upgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warnf("websocket upgrade failed: %v", err)
		return
	}

	s.wsNotifier.RegisterClient(conn)

	// Drain incoming frames; unregister when the client goes away.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				s.wsNotifier.UnregisterClient(conn)
				return
			}
		}
	}()
}

// GET /notifiers
// List all registered notifiers
func (s *Server) handleListNotifiers(w http.ResponseWriter, _ *http.Request) {
	notifierIDs := s.notifierMgr.ListNotifiers()

	notifiers := make([]map[string]string, 0, len(notifierIDs))
	for _, id := range notifierIDs {
		notifier, exists := s.notifierMgr.GetNotifier(id)
		if exists {
			notifiers = append(notifiers, map[string]string{
				"id":   id,
				"type": notifier.Type(),
			})
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"notifiers": notifiers})
}

// POST /notifiers
// Register a new notifier
// Body: { "type": "webhook", "id": "my-webhook", "config": { "url": "http://..." } }
type registerNotifierRequest struct {
	Type   string         `json:"type"`
	ID     string         `json:"id"`
	Config map[string]any `json:"config"`
}

func (s *Server) handleRegisterNotifier(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req registerNotifierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}

	if req.ID == "" {
		http.Error(w, "notifier ID is required", http.StatusBadRequest)
		return
	}

	var notifier flora.Notifier

	switch req.Type {
	case "webhook":
		url, ok := req.Config["url"].(string)
		if !ok || url == "" {
			http.Error(w, "webhook URL is required", http.StatusBadRequest)
			return
		}
		wh := floranotifiers.NewWebhookNotifier(req.ID, url)

		// Set custom headers if provided
		if headers, ok := req.Config["headers"].(map[string]any); ok {
			for k, v := range headers {
				if vStr, ok := v.(string); ok {
					wh.SetHeader(k, vStr)
				}
			}
		}

		notifier = wh
	default:
		http.Error(w, "unknown notifier type: "+req.Type, http.StatusBadRequest)
		return
	}

	if err := s.notifierMgr.RegisterNotifier(notifier); err != nil {
		http.Error(w, "cannot register notifier: "+err.Error(), http.StatusBadRequest)
		return
	}

	s.logger.Infof("Notifier registered: id=%s type=%s", req.ID, req.Type)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("notifier registered"))
}

// DELETE /notifiers/{id}
// Unregister a notifier
func (s *Server) handleUnregisterNotifier(w http.ResponseWriter, r *http.Request) {
	notifierID := mux.Vars(r)["id"]
	if notifierID == "" {
		http.Error(w, "notifier ID is required", http.StatusBadRequest)
		return
	}

	if err := s.notifierMgr.UnregisterNotifier(notifierID); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	s.logger.Infof("Notifier unregistered: id=%s", notifierID)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("notifier unregistered"))
}
