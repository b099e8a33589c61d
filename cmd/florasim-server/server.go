package main

import (
	"time"

	"github.com/florasim/florasim/internal/flora"
	floranotifiers "github.com/florasim/florasim/internal/flora/notifiers"
)

// floraLoggerAdapter adapts the server's Logger to the flora.Logger interface
type floraLoggerAdapter struct {
	logger *Logger
}

func (a *floraLoggerAdapter) Debugf(format string, v ...any) {
	a.logger.Debugf(format, v...)
}

func (a *floraLoggerAdapter) Infof(format string, v ...any) {
	a.logger.Infof(format, v...)
}

func (a *floraLoggerAdapter) Warnf(format string, v ...any) {
	a.logger.Warnf(format, v...)
}

func (a *floraLoggerAdapter) Errorf(format string, v ...any) {
	a.logger.Errorf(format, v...)
}

// Server represents the HTTP server for FloraSim
type Server struct {
	manager      *flora.GardenManager
	notifierMgr  *flora.NotificationManager
	wsNotifier   *floranotifiers.WebSocketNotifier
	generator    *flora.Generator
	ceiling      float64
	tickInterval time.Duration
	logger       *Logger
}

// NewServer creates a new server instance
func NewServer(logger *Logger) *Server {
	// Convert server logger to flora.Logger interface
	floraLogger := &floraLoggerAdapter{logger: logger}
	notifierMgr := flora.NewNotificationManagerWithLogger(floraLogger)

	// The websocket feed is always available; clients subscribe on /ws
	// and filter by garden_id.
	wsNotifier := floranotifiers.NewWebSocketNotifier("websocket")
	if err := notifierMgr.RegisterNotifier(wsNotifier); err != nil {
		logger.Warnf("cannot register websocket notifier: %v", err)
	}

	return &Server{
		manager:     flora.NewGardenManagerWithLogger(floraLogger),
		notifierMgr: notifierMgr,
		wsNotifier:  wsNotifier,
		ceiling:     flora.DefaultGrowthCeiling,
		logger:      logger,
	}
}

// SetGenerator configures the structured-generation client.
func (s *Server) SetGenerator(gen *flora.Generator) {
	s.generator = gen
}

// SetGrowthCeiling sets the size ceiling used for new gardens.
func (s *Server) SetGrowthCeiling(ceiling float64) {
	if ceiling > 0 {
		s.ceiling = ceiling
	}
}

// SetTickInterval sets the default interval used by the start endpoint.
func (s *Server) SetTickInterval(interval time.Duration) {
	s.tickInterval = interval
}

// createGarden creates a garden wired to the server's notification manager.
func (s *Server) createGarden(id flora.GardenID, plant flora.Plant) (*flora.Garden, error) {
	garden, err := s.manager.CreateGarden(id, plant, flora.NewGrowthEngineWithCeiling(s.ceiling))
	if err != nil {
		return nil, err
	}
	garden.SetNotificationManager(s.notifierMgr)
	return garden, nil
}

// Close shuts down the notification pipeline.
func (s *Server) Close() error {
	for _, id := range s.manager.ListGardens() {
		if garden, ok := s.manager.GetGarden(id); ok {
			garden.Stop()
		}
	}
	return s.notifierMgr.Close()
}
