// Package api exposes a World over HTTP and streams it over websockets.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jxoesneon/EvoSim/components"
	"github.com/jxoesneon/EvoSim/config"
	"github.com/jxoesneon/EvoSim/game"
)

// Server serializes every access to a single World.
type Server struct {
	mu    sync.Mutex
	world *game.World
	hub   *Hub

	dt             float32
	tickRate       float64
	broadcastEvery int
}

// NewServer creates a server for world. dt is the step length used by the
// background runner and by step requests that omit it.
func NewServer(world *game.World, cfg config.ServerConfig, dt float32) *Server {
	return &Server{
		world:          world,
		hub:            NewHub(),
		dt:             dt,
		tickRate:       cfg.TickRate,
		broadcastEvery: max(cfg.BroadcastEvery, 1),
	}
}

// Hub returns the websocket hub.
func (s *Server) Hub() *Hub { return s.hub }

// Routes sets up the HTTP routes.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/health"))

	r.Get("/ws", s.handleWS)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(10 * time.Second))

		r.Get("/world", s.handleWorld)
		r.Get("/snapshot", s.handleSnapshot)
		r.Get("/creatures", s.handleCreatures)
		r.Get("/plants", s.handlePlants)
		r.Get("/corpses", s.handleCorpses)
		r.Get("/telemetry/env", s.handleEnvCosts)
		r.Get("/telemetry/corpses", s.handleCorpseCosts)
		r.Get("/config", s.handleGetConfig)

		r.Post("/step", s.handleStep)
		r.Post("/spawn/creature", s.handleSpawnCreature)
		r.Post("/spawn/plant", s.handleSpawnPlant)
		r.Post("/reset", s.handleReset)
		r.Post("/brain-mode", s.handleBrainMode)
		r.Post("/seed", s.handleSeed)
		r.Post("/bad-brains", s.handleBadBrains)
		r.Post("/config", s.handleSetConfig)
	})

	return r
}

// withWorld runs fn while holding the world lock.
func (s *Server) withWorld(fn func(w *game.World)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.world)
}

// Frame is one websocket message.
type Frame struct {
	Tick      uint64                `json:"tick"`
	Stats     game.StepStats        `json:"stats"`
	Creatures []components.Creature `json:"creatures"`
	Plants    []components.Plant    `json:"plants"`
	Corpses   []components.Corpse   `json:"corpses"`
}

// frame encodes the current state. The caller must hold the world lock.
func (s *Server) frame() ([]byte, error) {
	w := s.world
	return json.Marshal(Frame{
		Tick:      w.Tick(),
		Stats:     w.LastStep(),
		Creatures: w.Creatures(),
		Plants:    w.Plants(),
		Corpses:   w.Corpses(),
	})
}

// Run steps the world at the configured tick rate until ctx is done,
// broadcasting a frame every broadcastEvery ticks. A non-positive tick rate
// leaves the world paused and only waits for ctx.
func (s *Server) Run(ctx context.Context) {
	if s.tickRate <= 0 {
		<-ctx.Done()
		return
	}

	ticker := time.NewTicker(time.Duration(float64(time.Second) / s.tickRate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

// tick advances one step and broadcasts when a frame is due.
func (s *Server) tick() {
	var msg []byte
	s.withWorld(func(w *game.World) {
		w.Step(s.dt)
		if w.Tick()%uint64(s.broadcastEvery) != 0 || s.hub.Len() == 0 {
			return
		}
		data, err := s.frame()
		if err != nil {
			slog.Error("failed to encode frame", "error", err)
			return
		}
		msg = data
	})
	if msg != nil {
		s.hub.Broadcast(msg)
	}
}

// ListenAndServe serves the API on addr and runs the world until ctx is
// done, then shuts the HTTP server down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// The runner has stopped by the time this returns.
	runCtx, stopRun := context.WithCancel(ctx)
	runDone := make(chan struct{})
	go func() {
		defer close(runDone)
		s.Run(runCtx)
	}()
	defer func() {
		stopRun()
		<-runDone
	}()

	errc := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// requestLogger logs each request through slog.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		slog.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
