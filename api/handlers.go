package api

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/jxoesneon/EvoSim/config"
	"github.com/jxoesneon/EvoSim/game"
)

const (
	maxBodyBytes = 1 << 20
	maxStepCount = 10000
)

// WorldInfo summarizes the world for GET /world.
type WorldInfo struct {
	Width      float32        `json:"width"`
	Height     float32        `json:"height"`
	Tick       uint64         `json:"tick"`
	Mode       string         `json:"mode"`
	Seed       uint32         `json:"seed"`
	Creatures  int            `json:"creatures"`
	Plants     int            `json:"plants"`
	Corpses    int            `json:"corpses"`
	LastStep   game.StepStats `json:"lastStep"`
	BadBrains  int            `json:"badBrains"`
	Subscribed int            `json:"subscribers"`
}

// StepRequest is the body of POST /step. Zero values select one step of
// the server's default dt.
type StepRequest struct {
	DT    float32 `json:"dt"`
	Count int     `json:"count"`
}

// SpawnRequest is the body of the spawn endpoints.
type SpawnRequest struct {
	X      *float32 `json:"x"`
	Y      *float32 `json:"y"`
	Radius *float32 `json:"radius,omitempty"`
}

// ModeRequest is the body of POST /brain-mode.
type ModeRequest struct {
	Mode string `json:"mode"`
}

// SeedRequest is the body of POST /seed.
type SeedRequest struct {
	Seed *uint32 `json:"seed"`
}

func (s *Server) handleWorld(w http.ResponseWriter, r *http.Request) {
	var info WorldInfo
	s.withWorld(func(world *game.World) {
		info = s.worldInfo(world)
	})
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) worldInfo(world *game.World) WorldInfo {
	width, height := world.Size()
	return WorldInfo{
		Width:      width,
		Height:     height,
		Tick:       world.Tick(),
		Mode:       world.Mode().String(),
		Seed:       world.Seed(),
		Creatures:  world.NumCreatures(),
		Plants:     len(world.Plants()),
		Corpses:    len(world.Corpses()),
		LastStep:   world.LastStep(),
		BadBrains:  len(world.BadBrainHashes()),
		Subscribed: s.hub.Len(),
	}
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	var body any
	s.withWorld(func(world *game.World) { body = world.Snapshot() })
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleCreatures(w http.ResponseWriter, r *http.Request) {
	var body any
	s.withWorld(func(world *game.World) { body = world.Creatures() })
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handlePlants(w http.ResponseWriter, r *http.Request) {
	var body any
	s.withWorld(func(world *game.World) { body = world.Plants() })
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleCorpses(w http.ResponseWriter, r *http.Request) {
	var body any
	s.withWorld(func(world *game.World) { body = world.Corpses() })
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleEnvCosts(w http.ResponseWriter, r *http.Request) {
	var body any
	s.withWorld(func(world *game.World) { body = world.EnvCosts() })
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleCorpseCosts(w http.ResponseWriter, r *http.Request) {
	var body any
	s.withWorld(func(world *game.World) { body = world.CorpseCosts() })
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	var sim config.Sim
	s.withWorld(func(world *game.World) { sim = world.Config() })
	writeJSON(w, http.StatusOK, sim)
}

func (s *Server) handleStep(w http.ResponseWriter, r *http.Request) {
	req := StepRequest{}
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON format")
			return
		}
	}
	if req.DT == 0 {
		req.DT = s.dt
	}
	if req.Count == 0 {
		req.Count = 1
	}
	if !(req.DT > 0) || req.Count < 0 || req.Count > maxStepCount {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("dt must be positive and count within [1,%d]", maxStepCount))
		return
	}

	var info WorldInfo
	s.withWorld(func(world *game.World) {
		for range req.Count {
			world.Step(req.DT)
		}
		info = s.worldInfo(world)
	})
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleSpawnCreature(w http.ResponseWriter, r *http.Request) {
	var req SpawnRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.X == nil || req.Y == nil {
		writeError(w, http.StatusBadRequest, "x and y are required")
		return
	}

	var id string
	s.withWorld(func(world *game.World) { id = world.SpawnCreature(*req.X, *req.Y) })
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleSpawnPlant(w http.ResponseWriter, r *http.Request) {
	var req SpawnRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.X == nil || req.Y == nil {
		writeError(w, http.StatusBadRequest, "x and y are required")
		return
	}

	s.withWorld(func(world *game.World) { world.SpawnPlant(*req.X, *req.Y, req.Radius) })
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	var info WorldInfo
	s.withWorld(func(world *game.World) {
		world.Reset()
		info = s.worldInfo(world)
	})
	slog.Info("world reset")
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleBrainMode(w http.ResponseWriter, r *http.Request) {
	var req ModeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var mode string
	s.withWorld(func(world *game.World) {
		world.SetBrainMode(req.Mode)
		mode = world.Mode().String()
	})
	writeJSON(w, http.StatusOK, map[string]string{"mode": mode})
}

func (s *Server) handleSeed(w http.ResponseWriter, r *http.Request) {
	var req SeedRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Seed == nil {
		writeError(w, http.StatusBadRequest, "seed is required")
		return
	}

	s.withWorld(func(world *game.World) { world.SetSeed(*req.Seed) })
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleBadBrains(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.withWorld(func(world *game.World) { err = world.SetBadBrainHashesJSON(body) })
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetConfig(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.withWorld(func(world *game.World) { err = world.SetConfigJSON(body) })
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	var initial []byte
	s.withWorld(func(*game.World) {
		data, err := s.frame()
		if err != nil {
			slog.Error("failed to encode frame", "error", err)
			return
		}
		initial = data
	})
	s.hub.Serve(w, r, initial)
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}
	return body, nil
}

// decodeBody decodes a JSON request body into dst, writing a 400 response
// and returning false on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON format")
		return false
	}
	return true
}
