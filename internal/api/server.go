// Package api serves the colony over HTTP.
// GET endpoints are public (read-only observation).
// POST endpoints require a bearer token (admin control plane).
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/talgya/antcolony/internal/agents"
	"github.com/talgya/antcolony/internal/engine"
	"github.com/talgya/antcolony/internal/jobs"
	"github.com/talgya/antcolony/internal/persistence"
	"github.com/talgya/antcolony/internal/world"
)

const (
	maxStreamConns = 8
	defaultRate    = 120 // Admin POSTs per client per minute
	streamPoll     = 250 * time.Millisecond
	writeWait      = 5 * time.Second
	pongWait       = 60 * time.Second
)

// commandSchema validates POST /api/v1/command bodies before they reach
// the queen. Move and defend need a target; the rest ignore it.
const commandSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["type"],
  "additionalProperties": false,
  "properties": {
    "type": {"enum": ["move", "gather", "build", "defend", "rally"]},
    "x": {"type": "number"},
    "y": {"type": "number"},
    "ant": {"type": "integer", "minimum": 1}
  },
  "allOf": [
    {
      "if": {"properties": {"type": {"enum": ["move", "defend"]}}},
      "then": {"required": ["x", "y"]}
    }
  ]
}`

var commandValidator = jsonschema.MustCompileString("command.schema.json", commandSchema)

// Server serves the colony state over HTTP.
type Server struct {
	Colony   *engine.Colony
	Eng      *engine.Engine
	DB       *persistence.DB // Optional. Nil disables /api/v1/snapshot.
	Port     int
	AdminKey string // Bearer token for POST endpoints. Empty = POST disabled.
	RateMax  int    // Admin POSTs per client per minute. Zero = defaultRate.

	// Active stream connection count (atomic).
	streamConns int32

	once     sync.Once
	upgrader websocket.Upgrader
	limiter  *RateLimiter
}

func (s *Server) init() {
	s.once.Do(func() {
		rate := s.RateMax
		if rate <= 0 {
			rate = defaultRate
		}
		s.limiter = NewRateLimiter(rate, time.Minute)
		s.upgrader = websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		}
	})
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr)

	go func() {
		if err := http.ListenAndServe(addr, corsMiddleware(s.Handler())); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// Handler builds the request router.
func (s *Server) Handler() http.Handler {
	s.init()

	mux := http.NewServeMux()

	// Public endpoints (GET, read-only).
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/ants", s.handleAnts)
	mux.HandleFunc("/api/v1/ant/", s.handleAnt)
	mux.HandleFunc("/api/v1/queen", s.handleQueen)
	mux.HandleFunc("/api/v1/resources", s.handleResources)
	mux.HandleFunc("/api/v1/events", s.handleEvents)
	mux.HandleFunc("/api/v1/stream", s.handleStream)

	// Admin endpoints (POST requires bearer token and is rate limited).
	mux.HandleFunc("/api/v1/command", s.guarded(s.handleCommand))
	mux.HandleFunc("/api/v1/power", s.guarded(s.handlePower))
	mux.HandleFunc("/api/v1/speed", s.guarded(s.handleSpeed))
	mux.HandleFunc("/api/v1/snapshot", s.guarded(s.handleSnapshot))

	return mux
}

// corsMiddleware adds CORS headers for allowed frontend origins.
// Set CORS_ORIGINS to a comma-separated list of extra allowed origins.
// Localhost dev servers are always allowed.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// checkBearerToken returns true if the request has a valid admin bearer token.
func (s *Server) checkBearerToken(r *http.Request) bool {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	return ok && token == s.AdminKey
}

// adminOnly wraps a handler to require bearer token auth on POST requests.
// GET requests pass through (for endpoints that support both GET and POST).
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if s.AdminKey == "" {
				http.Error(w, "admin endpoints disabled (no COLONY_ADMIN_KEY set)", http.StatusForbidden)
				return
			}
			if !s.checkBearerToken(r) {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}
		next(w, r)
	}
}

// guarded puts an admin endpoint behind the bearer check, then rate limits
// its POSTs. Reads pass straight through.
func (s *Server) guarded(next http.HandlerFunc) http.HandlerFunc {
	limited := RateLimitMiddleware(s.limiter, next)
	return s.adminOnly(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			limited(w, r)
			return
		}
		next(w, r)
	})
}

// statusPayload is the status summary plus engine state.
type statusPayload struct {
	engine.Status
	Speed   float64 `json:"speed"`
	Running bool    `json:"running"`
}

func (s *Server) status() statusPayload {
	p := statusPayload{Status: s.Colony.Status()}
	if s.Eng != nil {
		p.Speed = s.Eng.Speed()
		p.Running = s.Eng.Running()
	}
	return p
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.status())
}

func (s *Server) handleAnts(w http.ResponseWriter, r *http.Request) {
	views := s.Colony.AntViews()

	if name := r.URL.Query().Get("job"); name != "" {
		job, ok := jobs.Parse(name)
		if !ok {
			http.Error(w, "unknown job", http.StatusBadRequest)
			return
		}
		filtered := make([]agents.View, 0, len(views))
		for _, v := range views {
			if v.Job == job {
				filtered = append(filtered, v)
			}
		}
		views = filtered
	}

	writeJSON(w, views)
}

func (s *Server) handleAnt(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimPrefix(r.URL.Path, "/api/v1/ant/")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		http.Error(w, "invalid ant id", http.StatusBadRequest)
		return
	}
	view, ok := s.Colony.AntView(agents.AntID(id))
	if !ok {
		http.Error(w, "ant not found", http.StatusNotFound)
		return
	}
	writeJSON(w, view)
}

func (s *Server) handleQueen(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Colony.QueenInfo())
}

func (s *Server) handleResources(w http.ResponseWriter, r *http.Request) {
	list := s.Colony.ResourceList()
	if kind := r.URL.Query().Get("type"); kind != "" {
		filtered := make([]world.Resource, 0, len(list))
		for _, res := range list {
			if world.ResourceTypeName(res.Type) == kind {
				filtered = append(filtered, res)
			}
		}
		list = filtered
	}
	writeJSON(w, list)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= engine.MaxEvents {
			limit = n
		}
	}

	events := s.Colony.RecentEvents(0)
	if cat := r.URL.Query().Get("category"); cat != "" {
		var filtered []engine.Event
		for _, e := range events {
			if e.Category == cat {
				filtered = append(filtered, e)
			}
		}
		events = filtered
	}

	start := 0
	if len(events) > limit {
		start = len(events) - limit
	}
	writeJSON(w, events[start:])
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST required", http.StatusMethodNotAllowed)
		return
	}

	body, err := decodeValidated(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var req engine.CommandRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	reached, err := s.Colony.IssueCommand(req)
	switch {
	case errors.Is(err, engine.ErrUnknownAnt):
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	case errors.Is(err, engine.ErrNotInRoster):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case err != nil:
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	slog.Info("command issued", "type", req.Type, "reached", reached)
	writeJSON(w, map[string]any{"type": req.Type, "reached": reached})
}

// decodeValidated reads a command body and checks it against the schema.
func decodeValidated(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&raw); err != nil {
		return nil, errors.New("invalid json")
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errors.New("invalid json")
	}
	if err := commandValidator.Validate(doc); err != nil {
		return nil, fmt.Errorf("invalid command: %w", err)
	}
	return raw, nil
}

func (s *Server) handlePower(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		var req struct {
			Power  string `json:"power"`
			Unlock bool   `json:"unlock"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := s.Colony.SetPower(req.Power, req.Unlock); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	writeJSON(w, s.Colony.QueenInfo().Powers)
}

func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	if s.Eng == nil {
		http.Error(w, "engine not attached", http.StatusServiceUnavailable)
		return
	}
	if r.Method == http.MethodPost {
		var req struct {
			Speed float64 `json:"speed"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if req.Speed < 0 || req.Speed > 1000 {
			http.Error(w, "speed must be 0-1000", http.StatusBadRequest)
			return
		}
		s.Eng.SetSpeed(req.Speed)
	}

	writeJSON(w, map[string]float64{"speed": s.Eng.Speed()})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST required", http.StatusMethodNotAllowed)
		return
	}
	if s.DB == nil {
		http.Error(w, "persistence disabled", http.StatusServiceUnavailable)
		return
	}

	if err := s.DB.SaveColony(s.Colony); err != nil {
		slog.Error("manual save failed", "error", err)
		http.Error(w, "save failed", http.StatusInternalServerError)
		return
	}
	id, err := s.DB.SaveSnapshot(s.Colony.Snapshot())
	if err != nil {
		slog.Error("manual snapshot failed", "error", err)
		http.Error(w, "snapshot failed", http.StatusInternalServerError)
		return
	}

	slog.Info("manual snapshot saved", "id", id)
	writeJSON(w, map[string]any{"id": id, "second": s.Colony.Status().Second})
}

// handleStream pushes the status summary over a websocket each time the
// simulated second advances.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	if atomic.AddInt32(&s.streamConns, 1) > maxStreamConns {
		atomic.AddInt32(&s.streamConns, -1)
		http.Error(w, "too many stream connections", http.StatusServiceUnavailable)
		return
	}
	defer atomic.AddInt32(&s.streamConns, -1)

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Reader: observers never send, but reading surfaces the close.
	go func() {
		defer cancel()
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	send := func(p statusPayload) error {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(p)
	}

	first := s.status()
	if err := send(first); err != nil {
		return
	}
	last := first.Second

	ticker := time.NewTicker(streamPoll)
	defer ticker.Stop()
	ping := time.NewTicker(pongWait / 2)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"),
				time.Now().Add(time.Second))
			return
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-ticker.C:
			p := s.status()
			if p.Second == last {
				continue
			}
			last = p.Second
			if err := send(p); err != nil {
				return
			}
		}
	}
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
