// Package api serves the game over HTTP. GET endpoints are public read-only
// views of the committed state; action submission is schema-validated and
// rate limited; turn resolution and snapshots are admin-only behind a bearer
// token.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/talgya/tribelands/internal/catalog"
	"github.com/talgya/tribelands/internal/engine"
	"github.com/talgya/tribelands/internal/game"
	"github.com/talgya/tribelands/internal/persistence"
	"github.com/talgya/tribelands/internal/world"
)

const maxSubmissionBytes = 1 << 20

// Server serves one game session over HTTP.
type Server struct {
	Session  *engine.Session
	DB       *persistence.DB
	Catalogs *catalog.Catalogs
	Port     int
	AdminKey string // Bearer token for admin endpoints. Empty = disabled.

	// ResolveTimeout bounds an admin-triggered resolution; zero means 30s.
	ResolveTimeout time.Duration
}

// Handler builds the full route table. Split from Start so tests can drive
// it through httptest.
func (s *Server) Handler() http.Handler {
	submitLimiter := NewRateLimiter(60, time.Minute)

	mux := http.NewServeMux()

	// Public endpoints (GET, read-only).
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/state", s.handleState)
	mux.HandleFunc("/api/v1/map", s.handleBulkMap)
	mux.HandleFunc("/api/v1/tribes", s.handleTribes)
	mux.HandleFunc("/api/v1/tribe/", s.handleTribeDetail)
	mux.HandleFunc("/api/v1/history/", s.handleHistory)
	mux.HandleFunc("/api/v1/catalog", s.handleCatalog)

	// Player control plane.
	mux.HandleFunc("/api/v1/actions", RateLimitMiddleware(submitLimiter, s.handleActions))

	// Admin endpoints (POST, require bearer token).
	mux.HandleFunc("/api/v1/turn", s.adminOnly(s.handleTurn))
	mux.HandleFunc("/api/v1/snapshot", s.adminOnly(s.handleSnapshot))

	return corsMiddleware(mux)
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "")

	handler := s.Handler()
	go func() {
		if err := http.ListenAndServe(addr, handler); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// corsMiddleware adds CORS headers for allowed frontend origins. Set
// CORS_ORIGINS to a comma-separated list; localhost dev servers are always
// allowed.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:4173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
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

// checkBearerToken reports whether the request carries the admin token.
func (s *Server) checkBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	return strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.AdminKey
}

// adminOnly wraps a handler to require bearer token auth on POST requests.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if s.AdminKey == "" {
				http.Error(w, "admin endpoints disabled (no TRIBELANDS_ADMIN_KEY set)", http.StatusForbidden)
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

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st := s.Session.State()

	journeys := map[string]int{}
	for _, j := range st.Journeys {
		journeys[string(j.Status)]++
	}

	writeJSON(w, map[string]any{
		"turn":       st.Turn,
		"map_radius": st.Map.Radius,
		"tribes":     len(st.Tribes),
		"journeys":   journeys,
		"open_spawn": len(st.StartingLocations),
	})
}

// handleState returns the complete committed state. Heavyweight; meant for
// admin dashboards and debugging, not the game client.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Session.State())
}

// handleBulkMap returns all hexes for the map renderer.
func (s *Server) handleBulkMap(w http.ResponseWriter, r *http.Request) {
	st := s.Session.State()

	type hexEntry struct {
		Q       int        `json:"q"`
		R       int        `json:"r"`
		Terrain uint8      `json:"terrain"`
		POI     *world.POI `json:"poi,omitempty"`
	}
	hexes := make([]hexEntry, 0, st.Map.HexCount())
	for _, coord := range world.CoordsInRange(world.HexCoord{}, st.Map.Radius) {
		h := st.Map.Get(coord)
		if h == nil {
			continue
		}
		hexes = append(hexes, hexEntry{Q: coord.Q, R: coord.R, Terrain: uint8(h.Terrain), POI: h.POI})
	}

	type baseEntry struct {
		TribeID string `json:"tribe_id"`
		Name    string `json:"name"`
		Q       int    `json:"q"`
		R       int    `json:"r"`
	}
	bases := make([]baseEntry, 0, len(st.Tribes))
	for _, t := range st.Tribes {
		bases = append(bases, baseEntry{TribeID: t.ID, Name: t.Name, Q: t.HomeBase.Q, R: t.HomeBase.R})
	}

	writeJSON(w, map[string]any{
		"radius":     st.Map.Radius,
		"hexes":      hexes,
		"home_bases": bases,
	})
}

func (s *Server) handleTribes(w http.ResponseWriter, r *http.Request) {
	st := s.Session.State()

	type tribeBrief struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		IsAI      bool   `json:"is_ai"`
		Troops    int    `json:"troops"`
		Garrisons int    `json:"garrisons"`
	}
	out := make([]tribeBrief, 0, len(st.Tribes))
	for _, t := range st.Tribes {
		out = append(out, tribeBrief{
			ID: t.ID, Name: t.Name, IsAI: t.IsAI,
			Troops: t.TotalTroops(), Garrisons: len(t.Garrisons),
		})
	}
	writeJSON(w, out)
}

// handleTribeDetail serves GET /api/v1/tribe/:id — one tribe's full view,
// with the pending action queue stripped out.
func (s *Server) handleTribeDetail(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/tribe/")
	if id == "" {
		http.Error(w, "tribe id required", http.StatusBadRequest)
		return
	}

	st := s.Session.State()
	tribe := st.Tribe(id)
	if tribe == nil {
		http.Error(w, "tribe not found", http.StatusNotFound)
		return
	}

	// Queued orders stay private until resolution.
	tribe.Actions = nil

	var inbox []*game.DiplomaticMessage
	for _, msg := range st.DiplomaticMessages {
		if msg.ToTribeID == id {
			inbox = append(inbox, msg)
		}
	}
	var proposals []*game.DiplomaticProposal
	for _, prop := range st.DiplomaticProposals {
		if prop.ToTribeID == id || prop.FromTribeID == id {
			proposals = append(proposals, prop)
		}
	}

	writeJSON(w, map[string]any{
		"tribe":     tribe,
		"messages":  inbox,
		"proposals": proposals,
		"turn":      st.Turn,
	})
}

// handleHistory serves GET /api/v1/history/:tribeID?limit=N from the
// queryable summary rows.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "database not available", http.StatusServiceUnavailable)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/history/")
	if id == "" {
		http.Error(w, "tribe id required", http.StatusBadRequest)
		return
	}
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 200 {
			http.Error(w, "limit must be 1-200", http.StatusBadRequest)
			return
		}
		limit = n
	}

	lines, err := s.DB.TribeHistory(id, limit)
	if err != nil {
		slog.Error("history query failed", "tribe", id, "error", err)
		http.Error(w, "history query failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, lines)
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	techs := make([]catalog.Technology, 0, len(s.Catalogs.TechOrder))
	for _, id := range s.Catalogs.TechOrder {
		techs = append(techs, s.Catalogs.Techs[id])
	}
	writeJSON(w, map[string]any{"technologies": techs})
}

// handleActions accepts a tribe's order queue for the next turn. The body is
// schema-validated before it touches the session; a resubmission replaces
// the earlier queue.
func (s *Server) handleActions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSubmissionBytes))
	if err != nil {
		http.Error(w, "body too large", http.StatusRequestEntityTooLarge)
		return
	}
	if err := validateSubmission(raw); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req struct {
		TribeID string            `json:"tribe_id"`
		Actions []game.GameAction `json:"actions"`
	}
	if err := json.Unmarshal(raw, &req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	if err := s.Session.SubmitActions(req.TribeID, req.Actions); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	slog.Info("actions submitted", "tribe", req.TribeID, "count", len(req.Actions))
	writeJSON(w, map[string]any{
		"accepted": len(req.Actions),
		"turn":     s.Session.Turn(),
	})
}

// handleTurn resolves the next turn and persists the result.
func (s *Server) handleTurn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	timeout := s.ResolveTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	next, err := s.Session.ResolveTurn(ctx)
	if err != nil {
		slog.Error("turn resolution failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if s.DB != nil {
		if err := s.DB.SaveState(next); err != nil {
			slog.Error("post-turn save failed", "turn", next.Turn, "error", err)
		}
	}
	writeJSON(w, map[string]any{"turn": next.Turn})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.DB == nil {
		http.Error(w, "database not available", http.StatusServiceUnavailable)
		return
	}

	st := s.Session.State()
	if err := s.DB.SaveState(st); err != nil {
		slog.Error("snapshot save failed", "error", err)
		http.Error(w, "snapshot failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{"turn": st.Turn, "message": "snapshot saved"})
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
