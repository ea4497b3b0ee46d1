// Package api exposes the simulation to a presentation front end over
// HTTP: GET endpoints serve read-only state snapshots, POST endpoints
// invoke player actions and turn processing. The engine is single-owner,
// so the server serializes every request touching the state behind one
// mutex, one action at a time, exactly like a local UI would issue them.
package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/talgya/chemworks/internal/history"
	"github.com/talgya/chemworks/internal/sim"
)

// Server serves one simulation session over HTTP.
type Server struct {
	State *sim.State
	Hist  *history.DB // optional; nil disables recording
	Port  int
	// AdminKey is the bearer token required on POST endpoints.
	// Empty disables all mutating endpoints.
	AdminKey string
	// Limiter rate-limits action endpoints per client IP. Nil disables
	// limiting.
	Limiter *RateLimiter

	mu sync.Mutex
	// Offset of the first log event not yet archived to Hist.
	archived int
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

// Handler builds the full route table with CORS applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Read-only snapshots.
	mux.HandleFunc("/api/v1/status", s.locked(s.handleStatus))
	mux.HandleFunc("/api/v1/market", s.locked(s.handleMarket))
	mux.HandleFunc("/api/v1/plants", s.locked(s.handlePlants))
	mux.HandleFunc("/api/v1/inventory", s.locked(s.handleInventory))
	mux.HandleFunc("/api/v1/research", s.locked(s.handleResearch))
	mux.HandleFunc("/api/v1/log", s.locked(s.handleLog))
	mux.HandleFunc("/api/v1/catalog", s.locked(s.handleCatalog))
	mux.HandleFunc("/api/v1/history/turns", s.handleTurnHistory)
	mux.HandleFunc("/api/v1/history/prices/", s.handlePriceHistory)

	// Player actions.
	action := func(h http.HandlerFunc) http.HandlerFunc {
		h = s.action(h)
		if s.Limiter != nil {
			h = s.Limiter.limit(h)
		}
		return h
	}
	mux.HandleFunc("/api/v1/buy", action(s.handleBuy))
	mux.HandleFunc("/api/v1/sell", action(s.handleSell))
	mux.HandleFunc("/api/v1/build", action(s.handleBuild))
	mux.HandleFunc("/api/v1/demolish", action(s.handleDemolish))
	mux.HandleFunc("/api/v1/toggle", action(s.handleToggle))
	mux.HandleFunc("/api/v1/research/invest", action(s.handleInvest))
	mux.HandleFunc("/api/v1/turn", action(s.handleTurn))

	return corsMiddleware(mux)
}

// locked wraps a read handler with the state mutex.
func (s *Server) locked(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		next(w, r)
	}
}

// action wraps a mutating handler: POST only, bearer token, state mutex,
// and history archival after the mutation.
func (s *Server) action(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if s.AdminKey == "" {
			http.Error(w, "action endpoints disabled (no CHEMSIM_ADMIN_KEY set)", http.StatusForbidden)
			return
		}
		if !s.checkBearerToken(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		next(w, r)
		s.archiveEvents()
	}
}

func (s *Server) checkBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	return strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.AdminKey
}

// archiveEvents pushes new log entries to the history DB. Called with the
// state mutex held.
func (s *Server) archiveEvents() {
	if s.Hist == nil {
		return
	}
	offset, err := s.Hist.ArchiveEvents(s.State, s.archived)
	if err != nil {
		slog.Error("event archive failed", "error", err)
		return
	}
	s.archived = offset
}

// corsMiddleware adds CORS headers for allowed frontend origins. Set
// CORS_ORIGINS to a comma-separated list; localhost dev servers are
// always allowed.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
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
