// Package server provides the HTTP server for the air hockey table.
package server

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/ayusman/airpuck/internal/hockey"
	"github.com/ayusman/airpuck/internal/server/api"
	"github.com/ayusman/airpuck/internal/store"
)

// Game is the running table: the live match plus the feeds it publishes.
// Every subscription returns a cancel func that must be called once.
type Game interface {
	api.Controller
	SubscribeState() (<-chan hockey.Snapshot, func())
	SubscribeFrames() (<-chan []byte, func())
}

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	Game      Game

	// LogRequests logs every JSON API call. Streams are never logged.
	LogRequests bool
}

// Server routes the JSON API, the live feeds and the table view.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

type health struct {
	Status string        `json:"status"`
	Uptime string        `json:"uptime"`
	Match  *hockey.State `json:"match,omitempty"`
}

func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.handle("/api/health", http.HandlerFunc(s.handleHealth))

	if st := s.config.Store; st != nil {
		history := api.NewHistoryHandler(st)
		s.handle("/api/matches", history)
		s.handle("/api/matches/", history)
		s.handle("/api/stats", api.NewStatsHandler(st))
	}

	if g := s.config.Game; g != nil {
		match := api.NewMatchHandler(g)
		s.handle("/api/match", match)
		s.handle("/api/match/", match)

		// The feeds need the raw writer for flushing and hijacking.
		s.mux.Handle("/api/stream", NewStreamHandler(g))
		s.mux.Handle("/api/state", NewStateHandler(g))
	}

	if s.config.StaticDir != "" {
		s.mux.Handle("/", http.FileServer(http.Dir(s.config.StaticDir)))
	}
}

func (s *Server) handle(pattern string, h http.Handler) {
	if s.config.LogRequests {
		h = logRequests(h)
	}
	s.mux.Handle(pattern, h)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	resp := health{
		Status: "ok",
		Uptime: time.Since(s.start).Round(time.Second).String(),
	}
	if s.config.Game != nil {
		state := s.config.Game.Snapshot().State
		resp.Match = &state
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("[http] health: %v", err)
	}
}

// HTTPServer wraps the server for graceful shutdown. There is no write
// timeout because the feeds stay open for as long as a viewer watches.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		log.Printf("[http] %s %s %d %v", r.Method, r.URL.Path, sw.status, time.Since(start).Round(time.Microsecond))
	})
}
