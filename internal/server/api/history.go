package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ayusman/airpuck/internal/store"
)

// HistoryHandler serves recorded matches.
type HistoryHandler struct {
	store *store.Store
}

// NewHistoryHandler creates a new HistoryHandler with the given store.
func NewHistoryHandler(s *store.Store) *HistoryHandler {
	return &HistoryHandler{store: s}
}

type listMatchesResponse struct {
	Matches []store.Match `json:"matches"`
}

type matchResponse struct {
	store.Match
	Goals []store.Goal `json:"goals"`
}

// ServeHTTP implements the http.Handler interface and routes requests to appropriate methods.
func (h *HistoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/matches or /api/matches/{id}
	path := strings.TrimPrefix(r.URL.Path, "/api/matches")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.list(w, r)
		return
	}

	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// list handles GET /api/matches?limit=N, newest first.
func (h *HistoryHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	matches, err := h.store.Matches().List(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list matches")
		return
	}
	writeJSON(w, http.StatusOK, listMatchesResponse{Matches: matches})
}

// get handles GET /api/matches/{id} and includes the goals.
func (h *HistoryHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	match, err := h.store.Matches().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Match not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get match")
		return
	}

	goals, err := h.store.Goals().ListByMatch(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get goals")
		return
	}

	writeJSON(w, http.StatusOK, matchResponse{Match: *match, Goals: goals})
}

// delete handles DELETE /api/matches/{id}.
func (h *HistoryHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	err := h.store.Matches().Delete(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Match not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete match")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// StatsHandler serves totals over the whole history.
type StatsHandler struct {
	store *store.Store
}

func NewStatsHandler(s *store.Store) *StatsHandler {
	return &StatsHandler{store: s}
}

// ServeHTTP handles GET /api/stats.
func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	stats, err := h.store.Matches().Stats()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
