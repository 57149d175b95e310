package api

import (
	"net/http"
	"strings"

	"github.com/ayusman/airpuck/internal/hockey"
)

// Controller is the live match as seen from HTTP. Start and reset are
// queued for the game loop and report whether the request was accepted.
type Controller interface {
	Snapshot() hockey.Snapshot
	StartMatch() bool
	ResetMatch() bool
}

// MatchHandler serves the match currently on the table.
type MatchHandler struct {
	game Controller
}

// NewMatchHandler creates a new MatchHandler for game.
func NewMatchHandler(game Controller) *MatchHandler {
	return &MatchHandler{game: game}
}

type commandResponse struct {
	Status string `json:"status"`
}

// ServeHTTP routes /api/match, /api/match/start and /api/match/reset.
func (h *MatchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/match")
	path = strings.TrimPrefix(path, "/")

	switch path {
	case "":
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, h.game.Snapshot())
	case "start":
		h.command(w, r, h.game.StartMatch)
	case "reset":
		h.command(w, r, h.game.ResetMatch)
	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}

func (h *MatchHandler) command(w http.ResponseWriter, r *http.Request, send func() bool) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !send() {
		writeError(w, http.StatusServiceUnavailable, "Game loop is busy")
		return
	}
	writeJSON(w, http.StatusAccepted, commandResponse{Status: "queued"})
}
