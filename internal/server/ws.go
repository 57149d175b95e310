package server

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/airpuck/internal/hockey"
	"github.com/ayusman/airpuck/internal/server/api"
)

const writeWait = 2 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// StateSource publishes match snapshots and accepts commands.
type StateSource interface {
	api.Controller
	SubscribeState() (<-chan hockey.Snapshot, func())
}

// command is a message a client may send on the state socket.
type command struct {
	Type string `json:"type"`
}

// StateHandler pushes every published snapshot to WebSocket clients.
// Clients may send {"type":"start"} or {"type":"reset"}.
type StateHandler struct {
	source StateSource
}

// NewStateHandler creates a new StateHandler for source.
func NewStateHandler(source StateSource) *StateHandler {
	return &StateHandler{source: source}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *StateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[server] websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	states, cancel := h.source.SubscribeState()
	defer cancel()

	done := make(chan struct{})
	go h.readCommands(conn, done)

	// Current state first so a fresh client is not blank until the next tick.
	if err := h.send(conn, h.source.Snapshot()); err != nil {
		return
	}

	for {
		select {
		case <-done:
			return
		case snap, ok := <-states:
			if !ok {
				return
			}
			if err := h.send(conn, snap); err != nil {
				return
			}
		}
	}
}

func (h *StateHandler) send(conn *websocket.Conn, snap hockey.Snapshot) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(snap)
}

func (h *StateHandler) readCommands(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		var cmd command
		if err := conn.ReadJSON(&cmd); err != nil {
			return
		}
		switch cmd.Type {
		case "start":
			h.source.StartMatch()
		case "reset":
			h.source.ResetMatch()
		default:
			log.Printf("[server] unknown command %q", cmd.Type)
		}
	}
}
