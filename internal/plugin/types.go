// Package plugin runs external programs when something happens in a
// match: a match starting, a goal, a match finishing.
package plugin

import "encoding/json"

// Event names a match event plugins can subscribe to.
type Event string

const (
	EventMatchStarted  Event = "match.started"
	EventGoal          Event = "goal"
	EventMatchFinished Event = "match.finished"
)

// Valid reports whether e is a known event.
func (e Event) Valid() bool {
	switch e {
	case EventMatchStarted, EventGoal, EventMatchFinished:
		return true
	default:
		return false
	}
}

// Manifest is the plugin.json found in every plugin directory.
type Manifest struct {
	Name        string          `json:"name"`
	Version     string          `json:"version"`
	Description string          `json:"description"`
	Executable  string          `json:"executable"`
	Events      []Event         `json:"events"`
	Config      json.RawMessage `json:"config,omitempty"`
}

// Subscribes reports whether the manifest lists e.
func (m *Manifest) Subscribes(e Event) bool {
	for _, ev := range m.Events {
		if ev == e {
			return true
		}
	}
	return false
}

// Request is written as JSON to a plugin's stdin.
type Request struct {
	Event      Event           `json:"event"`
	MatchID    string          `json:"match_id"`
	LeftScore  int             `json:"left_score"`
	RightScore int             `json:"right_score"`
	Scorer     string          `json:"scorer,omitempty"`
	Winner     string          `json:"winner,omitempty"`
	Config     json.RawMessage `json:"config,omitempty"`
}

// Response is read as JSON from a plugin's stdout.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Plugin is a discovered plugin with its manifest and location.
type Plugin struct {
	Manifest   Manifest
	Path       string
	Executable string
}
