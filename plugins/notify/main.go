// Package main provides a desktop notification plugin. It shows goals and
// results via notify-send on Linux and AppleScript on macOS.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Request represents the input from the plugin executor.
type Request struct {
	Event      string          `json:"event"`
	MatchID    string          `json:"match_id"`
	LeftScore  int             `json:"left_score"`
	RightScore int             `json:"right_score"`
	Scorer     string          `json:"scorer"`
	Winner     string          `json:"winner"`
	Config     json.RawMessage `json:"config"`
}

// Response represents the output to the plugin executor.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Config is the plugin's own section of plugin.json.
type Config struct {
	Title  string `json:"title"`
	DryRun bool   `json:"dry_run"`
}

// messageBuilder turns a request into a notification body.
type messageBuilder func(req Request) string

// messages maps event names to their notification text.
var messages = map[string]messageBuilder{
	"match.started": func(Request) string {
		return "Match started"
	},
	"goal": func(r Request) string {
		return fmt.Sprintf("Goal for %s! %d - %d", r.Scorer, r.LeftScore, r.RightScore)
	},
	"match.finished": func(r Request) string {
		return fmt.Sprintf("%s wins %d - %d", capitalize(r.Winner), r.LeftScore, r.RightScore)
	},
}

func main() {
	// Read request from stdin
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	cfg := Config{Title: "Air Puck"}
	if len(req.Config) > 0 {
		if err := json.Unmarshal(req.Config, &cfg); err != nil {
			writeErrorResponse(fmt.Sprintf("failed to parse config: %v", err))
			return
		}
	}

	build, ok := messages[req.Event]
	if !ok {
		writeErrorResponse(fmt.Sprintf("unknown event: %s", req.Event))
		return
	}
	body := build(req)

	if !cfg.DryRun {
		if err := notify(cfg.Title, body); err != nil {
			writeErrorResponse(fmt.Sprintf("event %s failed: %v", req.Event, err))
			return
		}
	}

	data, _ := json.Marshal(map[string]string{"message": body})
	writeSuccessResponse(data)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// notify shows a desktop notification on the current platform.
func notify(title, body string) error {
	switch runtime.GOOS {
	case "darwin":
		script := fmt.Sprintf(`display notification %q with title %q`, body, title)
		return run("osascript", "-e", script)
	case "linux":
		return run("notify-send", "--app-name=airpuck", title, body)
	default:
		return fmt.Errorf("notifications are not supported on %s", runtime.GOOS)
	}
}

// writeErrorResponse writes an error response to stdout.
func writeErrorResponse(errMsg string) {
	resp := Response{
		Success: false,
		Error:   errMsg,
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}

// writeSuccessResponse writes a success response to stdout.
func writeSuccessResponse(data json.RawMessage) {
	resp := Response{
		Success: true,
		Data:    data,
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}

// run executes a command and returns any error with its output.
func run(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}
