// Package main provides a score log plugin. It appends one line per match
// event to a plain text file.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
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

// Config defines where the log lines go. A relative file is resolved
// against the plugin directory.
type Config struct {
	File string `json:"file"`
}

func main() {
	// Read request from stdin
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	var cfg Config
	if len(req.Config) > 0 {
		if err := json.Unmarshal(req.Config, &cfg); err != nil {
			writeErrorResponse(fmt.Sprintf("failed to parse config: %v", err))
			return
		}
	}

	line, err := formatLine(req, time.Now())
	if err != nil {
		writeErrorResponse(err.Error())
		return
	}

	if err := appendLine(cfg.File, line); err != nil {
		writeErrorResponse(fmt.Sprintf("event %s failed: %v", req.Event, err))
		return
	}

	writeSuccessResponse()
}

// formatLine renders one log line for req.
func formatLine(req Request, now time.Time) (string, error) {
	var what string
	switch req.Event {
	case "match.started":
		what = "match started"
	case "goal":
		what = fmt.Sprintf("goal %s %d-%d", req.Scorer, req.LeftScore, req.RightScore)
	case "match.finished":
		what = fmt.Sprintf("%s wins %d-%d", req.Winner, req.LeftScore, req.RightScore)
	default:
		return "", fmt.Errorf("unknown event: %s", req.Event)
	}
	return fmt.Sprintf("%s %s %s\n", now.UTC().Format(time.RFC3339), req.MatchID, what), nil
}

func appendLine(file, line string) error {
	if file == "" {
		return errors.New("file is required")
	}
	if !filepath.IsAbs(file) {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		file = filepath.Join(wd, file)
	}

	f, err := os.OpenFile(file, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(line); err != nil {
		f.Close()
		return err
	}
	return f.Close()
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
func writeSuccessResponse() {
	resp := Response{
		Success: true,
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}
