package plugin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds a plugin run when none is configured.
const DefaultTimeout = 5 * time.Second

// Environment variables set for every plugin run, next to the JSON request
// on stdin. Shell one-liners can react to an event without parsing JSON.
const (
	EnvEvent   = "AIRPUCK_EVENT"
	EnvMatchID = "AIRPUCK_MATCH_ID"
	EnvScore   = "AIRPUCK_SCORE"
)

// Executor runs hook executables for match events.
type Executor struct {
	timeout time.Duration
}

func NewExecutor(timeout time.Duration) *Executor {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Executor{timeout: timeout}
}

// Execute runs plugin with req on stdin and parses its stdout as a
// Response. The plugin's own manifest config is sent unless req carries
// one. A plugin that prints nothing is treated as a success.
func (e *Executor) Execute(ctx context.Context, plugin *Plugin, req *Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	if req.Config == nil {
		req.Config = plugin.Manifest.Config
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode %s request: %w", req.Event, err)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, plugin.Executable)
	cmd.Dir = plugin.Path
	cmd.Env = append(os.Environ(), requestEnv(req)...)
	cmd.Stdin = bytes.NewReader(payload)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	name := plugin.Manifest.Name

	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return nil, fmt.Errorf("plugin %s timed out after %v", name, e.timeout)
	case runErr != nil:
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("plugin %s failed: %w, stderr: %s", name, runErr, msg)
		}
		return nil, fmt.Errorf("plugin %s failed: %w", name, runErr)
	}

	if msg := strings.TrimSpace(stderr.String()); msg != "" {
		log.Printf("[plugin] %s: %s", name, msg)
	}

	out := bytes.TrimSpace(stdout.Bytes())
	if len(out) == 0 {
		return &Response{Success: true}, nil
	}
	var resp Response
	if err := json.Unmarshal(out, &resp); err != nil {
		return nil, fmt.Errorf("plugin %s: bad response %q: %w", name, out, err)
	}
	return &resp, nil
}

func requestEnv(req *Request) []string {
	return []string{
		EnvEvent + "=" + string(req.Event),
		EnvMatchID + "=" + req.MatchID,
		fmt.Sprintf("%s=%d-%d", EnvScore, req.LeftScore, req.RightScore),
	}
}
