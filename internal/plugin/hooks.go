package plugin

import (
	"context"
	"log"
)

// Hooks delivers match events to every subscribed plugin.
type Hooks struct {
	manager  *Manager
	executor *Executor
}

func NewHooks(manager *Manager, executor *Executor) *Hooks {
	return &Hooks{manager: manager, executor: executor}
}

// Fire runs the subscribers of req.Event one after another and returns how
// many succeeded. Failures are logged, never returned: a broken plugin
// must not affect the match.
func (h *Hooks) Fire(ctx context.Context, req Request) int {
	var ok int
	for _, p := range h.manager.Subscribers(req.Event) {
		r := req
		resp, err := h.executor.Execute(ctx, p, &r)
		switch {
		case err != nil:
			log.Printf("[plugin] %s on %s: %v", p.Manifest.Name, req.Event, err)
		case !resp.Success:
			log.Printf("[plugin] %s on %s reported: %s", p.Manifest.Name, req.Event, resp.Error)
		default:
			ok++
		}
	}
	return ok
}
