package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// FrameSource publishes encoded JPEG frames.
type FrameSource interface {
	SubscribeFrames() (<-chan []byte, func())
}

// StreamHandler serves the rendered table as MJPEG. A viewer can ask for
// fewer frames with ?fps=N; frames arriving sooner are skipped.
type StreamHandler struct {
	frames FrameSource
}

func NewStreamHandler(frames FrameSource) *StreamHandler {
	return &StreamHandler{frames: frames}
}

func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	gate, err := parseGate(r.URL.Query().Get("fps"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	frames, cancel := h.frames.SubscribeFrames()
	defer cancel()

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	flusher, _ := w.(http.Flusher)

	for {
		select {
		case <-r.Context().Done():
			return
		case jpeg, ok := <-frames:
			if !ok {
				return
			}
			if !gate.allow(time.Now()) {
				continue
			}
			if err := writePart(w, jpeg); err != nil {
				return
			}
			if flusher != nil {
				flusher.Flush()
			}
		}
	}
}

// frameGate lets at most one frame through per interval. A zero interval
// lets everything through.
type frameGate struct {
	interval time.Duration
	last     time.Time
}

func parseGate(fps string) (*frameGate, error) {
	if fps == "" {
		return &frameGate{}, nil
	}
	n, err := strconv.Atoi(fps)
	if err != nil || n <= 0 {
		return nil, fmt.Errorf("invalid fps %q", fps)
	}
	return &frameGate{interval: time.Second / time.Duration(n)}, nil
}

func (g *frameGate) allow(now time.Time) bool {
	if g.interval > 0 && !g.last.IsZero() && now.Sub(g.last) < g.interval {
		return false
	}
	g.last = now
	return true
}

func writePart(w http.ResponseWriter, jpeg []byte) error {
	if _, err := fmt.Fprintf(w, "--frame\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n", len(jpeg)); err != nil {
		return err
	}
	if _, err := w.Write(jpeg); err != nil {
		return err
	}
	_, err := w.Write([]byte("\r\n"))
	return err
}
