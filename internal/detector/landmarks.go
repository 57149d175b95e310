// Package detector finds hands in camera frames and exposes their 21
// MediaPipe landmarks.
package detector

import "math"

// Hand landmark indices following MediaPipe convention.
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Finger names the four non-thumb fingers.
type Finger int

const (
	Index Finger = iota
	Middle
	Ring
	Pinky
)

var fingerJoints = [...]struct{ pip, tip int }{
	Index:  {IndexPIP, IndexTip},
	Middle: {MiddlePIP, MiddleTip},
	Ring:   {RingPIP, RingTip},
	Pinky:  {PinkyPIP, PinkyTip},
}

// ThumbStraightAngle is the smallest MCP-IP-tip angle, in degrees, at
// which the thumb counts as straight.
const ThumbStraightAngle = 150.0

// Point3D is a landmark in normalised image coordinates: x and y in [0, 1]
// from the top-left corner, z relative depth.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks is one detected hand.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// Fingertip returns the index fingertip, the point that steers a paddle.
func (h *HandLandmarks) Fingertip() Point3D {
	return h.Points[IndexTip]
}

// FingerExtended reports whether f points up: its tip is above its PIP
// joint in the image.
func (h *HandLandmarks) FingerExtended(f Finger) bool {
	if f < Index || f > Pinky {
		return false
	}
	j := fingerJoints[f]
	return h.Points[j.tip].Y < h.Points[j.pip].Y
}

// ThumbExtended reports whether the thumb is raised and straight.
func (h *HandLandmarks) ThumbExtended() bool {
	mcp, ip, tip := h.Points[ThumbMCP], h.Points[ThumbIP], h.Points[ThumbTip]
	if tip.Y >= ip.Y {
		return false
	}
	return jointAngle(mcp, ip, tip) > ThumbStraightAngle
}

// jointAngle returns the angle at b between a and c in degrees, using the
// image plane only.
func jointAngle(a, b, c Point3D) float64 {
	v1x, v1y := a.X-b.X, a.Y-b.Y
	v2x, v2y := c.X-b.X, c.Y-b.Y
	n := math.Hypot(v1x, v1y) * math.Hypot(v2x, v2y)
	if n == 0 {
		return 0
	}
	cos := (v1x*v2x + v1y*v2y) / n
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi
}

// Normalize returns a copy translated so the wrist is at the origin and
// scaled so the wrist to middle MCP distance is 1.
func (h *HandLandmarks) Normalize() *HandLandmarks {
	if h == nil {
		return nil
	}

	out := &HandLandmarks{Handedness: h.Handedness, Score: h.Score}
	wrist := h.Points[Wrist]
	for i, p := range h.Points {
		out.Points[i] = Point3D{X: p.X - wrist.X, Y: p.Y - wrist.Y, Z: p.Z - wrist.Z}
	}

	m := out.Points[MiddleMCP]
	scale := math.Sqrt(m.X*m.X + m.Y*m.Y + m.Z*m.Z)
	if scale < 1e-10 {
		return out
	}
	for i := range out.Points {
		out.Points[i].X /= scale
		out.Points[i].Y /= scale
		out.Points[i].Z /= scale
	}
	return out
}

// Translate returns a copy moved by (dx, dy).
func (h HandLandmarks) Translate(dx, dy float64) HandLandmarks {
	for i := range h.Points {
		h.Points[i].X += dx
		h.Points[i].Y += dy
	}
	return h
}
