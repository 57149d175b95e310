// Package render draws match snapshots with OpenCV.
package render

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ayusman/airpuck/internal/hockey"
	"github.com/ayusman/airpuck/internal/input"
)

var (
	colorFelt      = color.RGBA{90, 40, 40, 0}
	colorGrid      = color.RGBA{120, 60, 60, 0}
	colorLine      = color.RGBA{200, 200, 200, 0}
	colorGoal      = color.RGBA{150, 80, 80, 0}
	colorWhite     = color.RGBA{255, 255, 255, 0}
	colorTrail     = color.RGBA{100, 100, 200, 0}
	colorPuckHalo  = color.RGBA{200, 200, 255, 0}
	colorPuck      = color.RGBA{50, 50, 255, 0}
	colorLeft      = color.RGBA{0, 255, 0, 0}
	colorRight     = color.RGBA{255, 0, 0, 0}
	colorCap       = color.RGBA{200, 200, 200, 0}
	colorBanner    = color.RGBA{0, 255, 255, 0}
	colorButton    = color.RGBA{50, 150, 50, 0}
	colorButtonRim = color.RGBA{0, 255, 0, 0}
	colorHint      = color.RGBA{200, 200, 200, 0}
	colorTip       = color.RGBA{255, 255, 0, 0}
	colorBlack     = color.RGBA{0, 0, 0, 0}
)

const (
	font       = gocv.FontHersheySimplex
	gridStep   = 4
	centerRing = 70
	dimAlpha   = 0.3
)

// Renderer draws the table. The static felt is drawn once and copied
// for every frame. A Renderer is not safe for concurrent use.
type Renderer struct {
	table  hockey.Table
	button input.StartButton
	felt   gocv.Mat
	shade  gocv.Mat
}

func NewRenderer(table hockey.Table, button input.StartButton) *Renderer {
	w, h := int(table.Width), int(table.Height)
	r := &Renderer{
		table:  table,
		button: button,
		felt:   gocv.NewMatWithSizeFromScalar(scalar(colorFelt), h, w, gocv.MatTypeCV8UC3),
		shade:  gocv.NewMatWithSizeFromScalar(scalar(colorBlack), h, w, gocv.MatTypeCV8UC3),
	}
	r.drawFelt()
	return r
}

func (r *Renderer) Close() {
	r.felt.Close()
	r.shade.Close()
}

func (r *Renderer) drawFelt() {
	w, h := r.felt.Cols(), r.felt.Rows()
	for x := 0; x < w; x += gridStep {
		gocv.Line(&r.felt, image.Pt(x, 0), image.Pt(x, h), colorGrid, 1)
	}
	for y := 0; y < h; y += gridStep {
		gocv.Line(&r.felt, image.Pt(0, y), image.Pt(w, y), colorGrid, 1)
	}

	gocv.Line(&r.felt, image.Pt(w/2, 0), image.Pt(w/2, h), colorLine, 3)
	gocv.Circle(&r.felt, image.Pt(w/2, h/2), centerRing, colorLine, 3)

	top, bottom := r.table.GoalBand()
	depth := int(r.table.GoalDepth)
	for _, goal := range []image.Rectangle{
		image.Rect(0, int(top), depth, int(bottom)),
		image.Rect(w-depth, int(top), w, int(bottom)),
	} {
		gocv.Rectangle(&r.felt, goal, colorGoal, -1)
		gocv.Rectangle(&r.felt, goal, colorWhite, 2)
	}
}

// Table draws s and returns a new table-sized Mat. The caller closes it.
func (r *Renderer) Table(s hockey.Snapshot) gocv.Mat {
	img := r.felt.Clone()

	r.drawTrail(&img, s.Puck.Trail)

	puck := point(s.Puck.Pos)
	pr := int(r.table.PuckRadius)
	gocv.Circle(&img, puck, pr+2, colorPuckHalo, -1)
	gocv.Circle(&img, puck, pr, colorPuck, -1)
	gocv.Circle(&img, puck, pr/2, colorWhite, -1)

	r.drawPaddle(&img, s.Left, colorLeft)
	r.drawPaddle(&img, s.Right, colorRight)

	r.drawScores(&img, s.Scores)

	switch s.State {
	case hockey.NotStarted:
		r.drawStartScreen(&img)
	case hockey.Finished:
		r.drawGameOver(&img, s.Winner)
	}
	return img
}

// drawTrail fades the trail from nothing at the oldest point to a full
// puck at the newest.
func (r *Renderer) drawTrail(img *gocv.Mat, trail []hockey.Vec) {
	for i, p := range trail {
		size := int(r.table.PuckRadius * float64(i) / float64(len(trail)))
		if size > 0 {
			gocv.Circle(img, point(p), size, colorTrail, -1)
		}
	}
}

func (r *Renderer) drawPaddle(img *gocv.Mat, pos hockey.Vec, c color.RGBA) {
	p := point(pos)
	radius := int(r.table.PaddleRadius)
	gocv.Circle(img, p, radius+3, colorWhite, -1)
	gocv.Circle(img, p, radius, c, -1)
	gocv.Circle(img, p, radius/2, colorCap, -1)
}

func (r *Renderer) drawScores(img *gocv.Mat, sc hockey.Scores) {
	w := img.Cols()
	gocv.PutText(img, fmt.Sprintf("%s: %d", hockey.SideLeft, sc.Left), image.Pt(w/4-80, 40), font, 1.2, colorLeft, 3)
	gocv.PutText(img, fmt.Sprintf("%s: %d", hockey.SideRight, sc.Right), image.Pt(3*w/4-80, 40), font, 1.2, colorRight, 3)
	centerText(img, fmt.Sprintf("%d - %d", sc.Left, sc.Right), 40, 1, colorWhite, 2)
}

func (r *Renderer) dim(img *gocv.Mat) {
	gocv.AddWeighted(r.shade, 1-dimAlpha, *img, dimAlpha, 0, img)
}

func (r *Renderer) drawStartScreen(img *gocv.Mat) {
	r.dim(img)

	centerText(img, "AIR HOCKEY", 120, 2, colorWhite, 4)

	b := image.Rectangle{Min: point(r.button.Min), Max: point(r.button.Max)}
	gocv.Rectangle(img, b, colorButton, -1)
	gocv.Rectangle(img, b, colorButtonRim, 3)
	centerText(img, "START GAME", (b.Min.Y+b.Max.Y)/2+12, 1.2, colorWhite, 3)

	centerText(img, "Hold a fingertip on the button or show a thumbs up", b.Max.Y+60, 0.7, colorHint, 2)
	centerText(img, "Use index fingers to control paddles", b.Max.Y+100, 0.7, colorHint, 2)
}

func (r *Renderer) drawGameOver(img *gocv.Mat, winner hockey.Side) {
	r.dim(img)

	h := img.Rows()
	centerText(img, fmt.Sprintf("%s WINS!", winner), h/2-30, 2, colorBanner, 4)
	centerText(img, "Show two open palms to restart", h/2+40, 1, colorBanner, 2)
}

// Fingertips marks the tips on a camera frame. Tip positions are in table
// coordinates and are scaled to the frame.
func (r *Renderer) Fingertips(frame *gocv.Mat, tips []input.Fingertip) {
	for _, tip := range tips {
		p := Scale(tip.Pos, r.table, frame.Cols(), frame.Rows())
		gocv.Circle(frame, p, 12, colorTip, -1)
		gocv.Circle(frame, p, 6, colorBlack, -1)
	}
}

// Scale maps a table coordinate onto an image of w by h pixels.
func Scale(p hockey.Vec, table hockey.Table, w, h int) image.Point {
	return image.Pt(
		int(p.X*float64(w)/table.Width),
		int(p.Y*float64(h)/table.Height),
	)
}

// Compose stretches table to the width of frame and stacks it above the
// frame. The caller closes the result. An empty frame yields a copy of
// the table alone.
func Compose(table, frame gocv.Mat) gocv.Mat {
	if frame.Empty() {
		return table.Clone()
	}

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(table, &resized, image.Pt(frame.Cols(), table.Rows()), 0, 0, gocv.InterpolationLinear)

	out := gocv.NewMat()
	gocv.Vconcat(resized, frame, &out)
	return out
}

// EncodeJPEG encodes img for streaming.
func EncodeJPEG(img gocv.Mat) ([]byte, error) {
	buf, err := gocv.IMEncode(gocv.JPEGFileExt, img)
	if err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	defer buf.Close()

	return append([]byte(nil), buf.GetBytes()...), nil
}

func centerText(img *gocv.Mat, text string, y int, scale float64, c color.RGBA, thickness int) {
	size := gocv.GetTextSize(text, font, scale, thickness)
	gocv.PutText(img, text, image.Pt((img.Cols()-size.X)/2, y), font, scale, c, thickness)
}

func point(v hockey.Vec) image.Point {
	return image.Pt(int(v.X), int(v.Y))
}

func scalar(c color.RGBA) gocv.Scalar {
	return gocv.NewScalar(float64(c.B), float64(c.G), float64(c.R), 0)
}
