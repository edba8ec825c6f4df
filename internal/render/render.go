package render

import (
	"image/color"

	"github.com/rook-computer/doorcam/internal/scene"
)

// Renderer draws one frame of a scene. It must not mutate the scene.
type Renderer interface {
	Render(surface Surface, sc *scene.Scene, frame int)
}

// Surface is the immediate-mode drawing target the renderer issues calls to.
// Coordinates are in surface pixels transformed by the current matrix;
// Save and Restore push and pop the matrix and composite mode.
type Surface interface {
	// Size returns the pixel size of the surface.
	Size() (width int, height int)

	Save()
	Restore()
	Translate(dx, dy float64)
	// Rotate rotates the current matrix by angle radians.
	Rotate(angle float64)
	SetComposite(op CompositeOp)

	FillRect(x, y, width, height float64, paint Paint)
	StrokeRect(x, y, width, height, lineWidth float64, clr color.Color)
	// FillEllipse fills an ellipse centred at (cx, cy) with radii (rx, ry)
	// rotated by rotation radians around its centre.
	FillEllipse(cx, cy, rx, ry, rotation float64, paint Paint)
	FillPolygon(points []Point, paint Paint)
	// FillText draws text with its baseline starting at (x, y).
	FillText(text string, x, y float64, style TextStyle)
}

type CompositeOp int

const (
	CompositeSourceOver CompositeOp = iota
	CompositeOverlay
)

func (op CompositeOp) String() string {
	switch op {
	case CompositeOverlay:
		return "overlay"
	default:
		return "source-over"
	}
}

type Point struct {
	X, Y float64
}

// Paint is a fill source: Solid, LinearGradient or RadialGradient.
type Paint interface {
	isPaint()
}

type Solid struct {
	Color color.Color
}

// ColorStop places a colour at Offset in [0, 1] along a gradient.
type ColorStop struct {
	Offset float64
	Color  color.Color
}

type LinearGradient struct {
	X0, Y0, X1, Y1 float64
	Stops          []ColorStop
}

// RadialGradient interpolates between the circle (X0, Y0, R0) and (X1, Y1, R1).
type RadialGradient struct {
	X0, Y0, R0 float64
	X1, Y1, R1 float64
	Stops      []ColorStop
}

func (Solid) isPaint()          {}
func (LinearGradient) isPaint() {}
func (RadialGradient) isPaint() {}

// TextStyle describes how to render text.
type TextStyle struct {
	Color color.Color
	Size  float64 // pixels; 0 means surface default
}
