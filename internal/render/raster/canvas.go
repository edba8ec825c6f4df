// Package raster is a software render.Surface over an offscreen *image.RGBA.
package raster

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/vector"

	"github.com/rook-computer/doorcam/internal/render"
)

// kappa places cubic control points so four curves approximate a circle.
const kappa = 0.5522847498307936

// Canvas implements render.Surface on a gg context. It is not safe for
// concurrent use.
type Canvas struct {
	img  *image.RGBA
	dc   *gg.Context
	text *textPainter

	op  render.CompositeOp
	ops []render.CompositeOp

	// overlay fills are masked with vector, gg only composites source-over
	ras  *vector.Rasterizer
	mask *image.Alpha
	// current path in surface pixels, mirrored for overlay fills
	path []pathOp
}

type pathOp struct {
	kind   byte // 'M', 'L', 'C'
	points [3]render.Point
}

func New(width, height int) *Canvas {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	return &Canvas{
		img:  img,
		dc:   gg.NewContextForRGBA(img),
		text: newTextPainter(),
		ras:  vector.NewRasterizer(0, 0),
	}
}

// Image exposes the backing pixels; callers must not hold it across frames
// while another goroutine draws.
func (c *Canvas) Image() *image.RGBA { return c.img }

// Size is zero for a nil canvas so a missing surface is reported, not dereferenced.
func (c *Canvas) Size() (int, int) {
	if c == nil || c.img == nil {
		return 0, 0
	}
	b := c.img.Bounds()
	return b.Dx(), b.Dy()
}

func (c *Canvas) Save() {
	c.dc.Push()
	c.ops = append(c.ops, c.op)
}

// Restore pops the last saved state; an unbalanced Restore is ignored.
func (c *Canvas) Restore() {
	if len(c.ops) == 0 {
		return
	}
	c.dc.Pop()
	c.op = c.ops[len(c.ops)-1]
	c.ops = c.ops[:len(c.ops)-1]
}

func (c *Canvas) Translate(dx, dy float64) { c.dc.Translate(dx, dy) }
func (c *Canvas) Rotate(angle float64)     { c.dc.Rotate(angle) }

func (c *Canvas) SetComposite(op render.CompositeOp) { c.op = op }

// Clear fills the whole canvas with clr, ignoring the current transform.
func (c *Canvas) Clear(clr color.Color) {
	c.dc.Push()
	c.dc.SetColor(clr)
	c.dc.Clear()
	c.dc.Pop()
}

func (c *Canvas) FillRect(x, y, width, height float64, paint render.Paint) {
	if width <= 0 || height <= 0 {
		return
	}
	c.beginPath()
	c.moveTo(x, y)
	c.lineTo(x+width, y)
	c.lineTo(x+width, y+height)
	c.lineTo(x, y+height)
	c.fill(paint)
}

func (c *Canvas) StrokeRect(x, y, width, height, lineWidth float64, clr color.Color) {
	if lineWidth <= 0 {
		return
	}
	h := lineWidth / 2
	c.beginPath()
	// outer edge clockwise, inner edge counter-clockwise to punch the hole
	c.moveTo(x-h, y-h)
	c.lineTo(x+width+h, y-h)
	c.lineTo(x+width+h, y+height+h)
	c.lineTo(x-h, y+height+h)
	if width > lineWidth && height > lineWidth {
		c.moveTo(x+h, y+h)
		c.lineTo(x+h, y+height-h)
		c.lineTo(x+width-h, y+height-h)
		c.lineTo(x+width-h, y+h)
	}
	c.fill(render.Solid{Color: clr})
}

// FillEllipse builds the outline in the caller's space so gradients stay
// anchored there rather than to the rotated ellipse.
func (c *Canvas) FillEllipse(cx, cy, rx, ry, rotation float64, paint render.Paint) {
	if rx <= 0 || ry <= 0 {
		return
	}
	sin, cos := math.Sincos(rotation)
	at := func(lx, ly float64) (float64, float64) {
		return cx + lx*cos - ly*sin, cy + lx*sin + ly*cos
	}
	kx, ky := rx*kappa, ry*kappa
	quarters := [4][3][2]float64{
		{{rx, ky}, {kx, ry}, {0, ry}},
		{{-kx, ry}, {-rx, ky}, {-rx, 0}},
		{{-rx, -ky}, {-kx, -ry}, {0, -ry}},
		{{kx, -ry}, {rx, -ky}, {rx, 0}},
	}
	c.beginPath()
	c.moveTo(at(rx, 0))
	for _, q := range quarters {
		x1, y1 := at(q[0][0], q[0][1])
		x2, y2 := at(q[1][0], q[1][1])
		x3, y3 := at(q[2][0], q[2][1])
		c.cubeTo(x1, y1, x2, y2, x3, y3)
	}
	c.fill(paint)
}

func (c *Canvas) FillPolygon(points []render.Point, paint render.Paint) {
	if len(points) < 3 {
		return
	}
	c.beginPath()
	c.moveTo(points[0].X, points[0].Y)
	for _, p := range points[1:] {
		c.lineTo(p.X, p.Y)
	}
	c.fill(paint)
}

func (c *Canvas) FillText(text string, x, y float64, style render.TextStyle) {
	c.text.draw(c.dc, text, x, y, style)
}

func (c *Canvas) beginPath() {
	c.dc.ClearPath()
	c.path = c.path[:0]
}

func (c *Canvas) moveTo(x, y float64) {
	if len(c.path) > 0 {
		c.dc.ClosePath()
	}
	c.dc.MoveTo(x, y)
	c.path = append(c.path, pathOp{kind: 'M', points: [3]render.Point{c.pt(x, y)}})
}

func (c *Canvas) lineTo(x, y float64) {
	c.dc.LineTo(x, y)
	c.path = append(c.path, pathOp{kind: 'L', points: [3]render.Point{c.pt(x, y)}})
}

func (c *Canvas) cubeTo(x1, y1, x2, y2, x3, y3 float64) {
	c.dc.CubicTo(x1, y1, x2, y2, x3, y3)
	c.path = append(c.path, pathOp{kind: 'C', points: [3]render.Point{c.pt(x1, y1), c.pt(x2, y2), c.pt(x3, y3)}})
}

func (c *Canvas) pt(x, y float64) render.Point {
	px, py := c.dc.TransformPoint(x, y)
	return render.Point{X: px, Y: py}
}

// fill paints the current path. Source-over goes straight through gg;
// overlay rasterizes a coverage mask and blends per pixel.
func (c *Canvas) fill(paint render.Paint) {
	c.dc.ClosePath()
	pattern := c.pattern(paint)
	if c.op != render.CompositeOverlay {
		c.dc.SetFillStyle(pattern)
		c.dc.Fill()
		c.path = c.path[:0]
		return
	}
	r := c.pathBounds()
	if !r.Empty() {
		c.rasterizeMask(r)
		c.compositeOverlay(r, sampleFunc(paint, pattern))
	}
	c.beginPath()
}

// pathBounds is the pixel box holding every path point (control points included),
// clipped to the canvas.
func (c *Canvas) pathBounds() image.Rectangle {
	if len(c.path) == 0 {
		return image.Rectangle{}
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, op := range c.path {
		n := 1
		if op.kind == 'C' {
			n = 3
		}
		for _, p := range op.points[:n] {
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		}
	}
	r := image.Rect(int(math.Floor(minX)), int(math.Floor(minY)), int(math.Ceil(maxX)), int(math.Ceil(maxY)))
	return r.Intersect(c.img.Bounds())
}

// rasterizeMask writes the path coverage inside r into c.mask at the origin.
func (c *Canvas) rasterizeMask(r image.Rectangle) {
	ox, oy := float64(r.Min.X), float64(r.Min.Y)
	c.ras.Reset(r.Dx(), r.Dy())
	for i, op := range c.path {
		p := op.points
		switch op.kind {
		case 'M':
			if i > 0 {
				c.ras.ClosePath()
			}
			c.ras.MoveTo(float32(p[0].X-ox), float32(p[0].Y-oy))
		case 'L':
			c.ras.LineTo(float32(p[0].X-ox), float32(p[0].Y-oy))
		case 'C':
			c.ras.CubeTo(
				float32(p[0].X-ox), float32(p[0].Y-oy),
				float32(p[1].X-ox), float32(p[1].Y-oy),
				float32(p[2].X-ox), float32(p[2].Y-oy))
		}
	}
	c.ras.ClosePath()

	if c.mask == nil || c.mask.Bounds().Dx() < r.Dx() || c.mask.Bounds().Dy() < r.Dy() {
		c.mask = image.NewAlpha(image.Rect(0, 0, max(r.Dx(), 1), max(r.Dy(), 1)))
	}
	c.ras.DrawOp = draw.Src
	c.ras.Draw(c.mask, image.Rect(0, 0, r.Dx(), r.Dy()), image.Opaque, image.Point{})
}
