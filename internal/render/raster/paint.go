package raster

import (
	"image/color"

	"github.com/fogleman/gg"

	"github.com/rook-computer/doorcam/internal/render"
)

// pattern converts a paint into a gg pattern in surface pixels. Gradient
// geometry is mapped through the current matrix; the surface only translates
// and rotates, so radii carry over unchanged.
func (c *Canvas) pattern(p render.Paint) gg.Pattern {
	switch p := p.(type) {
	case render.Solid:
		if p.Color == nil {
			return gg.NewSolidPattern(color.Transparent)
		}
		return gg.NewSolidPattern(p.Color)
	case render.LinearGradient:
		x0, y0 := c.dc.TransformPoint(p.X0, p.Y0)
		x1, y1 := c.dc.TransformPoint(p.X1, p.Y1)
		g := gg.NewLinearGradient(x0, y0, x1, y1)
		addStops(g, p.Stops)
		return g
	case render.RadialGradient:
		x0, y0 := c.dc.TransformPoint(p.X0, p.Y0)
		x1, y1 := c.dc.TransformPoint(p.X1, p.Y1)
		g := gg.NewRadialGradient(x0, y0, p.R0, x1, y1, p.R1)
		addStops(g, p.Stops)
		return g
	default:
		return gg.NewSolidPattern(color.Transparent)
	}
}

func addStops(g gg.Gradient, stops []render.ColorStop) {
	for _, s := range stops {
		if s.Color == nil {
			continue
		}
		g.AddColorStop(s.Offset, s.Color)
	}
}

// sampleFunc reads a paint per pixel for the overlay blend. Solid paints are
// converted once.
func sampleFunc(p render.Paint, pattern gg.Pattern) func(x, y int) color.NRGBA {
	if s, ok := p.(render.Solid); ok {
		n := color.NRGBA{}
		if s.Color != nil {
			n = color.NRGBAModel.Convert(s.Color).(color.NRGBA)
		}
		return func(int, int) color.NRGBA { return n }
	}
	return func(x, y int) color.NRGBA {
		return color.NRGBAModel.Convert(pattern.ColorAt(x, y)).(color.NRGBA)
	}
}
