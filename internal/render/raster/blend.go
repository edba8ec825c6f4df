package raster

import (
	"image"
	"image/color"
)

// compositeOverlay blends the sampled paint through c.mask over r with the
// overlay blend mode followed by source-over compositing.
func (c *Canvas) compositeOverlay(r image.Rectangle, sample func(x, y int) color.NRGBA) {
	for y := 0; y < r.Dy(); y++ {
		for x := 0; x < r.Dx(); x++ {
			m := c.mask.AlphaAt(x, y).A
			if m == 0 {
				continue
			}
			px, py := r.Min.X+x, r.Min.Y+y
			c.img.SetRGBA(px, py, overlayPixel(c.img.RGBAAt(px, py), sample(px, py), float64(m)/255))
		}
	}
}

// overlayPixel composites s (straight alpha, scaled by coverage) over the
// premultiplied dst using the overlay blend function.
func overlayPixel(dst color.RGBA, s color.NRGBA, coverage float64) color.RGBA {
	as := float64(s.A) / 255 * coverage
	ab := float64(dst.A) / 255
	if as == 0 {
		return dst
	}
	channel := func(dc, sc uint8) uint8 {
		cs := float64(sc) / 255
		cb := 0.0
		if ab > 0 {
			cb = float64(dc) / 255 / ab
		}
		mix := (1-ab)*cs + ab*overlay(cb, cs)
		co := as*mix + ab*cb*(1-as)
		return toByte(co)
	}
	return color.RGBA{
		R: channel(dst.R, s.R),
		G: channel(dst.G, s.G),
		B: channel(dst.B, s.B),
		A: toByte(as + ab*(1-as)),
	}
}

func overlay(cb, cs float64) float64 {
	if cb <= 0.5 {
		return 2 * cb * cs
	}
	return 1 - 2*(1-cb)*(1-cs)
}

func toByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
