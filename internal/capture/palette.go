package capture

import (
	"image"
	"image/color"
)

// palette is a fixed 8x8x4 RGB cube. Index bits are rrrgggbb.
var palette = func() color.Palette {
	p := make(color.Palette, 256)
	for i := range p {
		r := (i >> 5) & 7
		g := (i >> 2) & 7
		b := i & 3
		p[i] = color.RGBA{R: uint8(r * 255 / 7), G: uint8(g * 255 / 7), B: uint8(b * 255 / 3), A: 255}
	}
	return p
}()

func paletteIndex(r, g, b uint8) uint8 {
	ri := (uint16(r)*7 + 127) / 255
	gi := (uint16(g)*7 + 127) / 255
	bi := (uint16(b)*3 + 127) / 255
	return uint8(ri<<5 | gi<<2 | bi)
}

// quantize maps src onto the fixed palette without dithering.
func quantize(src *image.RGBA) *image.Paletted {
	b := src.Bounds()
	dst := image.NewPaletted(image.Rect(0, 0, b.Dx(), b.Dy()), palette)
	for y := 0; y < b.Dy(); y++ {
		si := src.PixOffset(b.Min.X, b.Min.Y+y)
		di := y * dst.Stride
		for x := 0; x < b.Dx(); x++ {
			px := src.Pix[si : si+4 : si+4]
			dst.Pix[di+x] = paletteIndex(px[0], px[1], px[2])
			si += 4
		}
	}
	return dst
}
