package raster

import (
	"image/color"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/rook-computer/doorcam/internal/render"
)

const defaultTextSize = 14

// textPainter caches gomono faces per size, falling back to the
// 7x13 bitmap face when the TrueType font cannot be parsed.
type textPainter struct {
	font  *truetype.Font
	faces map[float64]font.Face
}

func newTextPainter() *textPainter {
	p := &textPainter{faces: map[float64]font.Face{}}
	if tt, err := truetype.Parse(gomono.TTF); err == nil {
		p.font = tt
	}
	return p
}

func (p *textPainter) face(size float64) font.Face {
	if p.font == nil {
		return basicfont.Face7x13
	}
	f, ok := p.faces[size]
	if !ok {
		f = truetype.NewFace(p.font, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull})
		p.faces[size] = f
	}
	return f
}

// draw renders text with its baseline at (x, y) in the context's current space.
func (p *textPainter) draw(dc *gg.Context, text string, x, y float64, style render.TextStyle) {
	clr := style.Color
	if clr == nil {
		clr = color.White
	}
	size := style.Size
	if size <= 0 {
		size = defaultTextSize
	}
	dc.SetFontFace(p.face(size))
	dc.SetColor(clr)
	dc.DrawString(text, x, y)
}
