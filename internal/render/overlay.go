package render

import (
	"image"
	"math"

	"github.com/rook-computer/doorcam/internal/render/layout"
	"github.com/rook-computer/doorcam/internal/scene"
)

const (
	hudMargin = 10
	hudWidth  = 160
	hudHeight = 70
)

// drawOverlay paints the camera effects in untranslated surface coordinates.
func drawOverlay(s Surface, sc *scene.Scene, frame int, w, h float64) {
	s.FillRect(0, 0, w, h, Solid{Tint})

	vignette := RadialGradient{
		X0: w / 2, Y0: h / 2, R0: math.Min(w, h) * 0.2,
		X1: w / 2, Y1: h / 2, R1: math.Max(w, h) * 0.7,
		Stops: []ColorStop{{0, Clear}, {1, Vignette}},
	}
	s.FillRect(0, 0, w, h, vignette)

	s.SetComposite(CompositeOverlay)
	for y := 0.0; y < h; y += ScanlineStep {
		s.FillRect(0, y, w, 1, Solid{Scanline})
	}
	s.SetComposite(CompositeSourceOver)

	bounds := image.Rect(0, 0, int(w), int(h))
	p := layout.AnchorTopLeft(layout.Inset(bounds, hudMargin), hudWidth, hudHeight)
	s.FillRect(float64(p.Min.X), float64(p.Min.Y), float64(p.Dx()), float64(p.Dy()), Solid{HUDPanel})
	s.FillText(HUDLabel, 20, 32, TextStyle{Color: HUDTitle, Size: HUDTextSize})
	s.FillText(scene.Timestamp(sc.Start, frame), 20, 56, TextStyle{Color: HUDClock, Size: HUDTextSize})

	lamp := RecLampOff
	if scene.RecLampOn(frame) {
		lamp = RecLampOn
	}
	s.FillEllipse(150, 28, 6, 6, 0, Solid{lamp})
	s.FillText("REC", 140, 56, TextStyle{Color: RecLabel, Size: HUDTextSize})

	border := layout.Inset(bounds, BorderInset)
	s.StrokeRect(float64(border.Min.X), float64(border.Min.Y), float64(border.Dx()), float64(border.Dy()), BorderWidth, FrameBorder)
}
