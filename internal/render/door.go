package render

import "github.com/rook-computer/doorcam/internal/scene"

func drawDoor(s Surface, d scene.Door, h float64) {
	top := h * 0.22
	height := h * 0.58
	s.FillRect(d.X-6, top-6, d.Width+12, height+12, Solid{DoorFrame})

	panel := LinearGradient{X0: d.X, Y0: 0, X1: d.X + d.Width, Y1: 0, Stops: []ColorStop{{0, DoorLight}, {1, DoorDark}}}
	s.FillRect(d.X, top, d.Width, height, panel)

	s.FillRect(d.X+d.Width-16, h*0.52, 6, 18, Solid{DoorHandle})
}
