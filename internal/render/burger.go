package render

import (
	"math"

	"github.com/rook-computer/doorcam/internal/scene"
)

const (
	lettuceSamples = 10
	sesameSeeds    = 12
)

func drawBurger(s Surface, b scene.Burger, jitter Jitter) {
	x, y, r := b.X, b.Y, b.Radius

	s.FillEllipse(x, y+r*0.9, r*1.3, r*0.45, 0, Solid{Shadow})
	s.FillEllipse(x, y, r*1.3, r*0.55, 0, Solid{BunBottom})
	s.FillRect(x-r*1.05, y-r*0.15, r*2.1, r*0.35, Solid{Patty})
	s.FillRect(x-r*0.95, y-r*0.35, r*1.9, r*0.25, Solid{Cheese})
	s.FillPolygon(lettuceEdge(x, y, r), Solid{Lettuce})
	s.FillEllipse(x, y-r*0.35, r*1.2, r*0.6, 0, Solid{BunTop})

	for i := 0; i < sesameSeeds; i++ {
		a := float64(i) / sesameSeeds * 2 * math.Pi
		sx := x + math.Cos(a)*r*0.6*(0.6+jitter.Float64()*0.2)
		sy := y - r*0.35 + math.Sin(a)*r*0.2*(0.4+jitter.Float64()*0.2)
		s.FillEllipse(sx, sy, 2, 1.2, a, Solid{Sesame})
	}
}

// lettuceEdge traces a wavy strip sampled from a sine along the top of the patty.
func lettuceEdge(x, y, r float64) []Point {
	pts := make([]Point, 0, lettuceSamples+3)
	pts = append(pts, Point{x - r, y - r*0.35})
	for i := 0; i <= lettuceSamples; i++ {
		px := x - r + float64(i)/lettuceSamples*r*2
		py := y - r*0.45 + math.Sin(float64(i)*0.9)*(r*0.08)
		pts = append(pts, Point{px, py})
	}
	return append(pts, Point{x + r, y - r*0.2})
}
