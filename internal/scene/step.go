package scene

import (
	"math"

	"github.com/fogleman/ease"
)

const (
	NodAmplitude = 6.0
	WagAmplitude = 12.0

	MouthOffsetX   = 72.0
	MouthOffsetY   = -28.0
	NibbleDistance = 40.0
	NibbleRate     = 0.08

	MinBurgerRadius = 5.0
)

// Step advances s to the given frame. It depends only on s and frame.
func Step(s *Scene, frame int) {
	t := float64(frame) / FrameRate
	s.Dog.HeadNod = math.Sin(t*2.4)*NodAmplitude + ease.InOutCubic(math.Sin(t*0.6)*0.5+0.5)*NodAmplitude
	s.Dog.TailWag = math.Sin(t*9) * WagAmplitude

	mx, my := s.Mouth()
	if math.Hypot(mx-s.Burger.X, my-s.Burger.Y) < NibbleDistance && s.Burger.Radius > MinBurgerRadius {
		s.Burger.Radius = math.Max(MinBurgerRadius, s.Burger.Radius-NibbleRate)
	}
}

// Mouth is the point the dog eats from; it follows half of the head nod.
func (s *Scene) Mouth() (x, y float64) {
	return s.Dog.X + MouthOffsetX, s.Dog.Y + MouthOffsetY + s.Dog.HeadNod*0.5
}
