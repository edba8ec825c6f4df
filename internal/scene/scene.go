package scene

import (
	"math"
	"math/rand"
	"time"
)

// FrameRate is the nominal tick cadence baked into every phase formula.
const FrameRate = 60

type Dog struct {
	X, Y    float64
	HeadNod float64
	TailWag float64 // degrees
}

type Burger struct {
	X, Y   float64
	Radius float64
}

type Door struct {
	X     float64
	Width float64
}

// Scene is the mutable animation record for one mounted surface.
// Width and Height are fixed when the scene is created.
type Scene struct {
	Start     time.Time
	NoiseSeed float64
	Width     int
	Height    int

	Dog    Dog
	Burger Burger
	Door   Door
}

// New lays out a scene for a width x height surface.
// The camera noise seed is the only value drawn from rng.
func New(width, height int, start time.Time, rng *rand.Rand) *Scene {
	w := float64(width)
	h := float64(height)
	seed := 0.0
	if rng != nil {
		seed = rng.Float64() * 1000
	}
	return &Scene{
		Start:     start,
		NoiseSeed: seed,
		Width:     width,
		Height:    height,
		Dog:       Dog{X: w * 0.55, Y: h * 0.68},
		Burger: Burger{
			X:      w * 0.64,
			Y:      h * 0.74,
			Radius: math.Max(10, math.Min(w, h)*0.035),
		},
		Door: Door{X: w * 0.18, Width: w * 0.16},
	}
}

// Clone returns an independent copy, handy for replaying a trajectory.
func (s *Scene) Clone() *Scene {
	c := *s
	return &c
}
