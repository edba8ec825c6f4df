package render

import (
	"math/rand"
	"time"

	"github.com/rook-computer/doorcam/internal/scene"
)

const shakeGain = 0.7

// Jitter supplies the cosmetic randomness used for sesame seeds.
// *rand.Rand satisfies it; tests substitute a fixed sequence.
type Jitter interface {
	Float64() float64
}

// SceneRenderer paints the door cam feed.
type SceneRenderer struct {
	Jitter Jitter
}

func NewSceneRenderer(jitter Jitter) *SceneRenderer {
	if jitter == nil {
		jitter = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &SceneRenderer{Jitter: jitter}
}

// Render draws background, the shaken door/burger/dog group and the camera overlay.
func (r *SceneRenderer) Render(s Surface, sc *scene.Scene, frame int) {
	w, h := s.Size()
	drawBackground(s, float64(w), float64(h))

	shake := scene.Shake(sc.NoiseSeed, float64(frame)*0.01) * shakeGain
	s.Save()
	s.Translate(shake, -shake)
	drawDoor(s, sc.Door, float64(h))
	drawBurger(s, sc.Burger, r.Jitter)
	drawDog(s, sc.Dog)
	s.Restore()

	drawOverlay(s, sc, frame, float64(w), float64(h))
}

func drawBackground(s Surface, w, h float64) {
	sky := LinearGradient{X0: 0, Y0: 0, X1: 0, Y1: h, Stops: []ColorStop{{0, SkyTop}, {1, SkyBottom}}}
	s.FillRect(0, 0, w, h, sky)
	s.FillRect(0, h*0.72, w, h*0.28, Solid{Ground})
}
