package render

import (
	"math"

	"github.com/rook-computer/doorcam/internal/scene"
)

func drawDog(s Surface, d scene.Dog) {
	x, y := d.X, d.Y

	s.FillEllipse(x, y-20, 110, 52, 0, Solid{Fur})

	legs := Solid{FurDark}
	s.FillRect(x-60, y+12, 16, 34, legs)
	s.FillRect(x-20, y+14, 16, 34, legs)
	s.FillRect(x+12, y+16, 16, 34, legs)
	s.FillRect(x+48, y+18, 16, 34, legs)

	s.Save()
	s.Translate(x-110, y-34)
	s.Rotate(d.TailWag * math.Pi / 180)
	s.FillEllipse(0, 0, 10, 46, 0.3, Solid{Fur})
	s.Restore()

	s.Save()
	s.Translate(x+86, y-48+d.HeadNod)
	s.FillEllipse(0, 0, 40, 32, 0, Solid{Fur})
	s.FillEllipse(-18, -18, 10, 18, -0.6, Solid{Ear})
	s.FillEllipse(24, 4, 20, 12, 0, Solid{FurDark})
	s.FillEllipse(38, 2, 4, 4, 0, Solid{Nose})
	s.FillEllipse(6, -6, 3, 3, 0, Solid{Eye})
	s.FillEllipse(28, 12, 6, 10, 0.2, Solid{Tongue})
	s.Restore()
}
