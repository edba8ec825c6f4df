package render

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Default logical canvas, matching the 16:9 feed the HUD is laid out for.
var (
	CanvasWidth  = 960
	CanvasHeight = 540
)

const (
	HUDLabel     = "DOOR CAM 1"
	HUDTextSize  = 14
	BorderInset  = 6
	BorderWidth  = 2
	ScanlineStep = 3
)

// Palette of the door cam feed.
var (
	SkyTop      = hex("#26323a")
	SkyBottom   = hex("#101418")
	Ground      = hex("#0c1012")
	DoorFrame   = hex("#1a2024")
	DoorLight   = hex("#4a585f")
	DoorDark    = hex("#2b353a")
	DoorHandle  = hex("#b5c3c9")
	Shadow      = rgba("#000000", 0.35)
	BunBottom   = hex("#c78e49")
	Patty       = hex("#5c3a27")
	Cheese      = hex("#ffd65a")
	Lettuce     = hex("#6ec36e")
	BunTop      = hex("#d69b54")
	Sesame      = hex("#f6ead2")
	Fur         = hex("#a07e5a")
	FurDark     = hex("#8e6f50")
	Ear         = hex("#7a5c3f")
	Nose        = hex("#2b2f33")
	Eye         = hex("#1e2327")
	Tongue      = hex("#e57373")
	Tint        = rgba("#00140c", 0.18)
	Clear       = rgba("#000000", 0)
	Vignette    = rgba("#000000", 0.35)
	Scanline    = rgba("#ffffff", 0.06)
	HUDPanel    = rgba("#000000", 0.4)
	HUDTitle    = hex("#b5ffe7")
	HUDClock    = hex("#9ec6bd")
	RecLampOn   = hex("#ff4d4f")
	RecLampOff  = hex("#3a0f10")
	RecLabel    = hex("#ffb3b3")
	FrameBorder = rgba("#b5ffe7", 0.4)
)

func hex(s string) color.NRGBA {
	return rgba(s, 1)
}

func rgba(s string, alpha float64) color.NRGBA {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(alpha*255 + 0.5)}
}
