package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync/atomic"
	"time"

	fb "github.com/gonutz/framebuffer"

	"github.com/rook-computer/doorcam/internal/render/layout"
)

type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

// FBPresenter copies the offscreen canvas to the Linux framebuffer after every frame.
type FBPresenter struct {
	Device string
	Logger Logger
	Debug  bool

	canvas  *image.RGBA
	fbDev   *fb.Device
	target  image.Rectangle
	running atomic.Bool
	lastLog time.Time
}

func NewFBPresenter(canvas *image.RGBA, device string) *FBPresenter {
	if device == "" {
		device = "/dev/fb0"
	}
	return &FBPresenter{Device: device, canvas: canvas}
}

func (p *FBPresenter) Start() error {
	dev, err := fb.Open(p.Device)
	if err != nil {
		return fmt.Errorf("open framebuffer %s: %w", p.Device, err)
	}
	p.fbDev = dev

	bounds := dev.Bounds()
	cb := p.canvas.Bounds()
	p.target = layout.Fit(bounds, cb.Dx(), cb.Dy())
	if p.Logger != nil {
		p.Logger.Infof("fb", "framebuffer open, bounds=%dx%d, target=%v", bounds.Dx(), bounds.Dy(), p.target)
	}

	// Letterbox bars stay black.
	draw.Draw(dev, bounds, image.Black, image.Point{}, draw.Src)
	p.running.Store(true)
	return nil
}

func (p *FBPresenter) Stop() error {
	p.running.Store(false)
	if p.fbDev != nil {
		p.fbDev.Close()
		p.fbDev = nil
	}
	return nil
}

// FrameRendered blits the canvas. It runs on the animation tick.
func (p *FBPresenter) FrameRendered(frame int) {
	if !p.running.Load() || p.fbDev == nil {
		return
	}
	blitNearest(p.fbDev, p.target, p.canvas)
	if p.Debug && p.Logger != nil && time.Since(p.lastLog) > time.Second {
		p.Logger.Infof("fb", "heartbeat frame=%d", frame)
		p.lastLog = time.Now()
	}
}

// blitNearest scales src into dst's rect r with nearest-neighbour sampling.
func blitNearest(dst draw.Image, r image.Rectangle, src *image.RGBA) {
	if r.Empty() {
		return
	}
	sb := src.Bounds()
	w, h := r.Dx(), r.Dy()
	for y := 0; y < h; y++ {
		sy := sb.Min.Y + (y*sb.Dy())/h
		for x := 0; x < w; x++ {
			sx := sb.Min.X + (x*sb.Dx())/w
			px := src.RGBAAt(sx, sy)
			dst.Set(r.Min.X+x, r.Min.Y+y, color.RGBA{R: px.R, G: px.G, B: px.B, A: 0xFF})
		}
	}
}
