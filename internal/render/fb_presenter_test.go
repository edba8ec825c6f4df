package render

import (
	"image"
	"image/color"
	"testing"
)

func TestBlitNearestScalesIntoTarget(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 1))
	src.SetRGBA(0, 0, color.RGBA{R: 255, A: 255})
	src.SetRGBA(1, 0, color.RGBA{B: 255, A: 128})

	dst := image.NewRGBA(image.Rect(0, 0, 8, 6))
	target := image.Rect(0, 1, 8, 5)
	blitNearest(dst, target, src)

	cases := []struct {
		x, y int
		want color.RGBA
	}{
		{0, 1, color.RGBA{R: 255, A: 255}},
		{3, 4, color.RGBA{R: 255, A: 255}},
		{4, 1, color.RGBA{B: 255, A: 255}},
		{7, 4, color.RGBA{B: 255, A: 255}},
		{0, 0, color.RGBA{}},
		{7, 5, color.RGBA{}},
	}
	for _, c := range cases {
		if got := dst.RGBAAt(c.x, c.y); got != c.want {
			t.Errorf("(%d,%d): expected %v, got %v", c.x, c.y, c.want, got)
		}
	}
}

func TestFBPresenterIgnoresFramesBeforeStart(t *testing.T) {
	p := NewFBPresenter(image.NewRGBA(image.Rect(0, 0, 4, 4)), "")
	if p.Device != "/dev/fb0" {
		t.Errorf("expected the default device, got %q", p.Device)
	}
	p.FrameRendered(1)
	if err := p.Stop(); err != nil {
		t.Errorf("stop: %v", err)
	}
}
