package capture

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"testing"
	"time"
)

func newTestRecorder(opts Options) (*Recorder, *image.RGBA) {
	src := image.NewRGBA(image.Rect(0, 0, 64, 36))
	for i := range src.Pix {
		src.Pix[i] = 0xff
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.UnixMilli(1700000000123) }
	}
	return NewRecorder(src, opts), src
}

func TestBeginWhileActiveIsNoop(t *testing.T) {
	r, _ := newTestRecorder(Options{})
	h1, ok := r.Begin()
	if !ok {
		t.Fatalf("expected the first Begin to start a capture")
	}
	h2, ok := r.Begin()
	if ok || h2 != h1 {
		t.Fatalf("expected a second Begin to return the active handle %d without starting, got %d %v", h1, h2, ok)
	}
}

func TestEndWithoutCapture(t *testing.T) {
	r, _ := newTestRecorder(Options{})
	if _, err := r.End(1); !errors.Is(err, ErrNoCapture) {
		t.Fatalf("expected ErrNoCapture, got %v", err)
	}
	if _, err := r.Stop(); !errors.Is(err, ErrNoCapture) {
		t.Fatalf("expected ErrNoCapture from Stop, got %v", err)
	}
}

func TestEndWithStaleHandle(t *testing.T) {
	r, _ := newTestRecorder(Options{})
	h, _ := r.Begin()
	if _, err := r.End(h + 1); !errors.Is(err, ErrHandleMismatch) {
		t.Fatalf("expected ErrHandleMismatch, got %v", err)
	}
	if _, ok := r.Active(); !ok {
		t.Errorf("expected the capture to keep running after a stale End")
	}
}

func TestFramesIgnoredWhileIdle(t *testing.T) {
	var chunks int
	r, _ := newTestRecorder(Options{OnChunk: func(Chunk) { chunks++ }})
	for f := 1; f <= 30; f++ {
		r.FrameRendered(f)
	}
	if chunks != 0 {
		t.Errorf("expected no chunks while idle, got %d", chunks)
	}
}

func TestSamplingAndManualStop(t *testing.T) {
	var chunks []Chunk
	r, _ := newTestRecorder(Options{FPS: 30, Scale: 0.5, OnChunk: func(c Chunk) { chunks = append(chunks, c) }})
	h, _ := r.Begin()
	for f := 100; f < 110; f++ {
		r.FrameRendered(f)
	}
	if len(chunks) != 5 {
		t.Fatalf("expected every second frame to be sampled, got %d chunks", len(chunks))
	}
	for i, c := range chunks {
		if c.Handle != h || c.Index != i || c.Frame != 100+2*i {
			t.Errorf("chunk %d: unexpected %+v", i, c)
		}
		if c.Image.Bounds().Dx() != 32 || c.Image.Bounds().Dy() != 18 {
			t.Errorf("chunk %d: expected a 32x18 frame, got %v", i, c.Image.Bounds())
		}
	}

	rec, err := r.End(h)
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	if rec.Frames != 5 || rec.ContentType != "image/gif" {
		t.Errorf("unexpected recording %+v", rec)
	}
	if rec.Filename != "door-cam-dog-burger-1700000000123.gif" {
		t.Errorf("unexpected filename %q", rec.Filename)
	}
	latest, ok := r.Latest()
	if !ok || latest != rec {
		t.Errorf("expected Latest to return the finished recording")
	}

	anim, err := gif.DecodeAll(bytes.NewReader(rec.Data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(anim.Image) != 5 {
		t.Fatalf("expected 5 GIF frames, got %d", len(anim.Image))
	}
	r8, g8, b8, _ := anim.Image[0].At(3, 3).RGBA()
	if r8>>8 != 255 || g8>>8 != 255 || b8>>8 != 255 {
		t.Errorf("expected a white frame, got %d %d %d", r8>>8, g8>>8, b8>>8)
	}
}

func TestAutoStopAfterWindow(t *testing.T) {
	done := make(chan *Recording, 1)
	r, _ := newTestRecorder(Options{
		Window: time.Second,
		FPS:    30,
		OnDone: func(rec *Recording, err error) {
			if err != nil {
				t.Errorf("auto-stop: %v", err)
			}
			done <- rec
		},
	})
	if _, ok := r.Begin(); !ok {
		t.Fatalf("begin failed")
	}
	for f := 1; f <= 61; f++ {
		r.FrameRendered(f)
	}
	if _, ok := r.Active(); ok {
		t.Fatalf("expected the capture to stop once the window elapsed")
	}

	select {
	case rec := <-done:
		if rec.Frames != 30 {
			t.Errorf("expected 30 frames for one second at 30 fps, got %d", rec.Frames)
		}
		if rec.Duration != time.Second {
			t.Errorf("expected a one second clip, got %v", rec.Duration)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("auto-stop never finished")
	}
	r.Wait()
	if _, ok := r.Latest(); !ok {
		t.Errorf("expected a latest recording after auto-stop")
	}
	if _, err := r.Stop(); !errors.Is(err, ErrNoCapture) {
		t.Errorf("expected Stop after auto-stop to be a no-op, got %v", err)
	}
}

func TestEmptyCaptureKeepsLatest(t *testing.T) {
	r, _ := newTestRecorder(Options{})
	h, _ := r.Begin()
	r.FrameRendered(1)
	first, err := r.End(h)
	if err != nil {
		t.Fatalf("end: %v", err)
	}

	h, _ = r.Begin()
	if _, err := r.End(h); !errors.Is(err, ErrEmptyCapture) {
		t.Fatalf("expected ErrEmptyCapture, got %v", err)
	}
	if latest, _ := r.Latest(); latest != first {
		t.Errorf("expected the earlier recording to remain the latest")
	}
}

func TestFrameDelaysSumExactly(t *testing.T) {
	delays := frameDelays(30, 30)
	sum := 0
	for _, d := range delays {
		if d < 3 || d > 4 {
			t.Fatalf("unexpected delay %d", d)
		}
		sum += d
	}
	if sum != 100 {
		t.Errorf("expected 100 centiseconds for one second, got %d", sum)
	}
}

func TestPaletteLevels(t *testing.T) {
	cases := []struct {
		index uint8
		want  color.RGBA
	}{
		{0x00, color.RGBA{0, 0, 0, 255}},
		{0xff, color.RGBA{255, 255, 255, 255}},
		{0xe0, color.RGBA{255, 0, 0, 255}},
		{0x1c, color.RGBA{0, 255, 0, 255}},
		{0x03, color.RGBA{0, 0, 255, 255}},
		{0x80, color.RGBA{145, 0, 0, 255}},
		{0x02, color.RGBA{0, 0, 170, 255}},
	}
	for _, c := range cases {
		if got := palette[c.index].(color.RGBA); got != c.want {
			t.Errorf("palette[%#02x]: expected %v, got %v", c.index, c.want, got)
		}
	}
	for i := 1; i < 8; i++ {
		lo := palette[(i-1)<<5].(color.RGBA)
		hi := palette[i<<5].(color.RGBA)
		if hi.R <= lo.R {
			t.Errorf("red level %d (%d) should be brighter than level %d (%d)", i, hi.R, i-1, lo.R)
		}
	}
}

func TestPaletteIndexRoundTrip(t *testing.T) {
	cases := []color.RGBA{
		{0, 0, 0, 255},
		{255, 255, 255, 255},
		{255, 0, 0, 255},
		{0, 0, 255, 255},
	}
	for _, c := range cases {
		got := palette[paletteIndex(c.R, c.G, c.B)].(color.RGBA)
		if got != c {
			t.Errorf("expected %v to map onto itself, got %v", c, got)
		}
	}
	mid := palette[paletteIndex(130, 130, 130)].(color.RGBA)
	if mid.R < 100 || mid.R > 160 {
		t.Errorf("expected a mid grey, got %v", mid)
	}
}
