package capture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"math"
	"sync"
	"time"

	xdraw "golang.org/x/image/draw"

	"github.com/rook-computer/doorcam/internal/scene"
)

const ContentType = "image/gif"

var (
	ErrNoCapture      = errors.New("capture: no capture in progress")
	ErrHandleMismatch = errors.New("capture: handle does not belong to the active capture")
	ErrEmptyCapture   = errors.New("capture: no frames were captured")
)

// Handle identifies one capture session.
type Handle uint64

// Chunk is one captured frame, emitted while a capture is running.
type Chunk struct {
	Handle Handle
	Index  int
	Frame  int
	Image  *image.Paletted
}

// Recording is a finished clip. It lives in memory only.
type Recording struct {
	Filename    string
	ContentType string
	Data        []byte
	Frames      int
	Duration    time.Duration
	CreatedAt   time.Time
}

type Options struct {
	Window   time.Duration
	FPS      int
	Scale    float64
	Now      func() time.Time
	Filename func(time.Time) string
	OnChunk  func(Chunk)
	OnDone   func(*Recording, error)
}

func DefaultFilename(t time.Time) string {
	return fmt.Sprintf("door-cam-dog-burger-%d.gif", t.UnixMilli())
}

func (o *Options) defaults() {
	if o.Window <= 0 {
		o.Window = 6 * time.Second
	}
	if o.FPS <= 0 || o.FPS > scene.FrameRate {
		o.FPS = 30
	}
	if o.Scale <= 0 || o.Scale > 1 {
		o.Scale = 0.5
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Filename == nil {
		o.Filename = DefaultFilename
	}
}

type session struct {
	handle     Handle
	startedAt  time.Time
	firstFrame int
	images     []*image.Paletted
}

// Recorder taps a canvas after each rendered frame and assembles a GIF clip.
type Recorder struct {
	src  *image.RGBA
	opts Options

	step         int
	windowFrames int
	scaled       *image.RGBA

	mu      sync.Mutex
	next    Handle
	active  *session
	latest  *Recording
	pending sync.WaitGroup
}

func NewRecorder(src *image.RGBA, opts Options) *Recorder {
	opts.defaults()
	b := src.Bounds()
	w := int(math.Max(1, math.Round(float64(b.Dx())*opts.Scale)))
	h := int(math.Max(1, math.Round(float64(b.Dy())*opts.Scale)))
	return &Recorder{
		src:          src,
		opts:         opts,
		step:         int(math.Max(1, math.Round(float64(scene.FrameRate)/float64(opts.FPS)))),
		windowFrames: int(opts.Window.Seconds() * scene.FrameRate),
		scaled:       image.NewRGBA(image.Rect(0, 0, w, h)),
	}
}

// Begin starts a capture. If one is already running its handle is returned with false.
func (r *Recorder) Begin() (Handle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active != nil {
		return r.active.handle, false
	}
	r.next++
	r.active = &session{handle: r.next, startedAt: r.opts.Now(), firstFrame: -1}
	return r.next, true
}

// Active reports the running capture, if any.
func (r *Recorder) Active() (Handle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active == nil {
		return 0, false
	}
	return r.active.handle, true
}

// End stops the capture identified by h and assembles its clip.
func (r *Recorder) End(h Handle) (*Recording, error) {
	r.mu.Lock()
	s := r.active
	if s == nil {
		r.mu.Unlock()
		return nil, ErrNoCapture
	}
	if s.handle != h {
		r.mu.Unlock()
		return nil, ErrHandleMismatch
	}
	r.active = nil
	r.pending.Add(1)
	r.mu.Unlock()

	return r.finish(s)
}

// Stop ends whatever capture is running.
func (r *Recorder) Stop() (*Recording, error) {
	h, ok := r.Active()
	if !ok {
		return nil, ErrNoCapture
	}
	rec, err := r.End(h)
	if errors.Is(err, ErrHandleMismatch) {
		// Auto-stop raced us and a new capture already began.
		return nil, ErrNoCapture
	}
	return rec, err
}

func (r *Recorder) Latest() (*Recording, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.latest, r.latest != nil
}

// Wait blocks until clips being assembled in the background are done.
func (r *Recorder) Wait() {
	r.pending.Wait()
}

// FrameRendered samples the canvas while a capture is running.
func (r *Recorder) FrameRendered(frame int) {
	r.mu.Lock()
	s := r.active
	if s == nil {
		r.mu.Unlock()
		return
	}
	if s.firstFrame < 0 {
		s.firstFrame = frame
	}
	elapsed := frame - s.firstFrame
	if elapsed >= r.windowFrames {
		r.active = nil
		r.pending.Add(1)
		r.mu.Unlock()
		go func() { _, _ = r.finish(s) }()
		return
	}
	if elapsed%r.step != 0 {
		r.mu.Unlock()
		return
	}

	xdraw.ApproxBiLinear.Scale(r.scaled, r.scaled.Bounds(), r.src, r.src.Bounds(), xdraw.Src, nil)
	img := quantize(r.scaled)
	s.images = append(s.images, img)
	chunk := Chunk{Handle: s.handle, Index: len(s.images) - 1, Frame: frame, Image: img}
	r.mu.Unlock()

	if r.opts.OnChunk != nil {
		r.opts.OnChunk(chunk)
	}
}

func (r *Recorder) finish(s *session) (*Recording, error) {
	defer r.pending.Done()
	rec, err := r.encode(s)
	if err == nil {
		r.mu.Lock()
		r.latest = rec
		r.mu.Unlock()
	}
	if r.opts.OnDone != nil {
		r.opts.OnDone(rec, err)
	}
	return rec, err
}

func (r *Recorder) encode(s *session) (*Recording, error) {
	if len(s.images) == 0 {
		return nil, ErrEmptyCapture
	}
	anim := &gif.GIF{Image: s.images, Delay: frameDelays(len(s.images), r.opts.FPS)}
	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, anim); err != nil {
		return nil, fmt.Errorf("encode gif: %w", err)
	}
	created := r.opts.Now()
	return &Recording{
		Filename:    r.opts.Filename(created),
		ContentType: ContentType,
		Data:        buf.Bytes(),
		Frames:      len(s.images),
		Duration:    time.Duration(len(s.images)) * time.Second / time.Duration(r.opts.FPS),
		CreatedAt:   created,
	}, nil
}

// frameDelays spreads 100/fps centiseconds per frame so the total stays exact.
func frameDelays(n, fps int) []int {
	delays := make([]int, n)
	prev := 0
	for i := range delays {
		at := int(math.Round(float64((i+1)*100) / float64(fps)))
		delays[i] = at - prev
		prev = at
	}
	return delays
}
