package driver

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/rook-computer/doorcam/internal/render"
	"github.com/rook-computer/doorcam/internal/scene"
)

var (
	ErrNoSurface      = errors.New("driver: no drawing surface")
	ErrAlreadyMounted = errors.New("driver: already mounted")
)

type State int

const (
	Idle State = iota
	Running
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "IDLE"
	case Running:
		return "RUNNING"
	case Stopped:
		return "STOPPED"
	}
	return "UNKNOWN"
}

// FrameObserver is told about every frame after it has been rendered.
// Observers run on the tick and must not call back into the Driver.
type FrameObserver interface {
	FrameRendered(frame int)
}

type FrameObserverFunc func(frame int)

func (f FrameObserverFunc) FrameRendered(frame int) { f(frame) }

// Driver owns the scene and advances it one frame per scheduled tick.
type Driver struct {
	Renderer  render.Renderer
	Scheduler Scheduler
	Now       func() time.Time
	Rand      *rand.Rand

	mu        sync.Mutex
	state     State
	frame     int
	scene     *scene.Scene
	surface   render.Surface
	cancel    CancelFunc
	observers []FrameObserver
}

func New(renderer render.Renderer, scheduler Scheduler) *Driver {
	return &Driver{Renderer: renderer, Scheduler: scheduler, Now: time.Now}
}

// Observe registers o for all subsequent frames.
func (d *Driver) Observe(o FrameObserver) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.observers = append(d.observers, o)
}

// Mount creates the scene for surface and schedules the first tick.
func (d *Driver) Mount(surface render.Surface) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state != Idle {
		return ErrAlreadyMounted
	}
	if surface == nil {
		return ErrNoSurface
	}
	w, h, ok := surfaceSize(surface)
	if !ok || w <= 0 || h <= 0 {
		return ErrNoSurface
	}

	now := time.Now
	if d.Now != nil {
		now = d.Now
	}
	rng := d.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	d.scene = scene.New(w, h, now(), rng)
	d.surface = surface
	d.frame = 0
	d.state = Running
	d.cancel = d.Scheduler.ScheduleNextTick(d.tick)
	return nil
}

// Unmount stops the animation. It waits for an in-flight tick; no tick runs afterwards.
// surfaceSize treats a surface whose Size panics, usually a typed nil, as missing.
func surfaceSize(s render.Surface) (w, h int, ok bool) {
	defer func() {
		if recover() != nil {
			w, h, ok = 0, 0, false
		}
	}()
	w, h = s.Size()
	return w, h, true
}

func (d *Driver) Unmount() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.state = Stopped
}

func (d *Driver) tick() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != Running {
		return
	}

	d.frame++
	scene.Step(d.scene, d.frame)
	d.Renderer.Render(d.surface, d.scene, d.frame)
	for _, o := range d.observers {
		o.FrameRendered(d.frame)
	}
	d.cancel = d.Scheduler.ScheduleNextTick(d.tick)
}

func (d *Driver) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *Driver) Frame() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.frame
}

// snapshot returns a copy of the current scene, or false before Mount.
func (d *Driver) snapshot() (scene.Scene, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.scene == nil {
		return scene.Scene{}, false
	}
	return *d.scene.Clone(), true
}
