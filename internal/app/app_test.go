package app

import (
	"bytes"
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/rook-computer/doorcam/internal/buttons"
	"github.com/rook-computer/doorcam/internal/capture"
	"github.com/rook-computer/doorcam/internal/config"
	"github.com/rook-computer/doorcam/internal/driver"
	"github.com/rook-computer/doorcam/internal/scene"
	"github.com/rook-computer/doorcam/internal/state"
)

func testPipeline(t *testing.T) (*Pipeline, *driver.FrameQueue) {
	t.Helper()
	cfg := config.Default(":0")
	cfg.Canvas = config.CanvasConfig{Width: 96, Height: 54}
	cfg.Capture.Seconds = 1
	q := &driver.FrameQueue{}
	p := NewPipeline(cfg, q, nil)
	t.Cleanup(p.Close)
	return p, q
}

func tick(q *driver.FrameQueue, n int) {
	for i := 0; i < n; i++ {
		q.RunPending()
	}
}

func TestCanvasOpaqueBeforeMount(t *testing.T) {
	p, _ := testPipeline(t)
	img := p.Canvas.Image()
	for _, pt := range [][2]int{{0, 0}, {48, 27}, {95, 53}} {
		if px := img.RGBAAt(pt[0], pt[1]); px.A != 255 || px.R != 0 {
			t.Errorf("pixel %v: expected opaque black, got %v", pt, px)
		}
	}
}

func TestRecordRequiresAnimation(t *testing.T) {
	p, _ := testPipeline(t)
	if _, err := p.Control.StartRecording(); !errors.Is(err, ErrNotAnimating) {
		t.Fatalf("expected ErrNotAnimating before mount, got %v", err)
	}
}

func TestRecordAndStop(t *testing.T) {
	p, q := testPipeline(t)
	if err := p.Mount(); err != nil {
		t.Fatalf("mount: %v", err)
	}
	tick(q, 5)

	started, err := p.Control.StartRecording()
	if err != nil || !started {
		t.Fatalf("expected a capture to start, got %v %v", started, err)
	}
	if started, _ := p.Control.StartRecording(); started {
		t.Errorf("expected a second record to be ignored")
	}
	if got := p.Store.Snapshot().Phase; got != state.RECORDING {
		t.Fatalf("expected RECORDING, got %v", got)
	}

	tick(q, 10)
	if got := p.Store.Snapshot().Capture.Frames; got != 5 {
		t.Errorf("expected 5 captured frames, got %d", got)
	}

	stopped, rec, err := p.Control.StopRecording()
	if err != nil || !stopped || rec == nil {
		t.Fatalf("expected a recording, got %v %v %v", stopped, rec, err)
	}
	snap := p.Store.Snapshot()
	if snap.Phase != state.READY || snap.Latest == nil || snap.Latest.Filename != rec.Filename {
		t.Fatalf("unexpected state after stop: %+v", snap)
	}
	if latest, ok := p.Control.LatestRecording(); !ok || latest != rec {
		t.Errorf("expected the latest recording to be served")
	}
}

func TestStopWhileIdleIsNoop(t *testing.T) {
	p, _ := testPipeline(t)
	stopped, rec, err := p.Control.StopRecording()
	if stopped || rec != nil || err != nil {
		t.Errorf("expected a no-op, got %v %v %v", stopped, rec, err)
	}
}

func TestStopBeforeFirstSample(t *testing.T) {
	p, _ := testPipeline(t)
	if err := p.Mount(); err != nil {
		t.Fatalf("mount: %v", err)
	}
	if _, err := p.Control.StartRecording(); err != nil {
		t.Fatalf("start: %v", err)
	}
	stopped, rec, err := p.Control.StopRecording()
	if !stopped || rec != nil || err != nil {
		t.Fatalf("expected an empty stop, got %v %v %v", stopped, rec, err)
	}
	if got := p.Store.Snapshot().Phase; got != state.IDLE {
		t.Errorf("expected IDLE, got %v", got)
	}
}

type chanNotifier chan *capture.Recording

func (c chanNotifier) Notify(rec *capture.Recording) error {
	c <- rec
	return nil
}

func TestAutoStopAnnounces(t *testing.T) {
	p, q := testPipeline(t)
	notified := make(chanNotifier, 1)
	p.Control.Notifier = notified
	if err := p.Mount(); err != nil {
		t.Fatalf("mount: %v", err)
	}
	if _, err := p.Control.StartRecording(); err != nil {
		t.Fatalf("start: %v", err)
	}
	tick(q, 61)

	select {
	case rec := <-notified:
		if rec.Frames != 30 {
			t.Errorf("expected 30 frames, got %d", rec.Frames)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("finished clip was never announced")
	}
	if got := p.Store.Snapshot().Phase; got != state.READY {
		t.Errorf("expected READY, got %v", got)
	}
}

func TestHandleEvent(t *testing.T) {
	p, q := testPipeline(t)
	a := New(p, nil, nil, nil, nil)
	if err := p.Mount(); err != nil {
		t.Fatalf("mount: %v", err)
	}

	a.HandleEvent(buttons.Record)
	if _, ok := p.Recorder.Active(); !ok {
		t.Fatalf("expected R to start a capture")
	}
	tick(q, 4)
	a.HandleEvent(buttons.Stop)
	if _, ok := p.Recorder.Active(); ok {
		t.Fatalf("expected S to stop the capture")
	}

	a.HandleEvent(buttons.Exit)
	a.HandleEvent(buttons.Exit)
	select {
	case err := <-a.exitCh:
		if err != nil {
			t.Errorf("expected a clean exit, got %v", err)
		}
	default:
		t.Fatalf("expected an exit request")
	}
}

func TestStartRunsUntilExit(t *testing.T) {
	cfg := config.Default(":0")
	cfg.Canvas = config.CanvasConfig{Width: 96, Height: 54}
	sched := driver.NewTickerScheduler(scene.FrameRate)
	p := NewPipeline(cfg, sched, nil)
	a := New(p, sched, nil, nil, nil)

	done := make(chan error, 1)
	go func() { done <- a.Start(context.Background()) }()

	deadline := time.Now().Add(2 * time.Second)
	for p.Driver.Frame() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("expected the ticker to render frames")
		}
		time.Sleep(5 * time.Millisecond)
	}
	a.Exit(nil)
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected a clean exit, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Start did not return after Exit")
	}
	if got := p.Driver.State(); got != driver.Stopped {
		t.Errorf("expected the driver stopped after exit, got %v", got)
	}
	if _, ok := a.Web.(noWebServer); !ok {
		t.Errorf("expected the no-op web server by default, got %T", a.Web)
	}
}

func TestFileLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewFileLogger(&buf)
	l.Infof("capture", "started %d", 1)
	l.Errorf("web", "boom")

	lines := regexp.MustCompile(`(?m)^\S+ \[(INFO|ERROR)\] (\w+): (.*)$`).FindAllStringSubmatch(buf.String(), -1)
	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines, got %q", buf.String())
	}
	if lines[0][1] != "INFO" || lines[0][2] != "capture" || lines[0][3] != "started 1" {
		t.Errorf("unexpected first line %v", lines[0])
	}
	if lines[1][1] != "ERROR" || lines[1][2] != "web" {
		t.Errorf("unexpected second line %v", lines[1])
	}
}
