package app

import (
	"errors"
	"time"

	"github.com/rook-computer/doorcam/internal/capture"
	"github.com/rook-computer/doorcam/internal/state"
)

var ErrNotAnimating = errors.New("animation is not running")

// Notifier announces finished recordings somewhere outside the process.
type Notifier interface {
	Notify(rec *capture.Recording) error
}

// RecordingController connects the capture sidecar to the state store.
// The web API and the hardware keys both go through it.
type RecordingController struct {
	Recorder *capture.Recorder
	Store    *state.Store
	Notifier Notifier
	Logger   Logger
	Now      func() time.Time

	// Ready reports whether frames are being rendered.
	Ready func() bool
}

func (c *RecordingController) StartRecording() (bool, error) {
	if c.Ready != nil && !c.Ready() {
		return false, ErrNotAnimating
	}
	h, started := c.Recorder.Begin()
	if !started {
		c.Logger.Infof("capture", "record ignored, capture %d already running", h)
		return false, nil
	}
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	c.Store.BeginCapture(now())
	c.Logger.Infof("capture", "capture %d started", h)
	return true, nil
}

func (c *RecordingController) StopRecording() (bool, *capture.Recording, error) {
	rec, err := c.Recorder.Stop()
	switch {
	case errors.Is(err, capture.ErrNoCapture):
		return false, nil, nil
	case errors.Is(err, capture.ErrEmptyCapture):
		return true, nil, nil
	case err != nil:
		return true, nil, err
	}
	return true, rec, nil
}

func (c *RecordingController) LatestRecording() (*capture.Recording, bool) {
	return c.Recorder.Latest()
}

// chunkCaptured runs on the animation tick for every sampled frame.
func (c *RecordingController) chunkCaptured(chunk capture.Chunk) {
	c.Store.UpdateCaptureFrames(chunk.Index + 1)
}

// recordingDone runs for both manual and automatic stops.
func (c *RecordingController) recordingDone(rec *capture.Recording, err error) {
	switch {
	case errors.Is(err, capture.ErrEmptyCapture):
		c.Logger.Infof("capture", "capture stopped before any frame was sampled")
		c.Store.CancelCapture()
		return
	case err != nil:
		c.Logger.Errorf("capture", "assemble recording: %v", err)
		c.Store.Fail(err)
		return
	}

	c.Store.FinishRecording(state.RecordingInfo{
		Filename:  rec.Filename,
		Bytes:     len(rec.Data),
		Frames:    rec.Frames,
		Duration:  rec.Duration,
		CreatedAt: rec.CreatedAt,
	})
	c.Logger.Infof("capture", "recording ready: %s (%d frames, %d bytes)", rec.Filename, rec.Frames, len(rec.Data))

	if c.Notifier != nil {
		go func() {
			if err := c.Notifier.Notify(rec); err != nil {
				c.Logger.Errorf("capture", "announce %s: %v", rec.Filename, err)
			}
		}()
	}
}
