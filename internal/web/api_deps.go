package web

import (
	"errors"

	"github.com/rook-computer/doorcam/internal/capture"
	"github.com/rook-computer/doorcam/internal/state"
)

var errCaptureNotConfigured = errors.New("capture not configured")

// RecordingControl is the capture side as seen by the API.
type RecordingControl interface {
	// StartRecording reports started=false when a capture is already running.
	StartRecording() (started bool, err error)
	// StopRecording reports stopped=false when nothing was running.
	StopRecording() (stopped bool, rec *capture.Recording, err error)
	LatestRecording() (*capture.Recording, bool)
}

// StatusSource is typically the shared *state.Store.
type StatusSource interface {
	Snapshot() state.State
}

// FrameCounter is typically the animation driver.
type FrameCounter interface {
	Frame() int
}

type APIV1Deps struct {
	Recorder RecordingControl
	Status   StatusSource
	Frames   FrameCounter
}

func (d APIV1Deps) withDefaults() APIV1Deps {
	out := d
	if out.Recorder == nil {
		out.Recorder = NoopRecordingControl{Err: errCaptureNotConfigured}
	}
	if out.Status == nil {
		out.Status = state.NewStore()
	}
	if out.Frames == nil {
		out.Frames = zeroFrames{}
	}
	return out
}

type NoopRecordingControl struct{ Err error }

func (c NoopRecordingControl) StartRecording() (bool, error) { return false, c.err() }

func (c NoopRecordingControl) StopRecording() (bool, *capture.Recording, error) {
	return false, nil, c.err()
}

func (c NoopRecordingControl) LatestRecording() (*capture.Recording, bool) { return nil, false }

func (c NoopRecordingControl) err() error {
	if c.Err != nil {
		return c.Err
	}
	return errCaptureNotConfigured
}

type zeroFrames struct{}

func (zeroFrames) Frame() int { return 0 }
