package state

import (
	"sync"
	"time"
)

type Phase int

const (
	IDLE Phase = iota
	RECORDING
	READY
	ERROR
)

func (p Phase) String() string {
	switch p {
	case IDLE:
		return "IDLE"
	case RECORDING:
		return "RECORDING"
	case READY:
		return "READY"
	case ERROR:
		return "ERROR"
	}
	return "UNKNOWN"
}

type NetworkInfo struct {
	IP  string
	URL string
}

// CaptureInfo describes the capture in progress.
type CaptureInfo struct {
	StartedAt time.Time
	Frames    int
}

// RecordingInfo describes the latest finished recording.
type RecordingInfo struct {
	Filename  string
	Bytes     int
	Frames    int
	Duration  time.Duration
	CreatedAt time.Time
}

type State struct {
	Phase   Phase
	Network NetworkInfo
	Capture CaptureInfo
	Latest  *RecordingInfo
	Err     string
}

type Store struct {
	mu    sync.RWMutex
	state State
}

func NewStore() *Store {
	return &Store{state: State{Phase: IDLE}}
}

func (store *Store) Snapshot() State {
	store.mu.RLock()
	defer store.mu.RUnlock()
	snap := store.state
	if snap.Latest != nil {
		latest := *snap.Latest
		snap.Latest = &latest
	}
	return snap
}

func (store *Store) SetPhase(phase Phase) {
	store.mu.Lock()
	store.state.Phase = phase
	store.mu.Unlock()
}

func (store *Store) UpdateNetwork(network NetworkInfo) {
	store.mu.Lock()
	store.state.Network = network
	store.mu.Unlock()
}

// BeginCapture enters RECORDING and clears the previous error.
func (store *Store) BeginCapture(startedAt time.Time) {
	store.mu.Lock()
	store.state.Phase = RECORDING
	store.state.Capture = CaptureInfo{StartedAt: startedAt}
	store.state.Err = ""
	store.mu.Unlock()
}

func (store *Store) UpdateCaptureFrames(frames int) {
	store.mu.Lock()
	store.state.Capture.Frames = frames
	store.mu.Unlock()
}

func (store *Store) FinishRecording(info RecordingInfo) {
	store.mu.Lock()
	store.state.Phase = READY
	store.state.Capture = CaptureInfo{}
	store.state.Latest = &info
	store.mu.Unlock()
}

// Fail records err and enters ERROR. The previous recording stays available.
func (store *Store) Fail(err error) {
	store.mu.Lock()
	store.state.Phase = ERROR
	store.state.Capture = CaptureInfo{}
	if err != nil {
		store.state.Err = err.Error()
	}
	store.mu.Unlock()
}

// CancelCapture leaves RECORDING without a new recording.
func (store *Store) CancelCapture() {
	store.mu.Lock()
	store.state.Capture = CaptureInfo{}
	if store.state.Latest != nil {
		store.state.Phase = READY
	} else {
		store.state.Phase = IDLE
	}
	store.mu.Unlock()
}
