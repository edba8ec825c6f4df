package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rook-computer/doorcam/internal/capture"
	"github.com/rook-computer/doorcam/internal/state"
)

type fakeControl struct {
	active   bool
	latest   *capture.Recording
	startErr error
	starts   int
	stops    int
}

func (c *fakeControl) StartRecording() (bool, error) {
	c.starts++
	if c.startErr != nil {
		return false, c.startErr
	}
	if c.active {
		return false, nil
	}
	c.active = true
	return true, nil
}

func (c *fakeControl) StopRecording() (bool, *capture.Recording, error) {
	c.stops++
	if !c.active {
		return false, nil, nil
	}
	c.active = false
	c.latest = &capture.Recording{
		Filename:    "door-cam-dog-burger-42.gif",
		ContentType: capture.ContentType,
		Data:        []byte("GIF89a-fake"),
		Frames:      3,
		Duration:    100 * time.Millisecond,
		CreatedAt:   time.Unix(42, 0),
	}
	return true, c.latest, nil
}

func (c *fakeControl) LatestRecording() (*capture.Recording, bool) {
	return c.latest, c.latest != nil
}

type fixedFrames int

func (f fixedFrames) Frame() int { return int(f) }

func newTestServer(control RecordingControl, store *state.Store) http.Handler {
	return NewHTTPServer(ServerConfig{}, APIV1Deps{Recorder: control, Status: store, Frames: fixedFrames(120)}).Handler()
}

func do(t *testing.T, h http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func TestStatus(t *testing.T) {
	store := state.NewStore()
	store.BeginCapture(time.Unix(1, 0))
	store.UpdateCaptureFrames(7)
	h := newTestServer(&fakeControl{}, store)

	rec := do(t, h, http.MethodGet, "/api/v1/status")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body statusResponse
	decode(t, rec, &body)
	if body.Phase != "RECORDING" || !body.Recording || body.CapturedFrames != 7 || body.Frame != 120 {
		t.Errorf("unexpected status %+v", body)
	}
	if body.Latest != nil {
		t.Errorf("expected no latest recording, got %+v", body.Latest)
	}
}

func TestStatusIncludesLatest(t *testing.T) {
	store := state.NewStore()
	store.FinishRecording(state.RecordingInfo{Filename: "a.gif", Bytes: 10, Frames: 2, Duration: 2 * time.Second, CreatedAt: time.Unix(0, 0)})
	h := newTestServer(&fakeControl{}, store)

	var body statusResponse
	decode(t, do(t, h, http.MethodGet, "/api/v1/status"), &body)
	if body.Latest == nil || body.Latest.Filename != "a.gif" || body.Latest.DurationMS != 2000 {
		t.Fatalf("unexpected latest %+v", body.Latest)
	}
	if body.Latest.URL != "http://example.com/api/v1/recordings/latest" {
		t.Errorf("unexpected download url %q", body.Latest.URL)
	}
}

func TestStartRecordingIsIdempotent(t *testing.T) {
	control := &fakeControl{}
	h := newTestServer(control, state.NewStore())

	for i, want := range []bool{true, false} {
		rec := do(t, h, http.MethodPost, "/api/v1/recordings")
		if rec.Code != http.StatusOK {
			t.Fatalf("call %d: expected 200, got %d", i, rec.Code)
		}
		var body startResponse
		decode(t, rec, &body)
		if body.Started != want {
			t.Errorf("call %d: expected started=%v, got %v", i, want, body.Started)
		}
	}
}

func TestStartRecordingUnavailable(t *testing.T) {
	h := newTestServer(&fakeControl{startErr: errors.New("no surface")}, state.NewStore())
	rec := do(t, h, http.MethodPost, "/api/v1/recordings")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	var body apiError
	decode(t, rec, &body)
	if body.Error != "capture_unavailable" || body.Message != "no surface" {
		t.Errorf("unexpected error body %+v", body)
	}
}

func TestStopWhileIdle(t *testing.T) {
	h := newTestServer(&fakeControl{}, state.NewStore())
	rec := do(t, h, http.MethodPost, "/api/v1/recordings/stop")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body stopResponse
	decode(t, rec, &body)
	if body.Stopped || body.Recording != nil {
		t.Errorf("expected a no-op stop, got %+v", body)
	}
}

func TestRecordStopDownload(t *testing.T) {
	control := &fakeControl{}
	h := newTestServer(control, state.NewStore())

	if rec := do(t, h, http.MethodGet, "/api/v1/recordings/latest"); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 before any recording, got %d", rec.Code)
	}

	do(t, h, http.MethodPost, "/api/v1/recordings")
	var stopped stopResponse
	decode(t, do(t, h, http.MethodPost, "/api/v1/recordings/stop"), &stopped)
	if !stopped.Stopped || stopped.Recording == nil || stopped.Recording.Frames != 3 {
		t.Fatalf("unexpected stop response %+v", stopped)
	}

	rec := do(t, h, http.MethodGet, "/api/v1/recordings/latest")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/gif" {
		t.Errorf("expected image/gif, got %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, `filename=door-cam-dog-burger-42.gif`) {
		t.Errorf("unexpected Content-Disposition %q", cd)
	}
	if rec.Body.String() != "GIF89a-fake" {
		t.Errorf("unexpected body %q", rec.Body.String())
	}
}

func TestLatestQRCode(t *testing.T) {
	control := &fakeControl{}
	h := newTestServer(control, state.NewStore())
	if rec := do(t, h, http.MethodGet, "/api/v1/recordings/latest/qr.png"); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 before any recording, got %d", rec.Code)
	}

	do(t, h, http.MethodPost, "/api/v1/recordings")
	do(t, h, http.MethodPost, "/api/v1/recordings/stop")
	rec := do(t, h, http.MethodGet, "/api/v1/recordings/latest/qr.png")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("expected image/png, got %q", ct)
	}
	if !strings.HasPrefix(rec.Body.String(), "\x89PNG") {
		t.Errorf("expected a PNG body")
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestServer(&fakeControl{}, state.NewStore())
	cases := []struct{ method, path string }{
		{http.MethodPost, "/api/v1/status"},
		{http.MethodGet, "/api/v1/recordings"},
		{http.MethodGet, "/api/v1/recordings/stop"},
		{http.MethodDelete, "/api/v1/recordings/latest"},
	}
	for _, c := range cases {
		rec := do(t, h, c.method, c.path)
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s %s: expected 405, got %d", c.method, c.path, rec.Code)
		}
	}
}

func TestDefaultDepsReportUnconfigured(t *testing.T) {
	h := NewHTTPServer(ServerConfig{}, APIV1Deps{}).Handler()
	if rec := do(t, h, http.MethodPost, "/api/v1/recordings"); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 without a recorder, got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodPost, "/api/v1/recordings/stop"); rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 without a recorder, got %d", rec.Code)
	}
}

func TestIndexPageServed(t *testing.T) {
	h := newTestServer(&fakeControl{}, state.NewStore())
	rec := do(t, h, http.MethodGet, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Record 6s") {
		t.Errorf("expected the control page")
	}
}

func TestDevCORS(t *testing.T) {
	h := NewHTTPServer(ServerConfig{DevMode: true}, APIV1Deps{}).Handler()
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/recordings", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 preflight, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("unexpected allow-origin %q", got)
	}
}

func TestStaticUIMissingDir(t *testing.T) {
	h := StaticUIHandler(t.TempDir() + "/missing")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for a missing static dir, got %d", rec.Code)
	}
}
