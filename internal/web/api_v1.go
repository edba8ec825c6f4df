package web

import (
	"bytes"
	"encoding/json"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/rook-computer/doorcam/internal/capture"
	"github.com/rook-computer/doorcam/internal/state"
)

const latestRecordingPath = "/api/v1/recordings/latest"

type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type recordingResponse struct {
	Filename   string `json:"filename"`
	Bytes      int    `json:"bytes"`
	Frames     int    `json:"frames"`
	DurationMS int64  `json:"durationMs"`
	CreatedAt  string `json:"createdAt"`
	URL        string `json:"url"`
}

type statusResponse struct {
	Phase          string             `json:"phase"`
	Frame          int                `json:"frame"`
	Recording      bool               `json:"recording"`
	CapturedFrames int                `json:"capturedFrames"`
	Latest         *recordingResponse `json:"latest,omitempty"`
	Error          string             `json:"error,omitempty"`
}

type startResponse struct {
	Started bool `json:"started"`
}

type stopResponse struct {
	Stopped   bool               `json:"stopped"`
	Recording *recordingResponse `json:"recording,omitempty"`
}

func apiV1Router(deps APIV1Deps) http.Handler {
	deps = deps.withDefaults()
	mux := http.NewServeMux()
	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) { handleStatus(w, r, deps) })
	mux.HandleFunc("/recordings", func(w http.ResponseWriter, r *http.Request) { handleStartRecording(w, r, deps) })
	mux.HandleFunc("/recordings/stop", func(w http.ResponseWriter, r *http.Request) { handleStopRecording(w, r, deps) })
	mux.HandleFunc("/recordings/latest", func(w http.ResponseWriter, r *http.Request) { handleLatestRecording(w, r, deps) })
	mux.HandleFunc("/recordings/latest/qr.png", func(w http.ResponseWriter, r *http.Request) { handleLatestQR(w, r, deps) })
	return mux
}

func handleStatus(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}

	snap := deps.Status.Snapshot()
	resp := statusResponse{
		Phase:          snap.Phase.String(),
		Frame:          deps.Frames.Frame(),
		Recording:      snap.Phase == state.RECORDING,
		CapturedFrames: snap.Capture.Frames,
		Error:          snap.Err,
	}
	if snap.Latest != nil {
		resp.Latest = &recordingResponse{
			Filename:   snap.Latest.Filename,
			Bytes:      snap.Latest.Bytes,
			Frames:     snap.Latest.Frames,
			DurationMS: snap.Latest.Duration.Milliseconds(),
			CreatedAt:  snap.Latest.CreatedAt.UTC().Format(time.RFC3339),
			URL:        downloadURL(r, snap),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func handleStartRecording(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodPost {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	started, err := deps.Recorder.StartRecording()
	if err != nil {
		writeAPIError(w, http.StatusServiceUnavailable, "capture_unavailable", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, startResponse{Started: started})
}

func handleStopRecording(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodPost {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	stopped, rec, err := deps.Recorder.StopRecording()
	if err != nil {
		writeAPIError(w, http.StatusInternalServerError, "stop_failed", err.Error())
		return
	}
	resp := stopResponse{Stopped: stopped}
	if rec != nil {
		resp.Recording = recordingToResponse(rec, downloadURL(r, deps.Status.Snapshot()))
	}
	writeJSON(w, http.StatusOK, resp)
}

func handleLatestRecording(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	rec, ok := deps.Recorder.LatestRecording()
	if !ok {
		writeAPIError(w, http.StatusNotFound, "no_recording", "no recording available")
		return
	}
	setDownloadHeaders(w, rec.Filename, rec.ContentType)
	http.ServeContent(w, r, rec.Filename, rec.CreatedAt, bytes.NewReader(rec.Data))
}

func handleLatestQR(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	if _, ok := deps.Recorder.LatestRecording(); !ok {
		writeAPIError(w, http.StatusNotFound, "no_recording", "no recording available")
		return
	}
	png, err := qrCodePNG(downloadURL(r, deps.Status.Snapshot()), 0)
	if err != nil {
		writeAPIError(w, http.StatusInternalServerError, "qr_failed", err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func recordingToResponse(rec *capture.Recording, url string) *recordingResponse {
	return &recordingResponse{
		Filename:   rec.Filename,
		Bytes:      len(rec.Data),
		Frames:     rec.Frames,
		DurationMS: rec.Duration.Milliseconds(),
		CreatedAt:  rec.CreatedAt.UTC().Format(time.RFC3339),
		URL:        url,
	}
}

// downloadURL prefers the advertised network URL and falls back to the request host.
func downloadURL(r *http.Request, snap state.State) string {
	if base := strings.TrimRight(snap.Network.URL, "/"); base != "" {
		return base + latestRecordingPath
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + latestRecordingPath
}

func setDownloadHeaders(w http.ResponseWriter, filename, contentType string) {
	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	cd := mime.FormatMediaType("attachment", map[string]string{"filename": filename})
	w.Header().Set("Content-Disposition", cd)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, apiError{Error: code, Message: message})
}
