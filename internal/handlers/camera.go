package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/floralens/floralens/internal/camera"
	"github.com/floralens/floralens/internal/imaging"
)

// HandleCameraOpen opens the capture session. The browser owns the physical
// device and reports the permission result; a denial opens nothing.
func (h *Handler) HandleCameraOpen(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request struct {
		Granted bool `json:"granted"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.camera.Open(camera.NewPushSource(request.Granted)); err != nil {
		h.writeError(w, err.Error(), statusFor(err))
		return
	}

	slog.Info("Camera session opened")
	h.writeJSON(w, map[string]any{"open": true})
}

// HandleCameraFrame receives the latest live preview frame.
func (h *Handler) HandleCameraFrame(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	frame, err := io.ReadAll(io.LimitReader(r.Body, imaging.MaxUploadBytes+1))
	if err != nil {
		h.writeError(w, "Failed to read frame: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.camera.Push(frame); err != nil {
		h.writeError(w, err.Error(), statusFor(err))
		return
	}
	h.writeJSON(w, map[string]any{"received": len(frame)})
}

// HandleCameraCapture snapshots the current frame into the session's
// artifact. The capture session is released whether or not the snapshot
// succeeds.
func (h *Handler) HandleCameraCapture(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request struct {
		SessionID string `json:"session_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	artifact, err := h.camera.Capture()
	if err != nil {
		h.writeError(w, err.Error(), statusFor(err))
		return
	}

	session := h.resolveSession(request.SessionID)
	if session == nil {
		h.writeError(w, "Session not found", http.StatusNotFound)
		return
	}
	h.setArtifact(session, artifact)

	slog.Info("Frame captured", "session_id", session.ID, "bytes", len(artifact.Data))
	h.writeJSON(w, session)
}

// HandleCameraClose releases the capture session without capturing.
// Idempotent: closing with no open session is fine.
func (h *Handler) HandleCameraClose(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.camera.Close()
	h.writeJSON(w, map[string]any{"open": false})
}
