package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/floralens/floralens/internal/camera"
	"github.com/floralens/floralens/internal/identify"
	"github.com/floralens/floralens/internal/imaging"
	"github.com/floralens/floralens/internal/models"
	"github.com/floralens/floralens/internal/storage"
)

type Handler struct {
	sessionStore *storage.SessionStore
	pipeline     *identify.Pipeline
	camera       *camera.Manager
	staticDir    string
}

func New(pipeline *identify.Pipeline, staticDir string) *Handler {
	if staticDir == "" {
		staticDir = "static"
	}
	return &Handler{
		sessionStore: storage.New(),
		pipeline:     pipeline,
		camera:       camera.NewManager(),
		staticDir:    staticDir,
	}
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	http.Error(w, message, code)
}

// statusFor maps pipeline and acquisition failures onto HTTP status codes.
// None of these are fatal; the session carries the failure as state and the
// user retries manually.
func statusFor(err error) int {
	switch {
	case errors.Is(err, imaging.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, camera.ErrDeviceUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, camera.ErrNoSession),
		errors.Is(err, camera.ErrSessionOpen),
		errors.Is(err, camera.ErrNoFrame),
		errors.Is(err, identify.ErrInFlight),
		errors.Is(err, identify.ErrNoArtifact):
		return http.StatusConflict
	case errors.Is(err, identify.ErrServiceFailure),
		errors.Is(err, identify.ErrMalformedResponse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Session helpers
func (h *Handler) getSessionOrError(w http.ResponseWriter, sessionID string) (*models.IdentifySession, bool) {
	session, exists := h.sessionStore.Get(sessionID)
	if !exists {
		h.writeError(w, "Session not found", http.StatusNotFound)
		return nil, false
	}
	return session, true
}

func (h *Handler) newSession() *models.IdentifySession {
	session := &models.IdentifySession{
		ID:        storage.NewID(),
		State:     models.StateIdle,
		CreatedAt: time.Now(),
	}
	h.sessionStore.Set(session.ID, session)
	return session
}

// setArtifact replaces the session's current artifact and regenerates the
// preview. The prior result no longer describes the current image, so the
// session returns to idle with no result.
func (h *Handler) setArtifact(session *models.IdentifySession, artifact *models.ImageArtifact) {
	session.Artifact = artifact
	session.Preview = imaging.PreviewDataURI(artifact)
	session.State = models.StateIdle
	session.Result = nil
	session.Error = ""
	h.sessionStore.Set(session.ID, session)
}
