package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/floralens/floralens/internal/imaging"
	"github.com/floralens/floralens/internal/models"
)

// HandleUpload accepts a file-picker image and makes it the session's
// current artifact. Validation failures leave the prior artifact untouched.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	file, header, err := r.FormFile("files")
	if err != nil {
		file, header, err = r.FormFile("file")
		if err != nil {
			h.writeError(w, "Failed to read file: "+err.Error(), http.StatusBadRequest)
			return
		}
	}
	defer file.Close()

	fileData, err := io.ReadAll(io.LimitReader(file, imaging.MaxUploadBytes+1))
	if err != nil {
		h.writeError(w, "Failed to read file contents: "+err.Error(), http.StatusInternalServerError)
		return
	}

	artifact, err := imaging.NewArtifact(fileData, header.Filename, models.SourcePicker)
	if err != nil {
		h.writeError(w, err.Error(), statusFor(err))
		return
	}

	session := h.resolveSession(r.FormValue("session_id"))
	if session == nil {
		h.writeError(w, "Session not found", http.StatusNotFound)
		return
	}
	h.setArtifact(session, artifact)

	slog.Info("Image uploaded", "session_id", session.ID, "filename", header.Filename, "mime_type", artifact.MimeType)
	h.writeJSON(w, session)
}

// resolveSession returns the named session, or a fresh one when no id was
// sent. An unknown id returns nil.
func (h *Handler) resolveSession(sessionID string) *models.IdentifySession {
	if sessionID == "" {
		return h.newSession()
	}
	session, exists := h.sessionStore.Get(sessionID)
	if !exists {
		return nil
	}
	return session
}
