package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// HandleIdentify runs the identification pipeline for a session's current
// artifact. Failures are surfaced as session state alongside the HTTP
// status; no retry happens server-side.
func (h *Handler) HandleIdentify(w http.ResponseWriter, r *http.Request) {
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

	session, ok := h.getSessionOrError(w, request.SessionID)
	if !ok {
		return
	}

	if err := h.pipeline.Run(r.Context(), session); err != nil {
		slog.Error("Identification failed", "session_id", session.ID, "error", err)
		h.sessionStore.Set(session.ID, session)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusFor(err))
		if encodeErr := json.NewEncoder(w).Encode(session); encodeErr != nil {
			slog.Error("Unable to encode JSON response", "err", encodeErr)
		}
		return
	}

	h.sessionStore.Set(session.ID, session)
	h.writeJSON(w, session)
}
