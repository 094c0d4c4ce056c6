package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/floralens/floralens/internal/identify"
	"github.com/floralens/floralens/internal/models"
	"github.com/floralens/floralens/internal/providers"
)

const validResponse = `{"name":"Rose","scientificName":"Rosa","family":"Rosaceae","origin":"Asia","characteristics":"Thorny shrub","uses":"Ornamental"}`

type fakeProvider struct {
	response string
	err      error
}

func (f *fakeProvider) Describe(_ context.Context, _ providers.Config) (string, error) {
	return f.response, f.err
}

func newTestHandler(provider providers.Provider) *Handler {
	service := identify.NewService(identify.WithClient(provider), identify.WithProvider("gemini"))
	return New(identify.NewPipeline(service), "static")
}

func pngBody(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func createSession(t *testing.T, h *Handler) *models.IdentifySession {
	t.Helper()
	w := httptest.NewRecorder()
	h.HandleSessions(w, httptest.NewRequest("POST", "/api/sessions", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Failed to create session: %d %s", w.Code, w.Body.String())
	}
	var session models.IdentifySession
	if err := json.Unmarshal(w.Body.Bytes(), &session); err != nil {
		t.Fatalf("Failed to decode session: %v", err)
	}
	return &session
}

func uploadImage(t *testing.T, h *Handler, sessionID string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "plant.png")
	if err != nil {
		t.Fatalf("Failed to create form file: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("Failed to write form file: %v", err)
	}
	if sessionID != "" {
		if err := writer.WriteField("session_id", sessionID); err != nil {
			t.Fatalf("Failed to write form field: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Failed to close form writer: %v", err)
	}

	req := httptest.NewRequest("POST", "/api/upload", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	h.HandleUpload(w, req)
	return w
}

func postJSON(h http.HandlerFunc, path string, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest("POST", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func TestUploadThenIdentify(t *testing.T) {
	h := newTestHandler(&fakeProvider{response: "```json\n" + validResponse + "\n```"})
	session := createSession(t, h)

	w := uploadImage(t, h, session.ID, pngBody(t))
	if w.Code != http.StatusOK {
		t.Fatalf("Upload failed: %d %s", w.Code, w.Body.String())
	}

	var updated models.IdentifySession
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("Failed to decode session: %v", err)
	}
	if !strings.HasPrefix(updated.Preview, "data:image/png;base64,") {
		t.Errorf("Expected a data-URI preview, got %q", updated.Preview)
	}
	if updated.State != models.StateIdle {
		t.Errorf("Expected idle state after upload, got %s", updated.State)
	}

	w = postJSON(h.HandleIdentify, "/api/identify", map[string]string{"session_id": session.ID})
	if w.Code != http.StatusOK {
		t.Fatalf("Identify failed: %d %s", w.Code, w.Body.String())
	}
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("Failed to decode session: %v", err)
	}
	if updated.State != models.StateSucceeded {
		t.Errorf("Expected succeeded state, got %s", updated.State)
	}
	if updated.Result == nil || updated.Result.ScientificName != "Rosa" {
		t.Errorf("Unexpected result: %+v", updated.Result)
	}
}

func TestUploadRejectsNonImage(t *testing.T) {
	h := newTestHandler(&fakeProvider{response: validResponse})
	session := createSession(t, h)

	w := uploadImage(t, h, session.ID, []byte("definitely not an image"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for non-image upload, got %d", w.Code)
	}

	// Prior state untouched
	stored, _ := h.sessionStore.Get(session.ID)
	if stored.Artifact != nil {
		t.Error("Expected no artifact after rejected upload")
	}
}

func TestUploadWithoutSessionCreatesOne(t *testing.T) {
	h := newTestHandler(&fakeProvider{response: validResponse})

	w := uploadImage(t, h, "", pngBody(t))
	if w.Code != http.StatusOK {
		t.Fatalf("Upload failed: %d %s", w.Code, w.Body.String())
	}
	var session models.IdentifySession
	if err := json.Unmarshal(w.Body.Bytes(), &session); err != nil {
		t.Fatalf("Failed to decode session: %v", err)
	}
	if session.ID == "" {
		t.Error("Expected a session id")
	}
}

func TestIdentifyWithoutArtifact(t *testing.T) {
	h := newTestHandler(&fakeProvider{response: validResponse})
	session := createSession(t, h)

	w := postJSON(h.HandleIdentify, "/api/identify", map[string]string{"session_id": session.ID})
	if w.Code != http.StatusConflict {
		t.Fatalf("Expected 409 with no artifact, got %d", w.Code)
	}
}

func TestIdentifyUnknownSession(t *testing.T) {
	h := newTestHandler(&fakeProvider{response: validResponse})

	w := postJSON(h.HandleIdentify, "/api/identify", map[string]string{"session_id": "missing"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", w.Code)
	}
}

func TestIdentifyServiceFailureSurfacesState(t *testing.T) {
	h := newTestHandler(&fakeProvider{err: fmt.Errorf("upstream down")})
	session := createSession(t, h)
	if w := uploadImage(t, h, session.ID, pngBody(t)); w.Code != http.StatusOK {
		t.Fatalf("Upload failed: %d", w.Code)
	}

	w := postJSON(h.HandleIdentify, "/api/identify", map[string]string{"session_id": session.ID})
	if w.Code != http.StatusBadGateway {
		t.Fatalf("Expected 502, got %d", w.Code)
	}

	var updated models.IdentifySession
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("Failed to decode session: %v", err)
	}
	if updated.State != models.StateFailed {
		t.Errorf("Expected failed state, got %s", updated.State)
	}
	if updated.Result != nil {
		t.Errorf("Expected no result, got %+v", updated.Result)
	}
}

func TestCameraFlow(t *testing.T) {
	h := newTestHandler(&fakeProvider{response: validResponse})
	session := createSession(t, h)

	// Capture with no open session is a caller error
	w := postJSON(h.HandleCameraCapture, "/api/camera/capture", map[string]string{"session_id": session.ID})
	if w.Code != http.StatusConflict {
		t.Fatalf("Expected 409 for capture without session, got %d", w.Code)
	}

	// Denied permission opens nothing
	w = postJSON(h.HandleCameraOpen, "/api/camera/open", map[string]bool{"granted": false})
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("Expected 503 for denied camera, got %d", w.Code)
	}

	// Granted permission opens the session
	w = postJSON(h.HandleCameraOpen, "/api/camera/open", map[string]bool{"granted": true})
	if w.Code != http.StatusOK {
		t.Fatalf("Camera open failed: %d %s", w.Code, w.Body.String())
	}

	// Push a frame and capture it
	req := httptest.NewRequest("POST", "/api/camera/frame", bytes.NewReader(pngBody(t)))
	rec := httptest.NewRecorder()
	h.HandleCameraFrame(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("Frame push failed: %d %s", rec.Code, rec.Body.String())
	}

	w = postJSON(h.HandleCameraCapture, "/api/camera/capture", map[string]string{"session_id": session.ID})
	if w.Code != http.StatusOK {
		t.Fatalf("Capture failed: %d %s", w.Code, w.Body.String())
	}

	var updated models.IdentifySession
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("Failed to decode session: %v", err)
	}
	if updated.Artifact == nil || updated.Artifact.Source != models.SourceCamera {
		t.Errorf("Expected a camera-tagged artifact, got %+v", updated.Artifact)
	}

	// Capture released the camera session
	if h.camera.IsOpen() {
		t.Error("Expected camera session to be released after capture")
	}

	// Close with nothing open is idempotent
	w = postJSON(h.HandleCameraClose, "/api/camera/close", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Close failed: %d", w.Code)
	}
}

func TestSessionDetail(t *testing.T) {
	h := newTestHandler(&fakeProvider{response: validResponse})
	session := createSession(t, h)

	req := httptest.NewRequest("GET", "/api/sessions/"+session.ID, nil)
	w := httptest.NewRecorder()
	h.HandleSessionDetail(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	req = httptest.NewRequest("DELETE", "/api/sessions/"+session.ID, nil)
	w = httptest.NewRecorder()
	h.HandleSessionDetail(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	req = httptest.NewRequest("GET", "/api/sessions/"+session.ID, nil)
	w = httptest.NewRecorder()
	h.HandleSessionDetail(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected 404 after delete, got %d", w.Code)
	}
}
