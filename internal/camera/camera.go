// Package camera manages the capture-device session. The physical device
// lives on the client; the server tracks the session lifecycle and enforces
// that every open session reaches a release, on success and on every failure
// path.
package camera

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/floralens/floralens/internal/imaging"
	"github.com/floralens/floralens/internal/models"
)

var (
	// ErrDeviceUnavailable indicates the capture device denied access or is absent.
	ErrDeviceUnavailable = errors.New("capture device unavailable")

	// ErrNoSession indicates a capture was attempted with no open session.
	ErrNoSession = errors.New("no open camera session")

	// ErrSessionOpen indicates a session is already open.
	ErrSessionOpen = errors.New("camera session already open")

	// ErrNoFrame indicates the session has not received a frame yet.
	ErrNoFrame = errors.New("no frame available")
)

// FrameSource is the device-capture boundary. Open acquires device access,
// Frame returns the latest still frame, Release stops the device tracks.
type FrameSource interface {
	Open() error
	Frame() ([]byte, error)
	Release()
}

// FramePusher is implemented by sources that receive frames from the client.
type FramePusher interface {
	Push(frame []byte) error
}

type session struct {
	source   FrameSource
	openedAt time.Time
	released bool
}

func (s *session) release() {
	if s.released {
		return
	}
	s.released = true
	s.source.Release()
}

// Manager holds at most one open camera session.
type Manager struct {
	mu      sync.Mutex
	current *session
}

func NewManager() *Manager {
	return &Manager{}
}

// Open acquires device access through the given source and opens a session.
// On denial or absence of a device, no session is left open.
func (m *Manager) Open(source FrameSource) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil {
		return ErrSessionOpen
	}
	if err := source.Open(); err != nil {
		return fmt.Errorf("%w: %s", ErrDeviceUnavailable, err)
	}
	m.current = &session{source: source, openedAt: time.Now()}
	return nil
}

// Push forwards a live frame from the client into the open session.
func (m *Manager) Push(frame []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return ErrNoSession
	}
	pusher, ok := m.current.source.(FramePusher)
	if !ok {
		return fmt.Errorf("camera source does not accept pushed frames")
	}
	return pusher.Push(frame)
}

// Capture snapshots the current frame into a camera-tagged artifact. The
// session is released on every exit path, including frame and decode
// failures. Calling Capture with no open session is a caller error.
func (m *Manager) Capture() (*models.ImageArtifact, error) {
	m.mu.Lock()
	sess := m.current
	m.current = nil
	m.mu.Unlock()

	if sess == nil {
		return nil, ErrNoSession
	}
	defer sess.release()

	frame, err := sess.source.Frame()
	if err != nil {
		return nil, fmt.Errorf("failed to read frame: %w", err)
	}

	artifact, err := imaging.NewArtifact(frame, "capture.jpg", models.SourceCamera)
	if err != nil {
		return nil, fmt.Errorf("failed to build artifact from frame: %w", err)
	}
	return artifact, nil
}

// Close releases the open session without capturing. Idempotent.
func (m *Manager) Close() {
	m.mu.Lock()
	sess := m.current
	m.current = nil
	m.mu.Unlock()

	if sess != nil {
		sess.release()
	}
}

// IsOpen reports whether a session is currently open.
func (m *Manager) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current != nil
}
