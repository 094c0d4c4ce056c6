package camera

import "sync"

// PushSource is a FrameSource fed by the client. The browser owns the
// physical device; it reports the permission result at open time and streams
// preview frames while the session is live.
type PushSource struct {
	mu      sync.Mutex
	granted bool
	open    bool
	frame   []byte
}

// NewPushSource creates a source with the client-reported permission result.
func NewPushSource(granted bool) *PushSource {
	return &PushSource{granted: granted}
}

func (s *PushSource) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.granted {
		return ErrDeviceUnavailable
	}
	s.open = true
	return nil
}

// Push stores the latest frame, replacing any prior one.
func (s *PushSource) Push(frame []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return ErrNoSession
	}
	if len(frame) == 0 {
		return ErrNoFrame
	}
	s.frame = frame
	return nil
}

func (s *PushSource) Frame() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.frame) == 0 {
		return nil, ErrNoFrame
	}
	return s.frame, nil
}

func (s *PushSource) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.open = false
	s.frame = nil
}
