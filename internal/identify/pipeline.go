package identify

import (
	"context"
	"sync"

	"github.com/floralens/floralens/internal/models"
)

// Pipeline drives the request state machine for identify sessions. A new
// call is admitted only when the session is not in flight, so calls on the
// same artifact never overlap.
type Pipeline struct {
	service *Service
	mu      sync.Mutex
}

func NewPipeline(service *Service) *Pipeline {
	return &Pipeline{service: service}
}

// Service returns the underlying identification service.
func (p *Pipeline) Service() *Service { return p.service }

// Run executes one identification call for the session. On success the
// session's result is replaced wholesale; on any failure the result is
// cleared and the failure is recorded on the session. The prior artifact and
// preview are kept either way so the user can retry manually.
func (p *Pipeline) Run(ctx context.Context, session *models.IdentifySession) error {
	if session.Artifact == nil {
		return ErrNoArtifact
	}

	p.mu.Lock()
	if session.State == models.StateInFlight {
		p.mu.Unlock()
		return ErrInFlight
	}
	session.State = models.StateInFlight
	session.Provider = p.service.Provider()
	session.Model = p.service.Model()
	p.mu.Unlock()

	record, err := p.service.Identify(ctx, session.Artifact)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		session.State = models.StateFailed
		session.Result = nil
		session.Error = err.Error()
		return err
	}
	session.State = models.StateSucceeded
	session.Result = record
	session.Error = ""
	return nil
}
