// Package identify turns an ImageArtifact into a PlantRecord through exactly
// one vision-LLM call, tolerating formatting noise in the reply.
package identify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/floralens/floralens/internal/gemini"
	"github.com/floralens/floralens/internal/models"
	"github.com/floralens/floralens/internal/ollama"
	"github.com/floralens/floralens/internal/openai"
	"github.com/floralens/floralens/internal/providers"
)

var (
	// ErrNoArtifact indicates identify was called without a current artifact.
	ErrNoArtifact = errors.New("no image artifact to identify")

	// ErrInFlight indicates an identification call is already outstanding.
	ErrInFlight = errors.New("identification already in flight")

	// ErrServiceFailure indicates a transport or provider-level failure.
	ErrServiceFailure = errors.New("inference service failure")

	// ErrMalformedResponse indicates the reply could not be parsed into the
	// six-field record. The result is explicitly absent, never partial.
	ErrMalformedResponse = errors.New("malformed identification response")
)

// DefaultTimeout bounds a single identification call.
const DefaultTimeout = 60 * time.Second

// Service issues identification requests against a configured provider.
type Service struct {
	provider   string
	model      string
	timeout    time.Duration
	normalizer *Normalizer
	override   providers.Provider
}

// Option configures a Service.
type Option func(*Service)

// WithProvider overrides the provider name ("gemini", "ollama", "openai").
func WithProvider(provider string) Option {
	return func(s *Service) {
		if provider != "" {
			s.provider = provider
		}
	}
}

// WithModel overrides the model name.
func WithModel(model string) Option {
	return func(s *Service) {
		if model != "" {
			s.model = model
		}
	}
}

// WithTimeout bounds the provider call. Zero keeps the default.
func WithTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// WithStripPatterns appends extra noise patterns for response cleanup.
func WithStripPatterns(patterns ...string) Option {
	return func(s *Service) {
		s.normalizer = NewNormalizer(append(DefaultStripPatterns(), patterns...)...)
	}
}

// WithClient plugs in a custom provider implementation, bypassing the
// provider-name dispatch.
func WithClient(p providers.Provider) Option {
	return func(s *Service) {
		s.override = p
	}
}

// NewService creates a Service. Provider and model default from the
// FLORALENS_PROVIDER and per-provider model environment variables.
func NewService(opts ...Option) *Service {
	s := &Service{
		timeout:    DefaultTimeout,
		normalizer: NewNormalizer(DefaultStripPatterns()...),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.provider == "" {
		s.provider = os.Getenv("FLORALENS_PROVIDER")
		if s.provider == "" {
			s.provider = "gemini"
		}
	}
	if s.model == "" {
		s.model = defaultModel(s.provider)
	}
	return s
}

// Provider returns the configured provider name.
func (s *Service) Provider() string { return s.provider }

// Model returns the configured model name.
func (s *Service) Model() string { return s.model }

// Identify runs one identification call for the artifact and returns the
// parsed six-field record. The call is bounded by the service timeout.
func (s *Service) Identify(ctx context.Context, artifact *models.ImageArtifact) (*models.PlantRecord, error) {
	if artifact == nil {
		return nil, ErrNoArtifact
	}

	client, err := s.client()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := client.Describe(ctx, providers.Config{
		Model:       s.model,
		Temperature: 0.1, // low temperature for consistent, factual output
		Prompt:      buildPrompt(),
		ImageData:   artifact.Data,
		MimeType:    artifact.MimeType,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrServiceFailure, err)
	}

	record, err := s.normalizer.ParseRecord(raw)
	if err != nil {
		slog.Warn("Failed to parse identification response", "provider", s.provider, "error", err)
		return nil, err
	}

	slog.Info("Plant identified", "provider", s.provider, "model", s.model, "scientific_name", record.ScientificName)
	return record, nil
}

func (s *Service) client() (providers.Provider, error) {
	if s.override != nil {
		return s.override, nil
	}
	switch s.provider {
	case "gemini":
		return gemini.New(), nil
	case "ollama":
		return ollama.New(), nil
	case "openai":
		return openai.New(), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", s.provider)
	}
}

func defaultModel(provider string) string {
	switch provider {
	case "gemini":
		model := os.Getenv("GEMINI_MODEL")
		if model == "" {
			return "gemini-1.5-flash"
		}
		return model
	case "openai":
		model := os.Getenv("OPENAI_MODEL")
		if model == "" {
			return "gpt-4o"
		}
		return model
	case "ollama":
		model := os.Getenv("OLLAMA_MODEL")
		if model == "" {
			return "llava:13b"
		}
		return model
	default:
		return ""
	}
}
