package providers

import (
	"context"
)

// Config represents one vision request to an LLM provider: an instruction
// prompt plus a single inline image.
type Config struct {
	Model       string
	Temperature float64
	Prompt      string
	ImageData   []byte
	MimeType    string
}

// Provider defines the interface for a vision-capable LLM provider.
type Provider interface {
	Describe(ctx context.Context, config Config) (string, error)
}
