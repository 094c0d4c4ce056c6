package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/floralens/floralens/internal/models"
)

// ErrInvalidInput indicates the supplied blob is empty or not an image.
var ErrInvalidInput = errors.New("invalid image input")

// MaxUploadBytes caps accepted image payloads at 10MB.
const MaxUploadBytes = 10 * 1024 * 1024

// NewArtifact validates a raw blob and builds an immutable ImageArtifact.
// On any validation failure no artifact is produced, so callers can leave
// their prior artifact untouched.
func NewArtifact(data []byte, filename string, source models.ArtifactSource) (*models.ImageArtifact, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidInput)
	}
	if len(data) > MaxUploadBytes {
		return nil, fmt.Errorf("%w: payload exceeds %d bytes", ErrInvalidInput, MaxUploadBytes)
	}

	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, fmt.Errorf("%w: unsupported media type %s", ErrInvalidInput, mimeType)
	}

	width, height, err := dimensions(data)
	if err != nil {
		slog.Warn("Failed to decode image dimensions", "filename", filename, "error", err)
		width, height = 0, 0
	}

	return &models.ImageArtifact{
		Data:      data,
		MimeType:  mimeType,
		Source:    source,
		Filename:  filename,
		Width:     width,
		Height:    height,
		CreatedAt: time.Now(),
	}, nil
}

// PreviewDataURI derives a renderable preview from an artifact. The preview
// has no lifecycle of its own; it is regenerated whenever the artifact
// changes.
func PreviewDataURI(artifact *models.ImageArtifact) string {
	if artifact == nil {
		return ""
	}
	return "data:" + artifact.MimeType + ";base64," + base64.StdEncoding.EncodeToString(artifact.Data)
}

func dimensions(data []byte) (int, int, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}
