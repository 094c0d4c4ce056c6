package models

import "time"

// ArtifactSource identifies how an image entered the system.
type ArtifactSource string

const (
	SourcePicker ArtifactSource = "picker"
	SourceCamera ArtifactSource = "camera"
)

// ImageArtifact is the in-memory image to be identified. It is immutable
// once built; a new acquisition replaces it wholesale.
type ImageArtifact struct {
	Data      []byte         `json:"-"`
	MimeType  string         `json:"mime_type"`
	Source    ArtifactSource `json:"source"`
	Filename  string         `json:"filename,omitempty"`
	Width     int            `json:"width"`
	Height    int            `json:"height"`
	CreatedAt time.Time      `json:"created_at"`
}

// RequestState tracks the lifecycle of one identification call.
type RequestState string

const (
	StateIdle      RequestState = "idle"
	StateInFlight  RequestState = "in_flight"
	StateSucceeded RequestState = "succeeded"
	StateFailed    RequestState = "failed"
)

// PlantRecord is the fixed six-field identification result. Consumers rely
// on all six fields being present or the record being absent entirely.
type PlantRecord struct {
	Name            string `json:"name"`
	ScientificName  string `json:"scientificName"`
	Family          string `json:"family"`
	Origin          string `json:"origin"`
	Characteristics string `json:"characteristics"`
	Uses            string `json:"uses"`
}

// IdentifySession represents one user's identification workflow: the
// current artifact, its preview, the request state, and the result if any.
type IdentifySession struct {
	ID        string         `json:"id"`
	Artifact  *ImageArtifact `json:"artifact,omitempty"`
	Preview   string         `json:"preview,omitempty"` // data URI derived from the artifact
	State     RequestState   `json:"state"`
	Result    *PlantRecord   `json:"result,omitempty"`
	Error     string         `json:"error,omitempty"`
	Provider  string         `json:"provider,omitempty"`
	Model     string         `json:"model,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
