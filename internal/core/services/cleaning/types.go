package cleaning

import (
	"context"
	"time"
)

// Request describes one text to clean. A non-nil Transformations list is
// applied in the given order; otherwise Preset (or the default preset)
// is resolved and applied in catalog order. An explicit empty list cleans
// nothing.
type Request struct {
	Text            string   `json:"text"`
	Transformations []string `json:"transformations,omitempty"`
	Preset          string   `json:"preset,omitempty"`
}

// BatchRequest is Request for many texts sharing one pipeline.
type BatchRequest struct {
	Texts           []string `json:"texts"`
	Transformations []string `json:"transformations,omitempty"`
	Preset          string   `json:"preset,omitempty"`
}

// Result is the outcome of Clean.
type Result struct {
	Text            string   `json:"text"`
	Transformations []string `json:"transformations"`
	Signature       string   `json:"-"`
	Cached          bool     `json:"cached"`
}

// BatchResult is the outcome of CleanBatch. Texts[i] is the cleaned form
// of the i-th input.
type BatchResult struct {
	Texts           []string `json:"texts"`
	Transformations []string `json:"transformations"`
	Signature       string   `json:"-"`
}

// Config for the cleaning service
type Config struct {
	DefaultPreset string // Preset used when a request names neither transformations nor a preset
	MaxTextBytes  int    // Per-text limit, 0 disables
	Source        string // Metrics label: api, cli or job
}

// ResultCache stores cleaned results keyed by pipeline signature and input.
type ResultCache interface {
	Get(ctx context.Context, signature, text string) (string, bool, error)
	Set(ctx context.Context, signature, text, cleaned string) error
}

// Recorder receives cleaning metrics.
type Recorder interface {
	TextsProcessed(source string, n int)
	TransformationsApplied(names []string, texts int)
	BuildError()
	CacheRequest(hit bool)
	ObserveDuration(d time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) TextsProcessed(string, int)           {}
func (nopRecorder) TransformationsApplied([]string, int) {}
func (nopRecorder) BuildError()                          {}
func (nopRecorder) CacheRequest(bool)                    {}
func (nopRecorder) ObserveDuration(time.Duration)        {}
