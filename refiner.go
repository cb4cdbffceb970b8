// Package refiner turns a free-text project description into a markdown
// roadmap by calling a remote refinement service, and tracks the state of
// that exchange for presentation layers.
//
// The root package holds the domain types and the Controller. Subpackages
// are named after what they adapt: api (HTTP client), markdown (HTML
// renderer), goldmark (terminal renderer), bubbletea (TUI), yaml (example
// catalog), fs (file saver) and mock (test doubles).
package refiner

import (
	"context"
	"fmt"
	"strings"
)

// Request is the payload sent to the refinement service.
type Request struct {
	ProjectDescription string
	Detailed           bool
}

// Validate checks that the description is non-empty after trimming.
func (r Request) Validate() error {
	if strings.TrimSpace(r.ProjectDescription) == "" {
		return fmt.Errorf("project description is empty: %w", ErrValidation)
	}
	return nil
}

// Metadata defaults applied when the service omits a field.
const (
	DefaultProcessingType = "Standard"
)

// Metadata carries statistics about how the service produced a roadmap.
type Metadata struct {
	ProcessingType string
	TotalTokens    int
	ProcessingTime float64 // seconds
	Timestamp      string  // as sent by the server; may be empty
}

// Result is a generated roadmap. Metadata is nil when the service sent none.
type Result struct {
	Roadmap  string
	Metadata *Metadata
}

// Health reports the status of the refinement service.
type Health struct {
	Status    string
	Timestamp string
	APIStatus string
}

// Refiner is implemented by clients of the refinement service.
type Refiner interface {
	Refine(ctx context.Context, req Request) (Result, error)
}

// HealthChecker is implemented by clients that can probe service health.
type HealthChecker interface {
	Health(ctx context.Context) (Health, error)
}

// Saver persists a named blob, e.g. by writing a file. It returns the
// location the data was written to.
type Saver interface {
	Save(filename string, data []byte) (string, error)
}
