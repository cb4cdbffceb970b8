// Package api implements [refiner.Refiner] for the project refiner HTTP API.
//
// The service exposes two endpoints: POST /api/refine-project, which runs
// the multi-agent refinement and returns a markdown roadmap, and
// GET /api/health.
package api

import "time"

const (
	// DefaultBaseURL is where the service listens in a local setup.
	DefaultBaseURL = "http://localhost:5000"

	refinePath = "/api/refine-project"
	healthPath = "/api/health"

	// DefaultTimeout is the time budget for a single refinement. Two LLM
	// calls run server-side, so responses are slow.
	DefaultTimeout = 5 * time.Minute
)

// apiRequest is the JSON body sent to /api/refine-project.
type apiRequest struct {
	ProjectDescription string `json:"project_description"`
	Detailed           bool   `json:"detailed"`
}

// apiResponse covers both the success and the application-error shapes.
type apiResponse struct {
	Roadmap  string       `json:"roadmap"`
	Metadata *apiMetadata `json:"metadata"`
	Error    *string      `json:"error"`
}

// apiMetadata fields are all optional.
type apiMetadata struct {
	ProcessingType *string  `json:"processing_type"`
	TotalTokens    *int     `json:"total_tokens"`
	ProcessingTime *float64 `json:"processing_time"`
	Timestamp      *string  `json:"timestamp"`
}

type apiHealth struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	APIStatus string `json:"api_status"`
}
