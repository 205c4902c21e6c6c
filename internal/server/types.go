package server

import "github.com/ramirent/faktura-extract/internal/model"

// BatchResponse is the response for the batch-processing endpoint: the
// run's id (for later retrieval) plus its RunSummary.
type BatchResponse struct {
	RunID   string            `json:"run_id"`
	Summary *model.RunSummary `json:"summary"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
}
