// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"net/http"
	"time"
)

// --- Pagination envelope ---

// PageResponse wraps one page of results with total-count metadata.
type PageResponse[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

// --- Error envelope ---

// ErrorResponse is the error body for every failed request.
// It never carries stack traces or internal identifiers.
type ErrorResponse struct {
	Timestamp  time.Time `json:"timestamp"`
	StatusCode int       `json:"statusCode"`
	StatusText string    `json:"statusText"`
	Message    string    `json:"message"`
	Path       string    `json:"path"`
}

// NewErrorResponse creates an error envelope for a status code and request path.
func NewErrorResponse(status int, message, path string) ErrorResponse {
	return ErrorResponse{
		Timestamp:  time.Now().UTC(),
		StatusCode: status,
		StatusText: http.StatusText(status),
		Message:    message,
		Path:       path,
	}
}
