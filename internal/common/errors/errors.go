// Package errors provides standardized error handling for the matching
// workers and their BPMN integration.
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"

	ErrCodeProfileFetchFailed ErrorCode = "PROFILE_FETCH_FAILED"
	ErrCodeJobFetchFailed     ErrorCode = "JOB_FETCH_FAILED"
	ErrCodeJobNotFound        ErrorCode = "JOB_NOT_FOUND"
	ErrCodeCachePersistFailed ErrorCode = "CACHE_PERSIST_FAILED"
	ErrCodeCacheClearFailed   ErrorCode = "CACHE_CLEAR_FAILED"

	ErrCodeRecommendationFailed ErrorCode = "RECOMMENDATION_FAILED"
	ErrCodeScoringFailed        ErrorCode = "SCORING_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Retryable bool      `json:"retryable"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// BPMNError is an error thrown to the workflow engine by a worker.
type BPMNError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Details   string `json:"details,omitempty"`
	Retryable bool   `json:"retryable"`
	Retries   int    `json:"retries"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// NewInvalidInputError creates a non-retryable input validation error.
func NewInvalidInputError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidInput,
		Message:   "Worker input validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewProfileFetchFailedError creates a retryable profile store error.
func NewProfileFetchFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeProfileFetchFailed,
		Message:   "Database error while fetching worker profile",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewJobFetchFailedError creates a retryable job store error.
func NewJobFetchFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeJobFetchFailed,
		Message:   "Database error while fetching jobs",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewJobNotFoundError creates a non-retryable missing-job error.
func NewJobNotFoundError(jobID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeJobNotFound,
		Message:   "Job not found",
		Details:   fmt.Sprintf("jobId: %s", jobID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCachePersistFailedError creates a retryable cache-write error. The
// recompute result is discarded along with it: the next request must see
// consistent cache state, never a half-written one.
func NewCachePersistFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCachePersistFailed,
		Message:   "Failed to persist recomputed recommendations",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCacheClearFailedError creates a retryable cache-invalidation error.
func NewCacheClearFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCacheClearFailed,
		Message:   "Failed to clear recommendation cache",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRecommendationFailedError wraps any other failure of the engine.
func NewRecommendationFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRecommendationFailed,
		Message:   "Recommendation computation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewScoringFailedError wraps a failure of the single-pair scoring worker.
func NewScoringFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeScoringFailed,
		Message:   "Job match scoring failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// GetRetryCount returns the recommended retry count per error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeProfileFetchFailed,
		ErrCodeJobFetchFailed,
		ErrCodeCachePersistFailed,
		ErrCodeCacheClearFailed,
		ErrCodeRecommendationFailed,
		ErrCodeScoringFailed:
		return 3 // transient store errors
	default:
		return 0 // validation/business errors: no retry
	}
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// ConvertToBPMNError converts a StandardError for the workflow engine.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      string(stdErr.Code),
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
	}
}
