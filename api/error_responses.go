package api

import (
	stderrors "errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-tagger-eval/internal/errors"
)

// ErrorCode represents standardized error codes for the API
type ErrorCode string

const (
	// Client Error Codes (4xx)
	ErrorCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrorCodeGroupNotFound    ErrorCode = "GROUP_NOT_FOUND"
	ErrorCodeRunNotFound      ErrorCode = "RUN_NOT_FOUND"
	ErrorCodeJobNotFound      ErrorCode = "JOB_NOT_FOUND"
	ErrorCodeNoCorpusMatch    ErrorCode = "NO_CORPUS_MATCH"
	ErrorCodeInvalidRequest   ErrorCode = "INVALID_REQUEST"

	// Server Error Codes (5xx)
	ErrorCodeInternalError      ErrorCode = "INTERNAL_ERROR"
	ErrorCodeJobExecutionFailed ErrorCode = "JOB_EXECUTION_FAILED"
	ErrorCodeNotSupported       ErrorCode = "NOT_SUPPORTED"
)

// ErrorDetail provides additional context for an error
type ErrorDetail struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// APIError represents a standardized API error response
type APIError struct {
	Error     string        `json:"error"`
	Code      ErrorCode     `json:"code"`
	Message   string        `json:"message"`
	Details   []ErrorDetail `json:"details,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
	RequestID string        `json:"request_id,omitempty"`
}

// APIErrorResponse creates a standardized error response
func APIErrorResponse(code ErrorCode, message string, details ...ErrorDetail) *APIError {
	return &APIError{
		Error:     "Request failed",
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now(),
	}
}

// SendError sends a standardized error response
func SendError(c *gin.Context, statusCode int, code ErrorCode, message string, details ...ErrorDetail) {
	errorResponse := APIErrorResponse(code, message, details...)

	if requestID, exists := c.Get(requestIDKey); exists {
		if id, ok := requestID.(string); ok {
			errorResponse.RequestID = id
		}
	}

	c.JSON(statusCode, errorResponse)
}

// SendStructuredValidationError sends a validation error with structured details
func SendStructuredValidationError(c *gin.Context, result *ValidationResult) {
	details := make([]ErrorDetail, len(result.Errors))
	for i, err := range result.Errors {
		details[i] = ErrorDetail{
			Field:   err.Field,
			Message: err.Message,
			Code:    "VALIDATION_ERROR",
		}
	}

	SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed, "Request validation failed", details...)
}

// SendGroupNotFoundError sends a standardized group not found error
func SendGroupNotFoundError(c *gin.Context, groupName string) {
	SendError(c, http.StatusNotFound, ErrorCodeGroupNotFound,
		"Group '"+groupName+"' not found")
}

// SendJobNotFoundError sends a standardized job not found error
func SendJobNotFoundError(c *gin.Context, jobID string) {
	SendError(c, http.StatusNotFound, ErrorCodeJobNotFound,
		"Job '"+jobID+"' not found")
}

// SendEngineError maps an engine error onto the matching status and code.
func SendEngineError(c *gin.Context, operation string, err error) {
	switch {
	case stderrors.Is(err, errors.ErrGroupNotFound):
		SendError(c, http.StatusNotFound, ErrorCodeGroupNotFound, err.Error())
	case stderrors.Is(err, errors.ErrRunNotFound):
		SendError(c, http.StatusNotFound, ErrorCodeRunNotFound, err.Error())
	case stderrors.Is(err, errors.ErrJobNotFound):
		SendError(c, http.StatusNotFound, ErrorCodeJobNotFound, err.Error())
	case stderrors.Is(err, errors.ErrNoCorpusMatch):
		SendError(c, http.StatusUnprocessableEntity, ErrorCodeNoCorpusMatch, err.Error())
	case stderrors.Is(err, errors.ErrInvalidInput):
		var ve *errors.ValidationError
		if stderrors.As(err, &ve) {
			SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed, ve.Message, ErrorDetail{
				Field: ve.Field, Message: ve.Message, Code: "VALIDATION_ERROR",
			})
			return
		}
		SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
	default:
		SendError(c, http.StatusInternalServerError, ErrorCodeJobExecutionFailed,
			"Failed to "+operation+": "+err.Error())
	}
}
