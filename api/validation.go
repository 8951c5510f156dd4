// Package api exposes the evaluation engine over HTTP.
package api

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-tagger-eval/model"
)

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult holds the result of validation operations
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// AddError adds a validation error to the result
func (vr *ValidationResult) AddError(field, message string) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// ValidateGroupName validates a group name parameter
func ValidateGroupName(groupName string) *ValidationResult {
	return validateIdentifier("groupName", "Group name", groupName)
}

// ValidateRunID validates a run ID parameter
func ValidateRunID(runID string) *ValidationResult {
	return validateIdentifier("runId", "Run ID", runID)
}

func validateIdentifier(field, label, value string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if value == "" {
		result.AddError(field, label+" is required")
		return result
	}
	if strings.TrimSpace(value) != value {
		result.AddError(field, label+" cannot have leading or trailing whitespace")
	}
	return result
}

// ParseJobStatus validates an optional ?status= filter. An empty value means no filter.
func ParseJobStatus(value string) (*model.JobStatus, *ValidationResult) {
	result := &ValidationResult{Valid: true}
	if value == "" {
		return nil, result
	}

	status := model.JobStatus(value)
	switch status {
	case model.JobStatusPending, model.JobStatusRunning, model.JobStatusCompleted,
		model.JobStatusFailed, model.JobStatusCancelled:
		return &status, result
	}
	result.AddError("status", "Unknown job status '"+value+"'")
	return nil, result
}

// SendValidationError sends a standardized validation error response
func SendValidationError(c *gin.Context, result *ValidationResult) {
	SendStructuredValidationError(c, result)
}
