package errors

import (
	"errors"
	"fmt"
	"io/fs"
)

// Sentinel errors for common error conditions
var (
	// ErrCorpusNotFound is returned when a corpus file does not exist
	ErrCorpusNotFound = errors.New("corpus not found")

	// ErrMalformedCorpus is returned when a corpus file cannot be parsed
	ErrMalformedCorpus = errors.New("malformed corpus")

	// ErrNoCorpusMatch is returned when discovery finds no corpus for a group
	ErrNoCorpusMatch = errors.New("no corpus matched")

	// ErrGroupNotFound is returned when a corpus group is not configured
	ErrGroupNotFound = errors.New("corpus group not found")

	// ErrJobNotFound is returned when a job is not found
	ErrJobNotFound = errors.New("job not found")

	// ErrRunNotFound is returned when a run report is not found
	ErrRunNotFound = errors.New("run not found")

	// ErrTrainerFailed is returned when a train+eval collaborator fails
	ErrTrainerFailed = errors.New("trainer failed")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)

// CorpusLoadError wraps a failure to read a corpus file
type CorpusLoadError struct {
	Path string
	Err  error
}

func (e *CorpusLoadError) Error() string {
	return fmt.Sprintf("failed to load corpus '%s': %v", e.Path, e.Err)
}

// Is reports missing files as ErrCorpusNotFound.
func (e *CorpusLoadError) Is(target error) bool {
	return target == ErrCorpusNotFound && errors.Is(e.Err, fs.ErrNotExist)
}

func (e *CorpusLoadError) Unwrap() error {
	return e.Err
}

// NewCorpusLoadError creates a new CorpusLoadError
func NewCorpusLoadError(path string, err error) *CorpusLoadError {
	return &CorpusLoadError{Path: path, Err: err}
}

// MalformedCorpusError reports a line that could not be parsed
type MalformedCorpusError struct {
	Path   string
	Line   int
	Reason string
}

func (e *MalformedCorpusError) Error() string {
	return fmt.Sprintf("malformed corpus '%s' at line %d: %s", e.Path, e.Line, e.Reason)
}

func (e *MalformedCorpusError) Is(target error) bool {
	return target == ErrMalformedCorpus
}

// NewMalformedCorpusError creates a new MalformedCorpusError
func NewMalformedCorpusError(path string, line int, reason string) *MalformedCorpusError {
	return &MalformedCorpusError{Path: path, Line: line, Reason: reason}
}

// NoCorpusMatchError represents an empty discovery result with context
type NoCorpusMatchError struct {
	Root    string
	Pattern string
	Filter  string
}

func (e *NoCorpusMatchError) Error() string {
	return fmt.Sprintf("no corpus in '%s' matches pattern '%s' with filter '%s'", e.Root, e.Pattern, e.Filter)
}

func (e *NoCorpusMatchError) Is(target error) bool {
	return target == ErrNoCorpusMatch
}

// NewNoCorpusMatchError creates a new NoCorpusMatchError
func NewNoCorpusMatchError(root, pattern, filter string) *NoCorpusMatchError {
	return &NoCorpusMatchError{Root: root, Pattern: pattern, Filter: filter}
}

// GroupNotFoundError represents a missing corpus group with context
type GroupNotFoundError struct {
	GroupName string
}

func (e *GroupNotFoundError) Error() string {
	return fmt.Sprintf("corpus group named '%s' not found", e.GroupName)
}

func (e *GroupNotFoundError) Is(target error) bool {
	return target == ErrGroupNotFound
}

// NewGroupNotFoundError creates a new GroupNotFoundError
func NewGroupNotFoundError(groupName string) *GroupNotFoundError {
	return &GroupNotFoundError{GroupName: groupName}
}

// JobNotFoundError represents a job not found error with context
type JobNotFoundError struct {
	JobID string
}

func (e *JobNotFoundError) Error() string {
	return fmt.Sprintf("job with ID '%s' not found", e.JobID)
}

func (e *JobNotFoundError) Is(target error) bool {
	return target == ErrJobNotFound
}

// NewJobNotFoundError creates a new JobNotFoundError
func NewJobNotFoundError(jobID string) *JobNotFoundError {
	return &JobNotFoundError{JobID: jobID}
}

// RunNotFoundError represents a run report not found error with context
type RunNotFoundError struct {
	RunID string
}

func (e *RunNotFoundError) Error() string {
	return fmt.Sprintf("run with ID '%s' not found", e.RunID)
}

func (e *RunNotFoundError) Is(target error) bool {
	return target == ErrRunNotFound
}

// NewRunNotFoundError creates a new RunNotFoundError
func NewRunNotFoundError(runID string) *RunNotFoundError {
	return &RunNotFoundError{RunID: runID}
}

// TrainerError wraps a failure returned by a train+eval collaborator
type TrainerError struct {
	Variant string
	Path    string
	Err     error
}

func (e *TrainerError) Error() string {
	return fmt.Sprintf("%s trainer failed for '%s': %v", e.Variant, e.Path, e.Err)
}

func (e *TrainerError) Is(target error) bool {
	return target == ErrTrainerFailed
}

func (e *TrainerError) Unwrap() error {
	return e.Err
}

// NewTrainerError creates a new TrainerError
func NewTrainerError(variant, path string, err error) *TrainerError {
	return &TrainerError{Variant: variant, Path: path, Err: err}
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
