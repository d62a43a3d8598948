package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions
var (
	// ErrCourseNotFound is returned when a course is not in the catalog
	ErrCourseNotFound = errors.New("course not found")

	// ErrCourseAlreadyExists is returned when adding a course whose ID is taken
	ErrCourseAlreadyExists = errors.New("course already exists")

	// ErrCatalogNotLoaded is returned when searching before any course was loaded
	ErrCatalogNotLoaded = errors.New("catalog not loaded")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrJobNotFound is returned when a background job ID is unknown
	ErrJobNotFound = errors.New("job not found")
)

// CourseNotFoundError represents a course not found error with context
type CourseNotFoundError struct {
	CourseID string
}

func (e *CourseNotFoundError) Error() string {
	return fmt.Sprintf("course with ID '%s' not found", e.CourseID)
}

func (e *CourseNotFoundError) Is(target error) bool {
	return target == ErrCourseNotFound
}

// NewCourseNotFoundError creates a new CourseNotFoundError
func NewCourseNotFoundError(courseID string) *CourseNotFoundError {
	return &CourseNotFoundError{CourseID: courseID}
}

// CourseAlreadyExistsError represents a duplicate course ID
type CourseAlreadyExistsError struct {
	CourseID string
}

func (e *CourseAlreadyExistsError) Error() string {
	return fmt.Sprintf("course with ID '%s' already exists", e.CourseID)
}

func (e *CourseAlreadyExistsError) Is(target error) bool {
	return target == ErrCourseAlreadyExists
}

// NewCourseAlreadyExistsError creates a new CourseAlreadyExistsError
func NewCourseAlreadyExistsError(courseID string) *CourseAlreadyExistsError {
	return &CourseAlreadyExistsError{CourseID: courseID}
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

// JobNotFoundError represents an unknown job ID
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
