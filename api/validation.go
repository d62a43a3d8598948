// Package api exposes the course search engine over HTTP.
package api

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/course-search/model"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	maxQueryLength  = 512
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

// ValidateCourseID validates a course ID path parameter
func ValidateCourseID(courseID string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if courseID == "" {
		result.AddError("id", "Course ID is required")
		return result
	}

	if strings.TrimSpace(courseID) != courseID {
		result.AddError("id", "Course ID cannot have leading or trailing whitespace")
	}

	return result
}

// ValidateCourses validates courses submitted for addition
func ValidateCourses(courses []model.Course) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if len(courses) == 0 {
		result.AddError("courses", "No courses provided")
		return result
	}

	seen := make(map[string]int, len(courses))
	for i, course := range courses {
		field := fmt.Sprintf("courses[%d]", i)
		if strings.TrimSpace(course.ID) == "" {
			result.AddError(field+".id", "Course must have a non-empty 'id' field")
			continue
		}
		if strings.TrimSpace(course.ID) != course.ID {
			result.AddError(field+".id", "Course ID cannot have leading or trailing whitespace")
		}
		if strings.TrimSpace(course.Name) == "" {
			result.AddError(field+".name", "Course must have a name")
		}
		if first, dup := seen[course.ID]; dup {
			result.AddError(field+".id", fmt.Sprintf("Duplicate course ID '%s' (first at position %d)", course.ID, first))
			continue
		}
		seen[course.ID] = i
	}

	return result
}

// ValidateSearchRequest validates the paging and query length of a search
func ValidateSearchRequest(req SearchRequest) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if len(req.Query) > maxQueryLength {
		result.AddError("query", fmt.Sprintf("Query cannot be longer than %d bytes", maxQueryLength))
	}
	if req.Page < 0 {
		result.AddError("page", "Page number cannot be negative")
	}
	if req.PageSize < 0 || req.PageSize > maxPageSize {
		result.AddError("page_size", fmt.Sprintf("Page size must be between 0 and %d", maxPageSize))
	}

	return result
}

// ValidatePagination normalizes pagination parameters for listings
func ValidatePagination(page, pageSize int) (int, int, *ValidationResult) {
	result := &ValidationResult{Valid: true}

	if page < 0 {
		result.AddError("page", "Page number cannot be negative")
	}
	if pageSize < 0 {
		result.AddError("page_size", "Page size cannot be negative")
	}

	if page == 0 {
		page = 1
	}
	if pageSize == 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	return page, pageSize, result
}

// ValidateJobStatus parses an optional job status filter
func ValidateJobStatus(status string) (*model.JobStatus, *ValidationResult) {
	result := &ValidationResult{Valid: true}
	if status == "" {
		return nil, result
	}

	s := model.JobStatus(status)
	switch s {
	case model.JobStatusPending, model.JobStatusRunning, model.JobStatusCompleted,
		model.JobStatusFailed, model.JobStatusCancelled:
		return &s, result
	}
	result.AddError("status", "Unknown job status '"+status+"'")
	return nil, result
}

// SendValidationError sends a standardized validation error response
func SendValidationError(c *gin.Context, result *ValidationResult) {
	SendStructuredValidationError(c, result)
}

// ValidateQueryBinding validates query parameter binding
func ValidateQueryBinding(c *gin.Context, target interface{}) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if err := c.ShouldBindQuery(target); err != nil {
		result.AddError("query_parameters", "Invalid query parameters: "+err.Error())
	}

	return result
}
