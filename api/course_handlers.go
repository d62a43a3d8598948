package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	internalErrors "github.com/gcbaptista/course-search/internal/errors"
	"github.com/gcbaptista/course-search/model"
)

// AddCoursesHandler adds or overwrites courses. The body is one course
// object or an array of them.
func (api *API) AddCoursesHandler(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidJSON, "Failed to read request body: "+err.Error())
		return
	}

	courses, err := decodeCourses(body)
	if err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	if result := ValidateCourses(courses); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	added, err := api.engine.AddCourses(c.Request.Context(), courses)
	if err != nil {
		SendEngineError(c, "add courses", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("%d courses stored", len(courses)),
		"added":   added,
		"updated": len(courses) - added,
		"total":   api.engine.CourseCount(),
	})
}

func decodeCourses(body []byte) ([]model.Course, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, errors.New("empty body")
	}

	if trimmed[0] == '[' {
		var courses []model.Course
		if err := json.Unmarshal(trimmed, &courses); err != nil {
			return nil, err
		}
		return courses, nil
	}

	var course model.Course
	if err := json.Unmarshal(trimmed, &course); err != nil {
		return nil, err
	}
	return []model.Course{course}, nil
}

// ListCoursesHandler lists the catalog in catalog order with pagination
func (api *API) ListCoursesHandler(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed, "Invalid page number")
		return
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultPageSize)))
	if err != nil {
		SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed, "Invalid page size")
		return
	}

	page, pageSize, result := ValidatePagination(page, pageSize)
	if result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	courses, total := api.engine.ListCourses((page-1)*pageSize, pageSize)
	c.JSON(http.StatusOK, gin.H{
		"courses":   courses,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetCourseHandler returns a single course by ID
func (api *API) GetCourseHandler(c *gin.Context) {
	courseID := c.Param("id")
	if result := ValidateCourseID(courseID); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	course, err := api.engine.GetCourse(courseID)
	if err != nil {
		if errors.Is(err, internalErrors.ErrCourseNotFound) {
			SendCourseNotFoundError(c, courseID)
			return
		}
		SendInternalError(c, "get course", err)
		return
	}

	c.JSON(http.StatusOK, course)
}

// DeleteCourseHandler removes a course from the catalog and storage
func (api *API) DeleteCourseHandler(c *gin.Context) {
	courseID := c.Param("id")
	if result := ValidateCourseID(courseID); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	if err := api.engine.DeleteCourse(c.Request.Context(), courseID); err != nil {
		if errors.Is(err, internalErrors.ErrCourseNotFound) {
			SendCourseNotFoundError(c, courseID)
			return
		}
		SendEngineError(c, "delete course", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Course '" + courseID + "' deleted"})
}
