package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/course-search/internal/catalog"
	internalErrors "github.com/gcbaptista/course-search/internal/errors"
)

// ImportCatalogHandler starts an import of a catalog document (native course
// array or scraped department map). ?replace=true swaps the whole catalog.
func (api *API) ImportCatalogHandler(c *gin.Context) {
	replace, err := strconv.ParseBool(c.DefaultQuery("replace", "false"))
	if err != nil {
		SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed, "replace must be a boolean")
		return
	}

	parsed, err := catalog.Parse(c.Request.Body)
	if err != nil {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidCatalog, "Invalid catalog: "+err.Error())
		return
	}
	if len(parsed.Courses) == 0 {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidCatalog, "Catalog contains no usable courses")
		return
	}

	jobID, err := api.engine.ImportCatalogAsync(parsed.Courses, replace)
	if err != nil {
		if errors.Is(err, internalErrors.ErrInvalidInput) || errors.Is(err, internalErrors.ErrCourseAlreadyExists) {
			SendEngineError(c, "import catalog", err)
			return
		}
		SendJobExecutionError(c, "import", err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status":     "accepted",
		"message":    "Catalog import started",
		"job_id":     jobID,
		"courses":    len(parsed.Courses),
		"skipped":    len(parsed.Skipped),
		"duplicates": parsed.Duplicates,
	})
}

// ReloadCatalogHandler starts a reload of the in-memory catalog from storage
func (api *API) ReloadCatalogHandler(c *gin.Context) {
	jobID, err := api.engine.ReloadCatalogAsync()
	if err != nil {
		SendJobExecutionError(c, "reload", err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status":  "accepted",
		"message": "Catalog reload started",
		"job_id":  jobID,
	})
}

// GetJobHandler handles requests to get job status by ID
func (api *API) GetJobHandler(c *gin.Context) {
	jobID := c.Param("jobId")

	job, err := api.engine.GetJob(jobID)
	if err != nil {
		if errors.Is(err, internalErrors.ErrJobNotFound) {
			SendJobNotFoundError(c, jobID)
			return
		}
		SendInternalError(c, "get job", err)
		return
	}

	c.JSON(http.StatusOK, job)
}

// ListJobsHandler lists background jobs, optionally filtered by ?status=
func (api *API) ListJobsHandler(c *gin.Context) {
	status, result := ValidateJobStatus(c.Query("status"))
	if result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	jobs := api.engine.ListJobs(status)
	c.JSON(http.StatusOK, gin.H{
		"jobs":  jobs,
		"total": len(jobs),
	})
}
