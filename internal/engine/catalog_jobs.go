package engine

import (
	"context"
	"fmt"
	"log"
	"strconv"

	internalErrors "github.com/gcbaptista/course-search/internal/errors"
	"github.com/gcbaptista/course-search/model"
)

// ImportCatalogAsync merges courses into the catalog in a background job, or
// replaces the catalog with them when replace is set. It returns the job ID.
func (e *Engine) ImportCatalogAsync(courses []model.Course, replace bool) (string, error) {
	seen := make(map[string]struct{}, len(courses))
	for i, c := range courses {
		if c.ID == "" {
			return "", internalErrors.NewValidationError("id", fmt.Sprintf("course at position %d has no id", i))
		}
		if _, dup := seen[c.ID]; dup {
			return "", internalErrors.NewCourseAlreadyExistsError(c.ID)
		}
		seen[c.ID] = struct{}{}
	}

	jobID := e.jobManager.CreateJob(model.JobTypeImportCatalog, map[string]string{
		"courses": strconv.Itoa(len(courses)),
		"replace": strconv.FormatBool(replace),
	})

	err := e.jobManager.ExecuteJob(jobID, func(ctx context.Context, jobID string) error {
		return e.executeImportJob(ctx, jobID, courses, replace)
	})
	if err != nil {
		return "", fmt.Errorf("failed to start import job: %w", err)
	}
	return jobID, nil
}

func (e *Engine) executeImportJob(ctx context.Context, jobID string, courses []model.Course, replace bool) error {
	total := len(courses)
	e.jobManager.UpdateJobProgress(jobID, 0, total, "Storing courses")

	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	if e.repo != nil {
		var err error
		if replace {
			err = e.repo.ReplaceCourses(ctx, courses)
		} else {
			_, err = e.repo.UpsertCourses(ctx, courses)
		}
		if err != nil {
			return fmt.Errorf("failed to persist catalog: %w", err)
		}
	}

	defer e.invalidateSuggestions()
	added := total
	if replace {
		if err := e.catalog.Replace(courses); err != nil {
			return err
		}
	} else {
		var err error
		if added, err = e.catalog.Upsert(courses); err != nil {
			return err
		}
	}

	e.jobManager.SetJobMetadata(jobID, "courses_added", strconv.Itoa(added))
	e.jobManager.UpdateJobProgress(jobID, total, total, "Catalog updated")
	log.Printf("Info: Imported %d courses (%d new, replace=%t)", total, added, replace)
	return nil
}

// ReloadCatalogAsync reloads the in-memory catalog from the repository in a
// background job and returns the job ID.
func (e *Engine) ReloadCatalogAsync() (string, error) {
	if e.repo == nil {
		return "", fmt.Errorf("no catalog repository configured")
	}

	jobID := e.jobManager.CreateJob(model.JobTypeReloadCatalog, nil)
	err := e.jobManager.ExecuteJob(jobID, func(ctx context.Context, jobID string) error {
		count, err := e.LoadFromRepository(ctx)
		if err != nil {
			return err
		}
		e.jobManager.SetJobMetadata(jobID, "courses_loaded", strconv.Itoa(count))
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to start reload job: %w", err)
	}
	return jobID, nil
}
