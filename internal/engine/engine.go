// Package engine ties the catalog, the ranker, persistence and background jobs
// together behind the services.Engine interface.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/gcbaptista/course-search/config"
	internalErrors "github.com/gcbaptista/course-search/internal/errors"
	"github.com/gcbaptista/course-search/internal/jobs"
	"github.com/gcbaptista/course-search/internal/search"
	"github.com/gcbaptista/course-search/internal/suggest"
	"github.com/gcbaptista/course-search/model"
	"github.com/gcbaptista/course-search/services"
)

const defaultJobWorkers = 2

var _ services.Engine = (*Engine)(nil)

// SearchObserver receives the outcome of every search.
type SearchObserver interface {
	ObserveSearch(searchType string, took time.Duration, results int)
}

// JobObserver receives the outcome of every background job.
type JobObserver = jobs.Observer

// Options wires the optional collaborators of an Engine. Nil fields disable
// the corresponding feature.
type Options struct {
	Repository    services.CatalogRepository
	Analytics     services.AnalyticsTracker
	Metrics       SearchObserver
	JobMetrics    JobObserver
	MaxJobWorkers int
}

// Engine serves searches from the in-memory catalog and keeps it in step
// with the repository. It implements services.Engine.
type Engine struct {
	rankerMu sync.RWMutex
	ranker   services.Ranker

	// writeMu serializes catalog writes so memory and repository apply them
	// in the same order.
	writeMu sync.Mutex

	// catalogGen counts catalog writes; the suggester is rebuilt lazily for
	// the generation a search snapshot was taken at.
	catalogGen   atomic.Uint64
	suggestMu    sync.Mutex
	suggester    *suggest.Suggester
	suggesterGen uint64

	catalog    services.Catalog
	repo       services.CatalogRepository
	analytics  services.AnalyticsTracker
	metrics    SearchObserver
	jobManager *jobs.Manager
}

// NewEngine creates an engine over catalog using settings for ranking.
func NewEngine(settings *config.Settings, catalog services.Catalog, opts Options) (*Engine, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog cannot be nil")
	}
	ranker, err := search.NewRanker(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to create ranker: %w", err)
	}

	workers := opts.MaxJobWorkers
	if workers <= 0 {
		workers = defaultJobWorkers
	}

	return &Engine{
		ranker:     ranker,
		catalog:    catalog,
		repo:       opts.Repository,
		analytics:  opts.Analytics,
		metrics:    opts.Metrics,
		jobManager: jobs.NewManager(workers, opts.JobMetrics),
	}, nil
}

// Start starts background job housekeeping
func (e *Engine) Start() {
	e.jobManager.Start()
}

// Stop waits for running jobs to finish
func (e *Engine) Stop() {
	e.jobManager.Stop()
}

func (e *Engine) currentRanker() services.Ranker {
	e.rankerMu.RLock()
	defer e.rankerMu.RUnlock()
	return e.ranker
}

// Settings returns the ranking settings in use
func (e *Engine) Settings() config.Settings {
	return e.currentRanker().Settings()
}

// UpdateSettings validates settings and swaps the ranker. Searches already
// running finish with the previous settings.
func (e *Engine) UpdateSettings(settings config.Settings) error {
	ranker, err := search.NewRanker(&settings)
	if err != nil {
		return err
	}

	e.rankerMu.Lock()
	e.ranker = ranker
	e.rankerMu.Unlock()
	log.Printf("Info: Ranking settings updated")
	return nil
}

// Search ranks a snapshot of the catalog for query and returns one page of hits.
func (e *Engine) Search(query services.SearchQuery) (services.SearchResult, error) {
	if query.Page < 0 {
		return services.SearchResult{}, internalErrors.NewValidationError("page", "must not be negative")
	}
	if query.PageSize < 0 {
		return services.SearchResult{}, internalErrors.NewValidationError("page_size", "must not be negative")
	}

	start := time.Now()
	gen := e.catalogGen.Load()
	candidates := e.catalog.Snapshot()
	hits := e.currentRanker().RankWithScores(query.QueryString, candidates)
	took := time.Since(start)

	page := query.Page
	if page == 0 {
		page = 1
	}
	pageSize := query.PageSize
	if pageSize == 0 {
		pageSize = len(hits)
	}

	result := services.SearchResult{
		Hits:     paginate(hits, page, pageSize),
		Total:    len(hits),
		Page:     page,
		PageSize: pageSize,
		Took:     took.Milliseconds(),
		QueryId:  uuid.New().String(),
	}

	searchType := searchTypeOf(query.QueryString, result.Total)
	if searchType == model.SearchTypeNoResults {
		result.Suggestion = e.suggestions(gen, candidates).Suggest(query.QueryString)
	}
	if e.metrics != nil {
		e.metrics.ObserveSearch(searchType, took, result.Total)
	}
	if e.analytics != nil {
		event := model.SearchEvent{
			QueryID:        result.QueryId,
			Query:          query.QueryString,
			SearchType:     searchType,
			ResponseTime:   took,
			ResultCount:    result.Total,
			CandidateCount: len(candidates),
		}
		if err := e.analytics.TrackSearchEvent(event); err != nil {
			log.Printf("Warning: Failed to track search event: %v", err)
		}
	}

	return result, nil
}

func (e *Engine) suggestions(gen uint64, candidates []model.Course) *suggest.Suggester {
	e.suggestMu.Lock()
	defer e.suggestMu.Unlock()
	if e.suggester != nil && e.suggesterGen == gen {
		return e.suggester
	}

	s := suggest.FromCourses(candidates)
	if gen == e.catalogGen.Load() {
		e.suggester, e.suggesterGen = s, gen
	}
	return s
}

func (e *Engine) invalidateSuggestions() {
	e.catalogGen.Add(1)
}

func paginate(hits []model.ScoredCourse, page, pageSize int) []model.ScoredCourse {
	if pageSize <= 0 {
		return []model.ScoredCourse{}
	}
	start := (page - 1) * pageSize
	if start >= len(hits) {
		return []model.ScoredCourse{}
	}
	end := start + pageSize
	if end > len(hits) {
		end = len(hits)
	}
	return hits[start:end]
}

func searchTypeOf(query string, total int) string {
	switch {
	case strings.TrimSpace(query) == "":
		return model.SearchTypeBrowse
	case total == 0:
		return model.SearchTypeNoResults
	default:
		return model.SearchTypeRanked
	}
}

// GetCourse returns one course from the catalog
func (e *Engine) GetCourse(id string) (model.Course, error) {
	return e.catalog.Get(id)
}

// ListCourses returns one page of the catalog in catalog order
func (e *Engine) ListCourses(offset, limit int) ([]model.Course, int) {
	return e.catalog.List(offset, limit)
}

// CourseCount returns the catalog size
func (e *Engine) CourseCount() int {
	return e.catalog.Len()
}

// AddCourses stores courses, overwriting those whose ID already exists, and
// returns how many were new. The repository is written first so a storage
// failure leaves memory untouched.
func (e *Engine) AddCourses(ctx context.Context, courses []model.Course) (int, error) {
	for i, c := range courses {
		if c.ID == "" {
			return 0, internalErrors.NewValidationError("id", fmt.Sprintf("course at position %d has no id", i))
		}
	}

	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	if e.repo != nil {
		if _, err := e.repo.UpsertCourses(ctx, courses); err != nil {
			return 0, fmt.Errorf("failed to persist courses: %w", err)
		}
	}
	defer e.invalidateSuggestions()
	return e.catalog.Upsert(courses)
}

// DeleteCourse removes a course from memory and storage
func (e *Engine) DeleteCourse(ctx context.Context, id string) error {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	if _, err := e.catalog.Get(id); err != nil {
		return err
	}
	if e.repo != nil {
		if err := e.repo.DeleteCourse(ctx, id); err != nil && !errors.Is(err, internalErrors.ErrCourseNotFound) {
			return fmt.Errorf("failed to delete course from storage: %w", err)
		}
	}
	defer e.invalidateSuggestions()
	return e.catalog.Delete(id)
}

// LoadFromRepository replaces the in-memory catalog with the stored one.
func (e *Engine) LoadFromRepository(ctx context.Context) (int, error) {
	if e.repo == nil {
		return 0, fmt.Errorf("no catalog repository configured")
	}

	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	courses, err := e.repo.ListCourses(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load catalog: %w", err)
	}
	if err := e.catalog.Replace(courses); err != nil {
		return 0, fmt.Errorf("failed to install catalog: %w", err)
	}
	e.invalidateSuggestions()
	log.Printf("Info: Loaded %d courses from storage", len(courses))
	return len(courses), nil
}

// Health reports whether the repository is reachable. Without a repository
// the engine is always healthy.
func (e *Engine) Health(ctx context.Context) error {
	if e.repo == nil {
		return nil
	}
	return e.repo.Health(ctx)
}

// GetJob returns a background job by ID
func (e *Engine) GetJob(jobID string) (*model.Job, error) {
	return e.jobManager.GetJob(jobID)
}

// ListJobs returns background jobs, newest first
func (e *Engine) ListJobs(status *model.JobStatus) []*model.Job {
	return e.jobManager.ListJobs(status)
}
