package services

import (
	"context"

	"github.com/gcbaptista/course-search/config"
	"github.com/gcbaptista/course-search/model"
)

// SearchQuery is one search request against the catalog.
type SearchQuery struct {
	QueryString string `json:"query"`
	Page        int    `json:"page,omitempty"`      // 1-based; 0 means 1
	PageSize    int    `json:"page_size,omitempty"` // 0 means every ranked hit
}

// SearchResult is the ranked, paginated answer to a SearchQuery.
type SearchResult struct {
	Hits     []model.ScoredCourse `json:"hits"`
	Total    int                  `json:"total"` // hits before pagination
	Page     int                  `json:"page"`
	PageSize int                  `json:"page_size"`
	Took     int64                `json:"took"`     // milliseconds
	QueryId  string               `json:"query_id"` // unique UUID for this search query

	// Suggestion is a spelling-corrected query, set only when nothing matched
	Suggestion string `json:"suggestion,omitempty"`
}

// Ranker orders candidate courses for a query
type Ranker interface {
	Rank(query string, candidates []model.Course) []model.Course
	RankWithScores(query string, candidates []model.Course) []model.ScoredCourse
	Settings() config.Settings
}

// Catalog is the in-memory course collection searches run against
type Catalog interface {
	Add(course model.Course) error
	Upsert(courses []model.Course) (int, error)
	Replace(courses []model.Course) error
	Get(id string) (model.Course, error)
	Delete(id string) error
	List(offset, limit int) ([]model.Course, int)
	Snapshot() []model.Course
	Len() int
}

// CatalogRepository persists the catalog
type CatalogRepository interface {
	UpsertCourses(ctx context.Context, courses []model.Course) (int, error)
	ReplaceCourses(ctx context.Context, courses []model.Course) error
	ListCourses(ctx context.Context) ([]model.Course, error)
	DeleteCourse(ctx context.Context, id string) error
	Health(ctx context.Context) error
}

// Searcher runs searches against the catalog
type Searcher interface {
	Search(query SearchQuery) (SearchResult, error)
}

// CourseManager reads and changes the catalog, keeping memory and storage in step
type CourseManager interface {
	AddCourses(ctx context.Context, courses []model.Course) (int, error)
	GetCourse(id string) (model.Course, error)
	DeleteCourse(ctx context.Context, id string) error
	ListCourses(offset, limit int) ([]model.Course, int)
	CourseCount() int
}

// JobManager defines operations for managing background jobs
type JobManager interface {
	GetJob(jobID string) (*model.Job, error)
	ListJobs(status *model.JobStatus) []*model.Job
}

// CatalogLoader starts background catalog imports and reloads
type CatalogLoader interface {
	ImportCatalogAsync(courses []model.Course, replace bool) (string, error) // returns job ID
	ReloadCatalogAsync() (string, error)                                     // returns job ID
}

// Engine is everything the HTTP API needs
type Engine interface {
	Searcher
	CourseManager
	JobManager
	CatalogLoader
	Settings() config.Settings
	UpdateSettings(settings config.Settings) error
	Health(ctx context.Context) error
}

// AnalyticsTracker records and reports search analytics
type AnalyticsTracker interface {
	TrackSearchEvent(event model.SearchEvent) error
	GetDashboardData() (model.AnalyticsDashboard, error)
}
