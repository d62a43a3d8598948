package model

import "time"

// Search types recorded for analytics
const (
	SearchTypeRanked    = "ranked"     // non-empty query with at least one hit
	SearchTypeBrowse    = "browse"     // empty query, catalog returned unranked
	SearchTypeNoResults = "no_results" // non-empty query without hits
)

// SearchEvent represents a single search event for analytics tracking
type SearchEvent struct {
	QueryID        string        `json:"query_id,omitempty"`
	Query          string        `json:"query"`
	SearchType     string        `json:"search_type"`
	ResponseTime   time.Duration `json:"response_time"`
	ResultCount    int           `json:"result_count"`
	CandidateCount int           `json:"candidate_count"`
	Timestamp      time.Time     `json:"timestamp"`
}

// PopularSearch represents aggregated data for popular search terms
type PopularSearch struct {
	Query       string `json:"query"`
	SearchCount int    `json:"search_count"`
	TrendChange string `json:"trend_change,omitempty"` // "up", "down", "stable"
}

// ResponseTimeDistribution represents response time distribution buckets
type ResponseTimeDistribution struct {
	Bucket0To25ms     int     `json:"bucket_0_25ms"`
	Bucket25To50ms    int     `json:"bucket_25_50ms"`
	Bucket50To100ms   int     `json:"bucket_50_100ms"`
	Bucket100msPlus   int     `json:"bucket_100ms_plus"`
	Percentage0To25   float64 `json:"percentage_0_25"`
	Percentage25To50  float64 `json:"percentage_25_50"`
	Percentage50To100 float64 `json:"percentage_50_100"`
	Percentage100Plus float64 `json:"percentage_100_plus"`
}

// SearchTypeStats counts searches per search type
type SearchTypeStats struct {
	Ranked    int `json:"ranked"`
	Browse    int `json:"browse"`
	NoResults int `json:"no_results"`
}

// SearchPerformanceHourly represents hourly search performance data
type SearchPerformanceHourly struct {
	Hour            int   `json:"hour"`
	SearchCount     int   `json:"search_count"`
	AvgResponseTime int64 `json:"avg_response_time"` // in milliseconds
}

// AnalyticsDashboard represents the complete analytics dashboard data
type AnalyticsDashboard struct {
	// Summary metrics
	TotalSearches         int     `json:"total_searches"`
	SearchesChangePercent float64 `json:"searches_change_percent"`
	AvgResponseTime       int64   `json:"avg_response_time"` // in milliseconds
	ResponseTimeChange    string  `json:"response_time_change"`
	AvgResultCount        float64 `json:"avg_result_count"`
	TotalCourses          int     `json:"total_courses"`

	// Detailed analytics
	SearchPerformance24h     []SearchPerformanceHourly `json:"search_performance_24h"`
	PopularSearches          []PopularSearch           `json:"popular_searches"`
	ZeroResultQueries        []PopularSearch           `json:"zero_result_queries"`
	ResponseTimeDistribution ResponseTimeDistribution  `json:"response_time_distribution"`
	SearchTypes              SearchTypeStats           `json:"search_types"`
	MemoryUsagePercent       float64                   `json:"memory_usage_percent"`
}
