package analytics

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/gcbaptista/course-search/model"
)

// fixedCatalog is a simple catalog stub for testing
type fixedCatalog int

func (c fixedCatalog) Len() int { return int(c) }

// clock lets a test move time forward between tracked events
type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestService(t *testing.T, catalog CatalogSizer) (*Service, *clock) {
	t.Helper()
	service := NewService(catalog, "")
	c := &clock{t: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)}
	service.now = c.now
	return service, c
}

func track(t *testing.T, s *Service, query, searchType string, took time.Duration, results int) {
	t.Helper()
	err := s.TrackSearchEvent(model.SearchEvent{
		Query:        query,
		SearchType:   searchType,
		ResponseTime: took,
		ResultCount:  results,
	})
	if err != nil {
		t.Fatalf("Failed to track search event: %v", err)
	}
}

func TestAnalyticsService_TrackSearchEvent(t *testing.T) {
	service, c := newTestService(t, fixedCatalog(3))

	track(t, service, "computer science", model.SearchTypeRanked, 5*time.Millisecond, 2)

	if len(service.events) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(service.events))
	}
	stored := service.events[0]
	if stored.Query != "computer science" {
		t.Errorf("Expected query 'computer science', got %s", stored.Query)
	}
	if !stored.Timestamp.Equal(c.t) {
		t.Errorf("Expected timestamp %v, got %v", c.t, stored.Timestamp)
	}

	if err := service.TrackSearchEvent(model.SearchEvent{Query: "x"}); err == nil {
		t.Error("Expected an error for an event without search type")
	}
}

func TestAnalyticsService_EventCap(t *testing.T) {
	service, _ := newTestService(t, nil)

	for i := 0; i < maxEventsToKeep+5; i++ {
		track(t, service, "q", model.SearchTypeRanked, time.Millisecond, 1)
	}
	if len(service.events) != maxEventsToKeep {
		t.Errorf("Expected %d events, got %d", maxEventsToKeep, len(service.events))
	}
}

func TestAnalyticsService_GetDashboardData(t *testing.T) {
	service, c := newTestService(t, fixedCatalog(42))
	start := c.t

	// previous week
	c.t = start.Add(-8 * 24 * time.Hour)
	track(t, service, "calculus", model.SearchTypeRanked, 10*time.Millisecond, 3)
	track(t, service, "calculus", model.SearchTypeRanked, 10*time.Millisecond, 3)

	// last 24 hours
	c.t = start.Add(-2 * time.Hour)
	track(t, service, "calculus", model.SearchTypeRanked, 30*time.Millisecond, 4)
	track(t, service, "computer science", model.SearchTypeRanked, 60*time.Millisecond, 6)
	track(t, service, "computer science", model.SearchTypeRanked, 120*time.Millisecond, 8)
	track(t, service, "quidditch", model.SearchTypeNoResults, 10*time.Millisecond, 0)
	track(t, service, "", model.SearchTypeBrowse, 10*time.Millisecond, 42)

	c.t = start
	dashboard, err := service.GetDashboardData()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if dashboard.TotalSearches != 5 {
		t.Errorf("Expected 5 searches in the last 24h, got %d", dashboard.TotalSearches)
	}
	if dashboard.TotalCourses != 42 {
		t.Errorf("Expected 42 courses, got %d", dashboard.TotalCourses)
	}
	if dashboard.AvgResponseTime != 46 {
		t.Errorf("Expected average response time 46ms, got %d", dashboard.AvgResponseTime)
	}
	if dashboard.AvgResultCount != 12 {
		t.Errorf("Expected average result count 12, got %v", dashboard.AvgResultCount)
	}
	if len(dashboard.SearchPerformance24h) != 24 {
		t.Errorf("Expected 24 hourly performance entries, got %d", len(dashboard.SearchPerformance24h))
	}

	stats := dashboard.SearchTypes
	if stats.Ranked != 3 || stats.NoResults != 1 || stats.Browse != 1 {
		t.Errorf("Unexpected search type stats: %+v", stats)
	}

	dist := dashboard.ResponseTimeDistribution
	if dist.Bucket0To25ms != 2 || dist.Bucket25To50ms != 1 || dist.Bucket50To100ms != 1 || dist.Bucket100msPlus != 1 {
		t.Errorf("Unexpected response time distribution: %+v", dist)
	}

	popular := dashboard.PopularSearches
	if len(popular) != 3 {
		t.Fatalf("Expected 3 popular searches, got %d: %+v", len(popular), popular)
	}
	if popular[0].Query != "computer science" || popular[0].SearchCount != 2 || popular[0].TrendChange != "up" {
		t.Errorf("Unexpected top search: %+v", popular[0])
	}
	if popular[1].Query != "calculus" || popular[1].TrendChange != "down" {
		t.Errorf("Expected calculus trending down, got %+v", popular[1])
	}

	zero := dashboard.ZeroResultQueries
	if len(zero) != 1 || zero[0].Query != "quidditch" {
		t.Errorf("Unexpected zero-result queries: %+v", zero)
	}
}

func TestAnalyticsService_EmptyDashboard(t *testing.T) {
	service, _ := newTestService(t, nil)

	dashboard, err := service.GetDashboardData()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if dashboard.TotalSearches != 0 || dashboard.AvgResponseTime != 0 || dashboard.ResponseTimeChange != "stable" {
		t.Errorf("Unexpected empty dashboard: %+v", dashboard)
	}
	if len(dashboard.PopularSearches) != 0 {
		t.Errorf("Expected no popular searches, got %+v", dashboard.PopularSearches)
	}
}

func TestAnalyticsService_Persistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "analytics.json")

	service := NewService(nil, path)
	track(t, service, "organic chemistry", model.SearchTypeRanked, 5*time.Millisecond, 4)
	track(t, service, "poetry", model.SearchTypeRanked, 5*time.Millisecond, 2)
	service.Close()

	reloaded := NewService(nil, path)
	if len(reloaded.events) != 2 {
		t.Fatalf("Expected 2 reloaded events, got %d", len(reloaded.events))
	}
	if reloaded.events[1].Query != "poetry" {
		t.Errorf("Expected second event 'poetry', got %s", reloaded.events[1].Query)
	}
}

func TestCalculateChangePercent(t *testing.T) {
	tests := []struct {
		current, previous int
		want              float64
	}{
		{0, 0, 0},
		{5, 0, 100},
		{15, 10, 50},
		{5, 10, -50},
	}

	for _, tt := range tests {
		if got := calculateChangePercent(tt.current, tt.previous); got != tt.want {
			t.Errorf("calculateChangePercent(%d, %d) = %v, want %v", tt.current, tt.previous, got, tt.want)
		}
	}
}
