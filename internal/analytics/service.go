// Package analytics tracks searches and aggregates them into a dashboard.
package analytics

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/gcbaptista/course-search/model"
)

const (
	maxEventsToKeep   = 10000 // keep the last 10k events
	maxPopularQueries = 5
)

// CatalogSizer reports how many courses are searchable.
type CatalogSizer interface {
	Len() int
}

// Service implements analytics tracking and reporting
type Service struct {
	mutex        sync.RWMutex
	events       []model.SearchEvent
	catalog      CatalogSizer
	dataFilePath string // empty disables persistence

	saveMu  sync.Mutex
	pending sync.WaitGroup
	now     func() time.Time
}

// NewService creates an analytics service. Events are persisted as JSON to
// dataFilePath unless it is empty.
func NewService(catalog CatalogSizer, dataFilePath string) *Service {
	service := &Service{
		events:       make([]model.SearchEvent, 0),
		catalog:      catalog,
		dataFilePath: dataFilePath,
		now:          time.Now,
	}

	if err := service.loadData(); err != nil {
		log.Printf("Warning: Failed to load analytics data: %v", err)
	}

	return service
}

// TrackSearchEvent records a new search event
func (s *Service) TrackSearchEvent(event model.SearchEvent) error {
	if event.SearchType == "" {
		return fmt.Errorf("search event without search type")
	}

	s.mutex.Lock()
	event.Timestamp = s.now()
	s.events = append(s.events, event)
	if len(s.events) > maxEventsToKeep {
		s.events = s.events[len(s.events)-maxEventsToKeep:]
	}
	s.mutex.Unlock()

	if s.dataFilePath != "" {
		s.pending.Add(1)
		go func() {
			defer s.pending.Done()
			if err := s.saveData(); err != nil {
				log.Printf("Warning: Failed to save analytics data: %v", err)
			}
		}()
	}

	return nil
}

// Close waits for pending writes to finish
func (s *Service) Close() {
	s.pending.Wait()
}

// GetDashboardData returns complete analytics dashboard data
func (s *Service) GetDashboardData() (model.AnalyticsDashboard, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	now := s.now()
	yesterday := now.Add(-24 * time.Hour)
	lastWeek := now.Add(-7 * 24 * time.Hour)
	twoWeeksAgo := lastWeek.Add(-7 * 24 * time.Hour)

	last24hEvents := filterEventsByTimeRange(s.events, yesterday, now)
	prev24hEvents := filterEventsByTimeRange(s.events, yesterday.Add(-24*time.Hour), yesterday)
	lastWeekEvents := filterEventsByTimeRange(s.events, lastWeek, now)
	prevWeekEvents := filterEventsByTimeRange(s.events, twoWeeksAgo, lastWeek)

	totalCourses := 0
	if s.catalog != nil {
		totalCourses = s.catalog.Len()
	}

	dashboard := model.AnalyticsDashboard{
		TotalSearches:            len(last24hEvents),
		SearchesChangePercent:    calculateChangePercent(len(last24hEvents), len(prev24hEvents)),
		AvgResponseTime:          calculateAvgResponseTime(last24hEvents),
		ResponseTimeChange:       calculateResponseTimeChange(last24hEvents, prev24hEvents),
		AvgResultCount:           calculateAvgResultCount(last24hEvents),
		TotalCourses:             totalCourses,
		SearchPerformance24h:     getHourlyPerformance(last24hEvents),
		PopularSearches:          getPopularSearches(lastWeekEvents, prevWeekEvents, false),
		ZeroResultQueries:        getPopularSearches(lastWeekEvents, prevWeekEvents, true),
		ResponseTimeDistribution: getResponseTimeDistribution(last24hEvents),
		SearchTypes:              getSearchTypeStats(last24hEvents),
		MemoryUsagePercent:       memoryUsagePercent(),
	}

	return dashboard, nil
}

// filterEventsByTimeRange returns events in (start, end]
func filterEventsByTimeRange(events []model.SearchEvent, start, end time.Time) []model.SearchEvent {
	var filtered []model.SearchEvent
	for _, event := range events {
		if event.Timestamp.After(start) && !event.Timestamp.After(end) {
			filtered = append(filtered, event)
		}
	}
	return filtered
}

// calculateChangePercent calculates percentage change between current and previous values
func calculateChangePercent(current, previous int) float64 {
	if previous == 0 {
		if current > 0 {
			return 100.0
		}
		return 0.0
	}
	return float64(current-previous) / float64(previous) * 100.0
}

// calculateAvgResponseTime calculates average response time for events in milliseconds
func calculateAvgResponseTime(events []model.SearchEvent) int64 {
	if len(events) == 0 {
		return 0
	}

	var total time.Duration
	for _, event := range events {
		total += event.ResponseTime
	}
	return (total / time.Duration(len(events))).Milliseconds()
}

func calculateAvgResultCount(events []model.SearchEvent) float64 {
	if len(events) == 0 {
		return 0
	}
	total := 0
	for _, event := range events {
		total += event.ResultCount
	}
	return float64(total) / float64(len(events))
}

// calculateResponseTimeChange reports "up" or "down" when the average moved by more than 10%
func calculateResponseTimeChange(current, previous []model.SearchEvent) string {
	currentAvg := calculateAvgResponseTime(current)
	previousAvg := calculateAvgResponseTime(previous)

	if previousAvg == 0 {
		return "stable"
	}

	change := float64(currentAvg-previousAvg) / float64(previousAvg)
	if change > 0.1 {
		return "up"
	} else if change < -0.1 {
		return "down"
	}
	return "stable"
}

// getHourlyPerformance returns per-hour counts and latency for the last 24 hours
func getHourlyPerformance(events []model.SearchEvent) []model.SearchPerformanceHourly {
	hourlyData := make(map[int][]model.SearchEvent)
	for _, event := range events {
		hour := event.Timestamp.Hour()
		hourlyData[hour] = append(hourlyData[hour], event)
	}

	performance := make([]model.SearchPerformanceHourly, 0, 24)
	for hour := 0; hour < 24; hour++ {
		events := hourlyData[hour]
		performance = append(performance, model.SearchPerformanceHourly{
			Hour:            hour,
			SearchCount:     len(events),
			AvgResponseTime: calculateAvgResponseTime(events),
		})
	}
	return performance
}

// getPopularSearches returns the most frequent non-empty queries of the current
// window, with their trend against the previous one. zeroResults restricts the
// report to queries that found nothing.
func getPopularSearches(current, previous []model.SearchEvent, zeroResults bool) []model.PopularSearch {
	count := func(events []model.SearchEvent) map[string]int {
		counts := make(map[string]int)
		for _, event := range events {
			if event.Query == "" {
				continue
			}
			if zeroResults && event.SearchType != model.SearchTypeNoResults {
				continue
			}
			counts[event.Query]++
		}
		return counts
	}
	currentCounts := count(current)
	previousCounts := count(previous)

	type queryCount struct {
		query string
		count int
	}
	queries := make([]queryCount, 0, len(currentCounts))
	for query, c := range currentCounts {
		queries = append(queries, queryCount{query: query, count: c})
	}

	sort.Slice(queries, func(i, j int) bool {
		if queries[i].count != queries[j].count {
			return queries[i].count > queries[j].count
		}
		return queries[i].query < queries[j].query
	})

	popular := make([]model.PopularSearch, 0, maxPopularQueries)
	for i, qc := range queries {
		if i >= maxPopularQueries {
			break
		}
		trend := "stable"
		switch before := previousCounts[qc.query]; {
		case qc.count > before:
			trend = "up"
		case qc.count < before:
			trend = "down"
		}
		popular = append(popular, model.PopularSearch{
			Query:       qc.query,
			SearchCount: qc.count,
			TrendChange: trend,
		})
	}
	return popular
}

// getResponseTimeDistribution returns response time distribution
func getResponseTimeDistribution(events []model.SearchEvent) model.ResponseTimeDistribution {
	dist := model.ResponseTimeDistribution{}
	total := len(events)
	if total == 0 {
		return dist
	}

	for _, event := range events {
		ms := event.ResponseTime.Milliseconds()
		switch {
		case ms <= 25:
			dist.Bucket0To25ms++
		case ms <= 50:
			dist.Bucket25To50ms++
		case ms <= 100:
			dist.Bucket50To100ms++
		default:
			dist.Bucket100msPlus++
		}
	}

	dist.Percentage0To25 = float64(dist.Bucket0To25ms) / float64(total) * 100
	dist.Percentage25To50 = float64(dist.Bucket25To50ms) / float64(total) * 100
	dist.Percentage50To100 = float64(dist.Bucket50To100ms) / float64(total) * 100
	dist.Percentage100Plus = float64(dist.Bucket100msPlus) / float64(total) * 100

	return dist
}

// getSearchTypeStats counts searches per search type
func getSearchTypeStats(events []model.SearchEvent) model.SearchTypeStats {
	stats := model.SearchTypeStats{}
	for _, event := range events {
		switch event.SearchType {
		case model.SearchTypeRanked:
			stats.Ranked++
		case model.SearchTypeBrowse:
			stats.Browse++
		case model.SearchTypeNoResults:
			stats.NoResults++
		}
	}
	return stats
}

func memoryUsagePercent() float64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	if m.Sys == 0 {
		return 0
	}
	return float64(m.Alloc) / float64(m.Sys) * 100
}

// loadData loads analytics data from file
func (s *Service) loadData() error {
	if s.dataFilePath == "" {
		return nil
	}

	data, err := os.ReadFile(s.dataFilePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read analytics file: %w", err)
	}

	if err := json.Unmarshal(data, &s.events); err != nil {
		return fmt.Errorf("failed to unmarshal analytics data: %w", err)
	}
	return nil
}

// saveData writes all events to the data file through a temporary file
func (s *Service) saveData() error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mutex.RLock()
	data, err := json.MarshalIndent(s.events, "", "  ")
	s.mutex.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal analytics data: %w", err)
	}

	dir := filepath.Dir(s.dataFilePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create analytics directory: %w", err)
	}

	tmp := s.dataFilePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write analytics file: %w", err)
	}
	if err := os.Rename(tmp, s.dataFilePath); err != nil {
		return fmt.Errorf("failed to replace analytics file: %w", err)
	}
	return nil
}
