// Package metrics exposes Prometheus instrumentation for searches, catalog size
// and background jobs.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "course_search"

var catalogCoursesDesc = prometheus.NewDesc(
	namespace+"_catalog_courses",
	"Number of courses currently in the catalog",
	nil,
	nil,
)

// CatalogCollector reads the catalog size on each scrape.
type CatalogCollector struct {
	size func() int
}

// Describe sends the metric descriptor to the channel.
func (c *CatalogCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- catalogCoursesDesc
}

// Collect emits the current catalog size as a gauge.
func (c *CatalogCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(catalogCoursesDesc, prometheus.GaugeValue, float64(c.size()))
}

// Metrics owns a private registry so several servers (and tests) can coexist
// in one process.
type Metrics struct {
	registry       *prometheus.Registry
	searches       *prometheus.CounterVec
	searchDuration prometheus.Histogram
	searchResults  prometheus.Histogram
	jobs           *prometheus.CounterVec
	jobDuration    *prometheus.HistogramVec
}

// New creates the metric set. catalogSize may be nil when no catalog is attached.
func New(catalogSize func() int) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Total searches by search type",
		}, []string{"search_type"}),
		searchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Time spent ranking one search",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}),
		searchResults: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_results",
			Help:      "Number of courses returned per search",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
		}),
		jobs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_total",
			Help:      "Background jobs by type and final status",
		}, []string{"type", "status"}),
		jobDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "job_duration_seconds",
			Help:      "Background job execution time",
			Buckets:   prometheus.DefBuckets,
		}, []string{"type"}),
	}

	m.registry.MustRegister(
		m.searches,
		m.searchDuration,
		m.searchResults,
		m.jobs,
		m.jobDuration,
		collectors.NewGoCollector(),
	)
	if catalogSize != nil {
		m.registry.MustRegister(&CatalogCollector{size: catalogSize})
	}
	return m
}

// ObserveSearch records one completed search.
func (m *Metrics) ObserveSearch(searchType string, took time.Duration, results int) {
	m.searches.WithLabelValues(searchType).Inc()
	m.searchDuration.Observe(took.Seconds())
	m.searchResults.Observe(float64(results))
}

// ObserveJob records a job reaching a final status.
func (m *Metrics) ObserveJob(jobType, status string, took time.Duration) {
	m.jobs.WithLabelValues(jobType, status).Inc()
	m.jobDuration.WithLabelValues(jobType).Observe(took.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
