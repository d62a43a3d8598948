// Package jobs runs catalog imports and reloads in the background.
package jobs

import (
	"context"
	"fmt"
	"log"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gcbaptista/course-search/internal/errors"
	"github.com/gcbaptista/course-search/model"
)

// Observer is notified when a job reaches a final status.
type Observer interface {
	ObserveJob(jobType, status string, took time.Duration)
}

// Manager handles background job execution and tracking
type Manager struct {
	mu       sync.RWMutex
	jobs     map[string]*model.Job
	queued   map[string]struct{} // pending jobs already handed to ExecuteJob
	workers  chan struct{}       // limits concurrent jobs
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	observer Observer
}

// NewManager creates a new job manager with specified worker count.
// observer may be nil.
func NewManager(maxWorkers int, observer Observer) *Manager {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &Manager{
		jobs:     make(map[string]*model.Job),
		queued:   make(map[string]struct{}),
		workers:  make(chan struct{}, maxWorkers),
		stopChan: make(chan struct{}),
		observer: observer,
	}
}

// Start begins the background cleanup of finished jobs
func (m *Manager) Start() {
	log.Printf("Job manager started with %d max workers", cap(m.workers))
	go m.cleanupRoutine()
}

// Stop waits for running jobs and shuts the manager down. It is safe to call
// more than once.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopChan)
		m.wg.Wait()
		log.Printf("Job manager stopped")
	})
}

// CreateJob creates a pending job and returns its ID
func (m *Manager) CreateJob(jobType model.JobType, metadata map[string]string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	job := &model.Job{
		ID:        uuid.New().String(),
		Type:      jobType,
		Status:    model.JobStatusPending,
		CreatedAt: time.Now(),
		Metadata:  maps.Clone(metadata),
	}

	m.jobs[job.ID] = job
	log.Printf("Created job %s (type: %s)", job.ID, job.Type)
	return job.ID
}

// GetJob retrieves a copy of a job by ID
func (m *Manager) GetJob(jobID string) (*model.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return nil, errors.NewJobNotFoundError(jobID)
	}
	return copyJob(job), nil
}

// ListJobs returns all jobs, newest first, optionally filtered by status
func (m *Manager) ListJobs(status *model.JobStatus) []*model.Job {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*model.Job, 0, len(m.jobs))
	for _, job := range m.jobs {
		if status == nil || job.Status == *status {
			result = append(result, copyJob(job))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

// copyJob returns a copy that shares no mutable state with the tracked job
func copyJob(job *model.Job) *model.Job {
	jobCopy := *job
	jobCopy.Metadata = maps.Clone(job.Metadata)
	if job.Progress != nil {
		progressCopy := *job.Progress
		jobCopy.Progress = &progressCopy
	}
	return &jobCopy
}

// ExecuteJob schedules jobFunc and returns at once. The job stays pending
// until a worker slot is free. The job must be pending and not yet scheduled.
func (m *Manager) ExecuteJob(jobID string, jobFunc func(ctx context.Context, jobID string) error) error {
	m.mu.Lock()
	job, exists := m.jobs[jobID]
	if !exists {
		m.mu.Unlock()
		return errors.NewJobNotFoundError(jobID)
	}
	if job.Status != model.JobStatusPending {
		m.mu.Unlock()
		return fmt.Errorf("job with ID '%s' is not in pending status (current: %s)", jobID, job.Status)
	}
	if _, dup := m.queued[jobID]; dup {
		m.mu.Unlock()
		return fmt.Errorf("job with ID '%s' is already scheduled", jobID)
	}
	m.queued[jobID] = struct{}{}
	jobType := job.Type
	m.mu.Unlock()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		cancelled := func() {
			m.finishJob(jobID, model.JobStatusCancelled, "Job manager shutting down", 0)
			log.Printf("Job %s (%s) cancelled before start", jobID, jobType)
		}
		select {
		case m.workers <- struct{}{}:
		case <-m.stopChan:
			cancelled()
			return
		}
		defer func() { <-m.workers }()

		// a slot may free up in the same instant the manager stops
		select {
		case <-m.stopChan:
			cancelled()
			return
		default:
		}

		m.mu.Lock()
		job.Status = model.JobStatusRunning
		now := time.Now()
		job.StartedAt = &now
		m.mu.Unlock()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() {
			select {
			case <-m.stopChan:
				cancel()
			case <-ctx.Done():
			}
		}()

		startTime := time.Now()
		err := jobFunc(ctx, jobID)
		executionTime := time.Since(startTime)

		if err != nil {
			m.finishJob(jobID, model.JobStatusFailed, err.Error(), executionTime)
			log.Printf("Job %s (%s) failed after %v: %v", jobID, jobType, executionTime, err)
			return
		}
		m.finishJob(jobID, model.JobStatusCompleted, "", executionTime)
		log.Printf("Job %s (%s) completed successfully in %v", jobID, jobType, executionTime)
	}()

	return nil
}

// UpdateJobProgress updates the progress of a running job
func (m *Manager) UpdateJobProgress(jobID string, current, total int, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return
	}

	if job.Progress == nil {
		job.Progress = &model.JobProgress{}
	}
	job.Progress.Current = current
	job.Progress.Total = total
	job.Progress.Message = message
}

// SetJobMetadata records a result value on a job
func (m *Manager) SetJobMetadata(jobID, key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return
	}
	if job.Metadata == nil {
		job.Metadata = make(map[string]string)
	}
	job.Metadata[key] = value
}

func (m *Manager) finishJob(jobID string, status model.JobStatus, errorMsg string, took time.Duration) {
	m.mu.Lock()
	job, exists := m.jobs[jobID]
	if !exists {
		m.mu.Unlock()
		return
	}

	delete(m.queued, jobID)
	job.Status = status
	if errorMsg != "" {
		job.Error = errorMsg
	}
	now := time.Now()
	job.CompletedAt = &now
	jobType := job.Type
	m.mu.Unlock()

	if m.observer != nil {
		m.observer.ObserveJob(string(jobType), string(status), took)
	}
}

// cleanupRoutine runs periodic job cleanup
func (m *Manager) cleanupRoutine() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.CleanupOldJobs(24 * time.Hour)
		case <-m.stopChan:
			return
		}
	}
}

// CleanupOldJobs removes finished jobs older than maxAge
func (m *Manager) CleanupOldJobs(maxAge time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	cleaned := 0

	for jobID, job := range m.jobs {
		if job.CompletedAt != nil && job.CompletedAt.Before(cutoff) {
			delete(m.jobs, jobID)
			cleaned++
		}
	}

	if cleaned > 0 {
		log.Printf("Cleaned up %d old jobs", cleaned)
	}
}
