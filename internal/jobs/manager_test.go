package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalErrors "github.com/gcbaptista/course-search/internal/errors"
	"github.com/gcbaptista/course-search/model"
)

type recordingObserver struct {
	mu       sync.Mutex
	statuses []string
}

func (o *recordingObserver) ObserveJob(jobType, status string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.statuses = append(o.statuses, jobType+":"+status)
}

func (o *recordingObserver) seen() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.statuses...)
}

func waitForStatus(t *testing.T, m *Manager, jobID string, status model.JobStatus) *model.Job {
	t.Helper()
	var job *model.Job
	require.Eventually(t, func() bool {
		var err error
		job, err = m.GetJob(jobID)
		return err == nil && job.Status == status
	}, 2*time.Second, 5*time.Millisecond)
	return job
}

func TestJobManager_CreateJob(t *testing.T) {
	manager := NewManager(2, nil)
	defer manager.Stop()

	jobID := manager.CreateJob(model.JobTypeImportCatalog, map[string]string{"source": "upload"})
	require.NotEmpty(t, jobID)

	job, err := manager.GetJob(jobID)
	require.NoError(t, err)
	assert.Equal(t, model.JobTypeImportCatalog, job.Type)
	assert.Equal(t, model.JobStatusPending, job.Status)
	assert.Equal(t, "upload", job.Metadata["source"])
}

func TestJobManager_GetJobNotFound(t *testing.T) {
	manager := NewManager(1, nil)
	defer manager.Stop()

	_, err := manager.GetJob("missing")
	assert.True(t, errors.Is(err, internalErrors.ErrJobNotFound))
}

func TestJobManager_ExecuteJob(t *testing.T) {
	observer := &recordingObserver{}
	manager := NewManager(2, observer)
	manager.Start()
	defer manager.Stop()

	jobID := manager.CreateJob(model.JobTypeImportCatalog, nil)
	err := manager.ExecuteJob(jobID, func(ctx context.Context, id string) error {
		manager.UpdateJobProgress(id, 50, 100, "Halfway done")
		manager.UpdateJobProgress(id, 100, 100, "Completed")
		manager.SetJobMetadata(id, "courses_added", "100")
		return nil
	})
	require.NoError(t, err)

	job := waitForStatus(t, manager, jobID, model.JobStatusCompleted)
	require.NotNil(t, job.Progress)
	assert.Equal(t, 100, job.Progress.Current)
	assert.Equal(t, 100.0, job.Progress.GetProgressPercentage())
	assert.Equal(t, "100", job.Metadata["courses_added"])
	assert.NotNil(t, job.StartedAt)
	assert.NotNil(t, job.CompletedAt)

	assert.Eventually(t, func() bool {
		return len(observer.seen()) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"import_catalog:completed"}, observer.seen())

	err = manager.ExecuteJob(jobID, func(context.Context, string) error { return nil })
	assert.Error(t, err, "a finished job cannot run again")
}

func TestJobManager_ExecuteJobFailure(t *testing.T) {
	manager := NewManager(1, nil)
	defer manager.Stop()

	jobID := manager.CreateJob(model.JobTypeReloadCatalog, nil)
	require.NoError(t, manager.ExecuteJob(jobID, func(context.Context, string) error {
		return errors.New("database unavailable")
	}))

	job := waitForStatus(t, manager, jobID, model.JobStatusFailed)
	assert.Equal(t, "database unavailable", job.Error)
	assert.True(t, job.Status.IsFinal())
}

func TestJobManager_ListJobs(t *testing.T) {
	manager := NewManager(1, nil)
	defer manager.Stop()

	first := manager.CreateJob(model.JobTypeImportCatalog, nil)
	time.Sleep(2 * time.Millisecond)
	second := manager.CreateJob(model.JobTypeReloadCatalog, nil)

	jobs := manager.ListJobs(nil)
	require.Len(t, jobs, 2)
	assert.Equal(t, second, jobs[0].ID, "newest first")
	assert.Equal(t, first, jobs[1].ID)

	require.NoError(t, manager.ExecuteJob(first, func(context.Context, string) error { return nil }))
	waitForStatus(t, manager, first, model.JobStatusCompleted)

	pending := model.JobStatusPending
	jobs = manager.ListJobs(&pending)
	require.Len(t, jobs, 1)
	assert.Equal(t, second, jobs[0].ID)
}

func TestJobManager_CleanupOldJobs(t *testing.T) {
	manager := NewManager(1, nil)
	defer manager.Stop()

	done := manager.CreateJob(model.JobTypeImportCatalog, nil)
	pending := manager.CreateJob(model.JobTypeImportCatalog, nil)
	require.NoError(t, manager.ExecuteJob(done, func(context.Context, string) error { return nil }))
	waitForStatus(t, manager, done, model.JobStatusCompleted)

	manager.CleanupOldJobs(-time.Minute)

	_, err := manager.GetJob(done)
	assert.Error(t, err)
	_, err = manager.GetJob(pending)
	assert.NoError(t, err, "unfinished jobs are kept")
}

func TestJobManager_StopCancelsContext(t *testing.T) {
	manager := NewManager(1, nil)

	started := make(chan struct{})
	jobID := manager.CreateJob(model.JobTypeImportCatalog, nil)
	require.NoError(t, manager.ExecuteJob(jobID, func(ctx context.Context, _ string) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	}))

	<-started
	manager.Stop()
	manager.Stop()

	job, err := manager.GetJob(jobID)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusFailed, job.Status)
}

func TestJobManager_GetJobWhileMetadataChanges(t *testing.T) {
	manager := NewManager(1, nil)
	defer manager.Stop()

	jobID := manager.CreateJob(model.JobTypeImportCatalog, map[string]string{"courses": "2000"})
	require.NoError(t, manager.ExecuteJob(jobID, func(_ context.Context, id string) error {
		for i := 0; i < 2000; i++ {
			manager.SetJobMetadata(id, "courses_added", strconv.Itoa(i))
			manager.SetJobMetadata(id, "batch_"+strconv.Itoa(i%50), "done")
		}
		return nil
	}))

	for {
		job, err := manager.GetJob(jobID)
		require.NoError(t, err)
		_, err = json.Marshal(job)
		require.NoError(t, err)
		for _, listed := range manager.ListJobs(nil) {
			_, err = json.Marshal(listed)
			require.NoError(t, err)
		}
		if job.Status.IsFinal() {
			assert.Equal(t, "1999", job.Metadata["courses_added"])
			break
		}
	}
}

func TestJobManager_ReturnedJobIsDetached(t *testing.T) {
	manager := NewManager(1, nil)
	defer manager.Stop()

	metadata := map[string]string{"replace": "false"}
	jobID := manager.CreateJob(model.JobTypeImportCatalog, metadata)
	metadata["replace"] = "true"

	job, err := manager.GetJob(jobID)
	require.NoError(t, err)
	job.Metadata["replace"] = "changed"

	again, err := manager.GetJob(jobID)
	require.NoError(t, err)
	assert.Equal(t, "false", again.Metadata["replace"])
}

func TestJobManager_ExecuteJobDoesNotWaitForWorker(t *testing.T) {
	manager := NewManager(1, nil)
	defer manager.Stop()

	release := make(chan struct{})
	busy := manager.CreateJob(model.JobTypeImportCatalog, nil)
	require.NoError(t, manager.ExecuteJob(busy, func(context.Context, string) error {
		<-release
		return nil
	}))
	waitForStatus(t, manager, busy, model.JobStatusRunning)

	queued := manager.CreateJob(model.JobTypeReloadCatalog, nil)
	returned := make(chan error, 1)
	go func() {
		returned <- manager.ExecuteJob(queued, func(context.Context, string) error { return nil })
	}()

	select {
	case err := <-returned:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("ExecuteJob blocked while every worker was busy")
	}

	job, err := manager.GetJob(queued)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusPending, job.Status)
	assert.Error(t, manager.ExecuteJob(queued, func(context.Context, string) error { return nil }),
		"a scheduled job cannot be scheduled twice")

	close(release)
	waitForStatus(t, manager, queued, model.JobStatusCompleted)
}

func TestJobManager_StopCancelsQueuedJobs(t *testing.T) {
	manager := NewManager(1, nil)

	started := make(chan struct{})
	running := manager.CreateJob(model.JobTypeImportCatalog, nil)
	require.NoError(t, manager.ExecuteJob(running, func(ctx context.Context, _ string) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	}))
	<-started

	queued := manager.CreateJob(model.JobTypeReloadCatalog, nil)
	require.NoError(t, manager.ExecuteJob(queued, func(context.Context, string) error { return nil }))

	manager.Stop()

	job, err := manager.GetJob(queued)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusCancelled, job.Status)
}
