package jobs

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gcbaptista/go-tagger-eval/internal/errors"
	"github.com/gcbaptista/go-tagger-eval/model"
)

// Manager handles background evaluation jobs. Jobs wait in pending state until a
// worker slot frees up; with one slot, runs never overlap.
type Manager struct {
	mu      sync.RWMutex
	jobs    map[string]*model.Job
	cancels map[string]context.CancelFunc
	workers chan struct{} // Limits concurrent jobs
	ctx     context.Context
	stop    context.CancelFunc
	wg      sync.WaitGroup
	metrics *JobMetrics
}

// NewManager creates a new job manager with the specified worker count
func NewManager(maxWorkers int) *Manager {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	ctx, stop := context.WithCancel(context.Background())
	return &Manager{
		jobs:    make(map[string]*model.Job),
		cancels: make(map[string]context.CancelFunc),
		workers: make(chan struct{}, maxWorkers),
		ctx:     ctx,
		stop:    stop,
		metrics: NewJobMetrics(),
	}
}

// Start begins the background cleanup of finished jobs
func (m *Manager) Start() {
	log.Printf("Job manager started with %d max workers", cap(m.workers))
	go m.cleanupRoutine()
}

// Stop cancels running jobs and waits for them to return
func (m *Manager) Stop() {
	m.stop()
	m.wg.Wait()
	log.Printf("Job manager stopped")
}

// CreateJob creates a new pending job and returns its ID
func (m *Manager) CreateJob(jobType model.JobType, groupName string, metadata map[string]string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	job := &model.Job{
		ID:        uuid.New().String(),
		Type:      jobType,
		Status:    model.JobStatusPending,
		GroupName: groupName,
		CreatedAt: time.Now(),
		Metadata:  metadata,
	}

	m.jobs[job.ID] = job
	m.metrics.RecordJobCreated(jobType)
	log.Printf("Created job %s (type: %s) for group '%s'", job.ID, job.Type, job.GroupName)
	return job.ID
}

// GetJob retrieves a snapshot of a job by ID
func (m *Manager) GetJob(jobID string) (*model.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return nil, errors.NewJobNotFoundError(jobID)
	}
	return snapshot(job), nil
}

// ListJobs returns jobs for a group, or for every group when groupName is empty,
// optionally filtered by status. Newest jobs come first.
func (m *Manager) ListJobs(groupName string, status *model.JobStatus) []*model.Job {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*model.Job, 0)
	for _, job := range m.jobs {
		if groupName != "" && job.GroupName != groupName {
			continue
		}
		if status != nil && job.Status != *status {
			continue
		}
		result = append(result, snapshot(job))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

// ExecuteJob queues a pending job. The job function runs in its own goroutine once
// a worker slot is free; its context is cancelled by CancelJob or Stop.
func (m *Manager) ExecuteJob(jobID string, jobFunc func(ctx context.Context, job *model.Job) error) error {
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
	if _, queued := m.cancels[jobID]; queued {
		m.mu.Unlock()
		return fmt.Errorf("job with ID '%s' is already queued", jobID)
	}
	ctx, cancel := context.WithCancel(m.ctx)
	m.cancels[jobID] = cancel
	jobType := job.Type
	m.mu.Unlock()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer m.release(jobID)

		select {
		case m.workers <- struct{}{}:
		case <-ctx.Done():
			m.updateJobStatus(jobID, model.JobStatusCancelled, "Job cancelled before it started")
			return
		}
		defer func() { <-m.workers }()

		if ctx.Err() != nil {
			m.updateJobStatus(jobID, model.JobStatusCancelled, "Job cancelled before it started")
			return
		}
		if !m.markRunning(jobID) {
			return
		}

		startTime := time.Now()
		err := jobFunc(ctx, m.view(jobID))
		executionTime := time.Since(startTime)

		switch {
		case err != nil && ctx.Err() != nil:
			m.updateJobStatus(jobID, model.JobStatusCancelled, err.Error())
			log.Printf("Job %s cancelled after %v", jobID, executionTime)
		case err != nil:
			m.metrics.RecordJobFailed(jobType)
			m.updateJobStatus(jobID, model.JobStatusFailed, err.Error())
			log.Printf("Job %s failed after %v: %v", jobID, executionTime, err)
		default:
			// Metrics first, so a caller that sees the terminal status also sees the counts.
			m.metrics.RecordJobCompleted(jobType, executionTime)
			m.updateJobStatus(jobID, model.JobStatusCompleted, "")
			log.Printf("Job %s completed successfully in %v", jobID, executionTime)
		}
	}()

	return nil
}

// CancelJob cancels a pending or running job. Finished jobs are left untouched.
func (m *Manager) CancelJob(jobID string) error {
	m.mu.RLock()
	_, exists := m.jobs[jobID]
	cancel, active := m.cancels[jobID]
	m.mu.RUnlock()

	if !exists {
		return errors.NewJobNotFoundError(jobID)
	}
	if !active {
		return errors.NewValidationError("jobId", fmt.Sprintf("job with ID '%s' is not pending or running", jobID))
	}
	cancel()
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

// AddRunIDs attaches the IDs of run reports produced by a job
func (m *Manager) AddRunIDs(jobID string, runIDs ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return
	}
	job.RunIDs = append(job.RunIDs, runIDs...)
	m.metrics.RecordRuns(len(runIDs))
}

func (m *Manager) markRunning(jobID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, exists := m.jobs[jobID]
	if !exists || job.Status != model.JobStatusPending {
		return false
	}
	job.Status = model.JobStatusRunning
	now := time.Now()
	job.StartedAt = &now
	m.metrics.RecordJobStatusChange(model.JobStatusPending, job.Status)
	return true
}

// view hands the job function a snapshot; progress goes through the manager.
func (m *Manager) view(jobID string) *model.Job {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return snapshot(m.jobs[jobID])
}

func (m *Manager) release(jobID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cancel, ok := m.cancels[jobID]; ok {
		cancel()
		delete(m.cancels, jobID)
	}
}

// updateJobStatus updates the status of a job (internal method)
func (m *Manager) updateJobStatus(jobID string, status model.JobStatus, errorMsg string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return
	}

	oldStatus := job.Status
	job.Status = status
	if errorMsg != "" {
		job.Error = errorMsg
	}
	if isTerminal(status) {
		now := time.Now()
		job.CompletedAt = &now
	}
	if status == model.JobStatusCancelled {
		m.metrics.RecordJobCancelled()
	}
	m.metrics.RecordJobStatusChange(oldStatus, status)
}

// cleanupRoutine runs periodic job cleanup
func (m *Manager) cleanupRoutine() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.CleanupOldJobs(24 * time.Hour)
		case <-m.ctx.Done():
			return
		}
	}
}

// CleanupOldJobs removes finished jobs older than the specified duration
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

// GetMetrics returns current job performance metrics
func (m *Manager) GetMetrics() JobMetricsData {
	return m.metrics.GetMetrics()
}

func isTerminal(s model.JobStatus) bool {
	return s == model.JobStatusCompleted || s == model.JobStatusFailed || s == model.JobStatusCancelled
}

func snapshot(job *model.Job) *model.Job {
	c := *job
	if job.Progress != nil {
		p := *job.Progress
		c.Progress = &p
	}
	if job.RunIDs != nil {
		c.RunIDs = append([]string(nil), job.RunIDs...)
	}
	return &c
}
