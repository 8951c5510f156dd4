package jobs

import (
	"sync"
	"time"

	"github.com/gcbaptista/go-tagger-eval/model"
)

// JobMetricsData is a point-in-time copy of the job counters
type JobMetricsData struct {
	JobsCreated          int64                     `json:"jobs_created"`
	JobsCompleted        int64                     `json:"jobs_completed"`
	JobsFailed           int64                     `json:"jobs_failed"`
	JobsCancelled        int64                     `json:"jobs_cancelled"`
	RunsRecorded         int64                     `json:"runs_recorded"`
	AverageExecutionTime time.Duration             `json:"average_execution_time_ns"`
	SuccessRate          float64                   `json:"success_rate"`
	CurrentWorkload      int64                     `json:"current_workload"`
	JobsByType           map[model.JobType]int64   `json:"jobs_by_type"`
	JobsByStatus         map[model.JobStatus]int64 `json:"jobs_by_status"`
	LastUpdated          time.Time                 `json:"last_updated"`
}

// JobMetrics tracks counters for job operations
type JobMetrics struct {
	mu                 sync.RWMutex
	jobsCreated        int64
	jobsCompleted      int64
	jobsFailed         int64
	jobsCancelled      int64
	runsRecorded       int64
	totalExecutionTime time.Duration
	jobsByType         map[model.JobType]int64
	jobsByStatus       map[model.JobStatus]int64
	lastUpdated        time.Time
}

// NewJobMetrics creates a new metrics collector
func NewJobMetrics() *JobMetrics {
	return &JobMetrics{
		jobsByType:   make(map[model.JobType]int64),
		jobsByStatus: make(map[model.JobStatus]int64),
		lastUpdated:  time.Now(),
	}
}

// RecordJobCreated increments job creation counter
func (m *JobMetrics) RecordJobCreated(jobType model.JobType) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.jobsCreated++
	m.jobsByType[jobType]++
	m.jobsByStatus[model.JobStatusPending]++
	m.lastUpdated = time.Now()
}

// RecordJobStatusChange moves one job between status buckets
func (m *JobMetrics) RecordJobStatusChange(oldStatus, newStatus model.JobStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if oldStatus != "" && m.jobsByStatus[oldStatus] > 0 {
		m.jobsByStatus[oldStatus]--
	}
	m.jobsByStatus[newStatus]++
	m.lastUpdated = time.Now()
}

// RecordJobCompleted records successful job completion
func (m *JobMetrics) RecordJobCompleted(_ model.JobType, executionTime time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.jobsCompleted++
	m.totalExecutionTime += executionTime
	m.lastUpdated = time.Now()
}

// RecordJobFailed records job failure
func (m *JobMetrics) RecordJobFailed(_ model.JobType) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.jobsFailed++
	m.lastUpdated = time.Now()
}

// RecordJobCancelled records a cancelled job
func (m *JobMetrics) RecordJobCancelled() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.jobsCancelled++
	m.lastUpdated = time.Now()
}

// RecordRuns adds n produced run reports
func (m *JobMetrics) RecordRuns(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.runsRecorded += int64(n)
	m.lastUpdated = time.Now()
}

// GetMetrics returns a copy of the current metrics
func (m *JobMetrics) GetMetrics() JobMetricsData {
	m.mu.RLock()
	defer m.mu.RUnlock()

	jobsByType := make(map[model.JobType]int64, len(m.jobsByType))
	for k, v := range m.jobsByType {
		jobsByType[k] = v
	}
	jobsByStatus := make(map[model.JobStatus]int64, len(m.jobsByStatus))
	for k, v := range m.jobsByStatus {
		jobsByStatus[k] = v
	}

	var avg time.Duration
	if m.jobsCompleted > 0 {
		avg = m.totalExecutionTime / time.Duration(m.jobsCompleted)
	}
	successRate := 1.0 // No finished jobs yet
	if finished := m.jobsCompleted + m.jobsFailed; finished > 0 {
		successRate = float64(m.jobsCompleted) / float64(finished)
	}

	return JobMetricsData{
		JobsCreated:          m.jobsCreated,
		JobsCompleted:        m.jobsCompleted,
		JobsFailed:           m.jobsFailed,
		JobsCancelled:        m.jobsCancelled,
		RunsRecorded:         m.runsRecorded,
		AverageExecutionTime: avg,
		SuccessRate:          successRate,
		CurrentWorkload:      m.jobsByStatus[model.JobStatusPending] + m.jobsByStatus[model.JobStatusRunning],
		JobsByType:           jobsByType,
		JobsByStatus:         jobsByStatus,
		LastUpdated:          m.lastUpdated,
	}
}
