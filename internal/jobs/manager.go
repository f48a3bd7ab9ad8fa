// Package jobs tracks asynchronous search jobs: submission, bounded
// execution, status polling, and TTL-based eviction of finished jobs.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/susanpikesquare/crmoverlay-sub005/internal/models"
)

// Status represents the state of a background job.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Terminal reports whether the status is final.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Runner executes the search a job was submitted for.
type Runner func(ctx context.Context, req models.SearchRequest) (*models.SearchResult, error)

// Job is one asynchronous search.
type Job struct {
	ID          string
	Status      Status
	Request     models.SearchRequest
	Result      *models.SearchResult
	Error       string
	StartedAt   time.Time
	CompletedAt *time.Time

	mu   sync.RWMutex
	done chan struct{}
}

// Snapshot is a thread-safe copy of job state, shaped for the API.
type Snapshot struct {
	ID          string               `json:"id"`
	Status      Status               `json:"status"`
	Request     models.SearchRequest `json:"request"`
	Result      *models.SearchResult `json:"result,omitempty"`
	Error       string               `json:"error,omitempty"`
	StartedAt   time.Time            `json:"startedAt"`
	CompletedAt *time.Time           `json:"completedAt,omitempty"`
}

// Snapshot returns a consistent copy of the job's current state.
func (j *Job) Snapshot() Snapshot {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return Snapshot{
		ID:          j.ID,
		Status:      j.Status,
		Request:     j.Request,
		Result:      j.Result,
		Error:       j.Error,
		StartedAt:   j.StartedAt,
		CompletedAt: j.CompletedAt,
	}
}

// Done returns a channel closed when the job reaches a terminal status.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Manager tracks and runs background search jobs.
type Manager struct {
	jobs   map[string]*Job
	mu     sync.RWMutex
	sem    chan struct{}
	ttl    time.Duration
	logger *slog.Logger

	stop     chan struct{}
	stopOnce sync.Once
}

// NewManager creates a job manager. maxConcurrent bounds how many searches
// run at once; finished jobs are evicted ttl after completion by a sweep
// every sweepInterval.
func NewManager(maxConcurrent int, ttl, sweepInterval time.Duration, logger *slog.Logger) *Manager {
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		jobs:   make(map[string]*Job),
		sem:    make(chan struct{}, maxConcurrent),
		ttl:    ttl,
		logger: logger,
		stop:   make(chan struct{}),
	}
	if ttl > 0 && sweepInterval > 0 {
		go m.sweepLoop(sweepInterval)
	}
	return m
}

// Close stops the eviction sweep. Running jobs finish on their own.
func (m *Manager) Close() {
	m.stopOnce.Do(func() { close(m.stop) })
}

// Submit registers a pending job and starts it in the background. The job
// runs detached from the submitting request's context.
func (m *Manager) Submit(req models.SearchRequest, run Runner) *Job {
	job := &Job{
		ID:        uuid.New().String()[:8], // Short ID for convenience
		Status:    StatusPending,
		Request:   req,
		StartedAt: time.Now(),
		done:      make(chan struct{}),
	}

	m.mu.Lock()
	m.jobs[job.ID] = job
	m.mu.Unlock()

	m.logger.Info("job submitted", "job_id", job.ID, "scope", req.Scope)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				m.logger.Error("job goroutine panicked", "job_id", job.ID, "panic", r)
				m.fail(job, fmt.Errorf("internal panic: %v", r))
			}
		}()

		m.sem <- struct{}{}
		defer func() { <-m.sem }()

		job.mu.Lock()
		job.Status = StatusRunning
		job.mu.Unlock()

		result, err := run(context.Background(), req)
		if err != nil {
			m.fail(job, err)
			return
		}
		m.complete(job, result)
	}()

	return job
}

// Get retrieves a job by ID, nil if unknown or already evicted.
func (m *Manager) Get(id string) *Job {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.jobs[id]
}

// List returns snapshots of all tracked jobs, most recent first.
func (m *Manager) List() []Snapshot {
	m.mu.RLock()
	jobs := make([]*Job, 0, len(m.jobs))
	for _, job := range m.jobs {
		jobs = append(jobs, job)
	}
	m.mu.RUnlock()

	out := make([]Snapshot, len(jobs))
	for i, job := range jobs {
		out[i] = job.Snapshot()
	}
	slices.SortFunc(out, func(a, b Snapshot) int {
		if c := b.StartedAt.Compare(a.StartedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

func (m *Manager) complete(job *Job, result *models.SearchResult) {
	job.mu.Lock()
	job.Status = StatusCompleted
	job.Result = result
	now := time.Now()
	job.CompletedAt = &now
	job.mu.Unlock()
	close(job.done)

	m.logger.Info("job completed", "job_id", job.ID,
		"calls_analyzed", result.Metadata.CallsAnalyzed,
		"transcripts_fetched", result.Metadata.TranscriptsFetched)
}

func (m *Manager) fail(job *Job, err error) {
	job.mu.Lock()
	if job.Status.Terminal() {
		// A panic after completion must not close done twice.
		job.mu.Unlock()
		return
	}
	job.Status = StatusFailed
	job.Error = err.Error()
	now := time.Now()
	job.CompletedAt = &now
	job.mu.Unlock()
	close(job.done)

	m.logger.Error("job failed", "job_id", job.ID, "error", err)
}

func (m *Manager) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-m.stop:
			return
		case now := <-ticker.C:
			m.evictExpired(now)
		}
	}
}

func (m *Manager) evictExpired(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, job := range m.jobs {
		snap := job.Snapshot()
		if snap.Status.Terminal() && snap.CompletedAt != nil && now.Sub(*snap.CompletedAt) > m.ttl {
			delete(m.jobs, id)
			m.logger.Debug("job evicted", "job_id", id)
		}
	}
}
