package background

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"udacitrivia/pkg/logger"
)

type SchedulerConfig struct {
	WorkerCount int
	QueueSize   int
}

type RetryPolicy struct {
	MaxRetries int
	Backoff    time.Duration
}

// Job is a unit of background work. Attempts beyond the first wait for
// RetryPolicy.Backoff before running again.
type Job struct {
	Name        string
	Run         func(ctx context.Context) error
	Timeout     time.Duration
	RetryPolicy RetryPolicy
}

var (
	ErrSchedulerNotStarted = errors.New("scheduler not started")
	ErrJobAlreadyScheduled = errors.New("job already scheduled")
	ErrSchedulerStopped    = errors.New("scheduler is shutting down")
)

type attempt struct {
	job    Job
	number int
	unique bool
}

// Scheduler runs jobs on a fixed pool of workers. Unique jobs are
// deduplicated by name until they finish, retries included.
type Scheduler struct {
	config SchedulerConfig

	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	started bool
	pending map[string]struct{}

	queue   chan attempt
	workers sync.WaitGroup
}

var (
	metricsOnce sync.Once
	jobRuns     *prometheus.CounterVec
	jobDuration *prometheus.HistogramVec
)

func initMetrics() {
	metricsOnce.Do(func() {
		jobRuns = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "udacitrivia",
			Subsystem: "background",
			Name:      "job_runs_total",
			Help:      "Total background job executions",
		}, []string{"job", "status"})

		jobDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "udacitrivia",
			Subsystem: "background",
			Name:      "job_duration_seconds",
			Help:      "Duration of background job executions",
			Buckets:   prometheus.DefBuckets,
		}, []string{"job"})
	})
}

func NewScheduler(cfg SchedulerConfig) *Scheduler {
	initMetrics()

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 1
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 16
	}

	return &Scheduler{
		config:  cfg,
		queue:   make(chan attempt, cfg.QueueSize),
		pending: make(map[string]struct{}),
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return
	}

	s.ctx, s.cancel = context.WithCancel(ctx)
	s.started = true

	for i := 0; i < s.config.WorkerCount; i++ {
		s.workers.Add(1)
		go s.work()
	}
}

func (s *Scheduler) Schedule(job Job) error {
	return s.submit(job, false)
}

// ScheduleUnique rejects the job with ErrJobAlreadyScheduled while another
// job with the same name is queued or running.
func (s *Scheduler) ScheduleUnique(job Job) error {
	return s.submit(job, true)
}

func (s *Scheduler) submit(job Job, unique bool) error {
	if job.Name == "" {
		return errors.New("job name is required")
	}
	if job.Run == nil {
		return errors.New("job runner is required")
	}

	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return ErrSchedulerNotStarted
	}
	if unique {
		if _, exists := s.pending[job.Name]; exists {
			s.mu.Unlock()
			return ErrJobAlreadyScheduled
		}
		s.pending[job.Name] = struct{}{}
	}
	s.mu.Unlock()

	if !s.enqueue(attempt{job: job, number: 1, unique: unique}) {
		s.release(job.Name, unique)
		return ErrSchedulerStopped
	}
	return nil
}

func (s *Scheduler) enqueue(a attempt) bool {
	select {
	case <-s.ctx.Done():
		return false
	case s.queue <- a:
		return true
	}
}

func (s *Scheduler) release(name string, unique bool) {
	if !unique {
		return
	}
	s.mu.Lock()
	delete(s.pending, name)
	s.mu.Unlock()
}

func (s *Scheduler) work() {
	defer s.workers.Done()

	for {
		select {
		case <-s.ctx.Done():
			return
		case a := <-s.queue:
			s.process(a)
		}
	}
}

func (s *Scheduler) process(a attempt) {
	fields := map[string]interface{}{"job": a.job.Name, "attempt": a.number}

	err := s.run(a)
	if err == nil {
		s.release(a.job.Name, a.unique)
		logger.Info("Background job completed", fields)
		return
	}

	if errors.Is(err, context.Canceled) {
		s.release(a.job.Name, a.unique)
		logger.Warn("Background job canceled", fields)
		return
	}

	if a.number <= a.job.RetryPolicy.MaxRetries {
		s.retryLater(a, err)
		return
	}

	s.release(a.job.Name, a.unique)
	logger.Error(err, "Background job finished with error", fields)
}

// retryLater requeues the next attempt once the backoff has elapsed. The
// worker returns to the queue immediately.
func (s *Scheduler) retryLater(a attempt, lastErr error) {
	next := a
	next.number++

	time.AfterFunc(a.job.RetryPolicy.Backoff, func() {
		if s.ctx.Err() == nil && s.enqueue(next) {
			return
		}
		s.release(a.job.Name, a.unique)
		logger.Error(lastErr, "Background job dropped before retry", map[string]interface{}{"job": a.job.Name, "attempt": next.number})
	})
}

func (s *Scheduler) run(a attempt) (err error) {
	start := time.Now()
	status := "success"

	ctx := s.ctx
	if a.job.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.job.Timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
		switch {
		case err == nil:
		case errors.Is(err, context.Canceled):
			status = "canceled"
		default:
			status = "failure"
		}
		jobDuration.WithLabelValues(a.job.Name).Observe(time.Since(start).Seconds())
		jobRuns.WithLabelValues(a.job.Name, status).Inc()
	}()

	return a.job.Run(ctx)
}

// Shutdown stops the workers and waits for running jobs until ctx expires.
func (s *Scheduler) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	cancel := s.cancel
	s.mu.Unlock()

	cancel()

	done := make(chan struct{})
	go func() {
		s.workers.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) PendingJobCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
