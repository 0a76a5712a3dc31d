package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job is a unit of background work run on a cron schedule
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// RunObserver receives the outcome of every job run
type RunObserver interface {
	JobRun(job string, elapsed time.Duration, err error)
}

// JobStatus is the last known state of a registered job
type JobStatus struct {
	Name      string     `json:"name"`
	Schedule  string     `json:"schedule"`
	Running   bool       `json:"running"`
	Runs      int        `json:"runs"`
	LastRunAt *time.Time `json:"last_run_at,omitempty"`
	LastError string     `json:"last_error,omitempty"`
	NextRunAt *time.Time `json:"next_run_at,omitempty"`
}

// Config holds scheduler configuration
type Config struct {
	// JobTimeout bounds a single run; zero means no timeout
	JobTimeout time.Duration
	Location   *time.Location
}

type entry struct {
	job      Job
	schedule string
	id       cron.EntryID

	mu        sync.Mutex
	running   bool
	runs      int
	lastRunAt *time.Time
	lastErr   string
}

// Scheduler runs registered jobs with robfig/cron. A run that is still in
// progress when its next tick fires is skipped rather than overlapped.
type Scheduler struct {
	cron     *cron.Cron
	config   Config
	logger   *zap.Logger
	observer RunObserver

	mu      sync.Mutex
	entries map[string]*entry
	started bool
	baseCtx context.Context
	cancel  context.CancelFunc
}

// Option configures a Scheduler
type Option func(*Scheduler)

// WithObserver reports every run to observer
func WithObserver(observer RunObserver) Option {
	return func(s *Scheduler) {
		s.observer = observer
	}
}

// New creates a stopped scheduler
func New(cfg Config, logger *zap.Logger, opts ...Option) *Scheduler {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	s := &Scheduler{
		config:  cfg,
		logger:  logger,
		entries: make(map[string]*entry),
	}
	s.cron = cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(cronLogger{logger: logger.Sugar()}),
		cron.WithChain(cron.Recover(cronLogger{logger: logger.Sugar()})),
	)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register adds job with a cron spec such as "*/15 * * * *" or "@every 15m"
func (s *Scheduler) Register(job Job, spec string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return ErrSchedulerRunning
	}
	if _, exists := s.entries[job.Name()]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateJob, job.Name())
	}

	e := &entry{job: job, schedule: spec}
	id, err := s.cron.AddFunc(spec, func() { s.execute(e) })
	if err != nil {
		return fmt.Errorf("invalid schedule %q for job %s: %w", spec, job.Name(), err)
	}
	e.id = id
	s.entries[job.Name()] = e

	s.logger.Info("Job registered", zap.String("job", job.Name()), zap.String("schedule", spec))
	return nil
}

// Start begins running jobs. ctx is the parent of every run's context.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return
	}
	s.baseCtx, s.cancel = context.WithCancel(ctx)
	s.started = true
	s.cron.Start()
	s.logger.Info("Scheduler started", zap.Int("jobs", len(s.entries)))
}

// Stop stops scheduling and waits for running jobs until ctx is done
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = false
	cancel := s.cancel
	s.mu.Unlock()

	done := s.cron.Stop()
	select {
	case <-done.Done():
		cancel()
		s.logger.Info("Scheduler stopped")
		return nil
	case <-ctx.Done():
		cancel()
		return ctx.Err()
	}
}

// RunNow runs the named job immediately in the caller's goroutine
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	s.mu.Lock()
	e, ok := s.entries[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}
	if !e.begin() {
		return ErrJobRunning
	}
	return s.run(ctx, e)
}

// Status returns the state of every registered job ordered by name
func (s *Scheduler) Status() []JobStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	statuses := make([]JobStatus, 0, len(s.entries))
	for name, e := range s.entries {
		e.mu.Lock()
		st := JobStatus{
			Name:      name,
			Schedule:  e.schedule,
			Running:   e.running,
			Runs:      e.runs,
			LastRunAt: e.lastRunAt,
			LastError: e.lastErr,
		}
		e.mu.Unlock()
		if s.started {
			if next := s.cron.Entry(e.id).Next; !next.IsZero() {
				st.NextRunAt = &next
			}
		}
		statuses = append(statuses, st)
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i].Name < statuses[j].Name })
	return statuses
}

func (s *Scheduler) execute(e *entry) {
	if !e.begin() {
		s.logger.Warn("Skipping job run, previous run still in progress", zap.String("job", e.job.Name()))
		return
	}
	s.mu.Lock()
	ctx := s.baseCtx
	s.mu.Unlock()
	_ = s.run(ctx, e)
}

func (s *Scheduler) run(ctx context.Context, e *entry) error {
	if s.config.JobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.JobTimeout)
		defer cancel()
	}

	start := time.Now()
	err := e.job.Run(ctx)
	elapsed := time.Since(start)
	e.finish(start, err)

	if s.observer != nil {
		s.observer.JobRun(e.job.Name(), elapsed, err)
	}
	if err != nil {
		s.logger.Error("Job failed",
			zap.String("job", e.job.Name()),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		return err
	}
	s.logger.Debug("Job completed", zap.String("job", e.job.Name()), zap.Duration("elapsed", elapsed))
	return nil
}

func (e *entry) begin() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		return false
	}
	e.running = true
	return true
}

func (e *entry) finish(at time.Time, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.running = false
	e.runs++
	e.lastRunAt = &at
	e.lastErr = ""
	if err != nil {
		e.lastErr = err.Error()
	}
}

// cronLogger adapts zap to cron.Logger
type cronLogger struct {
	logger *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Errorw(msg, append(keysAndValues, "error", err)...)
}
