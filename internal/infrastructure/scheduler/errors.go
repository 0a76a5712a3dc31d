package scheduler

import "errors"

var (
	// ErrSchedulerRunning is returned when registering a job after Start
	ErrSchedulerRunning = errors.New("scheduler is already running")

	// ErrDuplicateJob is returned when a job name is registered twice
	ErrDuplicateJob = errors.New("job already registered")

	// ErrJobNotFound is returned when a job name is unknown
	ErrJobNotFound = errors.New("job not found")

	// ErrJobRunning is returned by RunNow while the job is still executing
	ErrJobRunning = errors.New("job is already running")
)
