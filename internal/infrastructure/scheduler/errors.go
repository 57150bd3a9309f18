package scheduler

import "errors"

var (
	// ErrSchedulerRunning is returned when registering a job after Start
	ErrSchedulerRunning = errors.New("scheduler is already running")

	// ErrInvalidJob is returned for jobs without a name, interval or function
	ErrInvalidJob = errors.New("invalid scheduler job")
)
