package worker

import (
	"time"
)

// Job asks the worker for one capture.
type Job struct {
	Trigger time.Time // when the job was requested
	Source  string    // "cron", "startup"
}
