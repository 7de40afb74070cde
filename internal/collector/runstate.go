package collector

import (
	"sync"
	"time"
)

// RunStatus is a snapshot of the collection run state
type RunStatus struct {
	IsRunning bool       `json:"is_running"`
	LastRunAt *time.Time `json:"last_run_at"`
	LastError string     `json:"last_error"`
}

// RunCoordinator enforces that at most one collection run is active at a
// time, across all platforms. State is in-memory only: one instance per
// process, injected into the orchestrator.
type RunCoordinator struct {
	mu        sync.Mutex
	running   bool
	lastRunAt *time.Time
	lastError string
}

// NewRunCoordinator creates a coordinator in the idle state
func NewRunCoordinator() *RunCoordinator {
	return &RunCoordinator{}
}

// TryAcquire attempts to take the run guard without blocking. On success it
// marks the run active and clears the last error; on contention it returns
// false and leaves all state untouched.
func (c *RunCoordinator) TryAcquire() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return false
	}

	c.running = true
	c.lastError = ""
	return true
}

// Release returns the guard and records the run outcome. It must always run
// when a run finishes, whatever the outcome: the guard never stays stuck in
// the running state.
func (c *RunCoordinator) Release(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.running = false
	now := time.Now().UTC()
	c.lastRunAt = &now

	if err != nil {
		c.lastError = err.Error()
	} else {
		c.lastError = ""
	}
}

// Status returns a snapshot of the current run state
func (c *RunCoordinator) Status() RunStatus {
	c.mu.Lock()
	defer c.mu.Unlock()

	return RunStatus{
		IsRunning: c.running,
		LastRunAt: c.lastRunAt,
		LastError: c.lastError,
	}
}
