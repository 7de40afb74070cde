package collector

import "errors"

var (
	// ErrNotConfigured indicates missing platform credentials. It is
	// returned before the run guard is touched.
	ErrNotConfigured = errors.New("platform credentials not configured")

	// ErrNoTargets indicates an empty search target list. It is returned
	// before the run guard is touched.
	ErrNoTargets = errors.New("no search targets configured")

	// ErrAlreadyRunning indicates another collection run holds the guard.
	// Callers should retry later rather than treat it as fatal.
	ErrAlreadyRunning = errors.New("collection already in progress")
)
