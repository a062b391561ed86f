package upload

import (
	"fmt"
	"sync"
)

// inflight counts concurrently running submissions and remembers the peak.
// It refuses to exceed max so a scheduling bug surfaces as a task failure
// instead of silently overrunning the concurrency limit.
type inflight struct {
	max   int
	count int
	peak  int
	mu    sync.Mutex
}

// newInflight creates a tracker. If max == 0, any number is allowed.
func newInflight(max int) *inflight {
	return &inflight{max: max}
}

// acquire registers a running submission and returns an error if the limit
// is exceeded.
func (l *inflight) acquire() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.max > 0 && l.count >= l.max {
		return fmt.Errorf("exceeded max in-flight submissions: %d", l.max)
	}
	l.count++
	if l.count > l.peak {
		l.peak = l.count
	}
	return nil
}

// release unregisters a finished submission.
func (l *inflight) release() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.count--
}

// Peak returns the highest number of concurrent submissions observed.
func (l *inflight) Peak() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.peak
}
