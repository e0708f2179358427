package pipeline

import (
	"sync"
	"time"
)

var (
	captureMu   sync.Mutex
	lastCapture time.Time
)

// captureTimestamp reads the run timestamp once per run. It is
// monotonically non-decreasing across runs from the same process even if
// the wall clock steps backwards; no ordering holds across processes.
func captureTimestamp(now func() time.Time) time.Time {
	captureMu.Lock()
	defer captureMu.Unlock()
	t := now()
	if t.Before(lastCapture) {
		t = lastCapture
	}
	lastCapture = t
	return t
}
