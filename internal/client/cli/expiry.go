package cli

import (
	"sync"
	"time"
)

// errorExpiry clears a displayed error after ttl. Each new message restarts
// the countdown; a cleared message cancels it.
type errorExpiry struct {
	ttl   time.Duration
	clear func()

	mu    sync.Mutex
	last  string
	timer *time.Timer
}

func newErrorExpiry(ttl time.Duration, clear func()) *errorExpiry {
	return &errorExpiry{ttl: ttl, clear: clear}
}

func (e *errorExpiry) observe(msg string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if msg == e.last {
		return
	}
	e.last = msg
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	if msg != "" && e.ttl > 0 {
		e.timer = time.AfterFunc(e.ttl, e.clear)
	}
}

func (e *errorExpiry) stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}
