package clock

import (
	"sync"
	"time"
)

// Clock abstracts time to keep usecases deterministic in tests.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// Ticker invokes a callback once per second while armed. Each tick counts as
// exactly one second regardless of scheduling delay, so the counter it drives
// may lag the wall clock slightly; that imprecision is accepted.
type Ticker struct {
	mu   sync.Mutex
	stop chan struct{}
}

func NewTicker() *Ticker {
	return &Ticker{}
}

// Arm starts the periodic tick. Arming an already armed ticker is a no-op.
func (t *Ticker) Arm(onTick func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stop != nil {
		return
	}
	stop := make(chan struct{})
	t.stop = stop
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				onTick()
			case <-stop:
				return
			}
		}
	}()
}

// Disarm stops the tick. Safe to call repeatedly and on an idle ticker.
func (t *Ticker) Disarm() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stop == nil {
		return
	}
	close(t.stop)
	t.stop = nil
}

func (t *Ticker) Armed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stop != nil
}
