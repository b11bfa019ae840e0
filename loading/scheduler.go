package loading

import (
	"sync"
	"time"
)

// Cancel stops a scheduled task. Calling it more than once is harmless.
type Cancel func()

// Scheduler runs callbacks on a timer.
type Scheduler interface {
	// Every calls fn every d until the returned Cancel is invoked
	Every(d time.Duration, fn func()) Cancel

	// After calls fn once, d from now, unless cancelled first
	After(d time.Duration, fn func()) Cancel
}

// TimeScheduler schedules on the wall clock using the time package.
type TimeScheduler struct{}

func (TimeScheduler) Every(d time.Duration, fn func()) Cancel {
	ticker := time.NewTicker(d)
	stop := make(chan struct{})

	go func() {
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				fn()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			ticker.Stop()
			close(stop)
		})
	}
}

func (TimeScheduler) After(d time.Duration, fn func()) Cancel {
	t := time.AfterFunc(d, fn)
	return func() {
		t.Stop()
	}
}
