// Package loading drives a simulated loading-progress readout.
//
// The readout climbs one percent per tick and stalls at Ceiling until the
// host calls Complete once its real work is done.
package loading

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

const (
	// TickInterval is the time between progress increments.
	TickInterval = 100 * time.Millisecond

	// Ceiling is the highest percentage reached without Complete.
	Ceiling = 90

	// HideDelay is how long the ready text stays visible.
	HideDelay = 500 * time.Millisecond

	// ReadyText replaces the percentage once loading completes.
	ReadyText = "Ready!"
)

// ErrNilDisplay is returned by New when no display is given.
var ErrNilDisplay = errors.New("loading: display is required")

// Display is the element the progress text is written to.
type Display interface {
	SetText(text string)
	Hide()
}

// Manager owns the progress counter and its timer.
type Manager struct {
	display   Display
	scheduler Scheduler

	mu        sync.Mutex
	progress  int
	completed bool
	stopTick  Cancel

	done     chan struct{}
	doneOnce sync.Once
}

// Option configures a Manager.
type Option func(*Manager)

// WithScheduler replaces the wall-clock scheduler.
func WithScheduler(s Scheduler) Option {
	return func(m *Manager) {
		m.scheduler = s
	}
}

// New binds display and starts ticking immediately.
func New(display Display, opts ...Option) (*Manager, error) {
	if display == nil {
		return nil, ErrNilDisplay
	}

	m := &Manager{
		display:   display,
		scheduler: TimeScheduler{},
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.stopTick = m.scheduler.Every(TickInterval, m.tick)
	return m, nil
}

func (m *Manager) tick() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.completed || m.progress >= Ceiling {
		return
	}
	m.progress++
	m.display.SetText(progressText(m.progress))
}

func progressText(percent int) string {
	return fmt.Sprintf("Loading... %d%%", percent)
}

// Complete stops the progress timer, shows ReadyText and hides the
// display HideDelay later. Calling it again rewrites the text and
// schedules another hide.
func (m *Manager) Complete() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopTick()
	m.completed = true
	m.display.SetText(ReadyText)

	m.scheduler.After(HideDelay, func() {
		m.mu.Lock()
		m.display.Hide()
		m.mu.Unlock()
		m.doneOnce.Do(func() { close(m.done) })
	})
}

// Progress returns the current percentage.
func (m *Manager) Progress() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.progress
}

// Done is closed once the display has been hidden.
func (m *Manager) Done() <-chan struct{} {
	return m.done
}
