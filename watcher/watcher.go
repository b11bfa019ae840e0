// Package watcher reports when a save file is rewritten by another process.
package watcher

import (
	"context"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

type EventType int

const (
	EventModify EventType = iota
	EventDelete
)

type FileEvent struct {
	Type EventType
	Path string
}

// Watcher watches the directory holding path, since atomic replacement
// swaps the inode and a watch on the file itself would be lost.
type Watcher struct {
	path       string
	watcher    *fsnotify.Watcher
	debounceMs int
	events     chan FileEvent
	done       chan struct{}
	closeOnce  sync.Once

	// Debouncing state
	pending   *FileEvent
	pendingMu sync.Mutex
	timer     *time.Timer
}

func NewWatcher(path string, debounceMs int) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		path:       abs,
		watcher:    fsw,
		debounceMs: debounceMs,
		events:     make(chan FileEvent, 16),
		done:       make(chan struct{}),
	}, nil
}

func (w *Watcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}

	go w.processEvents(ctx)

	return nil
}

func (w *Watcher) Events() <-chan FileEvent {
	return w.events
}

func (w *Watcher) Close() error {
	w.closeOnce.Do(func() { close(w.done) })
	return w.watcher.Close()
}

func (w *Watcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Watcher error: %v", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}

	var evType EventType
	switch {
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		evType = EventModify
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		evType = EventDelete
	default:
		return
	}

	w.debounceEvent(FileEvent{
		Type: evType,
		Path: w.path,
	})
}

// debounceEvent collapses a burst of events into the last one.
func (w *Watcher) debounceEvent(event FileEvent) {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	w.pending = &event

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(time.Duration(w.debounceMs)*time.Millisecond, w.flush)
}

func (w *Watcher) flush() {
	w.pendingMu.Lock()
	event := w.pending
	w.pending = nil
	w.pendingMu.Unlock()

	if event == nil {
		return
	}

	select {
	case w.events <- *event:
	default:
		log.Printf("Event channel full, dropping event for %s", event.Path)
	}
}

func (e EventType) String() string {
	switch e {
	case EventModify:
		return "MODIFY"
	case EventDelete:
		return "DELETE"
	default:
		return "UNKNOWN"
	}
}
