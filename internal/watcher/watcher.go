// Package watcher reports changes to a single file.
package watcher

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"pydoxy/internal/clock"
)

// DefaultDebounce is the quiet period used by the preview.
const DefaultDebounce = 200 * time.Millisecond

// Watcher watches a file and emits one change notification per burst of
// writes. A burst ends on the first debounce tick that saw no new event.
type Watcher struct {
	Path     string
	Debounce time.Duration

	clock     clock.Clock
	fsw       *fsnotify.Watcher
	stopCh    chan struct{}
	doneCh    chan struct{}
	changesCh chan struct{}
	errorCh   chan error
}

// New creates a Watcher for path.
func New(path string, debounce time.Duration, clk clock.Clock) *Watcher {
	return &Watcher{
		Path:      filepath.Clean(path),
		Debounce:  debounce,
		clock:     clk,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
		changesCh: make(chan struct{}, 1),
		errorCh:   make(chan error, 2),
	}
}

// Start begins watching in a background goroutine. The directory is
// watched rather than the file, so editors that replace the file on save
// are still noticed.
func (w *Watcher) Start() error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(w.Path)); err != nil {
		fsw.Close()
		return fmt.Errorf("failed to watch %s: %w", w.Path, err)
	}
	w.fsw = fsw
	w.start(fsw.Events, fsw.Errors)
	return nil
}

// start runs the event loop on the given channels.
func (w *Watcher) start(events <-chan fsnotify.Event, errs <-chan error) {
	ticker := w.clock.NewTicker(w.Debounce)
	go func() {
		defer close(w.doneCh)
		defer ticker.Stop()

		pending, dirty := false, false
		for {
			select {
			case <-w.stopCh:
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != w.Path || !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) {
					continue
				}
				pending, dirty = true, true
			case err, ok := <-errs:
				if !ok {
					return
				}
				select {
				case w.errorCh <- err:
				default:
				}
			case <-ticker.C():
				switch {
				case dirty:
					dirty = false
				case pending:
					pending = false
					select {
					case w.changesCh <- struct{}{}:
					default:
					}
				}
			}
		}
	}()
}

// Stop stops the watching goroutine and releases the file watcher.
func (w *Watcher) Stop() {
	close(w.stopCh)
	<-w.doneCh
	if w.fsw != nil {
		w.fsw.Close()
	}
}

// Changes returns a channel that receives a value after each burst of changes.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changesCh
}

// Errors returns a channel of errors reported by the file watcher.
func (w *Watcher) Errors() <-chan error {
	return w.errorCh
}
