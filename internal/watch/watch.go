// Package watch reports settled changes to a single input file.
package watch

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a file must stay quiet before a change is
// reported.
const DefaultDebounce = 100 * time.Millisecond

// ChangeKind describes the type of file change detected.
type ChangeKind int

const (
	ChangeModified ChangeKind = iota // file written or recreated
	ChangeRemoved                    // file gone when the change settled
)

func (k ChangeKind) String() string {
	if k == ChangeRemoved {
		return "removed"
	}
	return "modified"
}

// Change is one settled change of the watched file.
type Change struct {
	Kind ChangeKind
	File string
}

// Watcher monitors one file using fsnotify. The parent directory is
// watched rather than the file itself so that editors and download tools
// that replace the file by rename are still seen.
//
// Changes has room for one pending change; a change that settles before
// it is received replaces it, so the receiver always sees the file's
// latest state.
type Watcher struct {
	File     string
	Debounce time.Duration
	Changes  <-chan Change

	changes chan Change
	done    chan struct{}
	watcher *fsnotify.Watcher
}

// NewWatcher creates a watcher for file. Call Start to begin watching.
func NewWatcher(file string) (*Watcher, error) {
	abs, err := filepath.Abs(file)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ch := make(chan Change, 1)
	return &Watcher{
		File:     abs,
		Debounce: DefaultDebounce,
		Changes:  ch,
		changes:  ch,
		done:     make(chan struct{}),
		watcher:  fw,
	}, nil
}

// Start begins watching the file's directory for changes. If Start fails
// the watcher is released and must not be stopped.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(filepath.Dir(w.File)); err != nil {
		w.watcher.Close()
		return err
	}
	go w.loop()
	return nil
}

// Stop closes the watcher and the Changes channel.
func (w *Watcher) Stop() {
	w.watcher.Close()
	<-w.done
	close(w.changes)
}

func (w *Watcher) loop() {
	defer close(w.done)

	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	var pendingSince time.Time
	ticker := time.NewTicker(debounce)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				if !pendingSince.IsZero() {
					w.emit()
				}
				return
			}
			if filepath.Clean(event.Name) != w.File {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				pendingSince = time.Now()
			}

		case <-ticker.C:
			if !pendingSince.IsZero() && time.Since(pendingSince) >= debounce {
				w.emit()
				pendingSince = time.Time{}
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are non-fatal; the next event still arrives.
		}
	}
}

func (w *Watcher) emit() {
	c := Change{Kind: ChangeModified, File: w.File}
	if _, err := os.Stat(w.File); errors.Is(err, os.ErrNotExist) {
		c.Kind = ChangeRemoved
	}
	// Replace a change the receiver has not taken yet. loop is the only
	// sender, so the second send cannot block.
	select {
	case w.changes <- c:
	default:
		select {
		case <-w.changes:
		default:
		}
		w.changes <- c
	}
}
