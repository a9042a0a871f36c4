// Package watcher triggers callbacks when watched files change.
//
// The daemon uses it to rescan when macOS rewrites the airport preferences,
// which happens whenever a network is joined, saved or forgotten.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce coalesces bursts of writes into one callback
const DefaultDebounce = 500 * time.Millisecond

// changeOps are the operations that count as a change. Preferences are usually
// replaced by rename, so the file is watched through its directory.
const changeOps = fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove

// ErrNothingToWatch is returned when none of the paths could be watched
var ErrNothingToWatch = errors.New("no watchable paths")

// Watcher watches files for changes
type Watcher struct {
	paths    []string
	onChange func(path string)
	debounce time.Duration
	logger   zerolog.Logger
}

// New creates a watcher that calls onChange with the absolute path of each
// changed file
func New(paths []string, onChange func(path string), logger zerolog.Logger) *Watcher {
	return &Watcher{
		paths:    paths,
		onChange: onChange,
		debounce: DefaultDebounce,
		logger:   logger,
	}
}

// WithDebounce sets the debounce duration
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	if d > 0 {
		w.debounce = d
	}
	return w
}

// Watch starts watching the files for changes
// It blocks until the context is cancelled or an error occurs
func (w *Watcher) Watch(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	watchedDirs := make(map[string]bool)
	fileSet := make(map[string]bool)

	for _, path := range w.paths {
		absPath, err := filepath.Abs(path)
		if err != nil {
			w.logger.Warn().Err(err).Str("path", path).Msg("Skipping watch path")
			continue
		}

		dir := filepath.Dir(absPath)
		if !watchedDirs[dir] {
			if err := fw.Add(dir); err != nil {
				w.logger.Warn().Err(err).Str("dir", dir).Msg("Failed to watch directory")
				continue
			}
			watchedDirs[dir] = true
		}

		fileSet[absPath] = true
		w.logger.Info().Str("path", absPath).Msg("Watching for changes")
	}

	if len(fileSet) == 0 {
		return ErrNothingToWatch
	}

	var (
		mu     sync.Mutex
		timers = make(map[string]*time.Timer)
	)
	defer func() {
		mu.Lock()
		for _, timer := range timers {
			timer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}

			absPath, err := filepath.Abs(event.Name)
			if err != nil || !fileSet[absPath] {
				continue
			}
			if event.Op&changeOps == 0 {
				continue
			}

			mu.Lock()
			if timer, exists := timers[absPath]; exists {
				timer.Stop()
			}
			timers[absPath] = time.AfterFunc(w.debounce, func() {
				if ctx.Err() != nil {
					return
				}
				w.logger.Debug().Str("path", absPath).Msg("File changed")
				w.onChange(absPath)
			})
			mu.Unlock()

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn().Err(err).Msg("Watcher error")

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
