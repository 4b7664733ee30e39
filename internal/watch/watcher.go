// Package watch notifies about changes to individual files
package watch

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// FileWatcher calls onChange whenever one of the watched files is written or
// created.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]bool
	logger   zerolog.Logger
	onChange func(path string)
}

// NewFileWatcher creates a new file watcher
func NewFileWatcher(logger zerolog.Logger, onChange func(path string)) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	return &FileWatcher{
		watcher:  watcher,
		files:    make(map[string]bool),
		logger:   logger,
		onChange: onChange,
	}, nil
}

// AddFile watches path. The parent directory is watched so that files
// replaced by rename are still noticed.
func (fw *FileWatcher) AddFile(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	if err := fw.watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", filepath.Dir(abs), err)
	}
	fw.files[abs] = true
	return nil
}

// Start begins watching for file changes and blocks until ctx is done
func (fw *FileWatcher) Start(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher channel closed")
			}

			if fw.shouldNotify(event) {
				fw.onChange(event.Name)
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}
			if err != nil {
				// Log error but continue watching
				fw.logger.Warn().Err(err).Msg("watcher error")
			}
		}
	}
}

// shouldNotify reports whether event changes the content of a watched file
func (fw *FileWatcher) shouldNotify(event fsnotify.Event) bool {
	abs, err := filepath.Abs(event.Name)
	if err != nil || !fw.files[abs] {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

// Close stops the watcher
func (fw *FileWatcher) Close() error {
	return fw.watcher.Close()
}
