// Package watcher reports debounced file changes so generated tables can be
// rebuilt while their sources are edited.
package watcher

import "context"

// FileWatcher delivers batches of changed paths after a quiet period.
type FileWatcher interface {
	// Start runs the event loop in the background until ctx is done or Stop
	// is called. callback receives each debounced batch of changed paths.
	Start(ctx context.Context, callback func(files []string)) error

	// Stop ends the event loop and closes the underlying fsnotify watcher.
	Stop() error

	// Pause holds callbacks back; changes keep accumulating.
	Pause()

	// Resume re-enables callbacks and flushes anything held back by Pause.
	Resume()
}
