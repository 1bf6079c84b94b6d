package watcher

import (
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"twopane/internal/constants"
	apperrors "twopane/internal/errors"
	"twopane/internal/explorer"
	"twopane/internal/logging"
)

// Lister represents the listing operation the watcher needs; the explorer
// Facade satisfies it.
type Lister interface {
	Content(path string) ([]explorer.Entry, error)
}

// Changes represents entries that differ from the previous listing
type Changes struct {
	Added    []explorer.Entry
	Deleted  []explorer.Entry
	Modified []explorer.Entry
}

// Empty reports whether nothing changed.
func (c *Changes) Empty() bool {
	return len(c.Added) == 0 && len(c.Deleted) == 0 && len(c.Modified) == 0
}

// DirectoryWatcher reports changes to one directory. Filesystem events only
// mark the directory dirty; the listing is re-read once events settle and
// diffed against the previous snapshot.
type DirectoryWatcher struct {
	lister   Lister
	onChange func(*Changes)
	logger   *zap.Logger
	settle   time.Duration

	mu              sync.RWMutex // Protects the fields below
	path            string
	previousEntries map[string]explorer.Entry
	fsw             *fsnotify.Watcher
	stopChan        chan struct{}
	running         bool
}

// NewDirectoryWatcher creates a new directory watcher. onChange runs on the
// watcher's own goroutine; callers marshal to their UI thread as needed.
func NewDirectoryWatcher(lister Lister, onChange func(*Changes), logger *zap.Logger) *DirectoryWatcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	if onChange == nil {
		onChange = func(*Changes) {}
	}
	return &DirectoryWatcher{
		lister:          lister,
		onChange:        onChange,
		logger:          logger,
		settle:          constants.WatcherSettleDelay,
		previousEntries: make(map[string]explorer.Entry),
	}
}

// Path returns the directory being watched.
func (dw *DirectoryWatcher) Path() string {
	dw.mu.RLock()
	defer dw.mu.RUnlock()
	return dw.path
}

// Watch switches the watcher to path and takes a fresh snapshot.
func (dw *DirectoryWatcher) Watch(path string) error {
	dw.mu.Lock()
	old := dw.path
	dw.path = path
	if dw.running {
		if old != "" {
			_ = dw.fsw.Remove(old)
		}
		if err := dw.fsw.Add(path); err != nil {
			dw.mu.Unlock()
			return apperrors.NewWatcherError("watch", path, "cannot watch directory", err)
		}
	}
	dw.mu.Unlock()

	dw.updateSnapshot()
	return nil
}

// Start begins watching the current directory for changes
func (dw *DirectoryWatcher) Start() error {
	dw.mu.Lock()
	if dw.running {
		dw.mu.Unlock()
		return nil // Already running
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		dw.mu.Unlock()
		return apperrors.NewWatcherError("start", dw.path, "cannot create watcher", err)
	}
	if dw.path != "" {
		if err := fsw.Add(dw.path); err != nil {
			fsw.Close()
			dw.mu.Unlock()
			return apperrors.NewWatcherError("start", dw.path, "cannot watch directory", err)
		}
	}

	dw.fsw = fsw
	dw.stopChan = make(chan struct{})
	dw.running = true
	stop := dw.stopChan
	dw.mu.Unlock()

	dw.updateSnapshot() // Take initial snapshot

	changes := make(chan *Changes, constants.WatcherBufferSize)
	go dw.monitor(fsw, changes, stop)
	go dw.dispatch(changes, stop)
	dw.logger.Debug("directory watcher started", zap.String("path", dw.Path()))
	return nil
}

// Stop stops the directory watcher
func (dw *DirectoryWatcher) Stop() {
	dw.mu.Lock()
	if !dw.running {
		dw.mu.Unlock()
		return // Already stopped, do nothing
	}
	dw.running = false
	close(dw.stopChan)
	fsw := dw.fsw
	dw.fsw = nil
	dw.mu.Unlock()

	if err := fsw.Close(); err != nil {
		dw.logger.Debug("closing fsnotify watcher", zap.Error(err))
	}
}

// monitor collects fsnotify events and rescans once they settle
func (dw *DirectoryWatcher) monitor(fsw *fsnotify.Watcher, changes chan<- *Changes, stop <-chan struct{}) {
	ticker := time.NewTicker(dw.settle)
	defer ticker.Stop()

	dirty := false
	for {
		select {
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			dw.logger.Debug("fs event", zap.String("name", ev.Name), zap.Stringer("op", ev.Op))
			dirty = true
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			dw.logger.Warn("watcher error", zap.Error(err))
		case <-ticker.C:
			if dirty {
				dirty = !dw.checkForChanges(changes)
			}
		case <-stop:
			return
		}
	}
}

// dispatch delivers detected changes to the callback
func (dw *DirectoryWatcher) dispatch(changes <-chan *Changes, stop <-chan struct{}) {
	for {
		select {
		case c := <-changes:
			dw.logger.Debug("applying changes",
				zap.Int("added", len(c.Added)), zap.Int("deleted", len(c.Deleted)), zap.Int("modified", len(c.Modified)))
			dw.onChange(c)
		case <-stop:
			return
		}
	}
}

// updateSnapshot replaces the snapshot with the current listing
func (dw *DirectoryWatcher) updateSnapshot() {
	current, err := dw.currentEntries()
	if err != nil {
		dw.logger.Debug("snapshot skipped", zap.String("path", dw.Path()), zap.Error(err))
		current = make(map[string]explorer.Entry)
	}
	dw.mu.Lock()
	dw.previousEntries = current
	dw.mu.Unlock()
}

func (dw *DirectoryWatcher) currentEntries() (map[string]explorer.Entry, error) {
	path := dw.Path()
	if path == "" {
		return make(map[string]explorer.Entry), nil
	}
	entries, err := dw.lister.Content(path)
	if err != nil {
		return nil, err
	}
	current := make(map[string]explorer.Entry, len(entries))
	for _, e := range entries {
		current[e.Name] = e
	}
	return current, nil
}

// checkForChanges detects changes and queues them for dispatch. The snapshot
// only advances once the changes are queued, so a full channel defers them
// to the next check. It reports false when a retry is needed.
func (dw *DirectoryWatcher) checkForChanges(changes chan<- *Changes) bool {
	current, err := dw.currentEntries()
	if err != nil {
		return true // Skip this check if directory read fails
	}

	added, deleted, modified := dw.detectChanges(current)
	c := &Changes{Added: added, Deleted: deleted, Modified: modified}
	if !c.Empty() {
		select {
		case changes <- c:
		default:
			// Channel full, keep the old snapshot and retry later
			dw.logger.Debug("change channel full, deferring update")
			return false
		}
	}

	dw.mu.Lock()
	dw.previousEntries = current
	dw.mu.Unlock()
	return true
}

// detectChanges compares current and previous states to find differences
func (dw *DirectoryWatcher) detectChanges(current map[string]explorer.Entry) (added, deleted, modified []explorer.Entry) {
	dw.mu.RLock()
	defer dw.mu.RUnlock()

	for name, entry := range current {
		prev, exists := dw.previousEntries[name]
		switch {
		case !exists:
			added = append(added, entry)
		case prev != entry:
			modified = append(modified, entry)
		}
	}

	for name, entry := range dw.previousEntries {
		if _, exists := current[name]; !exists {
			deleted = append(deleted, entry)
		}
	}

	return added, deleted, modified
}
