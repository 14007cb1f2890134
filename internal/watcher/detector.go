package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/wazuh/ossec-hids/pkg/logging"
)

const detectorSubsystem = "FilesystemDetector"

// Target identifies what a change touched.
type Target string

const (
	TargetManager Target = "manager" // ossec.conf
	TargetGroup   Target = "group"   // <shared>/<group>/agent.conf
)

// Operation is the debounced file operation.
type Operation string

const (
	OperationCreate Operation = "create"
	OperationUpdate Operation = "update"
	OperationDelete Operation = "delete"
)

// Change is a debounced change to a watched configuration file.
type Change struct {
	Target    Target
	Group     string // set for TargetGroup
	Path      string
	Operation Operation
	Timestamp time.Time
}

func (c Change) key() string {
	return string(c.Target) + "/" + c.Group
}

// debounceEntry tracks a pending event for debouncing.
type debounceEntry struct {
	change Change
	timer  *time.Timer
}

// Detector watches ossec.conf and every group's agent.conf and emits debounced
// Change values.
type Detector struct {
	mu sync.Mutex

	ossecConf string
	sharedDir string
	fileName  string

	watcher          *fsnotify.Watcher
	debounceInterval time.Duration
	pendingEvents    map[string]*debounceEntry
	stopCh           chan struct{}
	running          bool
}

// NewDetector creates a detector for ossecConf and the group files named fileName
// under sharedDir.
func NewDetector(ossecConf, sharedDir, fileName string, debounceInterval time.Duration) *Detector {
	if debounceInterval == 0 {
		debounceInterval = 500 * time.Millisecond
	}
	return &Detector{
		ossecConf:        filepath.Clean(ossecConf),
		sharedDir:        filepath.Clean(sharedDir),
		fileName:         fileName,
		debounceInterval: debounceInterval,
		pendingEvents:    make(map[string]*debounceEntry),
		stopCh:           make(chan struct{}),
	}
}

// Start begins watching. Changes are delivered on changes until ctx is done or Stop
// is called.
func (d *Detector) Start(ctx context.Context, changes chan<- Change) error {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		d.mu.Unlock()
		return err
	}
	d.watcher = watcher
	d.running = true
	d.stopCh = make(chan struct{})
	d.mu.Unlock()

	if err := d.setupWatches(watcher); err != nil {
		d.Stop()
		return err
	}

	go d.processEvents(ctx, watcher, changes)

	logging.Info(detectorSubsystem, "Watching %s and %s for configuration changes", d.ossecConf, d.sharedDir)
	return nil
}

// setupWatches watches the directory holding ossec.conf (editors replace files by
// rename), the shared directory and every group directory.
func (d *Detector) setupWatches(w *fsnotify.Watcher) error {
	if err := w.Add(filepath.Dir(d.ossecConf)); err != nil {
		return err
	}
	if err := w.Add(d.sharedDir); err != nil {
		return err
	}

	entries, err := os.ReadDir(d.sharedDir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			addGroupWatch(w, filepath.Join(d.sharedDir, entry.Name()))
		}
	}
	return nil
}

func addGroupWatch(w *fsnotify.Watcher, dir string) {
	if err := w.Add(dir); err != nil {
		logging.Warn(detectorSubsystem, "Failed to watch %s: %v", dir, err)
		return
	}
	logging.Debug(detectorSubsystem, "Watching directory: %s", dir)
}

func (d *Detector) processEvents(ctx context.Context, w *fsnotify.Watcher, changes chan<- Change) {
	for {
		select {
		case <-ctx.Done():
			d.cleanupPendingEvents()
			return

		case <-d.stopCh:
			d.cleanupPendingEvents()
			return

		case event, ok := <-w.Events:
			if !ok {
				return
			}
			d.handleFsEvent(w, event, changes)

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			logging.Error(detectorSubsystem, err, "Filesystem watcher error")
		}
	}
}

func (d *Detector) handleFsEvent(w *fsnotify.Watcher, event fsnotify.Event, changes chan<- Change) {
	path := filepath.Clean(event.Name)

	if event.Op.Has(fsnotify.Create) && filepath.Dir(path) == d.sharedDir {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			addGroupWatch(w, path)
			return
		}
	}

	change, ok := d.classify(path)
	if !ok {
		return
	}

	switch {
	case event.Op.Has(fsnotify.Create):
		change.Operation = OperationCreate
	case event.Op.Has(fsnotify.Write):
		change.Operation = OperationUpdate
	case event.Op.Has(fsnotify.Remove), event.Op.Has(fsnotify.Rename):
		change.Operation = OperationDelete
	default:
		return
	}
	change.Timestamp = time.Now()

	d.debounce(change, changes)
}

// classify maps a path onto the file it represents, if it is one being watched.
func (d *Detector) classify(path string) (Change, bool) {
	if path == d.ossecConf {
		return Change{Target: TargetManager, Path: path}, true
	}

	rel, err := filepath.Rel(d.sharedDir, path)
	if err != nil {
		return Change{}, false
	}
	parts := strings.Split(rel, string(filepath.Separator))
	if len(parts) != 2 || parts[0] == ".." || parts[1] != d.fileName {
		return Change{}, false
	}
	return Change{Target: TargetGroup, Group: parts[0], Path: path}, true
}

func (d *Detector) debounce(change Change, changes chan<- Change) {
	d.mu.Lock()
	defer d.mu.Unlock()

	key := change.key()
	if entry, ok := d.pendingEvents[key]; ok {
		entry.timer.Stop()
		change.Operation = mergeOperations(entry.change.Operation, change.Operation)
	}

	timer := time.AfterFunc(d.debounceInterval, func() {
		d.mu.Lock()
		entry, ok := d.pendingEvents[key]
		if ok {
			delete(d.pendingEvents, key)
		}
		d.mu.Unlock()

		if !ok {
			return
		}
		select {
		case changes <- entry.change:
			logging.Debug(detectorSubsystem, "Emitted %s for %s", entry.change.Operation, entry.change.Path)
		default:
			logging.Warn(detectorSubsystem, "Change channel full, dropping change for %s", entry.change.Path)
		}
	})

	d.pendingEvents[key] = &debounceEntry{change: change, timer: timer}
}

// mergeOperations folds a burst of operations into one. A file that was deleted and
// then recreated (the usual editor save) is an update.
func mergeOperations(old, new Operation) Operation {
	switch {
	case old == OperationCreate && new != OperationDelete:
		return OperationCreate
	case old == OperationDelete && new == OperationCreate:
		return OperationUpdate
	default:
		return new
	}
}

func (d *Detector) cleanupPendingEvents() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, entry := range d.pendingEvents {
		entry.timer.Stop()
	}
	d.pendingEvents = make(map[string]*debounceEntry)
}

// Stop stops watching. It is safe to call more than once.
func (d *Detector) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.running {
		return nil
	}
	d.running = false
	close(d.stopCh)

	if d.watcher != nil {
		if err := d.watcher.Close(); err != nil {
			logging.Error(detectorSubsystem, err, "Error closing filesystem watcher")
		}
		d.watcher = nil
	}

	logging.Info(detectorSubsystem, "Stopped filesystem detector")
	return nil
}
