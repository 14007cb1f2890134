// Package watcher re-normalizes ossec.conf and the group agent.conf files whenever
// they change on disk, logging overwrite warnings, updating metrics and optionally
// keeping a snapshot of every normalized result.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wazuh/ossec-hids/internal/config"
	"github.com/wazuh/ossec-hids/internal/manager"
	"github.com/wazuh/ossec-hids/internal/metrics"
	"github.com/wazuh/ossec-hids/internal/normalize"
	"github.com/wazuh/ossec-hids/pkg/logging"
)

const subsystem = "Watcher"

// Source is the part of manager.Manager the watcher needs.
type Source interface {
	Paths() config.PathsConfig
	Document() (*normalize.Document, []normalize.Warning, error)
	Groups() ([]string, error)
	AgentConf(req manager.AgentConfRequest) (*manager.Page, error)
}

// Result is the outcome of re-normalizing one changed file.
type Result struct {
	Change   Change
	Sections int // sections for the manager, filter groups for a group
	Warnings []normalize.Warning
	Err      error
}

// Options tunes a Watcher.
type Options struct {
	Debounce        time.Duration
	Storage         *config.Storage // nil disables snapshots
	Recorder        *metrics.Recorder
	MetricsTextfile string
	OnResult        func(Result)
}

// Watcher ties a Detector to a Source.
type Watcher struct {
	source   Source
	options  Options
	detector *Detector
	changes  chan Change
}

// New creates a Watcher over src.
func New(src Source, options Options) *Watcher {
	paths := src.Paths()
	return &Watcher{
		source:   src,
		options:  options,
		detector: NewDetector(paths.OssecConfPath(), paths.SharedPath(), manager.AgentConfFileName, options.Debounce),
		changes:  make(chan Change, 64),
	}
}

// Start normalizes every watched file once and begins watching.
func (w *Watcher) Start(ctx context.Context) error {
	w.Sync()
	if err := w.detector.Start(ctx, w.changes); err != nil {
		return fmt.Errorf("failed to start watching: %w", err)
	}
	return nil
}

// Run handles changes until ctx is done. Start must have been called.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.detector.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case change := <-w.changes:
			w.handle(change)
		}
	}
}

// Sync normalizes ossec.conf and every group's agent.conf.
func (w *Watcher) Sync() {
	paths := w.source.Paths()
	w.handle(Change{Target: TargetManager, Path: paths.OssecConfPath(), Operation: OperationUpdate, Timestamp: time.Now()})

	groups, err := w.source.Groups()
	if err != nil {
		logging.Error(subsystem, err, "Failed to list groups")
		return
	}
	for _, group := range groups {
		path := filepath.Join(paths.SharedPath(), group, manager.AgentConfFileName)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		w.handle(Change{Target: TargetGroup, Group: group, Path: path, Operation: OperationUpdate, Timestamp: time.Now()})
	}
}

func (w *Watcher) handle(change Change) {
	result := w.process(change)

	switch {
	case result.Err != nil:
		logging.Error(subsystem, result.Err, "Failed to normalize %s", change.Path)
	case change.Operation == OperationDelete:
		logging.Info(subsystem, "%s was removed", change.Path)
	default:
		logging.Info(subsystem, "Normalized %s (%d entries, %d warnings)", change.Path, result.Sections, len(result.Warnings))
	}

	if w.options.Recorder != nil {
		if err := w.options.Recorder.WriteTextfile(w.options.MetricsTextfile); err != nil {
			logging.Warn(subsystem, "%v", err)
		}
	}
	if w.options.OnResult != nil {
		w.options.OnResult(result)
	}
}

func (w *Watcher) process(change Change) Result {
	result := Result{Change: change}
	if change.Operation == OperationDelete {
		w.dropSnapshot(change)
		return result
	}

	var snapshot any
	switch change.Target {
	case TargetManager:
		doc, warnings, err := w.source.Document()
		if err != nil {
			result.Err = err
			return result
		}
		result.Sections = doc.Len()
		result.Warnings = warnings
		snapshot = doc
	case TargetGroup:
		page, err := w.source.AgentConf(manager.AgentConfRequest{Group: change.Group})
		if err != nil {
			result.Err = err
			return result
		}
		result.Sections = page.TotalItems
		snapshot = page.Items
	}

	w.saveSnapshot(change, snapshot)
	return result
}

// SnapshotName is the storage name of the snapshot for change.
func SnapshotName(change Change) string {
	if change.Target == TargetGroup {
		return "group-" + change.Group
	}
	return "ossec-conf"
}

func (w *Watcher) saveSnapshot(change Change, v any) {
	if w.options.Storage == nil {
		return
	}
	data, err := yaml.Marshal(v)
	if err != nil {
		logging.Warn(subsystem, "Failed to encode snapshot of %s: %v", change.Path, err)
		return
	}
	if err := w.options.Storage.Save(config.SnapshotKind, SnapshotName(change), data); err != nil {
		logging.Warn(subsystem, "Failed to save snapshot of %s: %v", change.Path, err)
	}
}

func (w *Watcher) dropSnapshot(change Change) {
	if w.options.Storage == nil {
		return
	}
	if err := w.options.Storage.Delete(config.SnapshotKind, SnapshotName(change)); err != nil {
		logging.Debug(subsystem, "No snapshot to remove for %s: %v", change.Path, err)
	}
}
