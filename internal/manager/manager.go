// Package manager implements the read, query and upload operations over an ossec
// installation: the normalized ossec.conf, per-group agent.conf files, the rootcheck
// databases, internal options and validated group configuration uploads.
package manager

import (
	"regexp"
	"sync"

	"github.com/wazuh/ossec-hids/internal/config"
	"github.com/wazuh/ossec-hids/internal/metrics"
	"github.com/wazuh/ossec-hids/internal/normalize"
	"github.com/wazuh/ossec-hids/internal/validator"
	"github.com/wazuh/ossec-hids/internal/xmlsource"
	"github.com/wazuh/ossec-hids/pkg/logging"
)

const subsystem = "Manager"

// AgentConfFileName is the only group file that can be read as XML or uploaded.
const AgentConfFileName = "agent.conf"

// DefaultLimit is the page size used when a caller does not give one.
const DefaultLimit = 500

var groupName = regexp.MustCompile(`^[\w.\-]+$`)

// Manager gives access to one installation.
type Manager struct {
	paths     config.PathsConfig
	validator validator.Validator
	recorder  *metrics.Recorder

	uploadMu sync.Mutex
}

// Option configures a Manager.
type Option func(*Manager)

// WithRecorder makes the Manager report transforms and uploads to r.
func WithRecorder(r *metrics.Recorder) Option {
	return func(m *Manager) { m.recorder = r }
}

// New creates a Manager for the installation described by paths. v may be nil when
// uploads are not needed.
func New(paths config.PathsConfig, v validator.Validator, opts ...Option) *Manager {
	m := &Manager{paths: paths, validator: v}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Paths returns the installation paths the Manager works on.
func (m *Manager) Paths() config.PathsConfig {
	return m.paths
}

// Document loads and normalizes ossec.conf.
func (m *Manager) Document() (*normalize.Document, []normalize.Warning, error) {
	path := m.paths.OssecConfPath()
	logging.Debug(subsystem, "Loading %s", path)

	root, err := xmlsource.LoadFile(path)
	if err != nil {
		m.observeTransform(metrics.TargetManager, 0, err)
		return nil, nil, err
	}
	doc, warnings, err := normalize.Transform(root)
	if err != nil {
		m.observeTransform(metrics.TargetManager, 0, err)
		return nil, nil, err
	}
	m.observeTransform(metrics.TargetManager, doc.Len(), nil)
	m.observeWarnings(warnings)
	return doc, warnings, nil
}

// OssecConf returns the normalized ossec.conf, optionally narrowed to a section and a
// field of that section.
func (m *Manager) OssecConf(section, field string) (normalize.Value, error) {
	doc, _, err := m.Document()
	if err != nil {
		return normalize.Value{}, err
	}
	return doc.Select(section, field)
}

func (m *Manager) observeTransform(target metrics.Target, sections int, err error) {
	if m.recorder != nil {
		m.recorder.ObserveTransform(target, sections, err)
	}
}

func (m *Manager) observeWarnings(warnings []normalize.Warning) {
	if m.recorder == nil {
		return
	}
	for _, w := range warnings {
		m.recorder.ObserveWarning(w.Section)
	}
}
