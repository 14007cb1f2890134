package config

import (
	"path/filepath"
	"time"
)

// Config is the top-level configuration structure for ossec-conf.
type Config struct {
	Paths     PathsConfig     `yaml:"paths" toml:"paths"`
	Validator ValidatorConfig `yaml:"validator" toml:"validator"`
	Log       LogConfig       `yaml:"log" toml:"log"`
	Metrics   MetricsConfig   `yaml:"metrics" toml:"metrics"`
	Watch     WatchConfig     `yaml:"watch" toml:"watch"`
}

// PathsConfig locates the installation. Relative entries are resolved against OssecPath.
type PathsConfig struct {
	OssecPath            string `yaml:"ossecPath" toml:"ossecPath"`
	OssecConf            string `yaml:"ossecConf,omitempty" toml:"ossecConf,omitempty"`
	SharedDir            string `yaml:"sharedDir,omitempty" toml:"sharedDir,omitempty"`
	MultiGroupsDir       string `yaml:"multiGroupsDir,omitempty" toml:"multiGroupsDir,omitempty"`
	InternalOptions      string `yaml:"internalOptions,omitempty" toml:"internalOptions,omitempty"`
	LocalInternalOptions string `yaml:"localInternalOptions,omitempty" toml:"localInternalOptions,omitempty"`
	TmpDir               string `yaml:"tmpDir,omitempty" toml:"tmpDir,omitempty"`
}

// ValidatorConfig describes the external agent configuration checker.
type ValidatorConfig struct {
	Binary         string `yaml:"binary" toml:"binary"`
	TimeoutSeconds int    `yaml:"timeoutSeconds" toml:"timeoutSeconds"`
}

// LogConfig controls the logging output.
type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`   // debug, info, warn, error
	Format string `yaml:"format" toml:"format"` // text or json
}

// MetricsConfig controls the Prometheus textfile export. An empty Textfile disables it.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty" toml:"textfile,omitempty"`
}

// WatchConfig tunes the change watcher.
type WatchConfig struct {
	DebounceMillis int  `yaml:"debounceMillis" toml:"debounceMillis"`
	Snapshots      bool `yaml:"snapshots" toml:"snapshots"` // store every normalized result
}

func (p PathsConfig) resolve(rel string) string {
	if rel == "" || filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(p.OssecPath, rel)
}

// OssecConfPath is the manager configuration file.
func (p PathsConfig) OssecConfPath() string { return p.resolve(p.OssecConf) }

// SharedPath is the directory holding one subdirectory per agent group.
func (p PathsConfig) SharedPath() string { return p.resolve(p.SharedDir) }

// MultiGroupsPath is the directory holding merged multi-group configurations.
func (p PathsConfig) MultiGroupsPath() string { return p.resolve(p.MultiGroupsDir) }

// InternalOptionsPath is the global internal options file.
func (p PathsConfig) InternalOptionsPath() string { return p.resolve(p.InternalOptions) }

// LocalInternalOptionsPath is the local override of the internal options file.
func (p PathsConfig) LocalInternalOptionsPath() string { return p.resolve(p.LocalInternalOptions) }

// TmpPath is where uploads are staged before validation.
func (p PathsConfig) TmpPath() string { return p.resolve(p.TmpDir) }

// ARConfPath is the active response command list, kept in the shared directory.
func (p PathsConfig) ARConfPath() string { return filepath.Join(p.SharedPath(), "ar.conf") }

// BinaryPath resolves the validator binary.
func (c Config) BinaryPath() string { return c.Paths.resolve(c.Validator.Binary) }

// Timeout returns the validator timeout.
func (v ValidatorConfig) Timeout() time.Duration {
	return time.Duration(v.TimeoutSeconds) * time.Second
}

// Debounce returns the watcher debounce interval.
func (w WatchConfig) Debounce() time.Duration {
	return time.Duration(w.DebounceMillis) * time.Millisecond
}
