// Package config provides configuration management for ossec-conf.
//
// Configuration is loaded from a single directory, ~/.config/ossec-conf by default or
// the directory given with --config-path. The directory contains:
//   - config.yaml, or config.toml when no YAML file is present
//   - snapshots/, normalized documents written by the watcher
//
// Missing files are not an error: defaults describe a standard /var/ossec installation.
//
// # Configuration Structure
//
//	paths:
//	  ossecPath: /var/ossec                 # installation prefix
//	  ossecConf: etc/ossec.conf             # relative entries resolve against ossecPath
//	  sharedDir: etc/shared
//	  multiGroupsDir: var/multigroups
//	  internalOptions: etc/internal_options.conf
//	  localInternalOptions: etc/local_internal_options.conf
//	  tmpDir: tmp
//	validator:
//	  binary: bin/verify-agent-conf
//	  timeoutSeconds: 30
//	log:
//	  level: info                           # debug, info, warn, error
//	  format: text                          # text or json
//	metrics:
//	  textfile: /var/lib/node_exporter/ossec_conf.prom
//	watch:
//	  debounceMillis: 500
//	  snapshots: true
//
// The same keys are accepted in TOML form.
//
// # Validation
//
// LoadConfig validates the merged result and reports every problem at once through a
// ConfigurationErrorCollection.
package config
