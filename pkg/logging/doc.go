// Package logging provides the subsystem-tagged structured logger used by ossec-conf.
//
// It is a thin layer over log/slog. Every record carries a "subsystem" attribute so
// output can be filtered per component.
//
// # Usage
//
//	logging.InitForCLI(logging.LevelInfo, os.Stderr)
//
//	logging.Info("Manager", "Loaded %s", path)
//	logging.Warn("Normalize", "There are multiple %s sections in configuration", name)
//	logging.Error("Upload", err, "Failed to move %s", dst)
//
// JSON output is selected with InitForCLIWithFormat(level, FormatJSON, w).
//
// # Subsystems
//
//   - Bootstrap: command start-up
//   - Config: configuration loading and validation
//   - Normalize: XML transformation warnings
//   - Manager: configuration reads and uploads
//   - Validator: external validator runs
//   - Watcher: file change detection
//   - Shell: interactive session
//
// Calls made before initialization are dropped unless they are warnings or errors,
// which are written to stderr.
package logging
