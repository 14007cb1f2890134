package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/wazuh/ossec-hids/pkg/logging"
)

// SnapshotKind is the storage subdirectory holding normalized configuration snapshots.
const SnapshotKind = "snapshots"

// Storage keeps YAML documents in per-kind subdirectories of the configuration
// directory. The watcher uses it to persist the last normalized result of every source.
type Storage struct {
	mu         sync.RWMutex
	configPath string // Optional custom config path; otherwise ~/.config/ossec-conf
}

// NewStorage creates a new Storage instance using the default configuration directory
func NewStorage() *Storage {
	return &Storage{}
}

// NewStorageWithPath creates a new Storage instance with a custom config path
func NewStorageWithPath(configPath string) *Storage {
	return &Storage{
		configPath: configPath,
	}
}

// Save stores data for the given kind and name
func (ds *Storage) Save(kind string, name string, data []byte) error {
	if err := checkKey(kind, name); err != nil {
		return err
	}

	ds.mu.Lock()
	defer ds.mu.Unlock()

	targetDir, err := ds.kindDir(kind)
	if err != nil {
		return fmt.Errorf("failed to resolve directory for %s: %w", kind, err)
	}

	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", targetDir, err)
	}

	filePath := filepath.Join(targetDir, ds.sanitizeFilename(name)+".yaml")

	// Write via a temp file so readers never see a partial snapshot.
	tmp := filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, filePath); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write file %s: %w", filePath, err)
	}

	logging.Debug("Storage", "Saved %s/%s to %s", kind, name, filePath)
	return nil
}

// Load retrieves data for the given kind and name
func (ds *Storage) Load(kind string, name string) ([]byte, error) {
	if err := checkKey(kind, name); err != nil {
		return nil, err
	}

	ds.mu.RLock()
	defer ds.mu.RUnlock()

	dir, err := ds.kindDir(kind)
	if err != nil {
		return nil, fmt.Errorf("failed to get configuration directory: %w", err)
	}

	filePath := filepath.Join(dir, ds.sanitizeFilename(name)+".yaml")
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s/%s not found: %w", kind, name, os.ErrNotExist)
		}
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}

	logging.Debug("Storage", "Loaded %s/%s from %s", kind, name, filePath)
	return data, nil
}

// Delete removes the file for the given kind and name
func (ds *Storage) Delete(kind string, name string) error {
	if err := checkKey(kind, name); err != nil {
		return err
	}

	ds.mu.Lock()
	defer ds.mu.Unlock()

	dir, err := ds.kindDir(kind)
	if err != nil {
		return fmt.Errorf("failed to get configuration directory: %w", err)
	}

	filePath := filepath.Join(dir, ds.sanitizeFilename(name)+".yaml")
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return fmt.Errorf("%s/%s not found: %w", kind, name, os.ErrNotExist)
	}

	if err := os.Remove(filePath); err != nil {
		return fmt.Errorf("failed to delete file %s: %w", filePath, err)
	}

	logging.Info("Storage", "Deleted %s/%s from %s", kind, name, filePath)
	return nil
}

// List returns all stored names for the given kind, sorted
func (ds *Storage) List(kind string) ([]string, error) {
	if kind == "" {
		return nil, fmt.Errorf("kind cannot be empty")
	}

	ds.mu.RLock()
	defer ds.mu.RUnlock()

	dir, err := ds.kindDir(kind)
	if err != nil {
		return nil, fmt.Errorf("failed to get configuration directory: %w", err)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", kind, err)
	}

	names := make([]string, 0, len(matches))
	for _, filePath := range matches {
		base := filepath.Base(filePath)
		names = append(names, strings.TrimSuffix(base, filepath.Ext(base)))
	}
	sort.Strings(names)
	return names, nil
}

func checkKey(kind, name string) error {
	if kind == "" {
		return fmt.Errorf("kind cannot be empty")
	}
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	return nil
}

func (ds *Storage) kindDir(kind string) (string, error) {
	if ds.configPath != "" {
		return filepath.Join(ds.configPath, kind), nil
	}
	base, err := GetDefaultConfigPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, kind), nil
}

// sanitizeFilename maps a source name such as "etc/shared/default/agent.conf" onto a
// flat, filesystem-safe file name.
func (ds *Storage) sanitizeFilename(name string) string {
	replacer := strings.NewReplacer(
		"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
		"\"", "_", "<", "_", ">", "_", "|", "_", ".", "_", " ", "_",
	)
	sanitized := replacer.Replace(name)

	// Collapse multiple consecutive underscores to single underscore
	for strings.Contains(sanitized, "__") {
		sanitized = strings.ReplaceAll(sanitized, "__", "_")
	}
	sanitized = strings.Trim(sanitized, "_")

	if sanitized == "" {
		sanitized = "unnamed"
	}
	return sanitized
}
