package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/wazuh/ossec-hids/pkg/logging"
)

const (
	userConfigDir      = ".config/ossec-conf"
	configFileName     = "config.yaml"
	tomlConfigFileName = "config.toml"
)

// osUserHomeDir is swapped in tests.
var osUserHomeDir = os.UserHomeDir

// GetDefaultConfigPath returns ~/.config/ossec-conf.
func GetDefaultConfigPath() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine user config directory: %w", err)
	}
	return filepath.Join(homeDir, userConfigDir), nil
}

// LoadConfig loads configuration from a single directory.
// config.yaml takes precedence over config.toml; with neither present the defaults are
// returned. Values missing from the file keep their defaults. The result is validated.
func LoadConfig(configPath string) (Config, error) {
	config := GetDefaultConfig()

	loaded, err := decodeFirst(configPath, &config)
	if err != nil {
		return Config{}, err
	}
	if loaded == "" {
		logging.Info("ConfigLoader", "No %s or %s found in %s, using defaults", configFileName, tomlConfigFileName, configPath)
	} else {
		logging.Info("ConfigLoader", "Loaded configuration from %s", loaded)
	}

	if err := config.Validate(loaded); err != nil {
		return Config{}, err
	}
	return config, nil
}

func decodeFirst(configPath string, config *Config) (string, error) {
	candidates := []struct {
		name   string
		decode func([]byte, any) error
	}{
		{configFileName, yaml.Unmarshal},
		{tomlConfigFileName, toml.Unmarshal},
	}

	for _, c := range candidates {
		path := filepath.Join(configPath, c.name)
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			logging.Info("ConfigLoader", "Error loading %s: %s", path, err)
			return "", err
		}
		if err := c.decode(data, config); err != nil {
			// config malformed
			return "", NewConfigurationErrorWithDetails(path, c.name, "", "parse",
				"malformed configuration file", err.Error(), nil)
		}
		return path, nil
	}
	return "", nil
}
