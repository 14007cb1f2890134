package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestLoadConfig_DefaultOnly(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, GetDefaultConfig(), cfg)

	assert.Equal(t, "/var/ossec/etc/ossec.conf", cfg.Paths.OssecConfPath())
	assert.Equal(t, "/var/ossec/etc/shared", cfg.Paths.SharedPath())
	assert.Equal(t, "/var/ossec/etc/shared/ar.conf", cfg.Paths.ARConfPath())
	assert.Equal(t, "/var/ossec/bin/verify-agent-conf", cfg.BinaryPath())
	assert.Equal(t, 30*time.Second, cfg.Validator.Timeout())
	assert.Equal(t, 500*time.Millisecond, cfg.Watch.Debounce())
}

func TestLoadConfig_YAMLOverride(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, configFileName, `
paths:
  ossecPath: /opt/wazuh
  ossecConf: /etc/custom/ossec.conf
log:
  level: debug
  format: json
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "/etc/custom/ossec.conf", cfg.Paths.OssecConfPath())
	assert.Equal(t, "/opt/wazuh/etc/shared", cfg.Paths.SharedPath())
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, DefaultValidatorTimeoutSeconds, cfg.Validator.TimeoutSeconds)
}

func TestLoadConfig_TOMLFallback(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, tomlConfigFileName, `
[paths]
ossecPath = "/srv/ossec"

[validator]
timeoutSeconds = 5

[watch]
debounceMillis = 50
snapshots = true
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "/srv/ossec/tmp", cfg.Paths.TmpPath())
	assert.Equal(t, 5*time.Second, cfg.Validator.Timeout())
	assert.True(t, cfg.Watch.Snapshots)
	assert.Equal(t, 50, cfg.Watch.DebounceMillis)
}

func TestLoadConfig_YAMLWinsOverTOML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, configFileName, "paths:\n  ossecPath: /from/yaml\n")
	writeFile(t, dir, tomlConfigFileName, "[paths]\nossecPath = \"/from/toml\"\n")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "/from/yaml", cfg.Paths.OssecPath)
}

func TestLoadConfig_Malformed(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, configFileName, "paths: [unterminated\n")

	_, err := LoadConfig(dir)
	require.Error(t, err)

	var ce ConfigurationError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "parse", ce.ErrorType)
	assert.Equal(t, configFileName, ce.FileName)
}

func TestLoadConfig_ValidationCollectsEveryProblem(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, configFileName, `
paths:
  ossecPath: relative/path
validator:
  timeoutSeconds: 0
log:
  level: loud
  format: xml
watch:
  debounceMillis: -1
`)

	_, err := LoadConfig(dir)
	require.Error(t, err)

	var collection ConfigurationErrorCollection
	require.True(t, errors.As(err, &collection))
	assert.Equal(t, 5, collection.Count())

	var fields []string
	for _, e := range collection.Errors {
		fields = append(fields, e.Field)
		assert.Equal(t, configFileName, e.FileName)
	}
	assert.ElementsMatch(t, []string{
		"paths.ossecPath", "validator.timeoutSeconds", "log.level", "log.format", "watch.debounceMillis",
	}, fields)
	assert.Contains(t, collection.GetDetailedReport(), "must be one of: text, json")
}

func TestGetDefaultConfigPath(t *testing.T) {
	orig := osUserHomeDir
	defer func() { osUserHomeDir = orig }()

	osUserHomeDir = func() (string, error) { return "/home/analyst", nil }
	path, err := GetDefaultConfigPath()
	require.NoError(t, err)
	assert.Equal(t, "/home/analyst/.config/ossec-conf", path)

	osUserHomeDir = func() (string, error) { return "", errors.New("no home") }
	_, err = GetDefaultConfigPath()
	assert.Error(t, err)
}
