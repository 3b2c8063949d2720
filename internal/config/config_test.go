package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	conf := NewDefaultConfig()

	assert.Equal(t, "info", conf.LogLevel)
	assert.NotNil(t, conf.Store)
	assert.NotNil(t, conf.Printers)
	assert.NotNil(t, conf.InReader)
	assert.NotNil(t, conf.OutWriter)
	assert.NotNil(t, conf.ErrWriter)
}

func TestGetConfigFilePath(t *testing.T) {
	path, err := GetConfigFilePath()
	require.NoError(t, err)
	assert.Contains(t, path, ".config/grok-search")
	assert.Contains(t, path, "config.yml")
}

func TestGetLogDirPath(t *testing.T) {
	dir, err := GetLogDirPath()
	require.NoError(t, err)
	assert.Contains(t, dir, filepath.Join(".config/grok-search", "logs"))
}

func TestNewConfig_ExplicitMissingFileFails(t *testing.T) {
	_, err := NewConfig(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestNewConfig_ReadsFileAndLogSettings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	logDir := filepath.Join(dir, "logs")
	content := "debug: true\nlog:\n  dir: " + logDir + "\n  level: warn\nmodel: grok-test\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	conf, err := NewConfig(path)
	require.NoError(t, err)

	assert.True(t, conf.Debug)
	assert.Equal(t, "warn", conf.LogLevel)
	assert.Equal(t, logDir, conf.LogDir)
	assert.Equal(t, path, conf.ConfigFilePath)
	assert.Equal(t, "grok-test", conf.Store.GetString("model"))
}

func TestNewConfig_EnvOverridesLogDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("GROK_LOG_DIR", dir)

	conf, err := NewConfig("")
	require.NoError(t, err)
	assert.Equal(t, dir, conf.LogDir)
}

func TestNewConfig_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("retry: [unclosed"), 0o644))

	_, err := NewConfig(path)
	assert.Error(t, err)
}
