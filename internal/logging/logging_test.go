package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesToFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	logger, closer, err := New(Options{Dir: dir, Level: "info"})
	require.NoError(t, err)

	logger.Info("attempt finished", slog.String("outcome", "empty"))
	logger.Debug("hidden at info level")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "attempt finished")
	assert.Contains(t, string(data), "empty")
	assert.NotContains(t, string(data), "hidden at info level")
}

func TestNew_DebugWritesConsole(t *testing.T) {
	var buf bytes.Buffer

	logger, closer, err := New(Options{Debug: true, Console: &buf})
	require.NoError(t, err)
	defer closer.Close()

	logger.Debug("retrying", slog.Int("attempt", 2))
	assert.Contains(t, buf.String(), "retrying")
}

func TestNew_NoOutputDiscards(t *testing.T) {
	logger, closer, err := New(Options{})
	require.NoError(t, err)
	assert.NotNil(t, logger)
	assert.NoError(t, closer.Close())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}
