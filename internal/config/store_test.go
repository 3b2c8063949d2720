package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_DefaultsAndSet(t *testing.T) {
	s := NewStore()
	s.SetDefault("retry.max_wait", "10s")

	assert.Equal(t, 10*time.Second, s.GetDuration("retry.max_wait"))

	t.Setenv("GROK_RETRY_MAX_WAIT", "5s")
	assert.Equal(t, 5*time.Second, s.GetDuration("retry.max_wait"))

	s.Set("retry.max_wait", "3s")
	assert.Equal(t, 3*time.Second, s.GetDuration("retry.max_wait"))
}

func TestStore_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("retry:\n  max_attempts: 2\n  empty_results: true\n"), 0o644))

	t.Setenv("GROK_RETRY_MAX_ATTEMPTS", "7")
	t.Setenv("GROK_RETRY_EMPTY_RESULTS", "false")

	s := NewStore()
	require.NoError(t, s.LoadYAMLFile(path))

	assert.Equal(t, 7, s.GetInt("retry.max_attempts"))
	assert.False(t, s.GetBool("retry.empty_results"))
	assert.Equal(t, path, s.ConfigFileUsed())
}

func TestStore_GetMissing(t *testing.T) {
	s := NewStore()

	v, ok := s.Get("nothing.here")
	assert.Nil(t, v)
	assert.False(t, ok)
	assert.Equal(t, "", s.GetString("nothing.here"))
	assert.Equal(t, 0, s.GetInt("nothing.here"))
}

func TestStore_StringSliceFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("tags: [a, b]\n"), 0o644))

	s := NewStore()
	require.NoError(t, s.LoadYAMLFile(path))
	assert.Equal(t, []string{"a", "b"}, s.GetStringSlice("tags"))
	assert.Contains(t, s.AllSettings(), "tags")
}
