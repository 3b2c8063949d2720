package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable the store reads.
// Dots and dashes in keys become underscores, so "retry.max_attempts" is
// read from GROK_RETRY_MAX_ATTEMPTS.
const EnvPrefix = "GROK"

// Store is the configuration store used across grok-search. It wraps a
// viper instance configured for dot-notation keys, YAML files, defaults and
// GROK_* environment overrides.
type Store struct {
	v *viper.Viper
}

// NewStore creates an empty Store bound to the GROK_* environment.
func NewStore() *Store {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return &Store{v: v}
}

// LoadYAMLFile reads a YAML config file into the store.
func (s *Store) LoadYAMLFile(path string) error {
	s.v.SetConfigFile(path)
	s.v.SetConfigType("yaml")
	return s.v.ReadInConfig()
}

// ConfigFileUsed returns the path of the loaded config file, if any.
func (s *Store) ConfigFileUsed() string {
	return s.v.ConfigFileUsed()
}

// Set stores a value under the given dot-notation key. Explicit values take
// precedence over environment variables, the config file and defaults.
func (s *Store) Set(key string, value interface{}) {
	s.v.Set(key, value)
}

// SetDefault sets a default value that is used when no explicit value exists.
func (s *Store) SetDefault(key string, value interface{}) {
	s.v.SetDefault(key, value)
}

// Get returns the raw value for a key.
func (s *Store) Get(key string) (interface{}, bool) {
	val := s.v.Get(key)
	return val, val != nil
}

// GetString returns the string value for a key.
func (s *Store) GetString(key string) string {
	return s.v.GetString(key)
}

// GetInt returns the integer value for a key.
func (s *Store) GetInt(key string) int {
	return s.v.GetInt(key)
}

// GetBool returns the boolean value for a key.
func (s *Store) GetBool(key string) bool {
	return s.v.GetBool(key)
}

// GetDuration returns the duration value for a key.
func (s *Store) GetDuration(key string) time.Duration {
	return s.v.GetDuration(key)
}

// GetStringSlice returns a string slice for a key.
func (s *Store) GetStringSlice(key string) []string {
	return s.v.GetStringSlice(key)
}

// AllSettings returns the merged settings as a nested map.
func (s *Store) AllSettings() map[string]interface{} {
	return s.v.AllSettings()
}
