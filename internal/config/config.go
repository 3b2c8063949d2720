package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	printers "github.com/sanix-darker/grok-search/internal/printers"
)

const (
	ConfigDirPath  = ".config/grok-search"
	ConfigFileName = "config.yml"
	LogDirName     = "logs"
)

// Keys read by the cli layer. Provider and retry keys live in the provider
// package.
const (
	KeyDebug    = "debug"
	KeyLogDir   = "log.dir"
	KeyLogLevel = "log.level"
)

// Config contains the entire cli dependencies
type Config struct {
	Version        string
	Store          *Store
	ConfigFilePath string
	LogDir         string
	LogLevel       string
	Debug          bool
	Provider       string
	Model          string
	APIURL         string
	Raw            bool
	Copy           bool
	MetricsFile    string
	Printers       printers.IPrinters

	//io Writers useful for testing
	InReader  io.Reader
	OutWriter io.Writer
	ErrWriter io.Writer
}

// NewDefaultConfig creates a new default config reading the default config
// file when it exists.
func NewDefaultConfig() Config {
	conf, _ := NewConfig("")
	return conf
}

// NewConfig creates a config backed by the file at path. An empty path means
// ~/.config/grok-search/config.yml, which may be missing; an explicit path
// must exist.
func NewConfig(path string) (Config, error) {
	conf := Config{
		Printers:  printers.NewPrinters(),
		LogLevel:  "info",
		InReader:  os.Stdin,
		OutWriter: os.Stdout,
		ErrWriter: os.Stderr,
	}

	explicit := path != ""
	if !explicit {
		p, err := GetConfigFilePath()
		if err == nil {
			path = p
		}
	} else {
		expanded, err := homedir.Expand(path)
		if err != nil {
			return conf, fmt.Errorf("failed to expand config path: %w", err)
		}
		path = expanded
	}
	conf.ConfigFilePath = path

	store, err := setupStore(path)
	conf.Store = store
	if err != nil && (explicit || !errors.Is(err, fs.ErrNotExist)) {
		return conf, err
	}

	conf.Debug = store.GetBool(KeyDebug)
	if lvl := store.GetString(KeyLogLevel); lvl != "" {
		conf.LogLevel = lvl
	}
	conf.LogDir = store.GetString(KeyLogDir)
	if conf.LogDir == "" {
		if dir, err := GetLogDirPath(); err == nil {
			conf.LogDir = dir
		}
	}
	conf.LogDir, _ = homedir.Expand(conf.LogDir)

	return conf, nil
}

func setupStore(path string) (*Store, error) {
	s := NewStore()
	if path == "" {
		return s, nil
	}
	if _, err := os.Stat(path); err != nil {
		return s, err
	}
	if err := s.LoadYAMLFile(path); err != nil {
		return s, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return s, nil
}

// GetConfigFilePath returns the default config file path.
func GetConfigFilePath() (string, error) {
	dir, err := GetConfigDirPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

// GetConfigDirPath returns the path of the grok-search config folder.
func GetConfigDirPath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("failed to read home directory: %s", err)
	}
	return filepath.Join(home, ConfigDirPath), nil
}

// GetLogDirPath returns the default directory for log files.
func GetLogDirPath() (string, error) {
	dir, err := GetConfigDirPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, LogDirName), nil
}
