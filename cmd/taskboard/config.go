package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/nick-dorsch/taskboard/internal/storage"
	"gopkg.in/yaml.v3"
)

const (
	defaultDir        = ".taskboard"
	defaultConfigPath = ".taskboard/config.yaml"
	defaultStore      = "sqlite"
	defaultPort       = "8000"
)

// Config is the on-disk configuration. Flags given on the command line take
// precedence over it.
type Config struct {
	Store      string `yaml:"store"`
	DBPath     string `yaml:"db_path"`
	DataDir    string `yaml:"data_dir"`
	Port       string `yaml:"port"`
	LogLevel   string `yaml:"log_level"`
	StorageKey string `yaml:"storage_key"`
}

func defaultConfig() Config {
	return Config{
		Store:      defaultStore,
		DBPath:     filepath.Join(defaultDir, "taskboard.db"),
		DataDir:    filepath.Join(defaultDir, "data"),
		Port:       defaultPort,
		LogLevel:   "info",
		StorageKey: storage.DefaultKey,
	}
}

// loadConfig reads path on top of the defaults. A missing file is not an error.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if fileCfg.Store != "" {
		cfg.Store = fileCfg.Store
	}
	if fileCfg.DBPath != "" {
		cfg.DBPath = fileCfg.DBPath
	}
	if fileCfg.DataDir != "" {
		cfg.DataDir = fileCfg.DataDir
	}
	if fileCfg.Port != "" {
		cfg.Port = fileCfg.Port
	}
	if fileCfg.LogLevel != "" {
		cfg.LogLevel = fileCfg.LogLevel
	}
	if fileCfg.StorageKey != "" {
		cfg.StorageKey = fileCfg.StorageKey
	}

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch c.Store {
	case "sqlite", "file", "memory":
	default:
		return fmt.Errorf("unknown store %q (want sqlite, file, or memory)", c.Store)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

func writeDefaultConfig(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}
