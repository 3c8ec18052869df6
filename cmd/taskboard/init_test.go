package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInit(t *testing.T) {
	tmpDir := t.TempDir()
	settings = defaultConfig()
	t.Cleanup(func() { settings = defaultConfig() })

	output := captureStdout(t, func() error { return runInit([]string{tmpDir}) })
	if !strings.Contains(output, "initialized successfully") {
		t.Errorf("unexpected output: %s", output)
	}

	boardDir := filepath.Join(tmpDir, defaultDir)
	for _, name := range []string{".gitignore", "config.yaml", "taskboard.db"} {
		if _, err := os.Stat(filepath.Join(boardDir, name)); err != nil {
			t.Errorf("expected %s to exist: %v", name, err)
		}
	}

	cfg, err := loadConfig(filepath.Join(boardDir, "config.yaml"))
	if err != nil {
		t.Fatalf("written config does not load: %v", err)
	}
	if cfg.DBPath != filepath.Join(boardDir, "taskboard.db") {
		t.Errorf("expected db path inside init dir, got %s", cfg.DBPath)
	}
}

func TestInitKeepsExistingConfig(t *testing.T) {
	tmpDir := t.TempDir()
	settings = defaultConfig()
	settings.Store = "memory"
	t.Cleanup(func() { settings = defaultConfig() })

	boardDir := filepath.Join(tmpDir, defaultDir)
	if err := os.MkdirAll(boardDir, 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	cfgPath := filepath.Join(boardDir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("store: file\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	captureStdout(t, func() error { return runInit([]string{tmpDir}) })

	data, err := os.ReadFile(cfgPath)
	if err != nil {
		t.Fatalf("failed to read config: %v", err)
	}
	if string(data) != "store: file\n" {
		t.Errorf("expected config untouched, got %q", data)
	}
	if _, err := os.Stat(filepath.Join(boardDir, "taskboard.db")); err == nil {
		t.Error("memory store should not create a database")
	}
}
