package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "twopane/internal/errors"
)

func TestDefault(t *testing.T) {
	config := Default()

	if config.Explorer.DefaultDir != "" {
		t.Errorf("Expected empty default dir override, got '%s'", config.Explorer.DefaultDir)
	}
	if !config.Explorer.DirectoriesFirst {
		t.Error("Expected DirectoriesFirst to be true by default")
	}
	if config.Explorer.TimestampLayout != "2006/01/02 15:04:05" {
		t.Errorf("Expected default timestamp layout, got '%s'", config.Explorer.TimestampLayout)
	}
	if config.History.MaxEntries != 0 {
		t.Errorf("Expected unbounded history by default, got %d", config.History.MaxEntries)
	}
	if !config.History.RecordEmptyBatches {
		t.Error("Expected empty batches to be recorded by default")
	}
	if config.Log.Level != "info" {
		t.Errorf("Expected default log level 'info', got '%s'", config.Log.Level)
	}
}

func TestManagerInterface(t *testing.T) {
	var manager ManagerInterface = NewManagerWithPath("/tmp/test_config.json", nil)
	if manager == nil {
		t.Error("Manager should implement ManagerInterface")
	}
}

func TestGetConfigPath(t *testing.T) {
	path := getConfigPath()

	if path == "" {
		t.Error("Config path should not be empty")
	}
	if !strings.HasSuffix(path, "config.json") {
		t.Errorf("Config path should end with 'config.json', got '%s'", path)
	}
}

func TestManagerLoadNonExistentFile(t *testing.T) {
	manager := NewManagerWithPath("/non/existent/path/config.json", nil)

	config, err := manager.Load()
	if err != nil {
		t.Fatalf("Load should not return error for non-existent file, got: %v", err)
	}
	if config == nil {
		t.Fatal("Load should return default config for non-existent file")
	}
	if !config.History.RecordEmptyBatches {
		t.Error("Should return default config with RecordEmptyBatches true")
	}
}

func TestManagerLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(configPath, []byte(`{"history":{"maxEntries":25}}`), 0644); err != nil {
		t.Fatal(err)
	}

	config, err := NewManagerWithPath(configPath, nil).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if config.History.MaxEntries != 25 {
		t.Errorf("Expected maxEntries 25, got %d", config.History.MaxEntries)
	}
	if !config.Explorer.DirectoriesFirst {
		t.Error("Missing directoriesFirst key should keep the default")
	}
	if !config.History.RecordEmptyBatches {
		t.Error("Missing recordEmptyBatches key should keep the default")
	}
}

func TestManagerLoadInvalidJSON(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(configPath, []byte(`{not json`), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := NewManagerWithPath(configPath, nil).Load()
	if err == nil {
		t.Fatal("Expected an error for malformed config")
	}
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Type != apperrors.ErrorTypeConfig {
		t.Errorf("Expected a config AppError, got %v", err)
	}
}

func TestManagerLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("TWOPANE_EXPLORER_DEFAULT_DIR", "/srv/share")
	t.Setenv("TWOPANE_HISTORY_RECORD_EMPTY_BATCHES", "false")
	t.Setenv("TWOPANE_LOG_LEVEL", "debug")

	config, err := NewManagerWithPath(filepath.Join(t.TempDir(), "none.json"), nil).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if config.Explorer.DefaultDir != "/srv/share" {
		t.Errorf("Expected env default dir, got '%s'", config.Explorer.DefaultDir)
	}
	if config.History.RecordEmptyBatches {
		t.Error("Expected env override to disable empty batches")
	}
	if config.Log.Level != "debug" {
		t.Errorf("Expected env log level 'debug', got '%s'", config.Log.Level)
	}
}

func TestNormalize(t *testing.T) {
	config := &Config{History: HistoryConfig{MaxEntries: -3}}
	normalize(config)

	if config.History.MaxEntries != 0 {
		t.Errorf("Negative max entries should become 0, got %d", config.History.MaxEntries)
	}
	if config.Explorer.TimestampLayout == "" {
		t.Error("Empty timestamp layout should be restored")
	}
	if config.Log.Level == "" {
		t.Error("Empty log level should be restored")
	}
}

func TestManagerSaveAndLoad(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "test_config.json")
	manager := NewManagerWithPath(configPath, nil)

	testConfig := Default()
	testConfig.Explorer.DefaultDir = "/data"
	testConfig.Explorer.DirectoriesFirst = false
	testConfig.History.MaxEntries = 10

	if err := manager.Save(testConfig); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatal("Config file was not created")
	}

	raw, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatal(err)
	}
	var onDisk map[string]any
	if err := json.Unmarshal(raw, &onDisk); err != nil {
		t.Fatalf("Saved config is not JSON: %v", err)
	}

	loadedConfig, err := manager.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loadedConfig.Explorer.DefaultDir != "/data" {
		t.Errorf("Expected loaded default dir '/data', got '%s'", loadedConfig.Explorer.DefaultDir)
	}
	if loadedConfig.Explorer.DirectoriesFirst {
		t.Error("Expected loaded DirectoriesFirst to be false")
	}
	if loadedConfig.History.MaxEntries != 10 {
		t.Errorf("Expected loaded max entries 10, got %d", loadedConfig.History.MaxEntries)
	}
}

func TestLogConfigConversion(t *testing.T) {
	lc := LogConfig{Level: "warn", Development: true}.Logging()
	if lc.Level != "warn" || !lc.Development {
		t.Errorf("Unexpected logging config: %+v", lc)
	}
}
