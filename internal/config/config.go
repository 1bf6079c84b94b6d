package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"

	"twopane/internal/constants"
	apperrors "twopane/internal/errors"
	"twopane/internal/logging"
)

// Config represents the engine configuration
type Config struct {
	Explorer ExplorerConfig `json:"explorer"`
	History  HistoryConfig  `json:"history"`
	Log      LogConfig      `json:"log"`
}

// ExplorerConfig represents navigation and listing settings
type ExplorerConfig struct {
	DefaultDir       string `json:"defaultDir" envconfig:"DEFAULT_DIR"`             // Overrides the user documents directory
	DirectoriesFirst bool   `json:"directoriesFirst" envconfig:"DIRECTORIES_FIRST"` // Group order of get-content
	TimestampLayout  string `json:"timestampLayout" envconfig:"TIMESTAMP_LAYOUT"`   // Go layout for last-modified
}

// HistoryConfig represents undo/redo history settings
type HistoryConfig struct {
	MaxEntries         int  `json:"maxEntries" envconfig:"MAX_ENTRIES"` // 0 keeps every batch
	RecordEmptyBatches bool `json:"recordEmptyBatches" envconfig:"RECORD_EMPTY_BATCHES"`
}

// LogConfig represents logger settings
type LogConfig struct {
	Level       string   `json:"level" envconfig:"LEVEL"`
	Development bool     `json:"development" envconfig:"DEVELOPMENT"`
	OutputPaths []string `json:"outputPaths,omitempty" envconfig:"OUTPUT_PATHS"` // zap sinks, stderr when empty
}

// Logging converts the settings into a logging.Config.
func (l LogConfig) Logging() logging.Config {
	cfg := logging.DefaultConfig()
	if l.Level != "" {
		cfg.Level = l.Level
	}
	cfg.Development = l.Development
	if len(l.OutputPaths) > 0 {
		cfg.OutputPaths = l.OutputPaths
	}
	return cfg
}

// Manager provides configuration management functionality
type Manager struct {
	configPath string
	logger     *zap.Logger
}

// NewManager creates a configuration manager using the OS-conventional path
func NewManager(logger *zap.Logger) *Manager {
	return NewManagerWithPath(getConfigPath(), logger)
}

// NewManagerWithPath creates a configuration manager for an explicit file
func NewManagerWithPath(path string, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Manager{configPath: path, logger: logger}
}

// Path returns the file the manager reads and writes
func (m *Manager) Path() string {
	return m.configPath
}

// Load loads configuration from file over the defaults, then applies
// TWOPANE_* environment overrides.
func (m *Manager) Load() (*Config, error) {
	config := Default()

	data, err := os.ReadFile(m.configPath)
	if err != nil {
		m.logger.Debug("config file not found, using defaults",
			zap.String("path", m.configPath), zap.Error(err))
	} else if err := json.Unmarshal(data, config); err != nil {
		return nil, apperrors.NewConfigError("load_config", "error parsing config file", err)
	}

	if err := envconfig.Process(constants.EnvPrefix, config); err != nil {
		return nil, apperrors.NewConfigError("load_config", "error reading environment overrides", err)
	}

	normalize(config)
	return config, nil
}

// Save saves configuration to file
func (m *Manager) Save(config *Config) error {
	configDir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return apperrors.NewConfigError("save_config", "error creating config directory", err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return apperrors.NewConfigError("save_config", "error marshaling config", err)
	}

	if err := os.WriteFile(m.configPath, data, 0644); err != nil {
		return apperrors.NewConfigError("save_config", "error writing config file", err)
	}

	return nil
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Explorer: ExplorerConfig{
			DefaultDir:       "",
			DirectoriesFirst: constants.DefaultDirectoriesFirst,
			TimestampLayout:  constants.DefaultTimestampLayout,
		},
		History: HistoryConfig{
			MaxEntries:         constants.DefaultHistoryMaxEntries,
			RecordEmptyBatches: constants.DefaultRecordEmptyBatches,
		},
		Log: LogConfig{
			Level:       constants.DefaultLogLevel,
			Development: false,
		},
	}
}

// normalize repairs values a hand-edited file may leave unusable
func normalize(c *Config) {
	if c.Explorer.TimestampLayout == "" {
		c.Explorer.TimestampLayout = constants.DefaultTimestampLayout
	}
	if c.History.MaxEntries < 0 {
		c.History.MaxEntries = 0
	}
	if c.Log.Level == "" {
		c.Log.Level = constants.DefaultLogLevel
	}
}

// getConfigPath returns the path to the configuration file following OS conventions
func getConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		// Windows: %APPDATA%\nekomimist\twopane\config.json
		appData := os.Getenv("APPDATA")
		if appData == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return constants.ConfigFileName
			}
			appData = filepath.Join(home, "AppData", "Roaming")
		}
		configDir = filepath.Join(appData, constants.VendorName, constants.ApplicationName)

	case "darwin":
		// macOS: ~/Library/Application Support/nekomimist/twopane/config.json
		home, err := os.UserHomeDir()
		if err != nil {
			return constants.ConfigFileName
		}
		configDir = filepath.Join(home, "Library", "Application Support", constants.VendorName, constants.ApplicationName)

	default:
		// Linux/Unix: $XDG_CONFIG_HOME/nekomimist/twopane/config.json or ~/.config/nekomimist/twopane/config.json
		xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
		if xdgConfigHome == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return constants.ConfigFileName
			}
			xdgConfigHome = filepath.Join(home, ".config")
		}
		configDir = filepath.Join(xdgConfigHome, constants.VendorName, constants.ApplicationName)
	}

	return filepath.Join(configDir, constants.ConfigFileName)
}
