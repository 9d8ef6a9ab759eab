package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type SystemConfig struct {
	DataDirectory string `toml:"data_directory"`
}

type ServerConfig struct {
	URL                   string `toml:"url"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
}

type ChatConfig struct {
	HistoryWindow  int `toml:"history_window"`
	MaxInputHeight int `toml:"max_input_height"`
	SidebarWidth   int `toml:"sidebar_width"`
}

type UserConfig struct {
	Server ServerConfig `toml:"server"`
	Chat   ChatConfig   `toml:"chat"`
}

type Config struct {
	DataDirectory  string        `validate:"required"`
	ServerURL      string        `validate:"required,url"`
	RequestTimeout time.Duration `validate:"min=0"`
	HistoryWindow  int           `validate:"min=1,max=50"`
	MaxInputHeight int           `validate:"min=1,max=20"`
	SidebarWidth   int           `validate:"min=20,max=80"`
	Keybindings    *KeyBindingsConfig
}

var Debug = false
var DebugLog *log.Logger

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

func (c *Config) applyUserConfig(userCfg *UserConfig) {
	if userCfg.Server.URL != "" {
		c.ServerURL = userCfg.Server.URL
	}
	if userCfg.Server.RequestTimeoutSeconds >= 0 {
		c.RequestTimeout = time.Duration(userCfg.Server.RequestTimeoutSeconds) * time.Second
	}
	if userCfg.Chat.HistoryWindow > 0 {
		c.HistoryWindow = userCfg.Chat.HistoryWindow
	}
	if userCfg.Chat.MaxInputHeight > 0 {
		c.MaxInputHeight = userCfg.Chat.MaxInputHeight
	}
	if userCfg.Chat.SidebarWidth > 0 {
		c.SidebarWidth = userCfg.Chat.SidebarWidth
	}
}

func (c *Config) applyEnvOverrides() error {
	if url := os.Getenv("DOCCHAT_SERVER_URL"); url != "" {
		c.ServerURL = url
	}
	if dataDir := os.Getenv("DOCCHAT_DATA_DIR"); dataDir != "" {
		c.DataDirectory = dataDir
	}
	if timeout := os.Getenv("DOCCHAT_REQUEST_TIMEOUT"); timeout != "" {
		seconds, err := strconv.Atoi(timeout)
		if err != nil {
			return fmt.Errorf("invalid DOCCHAT_REQUEST_TIMEOUT %q: %w", timeout, err)
		}
		c.RequestTimeout = time.Duration(seconds) * time.Second
	}
	return nil
}

func CheckDebug() bool {
	debug := os.Getenv("DOCCHAT_DEBUG")
	return debug == "true" || debug == "1"
}

// InitDebugLog opens <dataDir>/debug.log when debugging is requested through
// DOCCHAT_DEBUG or the force flag (--debug).
func InitDebugLog(dataDir string, force bool) {
	if !force && !CheckDebug() {
		return
	}

	Debug = true
	logPath := filepath.Join(dataDir, "debug.log")

	// 0600: the log records questions and server error bodies
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open debug log at %s: %v\n", logPath, err)
		return
	}

	DebugLog = log.New(f, "", log.Ldate|log.Ltime|log.Lmicroseconds|log.Lshortfile)
	DebugLog.Printf("=== Debug logging started (DOCCHAT_DEBUG=%s) ===", os.Getenv("DOCCHAT_DEBUG"))
	DebugLog.Printf("Log path: %s", logPath)
}

// Load builds the effective configuration: defaults, then settings.toml and
// the user config.toml, then DOCCHAT_* environment overrides.
func Load() (*Config, error) {
	cfg := &Config{
		DataDirectory:  GetDefaultDataDir(),
		ServerURL:      DefaultServerURL,
		RequestTimeout: DefaultRequestTimeout,
		HistoryWindow:  DefaultHistoryWindow,
		MaxInputHeight: DefaultMaxInputHeight,
		SidebarWidth:   DefaultSidebarWidth,
	}

	systemCfg, err := LoadSystemConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load system config: %w", err)
	}
	if systemCfg.DataDirectory != "" {
		cfg.DataDirectory = systemCfg.DataDirectory
	}

	// DOCCHAT_DATA_DIR decides where config.toml is read from
	if dataDir := os.Getenv("DOCCHAT_DATA_DIR"); dataDir != "" {
		cfg.DataDirectory = dataDir
	}

	dataDir := cfg.DataDir()
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	if err := EnsureDataDirPermissions(dataDir); err != nil {
		return nil, fmt.Errorf("failed to set data directory permissions: %w", err)
	}

	userCfg, err := LoadUserConfig(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}
	cfg.applyUserConfig(userCfg)

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	keybindings, err := LoadKeybindings(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load keybindings: %w", err)
	}
	if ok, reason := keybindings.Validate(); !ok {
		return nil, fmt.Errorf("invalid keybindings: %s", reason)
	}
	cfg.Keybindings = keybindings

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
