// Package config loads gateway configuration from a KDL file, falling back
// to defaults when no file exists. Credentials are never stored in the
// file; they come from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	kdl "github.com/sblinch/kdl-go"
)

// ConfigFile is the gateway's config file name.
const ConfigFile = "deepgate.kdl"

// Config is the resolved runtime configuration.
type Config struct {
	Server       ServerConfig
	Command      CommandConfig
	Backup       BackupConfig
	Collaborator CollaboratorConfig
	Log          LogConfig
}

// ServerConfig controls the listener and per-connection limits.
type ServerConfig struct {
	Listen        string  // host:port for the HTTP/WebSocket listener
	WorkspaceRoot string  // default directory for file and command operations
	MaxFrameSize  int64   // largest accepted inbound frame, bytes
	RatePerSecond float64 // per-connection frame rate limit
	RateBurst     int     // per-connection burst allowance
}

// CommandConfig bounds command execution.
type CommandConfig struct {
	DefaultTimeout time.Duration
}

// BackupConfig names the backup policy.
type BackupConfig struct {
	Suffix string
}

// CollaboratorConfig selects the external AI backend.
type CollaboratorConfig struct {
	Provider    string
	Model       string
	MaxTokens   int
	Temperature float64
	BaseURL     string
	Timeout     time.Duration
}

// LogConfig controls structured logging output.
type LogConfig struct {
	Dir  string
	JSON bool
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Listen:        "127.0.0.1:8765",
			WorkspaceRoot: defaultWorkspaceRoot(),
			MaxFrameSize:  16 << 20,
			RatePerSecond: 50,
			RateBurst:     100,
		},
		Command: CommandConfig{
			DefaultTimeout: 30 * time.Second,
		},
		Backup: BackupConfig{
			Suffix: ".bak",
		},
		Collaborator: CollaboratorConfig{
			Provider:  "anthropic",
			MaxTokens: 4096,
			Timeout:   120 * time.Second,
		},
	}
}

func defaultWorkspaceRoot() string {
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

// kdlConfig mirrors the KDL file structure. Durations are whole seconds.
type kdlConfig struct {
	Server       *kdlServer       `kdl:"server"`
	Command      *kdlCommand      `kdl:"command"`
	Backup       *kdlBackup       `kdl:"backup"`
	Collaborator *kdlCollaborator `kdl:"collaborator"`
	Log          *kdlLog          `kdl:"log"`
}

type kdlServer struct {
	Listen        string  `kdl:"listen"`
	WorkspaceRoot string  `kdl:"workspace-root"`
	MaxFrameSize  int64   `kdl:"max-frame-size"`
	RatePerSecond float64 `kdl:"rate-per-second"`
	RateBurst     int     `kdl:"rate-burst"`
}

type kdlCommand struct {
	DefaultTimeout int `kdl:"default-timeout"`
}

type kdlBackup struct {
	Suffix string `kdl:"suffix"`
}

type kdlCollaborator struct {
	Provider    string  `kdl:"provider"`
	Model       string  `kdl:"model"`
	MaxTokens   int     `kdl:"max-tokens"`
	Temperature float64 `kdl:"temperature"`
	BaseURL     string  `kdl:"base-url"`
	Timeout     int     `kdl:"timeout"`
}

type kdlLog struct {
	Dir  string `kdl:"dir"`
	JSON bool   `kdl:"json"`
}

// Load reads configuration from path. An empty path checks the working
// directory and then XDG config; a missing file yields defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = locate()
		if path == "" {
			return Default(), nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes KDL config data over the defaults.
func Parse(data []byte) (*Config, error) {
	var raw kdlConfig
	if err := kdl.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg := Default()
	if s := raw.Server; s != nil {
		if s.Listen != "" {
			cfg.Server.Listen = s.Listen
		}
		if s.WorkspaceRoot != "" {
			cfg.Server.WorkspaceRoot = s.WorkspaceRoot
		}
		if s.MaxFrameSize > 0 {
			cfg.Server.MaxFrameSize = s.MaxFrameSize
		}
		if s.RatePerSecond > 0 {
			cfg.Server.RatePerSecond = s.RatePerSecond
		}
		if s.RateBurst > 0 {
			cfg.Server.RateBurst = s.RateBurst
		}
	}
	if c := raw.Command; c != nil && c.DefaultTimeout > 0 {
		cfg.Command.DefaultTimeout = time.Duration(c.DefaultTimeout) * time.Second
	}
	if b := raw.Backup; b != nil && b.Suffix != "" {
		cfg.Backup.Suffix = b.Suffix
	}
	if col := raw.Collaborator; col != nil {
		if col.Provider != "" {
			cfg.Collaborator.Provider = col.Provider
		}
		if col.Model != "" {
			cfg.Collaborator.Model = col.Model
		}
		if col.MaxTokens > 0 {
			cfg.Collaborator.MaxTokens = col.MaxTokens
		}
		if col.Temperature > 0 {
			cfg.Collaborator.Temperature = col.Temperature
		}
		if col.BaseURL != "" {
			cfg.Collaborator.BaseURL = col.BaseURL
		}
		if col.Timeout > 0 {
			cfg.Collaborator.Timeout = time.Duration(col.Timeout) * time.Second
		}
	}
	if l := raw.Log; l != nil {
		cfg.Log.Dir = l.Dir
		cfg.Log.JSON = l.JSON
	}
	return cfg, nil
}

// locate finds the nearest config file: working directory first, then the
// XDG config directory.
func locate() string {
	if _, err := os.Stat(ConfigFile); err == nil {
		return ConfigFile
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configDir = filepath.Join(home, ".config")
	}
	path := filepath.Join(configDir, "deepgate", ConfigFile)
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}
