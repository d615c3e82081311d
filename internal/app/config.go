package app

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// PlatformFile is the definition file looked up in the platform directory.
const PlatformFile = "platform.hcl"

// Config holds everything one App needs. It is validated once by NewConfig
// and never changed afterwards.
type Config struct {
	OutDir      string // build directory holding tree.json
	PlatformDir string // platform install with project/, include/ and lib/

	// PlatformConfig lists extra definition files or directories applied
	// after PlatformDir/platform.hcl.
	PlatformConfig []string

	LogFormat string
	LogLevel  string
	NoColor   bool

	NotifyURL string
	// HostOS selects the toolchain variant. Empty means the running host.
	HostOS string
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.OutDir == "" {
		return nil, errors.New("OutDir is a required configuration field and cannot be empty")
	}
	if cfg.PlatformDir == "" {
		return nil, errors.New("PlatformDir is a required configuration field and cannot be empty")
	}

	cfg.OutDir = filepath.Clean(cfg.OutDir)
	cfg.PlatformDir = filepath.Clean(cfg.PlatformDir)
	cfg.PlatformConfig = append([]string{}, cfg.PlatformConfig...)

	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	switch cfg.LogFormat {
	case "":
		cfg.LogFormat = "text"
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid log format %q: must be 'text' or 'json'", cfg.LogFormat)
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	switch cfg.LogLevel {
	case "":
		cfg.LogLevel = "info"
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}

	return &cfg, nil
}

// definitionPaths returns the platform definition sources in merge order.
func (c *Config) definitionPaths() []string {
	return append([]string{filepath.Join(c.PlatformDir, PlatformFile)}, c.PlatformConfig...)
}

func (c *Config) projectDir() string {
	return filepath.Join(c.PlatformDir, "project")
}
