package config

import (
	"context"
	"fmt"
)

// Loader is the interface for a format-specific platform definition loader.
type Loader interface {
	// Load reads every definition file found under paths and merges them,
	// later files overriding earlier ones. platformDir is exposed to the
	// definitions so commands can be written relative to it.
	Load(ctx context.Context, platformDir string, paths ...string) (*Platform, error)
}

// Platform is the merged platform definition.
type Platform struct {
	Name    string
	Version string

	Runtime   Runtime
	Generator []string
	Formatter []string

	// Toolchains holds per-host overrides keyed by host name.
	Toolchains map[string]Toolchain
}

// Runtime holds the fixed runtime values compiled into the generated
// program's configuration section.
type Runtime struct {
	SampleRate     float64
	BlockSize      int
	NumOutChannels int
	NumInChannels  int
	AudioDevice    int
}

// Toolchain overrides a host's default compiler setup.
type Toolchain struct {
	Compiler string
	Defines  []string
}

// DefaultFormatter is the source formatter run over the assembled file.
var DefaultFormatter = []string{"astyle"}

// DefaultRuntime returns the runtime values used when the platform
// definition does not supply them.
func DefaultRuntime() Runtime {
	return Runtime{
		SampleRate:     44100,
		BlockSize:      256,
		NumOutChannels: 2,
		NumInChannels:  2,
		AudioDevice:    0,
	}
}

// Default returns a platform definition with no files applied.
func Default() *Platform {
	return &Platform{
		Runtime:    DefaultRuntime(),
		Formatter:  append([]string{}, DefaultFormatter...),
		Toolchains: make(map[string]Toolchain),
	}
}

// Validate checks the values that would otherwise surface as confusing
// compiler or audio device errors much later.
func (r Runtime) Validate() error {
	if r.SampleRate <= 0 {
		return fmt.Errorf("sample_rate must be positive, got %v", r.SampleRate)
	}
	if r.BlockSize <= 0 {
		return fmt.Errorf("block_size must be positive, got %d", r.BlockSize)
	}
	if r.NumOutChannels < 0 || r.NumInChannels < 0 {
		return fmt.Errorf("channel counts must not be negative, got %d out / %d in", r.NumOutChannels, r.NumInChannels)
	}
	if r.AudioDevice < 0 {
		return fmt.Errorf("audio_device must not be negative, got %d", r.AudioDevice)
	}
	return nil
}
