package hcl

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_NoFilesUsesDefaults(t *testing.T) {
	t.Parallel()

	platformDir := t.TempDir()

	p, err := NewLoader().Load(context.Background(), platformDir, filepath.Join(platformDir, "platform.hcl"))

	require.NoError(t, err)
	assert.Equal(t, 44100.0, p.Runtime.SampleRate)
	assert.Equal(t, 256, p.Runtime.BlockSize)
	assert.Equal(t, []string{"astyle"}, p.Formatter)
	assert.Empty(t, p.Generator)
}

func TestLoad_FullDefinition(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	platformDir := t.TempDir()
	path := writeFile(t, platformDir, "platform.hcl", `
platform "Gamma" {
  version = "1.0"
}

runtime {
  sample_rate      = 48000
  block_size       = "512"
  num_out_channels = 8
  audio_device     = 1
}

generator {
  command = ["python3", "${platform_dir}/scripts/generate.py"]
}

formatter {
  command = ["astyle", "--style=kr"]
}

toolchain "linux" {
  compiler = "/usr/bin/clang++"
  defines  = ["GAMMA_DEBUG"]
}
`)

	// --- Act ---
	p, err := NewLoader().Load(context.Background(), platformDir, path)

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, "Gamma", p.Name)
	assert.Equal(t, "1.0", p.Version)
	assert.Equal(t, 48000.0, p.Runtime.SampleRate)
	assert.Equal(t, 512, p.Runtime.BlockSize)
	assert.Equal(t, 8, p.Runtime.NumOutChannels)
	assert.Equal(t, 2, p.Runtime.NumInChannels, "unset values keep their default")
	assert.Equal(t, 1, p.Runtime.AudioDevice)
	assert.Equal(t, []string{"python3", platformDir + "/scripts/generate.py"}, p.Generator)
	assert.Equal(t, []string{"astyle", "--style=kr"}, p.Formatter)
	require.Contains(t, p.Toolchains, "linux")
	assert.Equal(t, "/usr/bin/clang++", p.Toolchains["linux"].Compiler)
	assert.Equal(t, []string{"GAMMA_DEBUG"}, p.Toolchains["linux"].Defines)
}

func TestLoad_LaterFilesOverrideEarlier(t *testing.T) {
	t.Parallel()

	platformDir := t.TempDir()
	base := writeFile(t, platformDir, "platform.hcl", `
runtime {
  sample_rate = 48000
  block_size  = 128
}
toolchain "darwin" {
  compiler = "/usr/bin/clang++"
}
`)
	overrideDir := t.TempDir()
	writeFile(t, overrideDir, "local.hcl", `
runtime {
  block_size = 64
}
formatter {
  enabled = false
}
toolchain "darwin" {
  defines = ["LOCAL"]
}
`)

	p, err := NewLoader().Load(context.Background(), platformDir, base, overrideDir)

	require.NoError(t, err)
	assert.Equal(t, 48000.0, p.Runtime.SampleRate)
	assert.Equal(t, 64, p.Runtime.BlockSize)
	assert.Nil(t, p.Formatter, "a disabled formatter has no command")
	assert.Equal(t, "/usr/bin/clang++", p.Toolchains["darwin"].Compiler)
	assert.Equal(t, []string{"LOCAL"}, p.Toolchains["darwin"].Defines)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		content string
		errMsg  string
	}{
		{
			name:    "syntax error",
			content: `runtime {`,
			errMsg:  "failed to parse HCL file",
		},
		{
			name:    "unknown block",
			content: `deploy "x" {}`,
			errMsg:  "failed to decode HCL file",
		},
		{
			name:    "unknown runtime attribute",
			content: "runtime {\n  bit_depth = 24\n}",
			errMsg:  `unsupported runtime attribute "bit_depth"`,
		},
		{
			name:    "fractional block size",
			content: "runtime {\n  block_size = 1.5\n}",
			errMsg:  "failed to decode runtime attribute 'block_size'",
		},
		{
			name:    "non numeric sample rate",
			content: "runtime {\n  sample_rate = \"fast\"\n}",
			errMsg:  "cannot convert string to number",
		},
		{
			name:    "invalid runtime value",
			content: "runtime {\n  sample_rate = 0\n}",
			errMsg:  "invalid runtime configuration",
		},
		{
			name:    "unsupported toolchain host",
			content: "toolchain \"plan9\" {\n  compiler = \"/bin/cc\"\n}",
			errMsg:  `platform "plan9" not supported`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			platformDir := t.TempDir()
			path := writeFile(t, platformDir, "platform.hcl", tc.content)

			_, err := NewLoader().Load(context.Background(), platformDir, path)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}

func TestFindAllHCLFiles_Deduplicates(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "platform.hcl", "")
	writeFile(t, dir, "README.md", "")

	files, err := NewLoader().findAllHCLFiles([]string{path, dir, filepath.Join(dir, "missing.hcl")})

	require.NoError(t, err)
	assert.Equal(t, []string{path}, files)
}
