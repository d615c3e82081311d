package hcl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/stridegen/internal/config"
	"github.com/specialistvlad/stridegen/internal/ctxlog"
	"github.com/specialistvlad/stridegen/internal/fsutil"
	"github.com/specialistvlad/stridegen/internal/host"
	"github.com/zclconf/go-cty/cty"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL platform definition loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .hcl file found under paths, in order, and merges them
// over the built-in defaults. Paths that do not exist are skipped, so a
// platform without a definition file builds with defaults.
func (l *Loader) Load(ctx context.Context, platformDir string, paths ...string) (*config.Platform, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := l.findAllHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"platform_dir": cty.StringVal(platformDir),
		},
	}

	platform := config.Default()
	parser := hclparse.NewParser()

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		if err := l.merge(ctx, platform, &root, evalCtx); err != nil {
			return nil, fmt.Errorf("invalid platform definition %s: %w", file, err)
		}
	}

	if err := platform.Runtime.Validate(); err != nil {
		return nil, fmt.Errorf("invalid runtime configuration: %w", err)
	}

	logger.Debug("HCL loading complete.",
		"platform", platform.Name,
		"version", platform.Version,
		"generator", platform.Generator,
		"formatter", platform.Formatter,
		"toolchains", len(platform.Toolchains),
	)
	return platform, nil
}

// merge applies one decoded file on top of the accumulated definition.
func (l *Loader) merge(ctx context.Context, p *config.Platform, root *fileRoot, evalCtx *hcl.EvalContext) error {
	if root.Platform != nil {
		p.Name = root.Platform.Name
		if root.Platform.Version != "" {
			p.Version = root.Platform.Version
		}
	}

	if root.Runtime != nil {
		if err := decodeRuntime(ctx, root.Runtime.Body, evalCtx, &p.Runtime); err != nil {
			return err
		}
	}

	if root.Generator != nil {
		p.Generator = commandOf(root.Generator, p.Generator)
	}
	if root.Formatter != nil {
		p.Formatter = commandOf(root.Formatter, p.Formatter)
	}

	for _, tc := range root.Toolchains {
		if _, err := host.Detect(tc.Host); err != nil {
			return fmt.Errorf("toolchain block: %w", err)
		}
		existing := p.Toolchains[tc.Host]
		if tc.Compiler != "" {
			existing.Compiler = tc.Compiler
		}
		if tc.Defines != nil {
			existing.Defines = tc.Defines
		}
		p.Toolchains[tc.Host] = existing
	}
	return nil
}

// commandOf resolves a command block. `enabled = false` turns the command
// off entirely; an omitted command keeps the previous value.
func commandOf(b *commandBlock, previous []string) []string {
	if b.Enabled != nil && !*b.Enabled {
		return nil
	}
	if len(b.Command) == 0 {
		return previous
	}
	return b.Command
}

// findAllHCLFiles walks all given paths and returns a flat list of all .hcl files found.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})

	add := func(p string) {
		if _, wasSeen := seen[p]; !wasSeen {
			allFiles = append(allFiles, p)
			seen[p] = struct{}{}
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue // It's not an error if a configured path doesn't exist.
			}
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if info.IsDir() {
			found, err := fsutil.FindFilesByExtension(path, ".hcl")
			if err != nil {
				return nil, err
			}
			for _, f := range found {
				add(f)
			}
		} else if filepath.Ext(path) == ".hcl" {
			add(path)
		}
	}
	return allFiles, nil
}
