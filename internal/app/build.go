package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/stridegen/internal/assemble"
	"github.com/specialistvlad/stridegen/internal/builder"
	"github.com/specialistvlad/stridegen/internal/codegen"
	"github.com/specialistvlad/stridegen/internal/config"
	"github.com/specialistvlad/stridegen/internal/ctxlog"
	"github.com/specialistvlad/stridegen/internal/host"
	"github.com/specialistvlad/stridegen/internal/linkflags"
	"github.com/specialistvlad/stridegen/internal/notify"
	"github.com/specialistvlad/stridegen/internal/toolchain"
	"github.com/specialistvlad/stridegen/internal/tree"
)

// StatusAssembling is published while the source file is being produced.
const StatusAssembling = "Assembling"

var (
	// ErrPlatformDefinition wraps every platform definition load failure.
	ErrPlatformDefinition = errors.New("invalid platform definition")
	// ErrNotBuilt is returned by Launch when there is no executable yet.
	ErrNotBuilt = errors.New("executable not built")
)

// Report describes a finished build or assembly.
type Report struct {
	BuildID    string
	Platform   string
	Source     string
	Executable string
	LinkFlags  []string
	// FormatErr is set when the formatter failed; Source is still usable.
	FormatErr error
}

// Plan is the compile and link plan for the current build directory.
type Plan struct {
	Host    string
	Target  *host.BuildTarget
	Compile toolchain.Invocation
	Link    toolchain.Invocation
}

// Build assembles main.cpp from the program tree and compiles and links it
// into the build directory's executable.
func (a *App) Build(ctx context.Context) (*Report, error) {
	buildID := a.newID()
	ctx = a.context(ctx, buildID)
	logger := ctxlog.FromContext(ctx)
	obs := notify.NewBuildObserver(a.publisher, buildID)
	logger.Info("Build started.", "out_dir", a.cfg.OutDir)

	h, err := a.detectHost()
	if err != nil {
		logger.Error("Platform not supported.", "error", err)
		obs.Status(ctx, builder.Failed.String())
		return nil, err
	}

	lock, err := acquireLock(a.cfg.OutDir, buildID)
	if err != nil {
		return nil, err
	}
	defer a.release(ctx, lock)

	obs.Status(ctx, StatusAssembling)
	platform, bundle, report, err := a.assemble(ctx, buildID)
	if err != nil {
		obs.Status(ctx, builder.Failed.String())
		return nil, err
	}

	flags := linkflags.Resolve(bundle.LinkTo())
	report.LinkFlags = flags.Strings()
	logger.Debug("Link flags resolved.", "flags", report.LinkFlags)

	res, err := builder.New(a.runner, obs).Build(ctx, builder.Request{
		OS:          h.Name(),
		PlatformDir: a.cfg.PlatformDir,
		OutDir:      a.cfg.OutDir,
		LinkFlags:   report.LinkFlags,
		Overrides:   overrides(platform),
	})
	if err != nil {
		return nil, err
	}
	report.Executable = res.Executable

	logger.Info("Build succeeded.", "executable", report.Executable)
	return report, nil
}

// Assemble produces main.cpp without compiling it.
func (a *App) Assemble(ctx context.Context) (*Report, error) {
	buildID := a.newID()
	ctx = a.context(ctx, buildID)
	obs := notify.NewBuildObserver(a.publisher, buildID)

	lock, err := acquireLock(a.cfg.OutDir, buildID)
	if err != nil {
		return nil, err
	}
	defer a.release(ctx, lock)

	obs.Status(ctx, StatusAssembling)
	_, bundle, report, err := a.assemble(ctx, buildID)
	if err != nil {
		obs.Status(ctx, builder.Failed.String())
		return nil, err
	}
	report.LinkFlags = linkflags.Resolve(bundle.LinkTo()).Strings()
	obs.Status(ctx, builder.Done.String())
	return report, nil
}

// Plan resolves the build target and both toolchain invocations. It runs the
// code generator to learn the requested libraries but writes no source and
// starts no compiler.
func (a *App) Plan(ctx context.Context) (*Plan, error) {
	ctx = a.context(ctx, a.newID())

	h, err := a.detectHost()
	if err != nil {
		return nil, err
	}
	platform, bundle, err := a.generate(ctx)
	if err != nil {
		return nil, err
	}

	flags := linkflags.Resolve(bundle.LinkTo())
	target := host.NewTarget(h, a.cfg.PlatformDir, a.cfg.OutDir, flags.Strings(), overrides(platform)[h.Name()])
	return &Plan{
		Host:    h.Name(),
		Target:  target,
		Compile: target.CompileInvocation(),
		Link:    target.LinkInvocation(),
	}, nil
}

// Launch runs the built executable with its output connected to stdout and
// stderr until it exits or ctx is cancelled.
func (a *App) Launch(ctx context.Context, stdout, stderr io.Writer) error {
	ctx = a.context(ctx, a.newID())

	exe := filepath.Join(a.cfg.OutDir, host.ExecutableFile)
	if _, err := os.Stat(exe); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotBuilt, exe)
		}
		return fmt.Errorf("failed to access executable: %w", err)
	}
	return toolchain.Stream(ctx, toolchain.Invocation{Program: exe, Dir: a.cfg.OutDir}, stdout, stderr)
}

// generate loads the platform definition and the tree and produces a
// validated code bundle.
func (a *App) generate(ctx context.Context) (*config.Platform, *codegen.Bundle, error) {
	logger := ctxlog.FromContext(ctx)

	platform, err := a.loader.Load(ctx, a.cfg.PlatformDir, a.cfg.definitionPaths()...)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrPlatformDefinition, err)
	}

	t, err := tree.Load(a.cfg.OutDir)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("Program tree loaded.", "nodes", len(t.Nodes), "blocks", len(t.Blocks()))
	if name := t.Platform(); name != "" && platform.Name != "" && !strings.EqualFold(name, platform.Name) {
		logger.Warn("Program tree targets a different platform.", "tree_platform", name, "platform", platform.Name)
	}

	adapter := a.adapter
	if adapter == nil {
		adapter = codegen.NewExecAdapter(platform.Generator, a.cfg.OutDir, a.runner)
	}
	bundle, err := adapter.Generate(ctx, t)
	if err != nil {
		return nil, nil, fmt.Errorf("code generation failed: %w", err)
	}
	if err := bundle.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid code bundle: %w", err)
	}
	return platform, bundle, nil
}

// assemble runs generate and writes main.cpp.
func (a *App) assemble(ctx context.Context, buildID string) (*config.Platform, *codegen.Bundle, *Report, error) {
	platform, bundle, err := a.generate(ctx)
	if err != nil {
		return nil, nil, nil, err
	}

	asm := assemble.New(a.renderer, assemble.NewCommandFormatter(platform.Formatter, a.runner))
	out, err := asm.Assemble(ctx, assemble.Params{
		OutDir:     a.cfg.OutDir,
		ProjectDir: a.cfg.projectDir(),
		Bundle:     bundle,
		Runtime:    platform.Runtime,
	})
	if err != nil {
		return nil, nil, nil, err
	}

	return platform, bundle, &Report{
		BuildID:   buildID,
		Platform:  platform.Name,
		Source:    out.Path,
		FormatErr: out.FormatErr,
	}, nil
}

// detectHost resolves the configured host variant, or the running one when
// none is configured.
func (a *App) detectHost() (host.Host, error) {
	if a.cfg.HostOS == "" {
		return host.Current()
	}
	return host.Detect(a.cfg.HostOS)
}

func (a *App) release(ctx context.Context, lock *buildLock) {
	if err := lock.release(); err != nil {
		ctxlog.FromContext(ctx).Warn("Failed to release build lock.", "error", err)
	}
}

func overrides(p *config.Platform) map[string]host.Overrides {
	out := make(map[string]host.Overrides, len(p.Toolchains))
	for name, tc := range p.Toolchains {
		out[name] = host.Overrides{Compiler: tc.Compiler, Defines: append([]string{}, tc.Defines...)}
	}
	return out
}
