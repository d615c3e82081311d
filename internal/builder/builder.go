// Package builder compiles and links an assembled source file into a native
// executable with the host's toolchain.
//
// A build moves through Idle -> Compiling -> Linking -> Done, or stops in
// Failed from Compiling or Linking. Every transition is logged and reported
// to the Observer. A failed step always aborts the build with the captured
// process output; nothing after it runs.
package builder

import (
	"context"
	"fmt"
	"os"

	"github.com/specialistvlad/stridegen/internal/ctxlog"
	"github.com/specialistvlad/stridegen/internal/host"
	"github.com/specialistvlad/stridegen/internal/toolchain"
)

// State is a build driver state.
type State int

const (
	Idle State = iota
	Compiling
	Linking
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Compiling:
		return "Compiling"
	case Linking:
		return "Linking"
	case Done:
		return "Done"
	case Failed:
		return "Failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// StageError is the Failed(stage, detail) outcome. Output is the captured
// process output, verbatim.
type StageError struct {
	Stage    State
	ExitCode int
	Output   string
}

func (e *StageError) Error() string {
	return fmt.Sprintf("build failed while %s (exit code %d): %s", e.Stage, e.ExitCode, e.Output)
}

// Observer is told about state changes and process output.
type Observer interface {
	StateChanged(ctx context.Context, from, to State)
	Output(ctx context.Context, stage State, text string)
}

type nopObserver struct{}

func (nopObserver) StateChanged(context.Context, State, State) {}
func (nopObserver) Output(context.Context, State, string)      {}

// Request describes one build.
type Request struct {
	// OS selects the host variant, usually runtime.GOOS.
	OS          string
	PlatformDir string
	OutDir      string
	LinkFlags   []string
	Overrides   map[string]host.Overrides
}

// Result is the outcome of a successful build.
type Result struct {
	State      State
	Target     *host.BuildTarget
	Executable string
}

// Driver runs a single build. Create a new one per build.
type Driver struct {
	runner   toolchain.Runner
	observer Observer
	state    State
}

// New creates a driver. A nil observer is allowed.
func New(runner toolchain.Runner, observer Observer) *Driver {
	if observer == nil {
		observer = nopObserver{}
	}
	return &Driver{runner: runner, observer: observer, state: Idle}
}

// State returns the driver's current state.
func (d *Driver) State() State {
	return d.state
}

// Build compiles and links the source in req.OutDir. An unsupported host
// fails before any process is started.
func (d *Driver) Build(ctx context.Context, req Request) (*Result, error) {
	logger := ctxlog.FromContext(ctx)

	if d.state != Idle {
		return nil, fmt.Errorf("build driver already used (state %s)", d.state)
	}

	h, err := host.Detect(req.OS)
	if err != nil {
		logger.Error("Platform not supported.", "os", req.OS)
		return nil, err
	}
	target := host.NewTarget(h, req.PlatformDir, req.OutDir, req.LinkFlags, req.Overrides[h.Name()])
	logger.Debug("Build target resolved.", "host", h.Name(), "compiler", target.Compiler, "link_flags", target.LinkFlags)

	d.transition(ctx, Compiling)
	if err := d.step(ctx, target.CompileInvocation()); err != nil {
		return nil, err
	}

	d.transition(ctx, Linking)
	if err := d.step(ctx, target.LinkInvocation()); err != nil {
		return nil, err
	}
	if _, err := os.Stat(target.Executable); err != nil {
		return nil, d.fail(ctx, &StageError{
			Stage:    Linking,
			ExitCode: 0,
			Output:   fmt.Sprintf("linker reported success but %s is missing: %v", target.Executable, err),
		})
	}

	d.transition(ctx, Done)
	logger.Info("Build finished.", "executable", target.Executable)
	return &Result{State: Done, Target: target, Executable: target.Executable}, nil
}

// step runs one toolchain invocation for the current stage.
func (d *Driver) step(ctx context.Context, inv toolchain.Invocation) error {
	logger := ctxlog.FromContext(ctx)
	stage := d.state
	logger.Info("Running toolchain step.", "stage", stage.String(), "command", inv.String())

	res := d.runner.Run(ctx, inv)
	if out := res.Output(); out != "" {
		logger.Info("Toolchain output.", "stage", stage.String(), "output", out)
		d.observer.Output(ctx, stage, out)
	}
	if !res.OK() {
		return d.fail(ctx, &StageError{Stage: stage, ExitCode: res.ExitCode, Output: res.Output()})
	}
	return nil
}

func (d *Driver) fail(ctx context.Context, err *StageError) error {
	ctxlog.FromContext(ctx).Error("Build step failed.", "stage", err.Stage.String(), "exit_code", err.ExitCode)
	d.transition(ctx, Failed)
	return err
}

func (d *Driver) transition(ctx context.Context, to State) {
	from := d.state
	d.state = to
	ctxlog.FromContext(ctx).Debug("Build state changed.", "from", from.String(), "to", to.String())
	d.observer.StateChanged(ctx, from, to)
}
