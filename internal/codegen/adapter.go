package codegen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/specialistvlad/stridegen/internal/ctxlog"
	"github.com/specialistvlad/stridegen/internal/toolchain"
	"github.com/specialistvlad/stridegen/internal/tree"
)

// Adapter turns a program tree into a code bundle for one platform.
type Adapter interface {
	Generate(ctx context.Context, t *tree.Tree) (*Bundle, error)
}

// ErrNoGenerator is returned by an ExecAdapter configured without a command.
var ErrNoGenerator = errors.New("no code generator configured for platform")

// GeneratorError reports a generator process that did not exit cleanly.
type GeneratorError struct {
	Command  string
	ExitCode int
	Output   string
}

func (e *GeneratorError) Error() string {
	return fmt.Sprintf("code generator %q failed with exit code %d: %s", e.Command, e.ExitCode, e.Output)
}

// ExecAdapter runs the platform's generator program. The tree is written to
// its stdin, the build directory is passed as the last argument, and the
// bundle is read as JSON from its stdout.
type ExecAdapter struct {
	command []string
	outDir  string
	runner  toolchain.Runner
}

// NewExecAdapter creates an adapter for the given generator command.
func NewExecAdapter(command []string, outDir string, runner toolchain.Runner) *ExecAdapter {
	return &ExecAdapter{command: command, outDir: outDir, runner: runner}
}

// Generate runs the generator and decodes its bundle.
func (a *ExecAdapter) Generate(ctx context.Context, t *tree.Tree) (*Bundle, error) {
	logger := ctxlog.FromContext(ctx)
	if len(a.command) == 0 {
		return nil, ErrNoGenerator
	}

	args := append(append([]string{}, a.command[1:]...), a.outDir)
	inv := toolchain.Invocation{Program: a.command[0], Args: args, Stdin: t.Raw()}
	logger.Info("Generating code.", "generator", inv.String())

	res := a.runner.Run(ctx, inv)
	if len(res.Stderr) > 0 {
		logger.Info("Generator output.", "output", string(res.Stderr))
	}
	if !res.OK() {
		return nil, &GeneratorError{Command: inv.String(), ExitCode: res.ExitCode, Output: res.Output()}
	}

	var bundle Bundle
	if err := json.Unmarshal(res.Stdout, &bundle); err != nil {
		return nil, fmt.Errorf("failed to decode code bundle from %s: %w", a.command[0], err)
	}
	logger.Debug("Code bundle decoded.", "groups", len(bundle.GlobalGroups))
	return &bundle, nil
}

// StaticAdapter returns the same bundle for every tree.
type StaticAdapter struct {
	Bundle *Bundle
}

// Generate returns a copy of the configured bundle.
func (a *StaticAdapter) Generate(ctx context.Context, _ *tree.Tree) (*Bundle, error) {
	if a.Bundle == nil {
		return nil, ErrNoGenerator
	}
	out := *a.Bundle
	out.GlobalGroups = make(Groups, len(a.Bundle.GlobalGroups))
	for k, v := range a.Bundle.GlobalGroups {
		out.GlobalGroups[k] = append([]string{}, v...)
	}
	return &out, nil
}
