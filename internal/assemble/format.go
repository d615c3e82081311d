package assemble

import (
	"context"
	"fmt"

	"github.com/specialistvlad/stridegen/internal/ctxlog"
	"github.com/specialistvlad/stridegen/internal/toolchain"
)

// Formatter normalizes the style of an assembled source file in place.
type Formatter interface {
	Format(ctx context.Context, path string) error
}

// NopFormatter leaves files untouched.
type NopFormatter struct{}

// Format does nothing.
func (NopFormatter) Format(context.Context, string) error { return nil }

// CommandFormatter runs an external formatter such as astyle with the file
// path as its last argument.
type CommandFormatter struct {
	command []string
	runner  toolchain.Runner
}

// NewCommandFormatter returns a formatter for command, or a NopFormatter
// when command is empty.
func NewCommandFormatter(command []string, runner toolchain.Runner) Formatter {
	if len(command) == 0 {
		return NopFormatter{}
	}
	return &CommandFormatter{command: command, runner: runner}
}

// Format runs the formatter and reports a non-zero exit as an error.
func (f *CommandFormatter) Format(ctx context.Context, path string) error {
	inv := toolchain.Invocation{
		Program: f.command[0],
		Args:    append(append([]string{}, f.command[1:]...), path),
	}
	res := f.runner.Run(ctx, inv)
	if out := res.Output(); out != "" {
		ctxlog.FromContext(ctx).Debug("Formatter output.", "output", out)
	}
	if !res.OK() {
		return fmt.Errorf("formatter %s exited with code %d: %s", f.command[0], res.ExitCode, res.Output())
	}
	return nil
}
