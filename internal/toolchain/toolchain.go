// Package toolchain runs external programs (formatter, compiler, linker,
// generator) and reports each run as an explicit Result instead of
// swallowing failures.
package toolchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/specialistvlad/stridegen/internal/ctxlog"
)

// Invocation describes one external process.
type Invocation struct {
	Program string
	Args    []string
	Dir     string
	Stdin   []byte
}

// String renders the invocation as a shell-like command line for logs.
func (inv Invocation) String() string {
	return strings.Join(append([]string{inv.Program}, inv.Args...), " ")
}

// Result is the outcome of a finished invocation. ExitCode is -1 when the
// process could not be started at all, in which case StartErr is set.
type Result struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
	StartErr error
}

// OK reports whether the process ran and exited zero.
func (r Result) OK() bool {
	return r.StartErr == nil && r.ExitCode == 0
}

// Output returns stdout followed by stderr, the text surfaced to users.
func (r Result) Output() string {
	var b strings.Builder
	b.Write(r.Stdout)
	b.Write(r.Stderr)
	if r.StartErr != nil {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(r.StartErr.Error())
	}
	return b.String()
}

// Runner executes invocations. Implementations block until the process
// exits.
type Runner interface {
	Run(ctx context.Context, inv Invocation) Result
}

// ExecRunner runs invocations with os/exec.
type ExecRunner struct{}

// NewExecRunner creates a runner backed by real processes.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run starts the process, waits for it and captures its output.
func (r *ExecRunner) Run(ctx context.Context, inv Invocation) Result {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Executing external command.", "command", inv.String(), "dir", inv.Dir)

	cmd := exec.CommandContext(ctx, inv.Program, inv.Args...)
	cmd.Dir = inv.Dir
	if inv.Stdin != nil {
		cmd.Stdin = bytes.NewReader(inv.Stdin)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		} else {
			res.ExitCode = -1
			res.StartErr = fmt.Errorf("failed to start %s: %w", inv.Program, err)
		}
	}

	logger.Debug("External command finished.", "program", inv.Program, "exit_code", res.ExitCode)
	return res
}

// Stream runs the invocation with its output connected to the given
// writers, returning when the process exits or ctx is cancelled.
func Stream(ctx context.Context, inv Invocation, stdout, stderr io.Writer) error {
	logger := ctxlog.FromContext(ctx)
	logger.Info("Launching program.", "command", inv.String())

	cmd := exec.CommandContext(ctx, inv.Program, inv.Args...)
	cmd.Dir = inv.Dir
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			logger.Info("Program stopped.", "reason", ctx.Err())
			return nil
		}
		return fmt.Errorf("program %s failed: %w", inv.Program, err)
	}
	logger.Info("Program exited.")
	return nil
}
