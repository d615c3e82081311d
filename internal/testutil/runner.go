// Package testutil holds fakes and fixtures shared by package tests.
package testutil

import (
	"context"
	"os"
	"sync"

	"github.com/specialistvlad/stridegen/internal/toolchain"
)

// FakeRunner records every invocation instead of starting processes.
// Respond decides the result; when it is nil every invocation succeeds.
type FakeRunner struct {
	Respond func(inv toolchain.Invocation) toolchain.Result

	mu    sync.Mutex
	calls []toolchain.Invocation
}

// Run records inv and returns the configured result.
func (r *FakeRunner) Run(_ context.Context, inv toolchain.Invocation) toolchain.Result {
	r.mu.Lock()
	r.calls = append(r.calls, inv)
	r.mu.Unlock()

	if r.Respond == nil {
		return toolchain.Result{}
	}
	return r.Respond(inv)
}

// Calls returns the recorded invocations in order.
func (r *FakeRunner) Calls() []toolchain.Invocation {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]toolchain.Invocation, len(r.calls))
	copy(out, r.calls)
	return out
}

// OutputFlag returns the path following "-o" in args, accepting both the
// attached ("-opath") and separate ("-o path") forms.
func OutputFlag(args []string) string {
	for i, a := range args {
		if a == "-o" && i+1 < len(args) {
			return args[i+1]
		}
		if len(a) > 2 && a[:2] == "-o" {
			return a[2:]
		}
	}
	return ""
}

// Toolchain returns a Respond function that behaves like a working
// compiler: it writes an empty file wherever "-o" points.
func Toolchain() func(inv toolchain.Invocation) toolchain.Result {
	return func(inv toolchain.Invocation) toolchain.Result {
		if out := OutputFlag(inv.Args); out != "" {
			if err := os.WriteFile(out, []byte{}, 0755); err != nil {
				return toolchain.Result{ExitCode: 1, Stderr: []byte(err.Error())}
			}
		}
		return toolchain.Result{Stdout: []byte("ok\n")}
	}
}
