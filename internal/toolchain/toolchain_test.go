package toolchain

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestExecRunner_CapturesOutputAndExitCode(t *testing.T) {
	requireShell(t)

	res := NewExecRunner().Run(context.Background(), Invocation{
		Program: "sh",
		Args:    []string{"-c", "echo out; echo err 1>&2; exit 3"},
	})

	assert.False(t, res.OK())
	assert.Equal(t, 3, res.ExitCode)
	assert.NoError(t, res.StartErr)
	assert.Equal(t, "out\n", string(res.Stdout))
	assert.Equal(t, "err\n", string(res.Stderr))
	assert.Equal(t, "out\nerr\n", res.Output())
}

func TestExecRunner_Success(t *testing.T) {
	requireShell(t)

	res := NewExecRunner().Run(context.Background(), Invocation{
		Program: "sh",
		Args:    []string{"-c", "cat"},
		Stdin:   []byte("piped"),
	})

	require.True(t, res.OK())
	assert.Equal(t, "piped", string(res.Stdout))
}

func TestExecRunner_MissingProgram(t *testing.T) {
	res := NewExecRunner().Run(context.Background(), Invocation{
		Program: "/definitely/not/a/compiler",
	})

	assert.False(t, res.OK())
	assert.Equal(t, -1, res.ExitCode)
	require.Error(t, res.StartErr)
	assert.Contains(t, res.Output(), "failed to start /definitely/not/a/compiler")
}

func TestInvocation_String(t *testing.T) {
	inv := Invocation{Program: "/usr/bin/g++", Args: []string{"-O3", "-c", "main.cpp"}}

	assert.Equal(t, "/usr/bin/g++ -O3 -c main.cpp", inv.String())
}

func TestStream_WritesOutput(t *testing.T) {
	requireShell(t)

	var stdout, stderr bytes.Buffer
	err := Stream(context.Background(), Invocation{
		Program: "sh",
		Args:    []string{"-c", "echo running; echo warn 1>&2"},
	}, &stdout, &stderr)

	require.NoError(t, err)
	assert.Equal(t, "running\n", stdout.String())
	assert.Equal(t, "warn\n", stderr.String())
}

func TestStream_CancelledIsNotAnError(t *testing.T) {
	requireShell(t)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := Stream(ctx, Invocation{Program: "sh", Args: []string{"-c", "sleep 5"}}, &bytes.Buffer{}, &bytes.Buffer{})

	assert.NoError(t, err)
}

func TestStream_FailureIsReported(t *testing.T) {
	requireShell(t)

	err := Stream(context.Background(), Invocation{Program: "sh", Args: []string{"-c", "exit 2"}}, &bytes.Buffer{}, &bytes.Buffer{})

	var exitErr *exec.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 2, exitErr.ExitCode())
}
