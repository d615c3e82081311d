// Package host models the closed set of build hosts the Gamma toolchain is
// driven on. Each host is one variant carrying its own compiler path,
// flag layout and base library set; selection happens once, in Detect.
package host

import (
	"fmt"
	"runtime"
	"strings"
)

// Host is a supported build platform. The set is closed: only the variants
// declared in this package implement it.
type Host interface {
	// Name is the GOOS value the variant is selected by.
	Name() string
	// Compiler is the default compiler driver path.
	Compiler() string

	compileFlags() []string
	linkFlags() []string
	baseLibs() []string
	compileArgs(t *BuildTarget) []string
	linkArgs(t *BuildTarget) []string
}

// UnsupportedPlatformError is returned for a host outside the supported set.
type UnsupportedPlatformError struct {
	OS string
}

func (e *UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("platform %q not supported, expected one of: %s", e.OS, strings.Join(Supported(), ", "))
}

var hosts = []Host{Linux{}, Darwin{}, Windows{}}

// Supported lists the recognised host names.
func Supported() []string {
	names := make([]string, 0, len(hosts))
	for _, h := range hosts {
		names = append(names, h.Name())
	}
	return names
}

// Detect maps a GOOS value to its host variant.
func Detect(goos string) (Host, error) {
	for _, h := range hosts {
		if h.Name() == goos {
			return h, nil
		}
	}
	return nil, &UnsupportedPlatformError{OS: goos}
}

// Current returns the variant for the running process.
func Current() (Host, error) {
	return Detect(runtime.GOOS)
}

// gammaLibs is the Gamma runtime and its direct dependencies: threading,
// audio I/O and sound file I/O.
var gammaLibs = []string{"-lGamma", "-lpthread", "-lportaudio", "-lsndfile"}

// Linux builds with GNU g++ and attaches output paths to their flags.
type Linux struct{}

func (Linux) Name() string     { return "linux" }
func (Linux) Compiler() string { return "/usr/bin/g++" }

func (Linux) compileFlags() []string { return []string{"-O3", "-std=c++11", "-DNDEBUG"} }
func (Linux) linkFlags() []string    { return []string{"-O3", "-DNDEBUG"} }
func (Linux) baseLibs() []string     { return gammaLibs }

func (Linux) compileArgs(t *BuildTarget) []string {
	args := includeArgs(t)
	args = append(args, t.CompileFlags...)
	return append(args, "-o"+t.Object, "-c", t.Source)
}

func (Linux) linkArgs(t *BuildTarget) []string {
	args := append([]string{}, t.LinkerFlags...)
	args = append(args, t.Object, "-o"+t.Executable, "-rdynamic")
	for _, p := range t.LibPaths {
		args = append(args, "-L"+p)
	}
	return appendLibs(args, t)
}

// Darwin builds with the system c++ driver. Output and library paths are
// separate arguments, and the base libraries after Gamma are listed a second
// time.
type Darwin struct{}

func (Darwin) Name() string     { return "darwin" }
func (Darwin) Compiler() string { return "/usr/bin/c++" }

func (Darwin) compileFlags() []string              { return []string{"-O3", "-DNDEBUG"} }
func (Darwin) linkFlags() []string                 { return []string{"-O3", "-DNDEBUG"} }
func (Darwin) baseLibs() []string                  { return append(append([]string{}, gammaLibs...), gammaLibs[1:]...) }
func (Darwin) compileArgs(t *BuildTarget) []string { return splitCompileArgs(t) }
func (Darwin) linkArgs(t *BuildTarget) []string    { return splitLinkArgs(t) }

// Windows builds with a POSIX-layer c++ driver and the same layout as Darwin.
type Windows struct{}

func (Windows) Name() string     { return "windows" }
func (Windows) Compiler() string { return "/usr/bin/c++" }

func (Windows) compileFlags() []string              { return []string{"-O3", "-DNDEBUG"} }
func (Windows) linkFlags() []string                 { return []string{"-O3", "-DNDEBUG"} }
func (Windows) baseLibs() []string                  { return append(append([]string{}, gammaLibs...), gammaLibs[1:]...) }
func (Windows) compileArgs(t *BuildTarget) []string { return splitCompileArgs(t) }
func (Windows) linkArgs(t *BuildTarget) []string    { return splitLinkArgs(t) }

func includeArgs(t *BuildTarget) []string {
	args := make([]string, 0, len(t.IncludePaths))
	for _, p := range t.IncludePaths {
		args = append(args, "-I"+p)
	}
	return args
}

func appendLibs(args []string, t *BuildTarget) []string {
	args = append(args, t.BaseLibs...)
	return append(args, t.LinkFlags...)
}

func splitCompileArgs(t *BuildTarget) []string {
	args := includeArgs(t)
	args = append(args, t.CompileFlags...)
	return append(args, "-o", t.Object, "-c", t.Source)
}

func splitLinkArgs(t *BuildTarget) []string {
	args := append([]string{}, t.LinkerFlags...)
	args = append(args, t.Object, "-o", t.Executable, "-rdynamic")
	for _, p := range t.LibPaths {
		args = append(args, "-L", p)
	}
	return appendLibs(args, t)
}
