package host

import (
	"path/filepath"

	"github.com/specialistvlad/stridegen/internal/toolchain"
)

// Well-known file names inside the output directory.
const (
	SourceFile     = "main.cpp"
	ObjectFile     = "main.cpp.o"
	ExecutableFile = "app"
)

// Overrides adjusts a host's defaults from the platform definition.
type Overrides struct {
	Compiler string
	Defines  []string
}

// BuildTarget is the resolved compile and link plan for one build on one
// host. It is built fresh for every build.
type BuildTarget struct {
	Host         Host
	Compiler     string
	IncludePaths []string
	CompileFlags []string
	LinkerFlags  []string
	Source       string
	Object       string
	Executable   string
	LibPaths     []string
	BaseLibs     []string
	LinkFlags    []string
}

// NewTarget resolves the plan for building outDir against the platform
// installed in platformDir. linkFlags are appended after the host's base
// libraries without further deduplication.
func NewTarget(h Host, platformDir, outDir string, linkFlags []string, o Overrides) *BuildTarget {
	compiler := h.Compiler()
	if o.Compiler != "" {
		compiler = o.Compiler
	}

	compileFlags := append([]string{}, h.compileFlags()...)
	for _, d := range o.Defines {
		compileFlags = append(compileFlags, "-D"+d)
	}

	return &BuildTarget{
		Host:         h,
		Compiler:     compiler,
		IncludePaths: []string{filepath.Join(platformDir, "include")},
		CompileFlags: compileFlags,
		LinkerFlags:  append([]string{}, h.linkFlags()...),
		Source:       filepath.Join(outDir, SourceFile),
		Object:       filepath.Join(outDir, ObjectFile),
		Executable:   filepath.Join(outDir, ExecutableFile),
		LibPaths:     []string{filepath.Join(platformDir, "lib")},
		BaseLibs:     append([]string{}, h.baseLibs()...),
		LinkFlags:    append([]string{}, linkFlags...),
	}
}

// CompileInvocation turns the source file into an object file.
func (t *BuildTarget) CompileInvocation() toolchain.Invocation {
	return toolchain.Invocation{Program: t.Compiler, Args: t.Host.compileArgs(t)}
}

// LinkInvocation turns the object file into the executable.
func (t *BuildTarget) LinkInvocation() toolchain.Invocation {
	return toolchain.Invocation{Program: t.Compiler, Args: t.Host.linkArgs(t)}
}
