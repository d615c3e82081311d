// Package render produces the C++ fragments the assembler injects next to
// the adapter's code: global declarations, the runtime configuration and
// the initialization statements collected from the program.
package render

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/specialistvlad/stridegen/internal/codegen"
	"github.com/specialistvlad/stridegen/internal/config"
)

// Renderer renders code fragments for one target runtime.
type Renderer interface {
	Globals(groups codegen.Groups) (string, error)
	Runtime(rt config.Runtime) (string, error)
	Configuration(initialization []string) (string, error)
}

var funcs = template.FuncMap{
	"include": includeLine,
	"double":  cxxDouble,
}

var (
	globalsTmpl = template.Must(template.New("globals").Funcs(funcs).Parse(
		`{{range .Includes}}{{include .}}
{{end}}{{range .Globals}}{{.}}
{{end}}`))

	runtimeTmpl = template.Must(template.New("runtime").Funcs(funcs).Parse(
		`    gam::AudioIO io({{.BlockSize}}, {{double .SampleRate}}, audioCB, NULL, {{.NumOutChannels}}, {{.NumInChannels}});
    io.deviceOut(gam::AudioDevice({{.AudioDevice}}));
    gam::sampleRate(io.fps());
`))

	configurationTmpl = template.Must(template.New("configuration").Parse(
		`{{range .}}    {{.}}
{{end}}`))
)

// Gamma renders fragments for the Gamma audio library.
type Gamma struct{}

// NewGamma creates the Gamma renderer.
func NewGamma() *Gamma {
	return &Gamma{}
}

// Globals renders include directives followed by global declarations.
// Other groups are not part of the globals section.
func (Gamma) Globals(groups codegen.Groups) (string, error) {
	return execute(globalsTmpl, struct {
		Includes []string
		Globals  []string
	}{
		Includes: groups[codegen.GroupIncludes],
		Globals:  groups[codegen.GroupGlobals],
	})
}

// Runtime renders the audio I/O setup for the fixed runtime values.
func (Gamma) Runtime(rt config.Runtime) (string, error) {
	return execute(runtimeTmpl, rt)
}

// Configuration renders one initialization statement per line.
func (Gamma) Configuration(initialization []string) (string, error) {
	return execute(configurationTmpl, initialization)
}

func execute(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s fragment: %w", t.Name(), err)
	}
	return buf.String(), nil
}

// includeLine turns an include group entry into a directive. Entries may be
// a bare header path, a bracketed or quoted path, or a full directive.
func includeLine(entry string) string {
	entry = strings.TrimSpace(entry)
	switch {
	case strings.HasPrefix(entry, "#"):
		return entry
	case strings.HasPrefix(entry, "<"), strings.HasPrefix(entry, `"`):
		return "#include " + entry
	default:
		return `#include "` + entry + `"`
	}
}

// cxxDouble formats v as a C++ double literal.
func cxxDouble(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
