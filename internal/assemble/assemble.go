// Package assemble produces the compilable main.cpp for a build by
// injecting generated fragments into the platform's project template.
package assemble

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/specialistvlad/stridegen/internal/codegen"
	"github.com/specialistvlad/stridegen/internal/config"
	"github.com/specialistvlad/stridegen/internal/ctxlog"
	"github.com/specialistvlad/stridegen/internal/fsutil"
	"github.com/specialistvlad/stridegen/internal/host"
	"github.com/specialistvlad/stridegen/internal/render"
	"github.com/specialistvlad/stridegen/internal/template"
)

// Section names in the project template, in injection order.
const (
	SectionIncludes = "Includes"
	SectionInit     = "Init Code"
	SectionConfig   = "Config Code"
	SectionDsp      = "Dsp Code"
)

// TemplateFile is the canonical template inside the project directory.
const TemplateFile = "template.cpp"

// Params is everything one assembly needs.
type Params struct {
	OutDir     string
	ProjectDir string
	Bundle     *codegen.Bundle
	Runtime    config.Runtime
}

// Output describes the assembled file. FormatErr is set when the formatter
// failed; the file is still complete and usable.
type Output struct {
	Path      string
	FormatErr error
}

// Assembler injects code bundles into the project template.
type Assembler struct {
	renderer  render.Renderer
	formatter Formatter
}

// New creates an assembler. A nil formatter skips formatting.
func New(renderer render.Renderer, formatter Formatter) *Assembler {
	if formatter == nil {
		formatter = NopFormatter{}
	}
	return &Assembler{renderer: renderer, formatter: formatter}
}

type section struct {
	name string
	code string
}

// Assemble always starts from the pristine template, injects every section
// in memory and writes main.cpp once, so a failed assembly never leaves a
// partially injected file behind.
func (a *Assembler) Assemble(ctx context.Context, p Params) (*Output, error) {
	logger := ctxlog.FromContext(ctx)

	templatePath := filepath.Join(p.ProjectDir, TemplateFile)
	src, err := os.ReadFile(templatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read project template: %w", err)
	}
	logger.Debug("Project template loaded.", "path", templatePath, "bytes", len(src))

	sections, err := a.renderSections(p)
	if err != nil {
		return nil, err
	}

	doc := template.Parse(string(src))
	for _, s := range sections {
		if err := doc.Inject(s.name, s.code); err != nil {
			return nil, fmt.Errorf("failed to assemble %s: %w", templatePath, err)
		}
		logger.Debug("Section injected.", "section", s.name, "bytes", len(s.code))
	}

	outPath := filepath.Join(p.OutDir, host.SourceFile)
	if err := fsutil.WriteFileAtomic(outPath, []byte(doc.String()), 0644); err != nil {
		return nil, err
	}
	logger.Info("Source assembled.", "path", outPath)

	out := &Output{Path: outPath}
	if err := a.formatter.Format(ctx, outPath); err != nil {
		logger.Warn("Formatting failed, keeping unformatted source.", "path", outPath, "error", err)
		out.FormatErr = err
	}
	return out, nil
}

func (a *Assembler) renderSections(p Params) ([]section, error) {
	b := p.Bundle
	if b == nil {
		return nil, fmt.Errorf("no code bundle to assemble")
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}

	globals, err := a.renderer.Globals(b.GlobalGroups)
	if err != nil {
		return nil, err
	}
	runtime, err := a.renderer.Runtime(p.Runtime)
	if err != nil {
		return nil, err
	}
	configuration, err := a.renderer.Configuration(b.Group(codegen.GroupInitialization))
	if err != nil {
		return nil, err
	}

	return []section{
		{name: SectionIncludes, code: globals},
		{name: SectionInit, code: b.HeaderCode},
		{name: SectionConfig, code: b.InitCode + runtime + configuration},
		{name: SectionDsp, code: b.ProcessingCode},
	}, nil
}
