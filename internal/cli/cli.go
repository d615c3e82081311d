package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/specialistvlad/stridegen/internal/app"
	"github.com/specialistvlad/stridegen/internal/builder"
	"github.com/specialistvlad/stridegen/internal/codegen"
	"github.com/specialistvlad/stridegen/internal/host"
	"github.com/specialistvlad/stridegen/internal/template"
	"github.com/specialistvlad/stridegen/internal/tree"
	"github.com/spf13/cobra"
)

// Exit codes returned by the stridegen binary.
const (
	ExitOther     = 1
	ExitUsage     = 2
	ExitPlatform  = 3
	ExitArtifact  = 4
	ExitAssembly  = 5
	ExitToolchain = 6
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// flags holds the global options shared by every subcommand.
type flags struct {
	outDir         string
	platformDir    string
	platformConfig []string
	logLevel       string
	logFormat      string
	noColor        bool
	notifyURL      string
	hostOS         string
}

// Run parses args, runs the selected subcommand and returns an *ExitError
// for every failure. Extra options are passed to the App, mainly for tests.
func Run(ctx context.Context, args []string, outW, errW io.Writer, opts ...app.Option) error {
	root := NewRootCommand(outW, errW, opts...)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	if strings.HasPrefix(err.Error(), "unknown command") {
		return &ExitError{Code: ExitUsage, Message: err.Error()}
	}
	return &ExitError{Code: exitCode(err), Message: err.Error()}
}

// NewRootCommand builds the stridegen command tree.
func NewRootCommand(outW, errW io.Writer, opts ...app.Option) *cobra.Command {
	f := &flags{}

	cmd := &cobra.Command{
		Use:   "stridegen",
		Short: "Assemble and build generated Stride programs",
		Long: color.New(color.FgCyan, color.Bold).Sprint("stridegen") + ` turns the program tree written by the Stride
front-end into a native audio executable. It injects the generated code into
the platform's project template and drives the host toolchain.
`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if f.noColor {
				color.NoColor = true
			}
		},
	}
	cmd.SetOut(outW)
	cmd.SetErr(errW)
	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: ExitUsage, Message: err.Error()}
	})

	pf := cmd.PersistentFlags()
	pf.StringVarP(&f.outDir, "out", "o", ".", "Build directory holding tree.json.")
	pf.StringVarP(&f.platformDir, "platform", "p", "", "Platform directory with project/, include/ and lib/.")
	pf.StringSliceVar(&f.platformConfig, "platform-config", nil, "Extra platform definition files or directories.")
	pf.StringVar(&f.logLevel, "log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	pf.StringVar(&f.logFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")
	pf.BoolVar(&f.noColor, "no-color", false, "Disable colored output.")
	pf.StringVar(&f.notifyURL, "notify-url", "", "socket.io URL of the editor to send build progress to.")
	pf.StringVar(&f.hostOS, "host-os", "", "Override the detected host operating system.")
	_ = pf.MarkHidden("host-os")

	cmd.AddCommand(
		newBuildCommand(f, opts),
		newAssembleCommand(f, opts),
		newPlanCommand(f, opts),
		newRunCommand(f, opts),
	)
	return cmd
}

// newApp validates the flags and creates the App. Logs go to the command's
// error stream so stdout carries only results.
func newApp(cmd *cobra.Command, f *flags, opts []app.Option) (*app.App, error) {
	cfg, err := app.NewConfig(app.Config{
		OutDir:         f.outDir,
		PlatformDir:    f.platformDir,
		PlatformConfig: f.platformConfig,
		LogLevel:       f.logLevel,
		LogFormat:      f.logFormat,
		NoColor:        f.noColor,
		NotifyURL:      f.notifyURL,
		HostOS:         f.hostOS,
	})
	if err != nil {
		return nil, &ExitError{Code: ExitUsage, Message: err.Error()}
	}
	return app.New(cmd.Context(), cmd.ErrOrStderr(), cfg, opts...), nil
}

// noArgs rejects positional arguments with a usage exit code.
func noArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		return &ExitError{Code: ExitUsage, Message: err.Error()}
	}
	return nil
}

// exitCode maps pipeline errors to process exit codes.
func exitCode(err error) int {
	var (
		unsupported *host.UnsupportedPlatformError
		stageErr    *builder.StageError
		notFound    *template.SectionNotFoundError
		duplicate   *template.DuplicateSectionError
		missing     *codegen.MissingGroupError
		generator   *codegen.GeneratorError
	)
	switch {
	case errors.As(err, &unsupported), errors.Is(err, app.ErrPlatformDefinition):
		return ExitPlatform
	case errors.Is(err, tree.ErrArtifactMissing), errors.Is(err, tree.ErrArtifactMalformed), errors.Is(err, app.ErrNotBuilt):
		return ExitArtifact
	case errors.As(err, &notFound), errors.As(err, &duplicate), errors.As(err, &missing),
		errors.As(err, &generator), errors.Is(err, codegen.ErrNoGenerator):
		return ExitAssembly
	case errors.As(err, &stageErr):
		return ExitToolchain
	default:
		return ExitOther
	}
}

func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", color.YellowString("warning:"), fmt.Sprintf(format, args...))
}
