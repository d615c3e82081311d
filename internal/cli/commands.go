package cli

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/rodaine/table"
	"github.com/specialistvlad/stridegen/internal/app"
	"github.com/spf13/cobra"
)

func newBuildCommand(f *flags, opts []app.Option) *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Assemble main.cpp, then compile and link the executable",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, f, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.Build(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if report.FormatErr != nil {
				printWarning(cmd.ErrOrStderr(), "source left unformatted: %v", report.FormatErr)
			}
			fmt.Fprintf(out, "%s %s\n", color.GreenString("Built"), report.Executable)
			fmt.Fprintf(out, "  build id:   %s\n", report.BuildID)
			fmt.Fprintf(out, "  link flags: %s\n", strings.Join(report.LinkFlags, " "))
			return nil
		},
	}
}

func newAssembleCommand(f *flags, opts []app.Option) *cobra.Command {
	return &cobra.Command{
		Use:   "assemble",
		Short: "Assemble main.cpp without compiling it",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, f, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.Assemble(cmd.Context())
			if err != nil {
				return err
			}
			if report.FormatErr != nil {
				printWarning(cmd.ErrOrStderr(), "source left unformatted: %v", report.FormatErr)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", color.GreenString("Assembled"), report.Source)
			return nil
		},
	}
}

func newPlanCommand(f *flags, opts []app.Option) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Show the compile and link commands a build would run",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, f, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			plan, err := a.Plan(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			headerFmt := color.New(color.FgGreen, color.Bold).SprintfFunc()
			columnFmt := color.New(color.FgYellow).SprintfFunc()

			fmt.Fprintf(out, "Host: %s\n\n", plan.Host)
			tbl := table.New("Stage", "Program", "Arguments")
			tbl.WithHeaderFormatter(headerFmt).WithFirstColumnFormatter(columnFmt).WithWriter(out)
			tbl.AddRow("compile", plan.Compile.Program, strings.Join(plan.Compile.Args, " "))
			tbl.AddRow("link", plan.Link.Program, strings.Join(plan.Link.Args, " "))
			tbl.Print()
			return nil
		},
	}
}

func newRunCommand(f *flags, opts []app.Option) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the built executable until it exits or is interrupted",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, f, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			return a.Launch(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}
