package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/brandonbloom/testlab/internal/config"
	"github.com/brandonbloom/testlab/internal/version"
	"github.com/spf13/cobra"
)

// Execute runs the testlab CLI against os.Args and returns the exit code.
func Execute() int {
	return run(os.Args[1:], os.Stdout, os.Stderr)
}

func run(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err == nil {
		return exitPass
	}
	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			fmt.Fprintln(stderr, ee.err)
		}
		return ee.code
	}
	fmt.Fprintln(stderr, err)
	return exitUsage
}

type globalFlags struct {
	configPath string
	verbose    bool
	noColor    bool
}

func newRootCommand() *cobra.Command {
	var flags globalFlags
	cmd := &cobra.Command{
		Use:           "testlab",
		Short:         "Run CLI commands and assert on their output and files",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&flags.configPath, "config", config.FileName, "path to the testlab config file")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log command lifecycle to stderr")
	cmd.PersistentFlags().BoolVar(&flags.noColor, "no-color", false, "disable colored output")

	cmd.AddCommand(
		newExecCommand(&flags),
		newCheckCommand(&flags),
		newFilesCommand(&flags),
		newInitCommand(&flags),
		newVersionCommand(),
	)

	return cmd
}

func (f *globalFlags) logger(cmd *cobra.Command) *slog.Logger {
	if !f.verbose {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
}
