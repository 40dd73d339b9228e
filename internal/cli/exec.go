package cli

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/brandonbloom/testlab/exectest"
	"github.com/brandonbloom/testlab/internal/config"
	"github.com/brandonbloom/testlab/internal/launch"
	"github.com/spf13/cobra"
)

type execFlags struct {
	expectError  []string
	expectOutput []string
	expectText   string
	exactly      int
	notExpect    []string
	dir          string
	chdir        bool
	description  string
	timeout      time.Duration
}

func newExecCommand(global *globalFlags) *cobra.Command {
	var flags execFlags
	cmd := &cobra.Command{
		Use:   "exec [flags] -- <command> [args...]",
		Short: "Run a command and check its exit status and output",
		Long: `Run a command and check its exit status and output.

A single argument is taken as a shell-style command line; several arguments
are quoted and joined. The command must exit 0 unless --expect-error is given.

Exit codes: 0 pass, 1 assertion failed, 2 usage error,
3 failure expected but the command succeeded, 124 timed out.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExec(cmd, global, &flags, args)
		},
	}
	f := cmd.Flags()
	f.StringArrayVar(&flags.expectError, "expect-error", nil, "expect failure with this text in stderr (repeatable)")
	f.StringArrayVar(&flags.expectOutput, "expect-output", nil, "require this text in stdout (repeatable)")
	f.StringVar(&flags.expectText, "expect-text", "", "text counted by --exactly")
	f.IntVar(&flags.exactly, "exactly", 0, "require --expect-text exactly this many times in stdout")
	f.StringArrayVar(&flags.notExpect, "not-expect", nil, "forbid this text in stdout (repeatable)")
	f.StringVar(&flags.dir, "dir", "", "working directory for the command")
	f.BoolVar(&flags.chdir, "chdir", false, "change testlab's own directory to --dir before running")
	f.StringVar(&flags.description, "description", "", "name used in failure messages")
	f.DurationVar(&flags.timeout, "timeout", 0, "abort after this long (default from config)")
	return cmd
}

func runExec(cmd *cobra.Command, global *globalFlags, flags *execFlags, args []string) error {
	cfg, err := global.loadConfig()
	if err != nil {
		return err
	}
	line, err := commandLine(args)
	if err != nil {
		return usageError(err)
	}
	expected, err := flags.outputExpectation(cmd)
	if err != nil {
		return usageError(err)
	}

	opts := exectest.Options{
		Dir:                  firstNonEmpty(flags.dir, cfg.Exec.Dir),
		Chdir:                flags.chdir,
		Description:          flags.description,
		Env:                  cfg.EnvList(),
		ExpectedErrorMessage: flags.expectError,
		ExpectedOutput:       expected,
		NotExpectedOutput:    flags.notExpect,
		Logger:               global.logger(cmd),
	}

	timeout := flags.timeout
	if !cmd.Flags().Changed("timeout") {
		timeout = cfg.TimeoutDuration()
	}
	ctx, cancel := withTimeout(cmd.Context(), timeout)
	defer cancel()

	rep := newReporter(cmd.OutOrStdout(), global.noColor)
	start := time.Now()
	res, err := exectest.Exec(ctx, line, opts)
	elapsed := time.Since(start)

	label := flags.description
	if label == "" {
		label = line
	}
	if err == nil {
		rep.passed(label, elapsed)
		return nil
	}
	rep.failed(label, elapsed, err)
	if res != nil && global.verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "stdout:\n%s\nstderr:\n%s\n", res.Stdout, res.Stderr)
	}
	return silentExit(exitCodeFor(err))
}

// outputExpectation turns --expect-output or --exactly/--expect-text into the
// matching exectest variant.
func (f *execFlags) outputExpectation(cmd *cobra.Command) (exectest.OutputExpectation, error) {
	counted := cmd.Flags().Changed("exactly")
	switch {
	case counted && len(f.expectOutput) > 0:
		return nil, errors.New("--exactly cannot be combined with --expect-output")
	case counted && !cmd.Flags().Changed("expect-text"):
		return nil, errors.New("--exactly requires --expect-text")
	case !counted && cmd.Flags().Changed("expect-text"):
		return nil, errors.New("--expect-text requires --exactly")
	case counted && f.exactly < 0:
		return nil, fmt.Errorf("--exactly must not be negative, got %d", f.exactly)
	case counted:
		return exectest.ExactCount(f.expectText, f.exactly), nil
	case len(f.expectOutput) > 0:
		return exectest.Contains(f.expectOutput...), nil
	}
	return nil, nil
}

func caseOptions(c config.Case, cfg config.Config) exectest.Options {
	env := cfg.EnvList()
	for _, k := range slices.Sorted(maps.Keys(c.Env)) {
		env = append(env, k+"="+c.Env[k])
	}
	opts := exectest.Options{
		Dir:                  firstNonEmpty(c.Dir, cfg.Exec.Dir),
		Description:          c.Name,
		Env:                  env,
		ExpectedErrorMessage: c.ExpectError,
		NotExpectedOutput:    c.NotExpect,
	}
	switch {
	case c.Exactly != nil:
		opts.ExpectedOutput = exectest.ExactCount(c.Exactly.Text, c.Exactly.Times)
	case len(c.ExpectOutput) > 0:
		opts.ExpectedOutput = exectest.Contains(c.ExpectOutput...)
	}
	return opts
}

func exitCodeFor(err error) int {
	var (
		mismatch *exectest.MismatchError
		failure  *exectest.FailureError
	)
	switch {
	case err == nil:
		return exitPass
	case errors.Is(err, exectest.ErrNoErrorThrown):
		return exitContract
	case errors.Is(err, context.DeadlineExceeded):
		return exitTimeout
	case errors.As(err, &mismatch), errors.As(err, &failure):
		return exitFail
	default:
		return exitUsage
	}
}

func commandLine(args []string) (string, error) {
	if len(args) == 1 {
		if _, err := launch.Parse(args[0]); err != nil {
			return "", err
		}
		return args[0], nil
	}
	return launch.Quote(args...)
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
