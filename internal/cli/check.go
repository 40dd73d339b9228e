package cli

import (
	"fmt"
	"runtime"
	"time"

	"github.com/brandonbloom/testlab/exectest"
	"github.com/brandonbloom/testlab/internal/config"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newCheckCommand(global *globalFlags) *cobra.Command {
	var jobs int
	cmd := &cobra.Command{
		Use:   "check <suite.toml>...",
		Short: "Run every [[case]] of one or more suite files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, global, jobs, args)
		},
	}
	cmd.Flags().IntVarP(&jobs, "jobs", "j", runtime.NumCPU(), "number of cases to run at once")
	return cmd
}

type caseOutcome struct {
	label   string
	err     error
	elapsed time.Duration
}

func runCheck(cmd *cobra.Command, global *globalFlags, jobs int, paths []string) error {
	cfg, err := global.loadConfig()
	if err != nil {
		return err
	}

	var cases []config.Case
	for _, path := range paths {
		suite, err := config.LoadSuite(path)
		if err != nil {
			return usageError(err)
		}
		cases = append(cases, suite.Cases...)
	}

	timeout := cfg.TimeoutDuration()
	log := global.logger(cmd)
	outcomes := make([]caseOutcome, len(cases))

	var g errgroup.Group
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for i, c := range cases {
		g.Go(func() error {
			opts := caseOptions(c, cfg)
			opts.Logger = log.With("case", c.Label())
			ctx, cancel := withTimeout(cmd.Context(), timeout)
			defer cancel()

			start := time.Now()
			_, err := exectest.Exec(ctx, c.Command, opts)
			outcomes[i] = caseOutcome{label: c.Label(), err: err, elapsed: time.Since(start)}
			return nil
		})
	}
	_ = g.Wait()

	rep := newReporter(cmd.OutOrStdout(), global.noColor)
	labels := make([]string, len(outcomes))
	for i, o := range outcomes {
		labels[i] = o.label
	}
	rep.alignTo(labels)

	code := exitPass
	failed := 0
	for _, o := range outcomes {
		if o.err == nil {
			rep.passed(o.label, o.elapsed)
			continue
		}
		failed++
		rep.failed(o.label, o.elapsed, o.err)
		if c := exitCodeFor(o.err); c > code {
			code = c
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d passed, %d failed\n", len(outcomes)-failed, failed)
	if failed > 0 {
		return silentExit(code)
	}
	return nil
}
