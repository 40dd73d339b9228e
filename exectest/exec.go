package exectest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime/trace"

	"github.com/brandonbloom/testlab/internal/launch"
	"github.com/google/uuid"
)

// Options configures one invocation. Every assertion is optional.
type Options struct {
	// Dir is the working directory handed to the child process.
	Dir string
	// Chdir makes Start change the working directory of the whole test
	// process to Dir before spawning, and leaves it changed afterwards.
	// Concurrent invocations with different Dir values race on this.
	Chdir bool
	// Description names the invocation in failure messages. It defaults to
	// "Run <command>".
	Description string
	// Env entries (KEY=VALUE) are added to the inherited environment.
	Env []string

	// ExpectedErrorMessage marks the command as expected to fail; each entry
	// must then appear in stderr.
	ExpectedErrorMessage []string
	// ExpectedOutput is checked against stdout whatever the exit code.
	ExpectedOutput OutputExpectation
	// NotExpectedOutput entries must all be absent from stdout.
	NotExpectedOutput []string

	Logger *slog.Logger
}

func (o Options) description(command string) string {
	if o.Description != "" {
		return o.Description
	}
	return "Run " + command
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// Result holds what a finished command produced.
type Result struct {
	RunID    string
	Command  string
	Stdout   string
	Stderr   string
	ExitCode int
}

// Execution is a command that has been started. Wait blocks until the process
// exits and the assertions have been applied.
type Execution struct {
	done   chan struct{}
	result *Result
	err    error
}

// Done is closed once the outcome is known.
func (e *Execution) Done() <-chan struct{} {
	return e.done
}

// Wait returns the result and the outcome of the assertions. The result is
// non-nil whenever the process ran, including when err is a *MismatchError,
// *FailureError or *ContractError.
func (e *Execution) Wait() (*Result, error) {
	<-e.done
	return e.result, e.err
}

func (e *Execution) finish(res *Result, err error) {
	e.result = res
	e.err = err
	close(e.done)
}

// Start spawns command and returns immediately. Output is accumulated in the
// background; assertions run after the process exits. No timeout is applied
// beyond ctx.
func Start(ctx context.Context, command string, opts Options) *Execution {
	exe := &Execution{done: make(chan struct{})}
	description := opts.description(command)
	log := opts.logger()

	dir := opts.Dir
	if opts.Chdir && dir != "" {
		if err := os.Chdir(dir); err != nil {
			exe.finish(nil, fmt.Errorf("%s: %w", description, err))
			return exe
		}
		dir = ""
	}

	res := &Result{RunID: uuid.NewString(), Command: command}
	log = log.With("run_id", res.RunID)

	go func() {
		ctx, task := trace.NewTask(ctx, "exectest.Start")
		defer task.End()
		trace.Log(ctx, "run_id", res.RunID)

		var stdout, stderr launch.Buffer
		cmd := &launch.Cmd{
			Line:   command,
			Dir:    dir,
			Env:    opts.Env,
			Stdout: &stdout,
			Stderr: &stderr,
		}
		log.Debug("spawning", "command", command, "dir", dir)
		var code int
		var err error
		trace.WithRegion(ctx, "launch", func() {
			code, err = cmd.Run(ctx)
		})
		res.Stdout = stdout.String()
		res.Stderr = stderr.String()
		res.ExitCode = code
		if err != nil {
			log.Debug("launch failed", "err", err)
			exe.finish(res, fmt.Errorf("%s: %w", description, err))
			return
		}
		log.Debug("exited", "exit_code", code, "stdout_bytes", len(res.Stdout), "stderr_bytes", len(res.Stderr))
		var verdict error
		trace.WithRegion(ctx, "evaluate", func() {
			verdict = evaluate(res, opts, description)
		})
		exe.finish(res, verdict)
	}()
	return exe
}

// Exec runs command to completion and applies the assertions in opts.
func Exec(ctx context.Context, command string, opts Options) (*Result, error) {
	return Start(ctx, command, opts).Wait()
}

// AssertExec succeeds when command exits 0.
func AssertExec(ctx context.Context, command, description string) (*Result, error) {
	return Exec(ctx, command, Options{Description: description})
}

// AssertExecError succeeds when command exits non-zero and returns its stderr.
func AssertExecError(ctx context.Context, command, description string) (string, error) {
	opts := Options{Description: description}
	res, err := Exec(ctx, command, opts)
	if err == nil {
		return res.Stderr, &ContractError{Description: opts.description(command), Result: res}
	}
	var failure *FailureError
	if errors.As(err, &failure) {
		return res.Stderr, nil
	}
	return "", err
}

// evaluate classifies a finished run and applies the configured assertions.
func evaluate(res *Result, opts Options, description string) error {
	failed := res.ExitCode != 0
	expectsFailure := len(opts.ExpectedErrorMessage) > 0

	if !failed && expectsFailure {
		return &ContractError{Description: description, Result: res}
	}

	var mismatches []string
	if failed {
		mismatches = append(mismatches, errorMismatches(res.Stderr, opts.ExpectedErrorMessage)...)
	}
	if opts.ExpectedOutput != nil {
		mismatches = append(mismatches, opts.ExpectedOutput.mismatches(res.Stdout)...)
	}
	mismatches = append(mismatches, absenceMismatches(res.Stdout, opts.NotExpectedOutput)...)

	if merr := newMismatchError(description, res, mismatches); merr != nil {
		return merr
	}
	if failed && !expectsFailure {
		return &FailureError{Description: description, Result: res}
	}
	return nil
}
