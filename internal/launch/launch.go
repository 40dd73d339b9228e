// Package launch runs shell-style command lines as child processes.
//
// Command lines are parsed and interpreted with mvdan.cc/sh, so quoting,
// pipes, redirections and `&&` behave the same on every host without
// depending on a system /bin/sh. External programs still run as real
// subprocesses.
package launch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// ErrEmptyCommand is returned when the command line has no words.
var ErrEmptyCommand = errors.New("launch: empty command")

// Cmd describes a single command line to run.
type Cmd struct {
	// Line is the shell-style command line, e.g. `app message "hello there"`.
	Line string
	// Dir is the working directory of the child. Empty means the current
	// process directory at the time Run is called.
	Dir string
	// Env entries (KEY=VALUE) are layered on top of os.Environ().
	Env []string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Parse checks that line is a well-formed, non-empty command line.
func Parse(line string) (*syntax.File, error) {
	if strings.TrimSpace(line) == "" {
		return nil, ErrEmptyCommand
	}
	file, err := syntax.NewParser().Parse(strings.NewReader(line), "")
	if err != nil {
		return nil, fmt.Errorf("launch: parse %q: %w", line, err)
	}
	if len(file.Stmts) == 0 {
		return nil, ErrEmptyCommand
	}
	return file, nil
}

// Run executes the command line and waits for it to exit. A non-zero exit
// status is reported through the returned code with a nil error; the error
// is reserved for failures to start or for context cancellation.
func (c *Cmd) Run(ctx context.Context) (int, error) {
	file, err := Parse(c.Line)
	if err != nil {
		return 1, err
	}

	stdout := c.Stdout
	if stdout == nil {
		stdout = io.Discard
	}
	stderr := c.Stderr
	if stderr == nil {
		stderr = io.Discard
	}

	opts := []interp.RunnerOption{
		interp.StdIO(c.Stdin, stdout, stderr),
		interp.Env(expand.ListEnviron(append(os.Environ(), c.Env...)...)),
	}
	if c.Dir != "" {
		opts = append(opts, interp.Dir(c.Dir))
	}
	runner, err := interp.New(opts...)
	if err != nil {
		return 1, fmt.Errorf("launch: %w", err)
	}

	runErr := runner.Run(ctx, file)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ExitStatus(runErr), fmt.Errorf("launch: %s: %w", c.Line, ctxErr)
	}
	if _, ok := interp.IsExitStatus(runErr); runErr == nil || ok {
		return ExitStatus(runErr), nil
	}
	return 1, fmt.Errorf("launch: %s: %w", c.Line, runErr)
}

// ExitStatus maps an interpreter error to a process exit code.
func ExitStatus(err error) int {
	if err == nil {
		return 0
	}
	if status, ok := interp.IsExitStatus(err); ok {
		return int(status)
	}
	return 1
}

// Quote renders args as a single command line, quoting where needed.
func Quote(args ...string) (string, error) {
	quoted := make([]string, 0, len(args))
	for _, arg := range args {
		q, err := syntax.Quote(arg, syntax.LangBash)
		if err != nil {
			return "", err
		}
		quoted = append(quoted, q)
	}
	return strings.Join(quoted, " "), nil
}
