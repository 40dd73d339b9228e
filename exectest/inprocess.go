package exectest

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

// CommandResult is the captured outcome of an in-process cobra command.
type CommandResult struct {
	Stdout string
	Stderr string
	Err    error
}

// RunCommand executes cmd in the current process with args, capturing its
// output. Unlike Exec it does not spawn anything, so a debugger attached to
// the test also stops inside the command. Use Exec for end-to-end checks.
func RunCommand(cmd *cobra.Command, args ...string) *CommandResult {
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)

	err := cmd.Execute()

	return &CommandResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
		Err:    err,
	}
}

// AssertSuccess fails the test if the command returned an error.
func (r *CommandResult) AssertSuccess(t testing.TB) {
	t.Helper()
	if r.Err != nil {
		t.Fatalf("expected command to succeed, got error: %v\nstdout: %s\nstderr: %s", r.Err, r.Stdout, r.Stderr)
	}
}

// AssertError fails the test unless the command returned an error containing
// each of substrs.
func (r *CommandResult) AssertError(t testing.TB, substrs ...string) {
	t.Helper()
	if r.Err == nil {
		t.Fatalf("%v\nstdout: %s", ErrNoErrorThrown, r.Stdout)
	}
	for _, s := range substrs {
		if !strings.Contains(r.Err.Error(), s) {
			t.Errorf(`Expected error to include "%s", but it was actually "%s"`, s, r.Err.Error())
		}
	}
}

// AssertContains fails the test if stdout does not contain expected.
func (r *CommandResult) AssertContains(t testing.TB, expected string) {
	t.Helper()
	if !strings.Contains(r.Stdout, expected) {
		t.Errorf(`Expected output to include "%s", but it was actually "%s"`, expected, r.Stdout)
	}
}

// AssertNotContains fails the test if stdout contains unexpected.
func (r *CommandResult) AssertNotContains(t testing.TB, unexpected string) {
	t.Helper()
	if strings.Contains(r.Stdout, unexpected) {
		t.Errorf(`Expected output not to include "%s", but it was actually "%s"`, unexpected, r.Stdout)
	}
}

// AssertStderrContains fails the test if stderr does not contain expected.
func (r *CommandResult) AssertStderrContains(t testing.TB, expected string) {
	t.Helper()
	if !strings.Contains(r.Stderr, expected) {
		t.Errorf("expected stderr to contain %q, got:\n%s", expected, r.Stderr)
	}
}
