package exectest

import (
	"errors"
	"testing"
)

// Run executes command under t and fails the test on any error. A command
// that succeeded when ExpectedErrorMessage was set stops the test at once,
// regardless of the other assertions.
func Run(t testing.TB, command string, opts Options) *Result {
	t.Helper()
	res, err := Exec(t.Context(), command, opts)
	if errors.Is(err, ErrNoErrorThrown) {
		t.Fatalf("%v\nstdout:\n%s", err, res.Stdout)
	}
	if err != nil {
		t.Fatal(err)
	}
	return res
}
