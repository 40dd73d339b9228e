package exectest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// ErrNoErrorThrown reports that a command was expected to fail but exited 0.
// It signals a broken test expectation rather than a mismatch in output.
var ErrNoErrorThrown = errors.New("Error was expected, but none thrown")

// ContractError is returned when ExpectedErrorMessage was configured and the
// command succeeded. It wraps ErrNoErrorThrown.
type ContractError struct {
	Description string
	Result      *Result
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("%s: %v", e.Description, ErrNoErrorThrown)
}

func (e *ContractError) Unwrap() error {
	return ErrNoErrorThrown
}

// MismatchError collects every failed assertion of one invocation.
// Its message is the newline-joined list of mismatch descriptions.
type MismatchError struct {
	Description string
	Result      *Result

	errs *multierror.Error
}

func newMismatchError(description string, res *Result, mismatches []string) *MismatchError {
	var merr *multierror.Error
	for _, m := range mismatches {
		merr = multierror.Append(merr, errors.New(m))
	}
	if merr == nil {
		return nil
	}
	merr.ErrorFormat = joinLines
	return &MismatchError{Description: description, Result: res, errs: merr}
}

func (e *MismatchError) Error() string {
	return e.errs.Error()
}

// Mismatches returns the individual mismatch descriptions in check order.
func (e *MismatchError) Mismatches() []string {
	out := make([]string, 0, e.errs.Len())
	for _, err := range e.errs.WrappedErrors() {
		out = append(out, err.Error())
	}
	return out
}

func (e *MismatchError) Unwrap() error {
	return e.errs
}

func joinLines(errs []error) string {
	lines := make([]string, len(errs))
	for i, err := range errs {
		lines[i] = err.Error()
	}
	return strings.Join(lines, "\n")
}

// FailureError is returned when a command exits non-zero and no failure was
// expected. The message embeds stdout and stderr verbatim.
type FailureError struct {
	Description string
	Result      *Result
}

func (e *FailureError) Error() string {
	return fmt.Sprintf("%s FAIL. exit code %d\nstdout:\n%s\nstderr:\n%s",
		e.Description, e.Result.ExitCode, e.Result.Stdout, e.Result.Stderr)
}
