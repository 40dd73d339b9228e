package cli

// Exit codes shared by every testlab subcommand.
const (
	exitPass     = 0
	exitFail     = 1 // an assertion failed or a command failed unexpectedly
	exitUsage    = 2 // bad flags, config or command line
	exitContract = 3 // failure was expected but the command succeeded
	exitTimeout  = 124
)

// exitError carries a specific exit code out of a cobra RunE. A nil err means
// the failure was already reported.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return "exit status"
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func usageError(err error) error {
	return &exitError{code: exitUsage, err: err}
}

func silentExit(code int) error {
	return &exitError{code: code}
}
