// Package exectest runs command lines as child processes and asserts on
// their output and exit status.
//
// # Running commands
//
// Exec spawns a command, waits for it, and checks the configured
// expectations:
//
//	res, err := exectest.Exec(ctx, "app message OK", exectest.Options{
//		ExpectedOutput: exectest.Contains("OK"),
//	})
//
// A command that exits non-zero is an error unless ExpectedErrorMessage is
// set, in which case each message must appear in stderr:
//
//	_, err := exectest.Exec(ctx, "app error Kaboom", exectest.Options{
//		ExpectedErrorMessage: []string{"Kaboom"},
//	})
//
// Occurrences can be counted exactly:
//
//	exectest.Options{ExpectedOutput: exectest.ExactCount("ok", 2)}
//
// # Errors
//
// Every failed check of one run is reported together in a *MismatchError.
// An unexpected non-zero exit yields a *FailureError carrying both streams.
// A command that succeeded although failure was expected yields a
// *ContractError wrapping ErrNoErrorThrown; Run treats it as fatal.
//
// # Concurrency
//
// Start returns an *Execution immediately, so several commands may run at
// once. Options.Dir is passed to the child only. Options.Chdir instead
// changes the directory of the whole test process and never restores it.
package exectest
