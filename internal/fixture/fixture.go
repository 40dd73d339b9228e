// Package fixture is a tiny CLI with fully predictable output, exit codes and
// side effects. Tests run it as a subprocess (cmd/testlab-fixture) or
// in-process through NewRootCommand.
//
// Subcommands:
//   - `error <message>` prints a banner, then fails with message
//   - `message <message>` prints message
//   - `env <name>` prints the variable's value, or an empty line
//   - `quote [-z] [-f path]` prints or writes a quotation
package fixture

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// Banner is printed to stdout by `error` before it fails.
const Banner = "Will throw an error shortly."

// Zarathustra is the quotation printed by `quote -z`.
const Zarathustra = "When Zarathustra was thirty years old, he left his home and the lake of his home, and went into the mountains."

// Execute runs the fixture CLI against os.Args and returns the exit code.
func Execute() int {
	cmd := NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
		return 1
	}
	return 0
}

// NewRootCommand builds the fixture CLI. Errors are returned rather than
// printed so callers decide how to report them.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "testlab-fixture",
		Short:         "Deterministic CLI used by testlab's own tests",
		Version:       "1.0.0",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(
		newErrorCommand(),
		newMessageCommand(),
		newEnvCommand(),
		newQuoteCommand(),
	)
	return cmd
}

func newErrorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "error <message>",
		Short: "Fail with the given message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), Banner)
			return errors.New(args[0])
		},
	}
}

func newMessageCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "message <message>",
		Short: "Print the given message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), args[0])
			return err
		},
	}
}

func newEnvCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "env <varName>",
		Short: "Print the given environment variable",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), os.Getenv(args[0]))
			return err
		},
	}
}

func newQuoteCommand() *cobra.Command {
	var (
		zarathustra bool
		file        string
	)
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Print a quotation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !zarathustra {
				return nil
			}
			if file == "" {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), Zarathustra)
				return err
			}
			if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
				return err
			}
			return os.WriteFile(file, []byte(Zarathustra+"\n"), 0o644)
		},
	}
	cmd.Flags().BoolVarP(&zarathustra, "zarathustra", "z", false, `quote from "Thus Spoke Zarathustra"`)
	cmd.Flags().StringVarP(&file, "file", "f", "", "write to file instead of stdout")
	return cmd
}
