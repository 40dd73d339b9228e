package exectest

import (
	"testing"

	"github.com/spf13/cobra"
)

func TestRunCommandCapturesOutput(t *testing.T) {
	cmd := &cobra.Command{
		Use: "test",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println("hello world")
			cmd.PrintErrln("careful")
		},
	}

	res := RunCommand(cmd)
	res.AssertSuccess(t)
	res.AssertContains(t, "hello")
	res.AssertNotContains(t, "careful")
	res.AssertStderrContains(t, "careful")
	if res.Stdout != "hello world\n" {
		t.Fatalf("stdout = %q", res.Stdout)
	}
}

func TestRunCommandPassesArgs(t *testing.T) {
	var got []string
	cmd := &cobra.Command{
		Use:  "test",
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			got = args
			return nil
		},
	}

	RunCommand(cmd, "a", "b").AssertSuccess(t)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("args = %#v", got)
	}

	RunCommand(cmd).AssertError(t, "requires at least 2 arg")
}
