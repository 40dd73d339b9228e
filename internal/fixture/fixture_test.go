package fixture

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/brandonbloom/testlab/exectest"
)

func TestErrorCommandFails(t *testing.T) {
	res := exectest.RunCommand(NewRootCommand(), "error", "Kaboom")
	res.AssertError(t, "Kaboom")
	res.AssertContains(t, Banner)
}

func TestMessageCommand(t *testing.T) {
	res := exectest.RunCommand(NewRootCommand(), "message", "Okay")
	res.AssertSuccess(t)
	if res.Stdout != "Okay\n" {
		t.Fatalf("stdout = %q, want %q", res.Stdout, "Okay\n")
	}
}

func TestEnvCommand(t *testing.T) {
	t.Setenv("FIXTURE_GREETING", "hello")

	res := exectest.RunCommand(NewRootCommand(), "env", "FIXTURE_GREETING")
	res.AssertSuccess(t)
	if res.Stdout != "hello\n" {
		t.Fatalf("stdout = %q", res.Stdout)
	}

	res = exectest.RunCommand(NewRootCommand(), "env", "FIXTURE_SURELY_UNSET")
	res.AssertSuccess(t)
	if res.Stdout != "\n" {
		t.Fatalf("stdout = %q, want empty line", res.Stdout)
	}
}

func TestQuoteCommand(t *testing.T) {
	res := exectest.RunCommand(NewRootCommand(), "quote")
	res.AssertSuccess(t)
	if res.Stdout != "" {
		t.Fatalf("expected no output without -z, got %q", res.Stdout)
	}

	res = exectest.RunCommand(NewRootCommand(), "quote", "-z")
	res.AssertSuccess(t)
	res.AssertContains(t, "Zarathustra was thirty")

	path := filepath.Join(t.TempDir(), "nested", "quote.txt")
	res = exectest.RunCommand(NewRootCommand(), "quote", "--zarathustra", "--file", path)
	res.AssertSuccess(t)
	res.AssertNotContains(t, "Zarathustra")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read quote file: %v", err)
	}
	if string(data) != Zarathustra+"\n" {
		t.Fatalf("file content = %q", data)
	}
}

func TestArgumentsAreRequired(t *testing.T) {
	for _, sub := range []string{"error", "message", "env"} {
		t.Run(sub, func(t *testing.T) {
			exectest.RunCommand(NewRootCommand(), sub).AssertError(t, "accepts 1 arg")
		})
	}
}
