package exectest

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExactCountIsNonOverlapping(t *testing.T) {
	cases := []struct {
		stdout string
		text   string
		want   int
	}{
		{stdout: "ok-ok-ok-and-fine", text: "ok", want: 3},
		{stdout: "aaaa", text: "aa", want: 2},
		{stdout: "aaa", text: "aa", want: 1},
		{stdout: "nothing here", text: "ok", want: 0},
		{stdout: "abc", text: "", want: 4},
		{stdout: "", text: "", want: 1},
		{stdout: "😀", text: "", want: 2},
	}
	for _, tc := range cases {
		t.Run(tc.stdout+"/"+tc.text, func(t *testing.T) {
			if got := ExactCount(tc.text, tc.want).mismatches(tc.stdout); got != nil {
				t.Fatalf("unexpected mismatches: %v", got)
			}
			if got := ExactCount(tc.text, tc.want+1).mismatches(tc.stdout); len(got) != 1 {
				t.Fatalf("expected a mismatch for count %d, got %v", tc.want+1, got)
			}
		})
	}
}

func TestExactCountMessage(t *testing.T) {
	got := ExactCount("ok", 2).mismatches("ok-ok-ok-and-fine\n")
	want := []string{`Expected output to include "ok" exactly 2 times, but it was included 3 times.`}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatches (-want +got):\n%s", diff)
	}
}

func TestEvaluate(t *testing.T) {
	cases := []struct {
		name string
		res  Result
		opts Options
		// wantKind is one of "", "mismatch", "failure", "contract".
		wantKind       string
		wantMismatches []string
	}{
		{
			name: "success without assertions",
			res:  Result{Stdout: "OK\n"},
		},
		{
			name: "expected output present",
			res:  Result{Stdout: "OK\n"},
			opts: Options{ExpectedOutput: Contains("OK")},
		},
		{
			name:     "expected output missing",
			res:      Result{Stdout: "nope\n"},
			opts:     Options{ExpectedOutput: Contains("OK", "nope", "fine")},
			wantKind: "mismatch",
			wantMismatches: []string{
				"Expected output to include \"OK\", but it was actually \"nope\n\"",
				"Expected output to include \"fine\", but it was actually \"nope\n\"",
			},
		},
		{
			name:     "forbidden output present",
			res:      Result{Stdout: "OK-and-fine\n"},
			opts:     Options{NotExpectedOutput: []string{"error", "fine", "OK"}},
			wantKind: "mismatch",
			wantMismatches: []string{
				"Expected output not to include \"fine\", but it was actually \"OK-and-fine\n\"",
				"Expected output not to include \"OK\", but it was actually \"OK-and-fine\n\"",
			},
		},
		{
			name:     "both output phases aggregate",
			res:      Result{Stdout: "bad\n"},
			opts:     Options{ExpectedOutput: Contains("good"), NotExpectedOutput: []string{"bad"}},
			wantKind: "mismatch",
			wantMismatches: []string{
				"Expected output to include \"good\", but it was actually \"bad\n\"",
				"Expected output not to include \"bad\", but it was actually \"bad\n\"",
			},
		},
		{
			name:     "success although failure expected",
			res:      Result{Stdout: "bad\n"},
			opts:     Options{ExpectedErrorMessage: []string{"Kaboom"}, ExpectedOutput: Contains("missing")},
			wantKind: "contract",
		},
		{
			name: "expected failure",
			res:  Result{ExitCode: 1, Stderr: "Error: Crash-and-burn\n"},
			opts: Options{ExpectedErrorMessage: []string{"Crash", "burn"}},
		},
		{
			name:     "expected failure with wrong message",
			res:      Result{ExitCode: 1, Stderr: "Error: Kaboom\n"},
			opts:     Options{ExpectedErrorMessage: []string{"Kaboom", "Crash"}},
			wantKind: "mismatch",
			wantMismatches: []string{
				"Expected error to include \"Crash\", but it was actually \"Error: Kaboom\n\"",
			},
		},
		{
			name:     "error and output checks both run",
			res:      Result{ExitCode: 2, Stdout: "ok\n", Stderr: "boom\n"},
			opts:     Options{ExpectedErrorMessage: []string{"boom"}, ExpectedOutput: ExactCount("ok", 0)},
			wantKind: "mismatch",
			wantMismatches: []string{
				`Expected output to include "ok" exactly 0 times, but it was included 1 times.`,
			},
		},
		{
			name:     "unexpected failure",
			res:      Result{ExitCode: 1, Stdout: "out\n", Stderr: "err\n"},
			opts:     Options{ExpectedOutput: Contains("out")},
			wantKind: "failure",
		},
		{
			name:     "mismatch wins over unexpected failure",
			res:      Result{ExitCode: 1, Stdout: "out\n"},
			opts:     Options{ExpectedOutput: Contains("other")},
			wantKind: "mismatch",
			wantMismatches: []string{
				"Expected output to include \"other\", but it was actually \"out\n\"",
			},
		},
		{
			name:     "quotes and newlines are not escaped",
			res:      Result{Stdout: "nothing\n"},
			opts:     Options{ExpectedOutput: Contains(`say "hi"`, "line1\nline2")},
			wantKind: "mismatch",
			wantMismatches: []string{
				"Expected output to include \"say \"hi\"\", but it was actually \"nothing\n\"",
				"Expected output to include \"line1\nline2\", but it was actually \"nothing\n\"",
			},
		},
		{
			name:     "tabs in forbidden output are not escaped",
			res:      Result{Stdout: "col\tvalue\n"},
			opts:     Options{NotExpectedOutput: []string{"col\tvalue"}},
			wantKind: "mismatch",
			wantMismatches: []string{
				"Expected output not to include \"col\tvalue\", but it was actually \"col\tvalue\n\"",
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := tc.res
			err := evaluate(&res, tc.opts, "Run test")

			var (
				mismatch *MismatchError
				failure  *FailureError
				contract *ContractError
			)
			switch tc.wantKind {
			case "":
				if err != nil {
					t.Fatalf("expected success, got %v", err)
				}
			case "mismatch":
				if !errors.As(err, &mismatch) {
					t.Fatalf("expected *MismatchError, got %T: %v", err, err)
				}
				if diff := cmp.Diff(tc.wantMismatches, mismatch.Mismatches()); diff != "" {
					t.Fatalf("mismatches (-want +got):\n%s", diff)
				}
				if got, want := err.Error(), strings.Join(tc.wantMismatches, "\n"); got != want {
					t.Fatalf("message = %q, want %q", got, want)
				}
			case "failure":
				if !errors.As(err, &failure) {
					t.Fatalf("expected *FailureError, got %T: %v", err, err)
				}
				for _, part := range []string{"Run test", res.Stdout, res.Stderr} {
					if !strings.Contains(err.Error(), part) {
						t.Fatalf("failure message %q does not embed %q", err.Error(), part)
					}
				}
			case "contract":
				if !errors.As(err, &contract) || !errors.Is(err, ErrNoErrorThrown) {
					t.Fatalf("expected *ContractError wrapping ErrNoErrorThrown, got %T: %v", err, err)
				}
				if !strings.Contains(err.Error(), "Error was expected, but none thrown") {
					t.Fatalf("message = %q", err.Error())
				}
			}
		})
	}
}

func TestMismatchMessagesEmbedTextVerbatim(t *testing.T) {
	for _, text := range []string{`say "hi"`, "line1\nline2", "tab\there", `back\slash`} {
		t.Run(text, func(t *testing.T) {
			got := Contains(text).mismatches("nothing\n")
			if len(got) != 1 || !strings.Contains(got[0], `Expected output to include "`+text+`"`) {
				t.Fatalf("Contains message = %v", got)
			}

			stdout := "before " + text + " after"
			got = absenceMismatches(stdout, []string{text})
			if len(got) != 1 || !strings.HasPrefix(got[0], `Expected output not to include "`+text+`"`) {
				t.Fatalf("absence message = %v", got)
			}

			got = errorMismatches("Error: other\n", []string{text})
			if len(got) != 1 || !strings.HasPrefix(got[0], `Expected error to include "`+text+`"`) {
				t.Fatalf("error message = %v", got)
			}
		})
	}
}
