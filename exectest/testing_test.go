package exectest

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"testing"
)

// fatalRecorder is a testing.TB whose Fatal methods record the message and
// stop the calling goroutine, like the real ones do.
type fatalRecorder struct {
	testing.TB
	ctx   context.Context
	fatal string
}

func (r *fatalRecorder) Helper() {}

func (r *fatalRecorder) Context() context.Context { return r.ctx }

func (r *fatalRecorder) Fatal(args ...any) {
	r.fatal = fmt.Sprint(args...)
	runtime.Goexit()
}

func (r *fatalRecorder) Fatalf(format string, args ...any) {
	r.fatal = fmt.Sprintf(format, args...)
	runtime.Goexit()
}

// runRecorded calls Run on a fatalRecorder and reports whether Run returned
// normally.
func runRecorded(t *testing.T, command string, opts Options) (*fatalRecorder, bool) {
	t.Helper()
	rec := &fatalRecorder{ctx: t.Context()}
	returned := false
	done := make(chan struct{})
	go func() {
		defer close(done)
		Run(rec, command, opts)
		returned = true
	}()
	<-done
	return rec, returned
}

func TestRunFailsFatallyWhenNoErrorThrown(t *testing.T) {
	rec, returned := runRecorded(t, "echo all good", Options{
		ExpectedErrorMessage: []string{"Kaboom"},
		ExpectedOutput:       Contains("missing"),
	})
	if returned {
		t.Fatal("Run returned after a contract violation")
	}
	for _, want := range []string{"Error was expected, but none thrown", "all good"} {
		if !strings.Contains(rec.fatal, want) {
			t.Fatalf("fatal message %q does not contain %q", rec.fatal, want)
		}
	}
}

func TestRunFailsFatallyOnMismatch(t *testing.T) {
	rec, returned := runRecorded(t, "echo hello", Options{ExpectedOutput: Contains("goodbye")})
	if returned {
		t.Fatal("Run returned after a mismatch")
	}
	if !strings.Contains(rec.fatal, `Expected output to include "goodbye"`) {
		t.Fatalf("fatal message = %q", rec.fatal)
	}
}

func TestRunReturnsResultOnSuccess(t *testing.T) {
	var res *Result
	rec := &fatalRecorder{ctx: t.Context()}
	done := make(chan struct{})
	go func() {
		defer close(done)
		res = Run(rec, "echo hello", Options{ExpectedOutput: Contains("hello")})
	}()
	<-done
	if rec.fatal != "" {
		t.Fatalf("unexpected fatal: %s", rec.fatal)
	}
	if res == nil || res.Stdout != "hello\n" {
		t.Fatalf("result = %+v", res)
	}
}
