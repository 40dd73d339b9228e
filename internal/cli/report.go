package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/brandonbloom/testlab/internal/timefmt"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// reporter prints one status line per checked command.
type reporter struct {
	out   io.Writer
	width int

	pass   *color.Color
	fail   *color.Color
	detail *color.Color
}

func newReporter(out io.Writer, noColor bool) *reporter {
	r := &reporter{
		out:    out,
		pass:   color.New(color.FgGreen, color.Bold),
		fail:   color.New(color.FgHiRed, color.Bold),
		detail: color.New(color.FgHiBlack),
	}
	if noColor || os.Getenv("NO_COLOR") != "" || !writerIsTerminal(out) {
		r.pass.DisableColor()
		r.fail.DisableColor()
		r.detail.DisableColor()
	} else {
		r.pass.EnableColor()
		r.fail.EnableColor()
		r.detail.EnableColor()
	}
	return r
}

// alignTo pads labels so that durations line up across a batch.
func (r *reporter) alignTo(labels []string) {
	for _, label := range labels {
		if w := runewidth.StringWidth(label); w > r.width {
			r.width = w
		}
	}
}

func (r *reporter) label(s string) string {
	if r.width == 0 {
		return s
	}
	return runewidth.FillRight(s, r.width)
}

func (r *reporter) passed(label string, elapsed time.Duration) {
	fmt.Fprintf(r.out, "%s %s  %s\n", r.pass.Sprint("✓"), r.label(label), r.detail.Sprint(timefmt.Elapsed(elapsed)))
}

func (r *reporter) failed(label string, elapsed time.Duration, err error) {
	fmt.Fprintf(r.out, "%s %s  %s\n", r.fail.Sprint("✗"), r.label(label), r.detail.Sprint(timefmt.Elapsed(elapsed)))
	if err == nil {
		return
	}
	for _, line := range strings.Split(strings.TrimRight(err.Error(), "\n"), "\n") {
		fmt.Fprintf(r.out, "    %s\n", line)
	}
}

func writerIsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
