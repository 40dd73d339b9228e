package exectest

import (
	"fmt"
	"strings"
)

// OutputExpectation is an assertion over a command's stdout. It is either a
// set of required substrings (Contains) or an exact occurrence count
// (ExactCount).
type OutputExpectation interface {
	// mismatches returns one description per failed check.
	mismatches(stdout string) []string
}

type substrings []string

// Contains requires each of texts to appear somewhere in stdout.
func Contains(texts ...string) OutputExpectation {
	return substrings(texts)
}

func (s substrings) mismatches(stdout string) []string {
	var out []string
	for _, text := range s {
		if !strings.Contains(stdout, text) {
			out = append(out, fmt.Sprintf(`Expected output to include "%s", but it was actually "%s"`, text, stdout))
		}
	}
	return out
}

type exactCount struct {
	text  string
	times int
}

// ExactCount requires text to appear in stdout exactly times times. Matches
// do not overlap: "ok-ok-ok" holds "ok" three times and "aaaa" holds "aa"
// twice. An empty text matches once per rune plus one, so "😀" holds it
// twice: runes are counted, not bytes or UTF-16 units.
func ExactCount(text string, times int) OutputExpectation {
	return exactCount{text: text, times: times}
}

func (e exactCount) mismatches(stdout string) []string {
	got := strings.Count(stdout, e.text)
	if got == e.times {
		return nil
	}
	return []string{fmt.Sprintf(`Expected output to include "%s" exactly %d times, but it was included %d times.`, e.text, e.times, got)}
}

func errorMismatches(stderr string, expected []string) []string {
	var out []string
	for _, text := range expected {
		if !strings.Contains(stderr, text) {
			out = append(out, fmt.Sprintf(`Expected error to include "%s", but it was actually "%s"`, text, stderr))
		}
	}
	return out
}

func absenceMismatches(stdout string, forbidden []string) []string {
	var out []string
	for _, text := range forbidden {
		if strings.Contains(stdout, text) {
			out = append(out, fmt.Sprintf(`Expected output not to include "%s", but it was actually "%s"`, text, stdout))
		}
	}
	return out
}
