package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Suite is a batch of command checks read from a TOML file:
//
//	[[case]]
//	name = "prints OK"
//	command = "app message OK"
//	expect_output = ["OK"]
//
//	[[case]]
//	command = "app message ok-ok"
//	exactly = { text = "ok", times = 2 }
type Suite struct {
	Cases []Case `toml:"case"`
}

// Case is a single command and its expectations.
type Case struct {
	Name         string            `toml:"name"`
	Command      string            `toml:"command"`
	Dir          string            `toml:"dir"`
	Env          map[string]string `toml:"env"`
	ExpectError  []string          `toml:"expect_error"`
	ExpectOutput []string          `toml:"expect_output"`
	Exactly      *Occurrence       `toml:"exactly"`
	NotExpect    []string          `toml:"not_expect"`
}

// Occurrence requires Text to appear exactly Times times.
type Occurrence struct {
	Text  string `toml:"text"`
	Times int    `toml:"times"`
}

var (
	// ErrNoCases indicates the suite file defines no [[case]] tables.
	ErrNoCases = errors.New("suite defines no [[case]] entries")
	// ErrConflictingOutput indicates a case sets both expect_output and exactly.
	ErrConflictingOutput = errors.New("expect_output and exactly are mutually exclusive")
)

// Label names the case in reports, falling back to its command.
func (c Case) Label() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Command
}

// Validate checks a single case.
func (c Case) Validate() error {
	if strings.TrimSpace(c.Command) == "" {
		return errors.New("command must be set")
	}
	if c.Exactly != nil {
		if len(c.ExpectOutput) > 0 {
			return ErrConflictingOutput
		}
		if c.Exactly.Times < 0 {
			return fmt.Errorf("exactly.times must not be negative, got %d", c.Exactly.Times)
		}
	}
	return nil
}

// LoadSuite reads and validates a suite file. Relative case dirs are
// resolved against the suite file's directory.
func LoadSuite(path string) (Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Suite{}, err
	}

	var suite Suite
	if err := toml.Unmarshal(data, &suite); err != nil {
		return Suite{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(suite.Cases) == 0 {
		return Suite{}, fmt.Errorf("%s: %w", path, ErrNoCases)
	}

	base := filepath.Dir(path)
	for i := range suite.Cases {
		c := &suite.Cases[i]
		if err := c.Validate(); err != nil {
			return Suite{}, fmt.Errorf("%s: case %d (%s): %w", path, i+1, c.Label(), err)
		}
		if c.Dir != "" && !filepath.IsAbs(c.Dir) {
			c.Dir = filepath.Join(base, c.Dir)
		}
	}
	return suite, nil
}
