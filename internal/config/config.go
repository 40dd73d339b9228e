package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/natefinch/atomic"
	toml "github.com/pelletier/go-toml/v2"
)

// FileName is the config file testlab looks for in the working directory.
const FileName = ".testlab.toml"

// DefaultTimeout bounds a single command run by the testlab CLI.
const DefaultTimeout = 30 * time.Second

// Config captures the user editable settings stored in .testlab.toml.
type Config struct {
	Exec  ExecBlock  `toml:"exec"`
	Files FilesBlock `toml:"files"`
}

// ExecBlock governs how commands are launched.
type ExecBlock struct {
	Timeout string            `toml:"timeout"`
	Dir     string            `toml:"dir"`
	Env     map[string]string `toml:"env"`
}

// FilesBlock governs the file helpers.
type FilesBlock struct {
	BasePath string `toml:"base_path"`
}

var (
	// ErrInvalidTimeout indicates exec.timeout is not a positive duration.
	ErrInvalidTimeout = errors.New("config.exec.timeout must be a positive duration such as 30s")
	// ErrInvalidEnv indicates an exec.env key is empty or contains '='.
	ErrInvalidEnv = errors.New("config.exec.env keys must be non-empty and must not contain '='")
)

// Default returns the configuration used when no file exists.
func Default() Config {
	var cfg Config
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.Exec.Timeout) == "" {
		c.Exec.Timeout = DefaultTimeout.String()
	}
	if c.Files.BasePath == "" {
		c.Files.BasePath = "."
	}
}

// Validate ensures the configuration can guide testlab's behavior.
func (c Config) Validate() error {
	if d, err := time.ParseDuration(c.Exec.Timeout); err != nil || d <= 0 {
		return ErrInvalidTimeout
	}
	for key := range c.Exec.Env {
		if key == "" || strings.Contains(key, "=") {
			return ErrInvalidEnv
		}
	}
	return nil
}

// TimeoutDuration returns exec.timeout, overridden by TESTLAB_TIMEOUT when
// that is set to a valid duration. "0" disables the timeout.
func (c Config) TimeoutDuration() time.Duration {
	if raw := strings.TrimSpace(os.Getenv("TESTLAB_TIMEOUT")); raw != "" {
		if raw == "0" || raw == "0s" {
			return 0
		}
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			return d
		}
	}
	d, err := time.ParseDuration(c.Exec.Timeout)
	if err != nil || d <= 0 {
		return DefaultTimeout
	}
	return d
}

// EnvList renders exec.env as sorted KEY=VALUE entries.
func (c Config) EnvList() []string {
	out := make([]string, 0, len(c.Exec.Env))
	for k, v := range c.Exec.Env {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}

// Load reads configuration from disk. Missing files return a default config.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, err
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Save atomically replaces the config file, creating parent directories as
// needed.
func Save(path string, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}

	return atomic.WriteFile(path, bytes.NewReader(data))
}
