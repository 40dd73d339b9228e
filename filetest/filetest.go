// Package filetest creates, inspects and removes files on behalf of tests,
// remembering what it created so Cleanup can remove it again.
//
// Paths are resolved against the helper's base path unless they are
// absolute or the Absolute option is given. Glob patterns use the syntax of
// path/filepath.Match plus `**`, which matches any number of directories.
package filetest

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"sync"
	"testing"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
)

// Helper tracks files registered for cleanup. It is safe for concurrent use.
type Helper struct {
	fs       afero.Fs
	basePath string

	mu    sync.Mutex
	paths []string
	globs []string
}

// Option configures a Helper.
type Option func(*Helper)

// WithFs makes the helper operate on fsys instead of the OS filesystem.
func WithFs(fsys afero.Fs) Option {
	return func(h *Helper) {
		h.fs = fsys
	}
}

// WithBasePath resolves relative paths against dir instead of the current
// directory.
func WithBasePath(dir string) Option {
	return func(h *Helper) {
		h.basePath = dir
	}
}

// NewHelper returns a helper over the OS filesystem rooted at the current
// directory, unless opts say otherwise.
func NewHelper(opts ...Option) *Helper {
	h := &Helper{basePath: "."}
	for _, opt := range opts {
		opt(h)
	}
	if h.fs == nil {
		h.fs = afero.NewOsFs()
	}
	return h
}

// New returns a helper whose Cleanup runs when t finishes.
func New(t testing.TB, opts ...Option) *Helper {
	t.Helper()
	h := NewHelper(opts...)
	t.Cleanup(func() {
		if err := h.Cleanup(); err != nil {
			t.Errorf("filetest cleanup: %v", err)
		}
	})
	return h
}

// Fs exposes the underlying filesystem.
func (h *Helper) Fs() afero.Fs {
	return h.fs
}

// FileOption adjusts a single file operation.
type FileOption func(*fileOptions)

type fileOptions struct {
	absolute  bool
	noCleanup bool
}

// Absolute takes the path as given instead of joining it to the base path.
func Absolute() FileOption {
	return func(o *fileOptions) { o.absolute = true }
}

// NoCleanup stops CreateFile and CreateDir from registering what they create.
func NoCleanup() FileOption {
	return func(o *fileOptions) { o.noCleanup = true }
}

func collect(opts []FileOption) fileOptions {
	var o fileOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (h *Helper) resolve(path string, absolute bool) string {
	if absolute || filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	joined := filepath.Join(h.basePath, path)
	if abs, err := filepath.Abs(joined); err == nil {
		return abs
	}
	return joined
}

// FileExists reports whether path exists.
func (h *Helper) FileExists(path string, opts ...FileOption) bool {
	ok, err := afero.Exists(h.fs, h.resolve(path, collect(opts).absolute))
	return err == nil && ok
}

// FileGlobExists returns the number of paths matching pattern.
func (h *Helper) FileGlobExists(pattern string) (int, error) {
	matches, err := h.glob(pattern)
	return len(matches), err
}

// FileTextContent reads path as text.
func (h *Helper) FileTextContent(path string, opts ...FileOption) (string, error) {
	data, err := afero.ReadFile(h.fs, h.resolve(path, collect(opts).absolute))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FileGlobTextContent reads every file matching pattern, in lexical order.
func (h *Helper) FileGlobTextContent(pattern string) ([]string, error) {
	matches, err := h.glob(pattern)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(matches))
	for _, match := range matches {
		data, err := afero.ReadFile(h.fs, match)
		if err != nil {
			return nil, err
		}
		out = append(out, string(data))
	}
	return out, nil
}

// DeleteFile removes path. A missing file is not an error.
func (h *Helper) DeleteFile(path string, opts ...FileOption) error {
	err := h.fs.Remove(h.resolve(path, collect(opts).absolute))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// DeleteFileGlob removes every path matching pattern, directories included.
func (h *Helper) DeleteFileGlob(pattern string) error {
	matches, err := h.glob(pattern)
	if err != nil {
		return err
	}
	var result *multierror.Error
	for _, match := range matches {
		if err := h.fs.RemoveAll(match); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// CreateFile writes content to path, creating parent directories as needed.
// The file is registered for cleanup unless NoCleanup is given.
func (h *Helper) CreateFile(path string, content []byte, opts ...FileOption) error {
	o := collect(opts)
	target := h.resolve(path, o.absolute)
	if !o.noCleanup {
		h.register(target)
	}
	if err := h.fs.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	return afero.WriteFile(h.fs, target, content, 0o644)
}

// CreateDir creates path and any missing parents. The directory is
// registered for cleanup unless NoCleanup is given.
func (h *Helper) CreateDir(path string, opts ...FileOption) error {
	o := collect(opts)
	target := h.resolve(path, o.absolute)
	if !o.noCleanup {
		h.register(target)
	}
	return h.fs.MkdirAll(target, 0o755)
}

// RegisterForCleanup adds path to the set removed by Cleanup.
func (h *Helper) RegisterForCleanup(path string, opts ...FileOption) {
	h.register(h.resolve(path, collect(opts).absolute))
}

// RegisterGlobForCleanup adds pattern to the set removed by Cleanup. The
// pattern is expanded when Cleanup runs, not now.
func (h *Helper) RegisterGlobForCleanup(pattern string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.globs = append(h.globs, pattern)
}

func (h *Helper) register(target string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.paths = append(h.paths, target)
}

// Cleanup removes all registered paths, then everything matching the
// registered globs. Failures are collected and the registry is emptied
// either way.
func (h *Helper) Cleanup() error {
	h.mu.Lock()
	paths, globs := h.paths, h.globs
	h.paths, h.globs = nil, nil
	h.mu.Unlock()

	var result *multierror.Error
	for _, path := range paths {
		if err := h.fs.RemoveAll(path); err != nil {
			result = multierror.Append(result, err)
		}
	}
	for _, pattern := range globs {
		if err := h.DeleteFileGlob(pattern); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

func (h *Helper) glob(pattern string) ([]string, error) {
	base, rel := doublestar.SplitPattern(filepath.ToSlash(h.resolve(pattern, false)))
	if !doublestar.ValidatePattern(rel) {
		return nil, fmt.Errorf("glob %s: %w", pattern, doublestar.ErrBadPattern)
	}
	base = filepath.FromSlash(base)
	fsys := afero.NewIOFS(afero.NewBasePathFs(h.fs, base))
	found, err := doublestar.Glob(fsys, rel)
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", pattern, err)
	}
	matches := make([]string, len(found))
	for i, m := range found {
		matches[i] = filepath.Join(base, filepath.FromSlash(m))
	}
	slices.Sort(matches)
	return matches, nil
}

// Registered returns the paths currently queued for cleanup.
func (h *Helper) Registered() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.paths...)
}
