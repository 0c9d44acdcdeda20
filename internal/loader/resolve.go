package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ResolvePath resolves raw against base and validates it. base is
// canonicalized first, so it may be relative, uncleaned or a symlink. On
// success the canonical directory path is returned; otherwise the error
// wraps one of the Err* reasons.
func ResolvePath(base, raw string) (string, error) {
	if raw == "" {
		return "", ErrEmptyResult
	}
	base, err := Canonicalize(base)
	if err != nil {
		return "", err
	}
	if !filepath.IsAbs(raw) {
		raw = filepath.Join(base, raw)
	}

	real, err := Canonicalize(raw)
	if err != nil {
		return "", err
	}

	if !within(base, real) {
		return real, fmt.Errorf("%w: %s is outside %s", ErrEscapesSandbox, real, base)
	}

	info, err := os.Stat(real)
	if errors.Is(err, fs.ErrNotExist) {
		return real, ErrNonexistent
	}
	if err != nil {
		return real, err
	}
	if !info.IsDir() {
		return real, ErrNotDirectory
	}
	return real, nil
}

// Canonicalize returns the absolute path with symlinks and "."/".."
// resolved. Trailing components that do not exist are kept as written
// (after cleaning) on top of the resolved existing prefix.
func Canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	real, err := filepath.EvalSymlinks(abs)
	if err == nil {
		return real, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}

	parent, name := filepath.Split(abs)
	parent = filepath.Clean(parent)
	if parent == abs {
		return abs, nil
	}
	realParent, err := Canonicalize(parent)
	if err != nil {
		return "", err
	}
	return filepath.Join(realParent, name), nil
}

// within reports whether path is base or lies under it.
func within(base, path string) bool {
	if path == base {
		return true
	}
	prefix := base
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(path, prefix)
}
