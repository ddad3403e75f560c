package config

import (
	"os"
	"path/filepath"

	"github.com/olsonanl/bvbrc-docking/pkg/errors"
)

// ResolveExisting resolves path to its canonical absolute form and fails
// when it does not exist. The empty string passes through unchanged so that
// optional path fields stay optional.
func ResolveExisting(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrap(err, errors.CodePathNotFound, "cannot resolve path").WithDetail(path)
	}
	if _, err := os.Stat(abs); err != nil {
		if os.IsNotExist(err) {
			return "", errors.New(errors.CodePathNotFound, "path does not exist").WithDetail(abs)
		}
		return "", errors.Wrap(err, errors.CodePathNotFound, "cannot stat path").WithDetail(abs)
	}
	// Symlink resolution only succeeds on existing paths, so it runs after
	// the existence check.
	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", errors.Wrap(err, errors.CodePathNotFound, "cannot canonicalize path").WithDetail(abs)
	}
	return canonical, nil
}

// ResolveCreate resolves path to its absolute form and creates the directory
// together with any missing parents. It fails when the target already
// exists: reusing a previous run's output directory would silently mix
// artifacts from different runs.
func ResolveCreate(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrap(err, errors.CodePathExists, "cannot resolve path").WithDetail(path)
	}
	if _, err := os.Stat(abs); err == nil {
		return "", errors.New(errors.CodePathExists, "directory already exists").WithDetail(abs)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return "", errors.Wrap(err, errors.CodeInternal, "cannot create directory").WithDetail(abs)
	}
	return abs, nil
}
