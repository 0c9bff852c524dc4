package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// ErrNotDir is returned by CheckReadableDir when the path is not a directory.
var ErrNotDir = errors.New("not a directory")

// CheckReadableDir verifies that path is an existing, readable directory and
// returns its absolute path with symlinks resolved.
func CheckReadableDir(path string) (string, error) {
	resolved, err := checkReadableDir(path)
	if err != nil {
		slog.Error("directory check failed", "path", path, "error", err)
		return "", err
	}
	return resolved, nil
}

func checkReadableDir(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("directory %s does not exist: %w", path, fs.ErrNotExist)
		}
		return "", fmt.Errorf("getting metadata for %s: %w", path, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s: %w", path, ErrNotDir)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", path, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", path, err)
	}

	f, err := os.Open(resolved)
	if err != nil {
		return "", fmt.Errorf("opening directory %s: %w", resolved, err)
	}
	f.Close()

	return resolved, nil
}
