package batch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ErrPathNotFound is returned when neither a path nor its two nearest
// ancestors are existing directories.
var ErrPathNotFound = errors.New("no valid directory found")

// ValidatePath returns path if it is a directory. Otherwise it falls back
// to the parent, then the grandparent directory.
func ValidatePath(path string) (string, error) {
	candidate := filepath.Clean(path)
	for range 3 {
		if isDir(candidate) {
			return candidate, nil
		}
		candidate = filepath.Dir(candidate)
	}
	return "", fmt.Errorf("%w at %s", ErrPathNotFound, path)
}

// ListFolders returns the validated base path and the sorted immediate
// subdirectories of it.
func ListFolders(basePath string) (string, []string, error) {
	base, err := ValidatePath(basePath)
	if err != nil {
		return "", nil, err
	}

	entries, err := os.ReadDir(base)
	if err != nil {
		return base, nil, fmt.Errorf("reading %s: %w", base, err)
	}

	var folders []string
	for _, e := range entries {
		if e.IsDir() {
			folders = append(folders, filepath.Join(base, e.Name()))
		}
	}
	sort.Strings(folders)
	return base, folders, nil
}

// VerifyOutput reports whether path exists and holds at least minSize bytes.
func VerifyOutput(path string, minSize int64) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Size() >= minSize
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// resolveFolder interprets a selected folder relative to the base path
// unless it is already absolute.
func resolveFolder(base, folder string) string {
	if filepath.IsAbs(folder) {
		return filepath.Clean(folder)
	}
	return filepath.Join(base, folder)
}
