// Package ioutils provides file system utilities for the PDF batch joiner.
//
// This package contains functions for:
//   - File copying
//   - File size lookup and best-effort removal
//   - Folder timestamps
//   - Directory creation
package ioutils

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/djherbis/times"
)

// CopyFile copies a file from source to destination.
//
// The destination file is created with mode 0644 if it doesn't exist,
// or truncated if it does. The source file must exist and be readable.
//
// Example:
//
//	err := CopyFile("/scans/a.pdf", "/scans/a.bak.pdf")
func CopyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err = io.Copy(destFile, sourceFile); err != nil {
		destFile.Close()
		return err
	}

	return destFile.Close()
}

// FileSize returns the size of path in bytes.
func FileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// Exists reports whether path exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// RemoveIfExists deletes path. A missing file is not an error.
func RemoveIfExists(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// FolderTime returns the best available creation timestamp of a directory.
//
// The birth time is used where the file system records one. Otherwise the
// inode change time is used, and the modification time as a last resort.
// An error is returned only when the path cannot be stat'ed.
//
// Example:
//
//	created, err := FolderTime("/scans/March")
//	if err != nil {
//	    created = time.Now()
//	}
func FolderTime(path string) (time.Time, error) {
	ts, err := times.Stat(path)
	if err != nil {
		return time.Time{}, err
	}

	switch {
	case ts.HasBirthTime():
		return ts.BirthTime(), nil
	case ts.HasChangeTime():
		return ts.ChangeTime(), nil
	default:
		return ts.ModTime(), nil
	}
}

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
