// Package fs provides the filesystem seam used by the bug store.
//
// The main types are:
//   - [FS]: interface for the filesystem operations the store performs
//   - [File]: interface for files opened for appending (satisfied by [os.File])
//   - [Real]: production implementation using [os] and atomic writes
//   - [Faulty]: testing implementation that fails chosen operations
//
// Example usage:
//
//	fsys := fs.NewReal()
//	data, err := fsys.ReadFile(".bugs/bugs")
//	if err != nil && !os.IsNotExist(err) {
//	    return err
//	}
package fs

import (
	"io"
	"os"
)

// File represents a file opened with [FS.OpenFile].
type File interface {
	io.WriteCloser

	// Sync commits the file's contents to disk. See [os.File.Sync].
	Sync() error
}

// FS defines the filesystem operations of the bug store.
//
// All methods mirror their [os] package equivalents so they can be
// intercepted in tests.
type FS interface {
	// ReadFile reads an entire file into memory. See [os.ReadFile].
	ReadFile(path string) ([]byte, error)

	// WriteFileAtomic replaces path with data via a temp file and rename, so
	// readers never observe a half-written bugs file.
	WriteFileAtomic(path string, data []byte, perm os.FileMode) error

	// OpenFile opens a file with the given flags. See [os.OpenFile].
	// The store uses it with [os.O_APPEND] to add comments.
	OpenFile(path string, flag int, perm os.FileMode) (File, error)

	// MkdirAll creates a directory and all parents. See [os.MkdirAll].
	MkdirAll(path string, perm os.FileMode) error

	// Stat returns file info. See [os.Stat].
	Stat(path string) (os.FileInfo, error)

	// Exists reports whether a file or directory exists.
	// Returns (false, nil) if not found, (false, err) on other errors.
	Exists(path string) (bool, error)
}

// Compile-time interface checks.
var _ File = (*os.File)(nil)
