// Package filesystem abstracts the directory tree the pipeline reads
// scans from and stages output into. The OS provider backs real runs;
// the in-memory provider backs tests of directory layering and the
// per-file pipeline without touching disk.
package filesystem

import (
	"io/fs"
)

// FileInfo is an alias for fs.FileInfo from the standard library.
type FileInfo = fs.FileInfo

// WalkFunc is called for every regular file below the walk root.
// rel is the path relative to the root, using forward slashes.
type WalkFunc func(path string, rel string, info FileInfo, err error) error

// Provider is the filesystem surface the pipeline needs: tree walking
// and metafile reads on the input side, temp staging and the final move
// on the output side.
type Provider interface {
	// Walk traverses the tree rooted at root, calling fn for each
	// regular file in lexical order. An error from fn stops the walk.
	Walk(root string, fn WalkFunc) error

	// ReadFile reads a file's content.
	ReadFile(path string) ([]byte, error)

	// WriteFile writes data to path, creating parent directories.
	WriteFile(path string, data []byte) error

	// Stat returns file information for the given path.
	Stat(path string) (FileInfo, error)

	// MkdirAll creates a directory and all missing parents.
	MkdirAll(path string) error

	// Rename moves a file into place. Same-filesystem moves only; the
	// pipeline stages temp files near the destination for this reason.
	Rename(oldpath, newpath string) error

	// Remove deletes a single file.
	Remove(path string) error

	// Copy duplicates a file's content to a new path, creating parent
	// directories.
	Copy(src, dst string) error
}
