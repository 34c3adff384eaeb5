package filesystem

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// OSFileSystem implements Provider over the real filesystem.
type OSFileSystem struct{}

// NewOSFileSystem creates a Provider backed by the operating system.
func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

func (o *OSFileSystem) Walk(root string, fn WalkFunc) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fn(path, "", nil, err)
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return fn(path, "", nil, err)
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("computing relative path for %s: %w", path, err)
		}
		return fn(path, filepath.ToSlash(rel), info, nil)
	})
}

func (o *OSFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (o *OSFileSystem) WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (o *OSFileSystem) Stat(path string) (FileInfo, error) {
	return os.Stat(path)
}

func (o *OSFileSystem) MkdirAll(path string) error {
	return os.MkdirAll(path, 0o755)
}

func (o *OSFileSystem) Rename(oldpath, newpath string) error {
	if err := os.MkdirAll(filepath.Dir(newpath), 0o755); err != nil {
		return err
	}
	return os.Rename(oldpath, newpath)
}

func (o *OSFileSystem) Remove(path string) error {
	return os.Remove(path)
}

func (o *OSFileSystem) Copy(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

var _ Provider = (*OSFileSystem)(nil)
