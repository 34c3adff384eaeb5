package filesystem

import (
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"
)

// MemoryFileSystem implements Provider over an in-memory file map.
// Paths are stored slash-separated and cleaned; directories exist
// implicitly for every file prefix and explicitly after MkdirAll.
type MemoryFileSystem struct {
	files map[string][]byte
	dirs  map[string]bool
}

// NewMemoryFileSystem creates an empty in-memory filesystem.
func NewMemoryFileSystem() *MemoryFileSystem {
	return &MemoryFileSystem{
		files: make(map[string][]byte),
		dirs:  map[string]bool{"/": true, ".": true},
	}
}

func normalize(p string) string {
	return path.Clean(strings.ReplaceAll(p, "\\", "/"))
}

// AddFile registers a file with the given content, creating implicit
// parent directories.
func (m *MemoryFileSystem) AddFile(p string, content []byte) {
	p = normalize(p)
	m.files[p] = content
	for dir := path.Dir(p); ; dir = path.Dir(dir) {
		m.dirs[dir] = true
		if dir == "/" || dir == "." {
			break
		}
	}
}

// Exists reports whether a file is present.
func (m *MemoryFileSystem) Exists(p string) bool {
	_, ok := m.files[normalize(p)]
	return ok
}

// Content returns a file's current content and whether it exists.
func (m *MemoryFileSystem) Content(p string) ([]byte, bool) {
	data, ok := m.files[normalize(p)]
	return data, ok
}

// Paths returns all file paths in sorted order.
func (m *MemoryFileSystem) Paths() []string {
	paths := make([]string, 0, len(m.files))
	for p := range m.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func (m *MemoryFileSystem) Walk(root string, fn WalkFunc) error {
	root = normalize(root)
	if !m.dirs[root] {
		return &fs.PathError{Op: "walk", Path: root, Err: fs.ErrNotExist}
	}
	prefix := root + "/"
	if root == "/" || root == "." {
		prefix = ""
	}
	for _, p := range m.Paths() {
		if prefix != "" && !strings.HasPrefix(p, prefix) {
			continue
		}
		rel := strings.TrimPrefix(p, prefix)
		info := memInfo{name: path.Base(p), size: int64(len(m.files[p]))}
		if err := fn(p, rel, info, nil); err != nil {
			return err
		}
	}
	return nil
}

func (m *MemoryFileSystem) ReadFile(p string) ([]byte, error) {
	data, ok := m.files[normalize(p)]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: p, Err: fs.ErrNotExist}
	}
	return data, nil
}

func (m *MemoryFileSystem) WriteFile(p string, data []byte) error {
	m.AddFile(p, data)
	return nil
}

func (m *MemoryFileSystem) Stat(p string) (FileInfo, error) {
	p = normalize(p)
	if data, ok := m.files[p]; ok {
		return memInfo{name: path.Base(p), size: int64(len(data))}, nil
	}
	if m.dirs[p] {
		return memInfo{name: path.Base(p), dir: true}, nil
	}
	return nil, &fs.PathError{Op: "stat", Path: p, Err: fs.ErrNotExist}
}

func (m *MemoryFileSystem) MkdirAll(p string) error {
	p = normalize(p)
	for dir := p; ; dir = path.Dir(dir) {
		m.dirs[dir] = true
		if dir == "/" || dir == "." {
			break
		}
	}
	return nil
}

func (m *MemoryFileSystem) Rename(oldpath, newpath string) error {
	oldpath = normalize(oldpath)
	data, ok := m.files[oldpath]
	if !ok {
		return &fs.PathError{Op: "rename", Path: oldpath, Err: fs.ErrNotExist}
	}
	delete(m.files, oldpath)
	m.AddFile(newpath, data)
	return nil
}

func (m *MemoryFileSystem) Remove(p string) error {
	p = normalize(p)
	if _, ok := m.files[p]; !ok {
		return &fs.PathError{Op: "remove", Path: p, Err: fs.ErrNotExist}
	}
	delete(m.files, p)
	return nil
}

func (m *MemoryFileSystem) Copy(src, dst string) error {
	data, ok := m.files[normalize(src)]
	if !ok {
		return &fs.PathError{Op: "open", Path: src, Err: fs.ErrNotExist}
	}
	m.AddFile(dst, append([]byte(nil), data...))
	return nil
}

type memInfo struct {
	name string
	size int64
	dir  bool
}

func (i memInfo) Name() string       { return i.name }
func (i memInfo) Size() int64        { return i.size }
func (i memInfo) Mode() fs.FileMode  { return modeFor(i.dir) }
func (i memInfo) ModTime() time.Time { return time.Time{} }
func (i memInfo) IsDir() bool        { return i.dir }
func (i memInfo) Sys() interface{}   { return nil }

func modeFor(dir bool) fs.FileMode {
	if dir {
		return fs.ModeDir | 0o755
	}
	return 0o644
}

var _ Provider = (*MemoryFileSystem)(nil)
