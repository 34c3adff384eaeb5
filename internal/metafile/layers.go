package metafile

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/ataluts/photo-scan-tools/internal/files/filesystem"
	"github.com/ataluts/photo-scan-tools/internal/tags"
	"github.com/ataluts/photo-scan-tools/pkg/photoscan"
)

// Layers resolves the per-directory tag store for a run: compiled-in
// defaults updated by the chain of metadata files from the base
// directory down to each image's directory. Both the parsed file
// increments and the resolved per-directory stores are cached for the
// run; callers receive clones and may mutate them freely.
type Layers struct {
	fs       filesystem.Provider
	baseDir  string
	metafile string
	defaults *tags.Store
	log      photoscan.Logger

	fileCache map[string]*tags.Store // parsed increment per metafile path, nil if unreadable
	dirCache  map[string]*tags.Store // resolved store per relative directory
}

// NewLayers creates a resolver. metafile is either a bare file name
// looked up in every directory of the chain, or an absolute path used
// standalone for all directories.
func NewLayers(fs filesystem.Provider, baseDir, metafile string, defaults *tags.Store, log photoscan.Logger) *Layers {
	return &Layers{
		fs:        fs,
		baseDir:   baseDir,
		metafile:  metafile,
		defaults:  defaults,
		log:       log,
		fileCache: make(map[string]*tags.Store),
		dirCache:  make(map[string]*tags.Store),
	}
}

// ForDirectory returns the layered store for a directory given relative
// to the base ("." or "" for the base itself).
func (l *Layers) ForDirectory(relDir string) *tags.Store {
	relDir = path.Clean(strings.ReplaceAll(relDir, "\\", "/"))
	if relDir == "" {
		relDir = "."
	}
	if cached, ok := l.dirCache[relDir]; ok {
		return cached.Clone()
	}

	store := l.defaults.Clone()
	if filepath.IsAbs(l.metafile) {
		// Absolute metafile path: one file, used standalone.
		l.applyMetafile(store, l.metafile)
	} else {
		for _, dir := range l.chain(relDir) {
			l.applyMetafile(store, filepath.Join(dir, l.metafile))
		}
	}

	l.dirCache[relDir] = store
	return store.Clone()
}

// chain lists the directories from the base down to relDir, outer
// first.
func (l *Layers) chain(relDir string) []string {
	dirs := []string{l.baseDir}
	if relDir == "." {
		return dirs
	}
	cur := l.baseDir
	for _, part := range strings.Split(relDir, "/") {
		cur = filepath.Join(cur, part)
		dirs = append(dirs, cur)
	}
	return dirs
}

// applyMetafile merges one metadata file into the store if it exists.
// The lock state is re-read before each merge, so an outer metafile can
// freeze the tag list against inner ones.
func (l *Layers) applyMetafile(store *tags.Store, metafilePath string) {
	inc, ok := l.fileCache[metafilePath]
	if !ok {
		inc = l.loadMetafile(metafilePath)
		l.fileCache[metafilePath] = inc
	}
	if inc == nil {
		return
	}
	store.Merge(inc, !store.Locked())
}

func (l *Layers) loadMetafile(metafilePath string) *tags.Store {
	if info, err := l.fs.Stat(metafilePath); err != nil || info.IsDir() {
		return nil
	}
	data, err := l.fs.ReadFile(metafilePath)
	if err != nil {
		l.log.Error("Can't load metadata from file '%s': %v", metafilePath, err)
		return nil
	}
	return Parse(data)
}
