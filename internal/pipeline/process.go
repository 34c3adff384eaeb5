package pipeline

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ataluts/photo-scan-tools/internal/exiftool"
	"github.com/ataluts/photo-scan-tools/internal/files/filesystem"
	"github.com/ataluts/photo-scan-tools/internal/imageio"
	"github.com/ataluts/photo-scan-tools/internal/pathtpl"
	"github.com/ataluts/photo-scan-tools/internal/raster"
	"github.com/ataluts/photo-scan-tools/internal/resolve"
	"github.com/ataluts/photo-scan-tools/internal/tags"
	"github.com/ataluts/photo-scan-tools/pkg/photoscan"
)

// strippedGroups are removed from the store right before emission; they
// drive resolution but are never written to the image.
var strippedGroups = []string{"ImageTransform:", "Script:", "Scanner:", "ImageHistory:", "Extra:"}

// MetadataTool is the full tool surface the pipeline needs: tag reads
// and writes plus the whole-file operations used around a geometric
// transform.
type MetadataTool interface {
	photoscan.TagReader
	photoscan.TagWriter
	CopyAllTags(src, dst string) error
	ExtractICC(path string) ([]byte, error)
	InjectICC(path, profilePath string) error
}

// Processor runs the per-file pipeline. One file is processed to
// completion before the next begins; the only state shared across
// files is the configuration below.
type Processor struct {
	FS   filesystem.Provider
	Tool MetadataTool
	Log  photoscan.Logger

	// OutputTemplate renders the output path, relative to the input
	// file's directory unless it renders absolute.
	OutputTemplate string

	// TempDir stages temp files when set; otherwise the deepest already
	// existing ancestor of the output path is used.
	TempDir string

	// Now and Location feed the auto-fill clock. Zero values mean the
	// system clock and local zone.
	Now      func() time.Time
	Location *time.Location
}

// ProcessFile takes a fully layered store (defaults, directory chain
// and filename increment already merged) and carries one input file
// through transform, auto-fill, path rendering and tag emission. It
// returns the final output path.
//
// On error the temp file is deliberately left behind for inspection.
func (p *Processor) ProcessFile(inputPath string, store *tags.Store) (string, error) {
	tempPath, err := p.tempPath(inputPath)
	if err != nil {
		return "", err
	}

	// Scanner identity and maker notes go in regardless of the tag-list
	// lock.
	scanner, err := exiftool.ExtractScanner(p.Tool, inputPath)
	if err != nil {
		return "", err
	}
	store.Merge(scanner, true)

	if store.Writable("ImageHistory") {
		FoldImageHistory(store)
	}
	resolve.ApplyConditional(store)

	if enabled, _ := store.Value("ImageTransform:Enabled").Bool(); enabled {
		err = p.transform(inputPath, tempPath, store)
	} else {
		err = p.FS.Copy(inputPath, tempPath)
	}
	if err != nil {
		return "", err
	}

	env := resolve.Env{
		Now:      p.now,
		Location: p.Location,
		ImageSize: func() (int, int, error) {
			return imageio.Dimensions(p.FS, tempPath)
		},
		ReadToolTag: func(tag string) (string, error) {
			return p.Tool.ReadTag(tempPath, tag)
		},
	}
	if err := resolve.Autofill(store, env, p.Log); err != nil {
		return "", err
	}

	outputPath := pathtpl.Build(p.OutputTemplate, store, pathtpl.Options{})
	if !filepath.IsAbs(outputPath) {
		outputPath = filepath.Join(filepath.Dir(inputPath), outputPath)
	}

	// Tags are written to the temp copy; the file moves into place only
	// once every metadata operation has succeeded, so the destination
	// never holds a partially-tagged file.
	store.DeleteGroups(strippedGroups...)

	assignments, err := exiftool.BuildAssignments(store, p.Log)
	if err != nil {
		return "", err
	}
	if err := p.Tool.ApplyTags(tempPath, assignments); err != nil {
		return "", err
	}

	if err := p.FS.MkdirAll(filepath.Dir(outputPath)); err != nil {
		return "", err
	}
	if err := p.FS.Rename(tempPath, outputPath); err != nil {
		return "", err
	}
	return outputPath, nil
}

func (p *Processor) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// tempPath picks the staging location: the explicit temp directory, or
// the deepest existing ancestor of the output path so the final move
// stays on one filesystem.
func (p *Processor) tempPath(inputPath string) (string, error) {
	dir := p.TempDir
	if dir == "" {
		candidate := p.OutputTemplate
		if !filepath.IsAbs(candidate) {
			candidate = filepath.Join(filepath.Dir(inputPath), candidate)
		}
		for {
			if info, err := p.FS.Stat(candidate); err == nil && info.IsDir() {
				break
			}
			parent := filepath.Dir(candidate)
			if parent == candidate {
				return "", fmt.Errorf("%w: no part of the output path exists", photoscan.ErrValidation)
			}
			candidate = parent
		}
		dir = candidate
	} else if info, err := p.FS.Stat(dir); err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w: can't work with temp directory '%s'", photoscan.ErrValidation, dir)
	}

	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	return filepath.Join(dir, base+"-"+uuid.NewString()+".tmp"), nil
}

// transform rewrites the pixel data into a fresh container at tempPath
// and restores the original's tags and color profile onto it.
func (p *Processor) transform(inputPath, tempPath string, store *tags.Store) error {
	crop, err := intList(store.Value("ImageTransform:Crop"), 4)
	if err != nil {
		return fmt.Errorf("%w: bad ImageTransform:Crop", photoscan.ErrValidation)
	}
	rotate, _ := store.Value("ImageTransform:Rotate").Int()
	flip, err := boolList(store.Value("ImageTransform:Flip"), 2)
	if err != nil {
		return fmt.Errorf("%w: bad ImageTransform:Flip", photoscan.ErrValidation)
	}
	compression := compressionID(store.Value("ImageTransform:Compression"))
	opts, err := imageio.CompressionOptions(compression)
	if err != nil {
		return err
	}

	img, depth, err := imageio.ReadFile(p.FS, inputPath)
	if err != nil {
		return err
	}
	out, err := raster.Transform(img, int(crop[0]), int(crop[1]), int(crop[2]), int(crop[3]), int(rotate), flip[0], flip[1])
	if err != nil {
		return err
	}
	if err := imageio.WriteFile(p.FS, tempPath, out, depth, opts); err != nil {
		return err
	}

	if err := p.Tool.CopyAllTags(inputPath, tempPath); err != nil {
		return err
	}

	icc, err := p.Tool.ExtractICC(inputPath)
	if err != nil {
		return err
	}
	iccPath := tempPath + ".icc"
	if err := p.FS.WriteFile(iccPath, icc); err != nil {
		return err
	}
	if err := p.Tool.InjectICC(tempPath, iccPath); err != nil {
		return err
	}
	return p.FS.Remove(iccPath)
}

func intList(v tags.Value, want int) ([]int64, error) {
	elems, ok := v.List()
	if !ok || len(elems) != want {
		return nil, fmt.Errorf("expected %d integers", want)
	}
	out := make([]int64, want)
	for i, e := range elems {
		n, ok := e.Int()
		if !ok {
			return nil, fmt.Errorf("expected %d integers", want)
		}
		out[i] = n
	}
	return out, nil
}

func boolList(v tags.Value, want int) ([]bool, error) {
	elems, ok := v.List()
	if !ok || len(elems) != want {
		return nil, fmt.Errorf("expected %d booleans", want)
	}
	out := make([]bool, want)
	for i, e := range elems {
		b, ok := e.Bool()
		if !ok {
			return nil, fmt.Errorf("expected %d booleans", want)
		}
		out[i] = b
	}
	return out, nil
}

// compressionID accepts both the plain string form and the
// [id, args...] list form carried over from older metadata files.
func compressionID(v tags.Value) string {
	if s, ok := v.Str(); ok {
		return s
	}
	if elems, ok := v.List(); ok && len(elems) > 0 {
		if s, ok := elems[0].Str(); ok {
			return s
		}
	}
	return "none"
}
