// Package cropfind locates the crop-mask bounding box in masked scan
// copies and carries the result into filenames, so the main pipeline
// can decode it as a crop token later.
package cropfind

import (
	"fmt"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/ataluts/photo-scan-tools/internal/files/filesystem"
	"github.com/ataluts/photo-scan-tools/internal/imageio"
	"github.com/ataluts/photo-scan-tools/internal/raster"
	"github.com/ataluts/photo-scan-tools/pkg/photoscan"
)

// Result is one file's detection outcome. Coordinates are -1 when no
// box was found or the file could not be processed.
type Result struct {
	File   string
	Left   int
	Top    int
	Width  int
	Height int
	Status string
}

const (
	StatusOK       = "ok"
	StatusNotFound = "!found"
	StatusError    = "error"
)

// StatusNotMultiple flags dimensions that are not a multiple of the
// requested alignment.
func StatusNotMultiple(multiple int) string {
	return fmt.Sprintf("!mult%d", multiple)
}

// ParseColor parses a comma-separated mask color: one component for
// grayscale, three for RGB; decimal or 0x-prefixed hex.
func ParseColor(s string) ([]uint16, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 1 && len(parts) != 3 {
		return nil, fmt.Errorf("%w: mask color needs 1 or 3 components", photoscan.ErrValidation)
	}
	color := make([]uint16, len(parts))
	for i, part := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(part), 0, 16)
		if err != nil {
			return nil, fmt.Errorf("%w: bad mask color component %q", photoscan.ErrValidation, part)
		}
		color[i] = uint16(v)
	}
	return color, nil
}

// SearchConfig describes one detection run over masked images.
type SearchConfig struct {
	BaseDir   string
	Color     []uint16
	Wildcards []string
	DirDepth  int

	// CheckMultiple verifies that detected dimensions align to this
	// value; zero disables the check.
	CheckMultiple int
}

// Search walks the base directory and detects the mask bounding box in
// every matching file. Undetectable or unreadable files produce rows
// with a diagnostic status, never abort the run.
func Search(fs filesystem.Provider, log photoscan.Logger, cfg SearchConfig) ([]Result, error) {
	if info, err := fs.Stat(cfg.BaseDir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", photoscan.ErrBaseDirMissing, cfg.BaseDir)
	}
	wildcards := cfg.Wildcards
	if len(wildcards) == 0 {
		wildcards = strings.Split(photoscan.DefaultWildcards, ",")
	}

	var results []Result
	err := fs.Walk(cfg.BaseDir, func(filePath, rel string, info filesystem.FileInfo, err error) error {
		if err != nil {
			log.Error("%s: %v", filePath, err)
			return nil
		}
		if cfg.DirDepth >= 0 && depthOf(path.Dir(rel)) > cfg.DirDepth {
			return nil
		}
		if !matchAny(wildcards, path.Base(rel)) {
			return nil
		}
		results = append(results, searchFile(fs, log, rel, filePath, cfg))
		return nil
	})
	return results, err
}

func searchFile(fs filesystem.Provider, log photoscan.Logger, rel, filePath string, cfg SearchConfig) Result {
	failed := Result{File: rel, Left: -1, Top: -1, Width: -1, Height: -1, Status: StatusError}

	img, depth, err := imageio.ReadFile(fs, filePath)
	if err != nil {
		log.Error("%s: %v", rel, err)
		return failed
	}
	if len(cfg.Color) != img.Channels {
		log.Error("%s: mask color has %d components, image has %d channels", rel, len(cfg.Color), img.Channels)
		return failed
	}
	maxValue := uint16(0xffff)
	if depth == 8 {
		maxValue = 0xff
	}
	for _, c := range cfg.Color {
		if c > maxValue {
			log.Error("%s: mask color %d out of range for %d-bit samples", rel, c, depth)
			return failed
		}
	}

	left, top, width, height, found, err := raster.FindCropBox(img, cfg.Color)
	if err != nil {
		log.Error("%s: %v", rel, err)
		return failed
	}
	if !found {
		log.Info("%s: no crop area found", rel)
		failed.Status = StatusNotFound
		return failed
	}

	status := StatusOK
	if cfg.CheckMultiple > 0 && (width%cfg.CheckMultiple != 0 || height%cfg.CheckMultiple != 0) {
		status = StatusNotMultiple(cfg.CheckMultiple)
	}
	log.Info("%s: crop area found (%d, %d, %d, %d), %s", rel, left, top, width, height, status)
	return Result{File: rel, Left: left, Top: top, Width: width, Height: height, Status: status}
}

// Rename appends a crop token to every file the results cover, so the
// filename decoder picks the box up as a C token.
func Rename(fs filesystem.Provider, log photoscan.Logger, dir string, results []Result, wildcards []string, dirDepth int) error {
	if len(wildcards) == 0 {
		wildcards = strings.Split(photoscan.DefaultWildcards, ",")
	}
	byFile := make(map[string]Result, len(results))
	for _, r := range results {
		byFile[r.File] = r
	}

	return fs.Walk(dir, func(filePath, rel string, info filesystem.FileInfo, err error) error {
		if err != nil {
			log.Error("%s: %v", filePath, err)
			return nil
		}
		if dirDepth >= 0 && depthOf(path.Dir(rel)) > dirDepth {
			return nil
		}
		if !matchAny(wildcards, path.Base(rel)) {
			return nil
		}
		r, ok := byFile[rel]
		if !ok {
			log.Info("%s: no crop data found", rel)
			return nil
		}
		if r.Left < 0 || r.Top < 0 || r.Width <= 0 || r.Height <= 0 {
			log.Info("%s: crop data incomplete (%d, %d, %d, %d)", rel, r.Left, r.Top, r.Width, r.Height)
			return nil
		}

		ext := path.Ext(rel)
		stem := strings.TrimSuffix(path.Base(rel), ext)
		suffix := fmt.Sprintf("_C%d-%d-%d-%d", r.Left, r.Top, r.Width, r.Height)
		if !strings.Contains(stem, "__") {
			suffix = "_" + suffix
		}
		newPath := path.Join(path.Dir(filePath), stem+suffix+ext)
		if err := fs.Rename(filePath, newPath); err != nil {
			log.Error("%s: %v", rel, err)
			return nil
		}
		msg := fmt.Sprintf("%s >> %s", path.Base(filePath), path.Base(newPath))
		if r.Status != StatusOK {
			msg += fmt.Sprintf(" [warning: status = %s]", r.Status)
		}
		log.Info("%s", msg)
		return nil
	})
}

var cropToken = regexp.MustCompile(`_C\d+-\d+-\d+-\d+`)

// Unname reverts crop-token renaming under dir.
func Unname(fs filesystem.Provider, log photoscan.Logger, dir string, wildcards []string, dirDepth int) error {
	if len(wildcards) == 0 {
		wildcards = strings.Split(photoscan.DefaultWildcards, ",")
	}
	type move struct{ from, to string }
	var moves []move

	err := fs.Walk(dir, func(filePath, rel string, info filesystem.FileInfo, err error) error {
		if err != nil {
			log.Error("%s: %v", filePath, err)
			return nil
		}
		if dirDepth >= 0 && depthOf(path.Dir(rel)) > dirDepth {
			return nil
		}
		if !matchAny(wildcards, path.Base(rel)) {
			return nil
		}
		ext := path.Ext(rel)
		stem := strings.TrimSuffix(path.Base(rel), ext)
		newStem := cropToken.ReplaceAllString(stem, "")
		if newStem == stem {
			return nil
		}
		newStem = strings.TrimSuffix(newStem, "_")
		moves = append(moves, move{from: filePath, to: path.Join(path.Dir(filePath), newStem+ext)})
		return nil
	})
	if err != nil {
		return err
	}

	// Renaming after the walk keeps the traversal stable.
	for _, m := range moves {
		if err := fs.Rename(m.from, m.to); err != nil {
			log.Error("%s: %v", m.from, err)
			continue
		}
		log.Info("%s >> %s", path.Base(m.from), path.Base(m.to))
	}
	return nil
}

func depthOf(relDir string) int {
	if relDir == "." || relDir == "" {
		return 0
	}
	return strings.Count(relDir, "/") + 1
}

func matchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if ok, err := path.Match(strings.TrimSpace(p), name); err == nil && ok {
			return true
		}
	}
	return false
}
