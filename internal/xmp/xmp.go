// Package xmp extracts embedded XMP packets into sidecar files and
// deletes them from images.
package xmp

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/ataluts/photo-scan-tools/internal/files/filesystem"
	"github.com/ataluts/photo-scan-tools/pkg/photoscan"
)

// ErrNoData reports a file without an XMP packet.
var ErrNoData = errors.New("no XMP data")

// ToolOps is the tool surface this package needs.
type ToolOps interface {
	ExtractXMP(path string) ([]byte, error)
	DeleteXMP(path string) error
}

// Extract writes a file's XMP packet to outputPath as a cleaned
// sidecar: xpacket processing instructions and blank lines are
// dropped. An empty outputPath places the sidecar next to the source.
// Returns the sidecar path.
func Extract(fs filesystem.Provider, tool ToolOps, inputPath, outputPath string) (string, error) {
	if outputPath == "" {
		outputPath = replaceExt(inputPath, ".xmp")
	}

	data, err := tool.ExtractXMP(inputPath)
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", ErrNoData
	}

	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.HasPrefix(line, "<?xpacket") || strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := fs.WriteFile(outputPath, []byte(strings.Join(lines, "\n")+"\n")); err != nil {
		return "", err
	}
	return outputPath, nil
}

func replaceExt(p, ext string) string {
	return strings.TrimSuffix(p, path.Ext(p)) + ext
}

// RunConfig describes a batch extraction/deletion run.
type RunConfig struct {
	BaseDir string

	// Extract enables sidecar extraction. OutputDir mirrors the base
	// directory structure when set; empty puts sidecars next to their
	// sources.
	Extract   bool
	OutputDir string

	// Delete removes XMP blocks from the source files.
	Delete bool

	Wildcards []string
	DirDepth  int
}

// RunSummary reports a run's outcome.
type RunSummary struct {
	Matched  int
	Failed   int
	Duration time.Duration
}

// Run walks the base directory and extracts and/or deletes XMP data
// for every matching file. Files without XMP data are logged and
// counted, never abort the run.
func Run(fs filesystem.Provider, tool ToolOps, log photoscan.Logger, cfg RunConfig) (RunSummary, error) {
	var summary RunSummary
	if info, err := fs.Stat(cfg.BaseDir); err != nil || !info.IsDir() {
		return summary, fmt.Errorf("%w: %s", photoscan.ErrBaseDirMissing, cfg.BaseDir)
	}

	wildcards := cfg.Wildcards
	if len(wildcards) == 0 {
		wildcards = strings.Split(photoscan.DefaultWildcards, ",")
	}

	start := time.Now()
	err := fs.Walk(cfg.BaseDir, func(filePath, rel string, info filesystem.FileInfo, err error) error {
		if err != nil {
			log.Error("%s: %v", filePath, err)
			return nil
		}
		if cfg.DirDepth >= 0 && depthOf(rel) > cfg.DirDepth {
			return nil
		}
		if !matchAny(wildcards, path.Base(rel)) {
			return nil
		}
		summary.Matched++

		if cfg.Extract {
			outputPath := ""
			if cfg.OutputDir != "" {
				outputPath = replaceExt(path.Join(cfg.OutputDir, rel), ".xmp")
			}
			sidecar, err := Extract(fs, tool, filePath, outputPath)
			switch {
			case errors.Is(err, ErrNoData):
				log.Info("%d. %s >> no XMP data", summary.Matched, filePath)
			case err != nil:
				summary.Failed++
				log.Error("%d. %s: %v", summary.Matched, filePath, err)
				return nil
			default:
				log.Info("%d. %s >> %s", summary.Matched, filePath, sidecar)
			}
		}
		if cfg.Delete {
			if err := tool.DeleteXMP(filePath); err != nil {
				summary.Failed++
				log.Error("%d. %s: %v", summary.Matched, filePath, err)
				return nil
			}
			log.Verbose("%s: XMP tag deleted", filePath)
		}
		return nil
	})

	summary.Duration = time.Since(start)
	return summary, err
}

func depthOf(rel string) int {
	dir := path.Dir(rel)
	if dir == "." || dir == "" {
		return 0
	}
	return strings.Count(dir, "/") + 1
}

func matchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if ok, err := path.Match(strings.TrimSpace(p), name); err == nil && ok {
			return true
		}
	}
	return false
}
