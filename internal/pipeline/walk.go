package pipeline

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/ataluts/photo-scan-tools/internal/filename"
	"github.com/ataluts/photo-scan-tools/internal/files/filesystem"
	"github.com/ataluts/photo-scan-tools/internal/metafile"
	"github.com/ataluts/photo-scan-tools/pkg/photoscan"
)

// RunConfig describes one processing run over a directory tree.
type RunConfig struct {
	BaseDir        string
	OutputTemplate string
	TempDir        string

	// MetafileName is a bare name resolved per directory, or an
	// absolute path used standalone.
	MetafileName string

	// Wildcards filter file names; empty means the compiled-in default.
	Wildcards []string

	// DirDepth limits how deep below the base directory files are
	// picked up; negative means unlimited.
	DirDepth int

	// Now and Location feed the auto-fill clock in tests.
	Now      func() time.Time
	Location *time.Location
}

// RunSummary reports the outcome of a run.
type RunSummary struct {
	Matched   int
	Processed int
	Failed    int
	Duration  time.Duration
}

// Run walks the base directory and processes every matching file, one
// at a time. Per-file failures are logged and counted, never abort the
// run. Only a missing base directory aborts before any file is
// touched.
func Run(fs filesystem.Provider, tool MetadataTool, log photoscan.Logger, cfg RunConfig) (RunSummary, error) {
	var summary RunSummary

	if info, err := fs.Stat(cfg.BaseDir); err != nil || !info.IsDir() {
		return summary, fmt.Errorf("%w: %s", photoscan.ErrBaseDirMissing, cfg.BaseDir)
	}

	outputTemplate := cfg.OutputTemplate
	if info, err := fs.Stat(outputTemplate); err == nil && info.IsDir() {
		// An existing directory as the output mirrors the base
		// directory's structure into it.
		outputTemplate = path.Join(outputTemplate, photoscan.DefaultOutputTemplate)
	}

	wildcards := cfg.Wildcards
	if len(wildcards) == 0 {
		wildcards = strings.Split(photoscan.DefaultWildcards, ",")
	}
	metafileName := cfg.MetafileName
	if metafileName == "" {
		metafileName = photoscan.DefaultMetafileName
	}

	layers := metafile.NewLayers(fs, cfg.BaseDir, metafileName, Defaults(), log)
	proc := &Processor{
		FS:             fs,
		Tool:           tool,
		Log:            log,
		OutputTemplate: outputTemplate,
		TempDir:        cfg.TempDir,
		Now:            cfg.Now,
		Location:       cfg.Location,
	}

	start := time.Now()
	err := fs.Walk(cfg.BaseDir, func(filePath, rel string, info filesystem.FileInfo, err error) error {
		if err != nil {
			log.Error("%s: %v", filePath, err)
			return nil
		}
		relDir := path.Dir(rel)
		if cfg.DirDepth >= 0 && dirDepth(relDir) > cfg.DirDepth {
			return nil
		}
		if !matchAny(wildcards, path.Base(rel)) {
			return nil
		}

		summary.Matched++
		store := layers.ForDirectory(relDir)

		increment, err := filename.Decode(rel)
		if err != nil {
			summary.Failed++
			log.Error("%d. %s: %v", summary.Matched, filePath, err)
			return nil
		}
		store.Merge(increment, !store.Locked())

		output, err := proc.ProcessFile(filePath, store)
		if err != nil {
			summary.Failed++
			log.Error("%d. %s: %v", summary.Matched, filePath, err)
			return nil
		}
		summary.Processed++
		log.Info("%d. %s >> %s", summary.Matched, filePath, output)
		return nil
	})

	summary.Duration = time.Since(start)
	log.Info("Finished. Processed %d files in %s.", summary.Processed, FormatDuration(summary.Duration))
	return summary, err
}

func dirDepth(relDir string) int {
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

// FormatDuration renders an elapsed time as hh:mm:ss.
func FormatDuration(d time.Duration) string {
	total := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, total%3600/60, total%60)
}
