// Package scandata lists scanner-reported metadata for a directory of
// scans into a CSV table, one row per file.
package scandata

import (
	"fmt"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ataluts/photo-scan-tools/internal/files/filesystem"
	"github.com/ataluts/photo-scan-tools/pkg/photoscan"
)

// Record is an ordered key/value row. Column order follows first
// insertion so the CSV layout mirrors the tag order of the scans.
type Record struct {
	keys   []string
	values map[string]string
}

func NewRecord() *Record {
	return &Record{values: make(map[string]string)}
}

func (r *Record) Set(key, value string) {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

func (r *Record) Get(key string) (string, bool) {
	v, ok := r.values[key]
	return v, ok
}

func (r *Record) Keys() []string { return r.keys }

// Collect reads one file's scan metadata: the EXIF identity fields
// plus the full scanner maker-note block, with the Nikon Scan gain
// corrections applied.
func Collect(reader photoscan.TagReader, filePath string) (*Record, error) {
	record := NewRecord()

	exifTags, err := reader.ReadTags(filePath, "EXIF:all")
	if err != nil {
		return nil, err
	}
	record.Set("Date", formatDate(exifTags["EXIF:ModifyDate"]))
	record.Set("Scanner", exifTags["EXIF:Model"])
	record.Set("Software", exifTags["EXIF:Software"])
	record.Set("Width", exifTags["EXIF:ImageWidth"])
	record.Set("Height", exifTags["EXIF:ImageHeight"])
	record.Set("Resolution", exifTags["EXIF:XResolution"])

	notes, err := reader.ReadTags(filePath, "NikonScan:all")
	if err != nil {
		return nil, err
	}
	for _, name := range sortedKeys(notes) {
		if name == "SourceFile" {
			continue
		}
		record.Set(strings.TrimPrefix(name, "MakerNotes:"), notes[name])
	}

	if strings.Contains(record.values["Software"], "Nikon Scan") {
		fixGains(record)
	}
	return record, nil
}

// formatDate renders "YYYY:MM:DD hh.mm.ss" style values as
// "YYYY-MM-DD hh:mm:ss".
func formatDate(modifyDate string) string {
	parts := strings.SplitN(modifyDate, " ", 2)
	if len(parts) < 2 {
		return modifyDate
	}
	datePart := strings.ReplaceAll(strings.ReplaceAll(parts[0], ":", "-"), ".", "-")
	timePart := strings.ReplaceAll(parts[1], ".", ":")
	return datePart + " " + timePart
}

// FormatGain renders a gain value for the listing: zero as " 0.00",
// everything else with an explicit sign.
func FormatGain(value float64) string {
	if value == 0 {
		return " 0.00"
	}
	return fmt.Sprintf("%+.2f", value)
}

// fixGains compensates the Nikon Scan negative-gain offset and splits
// the combined color gain into per-channel columns in place.
func fixGains(r *Record) {
	if master, ok := r.Get("MasterGain"); ok {
		if value, err := strconv.ParseFloat(master, 64); err == nil {
			if value < 0 {
				value -= 0.01
			}
			r.values["MasterGain"] = FormatGain(value)
		}
	}

	color, ok := r.Get("ColorGain")
	if !ok {
		return
	}
	channels := []string{"", "", ""}
	parts := strings.Fields(color)
	if len(parts) == 3 {
		parsed := true
		for i, part := range parts {
			value, err := strconv.ParseFloat(part, 64)
			if err != nil {
				parsed = false
				break
			}
			if value < 0 {
				value -= 0.01
			}
			channels[i] = FormatGain(value)
		}
		if !parsed {
			channels = []string{"", "", ""}
		}
	}

	// Replace the ColorGain column with R/G/B at the same position.
	keys := make([]string, 0, len(r.keys)+2)
	for _, key := range r.keys {
		if key == "ColorGain" {
			keys = append(keys, "ColorGainR", "ColorGainG", "ColorGainB")
			continue
		}
		keys = append(keys, key)
	}
	r.keys = keys
	delete(r.values, "ColorGain")
	r.values["ColorGainR"] = channels[0]
	r.values["ColorGainG"] = channels[1]
	r.values["ColorGainB"] = channels[2]
}

// sortedKeys keeps the column order deterministic across runs.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// RunConfig describes one listing run.
type RunConfig struct {
	BaseDir    string
	OutputPath string // empty means scandata.csv in the base directory

	Wildcards []string
	DirDepth  int

	// OmitDir drops the directory part from the File column.
	OmitDir bool

	// CleanName strips encoded metadata from the File column, keeping
	// only the leading name segment plus extension.
	CleanName bool
}

// RunSummary reports a run's outcome.
type RunSummary struct {
	Matched  int
	Failed   int
	Output   string
	Duration time.Duration
}

// Run collects scan metadata for every matching file under the base
// directory and writes the CSV listing.
func Run(fs filesystem.Provider, reader photoscan.TagReader, log photoscan.Logger, cfg RunConfig) (RunSummary, error) {
	var summary RunSummary
	if info, err := fs.Stat(cfg.BaseDir); err != nil || !info.IsDir() {
		return summary, fmt.Errorf("%w: %s", photoscan.ErrBaseDirMissing, cfg.BaseDir)
	}

	outputPath := cfg.OutputPath
	if outputPath == "" {
		outputPath = path.Join(cfg.BaseDir, "scandata.csv")
	}
	wildcards := cfg.Wildcards
	if len(wildcards) == 0 {
		wildcards = strings.Split(photoscan.DefaultWildcards, ",")
	}

	start := time.Now()
	var records []*Record
	err := fs.Walk(cfg.BaseDir, func(filePath, rel string, info filesystem.FileInfo, err error) error {
		if err != nil {
			log.Error("%s: %v", filePath, err)
			return nil
		}
		relDir := path.Dir(rel)
		if cfg.DirDepth >= 0 && depthOf(relDir) > cfg.DirDepth {
			return nil
		}
		name := path.Base(rel)
		if !matchAny(wildcards, name) {
			return nil
		}
		summary.Matched++

		record, err := Collect(reader, filePath)
		if err != nil {
			summary.Failed++
			log.Error("%d. %s: %v", summary.Matched, filePath, err)
			return nil
		}

		fileColumn := name
		if cfg.CleanName {
			ext := path.Ext(name)
			stem := strings.TrimSuffix(name, ext)
			fileColumn = strings.SplitN(stem, "_", 2)[0] + ext
		}
		if !cfg.OmitDir && relDir != "." {
			fileColumn = path.Join(relDir, fileColumn)
		}
		record.Set("File", fileColumn)

		log.Verbose("%d. %s", summary.Matched, filePath)
		records = append(records, record)
		return nil
	})
	if err != nil {
		return summary, err
	}

	if err := WriteCSV(fs, outputPath, records); err != nil {
		return summary, err
	}
	summary.Output = outputPath
	summary.Duration = time.Since(start)
	return summary, nil
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
