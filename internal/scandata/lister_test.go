package scandata

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ataluts/photo-scan-tools/internal/files/filesystem"
	"github.com/ataluts/photo-scan-tools/internal/logging"
)

type fakeReader struct {
	exif  map[string]string
	notes map[string]string
}

func (f *fakeReader) ReadTag(path, tag string) (string, error) { return "", nil }

func (f *fakeReader) ReadTags(path, group string) (map[string]string, error) {
	if group == "EXIF:all" {
		return f.exif, nil
	}
	return f.notes, nil
}

func nikonReader() *fakeReader {
	return &fakeReader{
		exif: map[string]string{
			"EXIF:ModifyDate":  "2025:06:19 10.30.00",
			"EXIF:Model":       "LS-50 ED",
			"EXIF:Software":    "Nikon Scan 4.0.2",
			"EXIF:ImageWidth":  "4096",
			"EXIF:ImageHeight": "2656",
			"EXIF:XResolution": "4000",
		},
		notes: map[string]string{
			"SourceFile":            "a.tif",
			"MakerNotes:MasterGain": "-0.4",
			"MakerNotes:ColorGain":  "0.2 -0.5 0",
		},
	}
}

func TestCollect_NikonGainsAndDate(t *testing.T) {
	record, err := Collect(nikonReader(), "a.tif")
	require.NoError(t, err)

	date, _ := record.Get("Date")
	assert.Equal(t, "2025-06-19 10:30:00", date)

	master, _ := record.Get("MasterGain")
	assert.Equal(t, "-0.41", master)

	// Combined color gain splits into per-channel columns in place.
	_, hasCombined := record.Get("ColorGain")
	assert.False(t, hasCombined)
	r, _ := record.Get("ColorGainR")
	g, _ := record.Get("ColorGainG")
	b, _ := record.Get("ColorGainB")
	assert.Equal(t, "+0.20", r)
	assert.Equal(t, "-0.51", g)
	assert.Equal(t, " 0.00", b)

	_, hasSource := record.Get("SourceFile")
	assert.False(t, hasSource)
}

func TestFormatGain(t *testing.T) {
	assert.Equal(t, " 0.00", FormatGain(0))
	assert.Equal(t, "+0.20", FormatGain(0.2))
	assert.Equal(t, "-0.41", FormatGain(-0.41))
}

func TestRun_WritesCSV(t *testing.T) {
	fs := filesystem.NewMemoryFileSystem()
	fs.AddFile("base/roll1/a__F7-1.tif", []byte("img"))

	summary, err := Run(fs, nikonReader(), logging.NewNullLogger(), RunConfig{
		BaseDir:   "base",
		DirDepth:  -1,
		CleanName: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Matched)
	assert.Equal(t, "base/scandata.csv", summary.Output)

	content, ok := fs.Content("base/scandata.csv")
	require.True(t, ok)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 2)

	// File column leads; clean name strips the encoded segment but
	// keeps the directory.
	assert.True(t, strings.HasPrefix(lines[0], "File,"), "header: %s", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "roll1/a.tif,"), "row: %s", lines[1])
}

func TestRun_OmitDir(t *testing.T) {
	fs := filesystem.NewMemoryFileSystem()
	fs.AddFile("base/roll1/a.tif", []byte("img"))

	_, err := Run(fs, nikonReader(), logging.NewNullLogger(), RunConfig{
		BaseDir:  "base",
		DirDepth: -1,
		OmitDir:  true,
	})
	require.NoError(t, err)

	content, _ := fs.Content("base/scandata.csv")
	assert.Contains(t, string(content), "\na.tif,")
}
