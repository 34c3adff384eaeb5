package exiftool

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ataluts/photo-scan-tools/internal/tags"
	"github.com/ataluts/photo-scan-tools/pkg/photoscan"
)

// fakeReader serves canned single tags and group reads.
type fakeReader struct {
	single map[string]string
	groups map[string]map[string]string
}

func (f *fakeReader) ReadTag(path, tag string) (string, error) {
	return f.single[tag], nil
}

func (f *fakeReader) ReadTags(path, group string) (map[string]string, error) {
	return f.groups[group], nil
}

func TestExtractScanner_NonNikonStopsAtIdentity(t *testing.T) {
	reader := &fakeReader{single: map[string]string{
		"Model":    "Epson Perfection V600",
		"Software": "Epson Scan 2",
	}}

	s, err := ExtractScanner(reader, "scan.tif")
	require.NoError(t, err)
	assert.Equal(t, tags.String("Epson Perfection V600"), s.Value("Scanner:Model"))
	assert.Equal(t, tags.String("Epson Scan 2"), s.Value("Scanner:Software:Name"))
	assert.Equal(t, 2, s.Len())
}

func TestExtractScanner_NikonScanMakerNotes(t *testing.T) {
	reader := &fakeReader{
		single: map[string]string{
			"Model":    "LS-50 ED",
			"Software": "Nikon Scan 4.0.2",
		},
		groups: map[string]map[string]string{
			"NikonScan:all": {
				"SourceFile":                   "scan.tif",
				"MakerNotes:MasterGain":        "-0.4",
				"MakerNotes:ColorGain":         "0.2 -0.5 0",
				"MakerNotes:DigitalICE":        "On",
				"MakerNotes:ScanImageEnhancer": "Off",
			},
		},
	}

	s, err := ExtractScanner(reader, "scan.tif")
	require.NoError(t, err)

	assert.False(t, s.Has("SourceFile"))
	assert.False(t, s.Has("Scanner:Software:SourceFile"))
	assert.Equal(t, tags.String("On"), s.Value("Scanner:Software:DigitalICE"))

	// Negative gains are reported 0.01 high by the driver.
	assert.Equal(t, tags.String("-0.41"), s.Value("Scanner:Software:MasterGain"))
	assert.Equal(t, tags.String("0.2, -0.51, 0"), s.Value("Scanner:Software:ColorGain"))

	// Implicit auto-exposure made explicit.
	assert.Equal(t, tags.Bool(true), s.Value("Scanner:Software:AutoExposure"))
}

func TestExtractScanner_PositiveGainsUntouched(t *testing.T) {
	reader := &fakeReader{
		single: map[string]string{
			"Model":    "LS-50 ED",
			"Software": "Nikon Scan 4.0.2",
		},
		groups: map[string]map[string]string{
			"NikonScan:all": {"MakerNotes:MasterGain": "0.4"},
		},
	}

	s, err := ExtractScanner(reader, "scan.tif")
	require.NoError(t, err)
	assert.Equal(t, tags.String("0.4"), s.Value("Scanner:Software:MasterGain"))
}

func TestExtractScanner_BadColorGain(t *testing.T) {
	reader := &fakeReader{
		single: map[string]string{
			"Model":    "LS-50 ED",
			"Software": "Nikon Scan 4.0.2",
		},
		groups: map[string]map[string]string{
			"NikonScan:all": {"MakerNotes:ColorGain": "0.2 huh"},
		},
	}

	_, err := ExtractScanner(reader, "scan.tif")
	assert.True(t, errors.Is(err, photoscan.ErrDecode))
}

func TestExtractScanner_MissingIdentity(t *testing.T) {
	s, err := ExtractScanner(&fakeReader{single: map[string]string{}}, "scan.tif")
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())
}

var _ photoscan.TagReader = (*fakeReader)(nil)
