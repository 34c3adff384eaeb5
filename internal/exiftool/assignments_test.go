package exiftool

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ataluts/photo-scan-tools/internal/logging"
	"github.com/ataluts/photo-scan-tools/internal/tags"
	"github.com/ataluts/photo-scan-tools/pkg/photoscan"
)

func TestBuildAssignments_Forms(t *testing.T) {
	s := tags.NewStore()
	s.Set("Make", tags.String("Nikon"))
	s.Set("ISO", tags.Int(200))
	s.Set("Artist", tags.String(""))
	s.Set("MakerNotes:All", tags.Mark(tags.Delete))
	s.Set("Copyright", tags.Mark(tags.Optional))
	s.Set("GPSLatitude", tags.Mark(tags.Skip))
	s.Set("LensInfo", tags.Floats(34, 34, 5.6, 5.6))
	s.Set("UserComment", tags.String("line one\nline two"))

	assignments, err := BuildAssignments(s, logging.NewNullLogger())
	require.NoError(t, err)

	args := Args(assignments)
	assert.Equal(t, []string{
		"-Artist^=",
		"-ISO=200",
		"-LensInfo=34 34 5.6 5.6",
		"-Make=Nikon",
		"-MakerNotes:All=",
		"-UserComment=line one&#xd;&#xa;line two",
	}, args)
}

func TestBuildAssignments_EnumCodesRenderAsDisplayStrings(t *testing.T) {
	s := tags.NewStore()
	s.Set("ColorSpace", tags.Int(1))
	s.Set("ExposureMode", tags.Int(2))
	s.Set("WhiteBalance", tags.Int(1))
	s.Set("Orientation", tags.Int(6))
	s.Set("ISO", tags.Int(200)) // not enum-valued, stays numeric

	assignments, err := BuildAssignments(s, logging.NewNullLogger())
	require.NoError(t, err)

	args := Args(assignments)
	assert.Equal(t, []string{
		"-ColorSpace=sRGB",
		"-ExposureMode=Auto bracket",
		"-ISO=200",
		"-Orientation=Rotate 90 CW",
		"-WhiteBalance=Manual",
	}, args)
}

func TestBuildAssignments_MandatoryIsFatal(t *testing.T) {
	s := tags.NewStore()
	s.Set("Make", tags.Mark(tags.Mandatory))

	_, err := BuildAssignments(s, logging.NewNullLogger())
	assert.True(t, errors.Is(err, photoscan.ErrValidation))
	assert.Contains(t, err.Error(), "'Make'")
}

func TestBuildAssignments_SurvivingAutoEmitsDisplayForm(t *testing.T) {
	s := tags.NewStore()
	s.Set("CreateDate", tags.Mark(tags.Auto))

	assignments, err := BuildAssignments(s, logging.NewNullLogger())
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Equal(t, tags.Auto.String(), assignments[0].Value)
}

func TestBuildAssignments_InvalidDatetimeUsesRawForm(t *testing.T) {
	s := tags.NewStore()
	s.Set("DateTimeOriginal", tags.String("0000:00:00 00:00:00"))
	s.Set("ModifyDate", tags.String("2025:06:19 10:00:00"))
	s.Set("ImageTitle", tags.String("0000:00:00 00:00:00"))

	assignments, err := BuildAssignments(s, logging.NewNullLogger())
	require.NoError(t, err)

	args := Args(assignments)
	assert.Contains(t, args, "-DateTimeOriginal#=0000:00:00 00:00:00")
	assert.Contains(t, args, "-ModifyDate=2025:06:19 10:00:00")
	// Raw assignment is reserved for datetime tags.
	assert.Contains(t, args, "-ImageTitle=0000:00:00 00:00:00")
}
