package pipeline

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/tiff"

	"github.com/ataluts/photo-scan-tools/internal/exiftool"
	"github.com/ataluts/photo-scan-tools/internal/files/filesystem"
	"github.com/ataluts/photo-scan-tools/internal/imageio"
	"github.com/ataluts/photo-scan-tools/internal/logging"
	"github.com/ataluts/photo-scan-tools/internal/raster"
	"github.com/ataluts/photo-scan-tools/internal/tags"
	"github.com/ataluts/photo-scan-tools/pkg/photoscan"
)

// fakeTool replays canned tag reads and records every write.
type fakeTool struct {
	single  map[string]string            // tag -> value, any path
	grouped map[string]map[string]string // group -> tags

	applied     map[string][]photoscan.Assignment
	applyErr    error
	copiedPairs [][2]string
	injected    []string
}

func newFakeTool() *fakeTool {
	return &fakeTool{
		single:  make(map[string]string),
		grouped: make(map[string]map[string]string),
		applied: make(map[string][]photoscan.Assignment),
	}
}

func (f *fakeTool) ReadTag(path, tag string) (string, error) { return f.single[tag], nil }

func (f *fakeTool) ReadTags(path, group string) (map[string]string, error) {
	return f.grouped[group], nil
}

func (f *fakeTool) ApplyTags(path string, assignments []photoscan.Assignment) error {
	if f.applyErr != nil {
		return f.applyErr
	}
	f.applied[path] = assignments
	return nil
}

func (f *fakeTool) CopyAllTags(src, dst string) error {
	f.copiedPairs = append(f.copiedPairs, [2]string{src, dst})
	return nil
}

func (f *fakeTool) ExtractICC(path string) ([]byte, error) { return []byte("icc-data"), nil }

func (f *fakeTool) InjectICC(path, profilePath string) error {
	f.injected = append(f.injected, path)
	return nil
}

var _ MetadataTool = (*fakeTool)(nil)

func testTIFF(t *testing.T, width, height int) []byte {
	t.Helper()
	img := raster.New(width, height, 1)
	for i := range img.Pix {
		img.Pix[i] = uint16(i)
	}
	data, err := imageio.Encode(img, 16, &tiff.Options{})
	require.NoError(t, err)
	return data
}

func fixedClock() (func() time.Time, *time.Location) {
	zone := time.FixedZone("UTC+3", 3*60*60)
	return func() time.Time { return time.Date(2025, 6, 19, 14, 30, 5, 0, zone) }, zone
}

// appliedArgs returns the single recorded write: the path the tags
// went to and its rendered argument list.
func appliedArgs(t *testing.T, tool *fakeTool) (string, []string) {
	t.Helper()
	require.Len(t, tool.applied, 1, "expected exactly one tag write, got %v", tool.applied)
	for path, assignments := range tool.applied {
		return path, exiftool.Args(assignments)
	}
	return "", nil
}

func TestRun_EndToEnd(t *testing.T) {
	fs := filesystem.NewMemoryFileSystem()
	fs.AddFile("base/roll12__F7-3_S2-1_D2000-5-1_MC-D325EF@Panasonic.tif", testTIFF(t, 6, 4))
	fs.AddFile("base/metadata.txt", []byte("ColorSpace = sRGB\nArtist = A. Taluts\n"))
	require.NoError(t, fs.MkdirAll("tmp"))

	tool := newFakeTool()
	tool.single["ModifyDate"] = "2025:06:19 10.00.00"

	now, zone := fixedClock()
	summary, err := Run(fs, tool, logging.NewNullLogger(), RunConfig{
		BaseDir:        "base",
		OutputTemplate: "out/{Extra:FilmID}/{Extra:FileID}.tif",
		TempDir:        "tmp",
		DirDepth:       -1,
		Now:            now,
		Location:       zone,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Matched)
	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 0, summary.Failed)

	output := "base/out/7/roll12.tif"
	assert.True(t, fs.Exists(output), "output not staged: %v", fs.Paths())

	// Tags were written to the staged copy, not the destination.
	appliedPath, args := appliedArgs(t, tool)
	assert.True(t, strings.HasPrefix(appliedPath, "tmp/roll12"), "tags applied to %s", appliedPath)
	assert.True(t, strings.HasSuffix(appliedPath, ".tmp"), "tags applied to %s", appliedPath)
	assert.Contains(t, args, "-Make=Panasonic")
	assert.Contains(t, args, "-Model=C-D325EF")
	assert.Contains(t, args, "-DateTimeOriginal=2000:05:01 00:00:00")
	assert.Contains(t, args, "-DocumentName=7-03_S2-1")
	assert.Contains(t, args, "-ColorSpace=sRGB")
	assert.Contains(t, args, "-Artist=A. Taluts")
	// Device rule pinned the fixed-lens optics.
	assert.Contains(t, args, "-ExposureTime=1/130")
	assert.Contains(t, args, "-FNumber=9")
	assert.Contains(t, args, "-LensInfo=34 34 5.6 5.6")
	// Auto-filled from the clock, the tool and the image header.
	assert.Contains(t, args, "-ModifyDate=2025:06:19 14:30:05")
	assert.Contains(t, args, "-OffsetTime=+03:00")
	assert.Contains(t, args, "-CreateDate=2025:06:19 10:00:00")
	assert.Contains(t, args, "-ExifImageWidth=6")
	assert.Contains(t, args, "-ExifImageHeight=4")
	assert.Contains(t, args, "-MakerNotes:All=")

	for _, arg := range args {
		for _, group := range strippedGroups {
			assert.False(t, strings.HasPrefix(arg, "-"+group), "internal tag leaked: %s", arg)
		}
	}
}

func TestRun_ToolFailureLeavesDestinationUntouched(t *testing.T) {
	fs := filesystem.NewMemoryFileSystem()
	fs.AddFile("base/roll12__F7-3_S2-1_D2000-5-1_MC-D325EF@Panasonic.tif", testTIFF(t, 6, 4))
	fs.AddFile("base/metadata.txt", []byte("ColorSpace = sRGB\n"))
	require.NoError(t, fs.MkdirAll("tmp"))

	tool := newFakeTool()
	tool.single["ModifyDate"] = "2025:06:19 10.00.00"
	tool.applyErr = photoscan.ErrTool

	now, zone := fixedClock()
	summary, err := Run(fs, tool, logging.NewNullLogger(), RunConfig{
		BaseDir:        "base",
		OutputTemplate: "out/{Extra:FilmID}/{Extra:FileID}.tif",
		TempDir:        "tmp",
		DirDepth:       -1,
		Now:            now,
		Location:       zone,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Failed)

	// The destination never sees an untagged file; the staged copy
	// stays behind for inspection.
	assert.False(t, fs.Exists("base/out/7/roll12.tif"), "untagged file at destination: %v", fs.Paths())
	staged := false
	for _, p := range fs.Paths() {
		if strings.HasPrefix(p, "tmp/roll12") && strings.HasSuffix(p, ".tmp") {
			staged = true
		}
	}
	assert.True(t, staged, "temp copy missing: %v", fs.Paths())
}

func TestRun_ContinuesPastPerFileErrors(t *testing.T) {
	fs := filesystem.NewMemoryFileSystem()
	// Flip flag without a rotation angle is a decode error.
	fs.AddFile("base/bad__RH.tif", testTIFF(t, 2, 2))
	fs.AddFile("base/ok__MC-D325EF@Panasonic_D2000.tif", testTIFF(t, 2, 2))
	fs.AddFile("base/metadata.txt", []byte("ColorSpace = sRGB\n"))
	require.NoError(t, fs.MkdirAll("tmp"))

	tool := newFakeTool()
	tool.single["ModifyDate"] = "2025:06:19 10.00.00"

	now, zone := fixedClock()
	summary, err := Run(fs, tool, logging.NewNullLogger(), RunConfig{
		BaseDir:        "base",
		OutputTemplate: "out/{Extra:FileID}.tif",
		TempDir:        "tmp",
		DirDepth:       -1,
		Now:            now,
		Location:       zone,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Matched)
	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 1, summary.Failed)
	assert.True(t, fs.Exists("base/out/ok.tif"))
}

func TestRun_MissingBaseDirAborts(t *testing.T) {
	fs := filesystem.NewMemoryFileSystem()
	_, err := Run(fs, newFakeTool(), logging.NewNullLogger(), RunConfig{BaseDir: "nope"})
	assert.ErrorIs(t, err, photoscan.ErrBaseDirMissing)
}

func TestRun_DirDepthLimit(t *testing.T) {
	fs := filesystem.NewMemoryFileSystem()
	fs.AddFile("base/a__MC@M_D2000.tif", testTIFF(t, 2, 2))
	fs.AddFile("base/deep/b__MC@M_D2000.tif", testTIFF(t, 2, 2))
	fs.AddFile("base/metadata.txt", []byte("ColorSpace = sRGB\n"))
	require.NoError(t, fs.MkdirAll("tmp"))

	tool := newFakeTool()
	tool.single["ModifyDate"] = "2025:06:19 10.00.00"
	now, zone := fixedClock()

	summary, err := Run(fs, tool, logging.NewNullLogger(), RunConfig{
		BaseDir:        "base",
		OutputTemplate: "out/{Extra:FileID}.tif",
		TempDir:        "tmp",
		DirDepth:       0,
		Now:            now,
		Location:       zone,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Matched)
}

func TestProcessFile_TransformRewritesPixels(t *testing.T) {
	fs := filesystem.NewMemoryFileSystem()
	fs.AddFile("base/in.tif", testTIFF(t, 4, 3))
	require.NoError(t, fs.MkdirAll("tmp"))

	tool := newFakeTool()
	tool.single["ModifyDate"] = "2025:06:19 10.00.00"
	now, zone := fixedClock()

	store := Defaults()
	store.Set("Make", tags.String("Panasonic"))
	store.Set("Model", tags.String("C-D325EF"))
	store.Set("DateTimeOriginal", tags.String("2000:05:01 00:00:00"))
	store.Set("ColorSpace", tags.String("sRGB"))
	store.Set("ImageTransform:Enabled", tags.Bool(true))
	store.Set("ImageTransform:Crop", tags.Ints(1, 0, 2, 2))

	proc := &Processor{
		FS:             fs,
		Tool:           tool,
		Log:            logging.NewNullLogger(),
		OutputTemplate: "out.tif",
		TempDir:        "tmp",
		Now:            now,
		Location:       zone,
	}
	output, err := proc.ProcessFile("base/in.tif", store)
	require.NoError(t, err)
	assert.Equal(t, "base/out.tif", output)

	img, _, err := imageio.ReadFile(fs, output)
	require.NoError(t, err)
	assert.Equal(t, 2, img.Width)
	assert.Equal(t, 2, img.Height)

	// Original tags and color profile were restored onto the rewritten
	// container, and the profile scratch file was cleaned up.
	require.Len(t, tool.copiedPairs, 1)
	assert.Equal(t, "base/in.tif", tool.copiedPairs[0][0])
	require.Len(t, tool.injected, 1)
	for _, p := range fs.Paths() {
		assert.False(t, strings.HasSuffix(p, ".icc"), "icc scratch file left behind: %s", p)
	}
}

func TestProcessFile_TempStagedAtDeepestExistingAncestor(t *testing.T) {
	fs := filesystem.NewMemoryFileSystem()
	fs.AddFile("base/in.tif", testTIFF(t, 2, 2))

	tool := newFakeTool()
	tool.single["ModifyDate"] = "2025:06:19 10.00.00"
	now, zone := fixedClock()

	store := Defaults()
	store.Set("Make", tags.String("M"))
	store.Set("Model", tags.String("C"))
	store.Set("DateTimeOriginal", tags.String("2000:01:01 00:00:00"))
	store.Set("ColorSpace", tags.String("sRGB"))
	store.Set("Extra:FileID", tags.String("in"))

	proc := &Processor{
		FS:             fs,
		Tool:           tool,
		Log:            logging.NewNullLogger(),
		OutputTemplate: "missing/{Extra:FileID}.tif",
		Now:            now,
		Location:       zone,
	}
	// No temp dir given: staging falls back to the deepest existing
	// ancestor of base/missing/..., which is base itself.
	output, err := proc.ProcessFile("base/in.tif", store)
	require.NoError(t, err)
	assert.Equal(t, "base/missing/in.tif", output)
	assert.True(t, fs.Exists(output))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "00:00:05", FormatDuration(5*time.Second))
	assert.Equal(t, "01:02:03", FormatDuration(3723*time.Second))
}
