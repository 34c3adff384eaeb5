package xmp

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ataluts/photo-scan-tools/internal/files/filesystem"
	"github.com/ataluts/photo-scan-tools/internal/logging"
)

type fakeTool struct {
	packets map[string][]byte
	deleted []string
}

func (f *fakeTool) ExtractXMP(path string) ([]byte, error) { return f.packets[path], nil }

func (f *fakeTool) DeleteXMP(path string) error {
	f.deleted = append(f.deleted, path)
	return nil
}

const rawPacket = "<?xpacket begin=\"\" id=\"W5M0MpCehiHzreSzNTczkc9d\"?>\r\n" +
	"<x:xmpmeta xmlns:x=\"adobe:ns:meta/\">\n" +
	"\n" +
	"  <rdf:RDF/>\n" +
	"</x:xmpmeta>\n" +
	"<?xpacket end=\"w\"?>\n"

func TestExtract_CleansPacketLines(t *testing.T) {
	fs := filesystem.NewMemoryFileSystem()
	tool := &fakeTool{packets: map[string][]byte{"scan.tif": []byte(rawPacket)}}

	sidecar, err := Extract(fs, tool, "scan.tif", "")
	require.NoError(t, err)
	assert.Equal(t, "scan.xmp", sidecar)

	content, ok := fs.Content("scan.xmp")
	require.True(t, ok)
	want := "<x:xmpmeta xmlns:x=\"adobe:ns:meta/\">\n" +
		"  <rdf:RDF/>\n" +
		"</x:xmpmeta>\n"
	assert.Equal(t, want, string(content))
}

func TestExtract_NoData(t *testing.T) {
	fs := filesystem.NewMemoryFileSystem()
	tool := &fakeTool{packets: map[string][]byte{}}

	_, err := Extract(fs, tool, "scan.tif", "")
	assert.True(t, errors.Is(err, ErrNoData))
	assert.False(t, fs.Exists("scan.xmp"))
}

func TestRun_MirrorsStructureIntoOutputDir(t *testing.T) {
	fs := filesystem.NewMemoryFileSystem()
	fs.AddFile("base/roll1/a.tif", []byte("img"))
	fs.AddFile("base/roll1/b.tif", []byte("img"))
	tool := &fakeTool{packets: map[string][]byte{
		"base/roll1/a.tif": []byte(rawPacket),
	}}

	summary, err := Run(fs, tool, logging.NewNullLogger(), RunConfig{
		BaseDir:   "base",
		Extract:   true,
		OutputDir: "sidecars",
		DirDepth:  -1,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Matched)
	assert.Equal(t, 0, summary.Failed)
	assert.True(t, fs.Exists("sidecars/roll1/a.xmp"))
	// b.tif has no packet: nothing written, not a failure.
	assert.False(t, fs.Exists("sidecars/roll1/b.xmp"))
}

func TestRun_Delete(t *testing.T) {
	fs := filesystem.NewMemoryFileSystem()
	fs.AddFile("base/a.tif", []byte("img"))
	tool := &fakeTool{packets: map[string][]byte{}}

	_, err := Run(fs, tool, logging.NewNullLogger(), RunConfig{
		BaseDir:  "base",
		Delete:   true,
		DirDepth: -1,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"base/a.tif"}, tool.deleted)
}
