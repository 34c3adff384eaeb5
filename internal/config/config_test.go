package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_AllFields(t *testing.T) {
	dir := t.TempDir()
	content := `tool:
  exiftool: /opt/exiftool/exiftool

scan:
  wildcards:
    - "*.tif"
    - "*.tiff"
  dirdepth: 2
  metafile: metadata.txt

process:
  output_template: "out/{FilmID}/{FileID}{FileExtension}"
  tempdir: /tmp/scans

crop:
  color: "0x00,0x00,0x00"
  check_multiple: 16

verbose: true
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "/opt/exiftool/exiftool", cfg.Tool.ExifTool)
	assert.Equal(t, []string{"*.tif", "*.tiff"}, cfg.Scan.Wildcards)
	require.NotNil(t, cfg.Scan.DirDepth)
	assert.Equal(t, 2, *cfg.Scan.DirDepth)
	assert.Equal(t, "metadata.txt", cfg.Scan.Metafile)
	assert.Equal(t, "out/{FilmID}/{FileID}{FileExtension}", cfg.Process.OutputTemplate)
	assert.Equal(t, "/tmp/scans", cfg.Process.TempDir)
	assert.Equal(t, "0x00,0x00,0x00", cfg.Crop.Color)
	assert.Equal(t, 16, cfg.Crop.CheckMultiple)
	assert.True(t, cfg.Verbose)
}

func TestLoad_MinimalYAML(t *testing.T) {
	dir := t.TempDir()
	content := `scan:
  metafile: meta.txt
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "", cfg.Tool.ExifTool)
	assert.Nil(t, cfg.Scan.DirDepth)
	assert.Equal(t, "meta.txt", cfg.Scan.Metafile)
	assert.False(t, cfg.Verbose)
}

func TestLoad_FileNotFound(t *testing.T) {
	cfg, err := Load(t.TempDir())
	assert.True(t, errors.Is(err, ErrConfigNotFound), "expected ErrConfigNotFound, got: %v", err)
	assert.Nil(t, cfg)
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("{{invalid"), 0644))

	cfg, err := Load(dir)
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(""), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, ProjectConfig{}, *cfg)
}
