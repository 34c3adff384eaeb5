package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ataluts/photo-scan-tools/internal/exiftool"
	"github.com/ataluts/photo-scan-tools/internal/files/filesystem"
	"github.com/ataluts/photo-scan-tools/internal/logging"
	"github.com/ataluts/photo-scan-tools/internal/pipeline"
	"github.com/ataluts/photo-scan-tools/internal/xmp"
	"github.com/ataluts/photo-scan-tools/pkg/photoscan"
)

var xmpCmd = &cobra.Command{
	Use:   "xmp <base_dir>",
	Short: "Extract or delete embedded XMP blocks",
	Long: `Xmp pulls the embedded XMP block of every matching file into an .xmp
sidecar, deletes the embedded block, or both. Extraction before deletion
keeps editor-written metadata recoverable.

Examples:
  # Sidecars next to their sources
  photoscan xmp ./scans --extract

  # Sidecars mirrored into a separate tree, then strip the originals
  photoscan xmp ./scans --extract --output ./sidecars --delete`,
	Args: cobra.ExactArgs(1),
	RunE: runXMP,
}

type xmpFlagValues struct {
	extract   bool
	outputDir string
	delete    bool
}

var xmpFlags xmpFlagValues

func init() {
	rootCmd.AddCommand(xmpCmd)

	xmpCmd.Flags().BoolVar(&xmpFlags.extract, "extract", false,
		"Extract embedded XMP into .xmp sidecar files")
	xmpCmd.Flags().StringVar(&xmpFlags.outputDir, "output", "",
		"Directory to mirror the sidecars into (default: next to the sources)")
	xmpCmd.Flags().BoolVar(&xmpFlags.delete, "delete", false,
		"Delete the embedded XMP block from the source files")
}

func runXMP(cmd *cobra.Command, args []string) error {
	baseDir := args[0]
	verbose := getVerboseFlag(cmd)

	if !xmpFlags.extract && !xmpFlags.delete {
		return fmt.Errorf("%w: nothing to do, pass --extract and/or --delete", photoscan.ErrInvalidConfig)
	}

	projectCfg, err := loadProjectConfig(baseDir)
	if err != nil {
		return fmt.Errorf("%w: %v", photoscan.ErrInvalidConfig, err)
	}
	scanFlags := getScanFlags(cmd, projectCfg)

	exe, err := exiftool.Find(scanFlags.exiftool)
	if err != nil {
		return err
	}

	logger := logging.NewConsoleLogger(verbose)
	fs := filesystem.NewOSFileSystem()
	tool := exiftool.New(exe)

	summary, err := xmp.Run(fs, tool, logger, xmp.RunConfig{
		BaseDir:   baseDir,
		Extract:   xmpFlags.extract,
		OutputDir: xmpFlags.outputDir,
		Delete:    xmpFlags.delete,
		Wildcards: scanFlags.wildcards,
		DirDepth:  scanFlags.dirDepth,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Handled %d file(s), %d failed, elapsed %s\n",
		summary.Matched, summary.Failed, pipeline.FormatDuration(summary.Duration))
	return nil
}
