package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ataluts/photo-scan-tools/internal/exiftool"
	"github.com/ataluts/photo-scan-tools/internal/files/filesystem"
	"github.com/ataluts/photo-scan-tools/internal/logging"
	"github.com/ataluts/photo-scan-tools/internal/pipeline"
	"github.com/ataluts/photo-scan-tools/pkg/photoscan"
)

var processCmd = &cobra.Command{
	Use:   "process <base_dir> <output_path>",
	Short: "Transform scans and write their resolved metadata",
	Long: `Process walks the base directory, decodes each filename into tags,
layers in the per-directory metadata files, transforms the image, renames it
from the output path template, and writes the tags with exiftool.

Arguments:
  base_dir       Directory containing the scanned images
  output_path    Path template for processed files, or an existing directory
                 to mirror the base directory structure into

Template placeholders name tags, e.g. {Extra:FilmID} or {Extra:FilePath};
relative results are resolved against each file's own directory.

Examples:
  # Rename in place from the default template
  photoscan process ./scans ./scans

  # Sort into per-film directories
  photoscan process ./scans "out/{Extra:FilmID}/{Extra:FileID}{Extra:FileExtension}"

  # Stage temporary copies on a scratch disk
  photoscan process ./scans ./out --tempdir /mnt/scratch`,
	Args: cobra.ExactArgs(2),
	RunE: runProcess,
}

type processFlagValues struct {
	tempDir  string
	metafile string
}

var processFlags processFlagValues

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVar(&processFlags.tempDir, "tempdir", "",
		"Directory for temporary working copies\n"+
			"(default: deepest existing ancestor of each file's output path)")
	processCmd.Flags().StringVar(&processFlags.metafile, "metafile", "",
		"Per-directory metadata file name, or an absolute path used standalone\n"+
			"(default \"metadata.txt\")")
}

func runProcess(cmd *cobra.Command, args []string) error {
	baseDir, outputPath := args[0], args[1]
	verbose := getVerboseFlag(cmd)
	_ = godotenv.Load()

	projectCfg, err := loadProjectConfig(baseDir)
	if err != nil {
		return fmt.Errorf("%w: %v", photoscan.ErrInvalidConfig, err)
	}
	scanFlags := getScanFlags(cmd, projectCfg)

	tempDir := processFlags.tempDir
	metafile := processFlags.metafile
	if projectCfg != nil {
		if tempDir == "" {
			tempDir = projectCfg.Process.TempDir
		}
		if metafile == "" {
			metafile = projectCfg.Scan.Metafile
		}
	}

	exe, err := exiftool.Find(scanFlags.exiftool)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "[VERBOSE] Run parameters:\n")
		fmt.Fprintf(os.Stderr, "  Base directory: %s\n", baseDir)
		fmt.Fprintf(os.Stderr, "  Output path: %s\n", outputPath)
		fmt.Fprintf(os.Stderr, "  Wildcards: %s\n", formatWildcards(scanFlags.wildcards))
		fmt.Fprintf(os.Stderr, "  Directory depth: %d\n", scanFlags.dirDepth)
		fmt.Fprintf(os.Stderr, "  exiftool: %s\n", exe)
	}

	logger := logging.NewConsoleLogger(verbose)
	fs := filesystem.NewOSFileSystem()
	tool := exiftool.New(exe)

	summary, err := pipeline.Run(fs, tool, logger, pipeline.RunConfig{
		BaseDir:        baseDir,
		OutputTemplate: outputPath,
		TempDir:        tempDir,
		MetafileName:   metafile,
		Wildcards:      scanFlags.wildcards,
		DirDepth:       scanFlags.dirDepth,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Processed %d of %d file(s), %d failed, elapsed %s\n",
		summary.Processed, summary.Matched, summary.Failed, pipeline.FormatDuration(summary.Duration))
	if summary.Failed > 0 {
		return fmt.Errorf("%d file(s) failed", summary.Failed)
	}
	return nil
}
