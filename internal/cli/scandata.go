package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ataluts/photo-scan-tools/internal/exiftool"
	"github.com/ataluts/photo-scan-tools/internal/files/filesystem"
	"github.com/ataluts/photo-scan-tools/internal/logging"
	"github.com/ataluts/photo-scan-tools/internal/pipeline"
	"github.com/ataluts/photo-scan-tools/internal/scandata"
	"github.com/ataluts/photo-scan-tools/pkg/photoscan"
)

var scandataCmd = &cobra.Command{
	Use:   "scandata <base_dir>",
	Short: "List scanner metadata into a CSV table",
	Long: `Scandata collects the scanner-reported metadata of every matching file
into a CSV table, one row per file, with the Nikon Scan gain corrections
applied.

Examples:
  # List into scandata.csv in the base directory
  photoscan scandata ./scans

  # List into a custom table with bare filenames
  photoscan scandata ./scans --output report.csv --omitdir --cleanname`,
	Args: cobra.ExactArgs(1),
	RunE: runScandata,
}

type scandataFlagValues struct {
	output    string
	omitDir   bool
	cleanName bool
}

var scandataFlags scandataFlagValues

func init() {
	rootCmd.AddCommand(scandataCmd)

	scandataCmd.Flags().StringVar(&scandataFlags.output, "output", "",
		"Output CSV path (default scandata.csv in the base directory)")
	scandataCmd.Flags().BoolVar(&scandataFlags.omitDir, "omitdir", false,
		"Drop the directory part from the File column")
	scandataCmd.Flags().BoolVar(&scandataFlags.cleanName, "cleanname", false,
		"Strip encoded metadata from the File column, keeping the leading segment")
}

func runScandata(cmd *cobra.Command, args []string) error {
	baseDir := args[0]
	verbose := getVerboseFlag(cmd)

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

	summary, err := scandata.Run(fs, tool, logger, scandata.RunConfig{
		BaseDir:    baseDir,
		OutputPath: scandataFlags.output,
		Wildcards:  scanFlags.wildcards,
		DirDepth:   scanFlags.dirDepth,
		OmitDir:    scandataFlags.omitDir,
		CleanName:  scandataFlags.cleanName,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Listed %d file(s) into %s, %d failed, elapsed %s\n",
		summary.Matched-summary.Failed, summary.Output, summary.Failed,
		pipeline.FormatDuration(summary.Duration))
	return nil
}
