package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ataluts/photo-scan-tools/internal/cropfind"
	"github.com/ataluts/photo-scan-tools/internal/files/filesystem"
	"github.com/ataluts/photo-scan-tools/internal/logging"
	"github.com/ataluts/photo-scan-tools/pkg/photoscan"
)

var cropfindCmd = &cobra.Command{
	Use:   "cropfind <base_dir>",
	Short: "Detect crop areas in masked scan copies",
	Long: `Cropfind locates the mask-colored bounding box in each scan and carries
the result into filenames as a crop token, so a later processing run picks the
box up from the name alone.

A detection run (--search) can feed a rename directly or go through a CSV
table (--to-csv / --from-csv) for manual review in between.

Examples:
  # Detect and rename in one pass
  photoscan cropfind ./masked --search --rename --crop-color 0,0,0

  # Detect into a table for review, then apply it
  photoscan cropfind ./masked --search --to-csv crop.csv --crop-color 0xff
  photoscan cropfind ./masked --rename --from-csv crop.csv

  # Revert crop-token renaming
  photoscan cropfind ./masked --unname`,
	Args: cobra.ExactArgs(1),
	RunE: runCropfind,
}

type cropfindFlagValues struct {
	search, rename, unname bool
	toCSV, fromCSV         string
	cropColor              string
	checkMultiple          int
}

var cropfindFlags cropfindFlagValues

func init() {
	rootCmd.AddCommand(cropfindCmd)

	cropfindCmd.Flags().BoolVar(&cropfindFlags.search, "search", false,
		"Detect crop areas in the matching images")
	cropfindCmd.Flags().BoolVar(&cropfindFlags.rename, "rename", false,
		"Append the detected crop token to the filenames")
	cropfindCmd.Flags().BoolVar(&cropfindFlags.unname, "unname", false,
		"Remove crop tokens from the filenames")
	cropfindCmd.Flags().StringVar(&cropfindFlags.toCSV, "to-csv", "",
		"Write detection results to a CSV table")
	cropfindCmd.Flags().StringVar(&cropfindFlags.fromCSV, "from-csv", "",
		"Read crop data for --rename from a CSV table instead of detecting")
	cropfindCmd.Flags().StringVar(&cropfindFlags.cropColor, "crop-color", "",
		"Mask color as comma-separated components, decimal or 0x hex\n"+
			"One component for grayscale, three for RGB")
	cropfindCmd.Flags().IntVar(&cropfindFlags.checkMultiple, "check-multiple", 0,
		"Flag detected dimensions that are not a multiple of this value")
}

func runCropfind(cmd *cobra.Command, args []string) error {
	baseDir := args[0]
	verbose := getVerboseFlag(cmd)

	if !cropfindFlags.search && !cropfindFlags.rename && !cropfindFlags.unname {
		return fmt.Errorf("%w: nothing to do, pass --search, --rename or --unname", photoscan.ErrInvalidConfig)
	}
	if cropfindFlags.unname && (cropfindFlags.search || cropfindFlags.rename) {
		return fmt.Errorf("%w: --unname cannot be combined with --search or --rename", photoscan.ErrInvalidConfig)
	}

	projectCfg, err := loadProjectConfig(baseDir)
	if err != nil {
		return fmt.Errorf("%w: %v", photoscan.ErrInvalidConfig, err)
	}
	scanFlags := getScanFlags(cmd, projectCfg)

	cropColor := cropfindFlags.cropColor
	checkMultiple := cropfindFlags.checkMultiple
	if projectCfg != nil {
		if cropColor == "" {
			cropColor = projectCfg.Crop.Color
		}
		if !cmd.Flags().Changed("check-multiple") && projectCfg.Crop.CheckMultiple > 0 {
			checkMultiple = projectCfg.Crop.CheckMultiple
		}
	}

	logger := logging.NewConsoleLogger(verbose)
	fs := filesystem.NewOSFileSystem()

	if cropfindFlags.unname {
		return cropfind.Unname(fs, logger, baseDir, scanFlags.wildcards, scanFlags.dirDepth)
	}

	var results []cropfind.Result
	if cropfindFlags.search {
		color, err := cropfind.ParseColor(cropColor)
		if err != nil {
			return err
		}
		results, err = cropfind.Search(fs, logger, cropfind.SearchConfig{
			BaseDir:       baseDir,
			Color:         color,
			Wildcards:     scanFlags.wildcards,
			DirDepth:      scanFlags.dirDepth,
			CheckMultiple: checkMultiple,
		})
		if err != nil {
			return err
		}
		if cropfindFlags.toCSV != "" {
			if err := cropfind.WriteCSV(fs, cropfindFlags.toCSV, results); err != nil {
				return err
			}
			logger.Info("crop data written to %s", cropfindFlags.toCSV)
		}
	} else if cropfindFlags.fromCSV != "" {
		results, err = cropfind.ReadCSV(fs, cropfindFlags.fromCSV)
		if err != nil {
			return err
		}
	}

	if cropfindFlags.rename {
		if results == nil {
			return fmt.Errorf("%w: --rename needs --search or --from-csv for crop data", photoscan.ErrInvalidConfig)
		}
		return cropfind.Rename(fs, logger, baseDir, results, scanFlags.wildcards, scanFlags.dirDepth)
	}
	return nil
}
