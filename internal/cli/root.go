package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ataluts/photo-scan-tools/internal/config"
	"github.com/ataluts/photo-scan-tools/pkg/photoscan"
	"github.com/spf13/cobra"
)

const asciiLogo = `       _           _
 _ __ | |__   ___ | |_ ___  ___  ___ __ _ _ __
| '_ \| '_ \ / _ \| __/ _ \/ __|/ __/ _' | '_ \
| |_) | | | | (_) | || (_) \__ \ (_| (_| | | | |
| .__/|_| |_|\___/ \__\___/|___/\___\__,_|_| |_|
|_|`

var rootCmd = &cobra.Command{
	Use:   "photoscan",
	Short: "Film scan post-processing toolbox",
	Long: asciiLogo + `

photoscan decodes shooting metadata from scan filenames and layered
metadata files, transforms the images, renames them from a path
template, and writes the resolved tags with exiftool.

Exit Codes:
  0  - Success (per-file failures are counted, not fatal)
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration or parameters
  11 - exiftool executable not found
  12 - Base directory does not exist`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().Bool("help", false, "Help for photoscan")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
	rootCmd.PersistentFlags().String("exiftool", "",
		"Path to the exiftool executable or its directory\n"+
			"Precedence: --exiftool > $PHOTOSCAN_EXIFTOOL > program directory > $PATH")
	rootCmd.PersistentFlags().StringSlice("wildcards", nil,
		"File patterns selecting scans (default \"*.tif,*.tiff\")")
	rootCmd.PersistentFlags().Int("dirdepth", -1,
		"How deep below the base directory files are picked up (-1 = unlimited)")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}

// loadProjectConfig reads photoscan.yaml from the base directory; a
// missing file is not an error, only a malformed one is.
func loadProjectConfig(baseDir string) (*config.ProjectConfig, error) {
	cfg, err := config.Load(baseDir)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load %s: %w", config.ConfigFileName, err)
	}
	return cfg, nil
}

// scanFlagValues resolves the traversal flags shared by all commands,
// letting the config file fill anything the command line left out.
type scanFlagValues struct {
	wildcards []string
	dirDepth  int
	exiftool  string
}

func getScanFlags(cmd *cobra.Command, cfg *config.ProjectConfig) scanFlagValues {
	flags := scanFlagValues{dirDepth: -1}

	if values, err := cmd.Flags().GetStringSlice("wildcards"); err == nil {
		flags.wildcards = values
	}
	if len(flags.wildcards) == 0 && cfg != nil {
		flags.wildcards = cfg.Scan.Wildcards
	}

	if depth, err := cmd.Flags().GetInt("dirdepth"); err == nil {
		flags.dirDepth = depth
	}
	if !cmd.Flags().Changed("dirdepth") && cfg != nil && cfg.Scan.DirDepth != nil {
		flags.dirDepth = *cfg.Scan.DirDepth
	}

	if explicit, err := cmd.Flags().GetString("exiftool"); err == nil {
		flags.exiftool = explicit
	}
	if flags.exiftool == "" {
		flags.exiftool = os.Getenv(photoscan.ExiftoolEnvVar)
	}
	if flags.exiftool == "" && cfg != nil {
		flags.exiftool = cfg.Tool.ExifTool
	}
	return flags
}

func formatWildcards(wildcards []string) string {
	if len(wildcards) == 0 {
		return photoscan.DefaultWildcards
	}
	return strings.Join(wildcards, ",")
}
