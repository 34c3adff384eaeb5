package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

// ToolConfig points at the external metadata tool.
type ToolConfig struct {
	ExifTool string `yaml:"exiftool,omitempty"`
}

// ScanConfig covers the directory traversal settings shared by all
// commands.
type ScanConfig struct {
	Wildcards []string `yaml:"wildcards,omitempty"`
	DirDepth  *int     `yaml:"dirdepth,omitempty"`
	Metafile  string   `yaml:"metafile,omitempty"`
}

// ProcessConfig covers the main processing command.
type ProcessConfig struct {
	OutputTemplate string `yaml:"output_template,omitempty"`
	TempDir        string `yaml:"tempdir,omitempty"`
}

// CropConfig covers the crop-detection command.
type CropConfig struct {
	Color         string `yaml:"color,omitempty"`
	CheckMultiple int    `yaml:"check_multiple,omitempty"`
}

type ProjectConfig struct {
	Tool    ToolConfig    `yaml:"tool"`
	Scan    ScanConfig    `yaml:"scan"`
	Process ProcessConfig `yaml:"process"`
	Crop    CropConfig    `yaml:"crop"`
	Verbose bool          `yaml:"verbose"`
}

const ConfigFileName = "photoscan.yaml"

// Load reads the config file from sourcePath. Command-line flags take
// precedence over anything loaded here.
func Load(sourcePath string) (*ProjectConfig, error) {
	configPath := filepath.Join(sourcePath, ConfigFileName)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
