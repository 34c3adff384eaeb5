package exiftool

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ataluts/photo-scan-tools/internal/tags"
	"github.com/ataluts/photo-scan-tools/pkg/photoscan"
)

// ExtractScanner reads scanner identity and driver metadata from a
// file into a Scanner:* increment. For Nikon scanners the maker-note
// block is folded in under Scanner:Software, with two corrections for
// known Nikon Scan quirks: negative gain values read back 0.01 higher
// than set, and the implicit auto-exposure flag is made explicit.
func ExtractScanner(reader photoscan.TagReader, path string) (*tags.Store, error) {
	s := tags.NewStore()

	model, err := reader.ReadTag(path, "Model")
	if err != nil {
		return nil, err
	}
	if model != "" {
		s.Set("Scanner:Model", tags.String(model))
	}
	software, err := reader.ReadTag(path, "Software")
	if err != nil {
		return nil, err
	}
	if software != "" {
		s.Set("Scanner:Software:Name", tags.String(software))
	}

	if model == "" || software == "" {
		return s, nil
	}
	if !strings.Contains(strings.ToLower(model), "nikon") ||
		!strings.Contains(strings.ToLower(software), "nikon") {
		return s, nil
	}

	notes, err := reader.ReadTags(path, "NikonScan:all")
	if err != nil {
		return nil, err
	}
	for name, value := range notes {
		if name == "SourceFile" {
			continue
		}
		name = strings.TrimPrefix(name, "MakerNotes:")
		s.Set("Scanner:Software:"+name, tags.String(value))
	}

	if strings.Contains(software, "Nikon Scan") {
		if err := fixNikonScanGains(s); err != nil {
			return nil, err
		}
		if s.Has("Scanner:Software:MasterGain") {
			s.Set("Scanner:Software:AutoExposure", tags.Bool(true))
		}
	}
	return s, nil
}

// fixNikonScanGains compensates the driver reporting negative gains
// 0.01 above their GUI setting.
func fixNikonScanGains(s *tags.Store) error {
	if master, ok := s.Value("Scanner:Software:MasterGain").Str(); ok {
		value, err := strconv.ParseFloat(master, 64)
		if err != nil {
			return fmt.Errorf("%w: can't parse NikonScan:MasterGain value", photoscan.ErrDecode)
		}
		if value < 0 {
			value -= 0.01
		}
		s.Set("Scanner:Software:MasterGain", tags.String(strconv.FormatFloat(value, 'g', 6, 64)))
	}

	if color, ok := s.Value("Scanner:Software:ColorGain").Str(); ok {
		parts := strings.Fields(color)
		fixed := make([]string, 0, len(parts))
		for _, part := range parts {
			value, err := strconv.ParseFloat(part, 64)
			if err != nil {
				return fmt.Errorf("%w: can't parse NikonScan:ColorGain value", photoscan.ErrDecode)
			}
			if value < 0 {
				value -= 0.01
			}
			fixed = append(fixed, strconv.FormatFloat(value, 'g', 6, 64))
		}
		s.Set("Scanner:Software:ColorGain", tags.String(strings.Join(fixed, ", ")))
	}
	return nil
}
