// Package resolve applies device-specific conditional rules and fills
// AUTO-marked tags from context: the clock, previously resolved tags,
// the image header and the metadata tool.
package resolve

import (
	"github.com/ataluts/photo-scan-tools/internal/exif"
	"github.com/ataluts/photo-scan-tools/internal/tags"
)

// ApplyConditional overwrites device-specific tags once the maker and
// model are known. Rules only update tags that are present and
// writable; they never create tags.
func ApplyConditional(s *tags.Store) {
	maker, _ := s.Value("Make").Str()
	model, _ := s.Value("Model").Str()

	if maker == "Panasonic" && (model == "C-D325EF" || model == "C-325EF") {
		panasonic325EF(s)
	}
}

// panasonic325EF pins the fixed optics of the Panasonic C-(D)325EF.
func panasonic325EF(s *tags.Store) {
	// Built-in automatic flash; default to not fired when nothing more
	// specific was decoded.
	if flash, ok := s.Get("EXIF:Flash"); ok && s.Writable("EXIF:Flash") {
		if _, isMarker := flash.Marker(); isMarker {
			s.Set("EXIF:Flash", tags.String(exif.Flash[0x18]))
		}
	}

	// Shutter is fixed at 1/130 s.
	setWritable(s, "ExposureTime", tags.String("1/130"))
	setWritable(s, "ShutterSpeedValue", tags.String("1/130"))

	// f/5.6 with flash, f/9.0 without.
	aperture := 9.0
	if flash, ok := s.Value("EXIF:Flash").Str(); ok {
		if fired, err := exif.FlashFiredString(flash); err == nil && fired {
			aperture = 5.6
		}
	}
	setWritable(s, "FNumber", tags.Float(aperture))
	setWritable(s, "ApertureValue", tags.Float(aperture))

	setWritable(s, "FocalLength", tags.Float(34.0))
	setWritable(s, "FocalLengthIn35mmFormat", tags.Float(34.0))

	setWritable(s, "LensInfo", tags.Floats(34.0, 34.0, 5.6, 5.6))
	setWritable(s, "LensMake", tags.String("Panasonic"))
	setWritable(s, "LensModel", tags.String("Built-in, fixed-focus prime lens (1.3m-inf.)"))
}

func setWritable(s *tags.Store, name string, v tags.Value) {
	if s.Writable(name) {
		s.Set(name, v)
	}
}
