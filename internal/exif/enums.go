// Package exif holds the EXIF enumeration tables the pipeline writes
// values from. Tags take the human-readable display string, matching
// what the metadata tool prints and accepts.
package exif

import "fmt"

// Flash maps EXIF Flash (0x9209) codes to display strings.
var Flash = map[int64]string{
	0:  "No Flash",                                            // 0x0
	1:  "Fired",                                               // 0x1
	5:  "Fired, Return not detected",                          // 0x5
	7:  "Fired, Return detected",                              // 0x7
	8:  "On, Did not fire",                                    // 0x8
	9:  "On, Fired",                                           // 0x9
	13: "On, Return not detected",                             // 0xD
	15: "On, Return detected",                                 // 0xF
	16: "Off, Did not fire",                                   // 0x10
	20: "Off, Did not fire, Return not detected",              // 0x14
	24: "Auto, Did not fire",                                  // 0x18
	25: "Auto, Fired",                                         // 0x19
	29: "Auto, Fired, Return not detected",                    // 0x1D
	31: "Auto, Fired, Return detected",                        // 0x1F
	32: "No flash function",                                   // 0x20
	48: "Off, No flash function",                              // 0x30
	65: "Fired, Red-eye reduction",                            // 0x41
	69: "Fired, Red-eye reduction, Return not detected",       // 0x45
	71: "Fired, Red-eye reduction, Return detected",           // 0x47
	73: "On, Red-eye reduction",                               // 0x49
	77: "On, Red-eye reduction, Return not detected",          // 0x4D
	79: "On, Red-eye reduction, Return detected",              // 0x4F
	80: "Off, Red-eye reduction",                              // 0x50
	88: "Auto, Did not fire, Red-eye reduction",               // 0x58
	89: "Auto, Fired, Red-eye reduction",                      // 0x59
	93: "Auto, Fired, Red-eye reduction, Return not detected", // 0x5D
	95: "Auto, Fired, Red-eye reduction, Return detected",     // 0x5F
}

var flashFired = map[int64]bool{
	1: true, 5: true, 7: true, 9: true, 25: true, 29: true, 31: true,
	65: true, 69: true, 71: true, 73: true, 77: true, 79: true,
	89: true, 93: true, 95: true,
}

var flashNotFired = map[int64]bool{
	0: true, 8: true, 16: true, 20: true, 24: true, 88: true,
}

var flashNotPresent = map[int64]bool{32: true, 48: true}

// FlashFired reports whether the flash fired for a Flash code.
// Codes outside the enumeration are an error.
func FlashFired(code int64) (bool, error) {
	if _, ok := Flash[code]; !ok {
		return false, fmt.Errorf("unknown EXIF Flash value %d", code)
	}
	switch {
	case flashFired[code]:
		return true, nil
	case flashNotFired[code], flashNotPresent[code]:
		return false, nil
	}
	return false, nil
}

// FlashFiredString is FlashFired over the display-string form, which is
// how the tag is stored after decoding.
func FlashFiredString(s string) (bool, error) {
	for code, display := range Flash {
		if display == s {
			return FlashFired(code)
		}
	}
	return false, fmt.Errorf("unknown EXIF Flash value %q", s)
}

// Orientation maps EXIF Orientation (0x0112) codes 1..8 to display
// strings.
var Orientation = map[int64]string{
	1: "Horizontal (normal)",
	2: "Mirror horizontal",
	3: "Rotate 180",
	4: "Mirror vertical",
	5: "Mirror horizontal and rotate 270 CW",
	6: "Rotate 90 CW",
	7: "Mirror horizontal and rotate 90 CW",
	8: "Rotate 270 CW",
}

// ColorSpace maps EXIF ColorSpace (0xA001) codes to display strings.
// The non-standard entries cover Adobe RGB and Sony extensions.
var ColorSpace = map[int64]string{
	0x0001: "sRGB",
	0x0002: "Adobe RGB",
	0xfffd: "Wide Gamut RGB",
	0xfffe: "ICC Profile",
	0xffff: "Uncalibrated",
}

// FileSource maps EXIF FileSource (0xA300) codes to display strings.
var FileSource = map[int64]string{
	1: "Film Scanner",
	2: "Reflection Print Scanner",
	3: "Digital Camera",
}

// ExposureMode maps EXIF ExposureMode (0xA402) codes.
var ExposureMode = map[int64]string{
	0: "Auto",
	1: "Manual",
	2: "Auto bracket",
}

// WhiteBalance maps EXIF WhiteBalance (0xA403) codes.
var WhiteBalance = map[int64]string{
	0: "Auto",
	1: "Manual",
}

// GPSAltitudeRef maps GPS altitude reference (0x0005) codes.
var GPSAltitudeRef = map[int64]string{
	0: "Above Sea Level",
	1: "Below Sea Level",
	2: "Positive Sea Level (sea-level ref)",
	3: "Negative Sea Level (sea-level ref)",
}

// GPSProcessingMethod maps location-determination method codes.
var GPSProcessingMethod = map[int64]string{
	0: "GPS",
	1: "CELLID",
	2: "WLAN",
	3: "MANUAL",
}

// enumTags maps enum-valued tag names to their code tables.
var enumTags = map[string]map[int64]string{
	"EXIF:Flash":          Flash,
	"Orientation":         Orientation,
	"ColorSpace":          ColorSpace,
	"FileSource":          FileSource,
	"ExposureMode":        ExposureMode,
	"WhiteBalance":        WhiteBalance,
	"GPSAltitudeRef":      GPSAltitudeRef,
	"GPSProcessingMethod": GPSProcessingMethod,
}

// Display resolves a numeric code supplied for an enum-valued tag to
// its display string, so metadata files can give the raw EXIF code
// instead of spelling the string out.
func Display(tag string, code int64) (string, bool) {
	table, ok := enumTags[tag]
	if !ok {
		return "", false
	}
	display, ok := table[code]
	return display, ok
}
