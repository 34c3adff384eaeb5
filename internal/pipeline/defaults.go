// Package pipeline orchestrates the per-file flow: layered metadata
// resolution, the optional geometric transform, auto-fill, output-path
// rendering and the final tag emission.
package pipeline

import (
	"github.com/ataluts/photo-scan-tools/internal/exif"
	"github.com/ataluts/photo-scan-tools/internal/tags"
)

// Defaults returns the compiled-in base tag store every file starts
// from. Markers encode the resolution policy per tag; literal values
// are written as-is unless a later layer overrides them.
func Defaults() *tags.Store {
	s := tags.NewStore()

	s.Set(tags.LockTag, tags.Bool(false))

	// Geometric transform, disabled until transform data shows up.
	s.Set("ImageTransform:Enabled", tags.Bool(false))
	s.Set("ImageTransform:Crop", tags.Ints(0, 0, 4096, 2656))
	s.Set("ImageTransform:Rotate", tags.Int(0))
	s.Set("ImageTransform:Flip", tags.List(tags.Bool(false), tags.Bool(false)))
	// List-shaped so a metadata file supplying [id, args...] merges
	// positionally instead of overwriting.
	s.Set("ImageTransform:Compression", tags.List(tags.String("none")))

	// EXIF.
	s.Set("DocumentName", tags.Mark(tags.Auto))
	s.Set("ImageDescription", tags.String(""))
	s.Set("Make", tags.Mark(tags.Mandatory))
	s.Set("Model", tags.Mark(tags.Mandatory))
	s.Set("Orientation", tags.String(exif.Orientation[1]))
	s.Set("ModifyDate", tags.Mark(tags.Auto))
	s.Set("Artist", tags.String(""))
	s.Set("Copyright", tags.Mark(tags.Optional))
	s.Set("ExposureTime", tags.Mark(tags.Optional))
	s.Set("FNumber", tags.Mark(tags.Optional))
	s.Set("ISO", tags.Mark(tags.Optional))
	s.Set("DateTimeOriginal", tags.Mark(tags.Mandatory))
	s.Set("CreateDate", tags.Mark(tags.Auto))
	s.Set("OffsetTime", tags.Mark(tags.Auto))
	s.Set("OffsetTimeOriginal", tags.Mark(tags.Optional))
	s.Set("OffsetTimeDigitized", tags.Mark(tags.Auto))
	s.Set("ShutterSpeedValue", tags.Mark(tags.Auto))
	s.Set("ApertureValue", tags.Mark(tags.Auto))
	s.Set("EXIF:Flash", tags.Mark(tags.Optional))
	s.Set("FocalLength", tags.Mark(tags.Optional))
	s.Set("ImageNumber", tags.Mark(tags.Optional))
	s.Set("ImageHistory", tags.String(""))
	s.Set("MakerNotes:All", tags.Mark(tags.Delete))
	s.Set("UserComment", tags.String(""))
	s.Set("ColorSpace", tags.Mark(tags.Mandatory))
	s.Set("ExifImageWidth", tags.Mark(tags.Auto))
	s.Set("ExifImageHeight", tags.Mark(tags.Auto))
	s.Set("FileSource", tags.String(exif.FileSource[1]))
	s.Set("ExposureMode", tags.Mark(tags.Skip))
	s.Set("WhiteBalance", tags.Mark(tags.Skip))
	s.Set("FocalLengthIn35mmFormat", tags.Mark(tags.Optional))
	s.Set("OwnerName", tags.Mark(tags.Skip))
	s.Set("SerialNumber", tags.Mark(tags.Skip))
	s.Set("LensInfo", tags.Mark(tags.Optional))
	s.Set("LensMake", tags.Mark(tags.Optional))
	s.Set("LensModel", tags.Mark(tags.Optional))
	s.Set("LensSerialNumber", tags.Mark(tags.Optional))
	s.Set("ImageTitle", tags.String(""))
	s.Set("Photographer", tags.Mark(tags.Optional))
	s.Set("ImageEditor", tags.Mark(tags.Optional))
	s.Set("ReelName", tags.Mark(tags.Optional))

	// Folded into ImageHistory before emission.
	s.Set("ImageHistory:Film", tags.Mark(tags.Optional))

	// GPS.
	s.Set("GPSLatitudeRef", tags.Mark(tags.Auto))
	s.Set("GPSLatitude", tags.Mark(tags.Optional))
	s.Set("GPSLongitudeRef", tags.Mark(tags.Auto))
	s.Set("GPSLongitude", tags.Mark(tags.Optional))
	s.Set("GPSAltitudeRef", tags.Mark(tags.Auto))
	s.Set("GPSAltitude", tags.Mark(tags.Optional))
	s.Set("GPSProcessingMethod", tags.Mark(tags.Auto))

	// Internal bookkeeping, stripped before emission.
	s.Set("Extra:FileID", tags.String(""))
	s.Set("Extra:FilePath", tags.String(""))
	s.Set("Extra:FileDirectory", tags.String(""))
	s.Set("Extra:FileNameBase", tags.String(""))
	s.Set("Extra:FileNameExtension", tags.String(""))
	s.Set("Extra:FilmID", tags.String(""))
	s.Set("Extra:FilmFrameNumber", tags.Int(0))
	s.Set("Extra:StripID", tags.String(""))
	s.Set("Extra:StripFrameNumber", tags.Int(0))

	return s
}
