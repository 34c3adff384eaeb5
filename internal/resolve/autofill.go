package resolve

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ataluts/photo-scan-tools/internal/exif"
	"github.com/ataluts/photo-scan-tools/internal/tags"
	"github.com/ataluts/photo-scan-tools/pkg/photoscan"
)

// Env supplies the external context auto-fill derivations read from.
// Fields are functions so tests can substitute fixed values and so
// expensive lookups (image header, tool query) only run when the
// corresponding tag is actually AUTO.
type Env struct {
	// Now returns the current local time, zone attached.
	Now func() time.Time

	// ImageSize reads the pixel dimensions of the file being processed.
	ImageSize func() (width, height int, err error)

	// ReadToolTag queries the metadata tool for a tag's current value in
	// the file being processed.
	ReadToolTag func(tag string) (string, error)

	// Location is the local time zone used to derive the digitization
	// offset. Nil means time.Local.
	Location *time.Location
}

// Autofill resolves every tag still holding the AUTO marker. Type
// mismatches in GNSS inputs are fatal for the file; incomplete inputs
// degrade to an empty value or SKIP with a warning where the rules
// allow it.
func Autofill(s *tags.Store, env Env, log photoscan.Logger) error {
	fillDocumentName(s, log)
	fillModifyDate(s, env)
	fillCopies(s)

	if err := fillImageSize(s, env); err != nil {
		return err
	}
	if err := fillCreateDate(s, env); err != nil {
		return err
	}
	if err := fillGNSSRefs(s); err != nil {
		return err
	}
	fillProcessingMethod(s)
	return nil
}

// fillDocumentName assembles the original-file name from film and strip
// identifiers. Incomplete inputs degrade to empty with a warning.
func fillDocumentName(s *tags.Store, log photoscan.Logger) {
	if !s.Value("DocumentName").IsMarker(tags.Auto) {
		return
	}
	filmID, okFilm := valueIfSet(s, "Extra:FilmID")
	filmFrame, okFrame := s.Value("Extra:FilmFrameNumber").Int()
	stripID, okStrip := valueIfSet(s, "Extra:StripID")
	stripFrame, okStripFrame := valueIfSet(s, "Extra:StripFrameNumber")
	if okFilm && okFrame && okStrip && okStripFrame {
		s.Set("DocumentName", tags.String(fmt.Sprintf("%s-%02d_S%s-%s",
			filmID.Format(), filmFrame, stripID.Format(), stripFrame.Format())))
	} else {
		s.Set("DocumentName", tags.String(""))
		log.Warn("can't assign 'DocumentName', not enough data")
	}
}

func fillModifyDate(s *tags.Store, env Env) {
	if !s.Value("ModifyDate").IsMarker(tags.Auto) {
		return
	}
	now := env.Now()
	s.Set("ModifyDate", tags.String(now.Format("2006:01:02 15:04:05")))
	if s.Writable("OffsetTime") && s.Value("OffsetTime").IsMarker(tags.Auto) {
		s.Set("OffsetTime", tags.String(now.Format("-07:00")))
	}
}

// fillCopies defaults the APEX-stored counterparts to their plain
// counterparts, or SKIP when those are unset.
func fillCopies(s *tags.Store) {
	if s.Value("ShutterSpeedValue").IsMarker(tags.Auto) {
		if v, ok := valueIfSet(s, "ExposureTime"); ok {
			s.Set("ShutterSpeedValue", v)
		} else {
			s.Set("ShutterSpeedValue", tags.Mark(tags.Skip))
		}
	}
	if s.Value("ApertureValue").IsMarker(tags.Auto) {
		if v, ok := valueIfSet(s, "FNumber"); ok {
			s.Set("ApertureValue", v)
		} else {
			s.Set("ApertureValue", tags.Mark(tags.Skip))
		}
	}
}

func fillImageSize(s *tags.Store, env Env) error {
	needW := s.Value("ExifImageWidth").IsMarker(tags.Auto)
	needH := s.Value("ExifImageHeight").IsMarker(tags.Auto)
	if !needW && !needH {
		return nil
	}
	w, h, err := env.ImageSize()
	if err != nil {
		return err
	}
	if needW {
		s.Set("ExifImageWidth", tags.Int(int64(w)))
	}
	if needH {
		s.Set("ExifImageHeight", tags.Int(int64(h)))
	}
	return nil
}

// fillCreateDate reads the file's current modification date through the
// metadata tool. Subsecond separators come back dotted and are
// normalized to the colon form. The digitized-offset companion is
// best-effort: a date the local zone cannot place leaves the marker as
// is.
func fillCreateDate(s *tags.Store, env Env) error {
	if !s.Value("CreateDate").IsMarker(tags.Auto) {
		return nil
	}
	modifyDate, err := env.ReadToolTag("ModifyDate")
	if err != nil {
		return err
	}
	createDate := strings.ReplaceAll(modifyDate, ".", ":")
	s.Set("CreateDate", tags.String(createDate))

	if s.Value("OffsetTimeDigitized").IsMarker(tags.Auto) {
		loc := env.Location
		if loc == nil {
			loc = time.Local
		}
		if dt, err := time.ParseInLocation("2006:01:02 15:04:05", createDate, loc); err == nil {
			s.Set("OffsetTimeDigitized", tags.String(dt.Format("-07:00")))
		}
	}
	return nil
}

func fillGNSSRefs(s *tags.Store) error {
	if err := fillCoordinateRef(s, "GPSLatitude", "GPSLatitudeRef", "N", "S"); err != nil {
		return err
	}
	if err := fillCoordinateRef(s, "GPSLongitude", "GPSLongitudeRef", "E", "W"); err != nil {
		return err
	}
	return fillAltitudeRef(s)
}

// fillCoordinateRef derives a hemisphere letter from the coordinate's
// sign, or from a textual letter prefix; the prefix form replaces the
// coordinate with its numeric remainder.
func fillCoordinateRef(s *tags.Store, coordTag, refTag, positive, negative string) error {
	if !s.Value(refTag).IsMarker(tags.Auto) {
		return nil
	}
	coord, ok := valueIfSet(s, coordTag)
	if !ok {
		s.Set(refTag, tags.Mark(tags.Skip))
		return nil
	}
	if str, isStr := coord.Str(); isStr {
		if !strings.HasPrefix(str, positive) && !strings.HasPrefix(str, negative) {
			return fmt.Errorf("%w: %s %q can't be parsed", photoscan.ErrDecode, coordTag, str)
		}
		num, err := strconv.ParseFloat(str[1:], 64)
		if err != nil {
			return fmt.Errorf("%w: %s %q can't be parsed", photoscan.ErrDecode, coordTag, str)
		}
		s.Set(refTag, tags.String(str[:1]))
		s.Set(coordTag, tags.Float(num))
		return nil
	}
	if num, isNum := coord.Float(); isNum {
		if num >= 0 {
			s.Set(refTag, tags.String(positive))
		} else {
			s.Set(refTag, tags.String(negative))
			s.Set(coordTag, tags.Float(-num))
		}
		return nil
	}
	return fmt.Errorf("%w: %s can't be processed", photoscan.ErrDecode, coordTag)
}

func fillAltitudeRef(s *tags.Store) error {
	if !s.Value("GPSAltitudeRef").IsMarker(tags.Auto) {
		return nil
	}
	alt, ok := valueIfSet(s, "GPSAltitude")
	if !ok {
		s.Set("GPSAltitudeRef", tags.Mark(tags.Skip))
		return nil
	}
	num, isNum := alt.Float()
	if !isNum {
		return fmt.Errorf("%w: GPS altitude can't be processed", photoscan.ErrDecode)
	}
	if num >= 0 {
		s.Set("GPSAltitudeRef", tags.String(exif.GPSAltitudeRef[0]))
	} else {
		s.Set("GPSAltitudeRef", tags.String(exif.GPSAltitudeRef[1]))
		s.Set("GPSAltitude", tags.Float(-num))
	}
	return nil
}

func fillProcessingMethod(s *tags.Store) {
	if !s.Value("GPSProcessingMethod").IsMarker(tags.Auto) {
		return
	}
	_, hasLat := valueIfSet(s, "GPSLatitude")
	_, hasLon := valueIfSet(s, "GPSLongitude")
	if hasLat && hasLon {
		s.Set("GPSProcessingMethod", tags.String(exif.GPSProcessingMethod[3]))
	} else {
		s.Set("GPSProcessingMethod", tags.Mark(tags.Skip))
	}
}

// valueIfSet returns a tag's value when it is present and not a marker.
func valueIfSet(s *tags.Store, name string) (tags.Value, bool) {
	v, ok := s.Get(name)
	if !ok {
		return tags.Value{}, false
	}
	if _, isMarker := v.Marker(); isMarker {
		return tags.Value{}, false
	}
	return v, true
}
