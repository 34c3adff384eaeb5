// Package filename decodes the compact metadata grammar embedded in
// scanned-image filenames. A stem like
//
//	roll12__F7-3_S2-1_C10-20-100-200_R90CW_A2.8
//
// splits on the last "__" into a file identifier and a metadata
// segment; the segment splits on "_" into tokens whose leading
// character selects the field. Decoding a file produces a partial tag
// store holding only the fields the filename actually encoded.
//
// The grammar is a de-facto wire format: renamed files must round-trip
// through it.
package filename

import (
	"fmt"
	"path"
	"strings"

	"github.com/ataluts/photo-scan-tools/internal/exif"
	"github.com/ataluts/photo-scan-tools/internal/tags"
	"github.com/ataluts/photo-scan-tools/pkg/photoscan"
)

// underscoreEscape stands in for a literal underscore inside free-text
// tokens, which would otherwise terminate the token.
const underscoreEscape = "&#95;"

type fields struct {
	fileID      *string
	filmID      *string
	filmFrame   *int64
	stripID     *string
	stripFrame  *int64
	imageNumber *int64

	crop        []int64
	rotate      *int64
	flipH       bool
	flipV       bool
	compression *string

	exposure    *tags.Value
	aperture    *float64
	iso         *int64
	flash       *string
	orientation *string
	focalLength *int64

	cameraMaker *string
	cameraModel *string
	dtOriginal  *string
	dtOffset    *string
	latitude    *float64
	longitude   *float64
	altitude    *float64

	title       *string
	description *string
	userComment *string
}

// Decode parses one filename into a metadata increment. relPath is the
// file's path relative to the base directory, forward- or OS-slashed.
// Any grammar violation fails the whole file with a DecodeError; the
// caller skips the file and continues.
func Decode(relPath string) (*tags.Store, error) {
	relPath = path.Clean(strings.ReplaceAll(relPath, "\\", "/"))
	base := path.Base(relPath)
	ext := path.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	ext = strings.TrimPrefix(ext, ".")
	relDir := path.Dir(relPath)

	var f fields
	segment := stem
	if idx := strings.LastIndex(stem, "__"); idx < 0 {
		// No metadata segment: the whole stem is the file identifier.
		id := stem
		f.fileID = &id
		segment = ""
	} else {
		if idx > 0 {
			id := stem[:idx]
			f.fileID = &id
		}
		segment = stem[idx+2:]
	}

	for _, token := range strings.Split(segment, "_") {
		if token == "" {
			continue
		}
		if err := decodeToken(&f, token); err != nil {
			return nil, &photoscan.DecodeError{Stem: stem, Token: token, Message: err.Error()}
		}
	}

	return buildStore(&f, stem, ext, relPath, relDir), nil
}

// decodeToken dispatches on the token's leading character. The scan
// order is fixed and first-match-wins: the grammar documents "N" both
// as image number and as image description, and because the number arm
// is checked first a description can never be produced by an N token —
// a non-numeric payload is a decode error instead.
func decodeToken(f *fields, token string) error {
	payload := token[1:]
	switch token[0] {
	case 'F':
		id, frame, err := splitIDFrame(payload, "film")
		if err != nil {
			return err
		}
		f.filmID = &id
		f.filmFrame = frame
	case 'S':
		id, frame, err := splitIDFrame(payload, "strip")
		if err != nil {
			return err
		}
		f.stripID = &id
		f.stripFrame = frame
	case 'N':
		if payload == "" {
			return fmt.Errorf("image number value not specified")
		}
		n, err := ParseInt(payload, NegativePrefix)
		if err != nil {
			return err
		}
		f.imageNumber = &n
	case 'C':
		if payload == "" {
			return fmt.Errorf("crop value not specified")
		}
		parts := strings.Split(payload, "-")
		crop := make([]int64, len(parts))
		for i, p := range parts {
			v, err := ParseInt(p, NegativePrefix)
			if err != nil {
				return err
			}
			if v < 0 {
				return fmt.Errorf("crop values can't be negative")
			}
			crop[i] = v
		}
		f.crop = crop
	case 'R':
		val := payload
		if strings.Contains(val, "H") {
			f.flipH = true
			val = strings.ReplaceAll(val, "H", "")
		}
		if strings.Contains(val, "V") {
			f.flipV = true
			val = strings.ReplaceAll(val, "V", "")
		}
		var rotate int64
		switch val {
		case "90CW":
			rotate = 90
		case "90CCW":
			rotate = 270
		default:
			v, err := ParseInt(val, NegativePrefix)
			if err != nil {
				return err
			}
			rotate = v
		}
		f.rotate = &rotate
	case 'Z':
		if payload == "" {
			return fmt.Errorf("compression identifier not specified")
		}
		f.compression = &payload
	case 'T':
		if payload == "" {
			return fmt.Errorf("exposure time value not specified")
		}
		var v tags.Value
		if strings.HasPrefix(payload, "'") {
			// Fraction denominator form: 'x means 1/x seconds.
			denom, err := ParseInt(payload[1:], NegativePrefix)
			if err != nil {
				return err
			}
			v = tags.String(fmt.Sprintf("1/%d", denom))
		} else {
			sec, err := ParseFloat(payload, NegativePrefix)
			if err != nil {
				return err
			}
			v = tags.Float(sec)
		}
		f.exposure = &v
	case 'A':
		if payload == "" {
			return fmt.Errorf("aperture value not specified")
		}
		v, err := ParseFloat(payload, NegativePrefix)
		if err != nil {
			return err
		}
		f.aperture = &v
	case 'I':
		if payload == "" {
			return fmt.Errorf("ISO value not specified")
		}
		v, err := ParseInt(payload, NegativePrefix)
		if err != nil {
			return err
		}
		f.iso = &v
	case 'X':
		if payload == "" {
			return fmt.Errorf("flash value not specified")
		}
		code, err := ParseInt(payload, NegativePrefix)
		if err != nil {
			return err
		}
		display, ok := exif.Flash[code]
		if !ok {
			return fmt.Errorf("unknown EXIF Flash value %d", code)
		}
		f.flash = &display
	case 'O':
		if payload == "" {
			return fmt.Errorf("orientation value not specified")
		}
		var code int64
		switch payload {
		case "90CW":
			code = 6
		case "90CCW":
			code = 8
		case "180":
			code = 3
		default:
			v, err := ParseInt(payload, NegativePrefix)
			if err != nil {
				return err
			}
			code = v
		}
		display, ok := exif.Orientation[code]
		if !ok {
			return fmt.Errorf("invalid orientation value")
		}
		f.orientation = &display
	case 'L':
		if payload == "" {
			return fmt.Errorf("lens focal length value not specified")
		}
		v, err := ParseInt(payload, NegativePrefix)
		if err != nil {
			return err
		}
		f.focalLength = &v
	case 'M':
		parts := strings.SplitN(payload, "@", 2)
		if parts[0] != "" {
			f.cameraModel = &parts[0]
		}
		if len(parts) > 1 && parts[1] != "" {
			f.cameraMaker = &parts[1]
		}
	case 'D':
		if payload == "" {
			return fmt.Errorf("datetime value not specified")
		}
		dt, offset, err := decodeDatetime(payload)
		if err != nil {
			return err
		}
		if dt != "" {
			f.dtOriginal = &dt
		}
		if offset != "" {
			f.dtOffset = &offset
		}
	case 'G':
		lat, lon, alt, err := decodeLocation(strings.ReplaceAll(payload, " ", ""))
		if err != nil {
			return err
		}
		f.latitude = &lat
		f.longitude = &lon
		f.altitude = alt
	case 'H':
		text := unescape(payload)
		f.title = &text
	case 'U':
		text := unescape(payload)
		f.userComment = &text
	}
	// Unknown leading characters are ignored, not an error.
	return nil
}

// splitIDFrame splits "<id>[-<frameNum>]" at the last dash, so
// identifiers may themselves contain dashes. An empty frame after the
// dash is an error.
func splitIDFrame(payload, what string) (string, *int64, error) {
	idx := strings.LastIndex(payload, "-")
	if idx < 0 {
		return payload, nil, nil
	}
	id := payload[:idx]
	frameStr := payload[idx+1:]
	if frameStr == "" {
		return "", nil, fmt.Errorf("frame number on %s value not specified", what)
	}
	frame, err := ParseInt(frameStr, NegativePrefix)
	if err != nil {
		return "", nil, err
	}
	return id, &frame, nil
}

// decodeDatetime parses
// "<Y>[-<Mo>[-<D>[-<h>[-<m>[-<s>]]]]][@<tzH>[-<tzM>]]". Missing
// trailing components default to 0.
func decodeDatetime(payload string) (string, string, error) {
	dtPart := payload
	var tzPart string
	if idx := strings.Index(payload, "@"); idx >= 0 {
		dtPart = strings.TrimSpace(payload[:idx])
		tzPart = strings.TrimSpace(payload[idx+1:])
	}

	var dt string
	if dtPart != "" {
		parts := strings.Split(dtPart, "-")
		comps := make([]int64, 6)
		for i, p := range parts {
			if i >= 6 {
				break
			}
			v, err := ParseInt(p, NegativePrefix)
			if err != nil {
				return "", "", err
			}
			comps[i] = v
		}
		if comps[0] < 0 || comps[0] > 9999 {
			return "", "", fmt.Errorf("datetime year must be 4 digits long")
		}
		for _, v := range comps[1:] {
			if v < 0 || v > 99 {
				return "", "", fmt.Errorf("datetime component value (except year) must be 2 digits long")
			}
		}
		dt = fmt.Sprintf("%04d:%02d:%02d %02d:%02d:%02d",
			comps[0], comps[1], comps[2], comps[3], comps[4], comps[5])
	}

	var offset string
	if tzPart != "" {
		parts := strings.SplitN(tzPart, "-", 2)
		comps := make([]int64, 2)
		for i, p := range parts {
			v, err := ParseInt(p, NegativePrefix)
			if err != nil {
				return "", "", err
			}
			comps[i] = v
		}
		if comps[0] < -24 || comps[0] > 24 {
			return "", "", fmt.Errorf("datetime offset hours must be within ±24")
		}
		if comps[1] < 0 || comps[1] > 59 {
			return "", "", fmt.Errorf("datetime offset minutes must be between 0 and 59")
		}
		offset = fmt.Sprintf("%+03d:%02d", comps[0], comps[1])
	}

	return dt, offset, nil
}

// decodeLocation parses "<±|N|S>lat,<±|E|W>lon[,alt]". Letter prefixes
// resolve to the coordinate's sign at decode time.
func decodeLocation(payload string) (float64, float64, *float64, error) {
	parts := strings.Split(payload, ",")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, 0, nil, fmt.Errorf("GPS location can't be parsed")
	}

	latStr, latSign := parts[0], 1.0
	if strings.HasPrefix(latStr, "N") {
		latStr = latStr[1:]
	} else if strings.HasPrefix(latStr, "S") {
		latStr = latStr[1:]
		latSign = -1
	}
	lat, err := ParseFloat(latStr, NegativePrefix)
	if err != nil {
		return 0, 0, nil, err
	}
	lat *= latSign

	lonStr, lonSign := parts[1], 1.0
	if strings.HasPrefix(lonStr, "E") {
		lonStr = lonStr[1:]
	} else if strings.HasPrefix(lonStr, "W") {
		lonStr = lonStr[1:]
		lonSign = -1
	}
	lon, err := ParseFloat(lonStr, NegativePrefix)
	if err != nil {
		return 0, 0, nil, err
	}
	lon *= lonSign

	var alt *float64
	if len(parts) > 2 {
		v, err := ParseFloat(parts[2], NegativePrefix)
		if err != nil {
			return 0, 0, nil, err
		}
		alt = &v
	}
	return lat, lon, alt, nil
}

func unescape(s string) string {
	return strings.ReplaceAll(s, underscoreEscape, "_")
}

// buildStore assembles the metadata increment: only fields the filename
// actually encoded are present, plus the always-set Extra:File* path
// fields and the derived ReelName / internal identifier copies used
// later by auto-fill.
func buildStore(f *fields, stem, ext, relPath, relDir string) *tags.Store {
	s := tags.NewStore()

	if f.fileID != nil {
		s.Set("Extra:FileID", tags.String(*f.fileID))
	}
	s.Set("Extra:FileNameBase", tags.String(stem))
	s.Set("Extra:FileNameExtension", tags.String(ext))
	s.Set("Extra:FilePath", tags.String(relPath))
	s.Set("Extra:FileDirectory", tags.String(relDir))

	if f.filmID != nil {
		s.Set("ReelName", tags.String(*f.filmID))
		s.Set("Extra:FilmID", tags.String(*f.filmID))
	}
	if f.filmFrame != nil {
		s.Set("ImageNumber", tags.Int(*f.filmFrame))
		s.Set("Extra:FilmFrameNumber", tags.Int(*f.filmFrame))
	}
	if f.stripID != nil {
		s.Set("Extra:StripID", tags.String(*f.stripID))
	}
	if f.stripFrame != nil {
		s.Set("Extra:StripFrameNumber", tags.Int(*f.stripFrame))
	}
	if f.imageNumber != nil {
		s.Set("ImageNumber", tags.Int(*f.imageNumber))
	}

	transform := false
	if f.crop != nil {
		s.Set("ImageTransform:Crop", tags.Ints(f.crop...))
		transform = true
	}
	if f.rotate != nil {
		s.Set("ImageTransform:Rotate", tags.Int(*f.rotate))
		s.Set("ImageTransform:Flip", tags.List(tags.Bool(f.flipH), tags.Bool(f.flipV)))
		transform = true
	}
	if f.compression != nil {
		s.Set("ImageTransform:Compression", tags.String(*f.compression))
		transform = true
	}
	if transform {
		s.Set("ImageTransform:Enabled", tags.Bool(true))
	}

	if f.exposure != nil {
		s.Set("ExposureTime", *f.exposure)
	}
	if f.aperture != nil {
		s.Set("FNumber", tags.Float(*f.aperture))
	}
	if f.iso != nil {
		s.Set("ISO", tags.Int(*f.iso))
	}
	if f.flash != nil {
		s.Set("EXIF:Flash", tags.String(*f.flash))
	}
	if f.orientation != nil {
		s.Set("Orientation", tags.String(*f.orientation))
	}
	if f.focalLength != nil {
		s.Set("FocalLength", tags.Int(*f.focalLength))
	}

	if f.cameraMaker != nil {
		s.Set("Make", tags.String(*f.cameraMaker))
	}
	if f.cameraModel != nil {
		s.Set("Model", tags.String(*f.cameraModel))
	}
	if f.dtOriginal != nil {
		s.Set("DateTimeOriginal", tags.String(*f.dtOriginal))
	}
	if f.dtOffset != nil {
		s.Set("OffsetTimeOriginal", tags.String(*f.dtOffset))
	}
	if f.latitude != nil {
		s.Set("GPSLatitude", tags.Float(*f.latitude))
	}
	if f.longitude != nil {
		s.Set("GPSLongitude", tags.Float(*f.longitude))
	}
	if f.altitude != nil {
		s.Set("GPSAltitude", tags.Float(*f.altitude))
	}

	if f.description != nil {
		s.Set("ImageDescription", tags.String(*f.description))
	}
	if f.title != nil {
		s.Set("ImageTitle", tags.String(*f.title))
	}
	if f.userComment != nil {
		s.Set("UserComment", tags.String(*f.userComment))
	}

	return s
}
