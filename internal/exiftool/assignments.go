package exiftool

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ataluts/photo-scan-tools/internal/exif"
	"github.com/ataluts/photo-scan-tools/internal/tags"
	"github.com/ataluts/photo-scan-tools/pkg/photoscan"
)

// datetimeTags are written through the raw assignment form when their
// value is syntactically well-formed but semantically invalid, so
// intentionally-impossible sentinel dates survive the tool's
// validation.
var datetimeTags = map[string]bool{
	"DateTimeOriginal": true,
	"ModifyDate":       true,
	"CreateDate":       true,
}

var datetimePattern = regexp.MustCompile(`^\d{4}:\d{2}:\d{2} \d{2}:\d{2}:\d{2}$`)

// BuildAssignments converts a resolved store into tool assignments.
// Terminal validation happens here: a tag still MANDATORY is a fatal
// error, a tag still AUTO is a warning and is emitted in its display
// form. SKIP and OPTIONAL tags emit nothing.
func BuildAssignments(s *tags.Store, log photoscan.Logger) ([]photoscan.Assignment, error) {
	var out []photoscan.Assignment
	for _, name := range s.Names() {
		v := s.Value(name)
		if m, isMarker := v.Marker(); isMarker {
			switch m {
			case tags.Delete:
				out = append(out, photoscan.Assignment{Tag: name, Delete: true})
				continue
			case tags.Skip, tags.Optional:
				continue
			case tags.Mandatory:
				return nil, fmt.Errorf("%w: mandatory tag '%s' value not assigned", photoscan.ErrValidation, name)
			case tags.Auto:
				log.Warn("'%s' = <AUTO> after autofill already passed", name)
			}
		}

		rendered := v.Format()
		if n, isInt := v.Int(); isInt {
			if display, ok := exif.Display(name, n); ok {
				rendered = display
			}
		}
		value := strings.ReplaceAll(rendered, "\n", "&#xd;&#xa;")
		if value == "" {
			out = append(out, photoscan.Assignment{Tag: name, ForceEmpty: true})
			continue
		}
		out = append(out, photoscan.Assignment{
			Tag:   name,
			Value: value,
			Raw:   rawDatetime(name, value),
		})
	}
	return out, nil
}

func rawDatetime(name, value string) bool {
	if !datetimeTags[name] || !datetimePattern.MatchString(value) {
		return false
	}
	_, err := time.Parse("2006:01:02 15:04:05", value)
	return err != nil
}

// Args renders assignments as command-line arguments.
func Args(assignments []photoscan.Assignment) []string {
	args := make([]string, 0, len(assignments))
	for _, a := range assignments {
		switch {
		case a.Delete:
			args = append(args, "-"+a.Tag+"=")
		case a.ForceEmpty:
			args = append(args, "-"+a.Tag+"^=")
		case a.Raw:
			args = append(args, "-"+a.Tag+"#="+a.Value)
		default:
			args = append(args, "-"+a.Tag+"="+a.Value)
		}
	}
	return args
}
