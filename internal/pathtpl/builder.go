// Package pathtpl renders output paths from a template string and a
// resolved tag store. Placeholders reference tags by their full
// "Group:Name" key; unset tags substitute a fixed placeholder value so
// a template never fails outright.
package pathtpl

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ataluts/photo-scan-tools/internal/tags"
	"github.com/ataluts/photo-scan-tools/pkg/photoscan"
)

// Options tune sanitization and length limits.
type Options struct {
	// MaxTotalLength truncates the rendered path when positive,
	// preserving the final extension if one exists.
	MaxTotalLength int

	// MaxValueLength truncates each substituted string value when
	// positive.
	MaxValueLength int

	// MissingValue replaces placeholders naming unset tags. Empty
	// means the default "UNDEF".
	MissingValue string
}

// unsafeChars matches characters that are illegal in path components on
// at least one supported filesystem, plus control characters.
var unsafeChars = regexp.MustCompile(`[<>:"/\\|?*` + "\x00-\x1f" + `]`)

// driveColon matches a drive-letter colon followed by a path separator.
var driveColon = regexp.MustCompile(`([A-Za-z]):([\\/])`)

// colonSub stands in for colons during substitution: the tag-key
// delimiter would otherwise collide with the placeholder's format
// separator.
const colonSub = "_cln_"

const driveColonSub = "\x00DRIVE\x00"

// SanitizeValue replaces filesystem-illegal characters in a tag value
// with underscores. Keys in the reserved file-path namespace
// ("Extra:File...") are exempt so real path separators survive. Lists
// sanitize element-wise; non-string primitives pass through.
func SanitizeValue(key string, v tags.Value, maxLen int) tags.Value {
	if strings.HasPrefix(key, "Extra:File") {
		return v
	}
	if s, ok := v.Str(); ok {
		clean := unsafeChars.ReplaceAllString(strings.TrimSpace(s), "_")
		if maxLen > 0 && len(clean) > maxLen {
			clean = clean[:maxLen]
		}
		return tags.String(clean)
	}
	if elems, ok := v.List(); ok {
		out := make([]tags.Value, len(elems))
		for i, e := range elems {
			out[i] = SanitizeValue(key, e, maxLen)
		}
		return tags.List(out...)
	}
	return v
}

// Build renders a path from the template and the store.
//
// Template syntax: "{Group:Name}" substitutes the tag's value;
// "{Group:Name?02d}" applies zero-padded integer formatting. Colons in
// static text are shielded during substitution and restored after; a
// "?" outside a placeholder also becomes a literal ":" in the output,
// and a drive-letter colon ("C:\" or "C:/") passes through verbatim.
// "{{" and "}}" are literal braces.
func Build(template string, store *tags.Store, opts Options) string {
	missing := opts.MissingValue
	if missing == "" {
		missing = photoscan.MissingTemplateValue
	}

	// Shield drive-letter colons, then turn remaining colons into
	// ordinary text and let "?" stand for a wanted literal colon.
	t := driveColon.ReplaceAllString(template, "$1"+driveColonSub+"$2")
	t = strings.ReplaceAll(t, ":", colonSub)
	t = strings.ReplaceAll(t, "?", ":")
	t = strings.ReplaceAll(t, driveColonSub, ":")

	var b strings.Builder
	for i := 0; i < len(t); {
		c := t[i]
		switch {
		case c == '{' && i+1 < len(t) && t[i+1] == '{':
			b.WriteByte('{')
			i += 2
		case c == '}' && i+1 < len(t) && t[i+1] == '}':
			b.WriteByte('}')
			i += 2
		case c == '{':
			end := strings.IndexByte(t[i:], '}')
			if end < 0 {
				b.WriteString(t[i:])
				i = len(t)
				break
			}
			b.WriteString(expand(t[i+1:i+end], store, opts, missing))
			i += end + 1
		default:
			b.WriteByte(c)
			i++
		}
	}

	// Colons in static text were only shielded for the placeholder
	// pass; they come back as ordinary text now. Substituted values
	// cannot contain colons, SanitizeValue already replaced them.
	out := strings.ReplaceAll(b.String(), colonSub, ":")
	return truncate(out, opts.MaxTotalLength)
}

// expand resolves one placeholder body: a colon-remapped tag key plus
// an optional format spec after ":".
func expand(body string, store *tags.Store, opts Options, missing string) string {
	key := body
	spec := ""
	if idx := strings.IndexByte(body, ':'); idx >= 0 {
		key = body[:idx]
		spec = body[idx+1:]
	}
	key = strings.ReplaceAll(key, colonSub, ":")

	v, ok := store.Get(key)
	if !ok {
		return missing
	}
	v = SanitizeValue(key, v, opts.MaxValueLength)

	if n, isInt := v.Int(); isInt && strings.HasSuffix(spec, "d") {
		if width, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(spec, "0"), "d")); err == nil {
			return zeroPad(n, width)
		}
	}
	return v.Format()
}

func zeroPad(n int64, width int) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	for len(s) < width {
		s = "0" + s
	}
	if neg {
		return "-" + s
	}
	return s
}

// truncate enforces the total-length budget, keeping the final
// extension when one exists.
func truncate(p string, max int) string {
	if max <= 0 || len(p) <= max {
		return p
	}
	if dot := strings.LastIndexByte(p, '.'); dot >= 0 {
		ext := p[dot+1:]
		keep := max - len(ext) - 1
		if keep < 0 {
			keep = 0
		}
		return p[:min(keep, dot)] + "." + ext
	}
	return p[:max]
}
