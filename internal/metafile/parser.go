// Package metafile reads directory-level metadata files: line-oriented
// key=value text supplying tag increments for every image below the
// directory. Increments layer cumulatively from the base directory down
// to the file's own directory.
package metafile

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"

	"github.com/ataluts/photo-scan-tools/internal/tags"
)

// Parse reads metadata-file content into a tag increment.
//
// Format rules:
//   - Lines starting with # or ; are comments
//   - Blank lines and lines without = are ignored
//   - Whitespace around key and value is trimmed
//   - A value exactly matching a marker display form becomes that marker
//   - Other values parse as literals when possible (numbers, booleans,
//     quoted strings, flat lists), else stay strings
//
// If any ImageTransform:* key is present and ImageTransform:Enabled was
// not given explicitly, the transform is enabled implicitly.
func Parse(data []byte) *tags.Store {
	inc := tags.NewStore()
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, ";") {
			continue
		}
		eq := strings.Index(line, "=")
		if eq < 0 {
			continue
		}
		key := strings.TrimSpace(line[:eq])
		value := strings.TrimSpace(line[eq+1:])
		if key == "" {
			continue
		}
		inc.Set(key, ParseLiteral(value))
	}

	if !inc.Has("ImageTransform:Enabled") {
		for _, name := range inc.Names() {
			if strings.HasPrefix(name, "ImageTransform:") {
				inc.Set("ImageTransform:Enabled", tags.Bool(true))
				break
			}
		}
	}
	return inc
}

// ParseLiteral converts a metadata-file value string to a tag value.
func ParseLiteral(s string) tags.Value {
	if m, ok := tags.ParseMarker(s); ok {
		return tags.Mark(m)
	}
	switch s {
	case "True", "true":
		return tags.Bool(true)
	case "False", "false":
		return tags.Bool(false)
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return tags.Int(v)
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return tags.Float(v)
	}
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return tags.String(s[1 : len(s)-1])
		}
		if (s[0] == '[' && s[len(s)-1] == ']') || (s[0] == '(' && s[len(s)-1] == ')') {
			return parseList(s[1 : len(s)-1])
		}
	}
	return tags.String(s)
}

// parseList handles flat lists of primitives. Elements are comma
// separated; nested containers are not part of the file format.
func parseList(inner string) tags.Value {
	inner = strings.TrimSpace(inner)
	if inner == "" {
		return tags.List()
	}
	parts := strings.Split(inner, ",")
	elems := make([]tags.Value, len(parts))
	for i, p := range parts {
		elems[i] = ParseLiteral(strings.TrimSpace(p))
	}
	return tags.List(elems...)
}
