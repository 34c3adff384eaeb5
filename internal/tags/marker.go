// Package tags implements the tag store the pipeline resolves for each
// image file: a mapping from namespaced tag names ("Group:Name") to
// literal values or resolution markers, plus the merge policy that
// layers increments from defaults, metadata files, filename decoding
// and scanner extraction.
package tags

// Marker is a sentinel tag state controlling whether and how a tag
// participates in merging and emission. Markers are distinct from every
// literal value, including a string equal to a marker's display form.
type Marker uint8

const (
	// Mandatory tags must be replaced with a literal before emission;
	// a surviving Mandatory marker is a terminal validation failure.
	Mandatory Marker = iota + 1

	// Optional tags emit nothing if still unset at emission time.
	Optional

	// Auto tags are filled by the resolver from context (clock, prior
	// tags, image dimensions, metadata-tool queries).
	Auto

	// Skip tags are never touched by merges or rules and are preserved
	// if already present at the destination.
	Skip

	// Delete tags are removed at the destination.
	Delete
)

var markerDisplay = map[Marker]string{
	Mandatory: "<MANDATORY>",
	Optional:  "<OPTIONAL>",
	Auto:      "<AUTO>",
	Skip:      "<SKIP>",
	Delete:    "<DELETE>",
}

// String returns the marker's surface display form, the spelling used
// in directory metadata files.
func (m Marker) String() string {
	if s, ok := markerDisplay[m]; ok {
		return s
	}
	return "<INVALID>"
}

// ParseMarker recognizes a marker display form. A metadata-file value
// exactly matching a display form becomes that marker; everything else
// stays a literal.
func ParseMarker(s string) (Marker, bool) {
	for m, display := range markerDisplay {
		if s == display {
			return m, true
		}
	}
	return 0, false
}
