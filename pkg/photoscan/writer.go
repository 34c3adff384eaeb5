package photoscan

// Assignment is one resolved tag operation for the metadata tool.
// The tool adapter renders it into the tool's argument syntax; the
// engine never constructs subprocess command lines directly.
type Assignment struct {
	// Tag is the namespaced tag name, e.g. "DateTimeOriginal".
	Tag string

	// Value is the rendered tag value. Ignored when Delete is set.
	Value string

	// Delete removes the tag at the destination (-Tag=).
	Delete bool

	// ForceEmpty assigns an empty value using the tool's distinct
	// force-empty form (-Tag^=), which plain "-Tag=" would treat as a
	// deletion.
	ForceEmpty bool

	// Raw bypasses the tool's value validation (-Tag#=). Used for
	// datetime values that are syntactically well-formed but
	// semantically invalid on purpose (sentinel dates like month 13).
	Raw bool
}

// TagWriter applies a batch of tag assignments to an image file.
// Implementations wrap the external metadata tool; tests substitute a
// recording fake.
type TagWriter interface {
	ApplyTags(path string, assignments []Assignment) error
}

// TagReader queries current tag values from an image file.
type TagReader interface {
	// ReadTag returns the value of a single tag, or "" if unset.
	ReadTag(path string, tag string) (string, error)

	// ReadTags returns the values of all tags in the given group,
	// keyed by "Group:Name".
	ReadTags(path string, group string) (map[string]string, error)
}
