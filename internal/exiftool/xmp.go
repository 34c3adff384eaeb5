package exiftool

// ExtractXMP returns the raw XMP packet embedded in a file, or an
// empty slice when none is present.
func (t *Tool) ExtractXMP(path string) ([]byte, error) {
	return t.execute([]string{"-XMP", "-b", path})
}

// DeleteXMP removes the XMP block from a file in place.
func (t *Tool) DeleteXMP(path string) error {
	_, err := t.execute([]string{"-overwrite_original", "-XMP=", path})
	return err
}
