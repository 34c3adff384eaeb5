package exiftool

// CopyAllTags restores the full tag set of src onto dst, used after a
// geometric transform rewrote the pixel data into a fresh container.
// Tags absent in the source are explicitly cleared so the transform
// cannot invent them.
func (t *Tool) CopyAllTags(src, dst string) error {
	args := []string{"-TagsFromFile", src, "-All:All"}
	for _, tag := range []string{"ImageDescription", "ComponentsConfiguration"} {
		value, err := t.ReadTag(src, tag)
		if err != nil {
			return err
		}
		if value == "" {
			args = append(args, "-"+tag+"=")
		}
	}
	args = append(args, "-overwrite_original", dst)
	_, err := t.execute(args)
	return err
}

// ExtractICC returns the raw embedded color profile of a file.
func (t *Tool) ExtractICC(path string) ([]byte, error) {
	return t.execute([]string{"-icc_profile", "-b", path})
}

// InjectICC embeds a color profile stored in profilePath into the
// target file.
func (t *Tool) InjectICC(path, profilePath string) error {
	_, err := t.execute([]string{"-overwrite_original", "-icc_profile<=" + profilePath, path})
	return err
}
