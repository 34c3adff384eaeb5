package photoscan

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess        = 0  // Run completed (per-file failures are counted, not fatal)
	ExitGeneralError   = 1  // Unknown or unclassified error
	ExitUsageError     = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic          = 3  // Internal panic (unexpected crash)
	ExitConfigError    = 10 // Invalid configuration or parameters
	ExitToolMissing    = 11 // exiftool executable not found
	ExitBaseDirMissing = 12 // Base directory does not exist
)

const (
	// DefaultMetafileName is the per-directory metadata file consulted
	// while layering tag increments from the base directory downward.
	DefaultMetafileName = "metadata.txt"

	// DefaultWildcards is the comma-separated file pattern list used to
	// select scanned images when none is configured.
	DefaultWildcards = "*.tif,*.tiff"

	// DefaultOutputTemplate mirrors the input tree below the output
	// directory when the output argument is an existing directory.
	DefaultOutputTemplate = "{Extra:FilePath}"

	// ExiftoolEnvVar overrides exiftool discovery when set.
	ExiftoolEnvVar = "PHOTOSCAN_EXIFTOOL"

	// MissingTemplateValue is substituted for placeholders that name a
	// tag absent from the store, so a template never fails outright.
	MissingTemplateValue = "UNDEF"
)
