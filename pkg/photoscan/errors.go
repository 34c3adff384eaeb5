package photoscan

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Per-file errors (decode, validation, tool) are caught by the pipeline
// walker: the file is skipped, the failure is counted, and the run
// continues. Setup errors abort the run before any file is processed.
var (
	// ErrDecode indicates a malformed filename token, a numeric parse
	// failure, or an out-of-range component in the filename grammar.
	ErrDecode = errors.New("filename decode failed")

	// ErrValidation indicates a rule violation discovered after
	// decoding: a tag still MANDATORY at emission, an invalid crop box,
	// a non-90-degree rotation, or a type mismatch during auto-fill.
	ErrValidation = errors.New("validation failed")

	// ErrTool indicates the external metadata tool exited non-zero.
	// The tool's diagnostic is surfaced verbatim in the wrapped message.
	ErrTool = errors.New("metadata tool failed")

	// ErrToolNotFound indicates the exiftool executable could not be
	// located in the explicit path, the program directory, or PATH.
	ErrToolNotFound = errors.New("exiftool executable not found")

	// ErrBaseDirMissing indicates the base directory does not exist.
	ErrBaseDirMissing = errors.New("base directory not found")

	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// DecodeError describes a filename grammar violation with enough
// context to locate the offending token. It wraps ErrDecode so callers
// can classify it with errors.Is.
type DecodeError struct {
	Stem    string // filename stem being decoded
	Token   string // offending metadata token, empty if not token-scoped
	Message string
}

func (e *DecodeError) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("decode %q: token %q: %s", e.Stem, e.Token, e.Message)
	}
	return fmt.Sprintf("decode %q: %s", e.Stem, e.Message)
}

func (e *DecodeError) Unwrap() error { return ErrDecode }

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known
// errors, and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrToolNotFound):
		return ExitToolMissing
	case errors.Is(err, ErrBaseDirMissing):
		return ExitBaseDirMissing
	case errors.Is(err, ErrInvalidConfig):
		return ExitConfigError
	}

	return ExitGeneralError
}
