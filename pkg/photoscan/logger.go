package photoscan

// Logger provides a pluggable logging interface for pipeline operations.
// Implementations must be safe for concurrent use by multiple goroutines.
type Logger interface {
	// Verbose logs detailed diagnostic information.
	// Only logged when verbose mode is enabled.
	Verbose(format string, args ...interface{})

	// Info logs informational messages about normal operations.
	Info(format string, args ...interface{})

	// Warn logs non-fatal conditions: incomplete auto-fill inputs or an
	// AUTO marker surviving to emission. Processing continues.
	Warn(format string, args ...interface{})

	// Error logs per-file failures and setup errors.
	Error(format string, args ...interface{})
}
