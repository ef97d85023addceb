package cli

import "errors"

// CLI-specific sentinel errors.
// These are setup/outcome errors that don't belong to domain packages.

var (
	// ErrAPIKeyMissing indicates OPENAI_API_KEY environment variable is not set.
	ErrAPIKeyMissing = errors.New("OPENAI_API_KEY environment variable not set")

	// ErrOutputDir indicates the output directory could not be created.
	ErrOutputDir = errors.New("cannot create output directory")

	// ErrAllFailed indicates files were found but none was transcribed.
	ErrAllFailed = errors.New("all transcriptions failed")
)
