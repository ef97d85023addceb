package transcribe

import "errors"

// ErrBackendUnavailable indicates the selected backend was not compiled in
// or could not be initialized.
var ErrBackendUnavailable = errors.New("transcription backend unavailable")

// ErrUnknownBackend indicates an unrecognized backend name.
var ErrUnknownBackend = errors.New("unknown transcription backend")
