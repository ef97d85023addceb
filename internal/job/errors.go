package job

import "errors"

var (
	// ErrTranscription wraps any error returned by the transcriber.
	// The file job stops at the first failing chunk.
	ErrTranscription = errors.New("transcription failed")

	// ErrWriteOutput indicates the transcript could not be persisted.
	ErrWriteOutput = errors.New("cannot write transcript")
)
