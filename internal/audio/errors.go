package audio

import "errors"

// ErrDecodeFailed indicates a media file could not be decoded to PCM.
var ErrDecodeFailed = errors.New("audio decode failed")

// ErrInvalidChunkDuration indicates a chunk duration below one millisecond.
var ErrInvalidChunkDuration = errors.New("chunk duration must be positive")

// ErrChunkWriteFailed indicates a chunk could not be exported to WAV.
var ErrChunkWriteFailed = errors.New("chunk write failed")
