package ffmpeg

import "errors"

// ErrNotFound indicates the FFmpeg binary could not be located.
var ErrNotFound = errors.New("ffmpeg not found")

// ErrExtractionFailed indicates FFmpeg could not derive a mono 16 kHz
// waveform from a media file (non-zero exit, missing binary, no output).
var ErrExtractionFailed = errors.New("audio extraction failed")
