//go:build !whisper_cpp

package transcribe

import (
	"context"
	"fmt"
)

var _ Transcriber = (*WhisperCPPTranscriber)(nil)

// WhisperCPPTranscriber is unavailable in builds without the whisper_cpp tag.
type WhisperCPPTranscriber struct{}

// NewWhisperCPPTranscriber reports that whisper.cpp support was not compiled in.
// Rebuild with -tags whisper_cpp and a built libwhisper to enable it.
func NewWhisperCPPTranscriber(modelPath string, _ ...WhisperOption) (*WhisperCPPTranscriber, error) {
	return nil, fmt.Errorf("%w: %s backend requires a build with -tags whisper_cpp (model %s)",
		ErrBackendUnavailable, BackendWhisperCPP, modelPath)
}

func (*WhisperCPPTranscriber) Transcribe(context.Context, string, Options) (string, error) {
	return "", ErrBackendUnavailable
}

func (*WhisperCPPTranscriber) Close() error { return nil }
