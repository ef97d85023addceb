package transcribe

import (
	"runtime"

	"github.com/rs/zerolog"

	"github.com/alnah/batch-transcript/internal/lang"
)

// WhisperOption configures a WhisperCPPTranscriber.
type WhisperOption func(*whisperConfig)

type whisperConfig struct {
	threads uint
	logger  zerolog.Logger
}

// WithLogger sets the logger for model and inference events.
func WithLogger(l zerolog.Logger) WhisperOption {
	return func(c *whisperConfig) { c.logger = l }
}

func newWhisperConfig(opts []WhisperOption) whisperConfig {
	c := whisperConfig{
		threads: uint(runtime.NumCPU()),
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// whisperLanguage maps an Options language to a whisper.cpp language code.
func whisperLanguage(code string) string {
	if base := lang.BaseCode(code); base != "" {
		return base
	}
	return "auto"
}
