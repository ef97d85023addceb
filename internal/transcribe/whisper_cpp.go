//go:build whisper_cpp

package transcribe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	whisperpkg "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
	"github.com/rs/zerolog"

	"github.com/alnah/batch-transcript/internal/audio"
)

// whisperSampleRate is the only rate whisper.cpp accepts.
const whisperSampleRate = 16000

var _ Transcriber = (*WhisperCPPTranscriber)(nil)

// WhisperCPPTranscriber runs a local ggml model through whisper.cpp.
// The model is loaded once; each call gets a fresh inference context.
type WhisperCPPTranscriber struct {
	model   whisperpkg.Model
	threads uint
	loader  *audio.Loader
	logger  zerolog.Logger
	mu      sync.Mutex // whisper.cpp contexts share model state
}

// NewWhisperCPPTranscriber loads the model at modelPath.
func NewWhisperCPPTranscriber(modelPath string, opts ...WhisperOption) (*WhisperCPPTranscriber, error) {
	cfg := newWhisperConfig(opts)

	m, err := whisperpkg.New(modelPath)
	if err != nil {
		return nil, fmt.Errorf("%w: load model %s: %v", ErrBackendUnavailable, modelPath, err)
	}
	cfg.logger.Info().
		Str("model", modelPath).
		Uint("threads", cfg.threads).
		Bool("multilingual", m.IsMultilingual()).
		Msg("whisper: model loaded")

	return &WhisperCPPTranscriber{
		model:   m,
		threads: cfg.threads,
		loader:  audio.NewLoader(),
		logger:  cfg.logger,
	}, nil
}

// Transcribe decodes audioPath (a PCM WAV), converts it to mono 16 kHz
// float samples and joins the recognized segments with spaces.
func (t *WhisperCPPTranscriber) Transcribe(ctx context.Context, audioPath string, opts Options) (string, error) {
	w, err := t.loader.Load(ctx, audioPath)
	if err != nil {
		return "", err
	}
	samples := audio.MonoFloat32(w.Samples, w.Channels, w.BitDepth, w.SampleRate, whisperSampleRate)
	if len(samples) == 0 {
		return "", nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	wctx, err := t.model.NewContext()
	if err != nil {
		return "", fmt.Errorf("create context: %w", err)
	}
	wctx.SetThreads(t.threads)
	if err := wctx.SetLanguage(whisperLanguage(opts.Language)); err != nil {
		return "", fmt.Errorf("set language %q: %w", opts.Language, err)
	}

	if err := wctx.Process(samples, nil, nil, nil); err != nil {
		return "", fmt.Errorf("process audio: %w", err)
	}
	// Inference itself cannot be interrupted; honor cancellation afterwards.
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var segments []string
	for {
		seg, err := wctx.NextSegment()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("read segment: %w", err)
		}
		if text := strings.TrimSpace(seg.Text); text != "" {
			segments = append(segments, text)
		}
	}

	t.logger.Debug().
		Str("file", audioPath).
		Int("samples", len(samples)).
		Int("segments", len(segments)).
		Str("language", wctx.Language()).
		Msg("whisper: chunk transcribed")

	return strings.Join(segments, " "), nil
}

// Close releases the model.
func (t *WhisperCPPTranscriber) Close() error {
	if t.model == nil {
		return nil
	}
	return t.model.Close()
}
