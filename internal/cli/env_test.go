package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/alnah/batch-transcript/internal/transcribe"
)

func TestDefaultEnv(t *testing.T) {
	t.Parallel()

	env := DefaultEnv()
	if env.Stdout != os.Stdout || env.Stderr != os.Stderr {
		t.Error("DefaultEnv() should write to the process stdout/stderr")
	}
	if env.Getenv == nil || env.Now == nil {
		t.Error("DefaultEnv() left Getenv or Now nil")
	}
	if env.FFmpegResolver == nil || env.ConfigLoader == nil || env.TranscriberFactory == nil || env.PipelineFactory == nil {
		t.Error("DefaultEnv() left a factory nil")
	}
}

func TestNewEnv_Options(t *testing.T) {
	t.Parallel()

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	now := fixedTime(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	resolver := &mockFFmpegResolver{}
	loader := &mockConfigLoader{}
	factory := &mockTranscriberFactory{}
	pipeline := &mockPipelineFactory{}

	env := NewEnv(
		WithStdout(stdout),
		WithStderr(stderr),
		WithGetenv(staticEnv(map[string]string{"K": "v"})),
		WithNow(now),
		WithFFmpegResolver(resolver),
		WithConfigLoader(loader),
		WithTranscriberFactory(factory),
		WithPipelineFactory(pipeline),
	)

	if env.Stdout != stdout || env.Stderr != stderr {
		t.Error("writers not applied")
	}
	if env.Getenv("K") != "v" {
		t.Error("Getenv not applied")
	}
	if !env.Now().Equal(now()) {
		t.Error("Now not applied")
	}
	if env.FFmpegResolver != resolver || env.ConfigLoader != loader {
		t.Error("resolver or loader not applied")
	}
	if env.TranscriberFactory != factory || env.PipelineFactory != pipeline {
		t.Error("factories not applied")
	}
}

func TestDefaultTranscriberFactory(t *testing.T) {
	t.Parallel()

	t.Run("openai", func(t *testing.T) {
		t.Parallel()
		tr, err := defaultTranscriberFactory{}.NewTranscriber(TranscriberSpec{
			Backend: transcribe.BackendOpenAI,
			Model:   "whisper-1",
			APIKey:  "sk-test",
		})
		if err != nil {
			t.Fatalf("NewTranscriber() unexpected error: %v", err)
		}
		if _, ok := tr.(*transcribe.OpenAITranscriber); !ok {
			t.Errorf("NewTranscriber() = %T, want *transcribe.OpenAITranscriber", tr)
		}
	})

	t.Run("whispercpp without a model file", func(t *testing.T) {
		t.Parallel()
		tr, err := defaultTranscriberFactory{}.NewTranscriber(TranscriberSpec{
			Backend: transcribe.BackendWhisperCPP,
			Model:   filepath.Join(t.TempDir(), "missing.bin"),
			Logger:  zerolog.Nop(),
		})
		if !errors.Is(err, transcribe.ErrBackendUnavailable) {
			t.Errorf("NewTranscriber() error = %v, want ErrBackendUnavailable", err)
		}
		if tr != nil {
			t.Errorf("NewTranscriber() = %v, want nil on error", tr)
		}
	})

	t.Run("unknown backend", func(t *testing.T) {
		t.Parallel()
		_, err := defaultTranscriberFactory{}.NewTranscriber(TranscriberSpec{Backend: "vosk"})
		if !errors.Is(err, transcribe.ErrUnknownBackend) {
			t.Errorf("NewTranscriber() error = %v, want ErrUnknownBackend", err)
		}
	})
}

func TestDefaultPipelineFactory(t *testing.T) {
	t.Parallel()

	p := defaultPipelineFactory{}
	if p.NewExtractor("/usr/bin/ffmpeg", t.TempDir(), nil) == nil {
		t.Error("NewExtractor() = nil")
	}
	if p.NewLoader("/usr/bin/ffmpeg") == nil {
		t.Error("NewLoader() = nil")
	}
}

func TestDefaultPipelineFactory_LoaderReadsWAV(t *testing.T) {
	t.Parallel()

	// A PCM WAV is decoded without ffmpeg, so a bogus binary path is fine.
	path := filepath.Join(t.TempDir(), "tone.wav")
	if err := os.WriteFile(path, pcmWAV(8000, 1600), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := defaultPipelineFactory{}.NewLoader("/nonexistent/ffmpeg").Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if w.SampleRate != 8000 || len(w.Samples) != 1600 {
		t.Errorf("Load() = %d Hz, %d samples; want 8000 Hz, 1600 samples", w.SampleRate, len(w.Samples))
	}
}

// pcmWAV builds a mono 16-bit PCM WAV of n silent samples.
func pcmWAV(rate, n int) []byte {
	data := n * 2
	b := &bytes.Buffer{}
	le := func(v uint32, size int) {
		for i := 0; i < size; i++ {
			b.WriteByte(byte(v >> (8 * i)))
		}
	}
	b.WriteString("RIFF")
	le(uint32(36+data), 4)
	b.WriteString("WAVEfmt ")
	le(16, 4)
	le(1, 2) // PCM
	le(1, 2) // mono
	le(uint32(rate), 4)
	le(uint32(rate*2), 4)
	le(2, 2)
	le(16, 2)
	b.WriteString("data")
	le(uint32(data), 4)
	b.Write(make([]byte, data))
	return b.Bytes()
}
