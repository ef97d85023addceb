package cli

import (
	"context"
	"os"
	"sync"

	"github.com/spf13/pflag"

	"github.com/alnah/batch-transcript/internal/audio"
	"github.com/alnah/batch-transcript/internal/config"
	"github.com/alnah/batch-transcript/internal/ffmpeg"
	"github.com/alnah/batch-transcript/internal/job"
	"github.com/alnah/batch-transcript/internal/transcribe"
)

// ---------------------------------------------------------------------------
// Mock FFmpegResolver
// ---------------------------------------------------------------------------

type mockFFmpegResolver struct {
	ResolveFunc      func(ctx context.Context) (string, error)
	CheckVersionFunc func(ctx context.Context, ffmpegPath string)

	mu                sync.Mutex
	resolveCalls      int
	checkVersionCalls int
}

func (m *mockFFmpegResolver) Resolve(ctx context.Context) (string, error) {
	m.mu.Lock()
	m.resolveCalls++
	m.mu.Unlock()

	if m.ResolveFunc != nil {
		return m.ResolveFunc(ctx)
	}
	return "/usr/bin/ffmpeg", nil
}

func (m *mockFFmpegResolver) CheckVersion(ctx context.Context, ffmpegPath string) {
	m.mu.Lock()
	m.checkVersionCalls++
	m.mu.Unlock()

	if m.CheckVersionFunc != nil {
		m.CheckVersionFunc(ctx, ffmpegPath)
	}
}

func (m *mockFFmpegResolver) CheckVersionCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.checkVersionCalls
}

// ---------------------------------------------------------------------------
// Mock ConfigLoader
// ---------------------------------------------------------------------------

type mockConfigLoader struct {
	LoadFunc func(fs *pflag.FlagSet) (config.Config, error)

	mu        sync.Mutex
	loadCalls int
}

func (m *mockConfigLoader) Load(fs *pflag.FlagSet) (config.Config, error) {
	m.mu.Lock()
	m.loadCalls++
	m.mu.Unlock()

	if m.LoadFunc != nil {
		return m.LoadFunc(fs)
	}
	return config.Default(), nil
}

// ---------------------------------------------------------------------------
// Mock TranscriberFactory + Transcriber
// ---------------------------------------------------------------------------

type mockTranscriberFactory struct {
	NewTranscriberFunc func(spec TranscriberSpec) (transcribe.Transcriber, error)

	mu    sync.Mutex
	specs []TranscriberSpec
	made  []*mockTranscriber
}

func (m *mockTranscriberFactory) NewTranscriber(spec TranscriberSpec) (transcribe.Transcriber, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.specs = append(m.specs, spec)

	if m.NewTranscriberFunc != nil {
		return m.NewTranscriberFunc(spec)
	}
	t := &mockTranscriber{}
	m.made = append(m.made, t)
	return t, nil
}

func (m *mockTranscriberFactory) Specs() []TranscriberSpec {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]TranscriberSpec(nil), m.specs...)
}

type mockTranscriber struct {
	TranscribeFunc func(ctx context.Context, audioPath string, opts transcribe.Options) (string, error)

	mu              sync.Mutex
	transcribeCalls []transcribeCall
	closed          bool
}

type transcribeCall struct {
	AudioPath string
	Opts      transcribe.Options
}

func (m *mockTranscriber) Transcribe(ctx context.Context, audioPath string, opts transcribe.Options) (string, error) {
	m.mu.Lock()
	m.transcribeCalls = append(m.transcribeCalls, transcribeCall{AudioPath: audioPath, Opts: opts})
	m.mu.Unlock()

	if m.TranscribeFunc != nil {
		return m.TranscribeFunc(ctx, audioPath, opts)
	}
	return "transcribed text", nil
}

func (m *mockTranscriber) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockTranscriber) TranscribeCalls() []transcribeCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]transcribeCall, len(m.transcribeCalls))
	copy(result, m.transcribeCalls)
	return result
}

func (m *mockTranscriber) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// ---------------------------------------------------------------------------
// Mock PipelineFactory
// ---------------------------------------------------------------------------

type mockPipelineFactory struct {
	// ExtractErr makes every extraction fail.
	ExtractErr error
	// LoadErr makes every load fail.
	LoadErr error
	// Wave is returned by every load. Defaults to two seconds of silence.
	Wave *audio.Waveform

	mu          sync.Mutex
	ffmpegPaths []string
	tempDirs    []string
	extracted   []string
	loaded      []string
}

func (m *mockPipelineFactory) NewExtractor(ffmpegPath, tempDir string, _ ffmpeg.ProgressFunc) job.Extractor {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ffmpegPaths = append(m.ffmpegPaths, ffmpegPath)
	m.tempDirs = append(m.tempDirs, tempDir)
	return mockExtractor{m: m, dir: tempDir}
}

func (m *mockPipelineFactory) NewLoader(string) job.Loader {
	return mockLoader{m: m}
}

func (m *mockPipelineFactory) Extracted() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.extracted...)
}

func (m *mockPipelineFactory) Loaded() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.loaded...)
}

type mockExtractor struct {
	m   *mockPipelineFactory
	dir string
}

func (e mockExtractor) Extract(_ context.Context, mediaPath string) (string, error) {
	e.m.mu.Lock()
	defer e.m.mu.Unlock()
	e.m.extracted = append(e.m.extracted, mediaPath)
	if e.m.ExtractErr != nil {
		return "", e.m.ExtractErr
	}
	f, err := os.CreateTemp(e.dir, "extracted-*.wav")
	if err != nil {
		return "", err
	}
	_ = f.Close()
	return f.Name(), nil
}

type mockLoader struct {
	m *mockPipelineFactory
}

func (l mockLoader) Load(_ context.Context, path string) (*audio.Waveform, error) {
	l.m.mu.Lock()
	defer l.m.mu.Unlock()
	l.m.loaded = append(l.m.loaded, path)
	if l.m.LoadErr != nil {
		return nil, l.m.LoadErr
	}
	if l.m.Wave != nil {
		return l.m.Wave, nil
	}
	return &audio.Waveform{Samples: make([]int, 32000), SampleRate: 16000, Channels: 1, BitDepth: 16}, nil
}

// Compile-time interface verification.
var (
	_ FFmpegResolver     = (*mockFFmpegResolver)(nil)
	_ ConfigLoader       = (*mockConfigLoader)(nil)
	_ TranscriberFactory = (*mockTranscriberFactory)(nil)
	_ PipelineFactory    = (*mockPipelineFactory)(nil)
)
