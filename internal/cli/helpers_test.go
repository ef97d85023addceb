package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/spf13/pflag"

	"github.com/alnah/batch-transcript/internal/config"
)

// ---------------------------------------------------------------------------
// syncBuffer - thread-safe bytes.Buffer for concurrent test output
// ---------------------------------------------------------------------------

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (n int, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Compile-time check that syncBuffer implements io.Writer.
var _ io.Writer = (*syncBuffer)(nil)

// ---------------------------------------------------------------------------
// testMocks - convenience struct for grouping all mocks
// ---------------------------------------------------------------------------

type testMocks struct {
	ffmpegResolver *mockFFmpegResolver
	configLoader   *mockConfigLoader
	transcriber    *mockTranscriberFactory
	pipeline       *mockPipelineFactory
}

func newTestMocks() *testMocks {
	return &testMocks{
		ffmpegResolver: &mockFFmpegResolver{},
		configLoader:   &mockConfigLoader{},
		transcriber:    &mockTranscriberFactory{},
		pipeline:       &mockPipelineFactory{},
	}
}

// ---------------------------------------------------------------------------
// testEnv - creates a fully mocked Env for testing
// ---------------------------------------------------------------------------

// testEnvOptions configures a test environment.
type testEnvOptions struct {
	stdout io.Writer
	stderr io.Writer
	getenv func(string) string
	now    func() time.Time
	mocks  *testMocks
}

// testEnvOption configures testEnv.
type testEnvOption func(*testEnvOptions)

func withTestStdout(w io.Writer) testEnvOption {
	return func(o *testEnvOptions) { o.stdout = w }
}

func withTestStderr(w io.Writer) testEnvOption {
	return func(o *testEnvOptions) { o.stderr = w }
}

func withTestGetenv(fn func(string) string) testEnvOption {
	return func(o *testEnvOptions) { o.getenv = fn }
}

// testEnv creates a test Env with all dependencies mocked.
// Returns the Env and the mocks for assertions.
func testEnv(opts ...testEnvOption) (*Env, *testMocks) {
	options := &testEnvOptions{
		stdout: &syncBuffer{},
		stderr: &syncBuffer{},
		getenv: defaultTestEnv,
		now:    fixedTime(time.Date(2026, 1, 26, 14, 30, 52, 0, time.UTC)),
		mocks:  newTestMocks(),
	}

	for _, opt := range opts {
		opt(options)
	}

	env := &Env{
		Stdout:             options.stdout,
		Stderr:             options.stderr,
		Getenv:             options.getenv,
		Now:                options.now,
		FFmpegResolver:     options.mocks.ffmpegResolver,
		ConfigLoader:       options.mocks.configLoader,
		TranscriberFactory: options.mocks.transcriber,
		PipelineFactory:    options.mocks.pipeline,
	}

	return env, options.mocks
}

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

// fixedTime returns a function that always returns the given time.
func fixedTime(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// staticEnv returns a getenv function that returns values from the given map.
func staticEnv(env map[string]string) func(string) string {
	return func(key string) string {
		return env[key]
	}
}

// defaultTestEnv returns an OpenAI API key.
func defaultTestEnv(key string) string {
	if key == EnvOpenAIAPIKey {
		return "test-openai-key"
	}
	return ""
}

// batchDirs holds the directories of one test batch.
type batchDirs struct {
	input  string
	output string
	temp   string
}

// newBatchDirs creates input/output/temp directories and the named input files.
func newBatchDirs(t *testing.T, names ...string) batchDirs {
	t.Helper()
	root := t.TempDir()
	d := batchDirs{
		input:  filepath.Join(root, "in"),
		output: filepath.Join(root, "out"),
		temp:   filepath.Join(root, "tmp"),
	}
	for _, dir := range []string{d.input, d.temp} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(d.input, name), []byte("media"), 0o644); err != nil {
			t.Fatalf("failed to create input file: %v", err)
		}
	}
	return d
}

// configFor returns a ConfigLoader serving the defaults pointed at d.
func configFor(d batchDirs, edit ...func(*config.Config)) *mockConfigLoader {
	return &mockConfigLoader{
		LoadFunc: func(*pflag.FlagSet) (config.Config, error) {
			cfg := config.Default()
			cfg.InputDir = d.input
			cfg.OutputDir = d.output
			cfg.TempDir = d.temp
			cfg.LogLevel = "disabled"
			for _, fn := range edit {
				fn(&cfg)
			}
			return cfg, nil
		},
	}
}

// readOutput returns the content of a transcript in d.output.
func readOutput(t *testing.T, d batchDirs, name string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(d.output, name))
	if err != nil {
		t.Fatalf("read transcript %s: %v", name, err)
	}
	return string(b)
}
