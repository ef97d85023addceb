package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"github.com/spf13/pflag"

	"github.com/alnah/batch-transcript/internal/audio"
	"github.com/alnah/batch-transcript/internal/config"
	"github.com/alnah/batch-transcript/internal/ffmpeg"
	"github.com/alnah/batch-transcript/internal/job"
	"github.com/alnah/batch-transcript/internal/transcribe"
)

// Env holds injectable dependencies for CLI commands.
// This is the central injection point for testing CLI commands in isolation.
//
// Env must not be nil when passed to command functions. Use DefaultEnv()
// or NewEnv() to create a valid instance.
type Env struct {
	// I/O and environment
	Stdout io.Writer
	Stderr io.Writer
	Getenv func(string) string
	Now    func() time.Time

	// Factories for domain objects
	FFmpegResolver     FFmpegResolver
	ConfigLoader       ConfigLoader
	TranscriberFactory TranscriberFactory
	PipelineFactory    PipelineFactory
}

// FFmpegResolver resolves the path to the FFmpeg binary.
type FFmpegResolver interface {
	Resolve(ctx context.Context) (string, error)
	CheckVersion(ctx context.Context, ffmpegPath string)
}

// ConfigLoader resolves the configuration from flags, environment and file.
type ConfigLoader interface {
	Load(fs *pflag.FlagSet) (config.Config, error)
}

// TranscriberSpec selects and configures a transcription backend.
type TranscriberSpec struct {
	Backend string
	Model   string
	APIKey  string // openai only
	Logger  zerolog.Logger
}

// TranscriberFactory loads the speech model once per run.
type TranscriberFactory interface {
	NewTranscriber(spec TranscriberSpec) (transcribe.Transcriber, error)
}

// PipelineFactory creates the ffmpeg-backed stages of a file job.
type PipelineFactory interface {
	NewExtractor(ffmpegPath, tempDir string, progress ffmpeg.ProgressFunc) job.Extractor
	NewLoader(ffmpegPath string) job.Loader
}

// EnvOption configures an Env.
type EnvOption func(*Env)

// WithStdout sets the stdout writer.
func WithStdout(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stdout = w
	}
}

// WithStderr sets the stderr writer.
func WithStderr(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stderr = w
	}
}

// WithGetenv sets the environment variable getter.
func WithGetenv(fn func(string) string) EnvOption {
	return func(e *Env) {
		e.Getenv = fn
	}
}

// WithNow sets the time provider.
func WithNow(fn func() time.Time) EnvOption {
	return func(e *Env) {
		e.Now = fn
	}
}

// WithFFmpegResolver sets the FFmpeg resolver.
func WithFFmpegResolver(r FFmpegResolver) EnvOption {
	return func(e *Env) {
		e.FFmpegResolver = r
	}
}

// WithConfigLoader sets the config loader.
func WithConfigLoader(l ConfigLoader) EnvOption {
	return func(e *Env) {
		e.ConfigLoader = l
	}
}

// WithTranscriberFactory sets the transcriber factory.
func WithTranscriberFactory(f TranscriberFactory) EnvOption {
	return func(e *Env) {
		e.TranscriberFactory = f
	}
}

// WithPipelineFactory sets the pipeline factory.
func WithPipelineFactory(f PipelineFactory) EnvOption {
	return func(e *Env) {
		e.PipelineFactory = f
	}
}

// DefaultEnv returns an Env with production defaults.
func DefaultEnv() *Env {
	return &Env{
		Stdout:             os.Stdout,
		Stderr:             os.Stderr,
		Getenv:             os.Getenv,
		Now:                time.Now,
		FFmpegResolver:     &defaultFFmpegResolver{},
		ConfigLoader:       &defaultConfigLoader{},
		TranscriberFactory: &defaultTranscriberFactory{},
		PipelineFactory:    &defaultPipelineFactory{},
	}
}

// NewEnv creates an Env with the given options applied to defaults.
func NewEnv(opts ...EnvOption) *Env {
	env := DefaultEnv()
	for _, opt := range opts {
		opt(env)
	}
	return env
}

// ---------------------------------------------------------------------------
// Default implementations - delegate to real packages
// ---------------------------------------------------------------------------

// defaultFFmpegResolver implements FFmpegResolver using the ffmpeg package.
type defaultFFmpegResolver struct{}

func (defaultFFmpegResolver) Resolve(ctx context.Context) (string, error) {
	return ffmpeg.NewResolver().Resolve(ctx)
}

func (defaultFFmpegResolver) CheckVersion(ctx context.Context, ffmpegPath string) {
	ffmpeg.NewVersionChecker().Check(ctx, ffmpegPath)
}

// defaultConfigLoader implements ConfigLoader using the config package.
type defaultConfigLoader struct{}

func (defaultConfigLoader) Load(fs *pflag.FlagSet) (config.Config, error) {
	return config.Load(fs)
}

// defaultTranscriberFactory builds the backend named by spec.Backend.
type defaultTranscriberFactory struct{}

func (defaultTranscriberFactory) NewTranscriber(spec TranscriberSpec) (transcribe.Transcriber, error) {
	switch spec.Backend {
	case transcribe.BackendOpenAI:
		client := openai.NewClient(spec.APIKey)
		return transcribe.NewOpenAITranscriber(client, transcribe.WithModel(spec.Model)), nil
	case transcribe.BackendWhisperCPP:
		t, err := transcribe.NewWhisperCPPTranscriber(config.ExpandPath(spec.Model), transcribe.WithLogger(spec.Logger))
		if err != nil {
			return nil, err
		}
		return t, nil
	default:
		return nil, fmt.Errorf("%w: %q", transcribe.ErrUnknownBackend, spec.Backend)
	}
}

// defaultPipelineFactory implements PipelineFactory using ffmpeg and audio.
type defaultPipelineFactory struct{}

func (defaultPipelineFactory) NewExtractor(ffmpegPath, tempDir string, progress ffmpeg.ProgressFunc) job.Extractor {
	return ffmpeg.NewExtractor(ffmpegPath, ffmpeg.WithTempDir(tempDir), ffmpeg.WithProgress(progress))
}

func (defaultPipelineFactory) NewLoader(ffmpegPath string) job.Loader {
	return audio.NewLoader(audio.WithPCMDecoder(ffmpeg.NewExtractor(ffmpegPath)))
}

// Compile-time interface verification.
var (
	_ FFmpegResolver     = (*defaultFFmpegResolver)(nil)
	_ ConfigLoader       = (*defaultConfigLoader)(nil)
	_ TranscriberFactory = (*defaultTranscriberFactory)(nil)
	_ PipelineFactory    = (*defaultPipelineFactory)(nil)
)
