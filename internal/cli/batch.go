package cli

import (
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/alnah/batch-transcript/internal/config"
	"github.com/alnah/batch-transcript/internal/discover"
	"github.com/alnah/batch-transcript/internal/format"
	"github.com/alnah/batch-transcript/internal/job"
	"github.com/alnah/batch-transcript/internal/lang"
	"github.com/alnah/batch-transcript/internal/logging"
	"github.com/alnah/batch-transcript/internal/transcribe"
)

// Environment variables read outside the config package.
const (
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
	EnvNoColor      = "NO_COLOR"
)

// BatchCmd creates the root command: transcribe every media file of a directory.
// The env parameter provides injectable dependencies for testing.
func BatchCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch-transcript",
		Short: "Transcribe every video and audio file of a directory to text",
		Long: `Transcribe every video and audio file found directly inside the input
directory, one .txt file per input in the output directory.

Video files have their audio track extracted with ffmpeg (mono, 16 kHz).
The audio is split into fixed-length chunks, transcribed one after the other
with the forced language, and the chunk texts are joined one per line.

A file that fails is reported and skipped; the batch goes on.

Settings come from flags, environment variables, an optional YAML file
(--config) and defaults, in that order of precedence. A .env file in the
working directory is loaded first.`,
		Example: `  batch-transcript -i ./videos -o ./transcripts
  batch-transcript -l en --chunk-ms 30000
  batch-transcript --backend whispercpp -m ~/models/ggml-base.bin
  FORCED_LANGUAGE=auto batch-transcript`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, env)
		},
	}

	config.RegisterFlags(cmd.PersistentFlags())
	cmd.AddCommand(ConfigCmd(env))

	return cmd
}

// runBatch executes the batch.
// Order: config -> logger -> API key -> output dir -> ffmpeg -> model -> discover -> run.
// The model is loaded before discovery, so an empty directory still pays for it.
func runBatch(cmd *cobra.Command, env *Env) error {
	ctx := cmd.Context()
	start := env.Now()

	// === CONFIGURATION (fail-fast) ===

	cfg, err := env.ConfigLoader.Load(cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := logging.New(env.Stderr, logging.Options{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		NoColor: env.Getenv(EnvNoColor) != "",
	})
	if err != nil {
		return fmt.Errorf("%w: %w", config.ErrInvalid, err)
	}
	logger.Debug().Object("config", cfg).Msg("configuration loaded")

	var apiKey string
	if cfg.Backend == transcribe.BackendOpenAI {
		apiKey = env.Getenv(EnvOpenAIAPIKey)
		if apiKey == "" {
			return fmt.Errorf("%w (set it with: export %s=sk-...)", ErrAPIKeyMissing, EnvOpenAIAPIKey)
		}
	}

	// === SETUP ===

	if err := os.MkdirAll(cfg.OutputDir, 0o750); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrOutputDir, cfg.OutputDir, err)
	}

	// Without ffmpeg, PCM WAV inputs still work; other files fail one by one.
	ffmpegPath, err := env.FFmpegResolver.Resolve(ctx)
	if err != nil {
		_, _ = fmt.Fprintf(env.Stderr, "Warning: %v\n", err)
		ffmpegPath = "ffmpeg"
	} else {
		env.FFmpegResolver.CheckVersion(ctx, ffmpegPath)
	}

	printModelBanner(env.Stderr, cfg.ModelName, cfg.Backend)
	tr, err := env.TranscriberFactory.NewTranscriber(TranscriberSpec{
		Backend: cfg.Backend,
		Model:   cfg.ModelName,
		APIKey:  apiKey,
		Logger:  logging.WithComponent(logger, "model"),
	})
	if err != nil {
		return err
	}
	if closer, ok := tr.(io.Closer); ok {
		defer func() {
			if err := closer.Close(); err != nil {
				logger.Warn().Err(err).Msg("cannot release model")
			}
		}()
	}

	// === DISCOVERY ===

	files, err := discover.Files(cfg.InputDir, cfg.VideoSet(), cfg.AudioSet())
	if err != nil {
		return err
	}
	if len(files) == 0 {
		printNoFiles(env.Stderr, cfg.InputDir, discover.NewExtSet(slices.Concat(cfg.VideoExtensions, cfg.AudioExtensions)...))
		return nil
	}
	logger.Info().
		Int("files", len(files)).
		Str("input_dir", cfg.InputDir).
		Str("language", lang.DisplayName(cfg.ForcedLanguage)).
		Msg("files discovered")

	// === TRANSCRIPTION ===

	jobLogger := logging.WithComponent(logger, "job")
	pipeline := env.PipelineFactory
	runner := job.NewRunner(tr,
		pipeline.NewExtractor(ffmpegPath, cfg.TempDir, extractionLogger(jobLogger)),
		pipeline.NewLoader(ffmpegPath),
		job.WithLanguage(cfg.ForcedLanguage),
		job.WithChunkDuration(cfg.ChunkDuration()),
		job.WithOutputDir(cfg.OutputDir),
		job.WithTempDir(cfg.TempDir),
		job.WithProgress(progressPrinter(env.Stderr)),
		job.WithResultHandler(resultPrinter(env.Stderr)),
		job.WithLogger(jobLogger),
	)
	summary := runner.RunAll(ctx, files)
	printSummary(env.Stderr, summary)

	logger.Info().
		Str("elapsed", format.Duration(env.Now().Sub(start))).
		Int("succeeded", summary.Succeeded()).
		Int("failed", summary.Failed()).
		Msg("run finished")

	if err := ctx.Err(); err != nil {
		return err
	}
	if summary.AllFailed() {
		return fmt.Errorf("%w: %d file(s)", ErrAllFailed, summary.Failed())
	}
	return nil
}

// extractionLogger traces ffmpeg progress, at most one event per second
// of extracted audio.
func extractionLogger(logger zerolog.Logger) func(time.Duration) {
	var last time.Duration
	return func(done time.Duration) {
		if done < last {
			last = 0 // next file
		}
		if done-last < time.Second && last != 0 {
			return
		}
		last = done
		logger.Trace().Str("position", format.Duration(done)).Msg("extracting audio")
	}
}
