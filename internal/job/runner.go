// Package job runs the per-file transcription pipeline:
// extract (video only) -> load -> chunk -> transcribe each chunk -> join -> write.
//
// Every temporary file is released by the step that created it, on every exit
// path. A failing file never stops the batch.
package job

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/alnah/batch-transcript/internal/audio"
	"github.com/alnah/batch-transcript/internal/discover"
	"github.com/alnah/batch-transcript/internal/logging"
	"github.com/alnah/batch-transcript/internal/transcribe"
)

// Defaults.
const (
	DefaultChunkDuration = 10 * time.Second
	DefaultOutputDir     = "."
)

// Temp file patterns.
const (
	chunkPattern  = "batch-transcript-chunk-*.wav"
	outputPattern = ".batch-transcript-*.tmp"
)

// ProgressFunc is called before each chunk is transcribed.
// current is 1-based.
type ProgressFunc func(in discover.InputFile, current, total int)

// ResultFunc is called once per file, after its job ends.
type ResultFunc func(r Result)

// Runner processes input files one at a time.
type Runner struct {
	transcriber transcribe.Transcriber
	extractor   Extractor
	loader      Loader

	language  string
	chunk     time.Duration
	outputDir string
	tempDir   string

	progress ProgressFunc
	onResult ResultFunc
	logger   zerolog.Logger

	fs         fileSystem
	writeChunk chunkWriterFunc
}

// Option configures a Runner.
type Option func(*Runner)

// WithLanguage sets the forced language passed on every transcriber call.
// Empty or "auto" lets the model detect the language.
func WithLanguage(code string) Option {
	return func(r *Runner) { r.language = code }
}

// WithChunkDuration sets the chunk length. Non-positive values are kept
// so that Run reports them.
func WithChunkDuration(d time.Duration) Option {
	return func(r *Runner) { r.chunk = d }
}

// WithOutputDir sets the directory for .txt transcripts.
func WithOutputDir(dir string) Option {
	return func(r *Runner) {
		if dir != "" {
			r.outputDir = dir
		}
	}
}

// WithTempDir sets the directory for chunk files. Empty means os.TempDir.
func WithTempDir(dir string) Option {
	return func(r *Runner) { r.tempDir = dir }
}

// WithProgress sets the per-chunk progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(r *Runner) { r.progress = fn }
}

// WithResultHandler sets the per-file completion callback.
func WithResultHandler(fn ResultFunc) Option {
	return func(r *Runner) { r.onResult = fn }
}

// WithLogger sets the diagnostics logger.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// withFileSystem sets a custom file system (for testing).
func withFileSystem(fs fileSystem) Option {
	return func(r *Runner) { r.fs = fs }
}

// withChunkWriter sets a custom chunk exporter (for testing).
func withChunkWriter(fn chunkWriterFunc) Option {
	return func(r *Runner) { r.writeChunk = fn }
}

// NewRunner creates a Runner. The transcriber is shared by every file;
// the Runner never closes it.
func NewRunner(t transcribe.Transcriber, ex Extractor, ld Loader, opts ...Option) *Runner {
	r := &Runner{
		transcriber: t,
		extractor:   ex,
		loader:      ld,
		chunk:       DefaultChunkDuration,
		outputDir:   DefaultOutputDir,
		logger:      zerolog.Nop(),
		fs:          osFileSystem{},
		writeChunk:  audio.WriteChunk,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// OutputPath returns where the transcript of in is written.
// Example: "in/talk.mp4" -> "<outputDir>/talk.txt"
func (r *Runner) OutputPath(in discover.InputFile) string {
	return filepath.Join(r.outputDir, in.Base()+".txt")
}

// RunAll processes files sequentially and never stops on a failed file.
// Once ctx is canceled, the remaining files are reported as canceled
// without being started.
func (r *Runner) RunAll(ctx context.Context, files []discover.InputFile) Summary {
	summary := Summary{Results: make([]Result, 0, len(files))}
	for _, in := range files {
		var res Result
		if err := ctx.Err(); err != nil {
			res = failed(in, KindCanceled, err)
		} else {
			res = r.Run(ctx, in)
		}
		r.report(res)
		summary.Results = append(summary.Results, res)
	}

	r.logger.Info().
		Int("succeeded", summary.Succeeded()).
		Int("failed", summary.Failed()).
		Msg("batch finished")
	return summary
}

// Run processes one file. Errors are returned in the Result, never panicked.
// The extracted audio (video inputs) is removed on every exit path.
func (r *Runner) Run(ctx context.Context, in discover.InputFile) Result {
	log := r.logger.With().Str(logging.FieldFile, in.Path).Logger()
	start := time.Now()

	// === EXTRACT (video only) ===

	source := in.Path
	if in.Kind == discover.KindVideo {
		extracted, err := r.extractor.Extract(ctx, in.Path)
		if err != nil {
			return failed(in, KindExtraction, err)
		}
		defer r.remove(extracted, log)
		source = extracted
		log.Debug().Str("audio", extracted).Msg("audio extracted")
	}

	// === LOAD + CHUNK ===

	w, err := r.loader.Load(ctx, source)
	if err != nil {
		return failed(in, KindLoad, err)
	}
	chunks, err := audio.Split(w, r.chunk)
	if err != nil {
		return failed(in, KindUnexpected, err)
	}
	log.Debug().
		Dur("duration", w.Duration()).
		Int(logging.FieldChunks, len(chunks)).
		Msg("audio loaded")

	// === TRANSCRIBE ===

	texts := make([]string, 0, len(chunks))
	for _, c := range chunks {
		if err := ctx.Err(); err != nil {
			return failed(in, KindCanceled, err)
		}
		if r.progress != nil {
			r.progress(in, c.Index+1, len(chunks))
		}
		text, kind, err := r.transcribeChunk(ctx, c, w, log)
		if err != nil {
			return failed(in, kind, err)
		}
		log.Debug().Int(logging.FieldChunk, c.Index).Int("chars", len(text)).Msg("chunk transcribed")
		texts = append(texts, text)
	}

	// === WRITE ===

	out, err := r.write(in, Join(texts))
	if err != nil {
		return failed(in, KindFilesystem, err)
	}

	log.Info().
		Str(logging.FieldOutput, out).
		Int(logging.FieldChunks, len(chunks)).
		Dur("elapsed", time.Since(start)).
		Msg("transcript written")
	return Result{Input: in, OutputPath: out, Chunks: len(chunks)}
}

// transcribeChunk exports c to a temporary WAV, transcribes it and removes
// the file whether or not the call succeeded.
func (r *Runner) transcribeChunk(ctx context.Context, c audio.Chunk, w *audio.Waveform, log zerolog.Logger) (string, ErrorKind, error) {
	f, err := r.fs.CreateTemp(r.tempDir, chunkPattern)
	if err != nil {
		return "", KindFilesystem, fmt.Errorf("%w: create temp file: %v", audio.ErrChunkWriteFailed, err)
	}
	path := f.Name()
	_ = f.Close()
	defer r.remove(path, log)

	if err := r.writeChunk(path, c, w); err != nil {
		return "", KindFilesystem, err
	}

	text, err := r.transcriber.Transcribe(ctx, path, transcribe.Options{Language: r.language})
	if err != nil {
		return "", KindTranscription, fmt.Errorf("%w: %s: %w", ErrTranscription, c, err)
	}
	return strings.TrimSpace(text), KindNone, nil
}

// write persists doc atomically: a temp file in the output directory is
// renamed over the final path, so a failed write leaves no partial transcript.
func (r *Runner) write(in discover.InputFile, doc string) (string, error) {
	if err := r.fs.MkdirAll(r.outputDir, 0o750); err != nil {
		return "", fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	out := r.OutputPath(in)

	f, err := r.fs.CreateTemp(r.outputDir, outputPattern)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	tmp := f.Name()

	_, writeErr := f.WriteString(doc)
	if writeErr == nil {
		writeErr = f.Chmod(0o644)
	}
	if err := f.Close(); writeErr == nil {
		writeErr = err
	}
	if writeErr != nil {
		_ = r.fs.Remove(tmp)
		return "", fmt.Errorf("%w: %s: %v", ErrWriteOutput, out, writeErr)
	}

	if err := r.fs.Rename(tmp, out); err != nil {
		_ = r.fs.Remove(tmp)
		return "", fmt.Errorf("%w: %s: %v", ErrWriteOutput, out, err)
	}
	return out, nil
}

func (r *Runner) remove(path string, log zerolog.Logger) {
	if err := r.fs.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Str("path", path).Msg("cannot remove temporary file")
	}
}

func (r *Runner) report(res Result) {
	if !res.OK() {
		r.logger.Error().
			Err(res.Err).
			Str(logging.FieldFile, res.Input.Path).
			Stringer("kind", res.Kind()).
			Msg("file job failed")
	}
	if r.onResult != nil {
		r.onResult(res)
	}
}

// Join builds the transcript document: chunk texts in order, one per line.
func Join(texts []string) string {
	return strings.Join(texts, "\n")
}
