package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Target waveform parameters shared by every backend.
const (
	SampleRate = 16000
	Channels   = 1
)

// ProgressFunc receives the amount of media FFmpeg has processed so far.
type ProgressFunc func(done time.Duration)

// Extractor derives mono 16 kHz audio from media files with FFmpeg.
type Extractor struct {
	ffmpegPath string
	tempDir    string
	progress   ProgressFunc
	runner     lineRunner
	files      tempFiler
	executor   *Executor
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithTempDir sets the directory for extracted audio files.
// Empty means the OS temp directory.
func WithTempDir(dir string) ExtractorOption {
	return func(e *Extractor) { e.tempDir = dir }
}

// WithProgress sets a callback fed from FFmpeg's -progress output.
func WithProgress(fn ProgressFunc) ExtractorOption {
	return func(e *Extractor) { e.progress = fn }
}

// WithLineRunner sets the command runner (for testing).
func WithLineRunner(r lineRunner) ExtractorOption {
	return func(e *Extractor) { e.runner = r }
}

// WithTempFiler sets the temp file implementation (for testing).
func WithTempFiler(f tempFiler) ExtractorOption {
	return func(e *Extractor) { e.files = f }
}

// WithExecutor sets the executor used by DecodePCM.
func WithExecutor(x *Executor) ExtractorOption {
	return func(e *Extractor) { e.executor = x }
}

// NewExtractor creates an Extractor bound to a resolved ffmpeg binary.
func NewExtractor(ffmpegPath string, opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		ffmpegPath: ffmpegPath,
		runner:     execLineRunner{},
		files:      osTempFiler{},
		executor:   NewExecutor(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract writes the audio track of mediaPath to a new temporary WAV file
// (mono, 16 kHz) and returns its path. The caller owns the file and must
// remove it. On failure no file is left behind and the error wraps
// ErrExtractionFailed.
func (e *Extractor) Extract(ctx context.Context, mediaPath string) (string, error) {
	tmp, err := e.files.CreateTemp(e.tempDir, "batch-transcript-audio-*.wav")
	if err != nil {
		return "", fmt.Errorf("%w: create temp file: %v", ErrExtractionFailed, err)
	}
	outPath := tmp.Name()
	_ = tmp.Close()

	args := extractArgs(mediaPath, outPath)
	stderr, err := e.runner.RunLines(ctx, e.ffmpegPath, args, e.onProgressLine)
	if err != nil {
		_ = e.files.Remove(outPath)
		return "", e.wrapRunError(ctx, mediaPath, stderr, err)
	}
	return outPath, nil
}

// DecodePCM decodes mediaPath to raw little-endian 16-bit mono PCM at
// 16 kHz. Nothing is written to disk.
func (e *Extractor) DecodePCM(ctx context.Context, mediaPath string) ([]byte, error) {
	args := []string{
		"-nostdin", "-hide_banner", "-loglevel", "error",
		"-i", mediaPath,
		"-vn",
		"-ac", strconv.Itoa(Channels),
		"-ar", strconv.Itoa(SampleRate),
		"-f", "s16le",
		"pipe:1",
	}
	pcm, stderr, err := e.executor.RunCapture(ctx, e.ffmpegPath, args)
	if err != nil {
		return nil, e.wrapRunError(ctx, mediaPath, stderr, err)
	}
	return pcm, nil
}

// extractArgs builds the extraction command line. Progress goes to stdout
// as key=value lines; diagnostics go to stderr.
func extractArgs(input, output string) []string {
	return []string{
		"-y", "-nostdin", "-hide_banner",
		"-loglevel", "error",
		"-progress", "pipe:1",
		"-i", input,
		"-vn",
		"-ac", strconv.Itoa(Channels),
		"-ar", strconv.Itoa(SampleRate),
		"-f", "wav",
		output,
	}
}

func (e *Extractor) onProgressLine(line string) {
	if e.progress == nil {
		return
	}
	if d, ok := parseProgressLine(line); ok {
		e.progress(d)
	}
}

// parseProgressLine reads "out_time_us=<n>" lines.
// FFmpeg reports "N/A" before the first frame is written.
func parseProgressLine(line string) (time.Duration, bool) {
	value, ok := strings.CutPrefix(strings.TrimSpace(line), "out_time_us=")
	if !ok {
		return 0, false
	}
	us, err := strconv.ParseInt(value, 10, 64)
	if err != nil || us < 0 {
		return 0, false
	}
	return time.Duration(us) * time.Microsecond, true
}

func (e *Extractor) wrapRunError(ctx context.Context, mediaPath, stderr string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%w: %s: %w", ErrExtractionFailed, mediaPath, ctxErr)
	}
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %w: %v", ErrExtractionFailed, ErrNotFound, err)
	}
	msg := strings.TrimSpace(stderr)
	if msg == "" {
		return fmt.Errorf("%w: %s: %v", ErrExtractionFailed, mediaPath, err)
	}
	return fmt.Errorf("%w: %s: %v: %s", ErrExtractionFailed, mediaPath, err, lastLine(msg))
}

// lastLine keeps error messages on one line; FFmpeg's final stderr line
// usually names the real cause.
func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[i+1:])
	}
	return s
}
