package ffmpeg

import (
	"bytes"
	"context"
	"os/exec"
)

// ---------------------------------------------------------------------------
// Executor - testable FFmpeg execution with dependency injection
// ---------------------------------------------------------------------------

// runOutputFn is the function type for running a command and capturing output.
type runOutputFn func(ctx context.Context, path string, args []string) (string, error)

// runCaptureFn runs a command and returns both stdout and stderr.
type runCaptureFn func(ctx context.Context, path string, args []string) ([]byte, string, error)

// Executor runs FFmpeg commands with injectable dependencies.
type Executor struct {
	runOutput  runOutputFn
	runCapture runCaptureFn
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithRunOutput sets a custom runOutput function (for testing).
func WithRunOutput(fn runOutputFn) ExecutorOption {
	return func(e *Executor) { e.runOutput = fn }
}

// WithRunCapture sets a custom runCapture function (for testing).
func WithRunCapture(fn runCaptureFn) ExecutorOption {
	return func(e *Executor) { e.runCapture = fn }
}

// NewExecutor creates an Executor with the given options.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{
		runOutput:  defaultRunOutput,
		runCapture: defaultRunCapture,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RunOutput executes FFmpeg and captures its stderr output.
// FFmpeg writes diagnostic output (version banner, probe info) to stderr.
func (e *Executor) RunOutput(ctx context.Context, ffmpegPath string, args []string) (string, error) {
	return e.runOutput(ctx, ffmpegPath, args)
}

// RunCapture executes FFmpeg and returns its stdout bytes and stderr text.
// Used when FFmpeg writes raw media to pipe:1.
func (e *Executor) RunCapture(ctx context.Context, ffmpegPath string, args []string) ([]byte, string, error) {
	return e.runCapture(ctx, ffmpegPath, args)
}

// defaultRunOutput is the production implementation.
// Returns stderr output even when the command fails, the caller decides
// whether the text is still useful.
func defaultRunOutput(ctx context.Context, ffmpegPath string, args []string) (string, error) {
	// #nosec G204 -- ffmpegPath comes from Resolver
	cmd := exec.CommandContext(ctx, ffmpegPath, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stderr.String(), err
}

// defaultRunCapture is the production implementation of runCapture.
func defaultRunCapture(ctx context.Context, ffmpegPath string, args []string) ([]byte, string, error) {
	// #nosec G204 -- ffmpegPath comes from Resolver
	cmd := exec.CommandContext(ctx, ffmpegPath, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.Bytes(), stderr.String(), err
}
