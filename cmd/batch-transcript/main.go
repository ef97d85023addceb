package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/alnah/batch-transcript/internal/cli"
	"github.com/alnah/batch-transcript/internal/config"
	"github.com/alnah/batch-transcript/internal/discover"
	"github.com/alnah/batch-transcript/internal/ffmpeg"
	"github.com/alnah/batch-transcript/internal/interrupt"
	"github.com/alnah/batch-transcript/internal/lang"
	"github.com/alnah/batch-transcript/internal/logging"
	"github.com/alnah/batch-transcript/internal/transcribe"
)

// Injected at build time via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

// Exit codes.
const (
	ExitOK         = 0
	ExitGeneral    = 1
	ExitUsage      = 2
	ExitSetup      = 3
	ExitValidation = 4
	ExitAllFailed  = 5
	ExitInterrupt  = 130
)

func main() {
	// Load .env file if present (ignore error if missing).
	_ = godotenv.Load()

	// First Ctrl+C stops after the current step, a second one quits.
	handler, ctx := interrupt.NewHandler(context.Background())
	defer handler.Stop()

	rootCmd := cli.BatchCmd(cli.DefaultEnv())
	rootCmd.Version = fmt.Sprintf("%s (commit: %s)", version, commit)
	// Silence Cobra's default error/usage printing; we handle it ourselves.
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	err := rootCmd.ExecuteContext(ctx)
	code := exitCode(err, handler.WasInterrupted())
	if err != nil && code != ExitInterrupt {
		fmt.Fprintln(os.Stderr, err)
	}
	handler.Stop()
	if code != ExitOK {
		os.Exit(code)
	}
}

// exitCode maps errors to exit codes. A run that received SIGINT/SIGTERM
// exits 130 whatever error it ended with.
func exitCode(err error, interrupted bool) int {
	if interrupted || errors.Is(err, context.Canceled) {
		return ExitInterrupt
	}
	if err == nil {
		return ExitOK
	}

	// Cobra doesn't expose typed errors, so we check for known error message patterns.
	if isCobraUsageError(err) {
		return ExitUsage
	}

	// Setup errors: the batch cannot start.
	if errors.Is(err, ffmpeg.ErrNotFound) || errors.Is(err, cli.ErrAPIKeyMissing) ||
		errors.Is(err, cli.ErrOutputDir) || errors.Is(err, transcribe.ErrBackendUnavailable) ||
		errors.Is(err, transcribe.ErrUnknownBackend) {
		return ExitSetup
	}

	// Validation errors: bad settings or input directory.
	if errors.Is(err, config.ErrInvalid) || errors.Is(err, lang.ErrInvalid) ||
		errors.Is(err, discover.ErrInputDir) || errors.Is(err, logging.ErrInvalidLevel) ||
		errors.Is(err, logging.ErrInvalidFormat) {
		return ExitValidation
	}

	if errors.Is(err, cli.ErrAllFailed) {
		return ExitAllFailed
	}

	return ExitGeneral
}

// cobraUsageErrorPatterns contains error message substrings that indicate Cobra usage errors.
// These patterns are stable across Cobra versions (tested with v1.8+).
var cobraUsageErrorPatterns = []string{
	"unknown flag",           // Flag doesn't exist
	"unknown shorthand",      // Short flag doesn't exist
	"unknown command",        // Positional argument given to the root command
	"flag needs an argument", // Flag provided without value
	"invalid argument",       // Invalid flag value type
	"accepts ",               // Wrong number of arguments
}

// isCobraUsageError checks if an error is a Cobra usage/parsing error.
func isCobraUsageError(err error) bool {
	if err == nil {
		return false
	}
	errMsg := err.Error()
	for _, pattern := range cobraUsageErrorPatterns {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}
	return false
}
