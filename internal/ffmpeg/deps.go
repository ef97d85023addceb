package ffmpeg

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"golang.org/x/sync/errgroup"
)

// ---------------------------------------------------------------------------
// Interfaces - local to this package, following Go idiom
// ---------------------------------------------------------------------------

// fileStatter checks that a configured binary exists.
type fileStatter interface {
	Stat(name string) (os.FileInfo, error)
}

// tempFiler creates and removes the extractor's temporary output files.
type tempFiler interface {
	CreateTemp(dir, pattern string) (*os.File, error)
	Remove(name string) error
}

// envProvider abstracts environment and path lookup operations.
type envProvider interface {
	Getenv(key string) string
	LookPath(file string) (string, error)
}

// lineRunner runs a command, calling onLine for every stdout line while the
// process runs. It returns the captured stderr.
type lineRunner interface {
	RunLines(ctx context.Context, name string, args []string, onLine func(string)) (string, error)
}

// ---------------------------------------------------------------------------
// Default implementations - delegate to standard library
// ---------------------------------------------------------------------------

// Compile-time interface verification.
var (
	_ fileStatter = osFileStatter{}
	_ tempFiler   = osTempFiler{}
	_ envProvider = osEnvProvider{}
	_ lineRunner  = execLineRunner{}
)

// osFileStatter implements fileStatter using the os package.
type osFileStatter struct{}

func (osFileStatter) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

// osTempFiler implements tempFiler using the os package.
type osTempFiler struct{}

func (osTempFiler) CreateTemp(dir, pattern string) (*os.File, error) {
	return os.CreateTemp(dir, pattern)
}

func (osTempFiler) Remove(name string) error {
	return os.Remove(name)
}

// osEnvProvider implements envProvider using os and exec packages.
type osEnvProvider struct{}

func (osEnvProvider) Getenv(key string) string {
	return os.Getenv(key)
}

func (osEnvProvider) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// execLineRunner implements lineRunner with os/exec.
// stdout and stderr are drained by two goroutines so neither pipe can fill
// up and stall the process.
type execLineRunner struct{}

func (execLineRunner) RunLines(ctx context.Context, name string, args []string, onLine func(string)) (string, error) {
	// #nosec G204 -- name is the resolved ffmpeg binary, args are built by this package
	cmd := exec.CommandContext(ctx, name, args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return "", fmt.Errorf("create stdout pipe: %w", err)
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return "", fmt.Errorf("create stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("start %s: %w", name, err)
	}

	var stderr bytes.Buffer
	var g errgroup.Group
	g.Go(func() error {
		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			if onLine != nil {
				onLine(scanner.Text())
			}
		}
		return scanner.Err()
	})
	g.Go(func() error {
		// Cap captured stderr; ffmpeg can be chatty on broken inputs.
		_, err := io.Copy(&stderr, io.LimitReader(stderrPipe, maxCapturedStderr))
		_, _ = io.Copy(io.Discard, stderrPipe)
		return err
	})

	readErr := g.Wait()
	waitErr := cmd.Wait()
	if waitErr != nil {
		return stderr.String(), waitErr
	}
	if readErr != nil {
		return stderr.String(), fmt.Errorf("read %s output: %w", name, readErr)
	}
	return stderr.String(), nil
}

// maxCapturedStderr bounds the stderr kept for error messages.
const maxCapturedStderr = 64 * 1024
