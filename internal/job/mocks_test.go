package job_test

import (
	"context"
	"errors"
	"os"
	"sync"

	"github.com/alnah/batch-transcript/internal/audio"
	"github.com/alnah/batch-transcript/internal/job"
	"github.com/alnah/batch-transcript/internal/transcribe"
)

// ---------------------------------------------------------------------------
// mockTranscriber
// ---------------------------------------------------------------------------

type transcribeCall struct {
	path       string
	opts       transcribe.Options
	fileExists bool
}

// mockTranscriber returns texts[i] (or errs[i]) for the i-th call and
// records whether the chunk file existed at call time.
type mockTranscriber struct {
	mu    sync.Mutex
	texts []string
	errs  []error
	calls []transcribeCall
}

func (m *mockTranscriber) Transcribe(_ context.Context, path string, opts transcribe.Options) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, statErr := os.Stat(path)
	idx := len(m.calls)
	m.calls = append(m.calls, transcribeCall{path: path, opts: opts, fileExists: statErr == nil})

	if idx < len(m.errs) && m.errs[idx] != nil {
		return "", m.errs[idx]
	}
	if idx < len(m.texts) {
		return m.texts[idx], nil
	}
	return "", nil
}

func (m *mockTranscriber) Calls() []transcribeCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]transcribeCall(nil), m.calls...)
}

// ---------------------------------------------------------------------------
// mockExtractor
// ---------------------------------------------------------------------------

// mockExtractor writes a real file in dir so cleanup can be asserted.
type mockExtractor struct {
	dir    string
	err    error
	inputs []string
	made   []string
}

func (m *mockExtractor) Extract(_ context.Context, mediaPath string) (string, error) {
	m.inputs = append(m.inputs, mediaPath)
	if m.err != nil {
		return "", m.err
	}
	f, err := os.CreateTemp(m.dir, "extracted-*.wav")
	if err != nil {
		return "", err
	}
	_ = f.Close()
	m.made = append(m.made, f.Name())
	return f.Name(), nil
}

// ---------------------------------------------------------------------------
// mockLoader
// ---------------------------------------------------------------------------

type mockLoader struct {
	wave  *audio.Waveform
	err   error
	paths []string
}

func (m *mockLoader) Load(_ context.Context, path string) (*audio.Waveform, error) {
	m.paths = append(m.paths, path)
	if m.err != nil {
		return nil, m.err
	}
	return m.wave, nil
}

// ---------------------------------------------------------------------------
// failingRenameFS
// ---------------------------------------------------------------------------

// failingRenameFS delegates to the real file system but fails Rename.
type failingRenameFS struct {
	job.OSFileSystem
}

func (failingRenameFS) Rename(_, _ string) error {
	return errors.New("rename: read-only file system")
}

// failingRemoveFS delegates to the real file system but fails Remove.
type failingRemoveFS struct {
	job.OSFileSystem
}

func (failingRemoveFS) Remove(_ string) error {
	return errors.New("remove: device or resource busy")
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

// seconds returns a silent mono 16 kHz waveform of n seconds.
func seconds(n int) *audio.Waveform {
	return &audio.Waveform{
		Samples:    make([]int, n*16000),
		SampleRate: 16000,
		Channels:   1,
		BitDepth:   16,
	}
}

// entries lists the names in dir.
func entries(dir string) []string {
	list, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(list))
	for _, e := range list {
		names = append(names, e.Name())
	}
	return names
}
