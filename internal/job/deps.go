package job

import (
	"context"
	"os"

	"github.com/alnah/batch-transcript/internal/audio"
	"github.com/alnah/batch-transcript/internal/ffmpeg"
)

// Extractor produces a temporary mono 16 kHz WAV from a video file.
// The returned path is owned by the caller.
type Extractor interface {
	Extract(ctx context.Context, mediaPath string) (string, error)
}

// Loader decodes an audio file into memory.
type Loader interface {
	Load(ctx context.Context, path string) (*audio.Waveform, error)
}

// fileSystem abstracts the temp-file and output operations for testing.
type fileSystem interface {
	CreateTemp(dir, pattern string) (*os.File, error)
	Remove(name string) error
	MkdirAll(path string, perm os.FileMode) error
	Rename(oldpath, newpath string) error
}

// chunkWriterFunc exports one chunk to a WAV file.
type chunkWriterFunc func(path string, c audio.Chunk, w *audio.Waveform) error

// Compile-time interface checks.
var (
	_ Extractor        = (*ffmpeg.Extractor)(nil)
	_ Loader           = (*audio.Loader)(nil)
	_ audio.PCMDecoder = (*ffmpeg.Extractor)(nil)
	_ fileSystem       = osFileSystem{}
)

// osFileSystem implements fileSystem using the os package.
type osFileSystem struct{}

func (osFileSystem) CreateTemp(dir, pattern string) (*os.File, error) {
	return os.CreateTemp(dir, pattern)
}

func (osFileSystem) Remove(name string) error {
	return os.Remove(name)
}

func (osFileSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (osFileSystem) Rename(oldpath, newpath string) error {
	return os.Rename(oldpath, newpath)
}
