package job

import (
	"os"

	"github.com/alnah/batch-transcript/internal/audio"
)

// FileSystem mirrors fileSystem for black-box tests.
type FileSystem interface {
	CreateTemp(dir, pattern string) (*os.File, error)
	Remove(name string) error
	MkdirAll(path string, perm os.FileMode) error
	Rename(oldpath, newpath string) error
}

// OSFileSystem exposes osFileSystem for wrapping in tests.
type OSFileSystem = osFileSystem

// WithFileSystem exposes withFileSystem for testing.
func WithFileSystem(fs FileSystem) Option {
	return withFileSystem(fs)
}

// WithChunkWriter exposes withChunkWriter for testing.
func WithChunkWriter(fn func(path string, c audio.Chunk, w *audio.Waveform) error) Option {
	return withChunkWriter(fn)
}
