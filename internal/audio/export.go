package audio

import (
	"fmt"
	"os"

	"github.com/go-audio/wav"
)

// WriteChunk encodes c as a PCM WAV file at path, using w's format.
// path is truncated if it exists. The caller owns the file.
func WriteChunk(path string, c Chunk, w *Waveform) error {
	f, err := os.Create(path) // #nosec G304 -- path is a temp file created by the caller
	if err != nil {
		return fmt.Errorf("%w: %v", ErrChunkWriteFailed, err)
	}

	bitDepth := w.BitDepth
	if bitDepth <= 0 {
		bitDepth = 16
	}
	enc := wav.NewEncoder(f, w.SampleRate, bitDepth, w.channels(), wavFormatPCM)

	if err := enc.Write(w.IntBuffer(c.Samples)); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: %s: %v", ErrChunkWriteFailed, c, err)
	}
	if err := enc.Close(); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: %s: %v", ErrChunkWriteFailed, c, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrChunkWriteFailed, c, err)
	}
	return nil
}
