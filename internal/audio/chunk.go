package audio

import (
	"fmt"
	"time"

	"github.com/alnah/batch-transcript/internal/format"
)

// Chunk is a contiguous frame range of a Waveform.
// Samples aliases the waveform's slice; do not modify it.
type Chunk struct {
	Index     int           // Zero-based position in the sequence.
	StartTime time.Duration // Start offset in the source waveform.
	EndTime   time.Duration // End offset in the source waveform.
	Samples   []int
}

// Duration returns the length of this chunk.
func (c Chunk) Duration() time.Duration {
	return c.EndTime - c.StartTime
}

// String returns a human-readable representation for logging.
func (c Chunk) String() string {
	return fmt.Sprintf("chunk %d: %s", c.Index, format.Span(c.StartTime, c.EndTime))
}

// Split cuts w into consecutive chunks of the given duration. The last chunk
// holds the remainder and always ends at the final frame, so the chunk
// samples concatenated in order equal w.Samples.
//
// The waveform length T is measured in whole milliseconds and the result has
// ceil(T/chunk) entries. T == 0 yields no chunks.
func Split(w *Waveform, chunk time.Duration) ([]Chunk, error) {
	chunkMs := chunk.Milliseconds()
	if chunkMs <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidChunkDuration, chunk)
	}

	totalMs := w.Milliseconds()
	if totalMs == 0 {
		return nil, nil
	}

	n := int((totalMs + chunkMs - 1) / chunkMs)
	ch := w.channels()
	frames := w.Frames()
	rate := int64(w.SampleRate)

	chunks := make([]Chunk, 0, n)
	for i := range n {
		startMs := int64(i) * chunkMs
		endMs := min(startMs+chunkMs, totalMs)

		startFrame := int(startMs * rate / 1000)
		endFrame := int(endMs * rate / 1000)
		if i == n-1 {
			endFrame = frames
		}

		chunks = append(chunks, Chunk{
			Index:     i,
			StartTime: time.Duration(startMs) * time.Millisecond,
			EndTime:   time.Duration(endMs) * time.Millisecond,
			Samples:   w.Samples[startFrame*ch : endFrame*ch],
		})
	}
	return chunks, nil
}
