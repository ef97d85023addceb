package audio

import "context"

// PCMDecoder turns any media file into raw mono 16 kHz s16le PCM.
// *ffmpeg.Extractor implements it.
type PCMDecoder interface {
	DecodePCM(ctx context.Context, path string) ([]byte, error)
}
