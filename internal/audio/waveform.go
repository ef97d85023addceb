// Package audio loads decoded waveforms, splits them into fixed-duration
// chunks and exports chunks as WAV files for the transcription backends.
package audio

import (
	"encoding/binary"
	"fmt"
	"time"

	goaudio "github.com/go-audio/audio"
)

// Waveform is decoded PCM audio. Samples are interleaved by channel.
// A Waveform is read-only once loaded; chunks alias its Samples.
type Waveform struct {
	Samples    []int
	SampleRate int
	Channels   int
	BitDepth   int
}

// channels returns the channel count, treating 0 as mono.
func (w *Waveform) channels() int {
	if w.Channels <= 0 {
		return 1
	}
	return w.Channels
}

// Frames returns the number of sample frames (one sample per channel).
func (w *Waveform) Frames() int {
	return len(w.Samples) / w.channels()
}

// Milliseconds returns the waveform length in whole milliseconds (truncated).
func (w *Waveform) Milliseconds() int64 {
	if w.SampleRate <= 0 {
		return 0
	}
	return int64(w.Frames()) * 1000 / int64(w.SampleRate)
}

// Duration returns the waveform length truncated to the millisecond.
func (w *Waveform) Duration() time.Duration {
	return time.Duration(w.Milliseconds()) * time.Millisecond
}

// IntBuffer wraps samples in a go-audio buffer carrying this waveform's format.
func (w *Waveform) IntBuffer(samples []int) *goaudio.IntBuffer {
	return &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: w.channels(),
			SampleRate:  w.SampleRate,
		},
		Data:           samples,
		SourceBitDepth: w.BitDepth,
	}
}

// FromPCM16LE builds a waveform from raw little-endian signed 16-bit PCM.
func FromPCM16LE(b []byte, sampleRate, channels int) (*Waveform, error) {
	if len(b)%2 != 0 {
		return nil, fmt.Errorf("%w: pcm16 length %d is odd", ErrDecodeFailed, len(b))
	}
	samples := make([]int, len(b)/2)
	for i := range samples {
		samples[i] = int(int16(binary.LittleEndian.Uint16(b[2*i:])))
	}
	return &Waveform{
		Samples:    samples,
		SampleRate: sampleRate,
		Channels:   channels,
		BitDepth:   16,
	}, nil
}

// MonoFloat32 returns the samples downmixed to one channel, normalized to
// [-1, 1] and linearly resampled to rate.
func MonoFloat32(samples []int, channels, bitDepth, srcRate, rate int) []float32 {
	if channels <= 0 {
		channels = 1
	}
	if bitDepth <= 0 {
		bitDepth = 16
	}
	scale := float32(int(1) << (bitDepth - 1))

	frames := len(samples) / channels
	mono := make([]float32, frames)
	for i := range frames {
		var sum int
		for c := range channels {
			sum += samples[i*channels+c]
		}
		mono[i] = float32(sum) / float32(channels) / scale
	}
	return ResampleLinear(mono, srcRate, rate)
}

// ResampleLinear resamples PCM32F from inRate to outRate using linear interpolation.
func ResampleLinear(samples []float32, inRate, outRate int) []float32 {
	if inRate <= 0 || outRate <= 0 || inRate == outRate || len(samples) == 0 {
		return samples
	}
	ratio := float64(outRate) / float64(inRate)
	outLen := max(int(float64(len(samples))*ratio), 1)
	out := make([]float32, outLen)
	for i := range outLen {
		srcPos := float64(i) / ratio
		i0 := int(srcPos)
		if i0 >= len(samples)-1 {
			out[i] = samples[len(samples)-1]
			continue
		}
		frac := float32(srcPos - float64(i0))
		s0, s1 := samples[i0], samples[i0+1]
		out[i] = s0 + (s1-s0)*frac
	}
	return out
}
