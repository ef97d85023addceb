package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Rates used when a decoder hands back raw PCM.
const (
	decodedSampleRate = 16000
	decodedChannels   = 1
)

// WAV format tags the in-process decoder understands.
const (
	wavFormatPCM        = 1
	wavFormatExtensible = 0xFFFE
)

// errUnsupportedWAV marks WAV files go-audio cannot decode (compressed,
// float, truncated headers). They are handed to the PCM decoder instead.
var errUnsupportedWAV = errors.New("unsupported wav encoding")

// Loader decodes media files into waveforms.
type Loader struct {
	pcm PCMDecoder
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithPCMDecoder sets the decoder used for non-WAV inputs.
func WithPCMDecoder(d PCMDecoder) LoaderOption {
	return func(l *Loader) { l.pcm = d }
}

// NewLoader creates a Loader. Without a PCM decoder only PCM WAV files load.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load decodes path. PCM WAV files are read in-process; everything else
// (and WAV encodings go-audio rejects) goes through the PCM decoder, which
// yields mono 16 kHz signed 16-bit samples. Errors wrap ErrDecodeFailed.
func (l *Loader) Load(ctx context.Context, path string) (*Waveform, error) {
	if strings.EqualFold(filepath.Ext(path), ".wav") {
		w, err := l.loadWAV(path)
		if err == nil {
			return w, nil
		}
		if !errors.Is(err, errUnsupportedWAV) || l.pcm == nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrDecodeFailed, path, err)
		}
	}

	if l.pcm == nil {
		return nil, fmt.Errorf("%w: %s: no decoder for %q files", ErrDecodeFailed, path, filepath.Ext(path))
	}
	raw, err := l.pcm.DecodePCM(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecodeFailed, path, err)
	}
	w, err := FromPCM16LE(raw, decodedSampleRate, decodedChannels)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return w, nil
}

func (l *Loader) loadWAV(path string) (*Waveform, error) {
	f, err := os.Open(path) // #nosec G304 -- path comes from discovery or a temp file
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, errUnsupportedWAV
	}
	if dec.WavAudioFormat != wavFormatPCM && dec.WavAudioFormat != wavFormatExtensible {
		return nil, fmt.Errorf("%w: format tag %d", errUnsupportedWAV, dec.WavAudioFormat)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", errUnsupportedWAV, err)
	}
	if buf == nil {
		buf = &goaudio.IntBuffer{}
	}

	return &Waveform{
		Samples:    buf.Data,
		SampleRate: int(dec.SampleRate),
		Channels:   int(dec.NumChans),
		BitDepth:   int(dec.BitDepth),
	}, nil
}
