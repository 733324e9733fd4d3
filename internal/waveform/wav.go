package waveform

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// DefaultBitDepth is the PCM depth written for trimmed tracks.
const DefaultBitDepth = 16

// ReadWAV decodes a PCM WAV file into a waveform tagged with track.
func ReadWAV(path string, track int) (*Waveform, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open wav: %w", err)
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("%s is not a valid wav file", path)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode wav %s: %w", path, err)
	}

	return &Waveform{
		Track:      track,
		SampleRate: buf.Format.SampleRate,
		Channels:   buf.Format.NumChannels,
		Samples:    buf.Data,
	}, nil
}

// WriteWAV encodes w as PCM WAV at the given bit depth.
func WriteWAV(path string, w *Waveform, bitDepth int) error {
	if bitDepth <= 0 {
		bitDepth = DefaultBitDepth
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create wav: %w", err)
	}

	// audio format 1 is uncompressed PCM
	encoder := wav.NewEncoder(f, w.SampleRate, bitDepth, w.Channels, 1)
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: w.Channels,
			SampleRate:  w.SampleRate,
		},
		Data:           w.Samples,
		SourceBitDepth: bitDepth,
	}

	if err := encoder.Write(buf); err != nil {
		f.Close()
		return fmt.Errorf("encode wav %s: %w", path, err)
	}
	if err := encoder.Close(); err != nil {
		f.Close()
		return fmt.Errorf("finalize wav %s: %w", path, err)
	}
	return f.Close()
}
