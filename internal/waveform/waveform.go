// Package waveform holds decoded PCM audio for one track and its WAV I/O.
package waveform

import (
	apperrors "github.com/killallgit/autocut/pkg/errors"
)

// Waveform is interleaved integer PCM for a single audio track. A "sample"
// in this package is one sample frame across all channels.
type Waveform struct {
	Track      int
	SampleRate int
	Channels   int
	Samples    []int
}

// New allocates a zeroed waveform able to hold length sample frames.
func New(track, sampleRate, channels, length int) *Waveform {
	return &Waveform{
		Track:      track,
		SampleRate: sampleRate,
		Channels:   channels,
		Samples:    make([]int, length*channels),
	}
}

// Len returns the number of sample frames.
func (w *Waveform) Len() int {
	if w == nil || w.Channels <= 0 {
		return 0
	}
	return len(w.Samples) / w.Channels
}

// Validate reports whether the waveform can be analysed.
func (w *Waveform) Validate() error {
	if w == nil {
		return apperrors.InvalidInput("waveform is nil")
	}
	if w.SampleRate <= 0 {
		return apperrors.InvalidInput("track %d: sample rate must be positive, got %d", w.Track, w.SampleRate)
	}
	if w.Channels <= 0 {
		return apperrors.InvalidInput("track %d: channel count must be positive, got %d", w.Track, w.Channels)
	}
	if len(w.Samples) == 0 {
		return apperrors.InvalidInput("track %d: waveform is empty", w.Track)
	}
	if len(w.Samples)%w.Channels != 0 {
		return apperrors.InvalidInput("track %d: %d samples is not a multiple of %d channels",
			w.Track, len(w.Samples), w.Channels)
	}
	return nil
}

// Peak returns the maximum absolute amplitude over the whole waveform.
func (w *Waveform) Peak() int {
	return w.PeakRange(0, w.Len())
}

// PeakRange returns the maximum absolute amplitude over sample frames
// [start, end). Bounds are clamped to the waveform.
func (w *Waveform) PeakRange(start, end int) int {
	start = max(start, 0)
	end = min(end, w.Len())
	if start >= end {
		return 0
	}
	hi, lo := 0, 0
	for _, s := range w.Samples[start*w.Channels : end*w.Channels] {
		if s > hi {
			hi = s
		} else if s < lo {
			lo = s
		}
	}
	return max(hi, -lo)
}

// Truncate shortens the waveform to n sample frames.
func (w *Waveform) Truncate(n int) {
	n = max(0, min(n, w.Len()))
	w.Samples = w.Samples[:n*w.Channels]
}
