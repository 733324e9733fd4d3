package waveform

import (
	"path/filepath"
	"testing"

	apperrors "github.com/killallgit/autocut/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeak(t *testing.T) {
	tests := []struct {
		name     string
		samples  []int
		channels int
		expected int
	}{
		{"positive peak", []int{1, 5, -2, 3}, 1, 5},
		{"negative peak wins", []int{1, -7, 2, 6}, 1, 7},
		{"stereo uses every channel", []int{0, 0, 100, -300}, 2, 300},
		{"silence", []int{0, 0, 0, 0}, 2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &Waveform{SampleRate: 8000, Channels: tt.channels, Samples: tt.samples}
			assert.Equal(t, tt.expected, w.Peak())
		})
	}
}

func TestPeakRangeClamps(t *testing.T) {
	w := &Waveform{SampleRate: 8000, Channels: 2, Samples: []int{1, 1, 9, -9, 4, 2}}

	assert.Equal(t, 1, w.PeakRange(0, 1))
	assert.Equal(t, 9, w.PeakRange(1, 2))
	assert.Equal(t, 9, w.PeakRange(-4, 50))
	assert.Equal(t, 0, w.PeakRange(3, 10))
	assert.Equal(t, 0, w.PeakRange(2, 2))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		w       *Waveform
		wantErr bool
	}{
		{"valid", &Waveform{SampleRate: 48000, Channels: 2, Samples: []int{1, 2}}, false},
		{"nil", nil, true},
		{"empty", &Waveform{SampleRate: 48000, Channels: 1}, true},
		{"zero rate", &Waveform{SampleRate: 0, Channels: 1, Samples: []int{1}}, true},
		{"zero channels", &Waveform{SampleRate: 48000, Samples: []int{1}}, true},
		{"ragged", &Waveform{SampleRate: 48000, Channels: 2, Samples: []int{1, 2, 3}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.w.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.Is(err, apperrors.ErrCodeInvalidInput))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestTruncate(t *testing.T) {
	w := New(1, 48000, 2, 10)
	require.Equal(t, 10, w.Len())

	w.Truncate(4)
	assert.Equal(t, 4, w.Len())
	assert.Len(t, w.Samples, 8)

	w.Truncate(100)
	assert.Equal(t, 4, w.Len())
}

func TestWAVFileKeepsFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "track.wav")
	original := &Waveform{
		Track:      2,
		SampleRate: 48000,
		Channels:   2,
		Samples:    []int{0, 0, 1200, -1200, 32767, -32768, 5, -5},
	}

	require.NoError(t, WriteWAV(path, original, DefaultBitDepth))

	loaded, err := ReadWAV(path, 2)
	require.NoError(t, err)
	assert.Equal(t, original.Track, loaded.Track)
	assert.Equal(t, original.SampleRate, loaded.SampleRate)
	assert.Equal(t, original.Channels, loaded.Channels)
	assert.Equal(t, original.Samples, loaded.Samples)
}

func TestReadWAVRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.wav")

	_, err := ReadWAV(path, 0)
	assert.Error(t, err)
}
