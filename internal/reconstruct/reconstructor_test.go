package reconstruct

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/killallgit/autocut/internal/silence"
	"github.com/killallgit/autocut/internal/waveform"
	apperrors "github.com/killallgit/autocut/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	info    FrameInfo
	indices []int
	pos     int
	failAt  int
}

func newFakeSource(frameRate float64, frames int) *fakeSource {
	indices := make([]int, frames)
	for i := range indices {
		indices[i] = i
	}
	return &fakeSource{info: FrameInfo{Width: 2, Height: 2, FrameRate: frameRate}, indices: indices, failAt: -1}
}

func (s *fakeSource) Info() FrameInfo { return s.info }

func (s *fakeSource) Next() (Frame, error) {
	if s.pos == s.failAt {
		return Frame{}, errors.New("decoder died")
	}
	if s.pos >= len(s.indices) {
		return Frame{}, io.EOF
	}
	idx := s.indices[s.pos]
	s.pos++
	return Frame{Index: idx, Data: []byte{byte(idx)}}, nil
}

type fakeSink struct {
	frames [][]byte
	err    error
}

func (s *fakeSink) WriteFrame(data []byte) error {
	if s.err != nil {
		return s.err
	}
	s.frames = append(s.frames, data)
	return nil
}

func (s *fakeSink) indices() []int {
	out := make([]int, len(s.frames))
	for i, f := range s.frames {
		out[i] = int(f[0])
	}
	return out
}

// rampTrack returns a mono track whose sample i holds offset+i+1.
func rampTrack(track, sampleRate, length, offset int) *waveform.Waveform {
	w := waveform.New(track, sampleRate, 1, length)
	for i := range w.Samples {
		w.Samples[i] = offset + i + 1
	}
	return w
}

func TestReconstruct_TracksOfDifferentLengthStayAligned(t *testing.T) {
	// 100 samples per frame
	tracks := []*waveform.Waveform{
		rampTrack(0, 3000, 1000, 0),
		rampTrack(1, 3000, 990, 10000),
		rampTrack(2, 3000, 1003, 20000),
	}
	intervals := []silence.Interval{
		{Start: 0, End: 3, Tier: silence.TierKeep},
		{Start: 3, End: 6, Tier: silence.TierDrop},
		{Start: 6, End: 11, Tier: silence.TierKeep},
	}
	sink := &fakeSink{}

	res, err := NewReconstructor(nil).Reconstruct(context.Background(), newFakeSource(30, 11), sink, tracks, intervals, nil)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 2, 6, 7, 8, 9, 10}, sink.indices())
	assert.Equal(t, 8, res.KeptFrames)
	assert.Equal(t, 11, res.FramesRead)
	assert.Equal(t, 11, res.TotalFrames)
	assert.Zero(t, res.OverflowFrames)

	// frames 0-2 give 300 samples, 6-9 give 400 and frame 10 is clamped to 3
	assert.Equal(t, 703, res.Samples)
	require.Len(t, res.Tracks, 3)
	for _, out := range res.Tracks {
		assert.Equal(t, res.Samples, out.Len(), "track %d", out.Track)
	}

	t0 := res.Tracks[0].Samples
	assert.Equal(t, 1, t0[0])
	assert.Equal(t, 300, t0[299])
	assert.Equal(t, 601, t0[300])
	assert.Equal(t, 1000, t0[699])
	assert.Equal(t, []int{0, 0, 0}, t0[700:703])

	t1 := res.Tracks[1].Samples
	assert.Equal(t, 10000+990, t1[300+389])
	assert.Equal(t, 0, t1[300+390])

	t2 := res.Tracks[2].Samples
	assert.Equal(t, []int{21001, 21002, 21003}, t2[700:703])
}

func TestReconstruct_KeptFramesMatchIntervals(t *testing.T) {
	intervals := []silence.Interval{
		{Start: 0, End: 2, Tier: silence.TierDrop},
		{Start: 2, End: 4, Tier: silence.TierKeepLoud},
		{Start: 4, End: 5, Tier: silence.TierKeep},
		{Start: 5, End: 8, Tier: silence.TierDrop},
	}
	sink := &fakeSink{}
	tracks := []*waveform.Waveform{rampTrack(0, 3000, 800, 0)}

	res, err := NewReconstructor(nil).Reconstruct(context.Background(), newFakeSource(30, 8), sink, tracks, intervals, nil)
	require.NoError(t, err)

	assert.Equal(t, []int{2, 3, 4}, sink.indices())
	assert.Equal(t, silence.Summarize(intervals).KeptFrames, res.KeptFrames)
	assert.Equal(t, 300, res.Samples)
	assert.Equal(t, 201, res.Tracks[0].Samples[0])
	assert.Equal(t, 500, res.Tracks[0].Samples[299])
}

func TestReconstruct_FractionalSamplesPerFrame(t *testing.T) {
	const sampleRate = 48000
	const frameRate = 30000.0 / 1001.0
	const frames = 10
	spf := float64(sampleRate) / frameRate
	length := 16016

	stereo := waveform.New(0, sampleRate, 2, length)
	for i := range stereo.Samples {
		stereo.Samples[i] = i
	}
	tracks := []*waveform.Waveform{stereo, rampTrack(1, sampleRate, length, 0)}
	intervals := []silence.Interval{{Start: 0, End: frames, Tier: silence.TierKeep}}

	var advances []int
	prev := 0
	observer := ObserverFunc(func(index, total int) {
		assert.Equal(t, frames, total)
		end := min(int(float64(index+1)*spf), length)
		advances = append(advances, end-prev)
		prev = end
	})

	res, err := NewReconstructor(nil).Reconstruct(context.Background(), newFakeSource(frameRate, frames), &fakeSink{}, tracks, intervals, observer)
	require.NoError(t, err)

	assert.Equal(t, min(int(frames*spf), length), res.Samples)
	assert.Equal(t, res.Samples, res.Tracks[0].Len())
	assert.Equal(t, res.Samples, res.Tracks[1].Len())
	assert.Equal(t, stereo.Samples[:res.Samples*2], res.Tracks[0].Samples)
	for _, a := range advances {
		assert.Contains(t, []int{1601, 1602}, a)
	}
}

func TestReconstruct_DropsFramesPastLastInterval(t *testing.T) {
	intervals := []silence.Interval{{Start: 0, End: 4, Tier: silence.TierKeep}}
	sink := &fakeSink{}
	tracks := []*waveform.Waveform{rampTrack(0, 3000, 400, 0)}

	res, err := NewReconstructor(nil).Reconstruct(context.Background(), newFakeSource(30, 6), sink, tracks, intervals, nil)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 2, 3}, sink.indices())
	assert.Equal(t, 2, res.OverflowFrames)
	assert.Equal(t, 6, res.FramesRead)
	assert.Equal(t, 400, res.Samples)
}

func TestReconstruct_ShortSourceTruncatesAudio(t *testing.T) {
	intervals := []silence.Interval{{Start: 0, End: 10, Tier: silence.TierKeep}}
	tracks := []*waveform.Waveform{rampTrack(0, 3000, 1000, 0)}

	res, err := NewReconstructor(nil).Reconstruct(context.Background(), newFakeSource(30, 4), &fakeSink{}, tracks, intervals, nil)
	require.NoError(t, err)

	assert.Equal(t, 4, res.KeptFrames)
	assert.Equal(t, 400, res.Samples)
	assert.Equal(t, 400, res.Tracks[0].Len())
}

func TestReconstruct_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	intervals := []silence.Interval{{Start: 0, End: 3, Tier: silence.TierKeep}}
	tracks := []*waveform.Waveform{rampTrack(0, 3000, 300, 0)}

	_, err := NewReconstructor(nil).Reconstruct(ctx, newFakeSource(30, 3), &fakeSink{}, tracks, intervals, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReconstruct_PropagatesIOErrors(t *testing.T) {
	intervals := []silence.Interval{{Start: 0, End: 3, Tier: silence.TierKeep}}
	tracks := []*waveform.Waveform{rampTrack(0, 3000, 300, 0)}

	t.Run("source", func(t *testing.T) {
		src := newFakeSource(30, 3)
		src.failAt = 1
		_, err := NewReconstructor(nil).Reconstruct(context.Background(), src, &fakeSink{}, tracks, intervals, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decoder died")
	})

	t.Run("sink", func(t *testing.T) {
		sink := &fakeSink{err: errors.New("pipe closed")}
		_, err := NewReconstructor(nil).Reconstruct(context.Background(), newFakeSource(30, 3), sink, tracks, intervals, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "pipe closed")
	})
}

func TestReconstruct_InvalidInput(t *testing.T) {
	keep := []silence.Interval{{Start: 0, End: 3, Tier: silence.TierKeep}}
	track := rampTrack(0, 3000, 300, 0)

	tests := []struct {
		name      string
		src       *fakeSource
		tracks    []*waveform.Waveform
		intervals []silence.Interval
	}{
		{"no tracks", newFakeSource(30, 3), nil, keep},
		{"mismatched rates", newFakeSource(30, 3), []*waveform.Waveform{track, rampTrack(1, 44100, 300, 0)}, keep},
		{"empty track", newFakeSource(30, 3), []*waveform.Waveform{waveform.New(0, 3000, 1, 0)}, keep},
		{"no intervals", newFakeSource(30, 3), []*waveform.Waveform{track}, nil},
		{"zero frame rate", newFakeSource(0, 3), []*waveform.Waveform{track}, keep},
		{"repeated frame index", &fakeSource{info: FrameInfo{FrameRate: 30}, indices: []int{0, 1, 1}, failAt: -1}, []*waveform.Waveform{track}, keep},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewReconstructor(nil).Reconstruct(context.Background(), tt.src, &fakeSink{}, tt.tracks, tt.intervals, nil)
			require.Error(t, err)
			assert.True(t, apperrors.Is(err, apperrors.ErrCodeInvalidInput), "got %v", err)
		})
	}
}
