package models

import (
	"testing"

	"github.com/killallgit/autocut/internal/silence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCutRecord_SetAndGetIntervals(t *testing.T) {
	tests := []struct {
		name      string
		intervals []silence.Interval
		wantTotal int
		wantKept  int
	}{
		{
			name: "mixed keep and drop",
			intervals: []silence.Interval{
				{Start: 0, End: 2, Tier: silence.TierKeep},
				{Start: 2, End: 3, Tier: silence.TierDrop},
				{Start: 3, End: 5, Tier: silence.TierKeep},
			},
			wantTotal: 5,
			wantKept:  4,
		},
		{
			name: "loud tier counts as kept",
			intervals: []silence.Interval{
				{Start: 0, End: 4, Tier: silence.TierDrop},
				{Start: 4, End: 10, Tier: silence.TierKeepLoud},
			},
			wantTotal: 10,
			wantKept:  6,
		},
		{
			name:      "empty",
			intervals: []silence.Interval{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &CutRecord{}
			require.NoError(t, rec.SetIntervals(tt.intervals))

			assert.Equal(t, tt.wantTotal, rec.TotalFrames)
			assert.Equal(t, tt.wantKept, rec.KeptFrames)

			got, err := rec.Intervals()
			require.NoError(t, err)
			assert.Equal(t, tt.intervals, got)
		})
	}
}

func TestCutRecord_IntervalsUnset(t *testing.T) {
	rec := &CutRecord{}
	got, err := rec.Intervals()
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Zero(t, rec.KeptRatio())
}

func TestCutRecord_IntervalsCorrupt(t *testing.T) {
	rec := &CutRecord{IntervalsData: []byte("{not json")}
	_, err := rec.Intervals()
	assert.Error(t, err)
}

func TestCutRecord_KeptRatio(t *testing.T) {
	rec := &CutRecord{TotalFrames: 8, KeptFrames: 6}
	assert.InDelta(t, 0.75, rec.KeptRatio(), 1e-9)
}
