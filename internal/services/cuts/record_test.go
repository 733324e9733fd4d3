package cuts

import (
	"testing"
	"time"

	"github.com/killallgit/autocut/internal/pipeline"
	"github.com/killallgit/autocut/internal/silence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordFromResult(t *testing.T) {
	opts := pipeline.DefaultOptions()
	opts.TrackIndex = 1
	opts.FrameMargin = 3
	req := pipeline.Request{Input: "/v/in.mp4", Options: opts}

	intervals := []silence.Interval{
		{Start: 0, End: 12, Tier: silence.TierDrop},
		{Start: 12, End: 20, Tier: silence.TierKeep},
	}
	res := &pipeline.Result{
		Output:         "/v/in_ALTERED.mp4",
		Intervals:      intervals,
		Summary:        silence.Summarize(intervals),
		Tracks:         2,
		FrameRate:      25,
		OverflowFrames: 1,
		Elapsed:        2 * time.Second,
	}

	record, err := RecordFromResult(7, req, res)
	require.NoError(t, err)

	assert.Equal(t, uint(7), record.JobID)
	assert.Equal(t, "/v/in.mp4", record.InputPath)
	assert.Equal(t, "/v/in_ALTERED.mp4", record.OutputPath)
	assert.Equal(t, 1, record.Track)
	assert.Equal(t, 3, record.FrameMargin)
	assert.Equal(t, 2, record.AudioTracks)
	assert.Equal(t, 20, record.TotalFrames)
	assert.Equal(t, 8, record.KeptFrames)
	assert.Equal(t, 1, record.OverflowFrames)
	assert.Equal(t, int64(2000), record.DurationMs)
	require.NoError(t, validateCut(record))
}
