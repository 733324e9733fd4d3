package types

import (
	"errors"
	"testing"

	"github.com/killallgit/autocut/internal/models"
	"github.com/killallgit/autocut/internal/silence"
	apperrors "github.com/killallgit/autocut/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestCreateCutRequest_Payload(t *testing.T) {
	tests := []struct {
		name string
		req  CreateCutRequest
		want models.JobPayload
	}{
		{
			name: "input only",
			req:  CreateCutRequest{InputPath: "/v/in.mp4"},
			want: models.JobPayload{models.PayloadInputPath: "/v/in.mp4"},
		},
		{
			name: "every override",
			req: CreateCutRequest{
				InputPath:          "/v/in.mp4",
				OutputPath:         "/v/out.mp4",
				SilentThreshold:    ptr(0.0),
				FrameMargin:        ptr(0),
				Track:              ptr(2),
				KeepTracksSeparate: ptr(false),
			},
			want: models.JobPayload{
				models.PayloadInputPath:          "/v/in.mp4",
				models.PayloadOutputPath:         "/v/out.mp4",
				models.PayloadSilentThreshold:    0.0,
				models.PayloadFrameMargin:        0,
				models.PayloadTrack:              2,
				models.PayloadKeepTracksSeparate: false,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.req.Payload())
		})
	}
}

func TestFromJob(t *testing.T) {
	assert.Nil(t, FromJob(nil))

	job := &models.Job{
		Type:      models.JobTypeSilenceCut,
		Status:    models.JobStatusProcessing,
		Progress:  42,
		Payload:   models.JobPayload{models.PayloadInputPath: "/v/in.mp4"},
		CreatedBy: "api",
	}
	job.ID = 9

	got := FromJob(job)
	assert.Equal(t, uint(9), got.ID)
	assert.Equal(t, "silence_cut", got.Type)
	assert.Equal(t, "processing", got.Status)
	assert.Equal(t, 42, got.Progress)
	assert.Equal(t, "/v/in.mp4", got.InputPath)
}

func TestFromCut(t *testing.T) {
	cut := &models.CutRecord{InputPath: "/in.mp4", OutputPath: "/out.mp4", FrameRate: 25}
	require.NoError(t, cut.SetIntervals([]silence.Interval{
		{Start: 0, End: 4, Tier: silence.TierDrop},
		{Start: 4, End: 10, Tier: silence.TierKeep},
	}))

	brief, err := FromCut(cut, false)
	require.NoError(t, err)
	assert.Empty(t, brief.Intervals)
	assert.Equal(t, 10, brief.TotalFrames)
	assert.InDelta(t, 0.6, brief.KeptRatio, 1e-9)

	full, err := FromCut(cut, true)
	require.NoError(t, err)
	require.Len(t, full.Intervals, 2)
	assert.Equal(t, Interval{Start: 4, End: 10, Tier: silence.TierKeep.String()}, full.Intervals[1])

	cut.IntervalsData = []byte("{broken")
	_, err = FromCut(cut, true)
	assert.Error(t, err)
}

func TestNewErrorResponse(t *testing.T) {
	resp := NewErrorResponse("Bad track", apperrors.TrackIndexOutOfRange(3, 1))
	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, "TRACK_INDEX_OUT_OF_RANGE", resp.Error)
	assert.NotNil(t, resp.Details)

	plain := NewErrorResponse("Boom", errors.New("boom"))
	assert.Empty(t, plain.Error)
	assert.Nil(t, plain.Details)
}
