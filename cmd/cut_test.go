package cmd

import (
	"context"
	"testing"
	"time"

	"github.com/killallgit/autocut/internal/database"
	"github.com/killallgit/autocut/internal/logging"
	"github.com/killallgit/autocut/internal/pipeline"
	"github.com/killallgit/autocut/internal/services/cuts"
	"github.com/killallgit/autocut/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCutCommand(t *testing.T) {
	stub := useStubRunner(t)

	out, err := execute(t, context.Background(),
		"cut", "/videos/talk.mp4",
		"--no-progress",
		"--frame-margin", "4",
		"--silent-threshold", "0.05",
		"--keep-tracks-separate",
	)
	require.NoError(t, err)

	assert.Equal(t, "/videos/talk.mp4", stub.last.Input)
	assert.Empty(t, stub.last.Output)
	assert.Equal(t, 4, stub.last.Options.FrameMargin)
	assert.Equal(t, 0.05, stub.last.Options.SilentThreshold)
	assert.True(t, stub.last.Options.KeepTracksSeparate)
	assert.Equal(t, pipeline.DefaultOptions().VideoCodec, stub.last.Options.VideoCodec, "unset flags keep config values")

	assert.Contains(t, out, "Wrote /videos/talk_ALTERED.mp4")
	assert.Contains(t, out, "kept 60 of 120 frames (50.0%) in 2 run(s)")
	assert.Contains(t, out, "2 audio track(s), 30.000 fps")
}

func TestCutCommand_OutputFlag(t *testing.T) {
	stub := useStubRunner(t)

	out, err := execute(t, context.Background(), "cut", "/in.mov", "-o", "/out/short.mov", "--no-progress")
	require.NoError(t, err)
	assert.Equal(t, "/out/short.mov", stub.last.Output)
	assert.Contains(t, out, "Wrote /out/short.mov")
}

func TestCutCommand_Failure(t *testing.T) {
	stub := useStubRunner(t)
	stub.failOn = "/broken.mp4"

	_, err := execute(t, context.Background(), "cut", "/broken.mp4", "--no-progress")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "probe")
}

func TestCutCommand_Record(t *testing.T) {
	useStubRunner(t)

	_, err := execute(t, context.Background(), "cut", "/videos/talk.mp4", "--no-progress", "--record", "--track", "1")
	require.NoError(t, err)

	db, err := database.Initialize(config.GetString("database.path"), false)
	require.NoError(t, err)
	defer db.Close()

	recent, err := cuts.NewService(cuts.NewRepository(db.DB), logging.NewNop()).ListRecent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Zero(t, recent[0].JobID)
	assert.Equal(t, "/videos/talk.mp4", recent[0].InputPath)
	assert.Equal(t, 1, recent[0].Track)
	assert.Equal(t, 60, recent[0].KeptFrames)
	assert.Equal(t, (2 * time.Second).Milliseconds(), recent[0].DurationMs)
}
