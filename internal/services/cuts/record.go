package cuts

import (
	"github.com/killallgit/autocut/internal/models"
	"github.com/killallgit/autocut/internal/pipeline"
)

// RecordFromResult builds the record of a finished run. jobID is 0 for runs
// started outside the job queue.
func RecordFromResult(jobID uint, req pipeline.Request, res *pipeline.Result) (*models.CutRecord, error) {
	record := &models.CutRecord{
		JobID:              jobID,
		InputPath:          req.Input,
		OutputPath:         res.Output,
		SilentThreshold:    req.Options.SilentThreshold,
		FrameMargin:        req.Options.FrameMargin,
		Track:              req.Options.TrackIndex,
		KeepTracksSeparate: req.Options.KeepTracksSeparate,
		AudioTracks:        res.Tracks,
		FrameRate:          res.FrameRate,
		OverflowFrames:     res.OverflowFrames,
		DurationMs:         res.Elapsed.Milliseconds(),
	}
	if err := record.SetIntervals(res.Intervals); err != nil {
		return nil, err
	}
	return record, nil
}
