package types

import (
	"github.com/killallgit/autocut/internal/models"
	apperrors "github.com/killallgit/autocut/pkg/errors"
)

// FromJob converts a job model to its API representation
func FromJob(job *models.Job) *Job {
	if job == nil {
		return nil
	}
	return &Job{
		ID:          job.ID,
		Type:        string(job.Type),
		Status:      string(job.Status),
		Progress:    job.Progress,
		InputPath:   job.InputPath(),
		Result:      job.Result,
		Error:       job.Error,
		ErrorType:   job.ErrorType,
		ErrorCode:   job.ErrorCode,
		CreatedBy:   job.CreatedBy,
		CreatedAt:   job.CreatedAt,
		StartedAt:   job.StartedAt,
		CompletedAt: job.CompletedAt,
	}
}

// FromCut converts a cut record to its API representation. Intervals are
// decoded only when withIntervals is set.
func FromCut(cut *models.CutRecord, withIntervals bool) (*Cut, error) {
	if cut == nil {
		return nil, nil
	}
	out := &Cut{
		ID:                 cut.ID,
		JobID:              cut.JobID,
		InputPath:          cut.InputPath,
		OutputPath:         cut.OutputPath,
		SilentThreshold:    cut.SilentThreshold,
		FrameMargin:        cut.FrameMargin,
		Track:              cut.Track,
		KeepTracksSeparate: cut.KeepTracksSeparate,
		AudioTracks:        cut.AudioTracks,
		FrameRate:          cut.FrameRate,
		TotalFrames:        cut.TotalFrames,
		KeptFrames:         cut.KeptFrames,
		KeptRatio:          cut.KeptRatio(),
		DurationMs:         cut.DurationMs,
		CreatedAt:          cut.CreatedAt,
	}
	if !withIntervals {
		return out, nil
	}

	intervals, err := cut.Intervals()
	if err != nil {
		return nil, err
	}
	out.Intervals = make([]Interval, 0, len(intervals))
	for _, iv := range intervals {
		out.Intervals = append(out.Intervals, Interval{Start: iv.Start, End: iv.End, Tier: iv.Tier.String()})
	}
	return out, nil
}

// NewErrorResponse builds an error body. AppErrors contribute their code and
// details.
func NewErrorResponse(message string, err error) ErrorResponse {
	resp := ErrorResponse{Status: StatusError, Message: message}
	if appErr, ok := apperrors.As(err); ok {
		resp.Error = string(appErr.Code)
		if len(appErr.Details) > 0 {
			resp.Details = appErr.Details
		}
	}
	return resp
}
