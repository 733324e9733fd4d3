package types

import (
	"github.com/killallgit/autocut/internal/models"
)

// CreateCutRequest asks for one silence removal run. Omitted parameters fall
// back to the server's cut defaults.
type CreateCutRequest struct {
	InputPath          string   `json:"input_path" binding:"required"`
	OutputPath         string   `json:"output_path,omitempty"`
	SilentThreshold    *float64 `json:"silent_threshold,omitempty" binding:"omitempty,gte=0"`
	FrameMargin        *int     `json:"frame_margin,omitempty" binding:"omitempty,gte=0"`
	Track              *int     `json:"track,omitempty" binding:"omitempty,gte=0"`
	KeepTracksSeparate *bool    `json:"keep_tracks_separate,omitempty"`
	Priority           int      `json:"priority,omitempty"`
}

// Payload converts the request to a job payload holding only the fields the
// client set.
func (r CreateCutRequest) Payload() models.JobPayload {
	return models.CutPayload{
		InputPath:          r.InputPath,
		OutputPath:         r.OutputPath,
		SilentThreshold:    r.SilentThreshold,
		FrameMargin:        r.FrameMargin,
		Track:              r.Track,
		KeepTracksSeparate: r.KeepTracksSeparate,
	}.Payload()
}
