package models

import (
	"encoding/json"

	"github.com/killallgit/autocut/internal/silence"
	"gorm.io/gorm"
)

// CutRecord stores the outcome of one finished silence cut.
type CutRecord struct {
	gorm.Model
	JobID              uint    `json:"job_id" gorm:"uniqueIndex:idx_cut_records_job_id,where:job_id > 0"` // 0 for CLI runs
	InputPath          string  `json:"input_path" gorm:"not null"`
	OutputPath         string  `json:"output_path" gorm:"not null;index"`
	SilentThreshold    float64 `json:"silent_threshold"`
	FrameMargin        int     `json:"frame_margin"`
	Track              int     `json:"track"`
	KeepTracksSeparate bool    `json:"keep_tracks_separate"`
	AudioTracks        int     `json:"audio_tracks"`
	FrameRate          float64 `json:"frame_rate" gorm:"not null"`
	TotalFrames        int     `json:"total_frames"`
	KeptFrames         int     `json:"kept_frames"`
	OverflowFrames     int     `json:"overflow_frames"`
	DurationMs         int64   `json:"duration_ms"`        // wall time of the run
	IntervalsData      []byte  `json:"-" gorm:"type:blob"` // JSON-encoded []silence.Interval
}

// Intervals returns the decoded keep/drop intervals.
func (c *CutRecord) Intervals() ([]silence.Interval, error) {
	if len(c.IntervalsData) == 0 {
		return []silence.Interval{}, nil
	}
	var intervals []silence.Interval
	if err := json.Unmarshal(c.IntervalsData, &intervals); err != nil {
		return nil, err
	}
	return intervals, nil
}

// SetIntervals encodes intervals and refreshes the frame totals.
func (c *CutRecord) SetIntervals(intervals []silence.Interval) error {
	data, err := json.Marshal(intervals)
	if err != nil {
		return err
	}
	summary := silence.Summarize(intervals)
	c.IntervalsData = data
	c.TotalFrames = summary.TotalFrames
	c.KeptFrames = summary.KeptFrames
	return nil
}

// KeptRatio returns the share of frames that survived the cut.
func (c *CutRecord) KeptRatio() float64 {
	if c.TotalFrames == 0 {
		return 0
	}
	return float64(c.KeptFrames) / float64(c.TotalFrames)
}

// TableName specifies the table name for GORM
func (CutRecord) TableName() string {
	return "cut_records"
}

// AllModels lists every model handled by AutoMigrate.
func AllModels() []interface{} {
	return []interface{}{&Job{}, &CutRecord{}}
}
