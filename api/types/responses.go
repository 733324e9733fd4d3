package types

import "time"

// Status constants for API responses
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// BaseResponse contains fields common to all API responses
type BaseResponse struct {
	Status  string `json:"status"`  // One of the Status constants above
	Message string `json:"message"` // Human-readable message
}

// ErrorResponse for detailed error information
type ErrorResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Error   string      `json:"error,omitempty"`   // Error code
	Details interface{} `json:"details,omitempty"` // Additional error details
}

// Job is the public view of a queued silence cut.
type Job struct {
	ID          uint                   `json:"id"`
	Type        string                 `json:"type"`
	Status      string                 `json:"status"`
	Progress    int                    `json:"progress"`
	InputPath   string                 `json:"inputPath"`
	Result      map[string]interface{} `json:"result,omitempty"`
	Error       string                 `json:"error,omitempty"`
	ErrorType   string                 `json:"errorType,omitempty"`
	ErrorCode   string                 `json:"errorCode,omitempty"`
	CreatedBy   string                 `json:"createdBy,omitempty"`
	CreatedAt   time.Time              `json:"createdAt"`
	StartedAt   *time.Time             `json:"startedAt,omitempty"`
	CompletedAt *time.Time             `json:"completedAt,omitempty"`
}

// JobResponse for async job status
type JobResponse struct {
	BaseResponse
	Job *Job `json:"job"`
}

// JobsResponse for job lists
type JobsResponse struct {
	BaseResponse
	Jobs  []Job `json:"jobs"`
	Count int   `json:"count"` // Number of results in this response
}

// Interval is one keep or drop run, in frames.
type Interval struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Tier  string `json:"tier"`
}

// Cut is the public view of a finished run.
type Cut struct {
	ID                 uint       `json:"id"`
	JobID              uint       `json:"jobId,omitempty"`
	InputPath          string     `json:"inputPath"`
	OutputPath         string     `json:"outputPath"`
	SilentThreshold    float64    `json:"silentThreshold"`
	FrameMargin        int        `json:"frameMargin"`
	Track              int        `json:"track"`
	KeepTracksSeparate bool       `json:"keepTracksSeparate"`
	AudioTracks        int        `json:"audioTracks"`
	FrameRate          float64    `json:"frameRate"`
	TotalFrames        int        `json:"totalFrames"`
	KeptFrames         int        `json:"keptFrames"`
	KeptRatio          float64    `json:"keptRatio"`
	DurationMs         int64      `json:"durationMs"`
	CreatedAt          time.Time  `json:"createdAt"`
	Intervals          []Interval `json:"intervals,omitempty"`
}

// CutResponse for a single cut record
type CutResponse struct {
	BaseResponse
	Cut *Cut `json:"cut"`
}

// CutsResponse for cut record lists
type CutsResponse struct {
	BaseResponse
	Cuts  []Cut `json:"cuts"`
	Count int   `json:"count"` // Number of results in this response
}
