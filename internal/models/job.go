package models

import (
	"slices"
	"time"

	"gorm.io/gorm"
)

// JobStatus is a job's position in the queue lifecycle
type JobStatus string

const (
	JobStatusPending           JobStatus = "pending"
	JobStatusProcessing        JobStatus = "processing"
	JobStatusCompleted         JobStatus = "completed"
	JobStatusFailed            JobStatus = "failed" // attempts left, claimable again
	JobStatusPermanentlyFailed JobStatus = "permanently_failed"
	JobStatusCancelled         JobStatus = "cancelled"
)

// ActiveStatuses are the states in which a job may still run
var ActiveStatuses = []JobStatus{JobStatusPending, JobStatusProcessing, JobStatusFailed}

// FinishedStatuses are the states a job never leaves on its own
var FinishedStatuses = []JobStatus{JobStatusCompleted, JobStatusPermanentlyFailed, JobStatusCancelled}

// JobType selects the processor that handles a job
type JobType string

// JobTypeSilenceCut removes silent frames from one input video.
const JobTypeSilenceCut JobType = "silence_cut"

// AllJobTypes lists every job type a worker may be asked to claim.
var AllJobTypes = []JobType{JobTypeSilenceCut}

// Job is one queued unit of work. Payload and Result are JSON columns.
type Job struct {
	gorm.Model
	Type         JobType    `json:"type" gorm:"not null;index:idx_jobs_type_status"`
	Status       JobStatus  `json:"status" gorm:"default:'pending';index:idx_jobs_status_priority"`
	Payload      JobPayload `json:"payload" gorm:"type:json"`
	Priority     int        `json:"priority" gorm:"default:0;index:idx_jobs_status_priority"`
	MaxRetries   int        `json:"max_retries" gorm:"default:1"` // total attempts allowed
	RetryCount   int        `json:"retry_count" gorm:"default:0"` // failed attempts so far
	Progress     int        `json:"progress" gorm:"default:0"`    // 0-100
	StartedAt    *time.Time `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at"`
	LastFailedAt *time.Time `json:"last_failed_at"`
	Result       JobResult  `json:"result,omitempty" gorm:"type:json"`
	WorkerID     string     `json:"worker_id,omitempty"`

	Error        string `json:"error,omitempty"`
	ErrorType    string `json:"error_type,omitempty"`    // a JobErrorType
	ErrorCode    string `json:"error_code,omitempty"`    // AppError code, e.g. OUTPUT_NOT_CREATED
	ErrorDetails string `json:"error_details,omitempty"` // file, stage and ffmpeg stderr

	CreatedBy string `json:"created_by,omitempty"` // "api", "watch" or "cli"
}

func (Job) TableName() string {
	return "jobs"
}

// IsRetryable reports whether a failed job has attempts left
func (j *Job) IsRetryable() bool {
	return j.Status == JobStatusFailed && j.RetryCount < j.MaxRetries
}

// IsActive reports whether the job may still run
func (j *Job) IsActive() bool {
	if j.Status == JobStatusFailed {
		return j.IsRetryable()
	}
	return slices.Contains(ActiveStatuses, j.Status)
}

// InputPath returns the video a silence cut job reads, or "" when unset
func (j *Job) InputPath() string {
	s, _ := j.Payload[PayloadInputPath].(string)
	return s
}
