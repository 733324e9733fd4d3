package jobs

import (
	"context"

	"github.com/killallgit/autocut/internal/models"
)

// Producer queues work and reports on it. The API and the directory
// watcher only need this half.
type Producer interface {
	EnqueueJob(ctx context.Context, jobType models.JobType, payload models.JobPayload, opts ...JobOption) (*models.Job, error)
	// EnqueueUniqueJob skips the insert when an active job of jobType already
	// carries the same payload value under uniqueKey.
	EnqueueUniqueJob(ctx context.Context, jobType models.JobType, payload models.JobPayload, uniqueKey string, opts ...JobOption) (*models.Job, error)
	GetJob(ctx context.Context, jobID uint) (*models.Job, error)
	ListJobs(ctx context.Context, limit int) ([]*models.Job, error)
	RetryFailedJob(ctx context.Context, jobID uint) (*models.Job, error)
}

// Consumer is the worker side of the queue.
type Consumer interface {
	ClaimNextJob(ctx context.Context, workerID string, jobTypes []models.JobType) (*models.Job, error)
	UpdateProgress(ctx context.Context, jobID uint, progress int) error
	CompleteJob(ctx context.Context, jobID uint, result models.JobResult) error
	FailJob(ctx context.Context, jobID uint, err error) error
	FailJobWithDetails(ctx context.Context, jobID uint, errorType models.JobErrorType, errorCode, errorMsg, errorDetails string) error
	ReleaseJob(ctx context.Context, jobID uint) error
	RecoverStaleJobs(ctx context.Context) (int64, error)
}

// Service is the whole job queue.
type Service interface {
	Producer
	Consumer
	CleanupOldJobs(ctx context.Context, retentionDays int) (int64, error)
}

// JobOption adjusts a job before it is inserted.
type JobOption func(*models.Job)

// WithPriority sets the claim priority. Higher runs first.
func WithPriority(priority int) JobOption {
	return func(j *models.Job) { j.Priority = priority }
}

// WithMaxRetries caps the number of attempts. Values below one become one.
func WithMaxRetries(retries int) JobOption {
	return func(j *models.Job) { j.MaxRetries = retries }
}

// WithCreatedBy records the origin of the job, such as "api" or "watch".
func WithCreatedBy(createdBy string) JobOption {
	return func(j *models.Job) { j.CreatedBy = createdBy }
}
