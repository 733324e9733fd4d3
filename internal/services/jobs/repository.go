package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/killallgit/autocut/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository is the sqlite job queue
type Repository interface {
	Create(ctx context.Context, job *models.Job) error
	Get(ctx context.Context, id uint) (*models.Job, error)
	// FindActive returns the newest unfinished job of jobType whose payload
	// has key=value.
	FindActive(ctx context.Context, jobType models.JobType, key string, value any) (*models.Job, error)
	List(ctx context.Context, limit int) ([]*models.Job, error)

	Claim(ctx context.Context, workerID string, jobTypes []models.JobType) (*models.Job, error)
	SetProgress(ctx context.Context, id uint, progress int) error
	Complete(ctx context.Context, id uint, result models.JobResult) error
	Fail(ctx context.Context, id uint, failure Failure) (*models.Job, error)
	Release(ctx context.Context, id uint) error
	Reset(ctx context.Context, id uint) error
	ReleaseProcessing(ctx context.Context) (int64, error)

	DeleteFinishedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Failure describes why an attempt failed
type Failure struct {
	Type    models.JobErrorType
	Code    string
	Message string
	Details string
}

var failedStatuses = []models.JobStatus{models.JobStatusFailed, models.JobStatusPermanentlyFailed}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a job repository on db
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, job *models.Job) error {
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *repository) Get(ctx context.Context, id uint) (*models.Job, error) {
	return first(r.db.WithContext(ctx).Where("id = ?", id), "getting job")
}

func (r *repository) FindActive(ctx context.Context, jobType models.JobType, key string, value any) (*models.Job, error) {
	q := r.db.WithContext(ctx).
		Where("type = ? AND status IN ?", jobType, models.ActiveStatuses).
		Where("json_extract(payload, ?) = ?", "$."+key, value).
		Order("created_at DESC, id DESC")
	return first(q, "finding active job")
}

func (r *repository) List(ctx context.Context, limit int) ([]*models.Job, error) {
	var jobs []*models.Job
	q := r.db.WithContext(ctx).Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}
	return jobs, nil
}

// Claim moves the highest priority runnable job to processing. Failed jobs
// with attempts left are runnable. The status check in the update keeps two
// workers from claiming the same row.
func (r *repository) Claim(ctx context.Context, workerID string, jobTypes []models.JobType) (*models.Job, error) {
	var job *models.Job
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("status = ? OR (status = ? AND retry_count < max_retries)",
				models.JobStatusPending, models.JobStatusFailed).
			Order("priority DESC, created_at ASC, id ASC")
		if len(jobTypes) > 0 {
			q = q.Where("type IN ?", jobTypes)
		}

		var err error
		if job, err = first(q, "finding job to claim"); err != nil {
			if errors.Is(err, ErrJobNotFound) {
				return ErrNoJobsAvailable
			}
			return err
		}

		now := time.Now()
		claimed := map[string]any{
			"status":     models.JobStatusProcessing,
			"worker_id":  workerID,
			"started_at": &now,
			"progress":   0,
		}
		if err := update(tx.Where("id = ? AND status = ?", job.ID, job.Status), claimed, "claiming job"); err != nil {
			if errors.Is(err, ErrJobNotFound) {
				return ErrNoJobsAvailable
			}
			return err
		}

		job.Status = models.JobStatusProcessing
		job.WorkerID = workerID
		job.StartedAt = &now
		job.Progress = 0
		return nil
	})
	if err != nil {
		return nil, err
	}
	return job, nil
}

// SetProgress stores progress clamped to 0..100 on a processing job
func (r *repository) SetProgress(ctx context.Context, id uint, progress int) error {
	progress = max(0, min(progress, 100))
	return update(r.db.WithContext(ctx).Where("id = ? AND status = ?", id, models.JobStatusProcessing),
		map[string]any{"progress": progress}, "updating job progress")
}

func (r *repository) Complete(ctx context.Context, id uint, result models.JobResult) error {
	now := time.Now()
	return update(r.db.WithContext(ctx).Where("id = ?", id), map[string]any{
		"status":       models.JobStatusCompleted,
		"progress":     100,
		"completed_at": &now,
		"result":       result,
		"worker_id":    "",
	}, "completing job")
}

// Fail records an attempt's failure and returns the updated job. A not_found
// failure or a spent attempt budget fails the job permanently.
func (r *repository) Fail(ctx context.Context, id uint, failure Failure) (*models.Job, error) {
	job, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	job.RetryCount++
	job.Status = models.JobStatusFailed
	if job.RetryCount >= job.MaxRetries || failure.Type == models.ErrorTypeNotFound {
		job.Status = models.JobStatusPermanentlyFailed
		job.CompletedAt = &now
	}
	job.Error = failure.Message
	job.ErrorType = string(failure.Type)
	job.ErrorCode = failure.Code
	job.ErrorDetails = failure.Details
	job.LastFailedAt = &now
	job.WorkerID = ""

	err = update(r.db.WithContext(ctx).Where("id = ?", id), map[string]any{
		"status":         job.Status,
		"error":          job.Error,
		"error_type":     job.ErrorType,
		"error_code":     job.ErrorCode,
		"error_details":  job.ErrorDetails,
		"last_failed_at": job.LastFailedAt,
		"completed_at":   job.CompletedAt,
		"retry_count":    job.RetryCount,
		"worker_id":      "",
	}, "failing job")
	if err != nil {
		return nil, err
	}
	return job, nil
}

// Release puts a processing job back to pending
func (r *repository) Release(ctx context.Context, id uint) error {
	return update(r.db.WithContext(ctx).Where("id = ? AND status = ?", id, models.JobStatusProcessing),
		pendingUpdates(), "releasing job")
}

// Reset puts a failed job back to pending with a fresh attempt budget
func (r *repository) Reset(ctx context.Context, id uint) error {
	updates := pendingUpdates()
	for _, col := range []string{"error", "error_type", "error_code", "error_details"} {
		updates[col] = ""
	}
	updates["retry_count"] = 0
	updates["completed_at"] = nil

	return update(r.db.WithContext(ctx).Where("id = ? AND status IN ?", id, failedStatuses),
		updates, "resetting job")
}

// ReleaseProcessing returns every processing job to pending. Only safe at
// startup, before any worker runs.
func (r *repository) ReleaseProcessing(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Job{}).
		Where("status = ?", models.JobStatusProcessing).
		Updates(pendingUpdates())
	if res.Error != nil {
		return 0, fmt.Errorf("releasing processing jobs: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *repository) DeleteFinishedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("created_at < ? AND status IN ?", cutoff, models.FinishedStatuses).
		Delete(&models.Job{})
	if res.Error != nil {
		return 0, fmt.Errorf("deleting finished jobs: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// first loads the first job q matches, mapping a missing row to ErrJobNotFound.
func first(q *gorm.DB, op string) (*models.Job, error) {
	var job models.Job
	if err := q.First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &job, nil
}

// update applies updates to the jobs q selects. Touching no row means the job
// is missing or in another state, reported as ErrJobNotFound.
func update(q *gorm.DB, updates map[string]any, op string) error {
	res := q.Model(&models.Job{}).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("%s: %w", op, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrJobNotFound
	}
	return nil
}

func pendingUpdates() map[string]any {
	return map[string]any{
		"status":     models.JobStatusPending,
		"worker_id":  "",
		"started_at": nil,
		"progress":   0,
	}
}
