package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/killallgit/autocut/internal/logging"
	"github.com/killallgit/autocut/internal/models"
)

const (
	// DefaultMaxRetries allows a single attempt. A codec failure on an input
	// fails the same way the next time.
	DefaultMaxRetries = 1
	DefaultPriority   = 0
)

type service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates the job queue service
func NewService(repo Repository, logger *slog.Logger) Service {
	return &service{
		repo:   repo,
		logger: logging.NewComponent(logger, "jobs"),
	}
}

func (s *service) EnqueueJob(ctx context.Context, jobType models.JobType, payload models.JobPayload, opts ...JobOption) (*models.Job, error) {
	job := &models.Job{
		Type:       jobType,
		Status:     models.JobStatusPending,
		Payload:    payload,
		Priority:   DefaultPriority,
		MaxRetries: DefaultMaxRetries,
	}
	for _, opt := range opts {
		opt(job)
	}
	job.MaxRetries = max(job.MaxRetries, 1)

	if err := s.repo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("creating job: %w", err)
	}

	s.logger.Debug("enqueued job", jobAttr(job.ID),
		slog.String("type", string(jobType)),
		slog.Int("priority", job.Priority),
		slog.String("created_by", job.CreatedBy))
	return job, nil
}

// EnqueueUniqueJob returns the unfinished job of jobType whose payload has
// the same value under uniqueKey, or enqueues a new one.
func (s *service) EnqueueUniqueJob(ctx context.Context, jobType models.JobType, payload models.JobPayload, uniqueKey string, opts ...JobOption) (*models.Job, error) {
	value, ok := payload[uniqueKey]
	if !ok {
		return nil, fmt.Errorf("unique key %s not found in payload", uniqueKey)
	}

	existing, err := s.repo.FindActive(ctx, jobType, uniqueKey, value)
	switch {
	case err == nil:
		s.logger.Debug("job already queued", jobAttr(existing.ID),
			slog.Any(uniqueKey, value),
			slog.String("status", string(existing.Status)))
		return existing, nil
	case !errors.Is(err, ErrJobNotFound):
		return nil, err
	}
	return s.EnqueueJob(ctx, jobType, payload, opts...)
}

func (s *service) GetJob(ctx context.Context, jobID uint) (*models.Job, error) {
	return s.repo.Get(ctx, jobID)
}

func (s *service) ListJobs(ctx context.Context, limit int) ([]*models.Job, error) {
	return s.repo.List(ctx, limit)
}

func (s *service) ClaimNextJob(ctx context.Context, workerID string, jobTypes []models.JobType) (*models.Job, error) {
	job, err := s.repo.Claim(ctx, workerID, jobTypes)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("claimed job", jobAttr(job.ID), slog.String("worker", workerID))
	return job, nil
}

func (s *service) UpdateProgress(ctx context.Context, jobID uint, progress int) error {
	if err := s.repo.SetProgress(ctx, jobID, progress); err != nil {
		return err
	}
	if progress%10 == 0 {
		s.logger.Debug("job progress", jobAttr(jobID), slog.Int("progress", progress))
	}
	return nil
}

func (s *service) CompleteJob(ctx context.Context, jobID uint, result models.JobResult) error {
	if err := s.repo.Complete(ctx, jobID, result); err != nil {
		return err
	}
	s.logger.Info("job completed", jobAttr(jobID))
	return nil
}

// FailJob records an unclassified failure as a system error
func (s *service) FailJob(ctx context.Context, jobID uint, err error) error {
	return s.FailJobWithDetails(ctx, jobID, models.ErrorTypeSystem, "", err.Error(), "")
}

func (s *service) FailJobWithDetails(ctx context.Context, jobID uint, errorType models.JobErrorType, errorCode, errorMsg, errorDetails string) error {
	job, err := s.repo.Fail(ctx, jobID, Failure{
		Type:    errorType,
		Code:    errorCode,
		Message: errorMsg,
		Details: errorDetails,
	})
	if err != nil {
		return err
	}

	attrs := []any{
		jobAttr(jobID),
		slog.String("error_type", string(errorType)),
		slog.String("error_code", errorCode),
		slog.String("error", errorMsg),
	}
	if job.IsRetryable() {
		s.logger.Warn("job failed, will retry",
			append(attrs, slog.Int("attempt", job.RetryCount), slog.Int("max_retries", job.MaxRetries))...)
		return nil
	}
	s.logger.Error("job failed permanently", attrs...)
	return nil
}

func (s *service) ReleaseJob(ctx context.Context, jobID uint) error {
	if err := s.repo.Release(ctx, jobID); err != nil {
		return err
	}
	s.logger.Debug("job released back to pending", jobAttr(jobID))
	return nil
}

// RetryFailedJob resets a failed or permanently failed job to pending
func (s *service) RetryFailedJob(ctx context.Context, jobID uint) (*models.Job, error) {
	job, err := s.repo.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status != models.JobStatusFailed && job.Status != models.JobStatusPermanentlyFailed {
		return nil, fmt.Errorf("%w: job %d is %s", ErrJobNotRetryable, jobID, job.Status)
	}

	if err := s.repo.Reset(ctx, jobID); err != nil {
		return nil, fmt.Errorf("resetting job for retry: %w", err)
	}
	s.logger.Info("job manually retried", jobAttr(jobID), slog.String("previous_status", string(job.Status)))
	return s.repo.Get(ctx, jobID)
}

// RecoverStaleJobs releases jobs left processing by a previous process
func (s *service) RecoverStaleJobs(ctx context.Context) (int64, error) {
	n, err := s.repo.ReleaseProcessing(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Warn("released stale jobs", slog.Int64("count", n))
	}
	return n, nil
}

// CleanupOldJobs deletes finished jobs created more than retentionDays ago
func (s *service) CleanupOldJobs(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, fmt.Errorf("retention days must be positive, got %d", retentionDays)
	}

	deleted, err := s.repo.DeleteFinishedBefore(ctx, time.Now().AddDate(0, 0, -retentionDays))
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.logger.Info("deleted old jobs", slog.Int64("count", deleted), slog.Int("retention_days", retentionDays))
	}
	return deleted, nil
}

func jobAttr(id uint) slog.Attr {
	return slog.Uint64("job_id", uint64(id))
}
