package cuts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/killallgit/autocut/internal/logging"
	"github.com/killallgit/autocut/internal/models"
)

type service struct {
	repo   CutRepository
	logger *slog.Logger
}

// NewService creates a new cut record service
func NewService(repo CutRepository, logger *slog.Logger) CutService {
	return &service{
		repo:   repo,
		logger: logging.NewComponent(logger, "cuts"),
	}
}

func (s *service) SaveCut(ctx context.Context, cut *models.CutRecord) error {
	if err := validateCut(cut); err != nil {
		return err
	}

	// CLI runs have no job and always get a fresh record.
	if cut.JobID != 0 {
		existing, err := s.repo.GetByJobID(ctx, cut.JobID)
		switch {
		case err == nil:
			cut.ID = existing.ID
			cut.CreatedAt = existing.CreatedAt
			s.logger.Debug("replacing cut record", slog.Uint64("job_id", uint64(cut.JobID)))
			return s.repo.Update(ctx, cut)
		case !errors.Is(err, ErrCutNotFound):
			return err
		}
	}

	if err := s.repo.Create(ctx, cut); err != nil {
		return fmt.Errorf("saving cut record: %w", err)
	}
	s.logger.Debug("saved cut record",
		slog.Uint64("id", uint64(cut.ID)),
		slog.String("output", cut.OutputPath),
		slog.Int("kept_frames", cut.KeptFrames),
		slog.Int("total_frames", cut.TotalFrames))
	return nil
}

func (s *service) GetCut(ctx context.Context, id uint) (*models.CutRecord, error) {
	if id == 0 {
		return nil, ErrCutNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetCutByJob(ctx context.Context, jobID uint) (*models.CutRecord, error) {
	if jobID == 0 {
		return nil, ErrCutNotFound
	}
	return s.repo.GetByJobID(ctx, jobID)
}

func (s *service) ListRecent(ctx context.Context, limit int) ([]*models.CutRecord, error) {
	switch {
	case limit <= 0:
		limit = DefaultListLimit
	case limit > MaxListLimit:
		limit = MaxListLimit
	}
	return s.repo.ListRecent(ctx, limit)
}

func validateCut(cut *models.CutRecord) error {
	switch {
	case cut == nil:
		return fmt.Errorf("%w: nil record", ErrInvalidCut)
	case cut.InputPath == "" || cut.OutputPath == "":
		return fmt.Errorf("%w: input and output paths are required", ErrInvalidCut)
	case !(cut.FrameRate > 0):
		return fmt.Errorf("%w: frame rate must be positive", ErrInvalidCut)
	case cut.KeptFrames > cut.TotalFrames:
		return fmt.Errorf("%w: kept %d of %d frames", ErrInvalidCut, cut.KeptFrames, cut.TotalFrames)
	}
	return nil
}
