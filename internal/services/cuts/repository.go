package cuts

import (
	"context"
	"errors"

	"github.com/killallgit/autocut/internal/models"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new cut record repository
func NewRepository(db *gorm.DB) CutRepository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id uint) (*models.CutRecord, error) {
	var cut models.CutRecord
	if err := r.db.WithContext(ctx).First(&cut, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCutNotFound
		}
		return nil, err
	}
	return &cut, nil
}

func (r *repository) GetByJobID(ctx context.Context, jobID uint) (*models.CutRecord, error) {
	var cut models.CutRecord
	err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		First(&cut).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCutNotFound
		}
		return nil, err
	}
	return &cut, nil
}

func (r *repository) Create(ctx context.Context, cut *models.CutRecord) error {
	return r.db.WithContext(ctx).Create(cut).Error
}

func (r *repository) Update(ctx context.Context, cut *models.CutRecord) error {
	return r.db.WithContext(ctx).Save(cut).Error
}

func (r *repository) ListRecent(ctx context.Context, limit int) ([]*models.CutRecord, error) {
	var cuts []*models.CutRecord
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&cuts).Error
	return cuts, err
}
