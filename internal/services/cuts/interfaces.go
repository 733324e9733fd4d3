package cuts

import (
	"context"

	"github.com/killallgit/autocut/internal/models"
)

// DefaultListLimit caps ListRecent when no limit is given.
const DefaultListLimit = 20

// MaxListLimit is the largest page ListRecent returns.
const MaxListLimit = 100

// CutService defines the interface for cut record operations
type CutService interface {
	// SaveCut stores the record of a finished run, replacing any record for the same job
	SaveCut(ctx context.Context, cut *models.CutRecord) error

	GetCut(ctx context.Context, id uint) (*models.CutRecord, error)
	GetCutByJob(ctx context.Context, jobID uint) (*models.CutRecord, error)

	// ListRecent returns the newest records first
	ListRecent(ctx context.Context, limit int) ([]*models.CutRecord, error)
}

// CutRepository defines the interface for cut record data access
type CutRepository interface {
	GetByID(ctx context.Context, id uint) (*models.CutRecord, error)
	GetByJobID(ctx context.Context, jobID uint) (*models.CutRecord, error)
	Create(ctx context.Context, cut *models.CutRecord) error
	Update(ctx context.Context, cut *models.CutRecord) error
	ListRecent(ctx context.Context, limit int) ([]*models.CutRecord, error)
}
