package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/josias65/gestion-api/internal/models"
)

// CriterionRepository defines persistence operations for evaluation criteria.
type CriterionRepository interface {
	CreateBatch(ctx context.Context, criteria []models.Criterion) error
	ListByTender(ctx context.Context, tenderID uint) ([]models.Criterion, error)
}

type criterionRepository struct {
	db *gorm.DB
}

// NewCriterionRepository instantiates a GORM-backed repository.
func NewCriterionRepository(db *gorm.DB) CriterionRepository {
	return &criterionRepository{db: db}
}

func (r *criterionRepository) CreateBatch(ctx context.Context, criteria []models.Criterion) error {
	if len(criteria) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&criteria).Error
}

func (r *criterionRepository) ListByTender(ctx context.Context, tenderID uint) ([]models.Criterion, error) {
	var criteria []models.Criterion
	err := r.db.WithContext(ctx).
		Where("tender_id = ?", tenderID).
		Order("weight DESC").
		Find(&criteria).Error
	if err != nil {
		return nil, err
	}

	return criteria, nil
}
