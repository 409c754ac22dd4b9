package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/josias65/gestion-api/internal/models"
)

// ScoreRepository defines persistence operations for per-criterion scores.
type ScoreRepository interface {
	CreateBatch(ctx context.Context, scores []models.Score) error
	ListBySubmission(ctx context.Context, submissionID uint) ([]models.Score, error)
}

type scoreRepository struct {
	db *gorm.DB
}

// NewScoreRepository instantiates a GORM-backed repository.
func NewScoreRepository(db *gorm.DB) ScoreRepository {
	return &scoreRepository{db: db}
}

func (r *scoreRepository) CreateBatch(ctx context.Context, scores []models.Score) error {
	if len(scores) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&scores).Error
}

func (r *scoreRepository) ListBySubmission(ctx context.Context, submissionID uint) ([]models.Score, error) {
	var scores []models.Score
	err := r.db.WithContext(ctx).
		Where("submission_id = ?", submissionID).
		Find(&scores).Error
	if err != nil {
		return nil, err
	}

	return scores, nil
}
