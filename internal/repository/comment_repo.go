package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/josias65/gestion-api/internal/models"
)

// CommentRepository defines persistence operations for tender comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	ListByTender(ctx context.Context, tenderID uint) ([]models.Comment, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository instantiates a GORM-backed repository.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) ListByTender(ctx context.Context, tenderID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Where("tender_id = ?", tenderID).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}

	return comments, nil
}
