package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/josias65/gestion-api/internal/models"
)

// DocumentRepository defines persistence operations for the document catalog.
type DocumentRepository interface {
	CreateBatch(ctx context.Context, documents []models.Document) error
	GetByTenderAndID(ctx context.Context, tenderID, id uint) (models.Document, error)
	Delete(ctx context.Context, id uint) error
	ListByTender(ctx context.Context, tenderID uint) ([]models.Document, error)
}

type documentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository instantiates a GORM-backed repository.
func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) CreateBatch(ctx context.Context, documents []models.Document) error {
	if len(documents) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&documents).Error
}

func (r *documentRepository) GetByTenderAndID(ctx context.Context, tenderID, id uint) (models.Document, error) {
	var document models.Document
	err := r.db.WithContext(ctx).
		Where("id = ? AND tender_id = ?", id, tenderID).
		First(&document).Error
	if err != nil {
		return models.Document{}, err
	}

	return document, nil
}

func (r *documentRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Document{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *documentRepository) ListByTender(ctx context.Context, tenderID uint) ([]models.Document, error) {
	var documents []models.Document
	err := r.db.WithContext(ctx).
		Where("tender_id = ?", tenderID).
		Order("created_at DESC").
		Find(&documents).Error
	if err != nil {
		return nil, err
	}

	return documents, nil
}
