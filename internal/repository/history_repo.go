package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/josias65/gestion-api/internal/models"
)

// HistoryRepository persists the append-only audit trail of a tender.
// Entries are never updated or deleted.
type HistoryRepository interface {
	Create(ctx context.Context, entry *models.HistoryEntry) error
	ListByTender(ctx context.Context, tenderID uint) ([]models.HistoryEntry, error)
}

type historyRepository struct {
	db *gorm.DB
}

// NewHistoryRepository instantiates a GORM-backed repository.
func NewHistoryRepository(db *gorm.DB) HistoryRepository {
	return &historyRepository{db: db}
}

func (r *historyRepository) Create(ctx context.Context, entry *models.HistoryEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *historyRepository) ListByTender(ctx context.Context, tenderID uint) ([]models.HistoryEntry, error) {
	var entries []models.HistoryEntry
	err := r.db.WithContext(ctx).
		Where("tender_id = ?", tenderID).
		Order("created_at DESC, id DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}

	return entries, nil
}
