package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/josias65/gestion-api/internal/models"
)

// TenderFilter describes the dynamic predicate set for tender listings.
// Every field is optional; zero values add no predicate.
type TenderFilter struct {
	Status       string
	Category     string
	Search       string
	DeadlineFrom *time.Time
	DeadlineTo   *time.Time
	BudgetMin    *float64
	BudgetMax    *float64
	SortBy       string
	SortOrder    string
	Page         int
	PageSize     int
}

// SubmissionAggregate summarizes the bids received on one tender.
type SubmissionAggregate struct {
	TenderID         uint
	SubmissionsCount int64
	MinAmount        float64
	MaxAmount        float64
	AvgAmount        float64
}

// TenderRepository defines persistence operations for tenders.
type TenderRepository interface {
	List(ctx context.Context, filter TenderFilter) ([]models.Tender, int64, error)
	GetByID(ctx context.Context, id uint) (models.Tender, error)
	GetDetailed(ctx context.Context, id uint) (models.Tender, error)
	Create(ctx context.Context, tender *models.Tender) error
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error
	SubmissionAggregates(ctx context.Context, tenderIDs []uint) (map[uint]SubmissionAggregate, error)
}

type tenderRepository struct {
	db *gorm.DB
}

// NewTenderRepository instantiates a GORM-backed repository.
func NewTenderRepository(db *gorm.DB) TenderRepository {
	return &tenderRepository{db: db}
}

func (r *tenderRepository) List(ctx context.Context, filter TenderFilter) ([]models.Tender, int64, error) {
	query := applyTenderFilter(r.db.WithContext(ctx).Model(&models.Tender{}), filter)

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order(normalizeTenderSort(filter.SortBy, filter.SortOrder))

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		offset := (page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var tenders []models.Tender
	if err := query.Find(&tenders).Error; err != nil {
		return nil, 0, err
	}

	return tenders, total, nil
}

func applyTenderFilter(query *gorm.DB, filter TenderFilter) *gorm.DB {
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}

	if filter.Search != "" {
		pattern := "%" + strings.ToLower(strings.TrimSpace(filter.Search)) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}

	if filter.DeadlineFrom != nil {
		query = query.Where("deadline >= ?", *filter.DeadlineFrom)
	}

	if filter.DeadlineTo != nil {
		query = query.Where("deadline <= ?", *filter.DeadlineTo)
	}

	if filter.BudgetMin != nil {
		query = query.Where("budget >= ?", *filter.BudgetMin)
	}

	if filter.BudgetMax != nil {
		query = query.Where("budget <= ?", *filter.BudgetMax)
	}

	return query
}

// normalizeTenderSort restricts ordering to the allowlisted columns. Unknown
// fields fall back to created_at, unknown orders to DESC.
func normalizeTenderSort(sortBy, sortOrder string) string {
	field := strings.ToLower(strings.TrimSpace(sortBy))
	switch field {
	case "created_at", "deadline", "budget", "title", "status":
	default:
		field = "created_at"
	}

	order := strings.ToUpper(strings.TrimSpace(sortOrder))
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}

	return field + " " + order
}

func (r *tenderRepository) GetByID(ctx context.Context, id uint) (models.Tender, error) {
	var tender models.Tender
	if err := r.db.WithContext(ctx).First(&tender, id).Error; err != nil {
		return models.Tender{}, err
	}

	return tender, nil
}

func (r *tenderRepository) GetDetailed(ctx context.Context, id uint) (models.Tender, error) {
	var tender models.Tender
	err := r.db.WithContext(ctx).
		Preload("Criteria", func(db *gorm.DB) *gorm.DB {
			return db.Order("weight DESC")
		}).
		Preload("Submissions", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Preload("Documents", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("History", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC, id DESC")
		}).
		First(&tender, id).Error
	if err != nil {
		return models.Tender{}, err
	}

	return tender, nil
}

func (r *tenderRepository) Create(ctx context.Context, tender *models.Tender) error {
	return r.db.WithContext(ctx).Create(tender).Error
}

func (r *tenderRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.Tender{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *tenderRepository) SubmissionAggregates(ctx context.Context, tenderIDs []uint) (map[uint]SubmissionAggregate, error) {
	aggregates := make(map[uint]SubmissionAggregate, len(tenderIDs))
	if len(tenderIDs) == 0 {
		return aggregates, nil
	}

	var rows []SubmissionAggregate
	err := r.db.WithContext(ctx).
		Model(&models.Submission{}).
		Select("tender_id, COUNT(*) as submissions_count, COALESCE(MIN(amount), 0) as min_amount, COALESCE(MAX(amount), 0) as max_amount, COALESCE(AVG(amount), 0) as avg_amount").
		Where("tender_id IN ?", tenderIDs).
		Group("tender_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		aggregates[row.TenderID] = row
	}

	return aggregates, nil
}
