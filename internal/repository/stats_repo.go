package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/josias65/gestion-api/internal/models"
)

// StatsWindow optionally bounds statistics queries by tender creation time.
type StatsWindow struct {
	From *time.Time
	To   *time.Time
}

// StatusTally counts tenders per status.
type StatusTally struct {
	Status string
	Count  int64
}

// CategoryTally counts tenders per category.
type CategoryTally struct {
	Category string
	Count    int64
}

// BudgetAggregates holds budget totals across the window. Zero-valued when
// no tender matches.
type BudgetAggregates struct {
	TotalBudget float64
	AvgBudget   float64
	MinBudget   float64
	MaxBudget   float64
}

// SubmissionWindowAggregates holds bid amount totals across the window.
type SubmissionWindowAggregates struct {
	TotalSubmissions int64
	AvgAmount        float64
	MinAmount        float64
	MaxAmount        float64
}

// BidderTally ranks a bidder by submission count.
type BidderTally struct {
	BidderID         uint
	SubmissionsCount int64
}

// ExportRow flattens one tender with its submission aggregates for export.
type ExportRow struct {
	ID                  uint
	Title               string
	Description         string
	Budget              *float64
	Status              string
	Category            string
	Deadline            *time.Time
	CreatedAt           time.Time
	SubmissionsCount    int64
	AvgSubmissionAmount float64
}

// TenderStatsRepository supplies the aggregate queries behind the statistics
// and export endpoints.
type TenderStatsRepository interface {
	CountTenders(ctx context.Context, window StatsWindow) (int64, error)
	CountByStatus(ctx context.Context, window StatsWindow) ([]StatusTally, error)
	CountByCategory(ctx context.Context, window StatsWindow) ([]CategoryTally, error)
	BudgetAggregates(ctx context.Context, window StatsWindow) (BudgetAggregates, error)
	SubmissionAggregates(ctx context.Context, window StatsWindow) (SubmissionWindowAggregates, error)
	TopBidders(ctx context.Context, window StatsWindow, limit int) ([]BidderTally, error)
	ListForExport(ctx context.Context, window StatsWindow) ([]ExportRow, error)
}

type tenderStatsRepository struct {
	db *gorm.DB
}

// NewTenderStatsRepository constructs the statistics repository.
func NewTenderStatsRepository(db *gorm.DB) TenderStatsRepository {
	return &tenderStatsRepository{db: db}
}

func applyWindow(query *gorm.DB, column string, window StatsWindow) *gorm.DB {
	if window.From != nil {
		query = query.Where(column+" >= ?", *window.From)
	}
	if window.To != nil {
		query = query.Where(column+" <= ?", *window.To)
	}
	return query
}

func (r *tenderStatsRepository) CountTenders(ctx context.Context, window StatsWindow) (int64, error) {
	var count int64
	query := applyWindow(r.db.WithContext(ctx).Model(&models.Tender{}), "created_at", window)
	err := query.Count(&count).Error
	return count, err
}

func (r *tenderStatsRepository) CountByStatus(ctx context.Context, window StatsWindow) ([]StatusTally, error) {
	var tallies []StatusTally
	query := applyWindow(r.db.WithContext(ctx).Model(&models.Tender{}), "created_at", window)
	err := query.
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&tallies).Error
	return tallies, err
}

func (r *tenderStatsRepository) CountByCategory(ctx context.Context, window StatsWindow) ([]CategoryTally, error) {
	var tallies []CategoryTally
	query := applyWindow(r.db.WithContext(ctx).Model(&models.Tender{}), "created_at", window)
	err := query.
		Select("category, COUNT(*) as count").
		Group("category").
		Scan(&tallies).Error
	return tallies, err
}

func (r *tenderStatsRepository) BudgetAggregates(ctx context.Context, window StatsWindow) (BudgetAggregates, error) {
	var aggregates BudgetAggregates
	query := applyWindow(r.db.WithContext(ctx).Model(&models.Tender{}), "created_at", window)
	err := query.
		Select("COALESCE(SUM(budget), 0) as total_budget, COALESCE(AVG(budget), 0) as avg_budget, COALESCE(MIN(budget), 0) as min_budget, COALESCE(MAX(budget), 0) as max_budget").
		Scan(&aggregates).Error
	return aggregates, err
}

func (r *tenderStatsRepository) SubmissionAggregates(ctx context.Context, window StatsWindow) (SubmissionWindowAggregates, error) {
	var aggregates SubmissionWindowAggregates
	query := r.db.WithContext(ctx).
		Model(&models.Submission{}).
		Joins("JOIN tenders ON tenders.id = submissions.tender_id")
	query = applyWindow(query, "tenders.created_at", window)
	err := query.
		Select("COUNT(*) as total_submissions, COALESCE(AVG(submissions.amount), 0) as avg_amount, COALESCE(MIN(submissions.amount), 0) as min_amount, COALESCE(MAX(submissions.amount), 0) as max_amount").
		Scan(&aggregates).Error
	return aggregates, err
}

func (r *tenderStatsRepository) TopBidders(ctx context.Context, window StatsWindow, limit int) ([]BidderTally, error) {
	if limit <= 0 {
		limit = 10
	}

	var tallies []BidderTally
	query := r.db.WithContext(ctx).
		Model(&models.Submission{}).
		Joins("JOIN tenders ON tenders.id = submissions.tender_id")
	query = applyWindow(query, "tenders.created_at", window)
	err := query.
		Select("submissions.bidder_id, COUNT(*) as submissions_count").
		Group("submissions.bidder_id").
		Order("submissions_count DESC").
		Limit(limit).
		Scan(&tallies).Error
	return tallies, err
}

func (r *tenderStatsRepository) ListForExport(ctx context.Context, window StatsWindow) ([]ExportRow, error) {
	var rows []ExportRow
	query := r.db.WithContext(ctx).
		Model(&models.Tender{}).
		Joins("LEFT JOIN submissions ON submissions.tender_id = tenders.id")
	query = applyWindow(query, "tenders.created_at", window)
	err := query.
		Select("tenders.id, tenders.title, tenders.description, tenders.budget, tenders.status, tenders.category, tenders.deadline, tenders.created_at, COUNT(submissions.id) as submissions_count, COALESCE(AVG(submissions.amount), 0) as avg_submission_amount").
		Group("tenders.id").
		Order("tenders.created_at DESC").
		Scan(&rows).Error
	return rows, err
}
