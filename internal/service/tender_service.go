package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/josias65/gestion-api/internal/dto"
	"github.com/josias65/gestion-api/internal/models"
	"github.com/josias65/gestion-api/internal/repository"
)

const defaultPageSize = 10

// TenderService orchestrates the tender lifecycle: creation, partial
// updates, listings, detail aggregation and comments. Every mutation appends
// exactly one history entry before returning.
type TenderService interface {
	Create(ctx context.Context, payload dto.TenderCreateRequest, actorID uint) (dto.TenderResponse, error)
	Update(ctx context.Context, id uint, payload dto.TenderUpdateRequest, actorID uint) (dto.TenderResponse, error)
	Get(ctx context.Context, id uint) (dto.TenderDetailResponse, error)
	List(ctx context.Context, req dto.TenderListRequest) (dto.TenderListResponse, error)
	AddComment(ctx context.Context, tenderID uint, payload dto.CommentCreateRequest, actorID uint) (dto.CommentResponse, error)
}

type tenderService struct {
	tenders   repository.TenderRepository
	criteria  repository.CriterionRepository
	comments  repository.CommentRepository
	history   HistoryRecorder
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	now       func() time.Time
}

// NewTenderService constructs a TenderService instance.
func NewTenderService(tenders repository.TenderRepository, criteria repository.CriterionRepository, comments repository.CommentRepository, history HistoryRecorder, validate *validator.Validate, logger zerolog.Logger) TenderService {
	return &tenderService{
		tenders:   tenders,
		criteria:  criteria,
		comments:  comments,
		history:   history,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "tender_service").Logger(),
		now:       time.Now,
	}
}

func (s *tenderService) Create(ctx context.Context, payload dto.TenderCreateRequest, actorID uint) (dto.TenderResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TenderResponse{}, err
	}

	deadline, err := parseOptionalDate(payload.Deadline)
	if err != nil {
		return dto.TenderResponse{}, ErrInvalidDeadline
	}

	urgency := payload.Urgency
	if urgency == "" {
		urgency = models.TenderUrgencyNormal
	}

	tender := models.Tender{
		Title:       strings.TrimSpace(payload.Title),
		Description: payload.Description,
		Deadline:    deadline,
		Budget:      payload.Budget,
		Category:    payload.Category,
		Location:    payload.Location,
		Urgency:     urgency,
		Status:      models.TenderStatusOpen,
		CreatedBy:   actorID,
	}

	if err := s.tenders.Create(ctx, &tender); err != nil {
		return dto.TenderResponse{}, err
	}

	if len(payload.Criteria) > 0 {
		criteria := make([]models.Criterion, 0, len(payload.Criteria))
		for _, criterion := range payload.Criteria {
			criteria = append(criteria, models.Criterion{
				TenderID:    tender.ID,
				Name:        criterion.Name,
				Description: criterion.Description,
				Weight:      criterion.Weight,
			})
		}
		if err := s.criteria.CreateBatch(ctx, criteria); err != nil {
			return dto.TenderResponse{}, err
		}
	}

	if err := s.history.Record(ctx, AuditEvent{
		TenderID: tender.ID,
		Action:   models.HistoryActionCreated,
		Details:  "Tender created",
		ActorID:  actorID,
	}); err != nil {
		return dto.TenderResponse{}, err
	}

	s.logger.Info().Uint("tender_id", tender.ID).Msg("tender created")

	return dto.NewTenderResponse(tender), nil
}

func (s *tenderService) Update(ctx context.Context, id uint, payload dto.TenderUpdateRequest, actorID uint) (dto.TenderResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TenderResponse{}, err
	}

	existing, err := s.tenders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TenderResponse{}, ErrTenderNotFound
		}
		return dto.TenderResponse{}, err
	}

	fields := map[string]interface{}{}
	diffs := make([]string, 0, 8)
	changes := map[string]interface{}{}

	record := func(name string, oldValue, newValue interface{}) {
		fields[name] = newValue
		diffs = append(diffs, fmt.Sprintf("%s: %s → %s", name, formatFieldValue(oldValue), formatFieldValue(newValue)))
		changes[name] = map[string]interface{}{"old": oldValue, "new": newValue}
	}

	if payload.Title != nil {
		record("title", existing.Title, strings.TrimSpace(*payload.Title))
	}
	if payload.Description != nil {
		record("description", existing.Description, *payload.Description)
	}
	if payload.Deadline != nil {
		deadline, err := parseOptionalDate(*payload.Deadline)
		if err != nil {
			return dto.TenderResponse{}, ErrInvalidDeadline
		}
		record("deadline", existing.Deadline, deadline)
	}
	if payload.Budget != nil {
		record("budget", existing.Budget, *payload.Budget)
	}
	if payload.Category != nil {
		record("category", existing.Category, *payload.Category)
	}
	if payload.Location != nil {
		record("location", existing.Location, *payload.Location)
	}
	if payload.Urgency != nil {
		record("urgency", existing.Urgency, *payload.Urgency)
	}
	if payload.Status != nil {
		// Transitions between recognized statuses are not restricted here.
		record("status", existing.Status, *payload.Status)
	}

	if len(fields) == 0 {
		return dto.TenderResponse{}, ErrNoUpdateFields
	}

	if err := s.tenders.UpdateFields(ctx, id, fields); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TenderResponse{}, ErrTenderNotFound
		}
		return dto.TenderResponse{}, err
	}

	if err := s.history.Record(ctx, AuditEvent{
		TenderID: id,
		Action:   models.HistoryActionUpdated,
		Details:  strings.Join(diffs, ", "),
		Changes:  changes,
		ActorID:  actorID,
	}); err != nil {
		return dto.TenderResponse{}, err
	}

	updated, err := s.tenders.GetByID(ctx, id)
	if err != nil {
		return dto.TenderResponse{}, err
	}

	s.logger.Info().Uint("tender_id", id).Msg("tender updated")

	return dto.NewTenderResponse(updated), nil
}

func (s *tenderService) Get(ctx context.Context, id uint) (dto.TenderDetailResponse, error) {
	tender, err := s.tenders.GetDetailed(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TenderDetailResponse{}, ErrTenderNotFound
		}
		return dto.TenderDetailResponse{}, err
	}

	detail := dto.TenderDetailResponse{
		TenderResponse: dto.NewTenderResponse(tender),
		Criteria:       tender.Criteria,
		Submissions:    dto.NewSubmissionResponseSlice(tender.Submissions),
		Documents:      dto.NewDocumentResponseSlice(tender.Documents),
		Comments:       dto.NewCommentResponseSlice(tender.Comments),
		History:        dto.NewHistoryResponseSlice(tender.History),
		Stats:          buildSubmissionStats(tender.Submissions),
	}

	return detail, nil
}

func (s *tenderService) List(ctx context.Context, req dto.TenderListRequest) (dto.TenderListResponse, error) {
	page := req.Page
	if page <= 0 {
		page = 1
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}

	deadlineFrom, err := parseOptionalDate(req.DateFrom)
	if err != nil {
		return dto.TenderListResponse{}, ErrInvalidDeadline
	}
	deadlineTo, err := parseOptionalDate(req.DateTo)
	if err != nil {
		return dto.TenderListResponse{}, ErrInvalidDeadline
	}

	filter := repository.TenderFilter{
		Status:       req.Status,
		Category:     req.Category,
		Search:       req.Search,
		DeadlineFrom: deadlineFrom,
		DeadlineTo:   deadlineTo,
		BudgetMin:    req.BudgetMin,
		BudgetMax:    req.BudgetMax,
		SortBy:       req.SortBy,
		SortOrder:    req.SortOrder,
		Page:         page,
		PageSize:     limit,
	}

	tenders, total, err := s.tenders.List(ctx, filter)
	if err != nil {
		return dto.TenderListResponse{}, err
	}

	ids := make([]uint, 0, len(tenders))
	for _, tender := range tenders {
		ids = append(ids, tender.ID)
	}

	aggregates, err := s.tenders.SubmissionAggregates(ctx, ids)
	if err != nil {
		return dto.TenderListResponse{}, err
	}

	items := make([]dto.TenderResponse, 0, len(tenders))
	for _, tender := range tenders {
		item := dto.NewTenderResponse(tender)
		if aggregate, ok := aggregates[tender.ID]; ok {
			item.SubmissionAggregate = dto.SubmissionAggregate{
				SubmissionsCount: aggregate.SubmissionsCount,
				MinAmount:        aggregate.MinAmount,
				MaxAmount:        aggregate.MaxAmount,
				AvgAmount:        aggregate.AvgAmount,
			}
		}
		items = append(items, item)
	}

	return dto.TenderListResponse{
		Items: items,
		Pagination: dto.PaginationMeta{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: int(math.Ceil(float64(total) / float64(limit))),
		},
		Filters: dto.TenderListFilters{
			Status:    req.Status,
			Category:  req.Category,
			Search:    req.Search,
			DateFrom:  req.DateFrom,
			DateTo:    req.DateTo,
			BudgetMin: req.BudgetMin,
			BudgetMax: req.BudgetMax,
		},
	}, nil
}

func (s *tenderService) AddComment(ctx context.Context, tenderID uint, payload dto.CommentCreateRequest, actorID uint) (dto.CommentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CommentResponse{}, err
	}

	content := strings.TrimSpace(s.sanitizer.Sanitize(payload.Content))
	if content == "" {
		return dto.CommentResponse{}, ErrEmptyComment
	}

	if _, err := s.tenders.GetByID(ctx, tenderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CommentResponse{}, ErrTenderNotFound
		}
		return dto.CommentResponse{}, err
	}

	comment := models.Comment{
		TenderID: tenderID,
		AuthorID: actorID,
		Content:  content,
	}

	if err := s.comments.Create(ctx, &comment); err != nil {
		return dto.CommentResponse{}, err
	}

	if err := s.history.Record(ctx, AuditEvent{
		TenderID: tenderID,
		Action:   models.HistoryActionCommentAdded,
		Details:  "Comment added",
		ActorID:  actorID,
	}); err != nil {
		return dto.CommentResponse{}, err
	}

	return dto.NewCommentResponse(comment), nil
}

func buildSubmissionStats(submissions []models.Submission) dto.SubmissionStats {
	stats := dto.SubmissionStats{TotalSubmissions: len(submissions)}
	if len(submissions) == 0 {
		return stats
	}

	var sum float64
	stats.MinAmount = submissions[0].Amount
	stats.MaxAmount = submissions[0].Amount
	for _, submission := range submissions {
		sum += submission.Amount
		if submission.Amount < stats.MinAmount {
			stats.MinAmount = submission.Amount
		}
		if submission.Amount > stats.MaxAmount {
			stats.MaxAmount = submission.Amount
		}
	}
	stats.AvgAmount = sum / float64(len(submissions))

	return stats
}

func formatFieldValue(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case *float64:
		if v == nil {
			return ""
		}
		return fmt.Sprintf("%g", *v)
	case *time.Time:
		if v == nil {
			return ""
		}
		return v.Format("2006-01-02")
	case float64:
		return fmt.Sprintf("%g", v)
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

// parseOptionalDate accepts RFC3339 timestamps or plain dates. Empty input
// yields a nil time without error.
func parseOptionalDate(value string) (*time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}

	if parsed, err := time.Parse(time.RFC3339, trimmed); err == nil {
		return &parsed, nil
	}

	parsed, err := time.Parse("2006-01-02", trimmed)
	if err != nil {
		return nil, err
	}

	return &parsed, nil
}
