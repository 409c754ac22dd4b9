package dto

import (
	"time"

	"github.com/josias65/gestion-api/internal/models"
)

// CriterionPayload describes one weighted evaluation criterion supplied at
// tender creation.
type CriterionPayload struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Weight      int    `json:"weight" validate:"gt=0"`
}

// TenderCreateRequest describes the payload for publishing a new tender.
type TenderCreateRequest struct {
	Title       string             `json:"title" validate:"required,min=2"`
	Description string             `json:"description"`
	Deadline    string             `json:"deadline"`
	Budget      *float64           `json:"budget" validate:"omitempty,gte=0"`
	Category    string             `json:"category"`
	Location    string             `json:"location"`
	Urgency     string             `json:"urgency" validate:"omitempty,oneof=low normal high urgent"`
	Criteria    []CriterionPayload `json:"criteria" validate:"omitempty,dive"`
}

// TenderUpdateRequest describes a partial update. Absent fields are left
// untouched; they are never reset.
type TenderUpdateRequest struct {
	Title       *string  `json:"title" validate:"omitempty,min=2"`
	Description *string  `json:"description"`
	Deadline    *string  `json:"deadline"`
	Budget      *float64 `json:"budget" validate:"omitempty,gte=0"`
	Category    *string  `json:"category"`
	Location    *string  `json:"location"`
	Urgency     *string  `json:"urgency" validate:"omitempty,oneof=low normal high urgent"`
	Status      *string  `json:"status" validate:"omitempty,oneof=open closed awarded cancelled"`
}

// TenderListRequest carries the query-string filters for the tender listing.
type TenderListRequest struct {
	Page      int      `query:"page"`
	Limit     int      `query:"limit"`
	Status    string   `query:"status"`
	Category  string   `query:"category"`
	Search    string   `query:"search"`
	SortBy    string   `query:"sortBy"`
	SortOrder string   `query:"sortOrder"`
	DateFrom  string   `query:"dateFrom"`
	DateTo    string   `query:"dateTo"`
	BudgetMin *float64 `query:"budgetMin"`
	BudgetMax *float64 `query:"budgetMax"`
}

// SubmissionAggregate summarizes the bids received on one tender.
type SubmissionAggregate struct {
	SubmissionsCount int64   `json:"submissions_count"`
	MinAmount        float64 `json:"min_amount"`
	MaxAmount        float64 `json:"max_amount"`
	AvgAmount        float64 `json:"avg_amount"`
}

// TenderResponse is the serialized representation returned to API clients.
type TenderResponse struct {
	ID          uint       `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Deadline    *time.Time `json:"deadline"`
	Budget      *float64   `json:"budget"`
	Category    string     `json:"category"`
	Location    string     `json:"location"`
	Urgency     string     `json:"urgency"`
	Status      string     `json:"status"`
	CreatedBy   uint       `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	SubmissionAggregate
}

// TenderListFilters echoes the filters that produced a listing.
type TenderListFilters struct {
	Status    string   `json:"status,omitempty"`
	Category  string   `json:"category,omitempty"`
	Search    string   `json:"search,omitempty"`
	DateFrom  string   `json:"date_from,omitempty"`
	DateTo    string   `json:"date_to,omitempty"`
	BudgetMin *float64 `json:"budget_min,omitempty"`
	BudgetMax *float64 `json:"budget_max,omitempty"`
}

// TenderListResponse bundles a page of tenders with pagination metadata.
type TenderListResponse struct {
	Items      []TenderResponse  `json:"items"`
	Pagination PaginationMeta    `json:"pagination"`
	Filters    TenderListFilters `json:"filters"`
}

// TenderDetailResponse is the full aggregate returned for a single tender.
type TenderDetailResponse struct {
	TenderResponse

	Criteria    []models.Criterion   `json:"criteria"`
	Submissions []SubmissionResponse `json:"submissions"`
	Documents   []DocumentResponse   `json:"documents"`
	Comments    []CommentResponse    `json:"comments"`
	History     []HistoryResponse    `json:"history"`
	Stats       SubmissionStats      `json:"stats"`
}

// SubmissionStats aggregates the bids of one tender for display.
type SubmissionStats struct {
	TotalSubmissions int     `json:"total_submissions"`
	MinAmount        float64 `json:"min_amount"`
	MaxAmount        float64 `json:"max_amount"`
	AvgAmount        float64 `json:"avg_amount"`
}

// NewTenderResponse converts a model into a DTO.
func NewTenderResponse(model models.Tender) TenderResponse {
	return TenderResponse{
		ID:          model.ID,
		Title:       model.Title,
		Description: model.Description,
		Deadline:    model.Deadline,
		Budget:      model.Budget,
		Category:    model.Category,
		Location:    model.Location,
		Urgency:     model.Urgency,
		Status:      model.Status,
		CreatedBy:   model.CreatedBy,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

// HistoryResponse is the serialized audit entry.
type HistoryResponse struct {
	ID        uint                   `json:"id"`
	TenderID  uint                   `json:"tender_id"`
	Action    string                 `json:"action"`
	Details   string                 `json:"details"`
	Changes   map[string]interface{} `json:"changes,omitempty"`
	ActorID   uint                   `json:"actor_id"`
	CreatedAt time.Time              `json:"created_at"`
}

// NewHistoryResponse converts a model into a DTO.
func NewHistoryResponse(model models.HistoryEntry) HistoryResponse {
	return HistoryResponse{
		ID:        model.ID,
		TenderID:  model.TenderID,
		Action:    model.Action,
		Details:   model.Details,
		Changes:   model.Changes,
		ActorID:   model.ActorID,
		CreatedAt: model.CreatedAt,
	}
}

// NewHistoryResponseSlice converts a slice of models into DTOs.
func NewHistoryResponseSlice(entries []models.HistoryEntry) []HistoryResponse {
	responses := make([]HistoryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, NewHistoryResponse(entry))
	}

	return responses
}
