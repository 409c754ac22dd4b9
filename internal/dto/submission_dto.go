package dto

import (
	"time"

	"github.com/josias65/gestion-api/internal/models"
)

// SubmissionCreateRequest describes a bid placed on an open tender.
type SubmissionCreateRequest struct {
	BidderID     uint    `json:"bidder_id" validate:"required,min=1"`
	Amount       float64 `json:"amount" validate:"gte=0"`
	Notes        string  `json:"notes"`
	DeliveryTime string  `json:"delivery_time"`
	Warranty     string  `json:"warranty"`
}

// ScorePayload rates one criterion during evaluation.
type ScorePayload struct {
	CriterionID uint    `json:"criterion_id" validate:"required,min=1"`
	Score       float64 `json:"score"`
	Comments    string  `json:"comments"`
}

// SubmissionEvaluateRequest carries the multi-criteria evaluation of a bid.
type SubmissionEvaluateRequest struct {
	Scores     []ScorePayload `json:"scores" validate:"omitempty,dive"`
	TotalScore float64        `json:"total_score" validate:"gte=0,lte=100"`
	Comments   string         `json:"comments"`
}

// SubmissionResponse is the serialized representation returned to API clients.
type SubmissionResponse struct {
	ID                 uint       `json:"id"`
	TenderID           uint       `json:"tender_id"`
	BidderID           uint       `json:"bidder_id"`
	Amount             float64    `json:"amount"`
	Notes              string     `json:"notes"`
	DeliveryTime       string     `json:"delivery_time"`
	Warranty           string     `json:"warranty"`
	TotalScore         *float64   `json:"total_score"`
	EvaluationComments string     `json:"evaluation_comments"`
	EvaluatedBy        *uint      `json:"evaluated_by"`
	EvaluatedAt        *time.Time `json:"evaluated_at"`
	Status             string     `json:"status"`
	CreatedAt          time.Time  `json:"created_at"`
}

// NewSubmissionResponse converts a model into a DTO.
func NewSubmissionResponse(model models.Submission) SubmissionResponse {
	return SubmissionResponse{
		ID:                 model.ID,
		TenderID:           model.TenderID,
		BidderID:           model.BidderID,
		Amount:             model.Amount,
		Notes:              model.Notes,
		DeliveryTime:       model.DeliveryTime,
		Warranty:           model.Warranty,
		TotalScore:         model.TotalScore,
		EvaluationComments: model.EvaluationComments,
		EvaluatedBy:        model.EvaluatedBy,
		EvaluatedAt:        model.EvaluatedAt,
		Status:             model.Status,
		CreatedAt:          model.CreatedAt,
	}
}

// NewSubmissionResponseSlice converts a slice of models into DTOs.
func NewSubmissionResponseSlice(submissions []models.Submission) []SubmissionResponse {
	responses := make([]SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, NewSubmissionResponse(submission))
	}

	return responses
}
