package dto

import (
	"time"

	"github.com/josias65/gestion-api/internal/models"
)

// CommentCreateRequest describes a remark appended to a tender.
type CommentCreateRequest struct {
	Content string `json:"content" validate:"required"`
}

// CommentResponse is the serialized representation returned to API clients.
type CommentResponse struct {
	ID        uint      `json:"id"`
	TenderID  uint      `json:"tender_id"`
	AuthorID  uint      `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// NewCommentResponse converts a model into a DTO.
func NewCommentResponse(model models.Comment) CommentResponse {
	return CommentResponse{
		ID:        model.ID,
		TenderID:  model.TenderID,
		AuthorID:  model.AuthorID,
		Content:   model.Content,
		CreatedAt: model.CreatedAt,
	}
}

// NewCommentResponseSlice converts a slice of models into DTOs.
func NewCommentResponseSlice(comments []models.Comment) []CommentResponse {
	responses := make([]CommentResponse, 0, len(comments))
	for _, comment := range comments {
		responses = append(responses, NewCommentResponse(comment))
	}

	return responses
}
