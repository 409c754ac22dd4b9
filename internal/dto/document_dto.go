package dto

import (
	"time"

	"github.com/josias65/gestion-api/internal/models"
)

// DocumentResponse is the serialized catalog entry of an attached file.
type DocumentResponse struct {
	ID           uint      `json:"id"`
	TenderID     uint      `json:"tender_id"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"original_name"`
	Size         int64     `json:"size"`
	MimeType     string    `json:"mime_type"`
	UploadedBy   uint      `json:"uploaded_by"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewDocumentResponse converts a model into a DTO.
func NewDocumentResponse(model models.Document) DocumentResponse {
	return DocumentResponse{
		ID:           model.ID,
		TenderID:     model.TenderID,
		Filename:     model.Filename,
		OriginalName: model.OriginalName,
		Size:         model.Size,
		MimeType:     model.MimeType,
		UploadedBy:   model.UploadedBy,
		CreatedAt:    model.CreatedAt,
	}
}

// NewDocumentResponseSlice converts a slice of models into DTOs.
func NewDocumentResponseSlice(documents []models.Document) []DocumentResponse {
	responses := make([]DocumentResponse, 0, len(documents))
	for _, document := range documents {
		responses = append(responses, NewDocumentResponse(document))
	}

	return responses
}
