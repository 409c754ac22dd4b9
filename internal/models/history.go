package models

import (
	"time"

	"gorm.io/datatypes"
)

// HistoryEntry is an immutable audit record of one mutation to a tender or
// its sub-resources. Details holds the display text; Changes optionally keeps
// structured before/after values for programmatic diffing.
type HistoryEntry struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	TenderID  uint              `gorm:"not null;index" json:"tender_id"`
	Action    string            `gorm:"size:64;not null" json:"action"`
	Details   string            `gorm:"type:text" json:"details"`
	Changes   datatypes.JSONMap `json:"changes,omitempty"`
	ActorID   uint              `gorm:"not null" json:"actor_id"`
	CreatedAt time.Time         `json:"created_at"`
}

const (
	HistoryActionCreated           = "created"
	HistoryActionUpdated           = "updated"
	HistoryActionDocumentsUploaded = "documents_uploaded"
	HistoryActionDocumentDeleted   = "document_deleted"
	HistoryActionCommentAdded      = "comment_added"
	HistoryActionSubmissionAdded   = "submission_added"
)
