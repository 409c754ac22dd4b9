package models

import "time"

// Document is a file attached to a tender. The blob lives in external
// storage; StoragePath is the locator the storage collaborator understands.
type Document struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	TenderID     uint      `gorm:"not null;index" json:"tender_id"`
	Filename     string    `gorm:"size:255;not null" json:"filename"`
	OriginalName string    `gorm:"size:255;not null" json:"original_name"`
	StoragePath  string    `gorm:"size:512;not null" json:"storage_path"`
	Size         int64     `gorm:"not null" json:"size"`
	MimeType     string    `gorm:"size:128" json:"mime_type"`
	UploadedBy   uint      `gorm:"not null" json:"uploaded_by"`
	CreatedAt    time.Time `json:"created_at"`
}
