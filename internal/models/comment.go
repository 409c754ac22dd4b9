package models

import "time"

// Comment is an append-only remark on a tender, displayed oldest first.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TenderID  uint      `gorm:"not null;index" json:"tender_id"`
	AuthorID  uint      `gorm:"not null" json:"author_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
