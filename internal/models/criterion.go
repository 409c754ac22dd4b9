package models

import "time"

// Criterion is a weighted evaluation dimension attached to a tender.
// Weights conventionally sum to 100 across a tender's criteria; this is
// expected but not enforced.
type Criterion struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TenderID    uint      `gorm:"not null;index" json:"tender_id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Weight      int       `gorm:"not null" json:"weight"`
	CreatedAt   time.Time `json:"created_at"`
}
