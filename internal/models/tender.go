package models

import "time"

// Tender represents a published request for bids.
type Tender struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Deadline    *time.Time `json:"deadline"`
	Budget      *float64   `json:"budget"`
	Category    string     `gorm:"size:128" json:"category"`
	Location    string     `gorm:"size:255" json:"location"`
	Urgency     string     `gorm:"size:16;not null;default:normal" json:"urgency"`
	Status      string     `gorm:"size:16;not null;default:open" json:"status"`
	CreatedBy   uint       `gorm:"not null" json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Criteria    []Criterion    `json:"criteria,omitempty"`
	Submissions []Submission   `json:"submissions,omitempty"`
	Documents   []Document     `json:"documents,omitempty"`
	Comments    []Comment      `json:"comments,omitempty"`
	History     []HistoryEntry `json:"history,omitempty"`
}

const (
	// TenderStatusOpen accepts new submissions.
	TenderStatusOpen = "open"
	// TenderStatusClosed no longer accepts submissions.
	TenderStatusClosed = "closed"
	// TenderStatusAwarded has been granted to a winning bidder.
	TenderStatusAwarded = "awarded"
	// TenderStatusCancelled was withdrawn before award.
	TenderStatusCancelled = "cancelled"
)

const (
	TenderUrgencyLow    = "low"
	TenderUrgencyNormal = "normal"
	TenderUrgencyHigh   = "high"
	TenderUrgencyUrgent = "urgent"
)

// IsOpen reports whether the tender still accepts submissions.
func (t Tender) IsOpen() bool {
	return t.Status == TenderStatusOpen
}
