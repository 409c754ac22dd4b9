package models

import "time"

// Submission is a bidder's response to a tender. The composite unique index
// on (tender_id, bidder_id) guarantees at most one bid per bidder per tender
// even under concurrent submits.
type Submission struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	TenderID           uint       `gorm:"not null;uniqueIndex:idx_tender_bidder" json:"tender_id"`
	BidderID           uint       `gorm:"not null;uniqueIndex:idx_tender_bidder" json:"bidder_id"`
	Amount             float64    `gorm:"not null" json:"amount"`
	Notes              string     `gorm:"type:text" json:"notes"`
	DeliveryTime       string     `gorm:"size:255" json:"delivery_time"`
	Warranty           string     `gorm:"size:255" json:"warranty"`
	TotalScore         *float64   `json:"total_score"`
	EvaluationComments string     `gorm:"type:text" json:"evaluation_comments"`
	EvaluatedBy        *uint      `json:"evaluated_by"`
	EvaluatedAt        *time.Time `json:"evaluated_at"`
	Status             string     `gorm:"size:32;not null" json:"status"`
	CreatedAt          time.Time  `json:"created_at"`

	Scores []Score `json:"scores,omitempty"`
}

const (
	// SubmissionStatusSubmitted indicates the bid has been received but not scored.
	SubmissionStatusSubmitted = "submitted"
	// SubmissionStatusEvaluated indicates the bid has been scored.
	SubmissionStatusEvaluated = "evaluated"
)

// IsEvaluated reports whether the submission carries a recorded evaluation.
func (s Submission) IsEvaluated() bool {
	return s.Status == SubmissionStatusEvaluated
}
