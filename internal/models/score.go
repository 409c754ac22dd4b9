package models

// Score rates one submission against one evaluation criterion.
type Score struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	SubmissionID uint    `gorm:"not null;index" json:"submission_id"`
	CriterionID  uint    `gorm:"not null" json:"criterion_id"`
	Score        float64 `gorm:"not null" json:"score"`
	Comments     string  `gorm:"type:text" json:"comments"`
}
