package domain

import "time"

// ComplaintRecord is the subset of a stored complaint the backfill
// processor reads. AIConfidence is zero until the complaint is classified.
type ComplaintRecord struct {
	ID           int64     `db:"id"            json:"id"`
	Title        string    `db:"title"         json:"title"`
	Description  string    `db:"description"   json:"description"`
	Category     string    `db:"category"      json:"category"`
	DepartmentID *int64    `db:"department_id" json:"department_id,omitempty"`
	Status       string    `db:"status"        json:"status"`
	AIConfidence float64   `db:"ai_confidence" json:"ai_confidence"`
	SubmittedAt  time.Time `db:"submitted_at"  json:"submitted_at"`
}

// Input returns the classifier input for the complaint.
func (c ComplaintRecord) Input() ClassificationInput {
	return ClassificationInput{Title: c.Title, Description: c.Description}
}
