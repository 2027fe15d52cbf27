package entities

import "time"

// AssessmentAttempt records that a user sat the mandatory safety assessment.
// The gate only checks existence; pass/fail outcome is not part of the requirement.
type AssessmentAttempt struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
