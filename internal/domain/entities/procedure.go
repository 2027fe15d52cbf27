package entities

import (
	"time"

	"github.com/lib/pq"
)

// Procedure represents a safety procedure users must train on
type Procedure struct {
	ID               string         `json:"id" db:"id"`
	Name             string         `json:"name" db:"name"`
	Description      string         `json:"description" db:"description"`
	ManualURL        string         `json:"manual_url" db:"manual_url"`
	ManualType       string         `json:"manual_type" db:"manual_type"`
	RequiredForRoles pq.StringArray `json:"required_for_roles" db:"required_for_roles"`
	Frequency        string         `json:"frequency" db:"frequency"` // once, yearly, quarterly
	CreatedAt        time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at" db:"updated_at"`
}
