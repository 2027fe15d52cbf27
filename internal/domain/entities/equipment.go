package entities

import "time"

// Equipment represents a physical asset with an optional instruction manual
type Equipment struct {
	ID             string            `json:"id" db:"id"`
	Name           string            `json:"name" db:"name"`
	Description    string            `json:"description" db:"description"`
	Specifications map[string]string `json:"specifications" db:"specifications"` // opaque attributes, stored as JSONB
	ManualURL      string            `json:"manual_url" db:"manual_url"`
	CreatedAt      time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at" db:"updated_at"`
}
