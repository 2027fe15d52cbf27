package repositories

import (
	"context"

	"github.com/makerworks/safetytraining/backend/internal/domain/entities"
)

// ProcedureRepository defines the interface for safety procedure data operations
type ProcedureRepository interface {
	// GetByID retrieves a procedure by ID
	GetByID(ctx context.Context, id string) (*entities.Procedure, error)

	// List retrieves procedures with filters
	List(ctx context.Context, filter ProcedureFilter) ([]*entities.Procedure, error)
}

// ProcedureFilter defines filters for listing procedures
type ProcedureFilter struct {
	Role   string
	Limit  int
	Offset int
}
