package repositories

import (
	"context"

	"github.com/makerworks/safetytraining/backend/internal/domain/entities"
)

// EquipmentRepository defines the interface for equipment data operations
type EquipmentRepository interface {
	// GetByID retrieves an equipment record by ID
	GetByID(ctx context.Context, id string) (*entities.Equipment, error)

	// List retrieves equipment records with pagination
	List(ctx context.Context, limit, offset int) ([]*entities.Equipment, error)
}
