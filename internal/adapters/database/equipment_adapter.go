package database

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/doug-martin/goqu/v9"

	"github.com/makerworks/safetytraining/backend/internal/domain/entities"
	"github.com/makerworks/safetytraining/backend/internal/domain/repositories"
	"github.com/makerworks/safetytraining/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/makerworks/safetytraining/backend/pkg/errors"
)

// EquipmentAdapter implements EquipmentRepository
type EquipmentAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewEquipmentAdapter creates a new equipment adapter
func NewEquipmentAdapter(client *postgres.Client) repositories.EquipmentRepository {
	return &EquipmentAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var equipmentColumns = []interface{}{
	"id", "name", "description", "specifications", "manual_url", "created_at", "updated_at",
}

// GetByID retrieves an equipment record by ID
func (a *EquipmentAdapter) GetByID(ctx context.Context, id string) (*entities.Equipment, error) {
	query, args, err := a.db.Select(equipmentColumns...).
		From("equipment").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	equipment := &entities.Equipment{}
	err = a.scanEquipment(a.client.DB().QueryRowContext(ctx, query, args...).Scan, equipment)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError("equipment not found")
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get equipment", err)
	}
	return equipment, nil
}

// List retrieves equipment records with pagination
func (a *EquipmentAdapter) List(ctx context.Context, limit, offset int) ([]*entities.Equipment, error) {
	ds := a.db.Select(equipmentColumns...).From("equipment").Order(goqu.I("name").Asc())
	if limit > 0 {
		ds = ds.Limit(uint(limit))
	}
	if offset > 0 {
		ds = ds.Offset(uint(offset))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list equipment", err)
	}
	defer rows.Close()

	var records []*entities.Equipment
	for rows.Next() {
		equipment := &entities.Equipment{}
		if err := a.scanEquipment(rows.Scan, equipment); err != nil {
			return nil, apperrors.NewInternalError("failed to scan equipment", err)
		}
		records = append(records, equipment)
	}
	return records, nil
}

func (a *EquipmentAdapter) scanEquipment(scan func(dest ...interface{}) error, equipment *entities.Equipment) error {
	var description, manualURL sql.NullString
	var specifications []byte
	err := scan(
		&equipment.ID,
		&equipment.Name,
		&description,
		&specifications,
		&manualURL,
		&equipment.CreatedAt,
		&equipment.UpdatedAt,
	)
	if err != nil {
		return err
	}
	equipment.Description = description.String
	equipment.ManualURL = manualURL.String
	if len(specifications) > 0 {
		if err := json.Unmarshal(specifications, &equipment.Specifications); err != nil {
			return err
		}
	}
	return nil
}
