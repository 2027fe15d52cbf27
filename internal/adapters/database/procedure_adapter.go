package database

import (
	"context"
	"database/sql"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/lib/pq"

	"github.com/makerworks/safetytraining/backend/internal/domain/entities"
	"github.com/makerworks/safetytraining/backend/internal/domain/repositories"
	"github.com/makerworks/safetytraining/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/makerworks/safetytraining/backend/pkg/errors"
)

// ProcedureAdapter implements ProcedureRepository
type ProcedureAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewProcedureAdapter creates a new procedure adapter
func NewProcedureAdapter(client *postgres.Client) repositories.ProcedureRepository {
	return &ProcedureAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var procedureColumns = []interface{}{
	"id", "name", "description", "manual_url", "manual_type",
	"required_for_roles", "frequency", "created_at", "updated_at",
}

// GetByID retrieves a procedure by ID
func (a *ProcedureAdapter) GetByID(ctx context.Context, id string) (*entities.Procedure, error) {
	query, args, err := a.db.Select(procedureColumns...).
		From("procedures").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	procedure := &entities.Procedure{}
	err = a.scanProcedure(a.client.DB().QueryRowContext(ctx, query, args...).Scan, procedure)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError("procedure not found")
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get procedure", err)
	}
	return procedure, nil
}

// List retrieves procedures with filters
func (a *ProcedureAdapter) List(ctx context.Context, filter repositories.ProcedureFilter) ([]*entities.Procedure, error) {
	ds := a.db.Select(procedureColumns...).From("procedures").Order(goqu.I("name").Asc())
	if filter.Role != "" {
		ds = ds.Where(goqu.L("? = ANY(required_for_roles)", filter.Role))
	}
	if filter.Limit > 0 {
		ds = ds.Limit(uint(filter.Limit))
	}
	if filter.Offset > 0 {
		ds = ds.Offset(uint(filter.Offset))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list procedures", err)
	}
	defer rows.Close()

	var procedures []*entities.Procedure
	for rows.Next() {
		procedure := &entities.Procedure{}
		if err := a.scanProcedure(rows.Scan, procedure); err != nil {
			return nil, apperrors.NewInternalError("failed to scan procedure", err)
		}
		procedures = append(procedures, procedure)
	}
	return procedures, nil
}

func (a *ProcedureAdapter) scanProcedure(scan func(dest ...interface{}) error, procedure *entities.Procedure) error {
	var description, manualURL, manualType sql.NullString
	err := scan(
		&procedure.ID,
		&procedure.Name,
		&description,
		&manualURL,
		&manualType,
		pq.Array(&procedure.RequiredForRoles),
		&procedure.Frequency,
		&procedure.CreatedAt,
		&procedure.UpdatedAt,
	)
	if err != nil {
		return err
	}
	procedure.Description = description.String
	procedure.ManualURL = manualURL.String
	procedure.ManualType = manualType.String
	return nil
}
