package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/makerworks/safetytraining/backend/internal/domain/entities"
	"github.com/makerworks/safetytraining/backend/internal/domain/repositories"
	apperrors "github.com/makerworks/safetytraining/backend/pkg/errors"
)

type stubExtractor struct {
	text string
	err  error
}

func (s *stubExtractor) ExtractText(ctx context.Context, url string) (string, error) {
	return s.text, s.err
}

type stubEquipmentRepo struct {
	equipment *entities.Equipment
	err       error
}

func (s *stubEquipmentRepo) GetByID(ctx context.Context, id string) (*entities.Equipment, error) {
	return s.equipment, s.err
}

func (s *stubEquipmentRepo) List(ctx context.Context, limit, offset int) ([]*entities.Equipment, error) {
	return nil, nil
}

type stubProcedureRepo struct {
	procedure *entities.Procedure
	err       error
}

func (s *stubProcedureRepo) GetByID(ctx context.Context, id string) (*entities.Procedure, error) {
	return s.procedure, s.err
}

func (s *stubProcedureRepo) List(ctx context.Context, filter repositories.ProcedureFilter) ([]*entities.Procedure, error) {
	return nil, nil
}

func TestResolveManualURLFirst(t *testing.T) {
	resolver := NewContentResolverService(
		&stubExtractor{text: "manual text"},
		&stubEquipmentRepo{equipment: &entities.Equipment{Name: "Bandsaw"}},
		&stubProcedureRepo{},
	)

	text, err := resolver.Resolve(context.Background(), ContentRequest{
		ManualURL:   "https://example.com/manual.pdf",
		EquipmentID: "eq-1",
	})

	require.NoError(t, err)
	assert.Equal(t, "manual text", text)
}

func TestResolveFallsBackToEquipment(t *testing.T) {
	resolver := NewContentResolverService(
		&stubExtractor{err: errors.New("fetch failed")},
		&stubEquipmentRepo{equipment: &entities.Equipment{
			Name:        "Bandsaw",
			Description: "Vertical bandsaw for wood",
			Specifications: map[string]string{
				"max_depth": "150mm",
				"blade":     "6mm",
			},
		}},
		&stubProcedureRepo{},
	)

	text, err := resolver.Resolve(context.Background(), ContentRequest{
		ManualURL:   "https://example.com/broken",
		EquipmentID: "eq-1",
		Title:       "Bandsaw",
	})

	require.NoError(t, err)
	assert.Equal(t, "Bandsaw\nVertical bandsaw for wood\nblade: 6mm\nmax_depth: 150mm", text)
}

func TestResolveFallsBackToProcedure(t *testing.T) {
	resolver := NewContentResolverService(
		&stubExtractor{err: errors.New("fetch failed")},
		&stubEquipmentRepo{err: errors.New("not found")},
		&stubProcedureRepo{procedure: &entities.Procedure{
			Name:        "Lockout tagout",
			Description: "Isolate energy sources before maintenance",
		}},
	)

	text, err := resolver.Resolve(context.Background(), ContentRequest{
		ManualURL:   "https://example.com/broken",
		EquipmentID: "eq-1",
		ProcedureID: "proc-1",
	})

	require.NoError(t, err)
	assert.Equal(t, "Lockout tagout\nIsolate energy sources before maintenance", text)
}

func TestResolveAllTiersFail(t *testing.T) {
	resolver := NewContentResolverService(
		&stubExtractor{err: errors.New("fetch failed")},
		&stubEquipmentRepo{err: errors.New("db down")},
		&stubProcedureRepo{err: errors.New("db down")},
	)

	_, err := resolver.Resolve(context.Background(), ContentRequest{
		ManualURL:   "https://example.com/broken",
		EquipmentID: "eq-1",
		ProcedureID: "proc-1",
		Title:       "Bandsaw",
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeContentUnresolved))
	assert.Contains(t, err.Error(), "Bandsaw")
}

func TestResolveSkipsUnsetIdentifiers(t *testing.T) {
	resolver := NewContentResolverService(
		&stubExtractor{text: "never called"},
		&stubEquipmentRepo{err: errors.New("should not be called")},
		&stubProcedureRepo{procedure: &entities.Procedure{Name: "Fire drill"}},
	)

	text, err := resolver.Resolve(context.Background(), ContentRequest{
		ProcedureID: "proc-1",
	})

	require.NoError(t, err)
	assert.Equal(t, "Fire drill", text)
}
