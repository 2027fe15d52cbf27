package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/makerworks/safetytraining/backend/internal/domain/providers"
	"github.com/makerworks/safetytraining/backend/internal/domain/repositories"
	apperrors "github.com/makerworks/safetytraining/backend/pkg/errors"
)

// ContentRequest identifies the material a quiz should be grounded on.
// Any combination of fields may be set; resolution walks them in order.
type ContentRequest struct {
	ManualURL   string
	EquipmentID string
	ProcedureID string
	Title       string
}

// contentSource is one tier of the fallback chain
type contentSource struct {
	name    string
	attempt func(ctx context.Context, req ContentRequest) (string, error)
}

// ContentResolverService resolves the text a quiz is generated from, falling
// back from the manual document to structured record data
type ContentResolverService struct {
	extractor     providers.ContentProvider
	equipmentRepo repositories.EquipmentRepository
	procedureRepo repositories.ProcedureRepository
	sources       []contentSource
}

// NewContentResolverService creates a new content resolver service
func NewContentResolverService(
	extractor providers.ContentProvider,
	equipmentRepo repositories.EquipmentRepository,
	procedureRepo repositories.ProcedureRepository,
) *ContentResolverService {
	s := &ContentResolverService{
		extractor:     extractor,
		equipmentRepo: equipmentRepo,
		procedureRepo: procedureRepo,
	}
	s.sources = []contentSource{
		{name: "manual_url", attempt: s.fromManualURL},
		{name: "equipment_record", attempt: s.fromEquipment},
		{name: "procedure_record", attempt: s.fromProcedure},
	}
	return s
}

// Resolve walks the fallback chain and returns the first non-empty text.
// Per-tier failures are logged and swallowed; only full exhaustion is an error.
func (s *ContentResolverService) Resolve(ctx context.Context, req ContentRequest) (string, error) {
	for _, source := range s.sources {
		text, err := source.attempt(ctx, req)
		if err != nil {
			log.Warn().
				Err(err).
				Str("source", source.name).
				Str("title", req.Title).
				Msg("content source failed, trying next")
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		log.Debug().
			Str("source", source.name).
			Int("length", len(text)).
			Msg("content resolved")
		return text, nil
	}
	return "", apperrors.New(apperrors.ErrorTypeContentUnresolved,
		fmt.Sprintf("no content available for %q", req.Title), nil)
}

func (s *ContentResolverService) fromManualURL(ctx context.Context, req ContentRequest) (string, error) {
	if req.ManualURL == "" {
		return "", nil
	}
	return s.extractor.ExtractText(ctx, req.ManualURL)
}

func (s *ContentResolverService) fromEquipment(ctx context.Context, req ContentRequest) (string, error) {
	if req.EquipmentID == "" || s.equipmentRepo == nil {
		return "", nil
	}
	equipment, err := s.equipmentRepo.GetByID(ctx, req.EquipmentID)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(equipment.Name)
	if equipment.Description != "" {
		b.WriteString("\n")
		b.WriteString(equipment.Description)
	}
	// Deterministic order so repeated resolutions produce identical prompts
	keys := make([]string, 0, len(equipment.Specifications))
	for k := range equipment.Specifications {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString(fmt.Sprintf("\n%s: %s", k, equipment.Specifications[k]))
	}
	return b.String(), nil
}

func (s *ContentResolverService) fromProcedure(ctx context.Context, req ContentRequest) (string, error) {
	if req.ProcedureID == "" || s.procedureRepo == nil {
		return "", nil
	}
	procedure, err := s.procedureRepo.GetByID(ctx, req.ProcedureID)
	if err != nil {
		return "", err
	}
	if procedure.Description == "" {
		return procedure.Name, nil
	}
	return procedure.Name + "\n" + procedure.Description, nil
}
