package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/makerworks/safetytraining/backend/internal/domain/entities"
	"github.com/makerworks/safetytraining/backend/internal/domain/providers"
	"github.com/makerworks/safetytraining/backend/internal/domain/repositories"
)

// CachedProcedureAdapter wraps ProcedureAdapter with caching
type CachedProcedureAdapter struct {
	adapter repositories.ProcedureRepository
	cache   providers.CacheProvider
}

// NewCachedProcedureAdapter creates a new cached procedure adapter
func NewCachedProcedureAdapter(adapter repositories.ProcedureRepository, cache providers.CacheProvider) repositories.ProcedureRepository {
	return &CachedProcedureAdapter{
		adapter: adapter,
		cache:   cache,
	}
}

// Cache TTLs (in seconds)
const (
	procedureByIDTTL  = 300 // 5 minutes for single procedure
	proceduresListTTL = 180 // 3 minutes for lists
)

func procedureCacheKey(id string) string {
	return fmt.Sprintf("procedure:%s", id)
}

func proceduresListCacheKey(filter repositories.ProcedureFilter) string {
	return fmt.Sprintf("procedures:list:%s:%d:%d", filter.Role, filter.Limit, filter.Offset)
}

// GetByID retrieves a procedure by ID with caching
func (a *CachedProcedureAdapter) GetByID(ctx context.Context, id string) (*entities.Procedure, error) {
	cacheKey := procedureCacheKey(id)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var procedure entities.Procedure
		if err := json.Unmarshal(cached, &procedure); err == nil {
			return &procedure, nil
		}
		log.Warn().Str("procedure_id", id).Msg("failed to unmarshal cached procedure")
	}

	procedure, err := a.adapter.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Update cache asynchronously to avoid blocking the response
	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(procedure); err == nil {
			if err := a.cache.Set(bgCtx, cacheKey, data, procedureByIDTTL); err != nil {
				log.Warn().Err(err).Str("procedure_id", id).Msg("failed to cache procedure")
			}
		}
	}()

	return procedure, nil
}

// List retrieves procedures with filters, with caching
func (a *CachedProcedureAdapter) List(ctx context.Context, filter repositories.ProcedureFilter) ([]*entities.Procedure, error) {
	cacheKey := proceduresListCacheKey(filter)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var procedures []*entities.Procedure
		if err := json.Unmarshal(cached, &procedures); err == nil {
			return procedures, nil
		}
	}

	procedures, err := a.adapter.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(procedures); err == nil {
			if err := a.cache.Set(bgCtx, cacheKey, data, proceduresListTTL); err != nil {
				log.Warn().Err(err).Msg("failed to cache procedure list")
			}
		}
	}()

	return procedures, nil
}
