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

// CachedEquipmentAdapter wraps EquipmentAdapter with caching
type CachedEquipmentAdapter struct {
	adapter repositories.EquipmentRepository
	cache   providers.CacheProvider
}

// NewCachedEquipmentAdapter creates a new cached equipment adapter
func NewCachedEquipmentAdapter(adapter repositories.EquipmentRepository, cache providers.CacheProvider) repositories.EquipmentRepository {
	return &CachedEquipmentAdapter{
		adapter: adapter,
		cache:   cache,
	}
}

// Cache TTLs (in seconds)
const (
	equipmentByIDTTL = 300 // 5 minutes for single record
	equipmentListTTL = 180 // 3 minutes for lists
)

func equipmentCacheKey(id string) string {
	return fmt.Sprintf("equipment:%s", id)
}

func equipmentListCacheKey(limit, offset int) string {
	return fmt.Sprintf("equipment:list:%d:%d", limit, offset)
}

// GetByID retrieves an equipment record by ID with caching
func (a *CachedEquipmentAdapter) GetByID(ctx context.Context, id string) (*entities.Equipment, error) {
	cacheKey := equipmentCacheKey(id)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var equipment entities.Equipment
		if err := json.Unmarshal(cached, &equipment); err == nil {
			return &equipment, nil
		}
		log.Warn().Str("equipment_id", id).Msg("failed to unmarshal cached equipment")
	}

	equipment, err := a.adapter.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Update cache asynchronously to avoid blocking the response
	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(equipment); err == nil {
			if err := a.cache.Set(bgCtx, cacheKey, data, equipmentByIDTTL); err != nil {
				log.Warn().Err(err).Str("equipment_id", id).Msg("failed to cache equipment")
			}
		}
	}()

	return equipment, nil
}

// List retrieves equipment records with caching
func (a *CachedEquipmentAdapter) List(ctx context.Context, limit, offset int) ([]*entities.Equipment, error) {
	cacheKey := equipmentListCacheKey(limit, offset)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var records []*entities.Equipment
		if err := json.Unmarshal(cached, &records); err == nil {
			return records, nil
		}
	}

	records, err := a.adapter.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(records); err == nil {
			if err := a.cache.Set(bgCtx, cacheKey, data, equipmentListTTL); err != nil {
				log.Warn().Err(err).Msg("failed to cache equipment list")
			}
		}
	}()

	return records, nil
}
