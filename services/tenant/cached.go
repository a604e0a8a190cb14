package tenant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	salonRepo "salonbook/database/repository/salon"
	"salonbook/models"
	"salonbook/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// CachedTenantService wraps the upstream directory with an explicit TTL cache.
// The cache is injected and scoped to the service's lifetime; invalidation is
// an explicit call, not a side effect.
type CachedTenantService struct {
	Source Directory
	Cache  *redis.Client
	TTL    time.Duration
}

// NewCachedTenantService constructs the caching wrapper. A zero ttl falls
// back to the default tenant cache TTL.
func NewCachedTenantService(source Directory, cache *redis.Client, ttl time.Duration) *CachedTenantService {
	if ttl <= 0 {
		ttl = utils.TenantCacheTTL
	}
	return &CachedTenantService{Source: source, Cache: cache, TTL: ttl}
}

func cacheKey(salonID string) string {
	return utils.TenantCachePrefix + salonID
}

// GetSalon serves from cache when possible, otherwise fetches from the
// directory and caches the result. Directory failures surface as errors:
// they must never be mistaken for "salon inactive".
func (s *CachedTenantService) GetSalon(ctx context.Context, salonID string) (*models.Salon, error) {
	key := cacheKey(salonID)
	if raw, err := s.Cache.Get(ctx, key).Result(); err == nil {
		var salon models.Salon
		if err := json.Unmarshal([]byte(raw), &salon); err == nil {
			return &salon, nil
		}
		// Undecodable entry: drop it and refetch.
		s.Cache.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		utils.GetLogger().Warn("tenant cache read failed", zap.String("salonId", salonID), zap.Error(err))
	}

	salon, err := s.Source.FetchSalon(ctx, salonID)
	if err != nil {
		if errors.Is(err, salonRepo.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("tenant directory fetch failed for %s: %w", salonID, err)
	}

	if data, err := json.Marshal(salon); err == nil {
		if err := s.Cache.Set(ctx, key, data, s.TTL).Err(); err != nil {
			utils.GetLogger().Warn("tenant cache write failed", zap.String("salonId", salonID), zap.Error(err))
		}
	}
	return salon, nil
}

// Invalidate drops the cached salon record.
func (s *CachedTenantService) Invalidate(ctx context.Context, salonID string) error {
	if err := s.Cache.Del(ctx, cacheKey(salonID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate tenant cache for %s: %w", salonID, err)
	}
	return nil
}
