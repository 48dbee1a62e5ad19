package rates

import (
	"context"
	"log"
	"time"
)

// Cache is the subset of the redis cache service used for rate tables.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	GenerateKey(entityType, keyType string, value interface{}) string
}

// CachedSource serves tables from Cache and refreshes them from upstream on a miss.
// Cache failures never fail a lookup.
type CachedSource struct {
	upstream Source
	cache    Cache
	ttl      time.Duration
}

func NewCachedSource(upstream Source, cache Cache, ttl time.Duration) *CachedSource {
	return &CachedSource{upstream: upstream, cache: cache, ttl: ttl}
}

func (s *CachedSource) GetRates(ctx context.Context, base string) (Table, error) {
	key := s.cache.GenerateKey("rates", "base", base)

	var cached Table
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		log.Printf("rate cache read failed for %s: %v", key, err)
	} else if found && len(cached) > 0 {
		return cached, nil
	}

	table, err := s.upstream.GetRates(ctx, base)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetWithTTL(ctx, key, table, s.ttl); err != nil {
		log.Printf("rate cache write failed for %s: %v", key, err)
	}
	return table, nil
}
