package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/lab-manager-api/internal/dto"
)

const (
	catalogListKey   = "labs:catalog:v1"
	catalogDetailKey = "labs:detail:v1:"
)

// CatalogCache stores the public lab catalogue. Misses and failures fall through to the store.
type CatalogCache interface {
	List(ctx context.Context) ([]dto.LabResponse, bool)
	StoreList(ctx context.Context, labs []dto.LabResponse)
	Detail(ctx context.Context, labID string) (dto.LabDetailResponse, bool)
	StoreDetail(ctx context.Context, detail dto.LabDetailResponse)
	Invalidate(ctx context.Context, labID string)
}

type redisCatalogCache struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewCatalogCache returns a Redis-backed cache, or a pass-through cache when client is nil.
func NewCatalogCache(client *redis.Client, ttl time.Duration, logger zerolog.Logger) CatalogCache {
	if client == nil {
		return noopCatalogCache{}
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &redisCatalogCache{
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("component", "catalog_cache").Logger(),
	}
}

func (c *redisCatalogCache) List(ctx context.Context) ([]dto.LabResponse, bool) {
	var labs []dto.LabResponse
	return labs, c.read(ctx, catalogListKey, &labs)
}

func (c *redisCatalogCache) StoreList(ctx context.Context, labs []dto.LabResponse) {
	c.write(ctx, catalogListKey, labs)
}

func (c *redisCatalogCache) Detail(ctx context.Context, labID string) (dto.LabDetailResponse, bool) {
	var detail dto.LabDetailResponse
	return detail, c.read(ctx, catalogDetailKey+labID, &detail)
}

func (c *redisCatalogCache) StoreDetail(ctx context.Context, detail dto.LabDetailResponse) {
	c.write(ctx, catalogDetailKey+detail.ID, detail)
}

func (c *redisCatalogCache) Invalidate(ctx context.Context, labID string) {
	keys := []string{catalogListKey}
	if labID != "" {
		keys = append(keys, catalogDetailKey+labID)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn().Err(err).Str("lab_id", labID).Msg("failed to invalidate catalogue cache")
	}
}

func (c *redisCatalogCache) read(ctx context.Context, key string, target interface{}) bool {
	cached, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn().Err(err).Str("key", key).Msg("failed to read catalogue cache")
		}
		return false
	}
	if err := json.Unmarshal([]byte(cached), target); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("discarding malformed catalogue cache entry")
		return false
	}
	c.logger.Debug().Str("key", key).Msg("catalogue cache hit")
	return true
}

func (c *redisCatalogCache) write(ctx context.Context, key string, value interface{}) {
	payload, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("failed to encode catalogue cache entry")
		return
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("failed to store catalogue cache entry")
	}
}

type noopCatalogCache struct{}

func (noopCatalogCache) List(context.Context) ([]dto.LabResponse, bool) { return nil, false }
func (noopCatalogCache) StoreList(context.Context, []dto.LabResponse)   {}
func (noopCatalogCache) Detail(context.Context, string) (dto.LabDetailResponse, bool) {
	return dto.LabDetailResponse{}, false
}
func (noopCatalogCache) StoreDetail(context.Context, dto.LabDetailResponse) {}
func (noopCatalogCache) Invalidate(context.Context, string)                 {}
