package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/andresuchdata/invopt/internal/config"
	"github.com/andresuchdata/invopt/internal/domain"
)

const (
	portfolioKeyPrefix = "portfolio:result"
	scanBatchSize      = 100
)

// PortfolioCache holds computed portfolio evaluations keyed by filter. The
// entries are short-lived snapshots; any write to component data invalidates
// everything.
type PortfolioCache interface {
	GetPortfolio(ctx context.Context, filter domain.ComponentFilter) (*domain.PortfolioResult, bool, error)
	SetPortfolio(ctx context.Context, filter domain.ComponentFilter, result *domain.PortfolioResult) error
	InvalidateAll(ctx context.Context) error
}

type redisPortfolioCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopPortfolioCache struct{}

func NewPortfolioCache(cfg config.CacheConfig) (PortfolioCache, error) {
	if !cfg.Enabled {
		return &noopPortfolioCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisPortfolioCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func NewNoopPortfolioCache() PortfolioCache {
	return &noopPortfolioCache{}
}

func (c *redisPortfolioCache) GetPortfolio(ctx context.Context, filter domain.ComponentFilter) (*domain.PortfolioResult, bool, error) {
	key := buildPortfolioKey(filter)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var result domain.PortfolioResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, false, fmt.Errorf("decode portfolio cache: %w", err)
	}

	return &result, true, nil
}

func (c *redisPortfolioCache) SetPortfolio(ctx context.Context, filter domain.ComponentFilter, result *domain.PortfolioResult) error {
	key := buildPortfolioKey(filter)
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode portfolio cache: %w", err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}

	return nil
}

func (c *redisPortfolioCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, portfolioKeyPrefix, scanBatchSize)
}

func (n *noopPortfolioCache) GetPortfolio(ctx context.Context, filter domain.ComponentFilter) (*domain.PortfolioResult, bool, error) {
	return nil, false, nil
}

func (n *noopPortfolioCache) SetPortfolio(ctx context.Context, filter domain.ComponentFilter, result *domain.PortfolioResult) error {
	return nil
}

func (n *noopPortfolioCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildPortfolioKey(filter domain.ComponentFilter) string {
	return fmt.Sprintf("%s:%s", portfolioKeyPrefix, componentFilterHash(filter))
}

func componentFilterHash(filter domain.ComponentFilter) string {
	parts := []string{}

	if filter.Status != "" {
		parts = append(parts, "status="+strings.ToLower(string(filter.Status)))
	}
	if len(filter.Categories) > 0 {
		parts = append(parts, "categories="+joinStrings(filter.Categories))
	}
	if len(filter.SupplierIDs) > 0 {
		parts = append(parts, "supplier_ids="+joinStrings(filter.SupplierIDs))
	}

	if len(parts) == 0 {
		return "default"
	}

	sort.Strings(parts)
	raw := strings.Join(parts, "|")
	sum := sha1.Sum([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func joinStrings(values []string) string {
	c := append([]string(nil), values...)
	for i := range c {
		c[i] = strings.TrimSpace(strings.ToLower(c[i]))
	}
	sort.Strings(c)
	return strings.Join(c, ",")
}
