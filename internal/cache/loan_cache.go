package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/segyhp/vehicle-loan-engine/internal/domain"
)

// Client is the subset of the Redis API the caches use.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// ViewCache stores JSON projections of type T. A zero ttl keeps keys forever.
type ViewCache[T any] struct {
	client Client
	ttl    time.Duration
}

func NewViewCache[T any](client Client, ttl time.Duration) *ViewCache[T] {
	return &ViewCache[T]{client: client, ttl: ttl}
}

// Get returns (nil, false, nil) on a miss. An undecodable entry is treated as a miss.
func (c *ViewCache[T]) Get(ctx context.Context, key string) (*T, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get %s: %w", key, err)
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, false, nil
	}
	return &v, true, nil
}

func (c *ViewCache[T]) Set(ctx context.Context, key string, value *T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

func (c *ViewCache[T]) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("cache delete %s: %w", key, err)
	}
	return nil
}

// LoanCache holds rendered loan details keyed by loan ID.
type LoanCache struct {
	views *ViewCache[domain.LoanDetail]
}

func NewLoanCache(client Client, ttl time.Duration) *LoanCache {
	return &LoanCache{views: NewViewCache[domain.LoanDetail](client, ttl)}
}

func LoanDetailKey(loanID uuid.UUID) string {
	return "loan:detail:" + loanID.String()
}

func (c *LoanCache) GetLoanDetail(ctx context.Context, loanID uuid.UUID) (*domain.LoanDetail, bool, error) {
	return c.views.Get(ctx, LoanDetailKey(loanID))
}

func (c *LoanCache) SetLoanDetail(ctx context.Context, detail *domain.LoanDetail) error {
	if detail == nil || detail.Loan == nil {
		return errors.New("cache: loan detail without loan")
	}
	return c.views.Set(ctx, LoanDetailKey(detail.Loan.ID), detail)
}

func (c *LoanCache) Invalidate(ctx context.Context, loanID uuid.UUID) error {
	return c.views.Delete(ctx, LoanDetailKey(loanID))
}
