package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"autocare-x402-gateway/internal/core/domain"

	goredis "github.com/redis/go-redis/v9"
)

// ReceiptCache implements ports.ReceiptCache using Redis.
type ReceiptCache struct {
	client goredis.UniversalClient
	prefix string
}

// NewReceiptCache creates a new Redis-backed receipt cache.
func NewReceiptCache(client goredis.UniversalClient) *ReceiptCache {
	return &ReceiptCache{
		client: client,
		prefix: "x402:receipt:",
	}
}

// Get returns the receipt settled for fingerprint, or nil, nil if none is cached.
func (c *ReceiptCache) Get(ctx context.Context, fingerprint string) (*domain.SettlementReceipt, error) {
	raw, err := c.client.Get(ctx, c.prefix+fingerprint).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis receipt get: %w", err)
	}

	var receipt domain.SettlementReceipt
	if err := json.Unmarshal(raw, &receipt); err != nil {
		return nil, fmt.Errorf("decode cached receipt: %w", err)
	}
	return &receipt, nil
}

// Set stores receipt under fingerprint with TTL.
func (c *ReceiptCache) Set(ctx context.Context, fingerprint string, receipt domain.SettlementReceipt, ttl time.Duration) error {
	raw, err := json.Marshal(receipt)
	if err != nil {
		return fmt.Errorf("encode receipt: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+fingerprint, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis receipt set: %w", err)
	}
	return nil
}
