package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const healthKey = "x402:health"

// HealthCheck reports Redis healthy when it accepts an expiring write, the
// same operation proof claims and receipt caching depend on.
type HealthCheck struct {
	client goredis.UniversalClient
}

func NewHealthCheck(client goredis.UniversalClient) *HealthCheck {
	return &HealthCheck{client: client}
}

func (h *HealthCheck) Ping(ctx context.Context) error {
	if err := h.client.Set(ctx, healthKey, time.Now().Unix(), 10*time.Second).Err(); err != nil {
		return fmt.Errorf("redis write: %w", err)
	}
	return nil
}

func (h *HealthCheck) Name() string {
	return "redis"
}
