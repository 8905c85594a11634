package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// ProofGuard implements ports.ProofGuard using Redis SET NX.
// It is the fast path only; the consumed_proofs table is authoritative.
type ProofGuard struct {
	client goredis.UniversalClient
	prefix string
}

// NewProofGuard creates a new Redis-backed proof guard.
func NewProofGuard(client goredis.UniversalClient) *ProofGuard {
	return &ProofGuard{
		client: client,
		prefix: "x402:proof:",
	}
}

// Claim marks fingerprint as in use. Returns false if it was already claimed.
func (g *ProofGuard) Claim(ctx context.Context, fingerprint string, ttl time.Duration) (bool, error) {
	result, err := g.client.SetArgs(ctx, g.prefix+fingerprint, time.Now().Unix(), goredis.SetArgs{
		Mode: "NX",
		TTL:  ttl,
	}).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis proof claim: %w", err)
	}
	return result == "OK", nil
}

// Release drops a claim so the same proof can be presented again.
func (g *ProofGuard) Release(ctx context.Context, fingerprint string) error {
	if err := g.client.Del(ctx, g.prefix+fingerprint).Err(); err != nil {
		return fmt.Errorf("redis proof release: %w", err)
	}
	return nil
}
