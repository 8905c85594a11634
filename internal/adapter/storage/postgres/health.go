package postgres

import (
	"context"
	"errors"
	"fmt"
)

const ledgerSchemaSQL = `SELECT to_regclass('consumed_proofs') IS NOT NULL AND to_regclass('ledger_intents') IS NOT NULL`

// HealthCheck reports the ledger database healthy when it answers and the
// replay and intent tables exist.
type HealthCheck struct {
	pool Pool
}

func NewHealthCheck(pool Pool) *HealthCheck {
	return &HealthCheck{pool: pool}
}

func (h *HealthCheck) Ping(ctx context.Context) error {
	var migrated bool
	if err := h.pool.QueryRow(ctx, ledgerSchemaSQL).Scan(&migrated); err != nil {
		return fmt.Errorf("query ledger schema: %w", err)
	}
	if !migrated {
		return errors.New("ledger schema not migrated")
	}
	return nil
}

func (h *HealthCheck) Name() string {
	return "postgresql"
}
