package service

import (
	"context"
	"io"
	"time"

	"autocare-x402-gateway/config"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

func newTestLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func testX402Config() config.X402Config {
	return config.X402Config{
		Network:        "avalanche-fuji",
		NetworkID:      "eip155:43113",
		Asset:          "USDC",
		AssetDecimals:  6,
		Recipient:      "0x742d35Cc6634C0532925a3b844Bc9e7595f8fCE8",
		FacilitatorURL: "https://x402.org/facilitator",
		MaxTimeout:     60 * time.Second,
	}
}

// mockTx implements pgx.Tx for testing. Begin opens a child mockTx the way
// pgx opens a savepoint.
type mockTx struct {
	pgx.Tx
	name       string
	committed  bool
	rolledBack bool
	commitErr  error
	savepoints []*mockTx
}

func newMockTx(name string) *mockTx { return &mockTx{name: name} }

func (m *mockTx) Begin(_ context.Context) (pgx.Tx, error) {
	sp := &mockTx{name: m.name + "/savepoint"}
	m.savepoints = append(m.savepoints, sp)
	return sp, nil
}

func (m *mockTx) Commit(_ context.Context) error {
	if m.commitErr != nil {
		return m.commitErr
	}
	m.committed = true
	return nil
}

func (m *mockTx) Rollback(_ context.Context) error {
	if !m.committed {
		m.rolledBack = true
	}
	return nil
}
