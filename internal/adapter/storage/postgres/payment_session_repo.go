package postgres

import (
	"context"
	"errors"
	"fmt"

	"autocare-x402-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const paymentSessionColumns = `id, resource, amount, asset, network, tx_hash, payer, status, customer_id, settled_at, created_at`

// PaymentSessionRepo implements ports.PaymentSessionRepository.
type PaymentSessionRepo struct {
	pool Pool
}

// NewPaymentSessionRepo creates a new PaymentSessionRepo.
func NewPaymentSessionRepo(pool Pool) *PaymentSessionRepo {
	return &PaymentSessionRepo{pool: pool}
}

// Create inserts a payment session within a transaction.
func (r *PaymentSessionRepo) Create(ctx context.Context, tx pgx.Tx, s *domain.PaymentSession) error {
	query := `INSERT INTO payment_sessions (` + paymentSessionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := tx.Exec(ctx, query,
		s.ID, s.ResourcePath, s.Amount, s.Asset, s.Network, s.TransactionID,
		s.Payer, string(s.Status), s.CustomerID, s.SettledAt, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert payment session: %w", err)
	}
	return nil
}

// GetByID fetches a payment session outside any transaction.
func (r *PaymentSessionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.PaymentSession, error) {
	return r.get(ctx, r.pool, id)
}

// GetByIDTx fetches a payment session inside tx.
func (r *PaymentSessionRepo) GetByIDTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.PaymentSession, error) {
	return r.get(ctx, tx, id)
}

func (r *PaymentSessionRepo) get(ctx context.Context, q rowQuerier, id uuid.UUID) (*domain.PaymentSession, error) {
	query := `SELECT ` + paymentSessionColumns + ` FROM payment_sessions WHERE id = $1`

	s := &domain.PaymentSession{}
	err := q.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.ResourcePath, &s.Amount, &s.Asset, &s.Network, &s.TransactionID,
		&s.Payer, &s.Status, &s.CustomerID, &s.SettledAt, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment session: %w", err)
	}
	return s, nil
}
