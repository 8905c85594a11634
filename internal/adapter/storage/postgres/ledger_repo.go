package postgres

import (
	"context"
	"fmt"
	"time"

	"autocare-x402-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ConsumedProofRepo implements ports.ConsumedProofRepository.
type ConsumedProofRepo struct {
	pool Pool
}

// NewConsumedProofRepo creates a new ConsumedProofRepo.
func NewConsumedProofRepo(pool Pool) *ConsumedProofRepo {
	return &ConsumedProofRepo{pool: pool}
}

// Insert records a consumed proof. Returns false when either the fingerprint
// or the transaction key is already present.
func (r *ConsumedProofRepo) Insert(ctx context.Context, tx pgx.Tx, p *domain.ConsumedProof) (bool, error) {
	tag, err := tx.Exec(ctx,
		`INSERT INTO consumed_proofs (fingerprint, tx_key, payment_session_id, created_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT DO NOTHING`,
		p.Fingerprint, p.TransactionID, p.PaymentSessionID, p.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert consumed proof: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Exists reports whether a fingerprint has been consumed.
func (r *ConsumedProofRepo) Exists(ctx context.Context, fingerprint string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM consumed_proofs WHERE fingerprint = $1)`, fingerprint,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check consumed proof: %w", err)
	}
	return exists, nil
}

const ledgerIntentColumns = `id, payment_session_id, payload, status, attempts, last_error, next_attempt_at, created_at, updated_at`

// LedgerIntentRepo implements ports.LedgerIntentRepository.
type LedgerIntentRepo struct {
	pool Pool
}

// NewLedgerIntentRepo creates a new LedgerIntentRepo.
func NewLedgerIntentRepo(pool Pool) *LedgerIntentRepo {
	return &LedgerIntentRepo{pool: pool}
}

// Create inserts an intent within a transaction.
func (r *LedgerIntentRepo) Create(ctx context.Context, tx pgx.Tx, i *domain.LedgerIntent) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO ledger_intents (`+ledgerIntentColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		i.ID, i.PaymentSessionID, []byte(i.Payload), string(i.Status), i.Attempts,
		i.LastError, i.NextAttemptAt, i.CreatedAt, i.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert ledger intent: %w", err)
	}
	return nil
}

// MarkApplied closes an intent.
func (r *LedgerIntentRepo) MarkApplied(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	tag, err := tx.Exec(ctx,
		`UPDATE ledger_intents SET status = 'applied', last_error = NULL, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark ledger intent applied: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("ledger intent not found: %s", id)
	}
	return nil
}

// MarkRetry records a failed attempt and schedules the next one.
func (r *LedgerIntentRepo) MarkRetry(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.IntentStatus, attempts int, lastError string, nextAttemptAt time.Time) error {
	_, err := tx.Exec(ctx,
		`UPDATE ledger_intents
		 SET status = $1, attempts = $2, last_error = $3, next_attempt_at = $4, updated_at = NOW()
		 WHERE id = $5`,
		string(status), attempts, lastError, nextAttemptAt, id,
	)
	if err != nil {
		return fmt.Errorf("mark ledger intent retry: %w", err)
	}
	return nil
}

// ClaimDue locks due pending intents. Rows locked by another reconciler are skipped.
func (r *LedgerIntentRepo) ClaimDue(ctx context.Context, tx pgx.Tx, now time.Time, limit int) ([]domain.LedgerIntent, error) {
	rows, err := tx.Query(ctx,
		`SELECT `+ledgerIntentColumns+` FROM ledger_intents
		 WHERE status = 'pending' AND next_attempt_at <= $1
		 ORDER BY next_attempt_at
		 LIMIT $2
		 FOR UPDATE SKIP LOCKED`,
		now, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("claim ledger intents: %w", err)
	}
	return collectIntents(rows)
}

// List returns the most recent intents, optionally filtered by status.
func (r *LedgerIntentRepo) List(ctx context.Context, status *domain.IntentStatus, limit int) ([]domain.LedgerIntent, error) {
	var filter *string
	if status != nil {
		s := string(*status)
		filter = &s
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+ledgerIntentColumns+` FROM ledger_intents
		 WHERE ($1::text IS NULL OR status = $1)
		 ORDER BY created_at DESC
		 LIMIT $2`,
		filter, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list ledger intents: %w", err)
	}
	return collectIntents(rows)
}

// CountByStatus counts intents in one status.
func (r *LedgerIntentRepo) CountByStatus(ctx context.Context, status domain.IntentStatus) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM ledger_intents WHERE status = $1`, string(status)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count ledger intents: %w", err)
	}
	return n, nil
}

func collectIntents(rows pgx.Rows) ([]domain.LedgerIntent, error) {
	defer rows.Close()

	var out []domain.LedgerIntent
	for rows.Next() {
		var i domain.LedgerIntent
		var payload []byte
		if err := rows.Scan(
			&i.ID, &i.PaymentSessionID, &payload, &i.Status, &i.Attempts,
			&i.LastError, &i.NextAttemptAt, &i.CreatedAt, &i.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan ledger intent: %w", err)
		}
		i.Payload = payload
		out = append(out, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger intents: %w", err)
	}
	return out, nil
}
