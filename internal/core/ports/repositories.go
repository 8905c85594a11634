package ports

import (
	"context"
	"time"

	"autocare-x402-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repositories return (nil, nil) when a row does not exist.
// Methods accepting pgx.Tx run inside the caller's transaction block.

// PaymentSessionRepository defines persistence operations for settled payments.
type PaymentSessionRepository interface {
	Create(ctx context.Context, tx pgx.Tx, session *domain.PaymentSession) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.PaymentSession, error)
	GetByIDTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.PaymentSession, error)
}

// DomainSessionRepository defines persistence operations for service and wash sessions.
type DomainSessionRepository interface {
	Create(ctx context.Context, tx pgx.Tx, session *domain.DomainSession) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.DomainSession, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.DomainSession, error)
	GetByPaymentSession(ctx context.Context, tx pgx.Tx, paymentSessionID uuid.UUID) (*domain.DomainSession, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.SessionStatus, completedAt *time.Time) error
}

// LoyaltyRepository maintains per-customer loyalty aggregates.
type LoyaltyRepository interface {
	// Accrue creates the wallet or increments it in a single upsert.
	Accrue(ctx context.Context, tx pgx.Tx, customerID string, kind domain.Kind, amount, points int64) (*domain.LoyaltyWallet, error)
	Get(ctx context.Context, customerID string) (*domain.LoyaltyWallet, error)
}

// RewardRepository maintains per-operator commission aggregates.
type RewardRepository interface {
	// Accrue creates the reward row or increments earned, pending and job_count.
	Accrue(ctx context.Context, tx pgx.Tx, operatorID string, commission int64) (*domain.OperatorReward, error)
	Get(ctx context.Context, operatorID string) (*domain.OperatorReward, error)
	// Payout moves amount from pending to paid. Returns nil when the operator
	// is unknown or has less than amount pending.
	Payout(ctx context.Context, operatorID string, amount int64) (*domain.OperatorReward, error)
}

// ConsumedProofRepository is the durable set of used proofs and transactions.
type ConsumedProofRepository interface {
	// Insert returns false when the fingerprint or transaction is already consumed.
	Insert(ctx context.Context, tx pgx.Tx, proof *domain.ConsumedProof) (bool, error)
	Exists(ctx context.Context, fingerprint string) (bool, error)
}

// LedgerIntentRepository is the outbox of post-settlement ledger work.
type LedgerIntentRepository interface {
	Create(ctx context.Context, tx pgx.Tx, intent *domain.LedgerIntent) error
	MarkApplied(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
	MarkRetry(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.IntentStatus, attempts int, lastError string, nextAttemptAt time.Time) error
	// ClaimDue locks up to limit pending intents due at now, skipping rows locked elsewhere.
	ClaimDue(ctx context.Context, tx pgx.Tx, now time.Time, limit int) ([]domain.LedgerIntent, error)
	List(ctx context.Context, status *domain.IntentStatus, limit int) ([]domain.LedgerIntent, error)
	CountByStatus(ctx context.Context, status domain.IntentStatus) (int64, error)
}

// AuditRepository persists audit entries.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
