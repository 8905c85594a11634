package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"autocare-x402-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const domainSessionColumns = `id, kind, vehicle_id, branch_id, operator_id, customer_id, session_type, price, status,
	payment_session_id, description, mileage, created_at, completed_at`

// DomainSessionRepo implements ports.DomainSessionRepository. Service and
// wash sessions share one table; service-only columns are NULL for washes.
type DomainSessionRepo struct {
	pool Pool
}

// NewDomainSessionRepo creates a new DomainSessionRepo.
func NewDomainSessionRepo(pool Pool) *DomainSessionRepo {
	return &DomainSessionRepo{pool: pool}
}

// Create inserts a domain session within a transaction.
func (r *DomainSessionRepo) Create(ctx context.Context, tx pgx.Tx, s *domain.DomainSession) error {
	query := `INSERT INTO domain_sessions (` + domainSessionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	var description *string
	var mileage *int
	if s.Service != nil {
		description = strPtr(s.Service.Description)
		mileage = s.Service.Mileage
	}

	_, err := tx.Exec(ctx, query,
		s.ID, string(s.Kind), s.VehicleID, s.BranchID, s.OperatorID, s.CustomerID,
		s.Subtype, s.Price, string(s.Status), s.PaymentSessionID,
		description, mileage, s.CreatedAt, s.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("insert domain session: %w", err)
	}
	return nil
}

// GetByID fetches a session by id (non-locking read).
func (r *DomainSessionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.DomainSession, error) {
	return scanDomainSession(r.pool.QueryRow(ctx,
		`SELECT `+domainSessionColumns+` FROM domain_sessions WHERE id = $1`, id))
}

// GetByIDForUpdate fetches a session with a row lock.
// This MUST be called within a transaction.
func (r *DomainSessionRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.DomainSession, error) {
	return scanDomainSession(tx.QueryRow(ctx,
		`SELECT `+domainSessionColumns+` FROM domain_sessions WHERE id = $1 FOR UPDATE`, id))
}

// GetByPaymentSession fetches the session unlocked by a payment, if it exists.
func (r *DomainSessionRepo) GetByPaymentSession(ctx context.Context, tx pgx.Tx, paymentSessionID uuid.UUID) (*domain.DomainSession, error) {
	return scanDomainSession(tx.QueryRow(ctx,
		`SELECT `+domainSessionColumns+` FROM domain_sessions WHERE payment_session_id = $1`, paymentSessionID))
}

// UpdateStatus sets a new status within a transaction.
func (r *DomainSessionRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.SessionStatus, completedAt *time.Time) error {
	tag, err := tx.Exec(ctx,
		`UPDATE domain_sessions SET status = $1, completed_at = COALESCE($2, completed_at) WHERE id = $3`,
		string(status), completedAt, id,
	)
	if err != nil {
		return fmt.Errorf("update domain session status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("domain session not found: %s", id)
	}
	return nil
}

func scanDomainSession(row pgx.Row) (*domain.DomainSession, error) {
	s := &domain.DomainSession{}
	var description *string
	var mileage *int

	err := row.Scan(
		&s.ID, &s.Kind, &s.VehicleID, &s.BranchID, &s.OperatorID, &s.CustomerID,
		&s.Subtype, &s.Price, &s.Status, &s.PaymentSessionID,
		&description, &mileage, &s.CreatedAt, &s.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan domain session: %w", err)
	}

	if s.Kind == domain.KindService {
		s.Service = &domain.ServiceDetails{Description: derefStr(description), Mileage: mileage}
	}
	return s, nil
}
