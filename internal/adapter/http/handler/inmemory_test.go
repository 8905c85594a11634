package handler_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"autocare-x402-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// store is one lock over every in-memory table, standing in for row locks.
type store struct {
	mu       sync.Mutex
	payments map[uuid.UUID]*domain.PaymentSession
	sessions map[uuid.UUID]*domain.DomainSession
	loyalty  map[string]*domain.LoyaltyWallet
	rewards  map[string]*domain.OperatorReward
	proofs   map[string]bool
	txKeys   map[string]bool
	intents  map[uuid.UUID]*domain.LedgerIntent
	audits   []domain.AuditLog
}

func newStore() *store {
	return &store{
		payments: make(map[uuid.UUID]*domain.PaymentSession),
		sessions: make(map[uuid.UUID]*domain.DomainSession),
		loyalty:  make(map[string]*domain.LoyaltyWallet),
		rewards:  make(map[string]*domain.OperatorReward),
		proofs:   make(map[string]bool),
		txKeys:   make(map[string]bool),
		intents:  make(map[uuid.UUID]*domain.LedgerIntent),
	}
}

// --- Payment sessions ---

type inMemoryPaymentRepo struct{ s *store }

func (r inMemoryPaymentRepo) Create(_ context.Context, _ pgx.Tx, p *domain.PaymentSession) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.payments[p.ID]; ok {
		return fmt.Errorf("payment session %s already exists", p.ID)
	}
	cp := *p
	r.s.payments[p.ID] = &cp
	return nil
}

func (r inMemoryPaymentRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.PaymentSession, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.payments[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r inMemoryPaymentRepo) GetByIDTx(ctx context.Context, _ pgx.Tx, id uuid.UUID) (*domain.PaymentSession, error) {
	return r.GetByID(ctx, id)
}

// --- Domain sessions ---

type inMemorySessionRepo struct{ s *store }

func (r inMemorySessionRepo) Create(_ context.Context, _ pgx.Tx, d *domain.DomainSession) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *d
	r.s.sessions[d.ID] = &cp
	return nil
}

func (r inMemorySessionRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.DomainSession, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.sessions[id]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (r inMemorySessionRepo) GetByIDForUpdate(ctx context.Context, _ pgx.Tx, id uuid.UUID) (*domain.DomainSession, error) {
	return r.GetByID(ctx, id)
}

func (r inMemorySessionRepo) GetByPaymentSession(_ context.Context, _ pgx.Tx, paymentSessionID uuid.UUID) (*domain.DomainSession, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, d := range r.s.sessions {
		if d.PaymentSessionID == paymentSessionID {
			cp := *d
			return &cp, nil
		}
	}
	return nil, nil
}

func (r inMemorySessionRepo) UpdateStatus(_ context.Context, _ pgx.Tx, id uuid.UUID, status domain.SessionStatus, completedAt *time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.sessions[id]
	if !ok {
		return fmt.Errorf("session not found: %s", id)
	}
	d.Status = status
	d.CompletedAt = completedAt
	return nil
}

// --- Loyalty and rewards ---

type inMemoryLoyaltyRepo struct{ s *store }

func (r inMemoryLoyaltyRepo) Accrue(_ context.Context, _ pgx.Tx, customerID string, kind domain.Kind, amount, points int64) (*domain.LoyaltyWallet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.loyalty[customerID]
	if !ok {
		w = &domain.LoyaltyWallet{CustomerID: customerID}
		r.s.loyalty[customerID] = w
	}
	w.Points += points
	w.TotalSpent += amount
	if kind == domain.KindService {
		w.ServiceCount++
	} else {
		w.WashCount++
	}
	w.Tier = domain.TierFor(w.Points)
	w.UpdatedAt = time.Now().UTC()
	cp := *w
	return &cp, nil
}

func (r inMemoryLoyaltyRepo) Get(_ context.Context, customerID string) (*domain.LoyaltyWallet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.loyalty[customerID]
	if !ok {
		return nil, nil
	}
	cp := *w
	return &cp, nil
}

type inMemoryRewardRepo struct{ s *store }

func (r inMemoryRewardRepo) Accrue(_ context.Context, _ pgx.Tx, operatorID string, commission int64) (*domain.OperatorReward, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rw, ok := r.s.rewards[operatorID]
	if !ok {
		rw = &domain.OperatorReward{OperatorID: operatorID}
		r.s.rewards[operatorID] = rw
	}
	rw.Earned += commission
	rw.Pending += commission
	rw.JobCount++
	rw.UpdatedAt = time.Now().UTC()
	cp := *rw
	return &cp, nil
}

func (r inMemoryRewardRepo) Get(_ context.Context, operatorID string) (*domain.OperatorReward, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rw, ok := r.s.rewards[operatorID]
	if !ok {
		return nil, nil
	}
	cp := *rw
	return &cp, nil
}

func (r inMemoryRewardRepo) Payout(_ context.Context, operatorID string, amount int64) (*domain.OperatorReward, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rw, ok := r.s.rewards[operatorID]
	if !ok || rw.Pending < amount {
		return nil, nil
	}
	rw.Pending -= amount
	rw.Paid += amount
	cp := *rw
	return &cp, nil
}

// --- Consumed proofs and ledger intents ---

type inMemoryProofRepo struct{ s *store }

func (r inMemoryProofRepo) Insert(_ context.Context, _ pgx.Tx, p *domain.ConsumedProof) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.proofs[p.Fingerprint] || r.s.txKeys[p.TransactionID] {
		return false, nil
	}
	r.s.proofs[p.Fingerprint] = true
	r.s.txKeys[p.TransactionID] = true
	return true, nil
}

func (r inMemoryProofRepo) Exists(_ context.Context, fingerprint string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.proofs[fingerprint], nil
}

type inMemoryIntentRepo struct{ s *store }

func (r inMemoryIntentRepo) Create(_ context.Context, _ pgx.Tx, i *domain.LedgerIntent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *i
	r.s.intents[i.ID] = &cp
	return nil
}

func (r inMemoryIntentRepo) MarkApplied(_ context.Context, _ pgx.Tx, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i, ok := r.s.intents[id]
	if !ok {
		return fmt.Errorf("ledger intent not found: %s", id)
	}
	i.Status = domain.IntentStatusApplied
	i.LastError = nil
	return nil
}

func (r inMemoryIntentRepo) MarkRetry(_ context.Context, _ pgx.Tx, id uuid.UUID, status domain.IntentStatus, attempts int, lastError string, nextAttemptAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i, ok := r.s.intents[id]
	if !ok {
		return nil
	}
	i.Status = status
	i.Attempts = attempts
	i.LastError = &lastError
	i.NextAttemptAt = nextAttemptAt
	return nil
}

func (r inMemoryIntentRepo) ClaimDue(_ context.Context, _ pgx.Tx, now time.Time, limit int) ([]domain.LedgerIntent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.LedgerIntent
	for _, i := range r.s.intents {
		if i.Status == domain.IntentStatusPending && !i.NextAttemptAt.After(now) {
			out = append(out, *i)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].NextAttemptAt.Before(out[b].NextAttemptAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r inMemoryIntentRepo) List(_ context.Context, status *domain.IntentStatus, limit int) ([]domain.LedgerIntent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.LedgerIntent
	for _, i := range r.s.intents {
		if status == nil || i.Status == *status {
			out = append(out, *i)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].CreatedAt.After(out[b].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r inMemoryIntentRepo) CountByStatus(_ context.Context, status domain.IntentStatus) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, i := range r.s.intents {
		if i.Status == status {
			n++
		}
	}
	return n, nil
}

type inMemoryAuditRepo struct{ s *store }

func (r inMemoryAuditRepo) Create(_ context.Context, log *domain.AuditLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.audits = append(r.s.audits, *log)
	return nil
}

// --- In-Memory Transactor ---

// Writes apply immediately; commit and rollback are no-ops.
type inMemoryTransactor struct{}

func (inMemoryTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	return &noopTx{}, nil
}

type noopTx struct{}

func (t *noopTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *noopTx) Commit(ctx context.Context) error          { return nil }
func (t *noopTx) Rollback(ctx context.Context) error        { return nil }
func (t *noopTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *noopTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *noopTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *noopTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *noopTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}
func (t *noopTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *noopTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *noopTx) Conn() *pgx.Conn { return nil }
