package service

import (
	"context"
	"fmt"
	"time"

	"autocare-x402-gateway/internal/core/domain"
	"autocare-x402-gateway/internal/core/ports"
	"autocare-x402-gateway/pkg/metrics"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// ReconcilerOptions tunes the reconciliation worker.
type ReconcilerOptions struct {
	Interval    time.Duration
	BatchSize   int
	MaxAttempts int
}

// Reconciler implements ports.ReconcilerService. It drives pending ledger
// intents to completion on the retry schedule in domain.RetryIntervals.
type Reconciler struct {
	intents    ports.LedgerIntentRepository
	ledger     ports.LedgerService
	transactor ports.DBTransactor
	audit      ports.AuditService
	opts       ReconcilerOptions
	now        func() time.Time
	log        zerolog.Logger
}

// NewReconciler creates a new Reconciler.
func NewReconciler(
	intents ports.LedgerIntentRepository,
	ledger ports.LedgerService,
	transactor ports.DBTransactor,
	audit ports.AuditService,
	opts ReconcilerOptions,
	log zerolog.Logger,
) *Reconciler {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 20
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 8
	}
	if opts.Interval <= 0 {
		opts.Interval = 30 * time.Second
	}
	return &Reconciler{
		intents:    intents,
		ledger:     ledger,
		transactor: transactor,
		audit:      audit,
		opts:       opts,
		now:        func() time.Time { return time.Now().UTC() },
		log:        log,
	}
}

// Run reconciles on every tick until ctx is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.opts.Interval)
	defer ticker.Stop()

	r.log.Info().Dur("interval", r.opts.Interval).Msg("ledger reconciler started")

	for {
		select {
		case <-ctx.Done():
			r.log.Info().Msg("ledger reconciler stopped")
			return
		case <-ticker.C:
			applied, failed, err := r.RunOnce(ctx)
			if err != nil {
				r.log.Error().Err(err).Msg("reconciliation pass failed")
				continue
			}
			if applied > 0 || failed > 0 {
				r.log.Info().Int("applied", applied).Int("failed", failed).Msg("reconciliation pass finished")
			}
		}
	}
}

// RunOnce claims one batch of due intents and applies each in its own
// savepoint, so one bad intent does not block the rest of the batch.
func (r *Reconciler) RunOnce(ctx context.Context) (applied int, failed int, err error) {
	now := r.now()

	tx, err := r.transactor.Begin(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	due, err := r.intents.ClaimDue(ctx, tx, now, r.opts.BatchSize)
	if err != nil {
		return 0, 0, err
	}

	var reconciled []domain.LedgerIntent
	var outcomes []string
	for _, intent := range due {
		applyErr := withSavepoint(ctx, tx, func(sp pgx.Tx) error {
			return r.ledger.Apply(ctx, sp, intent)
		})
		if applyErr == nil {
			reconciled = append(reconciled, intent)
			continue
		}

		outcome, err := r.reschedule(ctx, tx, intent, applyErr, now)
		if err != nil {
			return 0, 0, err
		}
		outcomes = append(outcomes, outcome)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, 0, fmt.Errorf("commit tx: %w", err)
	}

	// Metrics and audit only describe a committed batch.
	for _, intent := range reconciled {
		metrics.ReconcilerIntents.WithLabelValues("applied").Inc()
		r.audit.Log(ctx, &domain.AuditLog{
			ID:           uuid.New(),
			Action:       domain.AuditActionReconciled,
			ResourceType: "payment_session",
			ResourceID:   intent.PaymentSessionID.String(),
			CreatedAt:    now,
		})
	}
	for _, outcome := range outcomes {
		metrics.ReconcilerIntents.WithLabelValues(outcome).Inc()
	}

	if pending, err := r.intents.CountByStatus(ctx, domain.IntentStatusPending); err == nil {
		metrics.PendingIntents.Set(float64(pending))
	}

	return len(reconciled), len(outcomes), nil
}

// reschedule pushes a failed intent back or parks it, and returns the outcome label.
func (r *Reconciler) reschedule(ctx context.Context, tx pgx.Tx, intent domain.LedgerIntent, cause error, now time.Time) (string, error) {
	attempts := intent.Attempts + 1
	status := domain.IntentStatusPending
	next := now.Add(domain.NextRetryDelay(attempts - 1))

	event := r.log.Warn()
	result := "retry"
	if attempts >= r.opts.MaxAttempts {
		status = domain.IntentStatusFailed
		event = r.log.Error()
		result = "failed"
	}

	event.
		Err(cause).
		Str("intent_id", intent.ID.String()).
		Str("payment_session_id", intent.PaymentSessionID.String()).
		Int("attempts", attempts).
		Str("status", string(status)).
		Msg("ledger intent not applied")

	return result, r.intents.MarkRetry(ctx, tx, intent.ID, status, attempts, cause.Error(), next)
}

// ListIntents returns recent intents for operators.
func (r *Reconciler) ListIntents(ctx context.Context, status *domain.IntentStatus, limit int) ([]domain.LedgerIntent, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return r.intents.List(ctx, status, limit)
}
