package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"autocare-x402-gateway/internal/core/domain"
	"autocare-x402-gateway/internal/core/ports/mocks"
	"autocare-x402-gateway/pkg/metrics"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type reconcilerTestDeps struct {
	svc        *Reconciler
	intents    *mocks.MockLedgerIntentRepository
	ledger     *mocks.MockLedgerService
	transactor *mocks.MockDBTransactor
	audit      *mocks.MockAuditService
	audited    []domain.AuditAction
	now        time.Time
}

func setupReconciler(t *testing.T, opts ReconcilerOptions) *reconcilerTestDeps {
	ctrl := gomock.NewController(t)
	d := &reconcilerTestDeps{
		intents:    mocks.NewMockLedgerIntentRepository(ctrl),
		ledger:     mocks.NewMockLedgerService(ctrl),
		transactor: mocks.NewMockDBTransactor(ctrl),
		audit:      mocks.NewMockAuditService(ctrl),
		now:        time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	d.audit.EXPECT().Log(gomock.Any(), gomock.Any()).Do(func(_ context.Context, entry *domain.AuditLog) {
		d.audited = append(d.audited, entry.Action)
	}).AnyTimes()
	d.svc = NewReconciler(d.intents, d.ledger, d.transactor, d.audit, opts, newTestLogger())
	d.svc.now = func() time.Time { return d.now }
	return d
}

func intentWithAttempts(attempts int) domain.LedgerIntent {
	return domain.LedgerIntent{
		ID:               uuid.New(),
		PaymentSessionID: uuid.New(),
		Payload:          []byte(`{}`),
		Status:           domain.IntentStatusPending,
		Attempts:         attempts,
	}
}

func TestReconciler_RunOnce_AppliesAndReschedules(t *testing.T) {
	d := setupReconciler(t, ReconcilerOptions{})
	ctx := context.Background()
	tx := newMockTx("reconcile")

	ok := intentWithAttempts(1)
	bad := intentWithAttempts(2)

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.intents.EXPECT().ClaimDue(ctx, tx, d.now, 20).Return([]domain.LedgerIntent{ok, bad}, nil)
	d.ledger.EXPECT().Apply(ctx, gomock.Any(), ok).Return(nil)
	d.ledger.EXPECT().Apply(ctx, gomock.Any(), bad).Return(errors.New("operator_rewards: deadlock detected"))
	// third attempt, so the wait is RetryIntervals[2]
	d.intents.EXPECT().MarkRetry(ctx, tx, bad.ID, domain.IntentStatusPending, 3, "operator_rewards: deadlock detected", d.now.Add(2*time.Minute)).Return(nil)
	d.intents.EXPECT().CountByStatus(ctx, domain.IntentStatusPending).Return(int64(1), nil)

	applied, failed, err := d.svc.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, applied)
	assert.Equal(t, 1, failed)

	assert.True(t, tx.committed)
	assert.Equal(t, []domain.AuditAction{domain.AuditActionReconciled}, d.audited)
	require.Len(t, tx.savepoints, 2)
	assert.True(t, tx.savepoints[0].committed)
	assert.True(t, tx.savepoints[1].rolledBack)
}

func TestReconciler_RunOnce_GivesUpAtMaxAttempts(t *testing.T) {
	d := setupReconciler(t, ReconcilerOptions{MaxAttempts: 3, BatchSize: 5})
	ctx := context.Background()
	tx := newMockTx("reconcile")
	intent := intentWithAttempts(2)

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.intents.EXPECT().ClaimDue(ctx, tx, d.now, 5).Return([]domain.LedgerIntent{intent}, nil)
	d.ledger.EXPECT().Apply(ctx, gomock.Any(), intent).Return(errors.New("payment session missing"))
	d.intents.EXPECT().MarkRetry(ctx, tx, intent.ID, domain.IntentStatusFailed, 3, "payment session missing", gomock.Any()).Return(nil)
	d.intents.EXPECT().CountByStatus(ctx, domain.IntentStatusPending).Return(int64(0), nil)

	applied, failed, err := d.svc.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, applied)
	assert.Equal(t, 1, failed)
}

func TestReconciler_RunOnce_CommitFailureReportsNothing(t *testing.T) {
	d := setupReconciler(t, ReconcilerOptions{})
	ctx := context.Background()
	tx := newMockTx("reconcile")
	tx.commitErr = errors.New("could not serialize access")

	intent := intentWithAttempts(0)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.intents.EXPECT().ClaimDue(ctx, tx, d.now, 20).Return([]domain.LedgerIntent{intent}, nil)
	d.ledger.EXPECT().Apply(ctx, gomock.Any(), intent).Return(nil)
	// No CountByStatus: the pass stops at the failed commit.

	before := testutil.ToFloat64(metrics.ReconcilerIntents.WithLabelValues("applied"))
	applied, failed, err := d.svc.RunOnce(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "commit tx")
	assert.Zero(t, applied)
	assert.Zero(t, failed)
	assert.Empty(t, d.audited)
	assert.Equal(t, before, testutil.ToFloat64(metrics.ReconcilerIntents.WithLabelValues("applied")))
	assert.True(t, tx.rolledBack)
}

func TestReconciler_RunOnce_NothingDue(t *testing.T) {
	d := setupReconciler(t, ReconcilerOptions{})
	ctx := context.Background()
	tx := newMockTx("reconcile")

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.intents.EXPECT().ClaimDue(ctx, tx, d.now, 20).Return(nil, nil)
	d.intents.EXPECT().CountByStatus(ctx, domain.IntentStatusPending).Return(int64(0), nil)

	applied, failed, err := d.svc.RunOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, applied)
	assert.Zero(t, failed)
}

func TestReconciler_RunOnce_ClaimFails(t *testing.T) {
	d := setupReconciler(t, ReconcilerOptions{})
	ctx := context.Background()
	tx := newMockTx("reconcile")

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.intents.EXPECT().ClaimDue(ctx, tx, d.now, 20).Return(nil, errors.New("claim ledger intents: timeout"))

	_, _, err := d.svc.RunOnce(ctx)
	require.Error(t, err)
	assert.False(t, tx.committed)
	assert.True(t, tx.rolledBack)
}

func TestReconciler_ListIntents_ClampsLimit(t *testing.T) {
	tests := []struct {
		name     string
		limit    int
		expected int
	}{
		{"default", 0, 50},
		{"too large", 500, 50},
		{"in range", 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := setupReconciler(t, ReconcilerOptions{})
			status := domain.IntentStatusFailed

			d.intents.EXPECT().List(gomock.Any(), &status, tt.expected).Return([]domain.LedgerIntent{}, nil)

			_, err := d.svc.ListIntents(context.Background(), &status, tt.limit)
			require.NoError(t, err)
		})
	}
}

func TestReconciler_Run_StopsOnCancel(t *testing.T) {
	d := setupReconciler(t, ReconcilerOptions{Interval: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.svc.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("reconciler did not stop")
	}
}
