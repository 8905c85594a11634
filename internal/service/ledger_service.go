package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"autocare-x402-gateway/internal/core/domain"
	"autocare-x402-gateway/internal/core/ports"
	"autocare-x402-gateway/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// LedgerRepositories groups the repositories the ledger writes to.
type LedgerRepositories struct {
	Payments ports.PaymentSessionRepository
	Sessions ports.DomainSessionRepository
	Loyalty  ports.LoyaltyRepository
	Rewards  ports.RewardRepository
	Proofs   ports.ConsumedProofRepository
	Intents  ports.LedgerIntentRepository
}

// LedgerServiceImpl implements ports.LedgerService.
//
// A settlement is recorded in one transaction: the payment session, the
// consumed proof and a ledger intent are written first and always commit
// together. The domain session and the reward aggregates are applied in
// nested savepoints; if either fails, only that savepoint is rolled back and
// the intent stays pending for the reconciler.
type LedgerServiceImpl struct {
	repos      LedgerRepositories
	transactor ports.DBTransactor
	rates      domain.RewardRates
	now        func() time.Time
	log        zerolog.Logger
}

// NewLedgerService creates a new LedgerServiceImpl.
func NewLedgerService(repos LedgerRepositories, transactor ports.DBTransactor, rates domain.RewardRates, log zerolog.Logger) *LedgerServiceImpl {
	return &LedgerServiceImpl{
		repos:      repos,
		transactor: transactor,
		rates:      rates,
		now:        func() time.Time { return time.Now().UTC() },
		log:        log,
	}
}

// Record persists a confirmed settlement and the booking it pays for.
func (s *LedgerServiceImpl) Record(ctx context.Context, booking domain.Booking, amount int64, receipt domain.SettlementReceipt, fingerprint string) (*ports.LedgerResult, error) {
	now := s.now()
	payment := domain.NewPaidSession(booking.Kind.ResourcePath(booking.Subtype), amount, receipt, booking.CustomerID, now)

	intent, err := newIntent(payment.ID, booking, amount, receipt, now)
	if err != nil {
		s.logOrphan(payment, err)
		return &ports.LedgerResult{PaymentSession: payment}, apperror.ErrLedgerWrite(err)
	}
	proof := &domain.ConsumedProof{
		Fingerprint:      fingerprint,
		TransactionID:    domain.TransactionKey(receipt.Network, receipt.TransactionID),
		PaymentSessionID: payment.ID,
		CreatedAt:        now,
	}

	tx, err := s.transactor.Begin(ctx)
	if err != nil {
		return s.fallback(ctx, payment, proof, intent, fmt.Errorf("begin tx: %w", err))
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	// The failed transaction must release its rows before the fallback
	// rewrites them on another connection.
	fail := func(err error) (*ports.LedgerResult, error) {
		_ = tx.Rollback(ctx)
		return s.fallback(ctx, payment, proof, intent, err)
	}

	if err := s.repos.Payments.Create(ctx, tx, payment); err != nil {
		return fail(err)
	}

	fresh, err := s.repos.Proofs.Insert(ctx, tx, proof)
	if err != nil {
		return fail(err)
	}
	if !fresh {
		s.log.Warn().
			Str("tx_id", receipt.TransactionID).
			Str("network", receipt.Network).
			Msg("settled transaction already consumed, discarding duplicate")
		return nil, apperror.ErrProofReplayed()
	}

	if err := s.repos.Intents.Create(ctx, tx, intent); err != nil {
		return fail(err)
	}

	result := &ports.LedgerResult{PaymentSession: payment}

	applyErr := withSavepoint(ctx, tx, func(sp pgx.Tx) error {
		session := domain.NewInProgressSession(booking, amount, payment.ID, now)
		if err := s.repos.Sessions.Create(ctx, sp, session); err != nil {
			return err
		}
		result.DomainSession = session
		return nil
	})
	if applyErr != nil {
		result.DomainSession = nil
	} else {
		applyErr = withSavepoint(ctx, tx, func(sp pgx.Tx) error {
			loyalty, reward, err := s.accrue(ctx, sp, booking, amount)
			if err != nil {
				return err
			}
			if err := s.repos.Intents.MarkApplied(ctx, sp, intent.ID); err != nil {
				return err
			}
			result.Loyalty, result.Reward = loyalty, reward
			return nil
		})
	}

	if applyErr != nil {
		next := now.Add(domain.NextRetryDelay(0))
		if err := s.repos.Intents.MarkRetry(ctx, tx, intent.ID, domain.IntentStatusPending, 1, applyErr.Error(), next); err != nil {
			return fail(err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fail(fmt.Errorf("commit tx: %w", err))
	}

	if applyErr != nil {
		s.log.Error().
			Err(applyErr).
			Str("payment_session_id", payment.ID.String()).
			Str("intent_id", intent.ID.String()).
			Str("tx_id", payment.TransactionID).
			Msg("ledger write incomplete, payment preserved and intent queued for reconciliation")
		return &ports.LedgerResult{PaymentSession: payment, DomainSession: result.DomainSession}, apperror.ErrLedgerWrite(applyErr)
	}

	s.log.Info().
		Str("payment_session_id", payment.ID.String()).
		Str("domain_session_id", result.DomainSession.ID.String()).
		Str("kind", string(booking.Kind)).
		Int64("amount", amount).
		Msg("settlement recorded")

	return result, nil
}

// Apply finishes a pending intent. The domain session is created only if the
// payment does not already have one, so a retried intent never duplicates it.
func (s *LedgerServiceImpl) Apply(ctx context.Context, tx pgx.Tx, intent domain.LedgerIntent) error {
	var payload domain.IntentPayload
	if err := json.Unmarshal(intent.Payload, &payload); err != nil {
		return fmt.Errorf("decode intent payload: %w", err)
	}
	booking := payload.Booking()

	payment, err := s.repos.Payments.GetByIDTx(ctx, tx, intent.PaymentSessionID)
	if err != nil {
		return err
	}
	if payment == nil {
		return fmt.Errorf("payment session %s not found", intent.PaymentSessionID)
	}

	existing, err := s.repos.Sessions.GetByPaymentSession(ctx, tx, payment.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		session := domain.NewInProgressSession(booking, payload.Amount, payment.ID, s.now())
		if err := s.repos.Sessions.Create(ctx, tx, session); err != nil {
			return err
		}
	}

	if _, _, err := s.accrue(ctx, tx, booking, payload.Amount); err != nil {
		return err
	}
	return s.repos.Intents.MarkApplied(ctx, tx, intent.ID)
}

func (s *LedgerServiceImpl) accrue(ctx context.Context, tx pgx.Tx, booking domain.Booking, amount int64) (*domain.LoyaltyWallet, *domain.OperatorReward, error) {
	accrual := s.rates.AccrualFor(booking.Kind, amount)

	var loyalty *domain.LoyaltyWallet
	if booking.CustomerID != nil && *booking.CustomerID != "" {
		w, err := s.repos.Loyalty.Accrue(ctx, tx, *booking.CustomerID, booking.Kind, amount, accrual.Points)
		if err != nil {
			return nil, nil, err
		}
		loyalty = w
	}

	reward, err := s.repos.Rewards.Accrue(ctx, tx, booking.OperatorID, accrual.Commission)
	if err != nil {
		return nil, nil, err
	}
	return loyalty, reward, nil
}

// fallback records the irreducible minimum (payment, proof, intent) in a
// fresh transaction after the main one failed. If even that fails the
// settlement is logged as orphaned for manual reconciliation.
func (s *LedgerServiceImpl) fallback(ctx context.Context, payment *domain.PaymentSession, proof *domain.ConsumedProof, intent *domain.LedgerIntent, cause error) (*ports.LedgerResult, error) {
	result := &ports.LedgerResult{PaymentSession: payment}

	err := func() error {
		tx, err := s.transactor.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx) //nolint:errcheck

		if err := s.repos.Payments.Create(ctx, tx, payment); err != nil {
			return err
		}
		fresh, err := s.repos.Proofs.Insert(ctx, tx, proof)
		if err != nil {
			return err
		}
		if !fresh {
			return errProofConsumed
		}
		intent.Attempts = 1
		intent.NextAttemptAt = intent.CreatedAt.Add(domain.NextRetryDelay(0))
		lastErr := cause.Error()
		intent.LastError = &lastErr
		if err := s.repos.Intents.Create(ctx, tx, intent); err != nil {
			return err
		}
		return tx.Commit(ctx)
	}()

	if errors.Is(err, errProofConsumed) {
		return nil, apperror.ErrProofReplayed()
	}
	if err != nil {
		s.logOrphan(payment, fmt.Errorf("%v; fallback: %w", cause, err))
	} else {
		s.log.Error().
			Err(cause).
			Str("payment_session_id", payment.ID.String()).
			Str("intent_id", intent.ID.String()).
			Msg("ledger write failed, payment preserved by fallback and queued for reconciliation")
	}
	return result, apperror.ErrLedgerWrite(cause)
}

var errProofConsumed = errors.New("proof already consumed")

func (s *LedgerServiceImpl) logOrphan(payment *domain.PaymentSession, err error) {
	s.log.Error().
		Err(err).
		Str("payment_session_id", payment.ID.String()).
		Str("tx_id", payment.TransactionID).
		Str("network", payment.Network).
		Str("resource", payment.ResourcePath).
		Int64("amount", payment.Amount).
		Bool("orphaned", true).
		Msg("settled payment could not be persisted, manual reconciliation required")
}

func newIntent(paymentID uuid.UUID, booking domain.Booking, amount int64, receipt domain.SettlementReceipt, now time.Time) (*domain.LedgerIntent, error) {
	payload, err := json.Marshal(domain.NewIntentPayload(booking, amount, receipt))
	if err != nil {
		return nil, fmt.Errorf("marshal intent payload: %w", err)
	}
	return &domain.LedgerIntent{
		ID:               uuid.New(),
		PaymentSessionID: paymentID,
		Payload:          payload,
		Status:           domain.IntentStatusPending,
		NextAttemptAt:    now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// withSavepoint runs fn inside a nested transaction (a savepoint on tx),
// rolling back only the savepoint when fn fails.
func withSavepoint(ctx context.Context, tx pgx.Tx, fn func(pgx.Tx) error) error {
	sp, err := tx.Begin(ctx)
	if err != nil {
		return fmt.Errorf("open savepoint: %w", err)
	}
	if err := fn(sp); err != nil {
		if rbErr := sp.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("%w (rollback savepoint: %v)", err, rbErr)
		}
		return err
	}
	if err := sp.Commit(ctx); err != nil {
		return fmt.Errorf("release savepoint: %w", err)
	}
	return nil
}
