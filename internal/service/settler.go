package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"autocare-x402-gateway/internal/core/domain"
	"autocare-x402-gateway/internal/core/ports"
	"autocare-x402-gateway/pkg/apperror"
	"autocare-x402-gateway/pkg/metrics"

	"github.com/rs/zerolog"
)

// invalidPayloadReason is the facilitator reason for proofs it cannot parse.
const invalidPayloadReason = "invalid_payload"

// SettlerImpl implements ports.Settler on top of a facilitator.
type SettlerImpl struct {
	facilitator ports.Facilitator
	timeout     time.Duration
	now         func() time.Time
	log         zerolog.Logger
}

// NewSettler creates a settler. timeout bounds verify and settle together.
func NewSettler(facilitator ports.Facilitator, timeout time.Duration, log zerolog.Logger) *SettlerImpl {
	return &SettlerImpl{
		facilitator: facilitator,
		timeout:     timeout,
		now:         func() time.Time { return time.Now().UTC() },
		log:         log,
	}
}

// Settle verifies and settles proof, then checks that what was settled is
// exactly what requirements asked for.
func (s *SettlerImpl) Settle(ctx context.Context, proof string, requirements domain.PaymentRequirements) (*domain.SettlementReceipt, error) {
	if strings.TrimSpace(proof) == "" {
		return nil, apperror.ErrProofMalformed(errors.New("empty payment proof"))
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	receipt, err := s.settle(ctx, proof, requirements)
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.SettlementDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())

	return receipt, err
}

func (s *SettlerImpl) settle(ctx context.Context, proof string, requirements domain.PaymentRequirements) (*domain.SettlementReceipt, error) {
	verify, err := s.facilitator.Verify(ctx, proof, requirements)
	if err != nil {
		return nil, s.failure(ctx, "verify", err)
	}
	if !verify.IsValid {
		if verify.InvalidReason == invalidPayloadReason {
			return nil, apperror.ErrProofMalformed(errors.New(verify.InvalidReason))
		}
		return nil, apperror.ErrSettlementFailure(fmt.Errorf("payment rejected: %s", verify.InvalidReason))
	}

	settled, err := s.facilitator.Settle(ctx, proof, requirements)
	if err != nil {
		return nil, s.failure(ctx, "settle", err)
	}
	if !settled.Success {
		return nil, apperror.ErrSettlementFailure(fmt.Errorf("settlement declined: %s", settled.ErrorReason))
	}
	if strings.TrimSpace(settled.Transaction) == "" {
		return nil, apperror.ErrSettlementFailure(errors.New("facilitator returned no transaction id"))
	}

	payer := settled.Payer
	if payer == "" {
		payer = verify.Payer
	}

	receipt := &domain.SettlementReceipt{
		Verified:      true,
		TransactionID: settled.Transaction,
		Amount:        settled.Amount,
		Asset:         settled.Asset,
		Network:       settled.Network,
		Payer:         payer,
		Timestamp:     s.now(),
	}

	if err := matchRequirements(receipt, requirements); err != nil {
		s.log.Warn().
			Err(err).
			Str("tx_id", receipt.TransactionID).
			Str("resource", requirements.ResourcePath).
			Msg("settlement does not match requirements")
		return nil, apperror.ErrSettlementMismatch(err)
	}

	return receipt, nil
}

func (s *SettlerImpl) failure(ctx context.Context, step string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return apperror.ErrSettlementFailure(fmt.Errorf("facilitator %s timed out after %s", step, s.timeout))
	}
	return apperror.ErrSettlementFailure(fmt.Errorf("facilitator %s: %w", step, err))
}

// matchRequirements enforces exact amount, asset and network equality and
// normalizes the receipt amount to six decimals.
func matchRequirements(r *domain.SettlementReceipt, req domain.PaymentRequirements) error {
	want, err := req.Amount()
	if err != nil {
		return fmt.Errorf("requirements price: %w", err)
	}
	got, err := r.AmountMicros()
	if err != nil {
		return fmt.Errorf("settled amount: %w", err)
	}
	if got != want {
		return fmt.Errorf("amount mismatch: settled %s, required %s", domain.FormatAmount(got), req.Price)
	}
	if r.Asset != req.Asset {
		return fmt.Errorf("asset mismatch: settled %q, required %q", r.Asset, req.Asset)
	}
	if r.Network != req.Network && (req.NetworkID == "" || r.Network != req.NetworkID) {
		return fmt.Errorf("network mismatch: settled %q, required %q", r.Network, req.Network)
	}
	r.Amount = domain.FormatAmount(got)
	return nil
}
