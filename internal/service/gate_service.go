package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"autocare-x402-gateway/internal/core/domain"
	"autocare-x402-gateway/internal/core/ports"
	"autocare-x402-gateway/pkg/apperror"
	"autocare-x402-gateway/pkg/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// GateOptions configures the resource gate.
type GateOptions struct {
	// StrictSubtypes rejects unknown subtypes instead of pricing them as the kind's default.
	StrictSubtypes bool
	ProofTTL       time.Duration
	ReceiptTTL     time.Duration
	// PersistTimeout bounds the writes that follow a successful settlement.
	// They run detached from the request context.
	PersistTimeout time.Duration
}

const defaultPersistTimeout = 15 * time.Second

// GateServiceImpl implements ports.GateService. It is stateless between the
// unpaid and paid calls: requirements are recomputed from the request each time.
type GateServiceImpl struct {
	requirements *RequirementsBuilder
	settler      ports.Settler
	ledger       ports.LedgerService
	guard        ports.ProofGuard
	receipts     ports.ReceiptCache
	proofs       ports.ConsumedProofRepository
	audit        ports.AuditService
	opts         GateOptions
	log          zerolog.Logger
}

// NewGateService creates a new GateServiceImpl.
func NewGateService(
	requirements *RequirementsBuilder,
	settler ports.Settler,
	ledger ports.LedgerService,
	guard ports.ProofGuard,
	receipts ports.ReceiptCache,
	proofs ports.ConsumedProofRepository,
	audit ports.AuditService,
	opts GateOptions,
	log zerolog.Logger,
) *GateServiceImpl {
	if opts.PersistTimeout <= 0 {
		opts.PersistTimeout = defaultPersistTimeout
	}
	return &GateServiceImpl{
		requirements: requirements,
		settler:      settler,
		ledger:       ledger,
		guard:        guard,
		receipts:     receipts,
		proofs:       proofs,
		audit:        audit,
		opts:         opts,
		log:          log,
	}
}

// Start runs one gate attempt. Without a proof it returns the payment
// requirements; with one it settles and records the booking.
func (s *GateServiceImpl) Start(ctx context.Context, req ports.StartRequest) (*ports.GateResult, error) {
	booking, err := s.validate(req)
	if err != nil {
		metrics.GateOutcomes.WithLabelValues(string(req.Kind), "invalid").Inc()
		return nil, err
	}

	requirements := s.requirements.ForBooking(booking.Kind, booking.Subtype)
	price := domain.PriceOf(booking.Kind, booking.Subtype)

	proof := strings.TrimSpace(req.Proof)
	if proof == "" {
		metrics.GateOutcomes.WithLabelValues(string(booking.Kind), "payment_required").Inc()
		s.log.Debug().
			Str("resource", requirements.ResourcePath).
			Str("price", requirements.Price).
			Msg("payment required")
		return &ports.GateResult{Outcome: ports.OutcomePaymentRequired, Requirements: requirements}, nil
	}

	fingerprint := domain.ProofFingerprint(proof)

	if replayed, err := s.claim(ctx, fingerprint); err != nil {
		return nil, err
	} else if replayed {
		return s.replayed(ctx, req, booking, fingerprint, requirements)
	}

	receipt, err := s.settler.Settle(ctx, proof, requirements)
	if err != nil {
		s.release(ctx, fingerprint)
		metrics.GateOutcomes.WithLabelValues(string(booking.Kind), "rejected").Inc()
		s.record(ctx, req, domain.AuditActionRejected, requirements.ResourcePath, err.Error())
		s.log.Warn().
			Err(err).
			Str("resource", requirements.ResourcePath).
			Msg("payment rejected")
		return nil, err
	}

	// Funds have moved; the request context no longer governs what happens next.
	persistCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.PersistTimeout)
	defer cancel()

	result := &ports.GateResult{
		Outcome:      ports.OutcomeSettled,
		Requirements: requirements,
		Receipt:      receipt,
	}

	ledger, err := s.ledger.Record(persistCtx, booking, price, *receipt, fingerprint)
	if ledger != nil {
		result.PaymentSession = ledger.PaymentSession
		result.DomainSession = ledger.DomainSession
	}
	if err != nil {
		if apperror.HasCode(err, apperror.CodeProofReplayed) {
			return s.replayed(persistCtx, req, booking, fingerprint, requirements)
		}
		metrics.GateOutcomes.WithLabelValues(string(booking.Kind), "ledger_failed").Inc()
		resourceID := receipt.TransactionID
		if result.PaymentSession != nil {
			resourceID = result.PaymentSession.ID.String()
		}
		s.record(persistCtx, req, domain.AuditActionLedgerFailed, resourceID, err.Error())
		return result, err
	}

	if err := s.receipts.Set(persistCtx, fingerprint, *receipt, s.opts.ReceiptTTL); err != nil {
		s.log.Warn().Err(err).Msg("failed to cache settlement receipt")
	}

	if micros, err := receipt.AmountMicros(); err == nil {
		metrics.SettledAmount.WithLabelValues(receipt.Asset).Add(float64(micros))
	}
	metrics.GateOutcomes.WithLabelValues(string(booking.Kind), "settled").Inc()
	s.record(persistCtx, req, domain.AuditActionSettled, result.PaymentSession.ID.String(), receipt.TransactionID)

	return result, nil
}

// validate checks business fields before anything touches payment.
func (s *GateServiceImpl) validate(req ports.StartRequest) (domain.Booking, error) {
	if !req.Kind.Valid() {
		return domain.Booking{}, apperror.Validation(fmt.Sprintf("unknown resource kind %q", req.Kind))
	}

	vehicleID := strings.TrimSpace(req.VehicleID)
	branchID := strings.TrimSpace(req.BranchID)
	operatorID := strings.TrimSpace(req.OperatorID)
	subtype := strings.TrimSpace(req.Subtype)

	if vehicleID == "" || branchID == "" || operatorID == "" || subtype == "" {
		return domain.Booking{}, apperror.Validation(fmt.Sprintf(
			"Missing required fields: vehicleId, branchId, operatorId, %s", req.Kind.TypeField()))
	}
	if req.Mileage != nil && *req.Mileage < 0 {
		return domain.Booking{}, apperror.Validation("mileage must not be negative")
	}

	resolved, fellBack := domain.ResolveSubtype(req.Kind, subtype)
	if fellBack {
		if s.opts.StrictSubtypes {
			return domain.Booking{}, apperror.Validation(fmt.Sprintf(
				"Unknown %s %q; expected one of: %s",
				req.Kind.TypeField(), subtype, strings.Join(domain.Subtypes(req.Kind), ", ")))
		}
		s.log.Warn().
			Str("kind", string(req.Kind)).
			Str("requested", subtype).
			Str("resolved", resolved).
			Msg("unknown subtype, pricing as default")
	}

	var customerID *string
	if req.CustomerID != nil && strings.TrimSpace(*req.CustomerID) != "" {
		c := strings.TrimSpace(*req.CustomerID)
		customerID = &c
	}

	return domain.Booking{
		Kind:             req.Kind,
		Subtype:          resolved,
		RequestedSubtype: subtype,
		VehicleID:        vehicleID,
		BranchID:         branchID,
		OperatorID:       operatorID,
		CustomerID:       customerID,
		Description:      strings.TrimSpace(req.Description),
		Mileage:          req.Mileage,
	}, nil
}

// claim reports whether fingerprint was already used. Redis answers first;
// when it is unavailable the durable consumed-proof set still catches replays.
func (s *GateServiceImpl) claim(ctx context.Context, fingerprint string) (bool, error) {
	claimed, err := s.guard.Claim(ctx, fingerprint, s.opts.ProofTTL)
	if err != nil {
		s.log.Warn().Err(err).Msg("proof guard unavailable, falling through to database")
		claimed = true
	}
	if !claimed {
		return true, nil
	}

	exists, err := s.proofs.Exists(ctx, fingerprint)
	if err != nil {
		s.release(ctx, fingerprint)
		return false, apperror.ErrDatabaseError(fmt.Errorf("check consumed proof: %w", err))
	}
	return exists, nil
}

func (s *GateServiceImpl) release(ctx context.Context, fingerprint string) {
	if err := s.guard.Release(ctx, fingerprint); err != nil {
		s.log.Warn().Err(err).Msg("failed to release proof claim")
	}
}

func (s *GateServiceImpl) replayed(ctx context.Context, req ports.StartRequest, booking domain.Booking, fingerprint string, requirements domain.PaymentRequirements) (*ports.GateResult, error) {
	metrics.GateOutcomes.WithLabelValues(string(booking.Kind), "replayed").Inc()
	s.record(ctx, req, domain.AuditActionReplayed, requirements.ResourcePath, fingerprint)

	result := &ports.GateResult{Requirements: requirements}
	if cached, err := s.receipts.Get(ctx, fingerprint); err != nil {
		s.log.Warn().Err(err).Msg("failed to read cached receipt")
	} else {
		result.Receipt = cached
	}
	return result, apperror.ErrProofReplayed()
}

func (s *GateServiceImpl) record(ctx context.Context, req ports.StartRequest, action domain.AuditAction, resourceID, details string) {
	s.audit.Log(ctx, &domain.AuditLog{
		ID:           uuid.New(),
		ActorID:      req.CustomerID,
		Action:       action,
		ResourceType: string(req.Kind) + "_session",
		ResourceID:   resourceID,
		Details:      details,
		IPAddress:    req.ClientIP,
		CreatedAt:    time.Now().UTC(),
	})
}
