package ports

import (
	"context"
	"time"

	"autocare-x402-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// --- Payment collaborators ---

// VerifyResult is the facilitator's answer to a verify call.
type VerifyResult struct {
	IsValid       bool
	InvalidReason string
	Payer         string
}

// SettleResult is the facilitator's answer to a settle call. Amount and
// Asset echo what was actually transferred.
type SettleResult struct {
	Success     bool
	ErrorReason string
	Transaction string
	Network     string
	Asset       string
	Amount      string
	Payer       string
}

// Facilitator verifies and settles opaque payment proofs.
type Facilitator interface {
	Verify(ctx context.Context, proof string, requirements domain.PaymentRequirements) (*VerifyResult, error)
	Settle(ctx context.Context, proof string, requirements domain.PaymentRequirements) (*SettleResult, error)
}

// Settler turns a proof into a receipt that matches requirements exactly,
// or returns a payment apperror.
type Settler interface {
	Settle(ctx context.Context, proof string, requirements domain.PaymentRequirements) (*domain.SettlementReceipt, error)
}

// ProofGuard is the fast-path replay check (Redis).
type ProofGuard interface {
	// Claim atomically marks fingerprint as in use. Returns false if it already was.
	Claim(ctx context.Context, fingerprint string, ttl time.Duration) (bool, error)
	// Release frees a claim whose settlement did not go through.
	Release(ctx context.Context, fingerprint string) error
}

// ReceiptCache remembers receipts by proof fingerprint so replays can be answered with them.
type ReceiptCache interface {
	Get(ctx context.Context, fingerprint string) (*domain.SettlementReceipt, error)
	Set(ctx context.Context, fingerprint string, receipt domain.SettlementReceipt, ttl time.Duration) error
}

// TokenService handles admin JWT token operations.
type TokenService interface {
	Generate(subject string, role string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	Subject string
	Role    string
}

// AuthService issues admin tokens against the configured bootstrap secret.
type AuthService interface {
	Login(ctx context.Context, secret string) (*LoginResponse, error)
}

// LoginResponse is an issued admin token.
type LoginResponse struct {
	Token     string
	ExpiresAt time.Time
}

// AuditService records audit entries asynchronously.
type AuditService interface {
	Log(ctx context.Context, entry *domain.AuditLog)
}

// --- Service Ports (Business Logic) ---

// StartRequest is an inbound booking, with or without a payment proof.
type StartRequest struct {
	Kind        domain.Kind
	Subtype     string
	VehicleID   string
	BranchID    string
	OperatorID  string
	CustomerID  *string
	Description string
	Mileage     *int
	Proof       string
	ClientIP    string
}

// GateOutcome is the non-error result of a gate call.
type GateOutcome string

const (
	OutcomePaymentRequired GateOutcome = "payment_required"
	OutcomeSettled         GateOutcome = "settled"
)

// GateResult carries what the gate produced. On a LED_001 error the result
// is still returned with the receipt and the preserved payment session.
type GateResult struct {
	Outcome        GateOutcome
	Requirements   domain.PaymentRequirements
	Receipt        *domain.SettlementReceipt
	PaymentSession *domain.PaymentSession
	DomainSession  *domain.DomainSession
}

// GateService is the payment-gated resource server.
type GateService interface {
	Start(ctx context.Context, req StartRequest) (*GateResult, error)
}

// LedgerResult is what one ledger write produced.
type LedgerResult struct {
	PaymentSession *domain.PaymentSession
	DomainSession  *domain.DomainSession
	Loyalty        *domain.LoyaltyWallet
	Reward         *domain.OperatorReward
}

// LedgerService records settled bookings.
type LedgerService interface {
	// Record persists a settlement. On LED_001 the returned result holds the
	// preserved payment session and a pending ledger intent exists for it.
	Record(ctx context.Context, booking domain.Booking, amount int64, receipt domain.SettlementReceipt, fingerprint string) (*LedgerResult, error)
	// Apply finishes a pending intent inside tx. Safe to call more than once.
	Apply(ctx context.Context, tx pgx.Tx, intent domain.LedgerIntent) error
}

// ReconcilerService drives pending ledger intents to completion.
type ReconcilerService interface {
	RunOnce(ctx context.Context) (applied int, failed int, err error)
	ListIntents(ctx context.Context, status *domain.IntentStatus, limit int) ([]domain.LedgerIntent, error)
}

// SessionService manages unlocked sessions after payment.
type SessionService interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.DomainSession, error)
	Transition(ctx context.Context, id uuid.UUID, to domain.SessionStatus, actor string) (*domain.DomainSession, error)
}

// RewardService exposes loyalty and operator reward aggregates.
type RewardService interface {
	Loyalty(ctx context.Context, customerID string) (*domain.LoyaltyWallet, error)
	Reward(ctx context.Context, operatorID string) (*domain.OperatorReward, error)
	Payout(ctx context.Context, operatorID string, amount int64, actor string) (*domain.OperatorReward, error)
}
