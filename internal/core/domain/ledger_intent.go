package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// IntentStatus is the reconciliation state of a ledger intent.
type IntentStatus string

const (
	IntentStatusPending IntentStatus = "pending"
	IntentStatusApplied IntentStatus = "applied"
	IntentStatusFailed  IntentStatus = "failed"
)

// LedgerIntent is the outbox record written with every settled payment.
// It carries everything needed to finish the ledger writes later, keyed by
// the payment session so replays of the intent are idempotent.
type LedgerIntent struct {
	ID               uuid.UUID       `json:"id"`
	PaymentSessionID uuid.UUID       `json:"payment_session_id"`
	Payload          json.RawMessage `json:"payload"`
	Status           IntentStatus    `json:"status"`
	Attempts         int             `json:"attempts"`
	LastError        *string         `json:"last_error,omitempty"`
	NextAttemptAt    time.Time       `json:"next_attempt_at"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// IntentPayload is the serialized booking stored in LedgerIntent.Payload.
type IntentPayload struct {
	Kind        Kind              `json:"kind"`
	Subtype     string            `json:"subtype"`
	VehicleID   string            `json:"vehicle_id"`
	BranchID    string            `json:"branch_id"`
	OperatorID  string            `json:"operator_id"`
	CustomerID  *string           `json:"customer_id,omitempty"`
	Description string            `json:"description,omitempty"`
	Mileage     *int              `json:"mileage,omitempty"`
	Amount      int64             `json:"amount"`
	Receipt     SettlementReceipt `json:"receipt"`
}

// NewIntentPayload captures a booking and its receipt.
func NewIntentPayload(b Booking, amount int64, r SettlementReceipt) IntentPayload {
	return IntentPayload{
		Kind:        b.Kind,
		Subtype:     b.Subtype,
		VehicleID:   b.VehicleID,
		BranchID:    b.BranchID,
		OperatorID:  b.OperatorID,
		CustomerID:  b.CustomerID,
		Description: b.Description,
		Mileage:     b.Mileage,
		Amount:      amount,
		Receipt:     r,
	}
}

// Booking rebuilds the booking the intent was written for.
func (p IntentPayload) Booking() Booking {
	return Booking{
		Kind:             p.Kind,
		Subtype:          p.Subtype,
		RequestedSubtype: p.Subtype,
		VehicleID:        p.VehicleID,
		BranchID:         p.BranchID,
		OperatorID:       p.OperatorID,
		CustomerID:       p.CustomerID,
		Description:      p.Description,
		Mileage:          p.Mileage,
	}
}

// RetryIntervals is the reconciler backoff schedule, indexed by attempt.
var RetryIntervals = []time.Duration{
	15 * time.Second,
	1 * time.Minute,
	2 * time.Minute,
	5 * time.Minute,
	10 * time.Minute,
	30 * time.Minute,
}

// NextRetryDelay returns the delay before attempt n+1.
func NextRetryDelay(attempts int) time.Duration {
	if attempts < 0 {
		attempts = 0
	}
	if attempts >= len(RetryIntervals) {
		return RetryIntervals[len(RetryIntervals)-1]
	}
	return RetryIntervals[attempts]
}
