package domain

import (
	"time"

	"github.com/google/uuid"
)

// PaymentStatus represents the lifecycle state of a payment session.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// PaymentSession is the persisted record of a settled payment. Amount is in
// atomic units of Asset.
type PaymentSession struct {
	ID            uuid.UUID     `json:"id"`
	ResourcePath  string        `json:"resource"`
	Amount        int64         `json:"amount"`
	Asset         string        `json:"asset"`
	Network       string        `json:"network"`
	TransactionID string        `json:"tx_hash"`
	Payer         string        `json:"payer,omitempty"`
	Status        PaymentStatus `json:"status"`
	CustomerID    *string       `json:"customer_id,omitempty"`
	SettledAt     *time.Time    `json:"settled_at,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}

// IsTerminal returns true if the payment can no longer change state.
func (p *PaymentSession) IsTerminal() bool {
	return p.Status == PaymentStatusPaid || p.Status == PaymentStatusFailed
}

// NewPaidSession builds the paid session for a confirmed receipt.
func NewPaidSession(resourcePath string, amount int64, r SettlementReceipt, customerID *string, now time.Time) *PaymentSession {
	settledAt := now
	return &PaymentSession{
		ID:            uuid.New(),
		ResourcePath:  resourcePath,
		Amount:        amount,
		Asset:         r.Asset,
		Network:       r.Network,
		TransactionID: r.TransactionID,
		Payer:         r.Payer,
		Status:        PaymentStatusPaid,
		CustomerID:    customerID,
		SettledAt:     &settledAt,
		CreatedAt:     now,
	}
}
