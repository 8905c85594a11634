package dto

import (
	"encoding/json"

	"autocare-x402-gateway/internal/core/domain"
)

// StartServiceRequest is the body of POST /api/v1/service/start.
// Required fields are checked by the gate so that the error lists all of them.
type StartServiceRequest struct {
	VehicleID   string  `json:"vehicleId" binding:"omitempty,max=64,safe_id"`
	BranchID    string  `json:"branchId" binding:"omitempty,max=64,safe_id"`
	OperatorID  string  `json:"operatorId" binding:"omitempty,max=64,safe_id"`
	ServiceType string  `json:"serviceType" binding:"omitempty,max=32"`
	CustomerID  *string `json:"customerId,omitempty" binding:"omitempty,max=64,safe_id"`
	Description string  `json:"description,omitempty" binding:"max=500"`
	Mileage     *int    `json:"mileage,omitempty"`
}

// StartWashRequest is the body of POST /api/v1/wash/start.
type StartWashRequest struct {
	VehicleID  string  `json:"vehicleId" binding:"omitempty,max=64,safe_id"`
	BranchID   string  `json:"branchId" binding:"omitempty,max=64,safe_id"`
	OperatorID string  `json:"operatorId" binding:"omitempty,max=64,safe_id"`
	WashType   string  `json:"washType" binding:"omitempty,max=32"`
	CustomerID *string `json:"customerId,omitempty" binding:"omitempty,max=64,safe_id"`
}

// StartResponse is the 200 body of a settled gate call. Exactly one of
// ServiceSession and WashSession is set.
type StartResponse struct {
	Success        bool                      `json:"success"`
	ServiceSession *DomainSessionResponse    `json:"serviceSession,omitempty"`
	WashSession    *DomainSessionResponse    `json:"washSession,omitempty"`
	PaymentSession *PaymentSessionResponse   `json:"paymentSession"`
	SettlementInfo *domain.SettlementReceipt `json:"settlementInfo"`
}

// PaymentSessionResponse renders a payment session with a decimal amount.
type PaymentSessionResponse struct {
	ID         string  `json:"id"`
	Resource   string  `json:"resource"`
	Amount     string  `json:"amount"`
	Asset      string  `json:"asset"`
	Network    string  `json:"network"`
	TxHash     string  `json:"tx_hash"`
	Payer      string  `json:"payer,omitempty"`
	Status     string  `json:"status"`
	CustomerID *string `json:"customer_id,omitempty"`
	SettledAt  *string `json:"settled_at,omitempty"`
	CreatedAt  string  `json:"created_at"`
}

// DomainSessionResponse renders a service or wash session.
type DomainSessionResponse struct {
	ID               string  `json:"id"`
	Kind             string  `json:"kind"`
	ServiceType      string  `json:"service_type,omitempty"`
	WashType         string  `json:"wash_type,omitempty"`
	VehicleID        string  `json:"vehicle_id"`
	BranchID         string  `json:"branch_id"`
	OperatorID       string  `json:"operator_id"`
	CustomerID       *string `json:"customer_id,omitempty"`
	Description      string  `json:"description,omitempty"`
	Mileage          *int    `json:"mileage,omitempty"`
	Price            string  `json:"price_usdc"`
	Status           string  `json:"status"`
	PaymentSessionID string  `json:"payment_session_id"`
	CreatedAt        string  `json:"created_at"`
	CompletedAt      *string `json:"completed_at,omitempty"`
}

// PriceResponse is one catalog line.
type PriceResponse struct {
	Kind    string `json:"kind"`
	Type    string `json:"type"`
	Price   string `json:"price"`
	Asset   string `json:"asset"`
	Default bool   `json:"default"`
}

// LoyaltyResponse renders a customer's wallet.
type LoyaltyResponse struct {
	CustomerID   string `json:"customer_id"`
	Points       int64  `json:"points"`
	Tier         string `json:"tier"`
	TotalSpent   string `json:"total_spent_usdc"`
	ServiceCount int64  `json:"service_count"`
	WashCount    int64  `json:"wash_count"`
	UpdatedAt    string `json:"updated_at"`
}

// RewardResponse renders an operator's commission aggregate.
type RewardResponse struct {
	OperatorID string `json:"operator_id"`
	Earned     string `json:"earned_usdc"`
	Pending    string `json:"pending_usdc"`
	Paid       string `json:"paid_usdc"`
	JobCount   int64  `json:"job_count"`
	UpdatedAt  string `json:"updated_at"`
}

// PayoutRequest is the body of POST /api/v1/rewards/:operatorId/payout.
type PayoutRequest struct {
	Amount string `json:"amount" binding:"required,usdc_amount"`
}

// AdminTokenRequest is the body of POST /api/v1/admin/token.
type AdminTokenRequest struct {
	Secret string `json:"secret" binding:"required"`
}

// TokenResponse is an issued admin token.
type TokenResponse struct {
	Token  string `json:"token"`
	Expiry int64  `json:"expiry"` // Unix timestamp
}

// LedgerIntentResponse renders one reconciliation queue entry.
type LedgerIntentResponse struct {
	ID               string          `json:"id"`
	PaymentSessionID string          `json:"payment_session_id"`
	Status           string          `json:"status"`
	Attempts         int             `json:"attempts"`
	LastError        *string         `json:"last_error,omitempty"`
	NextAttemptAt    string          `json:"next_attempt_at"`
	CreatedAt        string          `json:"created_at"`
	UpdatedAt        string          `json:"updated_at"`
	Payload          json.RawMessage `json:"payload"`
}

// ReconcileResponse reports one manual reconciliation pass.
type ReconcileResponse struct {
	Applied int `json:"applied"`
	Failed  int `json:"failed"`
}
