package dto

import (
	"time"

	"autocare-x402-gateway/internal/core/domain"
)

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

// NewPaymentSessionResponse renders p, or nil.
func NewPaymentSessionResponse(p *domain.PaymentSession) *PaymentSessionResponse {
	if p == nil {
		return nil
	}
	return &PaymentSessionResponse{
		ID:         p.ID.String(),
		Resource:   p.ResourcePath,
		Amount:     domain.FormatAmount(p.Amount),
		Asset:      p.Asset,
		Network:    p.Network,
		TxHash:     p.TransactionID,
		Payer:      p.Payer,
		Status:     string(p.Status),
		CustomerID: p.CustomerID,
		SettledAt:  formatTimePtr(p.SettledAt),
		CreatedAt:  formatTime(p.CreatedAt),
	}
}

// NewDomainSessionResponse renders s, or nil. The subtype lands in
// service_type or wash_type depending on the kind.
func NewDomainSessionResponse(s *domain.DomainSession) *DomainSessionResponse {
	if s == nil {
		return nil
	}
	out := &DomainSessionResponse{
		ID:               s.ID.String(),
		Kind:             string(s.Kind),
		VehicleID:        s.VehicleID,
		BranchID:         s.BranchID,
		OperatorID:       s.OperatorID,
		CustomerID:       s.CustomerID,
		Price:            domain.FormatAmount(s.Price),
		Status:           string(s.Status),
		PaymentSessionID: s.PaymentSessionID.String(),
		CreatedAt:        formatTime(s.CreatedAt),
		CompletedAt:      formatTimePtr(s.CompletedAt),
	}
	if s.Kind == domain.KindService {
		out.ServiceType = s.Subtype
		if s.Service != nil {
			out.Description = s.Service.Description
			out.Mileage = s.Service.Mileage
		}
	} else {
		out.WashType = s.Subtype
	}
	return out
}

// NewStartResponse renders a settled gate call.
func NewStartResponse(session *domain.DomainSession, payment *domain.PaymentSession, receipt *domain.SettlementReceipt) StartResponse {
	resp := StartResponse{
		Success:        true,
		PaymentSession: NewPaymentSessionResponse(payment),
		SettlementInfo: receipt,
	}
	rendered := NewDomainSessionResponse(session)
	if session != nil && session.Kind == domain.KindService {
		resp.ServiceSession = rendered
	} else {
		resp.WashSession = rendered
	}
	return resp
}

// NewLoyaltyResponse renders a customer's wallet.
func NewLoyaltyResponse(w *domain.LoyaltyWallet) LoyaltyResponse {
	return LoyaltyResponse{
		CustomerID:   w.CustomerID,
		Points:       w.Points,
		Tier:         string(w.Tier),
		TotalSpent:   domain.FormatAmount(w.TotalSpent),
		ServiceCount: w.ServiceCount,
		WashCount:    w.WashCount,
		UpdatedAt:    formatTime(w.UpdatedAt),
	}
}

// NewRewardResponse renders an operator's aggregate.
func NewRewardResponse(r *domain.OperatorReward) RewardResponse {
	return RewardResponse{
		OperatorID: r.OperatorID,
		Earned:     domain.FormatAmount(r.Earned),
		Pending:    domain.FormatAmount(r.Pending),
		Paid:       domain.FormatAmount(r.Paid),
		JobCount:   r.JobCount,
		UpdatedAt:  formatTime(r.UpdatedAt),
	}
}

// NewLedgerIntentResponse renders a reconciliation queue entry.
func NewLedgerIntentResponse(i domain.LedgerIntent) LedgerIntentResponse {
	return LedgerIntentResponse{
		ID:               i.ID.String(),
		PaymentSessionID: i.PaymentSessionID.String(),
		Status:           string(i.Status),
		Attempts:         i.Attempts,
		LastError:        i.LastError,
		NextAttemptAt:    formatTime(i.NextAttemptAt),
		CreatedAt:        formatTime(i.CreatedAt),
		UpdatedAt:        formatTime(i.UpdatedAt),
		Payload:          i.Payload,
	}
}
