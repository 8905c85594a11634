package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// SessionStatus is the lifecycle state of a service or wash session.
type SessionStatus string

const (
	SessionStatusPending    SessionStatus = "pending"
	SessionStatusInProgress SessionStatus = "in_progress"
	SessionStatusCompleted  SessionStatus = "completed"
	SessionStatusCancelled  SessionStatus = "cancelled"
)

var sessionTransitions = map[SessionStatus][]SessionStatus{
	SessionStatusPending:    {SessionStatusInProgress, SessionStatusCancelled},
	SessionStatusInProgress: {SessionStatusCompleted, SessionStatusCancelled},
}

// CanTransition reports whether a session may move from s to next.
func (s SessionStatus) CanTransition(next SessionStatus) bool {
	for _, allowed := range sessionTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal returns true for completed and cancelled sessions.
func (s SessionStatus) IsTerminal() bool {
	return s == SessionStatusCompleted || s == SessionStatusCancelled
}

// ServiceDetails is the service-only part of a domain session.
type ServiceDetails struct {
	Description string `json:"description"`
	Mileage     *int   `json:"mileage,omitempty"`
}

// DomainSession is the unit of work unlocked by a payment. Kind selects
// which variant it is; Service is set only for KindService.
type DomainSession struct {
	ID               uuid.UUID       `json:"id"`
	Kind             Kind            `json:"kind"`
	VehicleID        string          `json:"vehicle_id"`
	BranchID         string          `json:"branch_id"`
	OperatorID       string          `json:"operator_id"`
	CustomerID       *string         `json:"customer_id,omitempty"`
	Subtype          string          `json:"type"`
	Price            int64           `json:"price"`
	Status           SessionStatus   `json:"status"`
	PaymentSessionID uuid.UUID       `json:"payment_session_id"`
	Service          *ServiceDetails `json:"service,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	CompletedAt      *time.Time      `json:"completed_at,omitempty"`
}

// Booking is a validated request to start a paid session.
type Booking struct {
	Kind             Kind
	Subtype          string // resolved against the catalog
	RequestedSubtype string
	VehicleID        string
	BranchID         string
	OperatorID       string
	CustomerID       *string
	Description      string
	Mileage          *int
}

// DefaultDescription is used when a service booking carries none.
func DefaultDescription(subtype string) string {
	return strings.ReplaceAll(subtype, "_", " ") + " service"
}

// NewInProgressSession builds the session unlocked by payment.
func NewInProgressSession(b Booking, price int64, paymentID uuid.UUID, now time.Time) *DomainSession {
	s := &DomainSession{
		ID:               uuid.New(),
		Kind:             b.Kind,
		VehicleID:        b.VehicleID,
		BranchID:         b.BranchID,
		OperatorID:       b.OperatorID,
		CustomerID:       b.CustomerID,
		Subtype:          b.Subtype,
		Price:            price,
		Status:           SessionStatusInProgress,
		PaymentSessionID: paymentID,
		CreatedAt:        now,
	}
	if b.Kind == KindService {
		desc := b.Description
		if desc == "" {
			desc = DefaultDescription(b.Subtype)
		}
		s.Service = &ServiceDetails{Description: desc, Mileage: b.Mileage}
	}
	return s
}
