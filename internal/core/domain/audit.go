package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of audited action.
type AuditAction string

const (
	AuditActionPaymentRequired AuditAction = "gate.payment_required"
	AuditActionRejected        AuditAction = "gate.rejected"
	AuditActionReplayed        AuditAction = "gate.replayed"
	AuditActionSettled         AuditAction = "gate.settled"
	AuditActionLedgerFailed    AuditAction = "gate.ledger_failed"
	AuditActionReconciled      AuditAction = "ledger.reconciled"
	AuditActionSessionStatus   AuditAction = "session.status"
	AuditActionPayout          AuditAction = "reward.payout"
	AuditActionAdminToken      AuditAction = "admin.token"
	AuditActionReconcileRun    AuditAction = "admin.reconcile"
)

// AuditLog records a single audited action in the system.
type AuditLog struct {
	ID           uuid.UUID   `json:"id"`
	ActorID      *string     `json:"actor_id,omitempty"`
	Action       AuditAction `json:"action"`
	ResourceType string      `json:"resource_type"`
	ResourceID   string      `json:"resource_id,omitempty"`
	Details      string      `json:"details,omitempty"`
	IPAddress    string      `json:"ip_address"`
	CreatedAt    time.Time   `json:"created_at"`
}
