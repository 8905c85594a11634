package domain

import (
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
)

// ConsumedProof marks a proof (and the transaction it settled) as used.
type ConsumedProof struct {
	Fingerprint      string    `json:"fingerprint"`
	TransactionID    string    `json:"transaction_id"`
	PaymentSessionID uuid.UUID `json:"payment_session_id"`
	CreatedAt        time.Time `json:"created_at"`
}

// ProofFingerprint is a stable digest of an opaque proof, so the proof
// itself is never stored or logged.
func ProofFingerprint(proof string) string {
	sum := blake2b.Sum256([]byte(strings.TrimSpace(proof)))
	return hex.EncodeToString(sum[:])
}

// TransactionKey normalizes a transaction id for uniqueness checks.
func TransactionKey(network, txID string) string {
	return network + ":" + strings.ToLower(strings.TrimSpace(txID))
}
