package client

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"autocare-x402-gateway/internal/core/domain"
)

// Signer turns payment requirements into an opaque proof for the X-Payment
// header. Implementations own the proof format.
type Signer interface {
	Sign(ctx context.Context, requirements domain.PaymentRequirements) (string, error)
}

// SignerFunc adapts a function to Signer.
type SignerFunc func(ctx context.Context, requirements domain.PaymentRequirements) (string, error)

// Sign calls f.
func (f SignerFunc) Sign(ctx context.Context, requirements domain.PaymentRequirements) (string, error) {
	return f(ctx, requirements)
}

// DevSigner produces demo proofs understood by the simulated facilitator.
// It signs nothing; every call yields a fresh random transaction hash.
type DevSigner struct {
	Payer string
	// Underpay is subtracted from the required amount, in atomic units.
	// Used to exercise the settlement mismatch path.
	Underpay int64

	now func() time.Time
}

// NewDevSigner creates a DevSigner paying from payer.
func NewDevSigner(payer string) *DevSigner {
	return &DevSigner{Payer: payer, now: time.Now}
}

func (s *DevSigner) Sign(ctx context.Context, requirements domain.PaymentRequirements) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	amount, err := requirements.Amount()
	if err != nil {
		return "", fmt.Errorf("requirements price: %w", err)
	}
	amount -= s.Underpay

	txHash, err := randomTxHash()
	if err != nil {
		return "", err
	}

	now := time.Now
	if s.now != nil {
		now = s.now
	}

	return domain.DemoProof{
		TxHash:    txHash,
		Amount:    domain.FormatAmount(amount),
		Asset:     requirements.Asset,
		Network:   requirements.Network,
		Recipient: requirements.Recipient,
		Payer:     s.Payer,
		Timestamp: now().UnixMilli(),
	}.Encode()
}

func randomTxHash() (string, error) {
	var b [32]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("generate tx hash: %w", err)
	}
	return "0x" + hex.EncodeToString(b[:]), nil
}
