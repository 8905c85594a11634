package facilitator

import (
	"context"
	"strings"

	"autocare-x402-gateway/internal/core/domain"
	"autocare-x402-gateway/internal/core/ports"

	"github.com/rs/zerolog"
)

// Simulated is an in-process facilitator for development. It trusts the
// demo proof format and reports exactly what the proof claims, leaving
// amount and asset matching to the settler.
type Simulated struct {
	log zerolog.Logger
}

// NewSimulated creates a simulated facilitator.
func NewSimulated(log zerolog.Logger) *Simulated {
	return &Simulated{log: log}
}

func (s *Simulated) Verify(_ context.Context, proof string, requirements domain.PaymentRequirements) (*ports.VerifyResult, error) {
	p, err := domain.DecodeDemoProof(proof)
	if err != nil {
		return &ports.VerifyResult{IsValid: false, InvalidReason: "invalid_payload"}, nil
	}
	if p.Recipient != "" && !strings.EqualFold(p.Recipient, requirements.Recipient) {
		return &ports.VerifyResult{IsValid: false, InvalidReason: "invalid_recipient", Payer: p.Payer}, nil
	}
	return &ports.VerifyResult{IsValid: true, Payer: p.Payer}, nil
}

func (s *Simulated) Settle(_ context.Context, proof string, requirements domain.PaymentRequirements) (*ports.SettleResult, error) {
	p, err := domain.DecodeDemoProof(proof)
	if err != nil {
		return &ports.SettleResult{Success: false, ErrorReason: "invalid_payload"}, nil
	}

	network := p.Network
	if network == "" {
		network = requirements.Network
	}

	s.log.Debug().
		Str("tx_hash", p.TxHash).
		Str("amount", p.Amount).
		Str("resource", requirements.ResourcePath).
		Msg("simulated settlement")

	return &ports.SettleResult{
		Success:     true,
		Transaction: p.TxHash,
		Network:     network,
		Asset:       p.Asset,
		Amount:      p.Amount,
		Payer:       p.Payer,
	}, nil
}
