package domain

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"
)

const (
	// HeaderPayment carries the client's opaque payment proof.
	HeaderPayment = "X-Payment"
	// HeaderPaymentResponse echoes the settlement receipt to the client.
	HeaderPaymentResponse = "X-Payment-Response"

	X402Version = 1
	SchemeExact = "exact"
)

// PaymentRequirements describes what must be paid to unlock a resource.
// Always derived from the catalog and server configuration, never from the client.
type PaymentRequirements struct {
	ResourcePath      string `json:"resourcePath"`
	Price             string `json:"price"`
	Asset             string `json:"asset"`
	Network           string `json:"network"`
	Recipient         string `json:"recipient"`
	FacilitatorURL    string `json:"facilitatorUrl"`
	Scheme            string `json:"scheme"`
	MaxAmountRequired string `json:"maxAmountRequired"`
	NetworkID         string `json:"networkId,omitempty"`
	Description       string `json:"description,omitempty"`
	MaxTimeoutSeconds int    `json:"maxTimeoutSeconds"`
}

// Amount returns the required price in atomic units.
func (r PaymentRequirements) Amount() (int64, error) {
	return ParseAmount(r.Price)
}

// SettlementReceipt is the facilitator-confirmed outcome of a settled proof.
type SettlementReceipt struct {
	Verified      bool      `json:"verified"`
	TransactionID string    `json:"transactionId"`
	Amount        string    `json:"amount"`
	Asset         string    `json:"asset"`
	Network       string    `json:"network"`
	Payer         string    `json:"payer,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// AmountMicros returns the settled amount in atomic units.
func (r SettlementReceipt) AmountMicros() (int64, error) {
	return ParseAmount(r.Amount)
}

// EncodeHeader serializes the receipt as base64 JSON for HeaderPaymentResponse.
func (r SettlementReceipt) EncodeHeader() (string, error) {
	raw, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("marshal receipt: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// DecodeReceiptHeader parses a HeaderPaymentResponse value.
func DecodeReceiptHeader(encoded string) (SettlementReceipt, error) {
	var r SettlementReceipt

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return r, fmt.Errorf("decode receipt base64: %w", err)
	}
	if err := json.Unmarshal(raw, &r); err != nil {
		return r, fmt.Errorf("unmarshal receipt: %w", err)
	}
	return r, nil
}

// DemoProof is the proof body produced by the development signer and
// understood by the simulated facilitator. Real signers produce their own
// formats; the gate never looks inside a proof.
type DemoProof struct {
	TxHash    string `json:"txHash"`
	Amount    string `json:"amount"`
	Asset     string `json:"asset"`
	Network   string `json:"network"`
	Recipient string `json:"recipient"`
	Payer     string `json:"payer,omitempty"`
	Timestamp int64  `json:"timestamp"` // unix millis
}

// Encode returns the base64 JSON form sent in HeaderPayment.
func (p DemoProof) Encode() (string, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("marshal proof: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// DecodeDemoProof accepts base64 JSON or bare JSON.
func DecodeDemoProof(proof string) (DemoProof, error) {
	var p DemoProof

	raw := []byte(proof)
	if decoded, err := base64.StdEncoding.DecodeString(proof); err == nil {
		raw = decoded
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return p, fmt.Errorf("unmarshal proof: %w", err)
	}
	if p.TxHash == "" {
		return p, fmt.Errorf("proof has no txHash")
	}
	return p, nil
}
