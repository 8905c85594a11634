package service

import (
	"testing"

	"autocare-x402-gateway/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequirementsBuilder_ForBooking_WashPremium(t *testing.T) {
	b := NewRequirementsBuilder(testX402Config())

	req := b.ForBooking(domain.KindWash, domain.WashPremium)

	assert.Equal(t, "/api/v1/wash/start?type=premium", req.ResourcePath)
	assert.Equal(t, "18.000000", req.Price)
	assert.Equal(t, "18000000", req.MaxAmountRequired)
	assert.Equal(t, "USDC", req.Asset)
	assert.Equal(t, "avalanche-fuji", req.Network)
	assert.Equal(t, "eip155:43113", req.NetworkID)
	assert.Equal(t, "0x742d35Cc6634C0532925a3b844Bc9e7595f8fCE8", req.Recipient)
	assert.Equal(t, "https://x402.org/facilitator", req.FacilitatorURL)
	assert.Equal(t, domain.SchemeExact, req.Scheme)
	assert.Equal(t, 60, req.MaxTimeoutSeconds)
	assert.Equal(t, "Start wash session: premium", req.Description)

	amount, err := req.Amount()
	require.NoError(t, err)
	assert.Equal(t, domain.Units(18), amount)
}

func TestRequirementsBuilder_ForBooking_Deterministic(t *testing.T) {
	b := NewRequirementsBuilder(testX402Config())

	for _, e := range domain.Catalog() {
		first := b.ForBooking(e.Kind, e.Subtype)
		second := b.ForBooking(e.Kind, e.Subtype)
		assert.Equal(t, first, second)
		assert.Equal(t, e.Price, first.Price, "%s/%s", e.Kind, e.Subtype)
	}
}

func TestRequirementsBuilder_ForBooking_UnknownSubtype(t *testing.T) {
	b := NewRequirementsBuilder(testX402Config())

	tests := []struct {
		name     string
		kind     domain.Kind
		subtype  string
		path     string
		expected string
	}{
		{"service falls back to other", domain.KindService, "engine_swap", "/api/v1/service/start?type=other", "50.000000"},
		{"wash falls back to basic", domain.KindWash, "ceramic", "/api/v1/wash/start?type=basic", "5.000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := b.ForBooking(tt.kind, tt.subtype)
			assert.Equal(t, tt.path, req.ResourcePath)
			assert.Equal(t, tt.expected, req.Price)
		})
	}
}
