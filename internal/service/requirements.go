package service

import (
	"fmt"
	"strconv"
	"time"

	"autocare-x402-gateway/config"
	"autocare-x402-gateway/internal/core/domain"
)

// RequirementsBuilder derives payment requirements from the catalog and
// server configuration. It has no state beyond its configuration, so the
// requirements for a given kind and subtype are identical on every call.
type RequirementsBuilder struct {
	cfg config.X402Config
}

// NewRequirementsBuilder creates a RequirementsBuilder.
func NewRequirementsBuilder(cfg config.X402Config) *RequirementsBuilder {
	return &RequirementsBuilder{cfg: cfg}
}

// Build describes a payment of price atomic units for resourcePath.
func (b *RequirementsBuilder) Build(resourcePath string, price int64, description string) domain.PaymentRequirements {
	return domain.PaymentRequirements{
		ResourcePath:      resourcePath,
		Price:             domain.FormatAmount(price),
		Asset:             b.cfg.Asset,
		Network:           b.cfg.Network,
		Recipient:         b.cfg.Recipient,
		FacilitatorURL:    b.cfg.FacilitatorURL,
		Scheme:            domain.SchemeExact,
		MaxAmountRequired: strconv.FormatInt(price, 10),
		NetworkID:         b.cfg.NetworkID,
		Description:       description,
		MaxTimeoutSeconds: int(b.cfg.MaxTimeout / time.Second),
	}
}

// ForBooking prices a kind/subtype pair from the catalog.
func (b *RequirementsBuilder) ForBooking(kind domain.Kind, subtype string) domain.PaymentRequirements {
	resolved, _ := domain.ResolveSubtype(kind, subtype)
	return b.Build(
		kind.ResourcePath(resolved),
		domain.PriceOf(kind, resolved),
		fmt.Sprintf("Start %s session: %s", kind, resolved),
	)
}
