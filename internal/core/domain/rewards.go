package domain

import "time"

// LoyaltyTier is derived from accumulated points.
type LoyaltyTier string

const (
	TierBronze   LoyaltyTier = "bronze"
	TierSilver   LoyaltyTier = "silver"
	TierGold     LoyaltyTier = "gold"
	TierPlatinum LoyaltyTier = "platinum"
)

// Tier thresholds in points. Kept in sync with the tier CASE in the loyalty upsert.
const (
	SilverThreshold   int64 = 1000
	GoldThreshold     int64 = 5000
	PlatinumThreshold int64 = 10000
)

// TierFor returns the tier for a points balance.
func TierFor(points int64) LoyaltyTier {
	switch {
	case points >= PlatinumThreshold:
		return TierPlatinum
	case points >= GoldThreshold:
		return TierGold
	case points >= SilverThreshold:
		return TierSilver
	default:
		return TierBronze
	}
}

// LoyaltyWallet is a running per-customer aggregate. Only ever incremented.
type LoyaltyWallet struct {
	CustomerID   string      `json:"customer_id"`
	Points       int64       `json:"points"`
	Tier         LoyaltyTier `json:"tier"`
	TotalSpent   int64       `json:"total_spent"`
	ServiceCount int64       `json:"service_count"`
	WashCount    int64       `json:"wash_count"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// OperatorReward is a running per-operator commission aggregate.
// Earned always equals Pending + Paid.
type OperatorReward struct {
	OperatorID string    `json:"operator_id"`
	Earned     int64     `json:"earned"`
	Pending    int64     `json:"pending"`
	Paid       int64     `json:"paid"`
	JobCount   int64     `json:"job_count"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Balanced reports whether earned = pending + paid holds.
func (r *OperatorReward) Balanced() bool {
	return r.Earned == r.Pending+r.Paid
}

// CanPayout reports whether amount can be moved from pending to paid.
func (r *OperatorReward) CanPayout(amount int64) bool {
	return amount > 0 && amount <= r.Pending
}

// RewardRates are the fixed per-kind accrual rates.
type RewardRates struct {
	PointsPerUnit        int64
	ServiceCommissionBps int64
	WashCommissionBps    int64
}

// CommissionBps returns the commission rate for kind.
func (r RewardRates) CommissionBps(kind Kind) int64 {
	if kind == KindService {
		return r.ServiceCommissionBps
	}
	return r.WashCommissionBps
}

// Accrual is what a single settlement adds to the aggregates.
type Accrual struct {
	Points     int64
	Commission int64
}

// AccrualFor computes the loyalty and commission increments for a settlement.
func (r RewardRates) AccrualFor(kind Kind, amount int64) Accrual {
	return Accrual{
		Points:     LoyaltyPoints(amount, r.PointsPerUnit),
		Commission: ApplyBps(amount, r.CommissionBps(kind)),
	}
}
