package domain

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// AssetDecimals is the precision of the settlement asset (USDC).
const AssetDecimals = 6

// MicrosPerUnit is the number of atomic units in one whole asset unit.
const MicrosPerUnit int64 = 1_000_000

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrAmountPrecision = errors.New("amount has more than 6 decimal places")
)

// Units converts a whole-unit price into atomic units.
func Units(whole int64) int64 {
	return whole * MicrosPerUnit
}

// FormatAmount renders atomic units with exactly six decimals: 18000000 -> "18.000000".
func FormatAmount(micros int64) string {
	sign := ""
	if micros < 0 {
		sign = "-"
		micros = -micros
	}
	return fmt.Sprintf("%s%d.%06d", sign, micros/MicrosPerUnit, micros%MicrosPerUnit)
}

// ParseAmount parses a decimal string into atomic units. Values with more
// precision than the asset supports are rejected rather than rounded.
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}

	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if r.Sign() < 0 {
		return 0, fmt.Errorf("%w: negative amount %q", ErrInvalidAmount, s)
	}

	r.Mul(r, new(big.Rat).SetInt64(MicrosPerUnit))
	if !r.IsInt() {
		return 0, fmt.Errorf("%w: %q", ErrAmountPrecision, s)
	}
	n := r.Num()
	if !n.IsInt64() {
		return 0, fmt.Errorf("%w: %q out of range", ErrInvalidAmount, s)
	}
	return n.Int64(), nil
}

// ParseAtomic parses an integer string of atomic units ("18000000").
func ParseAtomic(s string) (int64, error) {
	n, ok := new(big.Int).SetString(strings.TrimSpace(s), 10)
	if !ok || n.Sign() < 0 || !n.IsInt64() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return n.Int64(), nil
}

// ApplyBps returns amount * bps / 10000, truncated toward zero.
func ApplyBps(amount, bps int64) int64 {
	return amount * bps / 10_000
}

// LoyaltyPoints returns floor(amount in whole units * pointsPerUnit).
func LoyaltyPoints(amount, pointsPerUnit int64) int64 {
	return amount * pointsPerUnit / MicrosPerUnit
}
