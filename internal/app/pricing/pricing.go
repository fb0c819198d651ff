// Package pricing derives the price a viewer actually pays from a catalog
// item's list price and discount. It is pure: no storage, no side effects.
package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInvariantViolation reports an out-of-range base price or discount.
// It indicates corrupted upstream data and is never clamped away.
var ErrInvariantViolation = errors.New("pricing invariant violation")

// EffectivePrice is the computed, possibly-discounted price shown to a
// viewer. OriginalPrice and DiscountPercent are absent when no discount
// applies.
type EffectivePrice struct {
	CurrentPrice    float64  `json:"current_price"`
	OriginalPrice   *float64 `json:"original_price,omitempty"`
	DiscountPercent *int     `json:"discount_percent,omitempty"`
}

// Resolve computes the effective price for a base price and an optional
// discount percentage.
//
// A nil or zero discount is the identity: CurrentPrice equals the base
// price and OriginalPrice stays absent. A discount of 100 yields a current
// price of exactly 0. Otherwise the discount is applied linearly and the
// current and original prices are each rounded to 2 decimal places
// independently, half away from zero.
func Resolve(basePrice float64, discountPercent *int) (EffectivePrice, error) {
	if basePrice < 0 {
		return EffectivePrice{}, fmt.Errorf("%w: negative base price %v", ErrInvariantViolation, basePrice)
	}
	if discountPercent != nil && (*discountPercent < 0 || *discountPercent > 100) {
		return EffectivePrice{}, fmt.Errorf("%w: discount percent %d outside [0,100]", ErrInvariantViolation, *discountPercent)
	}

	base := decimal.NewFromFloat(basePrice)

	if discountPercent == nil || *discountPercent == 0 {
		current, _ := base.Round(2).Float64()
		return EffectivePrice{CurrentPrice: current}, nil
	}

	pct := *discountPercent
	original, _ := base.Round(2).Float64()

	if pct == 100 {
		return EffectivePrice{
			CurrentPrice:    0,
			OriginalPrice:   &original,
			DiscountPercent: &pct,
		}, nil
	}

	factor := decimal.NewFromInt(int64(100 - pct)).Div(decimal.NewFromInt(100))
	current, _ := base.Mul(factor).Round(2).Float64()

	return EffectivePrice{
		CurrentPrice:    current,
		OriginalPrice:   &original,
		DiscountPercent: &pct,
	}, nil
}
