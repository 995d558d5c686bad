// Package pricing is the single source of truth for order totals. Every
// surface that shows a price — designer preview, order form, order detail,
// admin — goes through Compute with the same shared ShippingPolicy, so the
// same inputs always produce the same breakdown.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// InputError reports a malformed pricing input. Negative prices and
// non-positive quantities are caller programming errors and are rejected at
// the boundary rather than silently corrected.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("pricing input %s: %s", e.Field, e.Reason)
}

// ShippingPolicy computes the shipping cost for a merchandise subtotal. The
// application configures exactly one policy and injects it into every call
// site; per-page shipping constants are not allowed.
type ShippingPolicy interface {
	Cost(subtotal decimal.Decimal) decimal.Decimal
}

// FlatRateShipping charges a flat fee below a free-shipping threshold.
type FlatRateShipping struct {
	FreeThreshold decimal.Decimal
	Fee           decimal.Decimal
}

// Cost returns the flat fee when the subtotal is below the free-shipping
// threshold, zero otherwise.
func (p FlatRateShipping) Cost(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(p.FreeThreshold) {
		return decimal.Zero
	}
	return p.Fee
}

// Breakdown is the full pricing result computed once at order submission and
// frozen into the order record. JSON field names match the order payload's
// pricing object.
type Breakdown struct {
	BasePrice           decimal.Decimal `json:"baseTshirtPrice"`
	PrintSurcharge      decimal.Decimal `json:"printPricePerUnit"`
	Quantity            int             `json:"quantity"`
	MerchandiseSubtotal decimal.Decimal `json:"merchandiseSubtotal"`
	DiscountPercent     decimal.Decimal `json:"discountPercent"`
	DiscountAmount      decimal.Decimal `json:"discountAmount"`
	ShippingCost        decimal.Decimal `json:"shippingCost"`
	OrderTotal          decimal.Decimal `json:"orderTotal"`
}

// Compute turns pricing inputs into a Breakdown with a fixed evaluation
// order: subtotal, then discount, then shipping. The fixed order makes the
// result reproducible for identical inputs, which the snapshot write path
// depends on.
//
// When discountAlreadyApplied is set the product's listed price already bakes
// in its own discount, so discountPercent is forced to zero to prevent
// stacking a storewide discount on top of it.
func Compute(
	basePrice, printSurcharge decimal.Decimal,
	quantity int,
	discountPercent decimal.Decimal,
	shipping ShippingPolicy,
	discountAlreadyApplied bool,
) (Breakdown, error) {
	if basePrice.IsNegative() {
		return Breakdown{}, &InputError{Field: "basePrice", Reason: "must not be negative"}
	}
	if printSurcharge.IsNegative() {
		return Breakdown{}, &InputError{Field: "printSurcharge", Reason: "must not be negative"}
	}
	if quantity < 1 {
		return Breakdown{}, &InputError{Field: "quantity", Reason: "must be at least 1"}
	}

	percent := clampPercent(discountPercent)
	if discountAlreadyApplied {
		percent = decimal.Zero
	}

	subtotal := basePrice.Add(printSurcharge).Mul(decimal.NewFromInt(int64(quantity)))

	// Round half up; never more than the subtotal since percent <= 100.
	discountAmount := subtotal.Mul(percent).Div(hundred).Round(2)

	shippingCost := shipping.Cost(subtotal)

	total := subtotal.Sub(discountAmount)
	if total.IsNegative() {
		total = decimal.Zero
	}
	total = total.Add(shippingCost)

	return Breakdown{
		BasePrice:           basePrice,
		PrintSurcharge:      printSurcharge,
		Quantity:            quantity,
		MerchandiseSubtotal: subtotal,
		DiscountPercent:     percent,
		DiscountAmount:      discountAmount,
		ShippingCost:        shippingCost,
		OrderTotal:          total,
	}, nil
}

// clampPercent saturates the discount percent at [0,100]. Malformed percents
// originate from operator-entered rules and are clamped, not rejected.
func clampPercent(p decimal.Decimal) decimal.Decimal {
	if p.IsNegative() {
		return decimal.Zero
	}
	if p.GreaterThan(hundred) {
		return hundred
	}
	return p
}
