package order

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/teeprint/internal/domain/pricing"
)

// ErrTotalUnavailable is returned when no usable total can be derived from a
// stored order. The UI must surface it as "total unavailable"; defaulting to
// zero would display a wrong price as if it were authoritative.
var ErrTotalUnavailable = errors.New("order total unavailable")

// Reconciler derives a display total from a stored pricing snapshot. It is
// the only component allowed to look at a snapshot after submission, and it
// never re-resolves discounts against the live rule catalog: historical
// totals must stay what the customer was shown even after rules change.
//
// The result is display-only and never feeds payment.
type Reconciler struct {
	shipping pricing.ShippingPolicy
}

// NewReconciler creates a Reconciler using the store's shipping policy for
// legacy recomputation.
func NewReconciler(shipping pricing.ShippingPolicy) *Reconciler {
	return &Reconciler{shipping: shipping}
}

// DisplayTotal walks a priority chain over the snapshot and stops at the
// first source that yields a total:
//
//  1. The stored order total, when present and positive.
//  2. The stored breakdown's other fields, when the total itself is missing.
//  3. A best-effort recompute from the legacy flat per-unit price, with an
//     unknown discount treated as zero.
//  4. The standalone legacy total_price field.
//
// When every source fails it returns ErrTotalUnavailable.
func (r *Reconciler) DisplayTotal(snap Snapshot) (decimal.Decimal, error) {
	if snap.Pricing != nil {
		if snap.Pricing.OrderTotal.IsPositive() {
			return snap.Pricing.OrderTotal, nil
		}
		if total, ok := totalFromBreakdown(snap.Pricing); ok {
			return total, nil
		}
	}

	if snap.LegacyPrintPrice != nil && snap.LegacyQuantity >= 1 {
		breakdown, err := pricing.Compute(
			*snap.LegacyPrintPrice, decimal.Zero, snap.LegacyQuantity,
			decimal.Zero, r.shipping, false,
		)
		if err == nil {
			return breakdown.OrderTotal, nil
		}
	}

	if snap.LegacyTotal != nil && snap.LegacyTotal.IsPositive() {
		return *snap.LegacyTotal, nil
	}

	return decimal.Zero, ErrTotalUnavailable
}

// totalFromBreakdown rebuilds the order total from the breakdown's component
// fields without consulting any live catalog state. It reports false when
// the breakdown carries no usable subtotal.
func totalFromBreakdown(b *pricing.Breakdown) (decimal.Decimal, bool) {
	if !b.MerchandiseSubtotal.IsPositive() {
		return decimal.Zero, false
	}

	total := b.MerchandiseSubtotal.Sub(b.DiscountAmount)
	if total.IsNegative() {
		total = decimal.Zero
	}
	return total.Add(b.ShippingCost), true
}
