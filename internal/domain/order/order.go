package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/teeprint/internal/domain/placement"
	"github.com/xenking/teeprint/internal/domain/pricing"
)

// Status is the fulfilment state of an order.
type Status string

const (
	StatusPending  Status = "pending"
	StatusPaid     Status = "paid"
	StatusShipped  Status = "shipped"
	StatusCanceled Status = "canceled"
)

// ErrNotFound is returned when a requested order does not exist.
var ErrNotFound = errors.New("order not found")

// Order is a submitted customization order. Placement and Pricing are frozen
// at submission: the pricing breakdown is copied verbatim from the calculator
// and is never recomputed against a later discount catalog.
type Order struct {
	ID             string
	Status         Status
	ProductID      string
	PrintSizeLabel string
	Quantity       int
	Placement      placement.State
	Pricing        pricing.Breakdown
	CreatedAt      time.Time
}

// Snapshot is the stored pricing view of an order as read back from
// persistence. Orders written by this system carry a full Breakdown; records
// from before the breakdown existed may only have the legacy flat fields.
// All fields except OrderID are optional.
type Snapshot struct {
	OrderID string

	// Pricing is the frozen breakdown, nil on pre-breakdown records.
	Pricing *pricing.Breakdown

	// LegacyPrintPrice is the flat per-unit price stored by the old order
	// form before the breakdown existed.
	LegacyPrintPrice *decimal.Decimal
	// LegacyQuantity accompanies LegacyPrintPrice; zero when absent.
	LegacyQuantity int

	// LegacyTotal is the standalone total_price column some early records
	// carry instead of any per-unit data.
	LegacyTotal *decimal.Decimal
}

// Stored is an order as read back from persistence, including the legacy
// pricing fields needed for display reconciliation.
type Stored struct {
	ID             string
	Status         Status
	ProductID      string
	PrintSizeLabel string
	Quantity       int
	Placement      *placement.State
	Snapshot       Snapshot
	CreatedAt      time.Time
}

// Repository defines persistence operations for orders. Create must be
// atomic: the full order row including the pricing snapshot is written in
// one statement or not at all.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id string) (*Stored, error)
}
