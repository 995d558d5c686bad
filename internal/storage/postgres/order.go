package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/xenking/teeprint/internal/domain/order"
	"github.com/xenking/teeprint/internal/domain/placement"
	"github.com/xenking/teeprint/internal/domain/pricing"
)

const (
	createOrderSQL = `INSERT INTO orders (id, status, product_id, print_size_label, quantity, placement, pricing, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	getOrderByIDSQL = `SELECT id, status, product_id, print_size_label, quantity, placement, pricing,
			print_price_per_unit, total_price, created_at
		FROM orders WHERE id = $1`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists a new order in a single INSERT, so the pricing snapshot is
// written atomically: the row exists with its full breakdown or not at all.
// Placement and pricing are serialized into JSONB columns.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	placementJSON, err := json.Marshal(o.Placement)
	if err != nil {
		return fmt.Errorf("marshaling placement: %w", err)
	}
	pricingJSON, err := json.Marshal(o.Pricing)
	if err != nil {
		return fmt.Errorf("marshaling pricing: %w", err)
	}

	_, err = r.pool.Exec(ctx, createOrderSQL,
		o.ID, string(o.Status), o.ProductID, o.PrintSizeLabel, o.Quantity,
		placementJSON, pricingJSON, o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating order %q: %w", o.ID, err)
	}
	return nil
}

// GetByID reads an order back including the legacy pricing columns that only
// pre-breakdown records carry. The pricing JSONB is left untouched in the
// snapshot; reconciliation decides what to display.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*order.Stored, error) {
	var (
		s             order.Stored
		status        string
		placementJSON []byte
		pricingJSON   []byte
		legacyPrice   *decimal.Decimal
		legacyTotal   *decimal.Decimal
	)

	err := r.pool.QueryRow(ctx, getOrderByIDSQL, id).Scan(
		&s.ID, &status, &s.ProductID, &s.PrintSizeLabel, &s.Quantity,
		&placementJSON, &pricingJSON, &legacyPrice, &legacyTotal, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}

	s.Status = order.Status(status)

	if len(placementJSON) > 0 {
		var p placement.State
		if err := json.Unmarshal(placementJSON, &p); err != nil {
			return nil, fmt.Errorf("unmarshaling placement of order %q: %w", id, err)
		}
		s.Placement = &p
	}

	s.Snapshot = order.Snapshot{
		OrderID:          s.ID,
		LegacyPrintPrice: legacyPrice,
		LegacyQuantity:   s.Quantity,
		LegacyTotal:      legacyTotal,
	}
	if len(pricingJSON) > 0 {
		var b pricing.Breakdown
		if err := json.Unmarshal(pricingJSON, &b); err != nil {
			return nil, fmt.Errorf("unmarshaling pricing of order %q: %w", id, err)
		}
		s.Snapshot.Pricing = &b
	}

	return &s, nil
}
