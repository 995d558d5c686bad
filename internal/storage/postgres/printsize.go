package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/teeprint/internal/domain/placement"
)

const listPrintSizesSQL = `SELECT label, width_cm, height_cm, surcharge, preview_scale
	FROM print_sizes ORDER BY sort_order`

var _ placement.Catalog = (*PrintSizeRepository)(nil)

// PrintSizeRepository implements placement.Catalog backed by PostgreSQL.
// Customers select sizes by index, so the sort_order of the rows is the
// catalog order.
type PrintSizeRepository struct {
	pool *pgxpool.Pool
}

// NewPrintSizeRepository returns a PrintSizeRepository that uses the given pool.
func NewPrintSizeRepository(pool *pgxpool.Pool) *PrintSizeRepository {
	return &PrintSizeRepository{pool: pool}
}

// ListPrintSizes returns the print-size catalog in selection order.
func (r *PrintSizeRepository) ListPrintSizes(ctx context.Context) ([]placement.PrintSize, error) {
	rows, err := r.pool.Query(ctx, listPrintSizesSQL)
	if err != nil {
		return nil, fmt.Errorf("listing print sizes: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (placement.PrintSize, error) {
		var s placement.PrintSize
		err := row.Scan(&s.Label, &s.WidthCm, &s.HeightCm, &s.Surcharge, &s.PreviewScale)
		return s, err
	})
}
