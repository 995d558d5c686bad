package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/teeprint/internal/domain/discount"
)

const listRulesSQL = `SELECT id, name, percent, section_ids, product_ids, starts_at, ends_at, active
	FROM discount_rules ORDER BY id`

var _ discount.Repository = (*DiscountRepository)(nil)

// DiscountRepository implements discount.Repository backed by PostgreSQL.
// Rule creation and editing happen in the admin panel outside this core;
// this repository only reads snapshots of the catalog.
type DiscountRepository struct {
	pool *pgxpool.Pool
}

// NewDiscountRepository returns a DiscountRepository that uses the given pool.
func NewDiscountRepository(pool *pgxpool.Pool) *DiscountRepository {
	return &DiscountRepository{pool: pool}
}

// ListRules returns the full rule catalog. Window and activity filtering is
// the resolver's job, so expired and inactive rules are returned too.
func (r *DiscountRepository) ListRules(ctx context.Context) ([]discount.Rule, error) {
	rows, err := r.pool.Query(ctx, listRulesSQL)
	if err != nil {
		return nil, fmt.Errorf("listing discount rules: %w", err)
	}
	return pgx.CollectRows(rows, scanRule)
}

func scanRule(row pgx.CollectableRow) (discount.Rule, error) {
	var rule discount.Rule
	err := row.Scan(
		&rule.ID, &rule.Name, &rule.Percent, &rule.SectionIDs, &rule.ProductIDs,
		&rule.StartsAt, &rule.EndsAt, &rule.Active,
	)
	return rule, err
}
