package discount

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Resolve picks the single effective discount percent for the target from a
// rule snapshot. Among the applicable rules the largest percent wins; rules
// are never summed, so overlapping promotions cannot compound. The result is
// clamped to [0,100]. Pure: identical inputs always yield the same percent.
func Resolve(rules []Rule, target Target, now time.Time) decimal.Decimal {
	best := decimal.Zero
	for i := range rules {
		if !rules[i].AppliesTo(target, now) {
			continue
		}
		p := clampPercent(rules[i].Percent)
		if p.GreaterThan(best) {
			best = p
		}
	}
	return best
}

// clampPercent saturates operator-entered percents at [0,100].
func clampPercent(p decimal.Decimal) decimal.Decimal {
	if p.IsNegative() {
		return decimal.Zero
	}
	if p.GreaterThan(hundred) {
		return hundred
	}
	return p
}

// Resolver resolves the effective discount percent for a target.
type Resolver interface {
	Resolve(ctx context.Context, target Target) (decimal.Decimal, error)
}

// RepoResolver implements Resolver by fetching the current rule snapshot from
// a Repository and applying Resolve against it.
type RepoResolver struct {
	repo Repository
	now  func() time.Time
}

// NewRepoResolver creates a RepoResolver backed by the given Repository.
func NewRepoResolver(repo Repository) *RepoResolver {
	return &RepoResolver{repo: repo, now: time.Now}
}

// Resolve fetches the rule catalog and returns the effective percent for the
// target at the current time.
func (r *RepoResolver) Resolve(ctx context.Context, target Target) (decimal.Decimal, error) {
	rules, err := r.repo.ListRules(ctx)
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "list discount rules")
	}
	return Resolve(rules, target, r.now()), nil
}
