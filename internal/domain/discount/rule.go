package discount

import (
	"context"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// Scope describes which part of the catalog a rule applies to. Scope is
// derived from the rule's ID lists, never stored.
type Scope string

const (
	// ScopeGlobal applies to every product in the store.
	ScopeGlobal Scope = "global"
	// ScopeSection applies to products in any of the rule's sections.
	ScopeSection Scope = "section"
	// ScopeProduct applies to the rule's listed products.
	ScopeProduct Scope = "product"
	// ScopeMixed carries both section and product lists. A target matches
	// on either list.
	ScopeMixed Scope = "mixed"
)

// Rule is one operator-entered discount rule from the catalog. Percent may be
// malformed (negative, above 100) since it comes from admin input; resolution
// clamps it rather than rejecting the rule.
type Rule struct {
	ID         string
	Name       string
	Percent    decimal.Decimal
	SectionIDs []string
	ProductIDs []string
	StartsAt   time.Time
	EndsAt     time.Time
	Active     bool
}

// Scope derives the rule's scope from its ID lists.
func (r *Rule) Scope() Scope {
	switch {
	case len(r.SectionIDs) == 0 && len(r.ProductIDs) == 0:
		return ScopeGlobal
	case len(r.SectionIDs) > 0 && len(r.ProductIDs) > 0:
		return ScopeMixed
	case len(r.SectionIDs) > 0:
		return ScopeSection
	default:
		return ScopeProduct
	}
}

// Target identifies the product a discount is being resolved for.
type Target struct {
	ProductID string
	SectionID string
}

// AppliesTo reports whether the rule is in effect at the given time and
// matches the target. A mixed-scope rule matches when EITHER its section or
// product list contains the target.
func (r *Rule) AppliesTo(target Target, now time.Time) bool {
	if !r.Active {
		return false
	}
	if now.Before(r.StartsAt) || now.After(r.EndsAt) {
		return false
	}

	if r.Scope() == ScopeGlobal {
		return true
	}
	if target.SectionID != "" && slices.Contains(r.SectionIDs, target.SectionID) {
		return true
	}
	if target.ProductID != "" && slices.Contains(r.ProductIDs, target.ProductID) {
		return true
	}
	return false
}

// Repository provides read access to a snapshot of the discount-rule catalog.
// Rules are created and edited elsewhere; this core only resolves against
// the list it is given.
type Repository interface {
	ListRules(ctx context.Context) ([]Rule, error)
}
