package product

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Product is a garment available for customization.
type Product struct {
	ID        string
	Name      string
	BasePrice decimal.Decimal
	SectionID string
	// DiscountApplied marks products whose listed BasePrice already bakes in
	// a per-item discount. Pricing forces the storewide discount percent to
	// zero for such products to avoid double-discounting.
	DiscountApplied bool
	Image           Image
}

// Image holds responsive image URLs for a product.
type Image struct {
	Thumbnail string
	Mobile    string
	Tablet    string
	Desktop   string
}

// Repository defines read operations for the product catalog.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	ListBySection(ctx context.Context, sectionID string) ([]Product, error)
}
