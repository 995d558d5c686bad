package order

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/xenking/teeprint/internal/domain/discount"
	"github.com/xenking/teeprint/internal/domain/placement"
	"github.com/xenking/teeprint/internal/domain/pricing"
	"github.com/xenking/teeprint/internal/domain/product"
)

// ProductNotFoundError indicates the requested product does not exist.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID)
}

// QuoteRequest holds the inputs for pricing a customized product.
type QuoteRequest struct {
	ProductID      string
	PrintSizeIndex int
	Quantity       int
}

// SubmitRequest holds the full input for submitting an order.
type SubmitRequest struct {
	QuoteRequest
	Placement placement.State
}

// Service owns the order write path. Every surface that prices a customized
// product — the designer preview, the order form, submission — goes through
// Quote, so there is exactly one pricing code path.
type Service struct {
	products product.Repository
	sizes    placement.Catalog
	discount discount.Resolver
	shipping pricing.ShippingPolicy
	orders   Repository
	now      func() time.Time
}

// NewService creates an order Service with the required domain dependencies.
func NewService(
	products product.Repository,
	sizes placement.Catalog,
	resolver discount.Resolver,
	shipping pricing.ShippingPolicy,
	orders Repository,
) *Service {
	return &Service{
		products: products,
		sizes:    sizes,
		discount: resolver,
		shipping: shipping,
		orders:   orders,
		now:      time.Now,
	}
}

// Quote resolves the current discount for the product and computes a full
// pricing breakdown without persisting anything.
func (s *Service) Quote(ctx context.Context, req QuoteRequest) (pricing.Breakdown, error) {
	breakdown, _, err := s.quote(ctx, req)
	return breakdown, err
}

func (s *Service) quote(ctx context.Context, req QuoteRequest) (pricing.Breakdown, *placement.PrintSize, error) {
	p, size, err := s.lookup(ctx, req)
	if err != nil {
		return pricing.Breakdown{}, nil, err
	}

	percent, err := s.discount.Resolve(ctx, discount.Target{
		ProductID: p.ID,
		SectionID: p.SectionID,
	})
	if err != nil {
		return pricing.Breakdown{}, nil, errors.Wrap(err, "resolve discount")
	}

	breakdown, err := pricing.Compute(p.BasePrice, size.Surcharge, req.Quantity, percent, s.shipping, p.DiscountApplied)
	if err != nil {
		return pricing.Breakdown{}, nil, err
	}
	return breakdown, size, nil
}

// Submit prices the request through the same path as Quote, freezes the
// breakdown into an order record, and persists it atomically. The stored
// pricing is immutable: later edits to the discount catalog never change it.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*Order, error) {
	if err := req.Placement.Validate(); err != nil {
		return nil, err
	}

	breakdown, size, err := s.quote(ctx, req.QuoteRequest)
	if err != nil {
		return nil, err
	}

	o := &Order{
		ID:             uuid.New().String(),
		Status:         StatusPending,
		ProductID:      req.ProductID,
		PrintSizeLabel: size.Label,
		Quantity:       req.Quantity,
		Placement:      req.Placement,
		Pricing:        breakdown,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, errors.Wrap(err, "create order")
	}

	return o, nil
}

// lookup fetches the product and the selected print size.
func (s *Service) lookup(ctx context.Context, req QuoteRequest) (*product.Product, *placement.PrintSize, error) {
	p, err := s.products.GetByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			return nil, nil, &ProductNotFoundError{ProductID: req.ProductID}
		}
		return nil, nil, errors.Wrapf(err, "get product %s", req.ProductID)
	}

	sizes, err := s.sizes.ListPrintSizes(ctx)
	if err != nil {
		return nil, nil, errors.Wrap(err, "list print sizes")
	}
	if req.PrintSizeIndex < 0 || req.PrintSizeIndex >= len(sizes) {
		return nil, nil, placement.ErrUnknownPrintSize
	}

	return p, &sizes[req.PrintSizeIndex], nil
}
