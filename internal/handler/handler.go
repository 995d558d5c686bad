// Package handler exposes the storefront core over a JSON HTTP API.
package handler

import (
	"github.com/go-chi/chi/v5"

	"github.com/xenking/teeprint/internal/domain/order"
	"github.com/xenking/teeprint/internal/domain/placement"
	"github.com/xenking/teeprint/internal/domain/product"
)

// Config holds non-dependency configuration for the Handler.
type Config struct {
	// ImageBaseURL is prepended to relative image paths in product responses.
	// When empty, image paths are returned as stored in the database.
	ImageBaseURL string
}

// Handler serves the storefront API, delegating all pricing and order logic
// to the domain services.
type Handler struct {
	products     product.Repository
	sizes        placement.Catalog
	orders       *order.Service
	orderRepo    order.Repository
	reconciler   *order.Reconciler
	imageBaseURL string
}

// New constructs a Handler with the required domain dependencies.
func New(
	cfg Config,
	products product.Repository,
	sizes placement.Catalog,
	orders *order.Service,
	orderRepo order.Repository,
	reconciler *order.Reconciler,
) *Handler {
	return &Handler{
		products:     products,
		sizes:        sizes,
		orders:       orders,
		orderRepo:    orderRepo,
		reconciler:   reconciler,
		imageBaseURL: cfg.ImageBaseURL,
	}
}

// Routes returns the API router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/products", h.ListProducts)
	r.Get("/products/{productID}", h.GetProduct)
	r.Get("/products/{productID}/quote", h.QuoteProduct)
	r.Get("/print-sizes", h.ListPrintSizes)
	r.Post("/orders", h.CreateOrder)
	r.Get("/orders/{orderID}", h.GetOrder)
	return r
}
