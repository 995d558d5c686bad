package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"

	"github.com/xenking/teeprint/internal/domain/order"
	"github.com/xenking/teeprint/internal/domain/placement"
	"github.com/xenking/teeprint/internal/domain/pricing"
	"github.com/xenking/teeprint/internal/domain/product"
)

type productResponse struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	BasePrice       float64       `json:"basePrice"`
	SectionID       string        `json:"sectionId"`
	DiscountApplied bool          `json:"discountApplied"`
	Image           imageResponse `json:"image"`
}

type imageResponse struct {
	Thumbnail string `json:"thumbnail"`
	Mobile    string `json:"mobile"`
	Tablet    string `json:"tablet"`
	Desktop   string `json:"desktop"`
}

type printSizeResponse struct {
	Label        string  `json:"label"`
	WidthCm      float64 `json:"widthCm"`
	HeightCm     float64 `json:"heightCm"`
	Surcharge    float64 `json:"surcharge"`
	PreviewScale float64 `json:"previewScale"`
}

// ListProducts returns every product in the catalog, optionally filtered by
// the section query parameter.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	var (
		products []product.Product
		err      error
	)
	if section := r.URL.Query().Get("section"); section != "" {
		products, err = h.products.ListBySection(r.Context(), section)
	} else {
		products, err = h.products.List(r.Context())
	}
	if err != nil {
		respondInternal(w, r, err)
		return
	}

	out := make([]productResponse, len(products))
	for i, p := range products {
		out[i] = h.toProductResponse(p)
	}
	respondJSON(w, r, http.StatusOK, out)
}

// GetProduct returns a single product by ID.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.products.GetByID(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			respondError(w, r, http.StatusNotFound, "product not found")
			return
		}
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, h.toProductResponse(*p))
}

// QuoteProduct prices a customized product with the current discount catalog
// and the store shipping policy. The designer page and the order form both
// display totals from this endpoint, so they can never disagree.
func (h *Handler) QuoteProduct(w http.ResponseWriter, r *http.Request) {
	sizeIndex, err := strconv.Atoi(r.URL.Query().Get("size"))
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "size must be a print-size index")
		return
	}
	quantity, err := strconv.Atoi(r.URL.Query().Get("qty"))
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "qty must be an integer")
		return
	}

	breakdown, err := h.orders.Quote(r.Context(), order.QuoteRequest{
		ProductID:      chi.URLParam(r, "productID"),
		PrintSizeIndex: sizeIndex,
		Quantity:       quantity,
	})
	if err != nil {
		respondQuoteError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, toPricingResponse(breakdown))
}

// ListPrintSizes returns the print-size catalog in selection order.
func (h *Handler) ListPrintSizes(w http.ResponseWriter, r *http.Request) {
	sizes, err := h.sizes.ListPrintSizes(r.Context())
	if err != nil {
		respondInternal(w, r, err)
		return
	}

	out := make([]printSizeResponse, len(sizes))
	for i, s := range sizes {
		out[i] = printSizeResponse{
			Label:        s.Label,
			WidthCm:      s.WidthCm,
			HeightCm:     s.HeightCm,
			Surcharge:    s.Surcharge.InexactFloat64(),
			PreviewScale: s.PreviewScale,
		}
	}
	respondJSON(w, r, http.StatusOK, out)
}

// respondQuoteError maps pricing-path domain errors to HTTP responses.
func respondQuoteError(w http.ResponseWriter, r *http.Request, err error) {
	var pnfErr *order.ProductNotFoundError
	if errors.As(err, &pnfErr) {
		respondError(w, r, http.StatusUnprocessableEntity, pnfErr.Error())
		return
	}
	if errors.Is(err, placement.ErrUnknownPrintSize) {
		respondError(w, r, http.StatusUnprocessableEntity, "unknown print size")
		return
	}
	var inErr *pricing.InputError
	if errors.As(err, &inErr) {
		respondError(w, r, http.StatusUnprocessableEntity, inErr.Error())
		return
	}
	respondInternal(w, r, err)
}

func (h *Handler) toProductResponse(p product.Product) productResponse {
	base := h.imageBaseURL
	return productResponse{
		ID:              p.ID,
		Name:            p.Name,
		BasePrice:       p.BasePrice.InexactFloat64(),
		SectionID:       p.SectionID,
		DiscountApplied: p.DiscountApplied,
		Image: imageResponse{
			Thumbnail: base + p.Image.Thumbnail,
			Mobile:    base + p.Image.Mobile,
			Tablet:    base + p.Image.Tablet,
			Desktop:   base + p.Image.Desktop,
		},
	}
}
