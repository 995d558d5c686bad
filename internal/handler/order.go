package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"

	"github.com/xenking/teeprint/internal/domain/order"
	"github.com/xenking/teeprint/internal/domain/placement"
	"github.com/xenking/teeprint/internal/domain/pricing"
)

type placementPayload struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Scale    float64 `json:"scale"`
	Rotation float64 `json:"rotation"`
	Side     string  `json:"side"`
}

type createOrderRequest struct {
	ProductID      string           `json:"productId"`
	PrintSizeIndex int              `json:"printSizeIndex"`
	Quantity       int              `json:"quantity"`
	Placement      placementPayload `json:"placement"`
}

type pricingResponse struct {
	BaseTshirtPrice     float64 `json:"baseTshirtPrice"`
	PrintPricePerUnit   float64 `json:"printPricePerUnit"`
	Quantity            int     `json:"quantity"`
	MerchandiseSubtotal float64 `json:"merchandiseSubtotal"`
	DiscountPercent     float64 `json:"discountPercent"`
	DiscountAmount      float64 `json:"discountAmount"`
	ShippingCost        float64 `json:"shippingCost"`
	OrderTotal          float64 `json:"orderTotal"`
}

type orderResponse struct {
	ID             string            `json:"id"`
	Status         string            `json:"status"`
	ProductID      string            `json:"productId"`
	PrintSizeLabel string            `json:"printSizeLabel"`
	Quantity       int               `json:"quantity"`
	Placement      *placementPayload `json:"placement,omitempty"`
	Pricing        *pricingResponse  `json:"pricing,omitempty"`
	CreatedAt      time.Time         `json:"createdAt"`

	// DisplayTotal is the reconciled total for this order. When no usable
	// total exists TotalUnavailable is set instead; the UI must show
	// "total unavailable" rather than a number.
	DisplayTotal     *float64 `json:"displayTotal,omitempty"`
	TotalUnavailable bool     `json:"totalUnavailable,omitempty"`
}

// CreateOrder submits a customization order: the placement is validated, the
// price is computed against the current discount catalog, and the resulting
// breakdown is frozen into the order record.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}

	o, err := h.orders.Submit(r.Context(), order.SubmitRequest{
		QuoteRequest: order.QuoteRequest{
			ProductID:      req.ProductID,
			PrintSizeIndex: req.PrintSizeIndex,
			Quantity:       req.Quantity,
		},
		Placement: placement.State{
			X:        req.Placement.X,
			Y:        req.Placement.Y,
			Scale:    req.Placement.Scale,
			Rotation: req.Placement.Rotation,
			Side:     placement.Side(req.Placement.Side),
		},
	})
	if err != nil {
		respondSubmitError(w, r, err)
		return
	}

	resp := orderResponse{
		ID:             o.ID,
		Status:         string(o.Status),
		ProductID:      o.ProductID,
		PrintSizeLabel: o.PrintSizeLabel,
		Quantity:       o.Quantity,
		Placement:      toPlacementPayload(o.Placement),
		CreatedAt:      o.CreatedAt,
	}
	p := toPricingResponse(o.Pricing)
	resp.Pricing = &p
	resp.DisplayTotal = &p.OrderTotal

	respondJSON(w, r, http.StatusCreated, resp)
}

// GetOrder returns a stored order with its display total reconciled from the
// frozen pricing snapshot. The live discount catalog is never consulted.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	stored, err := h.orderRepo.GetByID(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			respondError(w, r, http.StatusNotFound, "order not found")
			return
		}
		respondInternal(w, r, err)
		return
	}

	resp := orderResponse{
		ID:             stored.ID,
		Status:         string(stored.Status),
		ProductID:      stored.ProductID,
		PrintSizeLabel: stored.PrintSizeLabel,
		Quantity:       stored.Quantity,
		CreatedAt:      stored.CreatedAt,
	}
	if stored.Placement != nil {
		resp.Placement = toPlacementPayload(*stored.Placement)
	}
	if stored.Snapshot.Pricing != nil {
		p := toPricingResponse(*stored.Snapshot.Pricing)
		resp.Pricing = &p
	}

	total, err := h.reconciler.DisplayTotal(stored.Snapshot)
	switch {
	case err == nil:
		f := total.InexactFloat64()
		resp.DisplayTotal = &f
	case errors.Is(err, order.ErrTotalUnavailable):
		resp.TotalUnavailable = true
	default:
		respondInternal(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, resp)
}

// respondSubmitError maps order-submission domain errors to HTTP responses.
func respondSubmitError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *placement.InvalidStateError
	if errors.As(err, &vErr) {
		respondError(w, r, http.StatusUnprocessableEntity, vErr.Error())
		return
	}
	respondQuoteError(w, r, err)
}

func toPlacementPayload(s placement.State) *placementPayload {
	return &placementPayload{
		X:        s.X,
		Y:        s.Y,
		Scale:    s.Scale,
		Rotation: s.Rotation,
		Side:     string(s.Side),
	}
}

func toPricingResponse(b pricing.Breakdown) pricingResponse {
	return pricingResponse{
		BaseTshirtPrice:     b.BasePrice.InexactFloat64(),
		PrintPricePerUnit:   b.PrintSurcharge.InexactFloat64(),
		Quantity:            b.Quantity,
		MerchandiseSubtotal: b.MerchandiseSubtotal.InexactFloat64(),
		DiscountPercent:     b.DiscountPercent.InexactFloat64(),
		DiscountAmount:      b.DiscountAmount.InexactFloat64(),
		ShippingCost:        b.ShippingCost.InexactFloat64(),
		OrderTotal:          b.OrderTotal.InexactFloat64(),
	}
}
