package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/teeprint/internal/domain/discount"
	"github.com/xenking/teeprint/internal/domain/order"
	"github.com/xenking/teeprint/internal/domain/placement"
	"github.com/xenking/teeprint/internal/domain/pricing"
	"github.com/xenking/teeprint/internal/domain/product"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

// --- Mock implementations ---

type mockProductRepo struct {
	products []product.Product
	byID     map[string]*product.Product
	listErr  error
}

func (m *mockProductRepo) List(_ context.Context) ([]product.Product, error) {
	return m.products, m.listErr
}

func (m *mockProductRepo) ListBySection(_ context.Context, sectionID string) ([]product.Product, error) {
	var out []product.Product
	for _, p := range m.products {
		if p.SectionID == sectionID {
			out = append(out, p)
		}
	}
	return out, m.listErr
}

func (m *mockProductRepo) GetByID(_ context.Context, id string) (*product.Product, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	return p, nil
}

type mockCatalog struct {
	sizes []placement.PrintSize
}

func (m *mockCatalog) ListPrintSizes(_ context.Context) ([]placement.PrintSize, error) {
	return m.sizes, nil
}

type mockResolver struct {
	percent decimal.Decimal
}

func (m *mockResolver) Resolve(_ context.Context, _ discount.Target) (decimal.Decimal, error) {
	return m.percent, nil
}

type mockOrderRepo struct {
	lastOrder *order.Order
	stored    map[string]*order.Stored
	createErr error
}

func (m *mockOrderRepo) Create(_ context.Context, o *order.Order) error {
	m.lastOrder = o
	return m.createErr
}

func (m *mockOrderRepo) GetByID(_ context.Context, id string) (*order.Stored, error) {
	s, ok := m.stored[id]
	if !ok {
		return nil, order.ErrNotFound
	}
	return s, nil
}

// --- Helpers ---

var testShipping = pricing.FlatRateShipping{
	FreeThreshold: decimal.NewFromInt(3000),
	Fee:           decimal.NewFromInt(500),
}

func newTestHandler(orderRepo *mockOrderRepo) *Handler {
	tee := &product.Product{ID: "tee-1", Name: "Classic Tee", BasePrice: d("700"), SectionID: "tees"}
	products := &mockProductRepo{
		products: []product.Product{*tee},
		byID:     map[string]*product.Product{"tee-1": tee},
	}
	catalog := &mockCatalog{sizes: []placement.PrintSize{
		{Label: "A5", WidthCm: 14.8, HeightCm: 21, Surcharge: d("250"), PreviewScale: 0.7},
		{Label: "A4", WidthCm: 21, HeightCm: 29.7, Surcharge: d("390"), PreviewScale: 1},
	}}
	svc := order.NewService(products, catalog, &mockResolver{percent: d("10")}, testShipping, orderRepo)

	return New(Config{}, products, catalog, svc, orderRepo, order.NewReconciler(testShipping))
}

func doRequest(t *testing.T, h *Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

// --- Tests ---

func TestListProducts(t *testing.T) {
	h := newTestHandler(&mockOrderRepo{})

	rec := doRequest(t, h, http.MethodGet, "/products", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	products := decodeBody[[]productResponse](t, rec)
	require.Len(t, products, 1)
	assert.Equal(t, "tee-1", products[0].ID)
	assert.Equal(t, 700.0, products[0].BasePrice)
}

func TestGetProduct_NotFound(t *testing.T) {
	h := newTestHandler(&mockOrderRepo{})

	rec := doRequest(t, h, http.MethodGet, "/products/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestQuoteProduct(t *testing.T) {
	h := newTestHandler(&mockOrderRepo{})

	rec := doRequest(t, h, http.MethodGet, "/products/tee-1/quote?size=1&qty=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	quote := decodeBody[pricingResponse](t, rec)
	assert.Equal(t, 2180.0, quote.MerchandiseSubtotal)
	assert.Equal(t, 218.0, quote.DiscountAmount)
	assert.Equal(t, 500.0, quote.ShippingCost)
	assert.Equal(t, 2462.0, quote.OrderTotal)
}

func TestQuoteProduct_BadParams(t *testing.T) {
	h := newTestHandler(&mockOrderRepo{})

	rec := doRequest(t, h, http.MethodGet, "/products/tee-1/quote?size=one&qty=2", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, h, http.MethodGet, "/products/tee-1/quote?size=9&qty=2", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = doRequest(t, h, http.MethodGet, "/products/tee-1/quote?size=0&qty=0", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCreateOrder(t *testing.T) {
	repo := &mockOrderRepo{}
	h := newTestHandler(repo)

	rec := doRequest(t, h, http.MethodPost, "/orders", createOrderRequest{
		ProductID:      "tee-1",
		PrintSizeIndex: 1,
		Quantity:       2,
		Placement:      placementPayload{X: 40, Y: 55, Scale: 1, Rotation: -15, Side: "front"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	resp := decodeBody[orderResponse](t, rec)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "pending", resp.Status)
	require.NotNil(t, resp.Pricing)
	assert.Equal(t, 2462.0, resp.Pricing.OrderTotal)

	// The persisted order froze the same breakdown the client saw.
	require.NotNil(t, repo.lastOrder)
	assert.True(t, d("2462").Equal(repo.lastOrder.Pricing.OrderTotal))
}

func TestCreateOrder_InvalidPlacement(t *testing.T) {
	h := newTestHandler(&mockOrderRepo{})

	rec := doRequest(t, h, http.MethodPost, "/orders", createOrderRequest{
		ProductID:      "tee-1",
		PrintSizeIndex: 0,
		Quantity:       1,
		Placement:      placementPayload{X: 250, Y: 50, Scale: 1, Side: "front"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCreateOrder_BadJSON(t *testing.T) {
	h := newTestHandler(&mockOrderRepo{})

	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader([]byte("{nope")))
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetOrder_SnapshotTotal(t *testing.T) {
	breakdown, err := pricing.Compute(d("700"), d("390"), 2, d("10"), testShipping, false)
	require.NoError(t, err)

	repo := &mockOrderRepo{stored: map[string]*order.Stored{
		"o1": {
			ID:        "o1",
			Status:    order.StatusPaid,
			Quantity:  2,
			Snapshot:  order.Snapshot{OrderID: "o1", Pricing: &breakdown},
			CreatedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		},
	}}
	h := newTestHandler(repo)

	rec := doRequest(t, h, http.MethodGet, "/orders/o1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeBody[orderResponse](t, rec)
	require.NotNil(t, resp.DisplayTotal)
	assert.Equal(t, 2462.0, *resp.DisplayTotal)
	assert.False(t, resp.TotalUnavailable)
}

func TestGetOrder_TotalUnavailable(t *testing.T) {
	repo := &mockOrderRepo{stored: map[string]*order.Stored{
		"legacy": {
			ID:       "legacy",
			Status:   order.StatusShipped,
			Snapshot: order.Snapshot{OrderID: "legacy"},
		},
	}}
	h := newTestHandler(repo)

	rec := doRequest(t, h, http.MethodGet, "/orders/legacy", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeBody[orderResponse](t, rec)
	assert.Nil(t, resp.DisplayTotal)
	assert.True(t, resp.TotalUnavailable)
}

func TestGetOrder_NotFound(t *testing.T) {
	h := newTestHandler(&mockOrderRepo{})

	rec := doRequest(t, h, http.MethodGet, "/orders/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
