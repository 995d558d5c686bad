//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func TestListProducts(t *testing.T) {
	resp := doGet(t, "/api/products")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	products := decodeJSON[[]productResponse](t, resp)
	if len(products) != 4 {
		t.Fatalf("expected 4 products, got %d", len(products))
	}

	for _, p := range products {
		if p.ID == "" || p.Name == "" || p.SectionID == "" {
			t.Errorf("product %+v has empty fields", p)
		}
		if p.BasePrice <= 0 {
			t.Errorf("product %s: base price %v, want > 0", p.ID, p.BasePrice)
		}
	}
}

func TestListProducts_SectionFilter(t *testing.T) {
	resp := doGet(t, "/api/products?section=hoodies")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	products := decodeJSON[[]productResponse](t, resp)
	if len(products) != 1 {
		t.Fatalf("expected 1 hoodie, got %d", len(products))
	}
	if products[0].SectionID != "hoodies" {
		t.Errorf("section: got %q, want hoodies", products[0].SectionID)
	}
}

func TestGetProduct(t *testing.T) {
	resp := doGet(t, "/api/products/classic-tee-white")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	p := decodeJSON[productResponse](t, resp)
	if p.ID != "classic-tee-white" {
		t.Errorf("id: got %q", p.ID)
	}
	if p.BasePrice != 700 {
		t.Errorf("base price: got %v, want 700", p.BasePrice)
	}
}

func TestGetProduct_NotFound(t *testing.T) {
	resp := doGet(t, "/api/products/no-such-product")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	body := decodeJSON[errorResponse](t, resp)
	if body.Code != http.StatusNotFound {
		t.Errorf("error code: got %d, want 404", body.Code)
	}
}

func TestListPrintSizes(t *testing.T) {
	resp := doGet(t, "/api/print-sizes")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	sizes := decodeJSON[[]printSizeResponse](t, resp)
	if len(sizes) != 4 {
		t.Fatalf("expected 4 print sizes, got %d", len(sizes))
	}

	// Catalog order is the selection order: A6, A5, A4, A3.
	if sizes[0].Label != "A6" || sizes[3].Label != "A3" {
		t.Errorf("unexpected size order: %q .. %q", sizes[0].Label, sizes[3].Label)
	}
	for i := 1; i < len(sizes); i++ {
		if sizes[i].Surcharge <= sizes[i-1].Surcharge {
			t.Errorf("surcharge not increasing at %s", sizes[i].Label)
		}
	}
}

func TestQuote(t *testing.T) {
	resp := doGet(t, "/api/products/classic-tee-white/quote?size=2&qty=2")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	quote := decodeJSON[pricingResponse](t, resp)
	// (700 + 390) * 2 = 2180, 10% storewide = 218, shipping 500.
	if quote.MerchandiseSubtotal != 2180 {
		t.Errorf("subtotal: got %v, want 2180", quote.MerchandiseSubtotal)
	}
	if quote.DiscountAmount != 218 {
		t.Errorf("discount: got %v, want 218", quote.DiscountAmount)
	}
	if quote.ShippingCost != 500 {
		t.Errorf("shipping: got %v, want 500", quote.ShippingCost)
	}
	if quote.OrderTotal != 2462 {
		t.Errorf("total: got %v, want 2462", quote.OrderTotal)
	}
}

func TestQuote_SectionDiscountWins(t *testing.T) {
	resp := doGet(t, "/api/products/heavy-hoodie-grey/quote?size=2&qty=2")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	quote := decodeJSON[pricingResponse](t, resp)
	// (1800 + 390) * 2 = 4380; hoodies 25% beats storewide 10%; free shipping.
	if quote.DiscountPercent != 25 {
		t.Errorf("discount percent: got %v, want 25", quote.DiscountPercent)
	}
	if quote.DiscountAmount != 1095 {
		t.Errorf("discount: got %v, want 1095", quote.DiscountAmount)
	}
	if quote.ShippingCost != 0 {
		t.Errorf("shipping: got %v, want 0", quote.ShippingCost)
	}
	if quote.OrderTotal != 3285 {
		t.Errorf("total: got %v, want 3285", quote.OrderTotal)
	}
}

func TestQuote_PreDiscountedProduct(t *testing.T) {
	resp := doGet(t, "/api/products/last-season-tee/quote?size=2&qty=1")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	quote := decodeJSON[pricingResponse](t, resp)
	// Clearance price already includes the markdown; no further discount.
	if quote.DiscountPercent != 0 {
		t.Errorf("discount percent: got %v, want 0", quote.DiscountPercent)
	}
	if quote.OrderTotal != 1290 {
		t.Errorf("total: got %v, want 1290", quote.OrderTotal)
	}
}

func TestQuote_UnknownSize(t *testing.T) {
	resp := doGet(t, "/api/products/classic-tee-white/quote?size=9&qty=1")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
}
