package app_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/Jottis18/sistema-orcamentos/internal/app"
	"github.com/Jottis18/sistema-orcamentos/internal/catalog"
	"github.com/Jottis18/sistema-orcamentos/internal/quote"
	"github.com/Jottis18/sistema-orcamentos/internal/validation"
)

func newAPI(t *testing.T, deps app.HTTPDeps) *httptest.Server {
	t.Helper()

	v := validation.New()
	cs := &catalog.Server{Store: catalog.NewMemStore(), Log: zap.NewNop(), Validate: v}
	qs := &quote.Server{Store: quote.NewMemStore(), Log: zap.NewNop(), Validate: v}

	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if deps.Service == "" {
		deps.Service = "orcamentos"
	}

	return httptest.NewServer(app.NewHandler(cs, qs, deps))
}

func doJSON(t *testing.T, method, url string, body any, headers map[string]string) (*http.Response, []byte) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, url, r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, raw
}

// Full quoting flow: catalog a product, quote it for a client, then
// delete the quote.
func TestAPI_QuotingFlow(t *testing.T) {
	ts := newAPI(t, app.HTTPDeps{})
	t.Cleanup(ts.Close)

	resp, raw := doJSON(t, http.MethodPost, ts.URL+"/products", map[string]any{
		"name":  "Widget",
		"price": 9.99,
	}, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create product status = %d, body = %s", resp.StatusCode, raw)
	}

	var p catalog.Product
	if err := json.Unmarshal(raw, &p); err != nil {
		t.Fatalf("unmarshal product: %v", err)
	}
	if p.ID == "" || p.Price != 9.99 {
		t.Fatalf("product = %+v", p)
	}

	resp, raw = doJSON(t, http.MethodPost, ts.URL+"/quotes", map[string]any{
		"client": "Acme",
		"items": []map[string]any{
			{"productId": p.ID, "name": "Widget", "quantity": 3, "price": 9.99},
		},
	}, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create quote status = %d, body = %s", resp.StatusCode, raw)
	}

	var q quote.Quote
	if err := json.Unmarshal(raw, &q); err != nil {
		t.Fatalf("unmarshal quote: %v", err)
	}
	if q.Total != 29.97 {
		t.Errorf("total = %v, want 29.97", q.Total)
	}
	if len(q.Items) != 1 || q.Items[0].Subtotal != 29.97 {
		t.Errorf("items = %+v", q.Items)
	}

	// deleting the product does not cascade to the quote
	resp, _ = doJSON(t, http.MethodDelete, ts.URL+"/products/"+p.ID, nil, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete product status = %d", resp.StatusCode)
	}

	resp, raw = doJSON(t, http.MethodGet, ts.URL+"/quotes/"+q.ID, nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get quote status = %d", resp.StatusCode)
	}
	var got quote.Quote
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal quote: %v", err)
	}
	if got.Items[0].Name != "Widget" || got.Items[0].Price != 9.99 {
		t.Errorf("denormalized item changed after product delete: %+v", got.Items[0])
	}

	resp, _ = doJSON(t, http.MethodDelete, ts.URL+"/quotes/"+q.ID, nil, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete quote status = %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/quotes/"+q.ID, nil, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("get deleted quote status = %d, want 404", resp.StatusCode)
	}
}

func TestAPI_Health(t *testing.T) {
	ts := newAPI(t, app.HTTPDeps{})
	t.Cleanup(ts.Close)

	for _, path := range []string{"/healthz", "/readyz"} {
		resp, _ := doJSON(t, http.MethodGet, ts.URL+path, nil, nil)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, resp.StatusCode)
		}
	}
}

func TestAPI_MetricsGated(t *testing.T) {
	ts := newAPI(t, app.HTTPDeps{
		Registry:       prometheus.NewRegistry(),
		MetricsEnabled: true,
		MetricsToken:   "s3cret",
	})
	t.Cleanup(ts.Close)

	resp, _ := doJSON(t, http.MethodGet, ts.URL+"/metrics", nil, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("no token status = %d, want 403", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/metrics", nil, map[string]string{
		"Authorization": "Bearer s3cret",
	})
	if resp.StatusCode != http.StatusOK {
		t.Errorf("with token status = %d, want 200", resp.StatusCode)
	}
}

func TestAPI_WriteRateLimit(t *testing.T) {
	ts := newAPI(t, app.HTTPDeps{WriteLimitPerMin: 2})
	t.Cleanup(ts.Close)

	body := map[string]any{"name": "Widget", "price": 1.0}

	for i := 0; i < 2; i++ {
		resp, _ := doJSON(t, http.MethodPost, ts.URL+"/products", body, nil)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("request %d status = %d, want 201", i, resp.StatusCode)
		}
	}

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/products", body, nil)
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", resp.StatusCode)
	}

	// reads are not limited
	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/products", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("list status = %d, want 200", resp.StatusCode)
	}
}
