package shopify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient(Options{Domain: srv.URL, AccessToken: "tok", APIVersion: "2024-10", RequestsPerSecond: 100})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestNewClient_Validation(t *testing.T) {
	if _, err := NewClient(Options{APIVersion: "2024-10"}); err == nil {
		t.Fatalf("expected error without domain")
	}
	if _, err := NewClient(Options{Domain: "acme.myshopify.com"}); err == nil {
		t.Fatalf("expected error without api version")
	}
	c, err := NewClient(Options{Domain: "acme.myshopify.com", APIVersion: "2024-10"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if c.baseURL != "https://acme.myshopify.com/admin/api/2024-10" {
		t.Fatalf("unexpected base url %q", c.baseURL)
	}
}

func TestSearchVariants_DecodesPage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/admin/api/2024-10/graphql.json" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("X-Shopify-Access-Token") != "tok" {
			t.Errorf("missing access token")
		}
		var req graphQLRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Variables["after"] != "c1" || req.Variables["first"].(float64) != 250 {
			t.Errorf("unexpected variables: %v", req.Variables)
		}
		_, _ = w.Write([]byte(`{"data":{"productVariants":{
			"pageInfo":{"hasNextPage":true,"endCursor":"c2"},
			"nodes":[
				{"id":"gid://shopify/ProductVariant/1","sku":"ABC","title":"Default Title","product":{"title":"Tee"},"inventoryItem":{"id":"gid://shopify/InventoryItem/11"}},
				{"id":"gid://shopify/ProductVariant/2","sku":"","title":"L","product":{"title":"Tee"},"inventoryItem":null}
			]}}}`))
	})

	page, err := c.SearchVariants(context.Background(), "product_status:active", "c1", 250)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if !page.HasNextPage || page.EndCursor != "c2" || len(page.Nodes) != 2 {
		t.Fatalf("unexpected page: %+v", page)
	}
	n := page.Nodes[0]
	if n.SKU != "ABC" || n.ProductTitle != "Tee" || n.InventoryItemID != "gid://shopify/InventoryItem/11" {
		t.Fatalf("unexpected node: %+v", n)
	}
	if page.Nodes[1].InventoryItemID != "" {
		t.Fatalf("missing inventory item should decode as empty")
	}
}

func TestSearchVariants_GraphQLErrors(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"errors":[{"message":"Throttled"}]}`))
	})
	if _, err := c.SearchVariants(context.Background(), "product_status:active", "", 250); err == nil {
		t.Fatalf("expected error")
	}
}

func TestSearchVariants_HTTPError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	_, err := c.SearchVariants(context.Background(), "product_status:active", "", 250)
	var se *StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected StatusError 502, got %v", err)
	}
}

func TestInventoryLevels(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/admin/api/2024-10/inventory_levels.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("inventory_item_ids") != "11,12,13" || q.Get("location_ids") != "99" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"inventory_levels":[
			{"inventory_item_id":11,"location_id":99,"available":25},
			{"inventory_item_id":12,"location_id":99,"available":null}
		]}`))
	})

	levels, err := c.InventoryLevels(context.Background(), "99", []string{"11", "12", "13"})
	if err != nil {
		t.Fatalf("levels: %v", err)
	}
	if len(levels) != 2 {
		t.Fatalf("expected 2 levels, got %d", len(levels))
	}
	if levels[0].InventoryItemID != "11" || levels[0].Available == nil || *levels[0].Available != 25 {
		t.Fatalf("unexpected level: %+v", levels[0])
	}
	if levels[1].Available != nil {
		t.Fatalf("null available should stay nil")
	}
}

func TestDo_RetriesThrottledRequests(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"inventory_levels":[]}`))
	})
	if _, err := c.InventoryLevels(context.Background(), "1", []string{"2"}); err != nil {
		t.Fatalf("throttled request should be retried: %v", err)
	}
	if n := calls.Load(); n != 2 {
		t.Fatalf("expected 2 calls, got %d", n)
	}
}

func TestDo_GivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Retry-After", "0")
		w.WriteHeader(http.StatusTooManyRequests)
	})
	_, err := c.InventoryLevels(context.Background(), "1", []string{"2"})
	var se *StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429 StatusError, got %v", err)
	}
	if n := calls.Load(); n != DefaultMaxRetries+1 {
		t.Fatalf("expected %d calls, got %d", DefaultMaxRetries+1, n)
	}
}

func TestRetryDelay(t *testing.T) {
	cases := map[string]time.Duration{
		"2.0": 2 * time.Second,
		"0.5": 500 * time.Millisecond,
		"":    time.Second,
		"-1":  time.Second,
		"abc": time.Second,
	}
	for in, want := range cases {
		if got := retryDelay(in); got != want {
			t.Fatalf("retryDelay(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestInventoryLevels_GlobalLocationID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("location_ids"); got != "99" {
			t.Errorf("location id should be sent without gid prefix, got %q", got)
		}
		_, _ = w.Write([]byte(`{"inventory_levels":[]}`))
	})
	if _, err := c.InventoryLevels(context.Background(), "gid://shopify/Location/99", []string{"11"}); err != nil {
		t.Fatalf("levels: %v", err)
	}
}
