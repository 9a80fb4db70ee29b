package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/fekuna/omnipos-inventory-snapshot/internal/apperr"
	"github.com/fekuna/omnipos-inventory-snapshot/internal/catalog"
	"github.com/fekuna/omnipos-inventory-snapshot/internal/model"
	"github.com/fekuna/omnipos-inventory-snapshot/pkg/logger"
)

type fakeClient struct {
	pages   []*model.CatalogPage
	failAt  int // 1-based page number that fails, 0 = never
	cursors []string
	sizes   []int
	queries []string
}

func (f *fakeClient) SearchVariants(ctx context.Context, query, cursor string, pageSize int) (*model.CatalogPage, error) {
	f.cursors = append(f.cursors, cursor)
	f.sizes = append(f.sizes, pageSize)
	f.queries = append(f.queries, query)
	n := len(f.cursors)
	if n == f.failAt {
		return nil, errors.New("boom")
	}
	return f.pages[n-1], nil
}

func node(sku, title, product, variantID, itemID string) model.CatalogNode {
	return model.CatalogNode{SKU: sku, Title: title, ProductTitle: product, VariantID: variantID, InventoryItemID: itemID}
}

func TestFetchActiveVariants_Paginates(t *testing.T) {
	client := &fakeClient{pages: []*model.CatalogPage{
		{
			Nodes: []model.CatalogNode{
				node("ABC", "Default Title", "Tee", "gid://shopify/ProductVariant/1", "gid://shopify/InventoryItem/11"),
				node("  ", "L", "Tee", "gid://shopify/ProductVariant/2", "gid://shopify/InventoryItem/12"),
			},
			HasNextPage: true,
			EndCursor:   "c1",
		},
		{
			Nodes:       []model.CatalogNode{node(" XYZ ", "Red / L", "Hoodie", "gid://shopify/ProductVariant/3", "gid://shopify/InventoryItem/13")},
			HasNextPage: false,
		},
	}}

	uc := NewCatalogUseCase(client, 0, logger.NewNop())
	got, err := uc.FetchActiveVariants(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if len(client.cursors) != 2 || client.cursors[0] != "" || client.cursors[1] != "c1" {
		t.Fatalf("unexpected cursors: %v", client.cursors)
	}
	if client.queries[0] != catalog.ActiveProductsQuery {
		t.Fatalf("expected active products query, got %q", client.queries[0])
	}
	if client.sizes[0] != DefaultPageSize {
		t.Fatalf("expected default page size, got %d", client.sizes[0])
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 variants (empty sku dropped), got %d", len(got))
	}
	want0 := model.CatalogVariant{SKU: "ABC", ProductName: "Tee", VariantID: "1", InventoryItemID: "11"}
	if got[0] != want0 {
		t.Fatalf("got %+v want %+v", got[0], want0)
	}
	if got[1].SKU != "XYZ" || got[1].ProductName != "Hoodie - Red / L" || got[1].InventoryItemID != "13" {
		t.Fatalf("unexpected variant: %+v", got[1])
	}
}

func TestFetchActiveVariants_PageFailureAborts(t *testing.T) {
	client := &fakeClient{
		pages: []*model.CatalogPage{
			{Nodes: []model.CatalogNode{node("ABC", "", "Tee", "1", "11")}, HasNextPage: true, EndCursor: "c1"},
			nil,
		},
		failAt: 2,
	}
	uc := NewCatalogUseCase(client, 50, logger.NewNop())
	got, err := uc.FetchActiveVariants(context.Background())
	var upErr *apperr.UpstreamCatalogError
	if !errors.As(err, &upErr) {
		t.Fatalf("expected UpstreamCatalogError, got %v", err)
	}
	if upErr.Page != 2 {
		t.Fatalf("expected failing page 2, got %d", upErr.Page)
	}
	if got != nil {
		t.Fatalf("no partial catalog may be returned, got %d variants", len(got))
	}
}

func TestFetchActiveVariants_StuckCursor(t *testing.T) {
	client := &fakeClient{pages: []*model.CatalogPage{
		{HasNextPage: true, EndCursor: "c1"},
		{HasNextPage: true, EndCursor: "c1"},
	}}
	uc := NewCatalogUseCase(client, 10, logger.NewNop())
	_, err := uc.FetchActiveVariants(context.Background())
	var upErr *apperr.UpstreamCatalogError
	if !errors.As(err, &upErr) {
		t.Fatalf("expected UpstreamCatalogError, got %v", err)
	}
}

func TestDisplayName(t *testing.T) {
	cases := []struct{ product, variant, want string }{
		{"Tee", "Default Title", "Tee"},
		{"Tee", "", "Tee"},
		{"Tee", "Black / M", "Tee - Black / M"},
		{"", "Black / M", "Black / M"},
	}
	for _, c := range cases {
		if got := DisplayName(c.product, c.variant); got != c.want {
			t.Fatalf("DisplayName(%q, %q) = %q, want %q", c.product, c.variant, got, c.want)
		}
	}
}
