package catalog

import (
	"context"

	"github.com/fekuna/omnipos-inventory-snapshot/internal/model"
)

// ActiveProductsQuery restricts the search to variants of active products.
const ActiveProductsQuery = "product_status:active"

// Client is the commerce platform's paginated variant search.
type Client interface {
	SearchVariants(ctx context.Context, query, cursor string, pageSize int) (*model.CatalogPage, error)
}
