package catalog

import (
	"context"

	"github.com/fekuna/omnipos-inventory-snapshot/internal/model"
)

type UseCase interface {
	// FetchActiveVariants returns every active variant with a non-empty SKU,
	// or an error if any page fails.
	FetchActiveVariants(ctx context.Context) ([]model.CatalogVariant, error)
}
