package reference

import (
	"context"

	"github.com/fekuna/omnipos-inventory-snapshot/internal/model"
)

type UseCase interface {
	// LoadTrackedSKUs returns the tracked metadata keyed by SKU.
	LoadTrackedSKUs(ctx context.Context) (map[string]model.TrackedSKU, error)
}
