package inventory

import (
	"context"

	"github.com/fekuna/omnipos-inventory-snapshot/internal/model"
)

// Client is the commerce platform's inventory level lookup.
type Client interface {
	InventoryLevels(ctx context.Context, locationID string, itemIDs []string) ([]model.InventoryLevel, error)
}
