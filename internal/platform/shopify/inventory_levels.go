package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/fekuna/omnipos-inventory-snapshot/internal/model"
	"github.com/fekuna/omnipos-inventory-snapshot/internal/platform/gid"
)

type inventoryLevelsResponse struct {
	InventoryLevels []struct {
		InventoryItemID json.Number `json:"inventory_item_id"`
		LocationID      json.Number `json:"location_id"`
		Available       *int        `json:"available"`
	} `json:"inventory_levels"`
}

// InventoryLevels returns the levels at one location for the given items.
// Items the platform has no record for are simply absent from the result.
func (c *Client) InventoryLevels(ctx context.Context, locationID string, itemIDs []string) ([]model.InventoryLevel, error) {
	q := url.Values{}
	q.Set("inventory_item_ids", strings.Join(itemIDs, ","))
	q.Set("location_ids", gid.Strip(locationID))
	q.Set("limit", strconv.Itoa(250))

	body, err := c.do(ctx, http.MethodGet, c.baseURL+"/inventory_levels.json?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var resp inventoryLevelsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("shopify: decode inventory levels: %w", err)
	}

	out := make([]model.InventoryLevel, 0, len(resp.InventoryLevels))
	for _, lvl := range resp.InventoryLevels {
		out = append(out, model.InventoryLevel{
			InventoryItemID: lvl.InventoryItemID.String(),
			LocationID:      lvl.LocationID.String(),
			Available:       lvl.Available,
		})
	}
	return out, nil
}
