package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-inventory-snapshot/internal/model"
)

const variantsQuery = `query Variants($first: Int!, $after: String, $query: String) {
  productVariants(first: $first, after: $after, query: $query) {
    pageInfo { hasNextPage endCursor }
    nodes {
      id
      sku
      title
      product { title }
      inventoryItem { id }
    }
  }
}`

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type variantsResponse struct {
	Data struct {
		ProductVariants struct {
			PageInfo struct {
				HasNextPage bool   `json:"hasNextPage"`
				EndCursor   string `json:"endCursor"`
			} `json:"pageInfo"`
			Nodes []struct {
				ID      string `json:"id"`
				SKU     string `json:"sku"`
				Title   string `json:"title"`
				Product struct {
					Title string `json:"title"`
				} `json:"product"`
				InventoryItem *struct {
					ID string `json:"id"`
				} `json:"inventoryItem"`
			} `json:"nodes"`
		} `json:"productVariants"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

// SearchVariants fetches one page of variants. An empty cursor requests the
// first page.
func (c *Client) SearchVariants(ctx context.Context, query, cursor string, pageSize int) (*model.CatalogPage, error) {
	vars := map[string]any{"first": pageSize, "query": query}
	if cursor != "" {
		vars["after"] = cursor
	}

	body, err := c.postJSON(ctx, "/graphql.json", graphQLRequest{Query: variantsQuery, Variables: vars})
	if err != nil {
		return nil, err
	}

	var resp variantsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("shopify: decode variants page: %w", err)
	}
	if len(resp.Errors) > 0 {
		msgs := make([]string, 0, len(resp.Errors))
		for _, e := range resp.Errors {
			msgs = append(msgs, e.Message)
		}
		return nil, fmt.Errorf("shopify: graphql: %s", strings.Join(msgs, "; "))
	}

	pv := resp.Data.ProductVariants
	page := &model.CatalogPage{
		Nodes:       make([]model.CatalogNode, 0, len(pv.Nodes)),
		HasNextPage: pv.PageInfo.HasNextPage,
		EndCursor:   pv.PageInfo.EndCursor,
	}
	for _, n := range pv.Nodes {
		node := model.CatalogNode{
			SKU:          n.SKU,
			Title:        n.Title,
			ProductTitle: n.Product.Title,
			VariantID:    n.ID,
		}
		if n.InventoryItem != nil {
			node.InventoryItemID = n.InventoryItem.ID
		}
		page.Nodes = append(page.Nodes, node)
	}
	return page, nil
}
