package model

// CatalogVariant is one active product variant from the commerce platform.
// Built fresh every run, never persisted on its own.
type CatalogVariant struct {
	SKU             string `json:"sku"`
	ProductName     string `json:"product_name"`
	VariantID       string `json:"variant_id"`
	InventoryItemID string `json:"inventory_item_id"`
}

// CatalogPage is one cursor page of the variant search.
type CatalogPage struct {
	Nodes       []CatalogNode
	HasNextPage bool
	EndCursor   string
}

// CatalogNode is the raw variant node as returned by the platform.
type CatalogNode struct {
	SKU             string
	Title           string
	ProductTitle    string
	VariantID       string
	InventoryItemID string
}

// InventoryLevel is one row of the platform's inventory level lookup.
type InventoryLevel struct {
	InventoryItemID string
	LocationID      string
	Available       *int
}
