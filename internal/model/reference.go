package model

// TrackedSKU is one row of the curated reference table.
type TrackedSKU struct {
	SKU          string `json:"sku"`
	Colorway     string `json:"colorway"`
	Size         string `json:"size"`
	ProductClass string `json:"product_class"`
	SafetyStock  int    `json:"safety_stock"`
}
