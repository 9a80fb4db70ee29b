package model

import "time"

// SnapshotRow is one immutable row of the append-only snapshot table.
// Column order in the table follows the field order here.
type SnapshotRow struct {
	ID                 string    `db:"id" json:"id"`
	SnapshotDate       string    `db:"snapshot_date" json:"snapshot_date"` // YYYY-MM-DD in the snapshot time zone
	SnapshotTS         time.Time `db:"snapshot_ts" json:"snapshot_ts"`
	RunID              string    `db:"run_id" json:"run_id"`
	SKU                string    `db:"sku" json:"sku"`
	ProductName        string    `db:"product_name" json:"product_name"`
	VariantID          string    `db:"variant_id" json:"variant_id"`
	InventoryItemID    string    `db:"inventory_item_id" json:"inventory_item_id"`
	Colorway           string    `db:"colorway" json:"colorway"`
	Size               string    `db:"size" json:"size"`
	ProductClass       string    `db:"product_class" json:"product_class"`
	SizeClass          string    `db:"size_class" json:"size_class"`
	SafetyStock        int       `db:"safety_stock" json:"safety_stock"`
	AvailableQuantity  int       `db:"available_quantity" json:"available_quantity"`
	BalanceVsSafety    int       `db:"balance_vs_safety" json:"balance_vs_safety"`
	ProductClassWeight int       `db:"product_class_weight" json:"product_class_weight"`
	SizeClassWeight    int       `db:"size_class_weight" json:"size_class_weight"`
	TotalWeight        int       `db:"total_weight" json:"total_weight"`
	IsTracked          bool      `db:"is_tracked" json:"is_tracked"`
	InStockV1          bool      `db:"in_stock_v1" json:"in_stock_v1"`
	WeightedInStockV1  int       `db:"weighted_in_stock_v1" json:"weighted_in_stock_v1"`
	InStockV2          bool      `db:"in_stock_v2" json:"in_stock_v2"`
	WeightedInStockV2  int       `db:"weighted_in_stock_v2" json:"weighted_in_stock_v2"`
}

type RunStatus string

const (
	RunStatusOK      RunStatus = "ok"
	RunStatusSkipped RunStatus = "skipped"
	RunStatusError   RunStatus = "error"
)

// RunSummary is returned by every run, including failed ones.
type RunSummary struct {
	Status       RunStatus `json:"status"`
	RunID        string    `json:"run_id,omitempty"`
	SnapshotDate string    `json:"snapshot_date"`
	RowsInserted int       `json:"rows_inserted"`
	TrackedSKUs  int       `json:"tracked_skus"`
	ErrorCount   int       `json:"error_count"`
	Errors       []string  `json:"errors"`
	Reason       string    `json:"reason,omitempty"`
}
