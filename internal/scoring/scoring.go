// Package scoring joins catalog variants with tracked reference metadata and
// computes the weighted availability metrics stored in each snapshot row.
package scoring

import (
	"regexp"
	"strings"

	"github.com/fekuna/omnipos-inventory-snapshot/internal/model"
)

const (
	SizeClassA = "A"
	SizeClassB = "B"
)

// ProductClassWeights: unknown classes weigh 0.
var ProductClassWeights = map[string]int{
	"A":  4,
	"B":  3,
	"C":  2,
	"LE": 1,
}

var SizeClassWeights = map[string]int{
	SizeClassA: 3,
	SizeClassB: 1,
}

// coreSizes are the size tokens that make up size class A. Changing this set
// changes every historical score, so it is fixed.
var coreSizes = map[string]struct{}{
	"YTH-SM": {},
	"YTH-MD": {},
	"YTH-LG": {},
	"SR-SM":  {},
	"SR-MD":  {},
	"SR-LG":  {},
}

var sizeSepRe = regexp.MustCompile(`[\s_]+`)

// ScoreVariant is one definition of "in stock" and its weighted contribution.
type ScoreVariant struct {
	InStock  bool
	Weighted int
}

// Scores keeps both in-stock definitions side by side.
type Scores struct {
	// SafetyAware (v1): in stock when available covers the safety stock, or
	// when there is no safety stock and anything is available.
	SafetyAware ScoreVariant
	// AnyPositive (v2): in stock when anything is available.
	AnyPositive ScoreVariant
}

// Result holds the computed metrics for one variant.
type Result struct {
	Tracked            bool
	SizeClass          string
	ProductClassWeight int
	SizeClassWeight    int
	TotalWeight        int
	BalanceVsSafety    int
	Scores             Scores
}

// NormalizeSize upper-cases a size and joins its parts with "-".
func NormalizeSize(size string) string {
	s := strings.ToUpper(strings.TrimSpace(size))
	return sizeSepRe.ReplaceAllString(s, "-")
}

// SizeClass returns A for core sizes and B for everything else.
func SizeClass(size string) string {
	if _, ok := coreSizes[NormalizeSize(size)]; ok {
		return SizeClassA
	}
	return SizeClassB
}

// Score computes metrics for a variant. def is nil for untracked variants,
// which get zero weights; their in-stock flags are still computed as if
// safety stock were 0.
func Score(def *model.TrackedSKU, available int) Result {
	if def == nil {
		inStock := available > 0
		return Result{
			BalanceVsSafety: available,
			Scores: Scores{
				SafetyAware: ScoreVariant{InStock: inStock},
				AnyPositive: ScoreVariant{InStock: inStock},
			},
		}
	}

	sizeClass := SizeClass(def.Size)
	pw := ProductClassWeights[strings.ToUpper(strings.TrimSpace(def.ProductClass))]
	sw := SizeClassWeights[sizeClass]
	total := pw * sw

	v1 := safetyAwareInStock(def.SafetyStock, available)
	v2 := available > 0

	return Result{
		Tracked:            true,
		SizeClass:          sizeClass,
		ProductClassWeight: pw,
		SizeClassWeight:    sw,
		TotalWeight:        total,
		BalanceVsSafety:    available - def.SafetyStock,
		Scores: Scores{
			SafetyAware: ScoreVariant{InStock: v1, Weighted: weighted(v1, total)},
			AnyPositive: ScoreVariant{InStock: v2, Weighted: weighted(v2, total)},
		},
	}
}

func safetyAwareInStock(safety, available int) bool {
	if safety > 0 {
		return available >= safety
	}
	return available > 0
}

func weighted(inStock bool, total int) int {
	if inStock {
		return total
	}
	return 0
}

// BuildRow fills the scoring and metadata columns of a snapshot row. Identity
// columns (id, date, run) are left to the caller.
func BuildRow(v model.CatalogVariant, def *model.TrackedSKU, available int) model.SnapshotRow {
	r := Score(def, available)
	row := model.SnapshotRow{
		SKU:                v.SKU,
		ProductName:        v.ProductName,
		VariantID:          v.VariantID,
		InventoryItemID:    v.InventoryItemID,
		AvailableQuantity:  available,
		BalanceVsSafety:    r.BalanceVsSafety,
		SizeClass:          r.SizeClass,
		ProductClassWeight: r.ProductClassWeight,
		SizeClassWeight:    r.SizeClassWeight,
		TotalWeight:        r.TotalWeight,
		IsTracked:          r.Tracked,
		InStockV1:          r.Scores.SafetyAware.InStock,
		WeightedInStockV1:  r.Scores.SafetyAware.Weighted,
		InStockV2:          r.Scores.AnyPositive.InStock,
		WeightedInStockV2:  r.Scores.AnyPositive.Weighted,
	}
	if def != nil {
		row.Colorway = def.Colorway
		row.Size = def.Size
		row.ProductClass = def.ProductClass
		row.SafetyStock = def.SafetyStock
	}
	return row
}
