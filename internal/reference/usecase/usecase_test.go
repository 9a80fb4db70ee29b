package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/fekuna/omnipos-inventory-snapshot/internal/apperr"
	"github.com/fekuna/omnipos-inventory-snapshot/pkg/logger"
)

type fakeRepo struct {
	rows [][]string
	err  error
}

func (f *fakeRepo) ReadRange(ctx context.Context) ([][]string, error) {
	return f.rows, f.err
}

func load(t *testing.T, rows [][]string) map[string]int {
	t.Helper()
	uc := NewReferenceUseCase(&fakeRepo{rows: rows}, logger.NewNop())
	got, err := uc.LoadTrackedSKUs(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	out := make(map[string]int, len(got))
	for k, v := range got {
		out[k] = v.SafetyStock
	}
	return out
}

func TestNormalizeHeader(t *testing.T) {
	cases := map[string]string{
		"SKU":                  "sku",
		"  Safety   Stock ":    "safety_stock",
		"Product-Class":        "productclass",
		"Colorway (primary)":   "colorway_primary",
		"Safety Stock (units)": "safety_stock_units",
		"Côlorway":             "colorway",
		"":                     "",
	}
	for in, want := range cases {
		if got := NormalizeHeader(in); got != want {
			t.Fatalf("NormalizeHeader(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestResolveColumns_ByHeaderReordered(t *testing.T) {
	cols := ResolveColumns([]string{"Safety Stock", "Size", "Notes", "SKU", "Product Class", "Color"})
	want := map[string]int{
		fieldSKU:         3,
		fieldColorway:    5,
		fieldSize:        1,
		fieldClass:       4,
		fieldSafetyStock: 0,
	}
	for k, v := range want {
		if cols[k] != v {
			t.Fatalf("%s: got %d want %d (all=%v)", k, cols[k], v, cols)
		}
	}
}

func TestResolveColumns_PositionalFallback(t *testing.T) {
	cols := ResolveColumns([]string{"a", "b", "c", "d", "e"})
	for i, f := range []string{fieldSKU, fieldColorway, fieldSize, fieldClass, fieldSafetyStock} {
		if cols[f] != i {
			t.Fatalf("%s: got %d want %d", f, cols[f], i)
		}
	}
}

func TestResolveColumns_FallbackSkipsClaimedColumn(t *testing.T) {
	// colorway column removed: its fallback index 1 now holds "size".
	cols := ResolveColumns([]string{"sku", "size", "class", "safety_stock"})
	if cols[fieldColorway] != -1 {
		t.Fatalf("colorway should be absent, got %d", cols[fieldColorway])
	}
	if cols[fieldSize] != 1 || cols[fieldClass] != 2 || cols[fieldSafetyStock] != 3 {
		t.Fatalf("unexpected columns: %v", cols)
	}
}

func TestResolveColumns_ShortHeaderLeavesFieldsAbsent(t *testing.T) {
	cols := ResolveColumns([]string{"sku"})
	if cols[fieldSKU] != 0 {
		t.Fatalf("sku: %d", cols[fieldSKU])
	}
	if cols[fieldSafetyStock] != -1 {
		t.Fatalf("safety_stock should be absent, got %d", cols[fieldSafetyStock])
	}
}

func TestParseSafetyStock(t *testing.T) {
	cases := map[string]int{
		"20":    20,
		" 7 ":   7,
		"1,200": 1200,
		"3.9":   3,
		"":      0,
		"n/a":   0,
		"-4":    0,
	}
	for in, want := range cases {
		if got := ParseSafetyStock(in); got != want {
			t.Fatalf("ParseSafetyStock(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestNormalizeClass(t *testing.T) {
	cases := map[string]string{"a": "A", " le ": "LE", "Class B": "B", "": ""}
	for in, want := range cases {
		if got := NormalizeClass(in); got != want {
			t.Fatalf("NormalizeClass(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLoadTrackedSKUs_SkipsBlankAndLastWins(t *testing.T) {
	got := load(t, [][]string{
		{"SKU", "Colorway", "Size", "Class", "Safety Stock"},
		{"ABC", "Black", "YTH-MD", "a", "5"},
		{"   ", "White", "SR-MD", "B", "3"},
		{"XYZ", "Red", "XL", "C", "oops"},
		{"ABC", "Black", "YTH-MD", "a", "20"},
	})
	if len(got) != 2 {
		t.Fatalf("expected 2 skus, got %v", got)
	}
	if got["ABC"] != 20 {
		t.Fatalf("last occurrence should win, got %d", got["ABC"])
	}
	if got["XYZ"] != 0 {
		t.Fatalf("unparseable safety stock should be 0, got %d", got["XYZ"])
	}
}

func TestLoadTrackedSKUs_RaggedRow(t *testing.T) {
	uc := NewReferenceUseCase(&fakeRepo{rows: [][]string{
		{"sku", "colorway", "size", "class", "safety_stock"},
		{"ABC", "Black"},
	}}, logger.NewNop())
	got, err := uc.LoadTrackedSKUs(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	def := got["ABC"]
	if def.Colorway != "Black" || def.Size != "" || def.ProductClass != "" || def.SafetyStock != 0 {
		t.Fatalf("unexpected definition: %+v", def)
	}
}

func TestLoadTrackedSKUs_EmptyTable(t *testing.T) {
	for _, rows := range [][][]string{nil, {{"sku"}}} {
		uc := NewReferenceUseCase(&fakeRepo{rows: rows}, logger.NewNop())
		_, err := uc.LoadTrackedSKUs(context.Background())
		var cfgErr *apperr.ConfigurationError
		if !errors.As(err, &cfgErr) {
			t.Fatalf("expected ConfigurationError, got %v", err)
		}
	}
}

func TestLoadTrackedSKUs_ReadFailure(t *testing.T) {
	uc := NewReferenceUseCase(&fakeRepo{err: errors.New("disk gone")}, logger.NewNop())
	_, err := uc.LoadTrackedSKUs(context.Background())
	var cfgErr *apperr.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
}
