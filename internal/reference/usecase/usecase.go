package usecase

import (
	"context"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/fekuna/omnipos-inventory-snapshot/internal/apperr"
	"github.com/fekuna/omnipos-inventory-snapshot/internal/model"
	"github.com/fekuna/omnipos-inventory-snapshot/internal/reference"
	"github.com/fekuna/omnipos-inventory-snapshot/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// field describes how one logical column is located in the reference table:
// first by any of the header synonyms, then by the fixed fallback index used
// by tables authored before they had a header row.
type field struct {
	name     string
	synonyms []string
	fallback int
}

const (
	fieldSKU         = "sku"
	fieldColorway    = "colorway"
	fieldSize        = "size"
	fieldClass       = "class"
	fieldSafetyStock = "safety_stock"
)

var fields = []field{
	{name: fieldSKU, synonyms: []string{"sku", "sku_code", "variant_sku", "item_sku"}, fallback: 0},
	{name: fieldColorway, synonyms: []string{"colorway", "color_way", "color", "colour"}, fallback: 1},
	{name: fieldSize, synonyms: []string{"size", "size_label", "variant_size"}, fallback: 2},
	{name: fieldClass, synonyms: []string{"class", "product_class", "sku_class", "tier"}, fallback: 3},
	{name: fieldSafetyStock, synonyms: []string{"safety_stock", "safetystock", "safety", "safety_stock_qty", "min_stock"}, fallback: 4},
}

var (
	whitespaceRe  = regexp.MustCompile(`\s+`)
	nonWordRe     = regexp.MustCompile(`[^a-z0-9_]`)
	underscoresRe = regexp.MustCompile(`_+`)
	lower         = cases.Lower(language.Und)
)

type referenceUseCase struct {
	repo   reference.Repository
	logger logger.ZapLogger
}

func NewReferenceUseCase(repo reference.Repository, log logger.ZapLogger) reference.UseCase {
	return &referenceUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *referenceUseCase) LoadTrackedSKUs(ctx context.Context) (map[string]model.TrackedSKU, error) {
	rows, err := uc.repo.ReadRange(ctx)
	if err != nil {
		return nil, &apperr.ConfigurationError{Msg: "read reference table: " + err.Error()}
	}
	if len(rows) < 2 {
		return nil, &apperr.ConfigurationError{Msg: "reference table has no data rows"}
	}

	cols := ResolveColumns(rows[0])
	uc.logger.Debug("reference columns resolved", zap.Any("columns", cols))

	tracked := make(map[string]model.TrackedSKU, len(rows)-1)
	skipped := 0
	for _, row := range rows[1:] {
		sku := strings.TrimSpace(cell(row, cols[fieldSKU]))
		if sku == "" {
			skipped++
			continue
		}
		// Later rows overwrite earlier ones for a duplicated SKU.
		tracked[sku] = model.TrackedSKU{
			SKU:          sku,
			Colorway:     strings.TrimSpace(cell(row, cols[fieldColorway])),
			Size:         strings.TrimSpace(cell(row, cols[fieldSize])),
			ProductClass: NormalizeClass(cell(row, cols[fieldClass])),
			SafetyStock:  ParseSafetyStock(cell(row, cols[fieldSafetyStock])),
		}
	}

	uc.logger.Info("reference table loaded",
		zap.Int("rows", len(rows)-1),
		zap.Int("tracked_skus", len(tracked)),
		zap.Int("skipped_blank_sku", skipped),
	)
	return tracked, nil
}

// ResolveColumns maps each logical field to a column index, or -1 when the
// field can be found neither by header nor by fallback position.
func ResolveColumns(header []string) map[string]int {
	byName := make(map[string]int, len(header))
	for i, h := range header {
		key := NormalizeHeader(h)
		if key == "" {
			continue
		}
		if _, dup := byName[key]; !dup {
			byName[key] = i
		}
	}

	out := make(map[string]int, len(fields))
	claimed := make(map[int]bool, len(fields))
	for _, f := range fields {
		out[f.name] = -1
		for _, syn := range f.synonyms {
			if idx, ok := byName[syn]; ok {
				out[f.name] = idx
				claimed[idx] = true
				break
			}
		}
	}
	// A fallback position already taken by a named field is not reused.
	for _, f := range fields {
		if out[f.name] != -1 || f.fallback >= len(header) || claimed[f.fallback] {
			continue
		}
		out[f.name] = f.fallback
		claimed[f.fallback] = true
	}
	return out
}

// NormalizeHeader turns "  Safety  Stock " into "safety_stock".
func NormalizeHeader(h string) string {
	s := stripDiacritics(lower.String(strings.TrimSpace(h)))
	s = whitespaceRe.ReplaceAllString(s, "_")
	s = nonWordRe.ReplaceAllString(s, "")
	s = underscoresRe.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

func stripDiacritics(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// NormalizeClass upper-cases the class and drops a leading "CLASS" label.
func NormalizeClass(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if rest, ok := strings.CutPrefix(s, "CLASS "); ok {
		s = strings.TrimSpace(rest)
	}
	return s
}

// ParseSafetyStock coerces anything unparseable or negative to 0.
func ParseSafetyStock(raw string) int {
	s := strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return int(math.Floor(v))
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
