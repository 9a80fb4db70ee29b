package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/xuri/excelize/v2"
)

// XLSXRepository reads the reference table from a sheet of an xlsx workbook.
type XLSXRepository struct {
	Path  string
	Sheet string
	// Range is an optional A1-style bound such as "A1:F" or "A:F500".
	Range string
}

func NewXLSXRepository(path, sheet, cellRange string) *XLSXRepository {
	return &XLSXRepository{Path: path, Sheet: sheet, Range: cellRange}
}

func (r *XLSXRepository) ReadRange(ctx context.Context) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(r.Path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", r.Path, err)
	}
	defer f.Close()

	sheet := r.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook %s has no sheets", r.Path)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	if r.Range == "" {
		return rows, nil
	}
	b, err := parseBounds(r.Range)
	if err != nil {
		return nil, err
	}
	return b.apply(rows), nil
}

// bounds are 1-based and inclusive; zero means open-ended.
type bounds struct {
	firstCol, lastCol int
	firstRow, lastRow int
}

func parseBounds(rng string) (bounds, error) {
	parts := strings.Split(strings.TrimSpace(rng), ":")
	if len(parts) != 2 {
		return bounds{}, fmt.Errorf("invalid range %q", rng)
	}
	c1, r1, err := splitRef(parts[0])
	if err != nil {
		return bounds{}, err
	}
	c2, r2, err := splitRef(parts[1])
	if err != nil {
		return bounds{}, err
	}
	return bounds{firstCol: c1, lastCol: c2, firstRow: r1, lastRow: r2}, nil
}

// splitRef accepts "F", "F12" and "12".
func splitRef(ref string) (col, row int, err error) {
	ref = strings.ToUpper(strings.TrimSpace(ref))
	i := strings.IndexFunc(ref, unicode.IsDigit)
	letters, digits := ref, ""
	if i >= 0 {
		letters, digits = ref[:i], ref[i:]
	}
	if letters != "" {
		col, err = excelize.ColumnNameToNumber(letters)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid range column %q: %w", letters, err)
		}
	}
	if digits != "" {
		row, err = strconv.Atoi(digits)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid range row %q: %w", digits, err)
		}
	}
	return col, row, nil
}

func (b bounds) apply(rows [][]string) [][]string {
	start := 0
	if b.firstRow > 0 {
		start = b.firstRow - 1
	}
	end := len(rows)
	if b.lastRow > 0 && b.lastRow < end {
		end = b.lastRow
	}
	if start >= end {
		return nil
	}

	out := make([][]string, 0, end-start)
	for _, row := range rows[start:end] {
		lo := 0
		if b.firstCol > 0 {
			lo = b.firstCol - 1
		}
		hi := len(row)
		if b.lastCol > 0 && b.lastCol < hi {
			hi = b.lastCol
		}
		if lo >= hi {
			out = append(out, []string{})
			continue
		}
		out = append(out, row[lo:hi])
	}
	return out
}
