package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

// CSVRepository reads the reference table from a CSV export.
type CSVRepository struct {
	Path string
}

func NewCSVRepository(path string) *CSVRepository {
	return &CSVRepository{Path: path}
}

func (r *CSVRepository) ReadRange(ctx context.Context) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(r.Path)
	if err != nil {
		return nil, fmt.Errorf("open reference csv %s: %w", r.Path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	// Rows may be ragged after manual edits; the loader pads missing cells.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read reference csv line %d: %w", len(rows)+1, err)
		}
		rows = append(rows, rec)
	}
	return rows, nil
}
