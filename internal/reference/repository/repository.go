package repository

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fekuna/omnipos-inventory-snapshot/internal/reference"
)

// New picks a reader by file extension.
func New(path, sheet, cellRange string) (reference.Repository, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return NewXLSXRepository(path, sheet, cellRange), nil
	case ".csv":
		return NewCSVRepository(path), nil
	default:
		return nil, fmt.Errorf("unsupported reference table format %q", filepath.Ext(path))
	}
}
