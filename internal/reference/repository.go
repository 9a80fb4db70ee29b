package reference

import "context"

// Repository reads the reference table as a header row followed by data rows.
type Repository interface {
	ReadRange(ctx context.Context) ([][]string, error)
}
