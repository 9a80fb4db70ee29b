package snapshot

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-inventory-snapshot/internal/model"
)

// Repository is the append-only snapshot table. It has no update or delete.
type Repository interface {
	EnsureSchema(ctx context.Context) error
	ListSnapshotDates(ctx context.Context) ([]string, error)
	AppendRows(ctx context.Context, rows []model.SnapshotRow) (int, error)
}

// Locker serializes runs for the same snapshot date across processes.
type Locker interface {
	AcquireLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key, value string) error
}
