package snapshot

import (
	"context"
	"errors"
	"time"

	"github.com/fekuna/omnipos-inventory-snapshot/internal/model"
)

// ErrEmptySnapshot is returned for a run with no rows. Such a run leaves no
// date behind for the guard, so it must never be reported as complete.
var ErrEmptySnapshot = errors.New("snapshot has no rows to write")

// Run is the state of one snapshot attempt. A skipped run is terminal and
// must not write.
type Run struct {
	ID        string
	Date      string
	StartedAt time.Time
	Skipped   bool
	Reason    string

	lockKey   string
	lockToken string
}

// SetLock records a lock held on behalf of the run.
func (r *Run) SetLock(key, token string) {
	r.lockKey, r.lockToken = key, token
}

// TakeLock hands the held lock to the caller exactly once.
func (r *Run) TakeLock() (key, token string, ok bool) {
	if r.lockKey == "" {
		return "", "", false
	}
	key, token = r.lockKey, r.lockToken
	r.lockKey, r.lockToken = "", ""
	return key, token, true
}

type UseCase interface {
	// Begin evaluates the once-per-day guard for the current date.
	Begin(ctx context.Context) (*Run, error)
	// Write stamps the rows with the run identity and appends them in one batch.
	Write(ctx context.Context, run *Run, rows []model.SnapshotRow) (int, error)
	// Finish releases anything Begin acquired. Safe to call on skipped runs.
	Finish(ctx context.Context, run *Run)
}
