package usecase

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/fekuna/omnipos-inventory-snapshot/internal/model"
	"github.com/fekuna/omnipos-inventory-snapshot/internal/snapshot"
	"github.com/fekuna/omnipos-inventory-snapshot/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultTimezone = "America/New_York"
	DefaultLockTTL  = 15 * time.Minute

	ReasonAlreadyExists = "snapshot already exists for date"
	ReasonLocked        = "another run holds the lock for date"
)

type Options struct {
	Location *time.Location
	LockTTL  time.Duration
	// LockPrefix namespaces the lock key; the table name is a good choice.
	LockPrefix string
	Now        func() time.Time
}

type snapshotUseCase struct {
	repo   snapshot.Repository
	locker snapshot.Locker
	opts   Options
	logger logger.ZapLogger
}

// NewSnapshotUseCase builds the guard and writer. locker may be nil, in which
// case runs for the same date are not serialized across processes.
func NewSnapshotUseCase(repo snapshot.Repository, locker snapshot.Locker, opts Options, log logger.ZapLogger) snapshot.UseCase {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.LockTTL <= 0 {
		opts.LockTTL = DefaultLockTTL
	}
	if opts.LockPrefix == "" {
		opts.LockPrefix = "inventory_snapshots"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &snapshotUseCase{repo: repo, locker: locker, opts: opts, logger: log}
}

// SnapshotDate is the calendar date of t in loc, formatted YYYY-MM-DD.
func SnapshotDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(time.DateOnly)
}

func (uc *snapshotUseCase) Begin(ctx context.Context) (*snapshot.Run, error) {
	now := uc.opts.Now()
	run := &snapshot.Run{
		Date:      SnapshotDate(now, uc.opts.Location),
		StartedAt: now.UTC(),
	}
	run.ID = run.Date + "-" + strconv.FormatInt(now.UnixNano(), 10)
	log := uc.logger.With(zap.String("run_id", run.ID), zap.String("snapshot_date", run.Date))

	if uc.locker != nil {
		key := "lock:snapshot:" + uc.opts.LockPrefix + ":" + run.Date
		ok, err := uc.locker.AcquireLock(ctx, key, run.ID, uc.opts.LockTTL)
		if err != nil {
			return nil, fmt.Errorf("acquire snapshot lock: %w", err)
		}
		if !ok {
			log.Info("snapshot skipped, lock held by another run")
			run.Skipped = true
			run.Reason = ReasonLocked
			return run, nil
		}
		run.SetLock(key, run.ID)
	}

	dates, err := uc.repo.ListSnapshotDates(ctx)
	if err != nil {
		uc.Finish(ctx, run)
		return nil, err
	}
	for _, d := range dates {
		if d == run.Date {
			log.Info("snapshot skipped, date already present")
			uc.Finish(ctx, run)
			run.Skipped = true
			run.Reason = ReasonAlreadyExists
			return run, nil
		}
	}
	return run, nil
}

func (uc *snapshotUseCase) Write(ctx context.Context, run *snapshot.Run, rows []model.SnapshotRow) (int, error) {
	if run == nil || run.Skipped {
		return 0, fmt.Errorf("write snapshot: run is not active")
	}
	if len(rows) == 0 {
		return 0, snapshot.ErrEmptySnapshot
	}
	for i := range rows {
		rows[i].ID = uuid.NewString()
		rows[i].SnapshotDate = run.Date
		rows[i].SnapshotTS = run.StartedAt
		rows[i].RunID = run.ID
	}

	n, err := uc.repo.AppendRows(ctx, rows)
	if err != nil {
		return 0, err
	}
	uc.logger.Info("snapshot written",
		zap.String("run_id", run.ID),
		zap.String("snapshot_date", run.Date),
		zap.Int("rows", n),
	)
	return n, nil
}

func (uc *snapshotUseCase) Finish(ctx context.Context, run *snapshot.Run) {
	if run == nil || uc.locker == nil {
		return
	}
	key, token, ok := run.TakeLock()
	if !ok {
		return
	}
	// The caller's context may already be canceled; release regardless.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := uc.locker.ReleaseLock(ctx, key, token); err != nil {
		uc.logger.Warn("release snapshot lock", zap.String("key", key), zap.Error(err))
	}
}
