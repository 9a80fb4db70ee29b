package usecase

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-inventory-snapshot/internal/apperr"
	"github.com/fekuna/omnipos-inventory-snapshot/internal/catalog"
	"github.com/fekuna/omnipos-inventory-snapshot/internal/inventory"
	"github.com/fekuna/omnipos-inventory-snapshot/internal/model"
	"github.com/fekuna/omnipos-inventory-snapshot/internal/pipeline"
	"github.com/fekuna/omnipos-inventory-snapshot/internal/reference"
	"github.com/fekuna/omnipos-inventory-snapshot/internal/scoring"
	"github.com/fekuna/omnipos-inventory-snapshot/internal/snapshot"
	"github.com/fekuna/omnipos-inventory-snapshot/pkg/logger"
	"go.uber.org/zap"
)

const (
	DefaultErrorCap = 25
	publishTimeout  = 10 * time.Second
)

type Settings struct {
	LocationID string
	ErrorCap   int
}

// Validate reports missing run settings before any external call is made.
func (s Settings) Validate() error {
	if s.LocationID == "" {
		return &apperr.ConfigurationError{Msg: "missing required settings", Missing: []string{"SHOPIFY_LOCATION_ID"}}
	}
	return nil
}

type Dependencies struct {
	Snapshot  snapshot.UseCase
	Reference reference.UseCase
	Catalog   catalog.UseCase
	Inventory inventory.UseCase
	// Publisher is optional.
	Publisher pipeline.Publisher
}

type pipelineUseCase struct {
	deps     Dependencies
	settings Settings
	logger   logger.ZapLogger
	now      func() time.Time
}

func NewPipelineUseCase(deps Dependencies, settings Settings, log logger.ZapLogger) pipeline.UseCase {
	if settings.ErrorCap <= 0 {
		settings.ErrorCap = DefaultErrorCap
	}
	return &pipelineUseCase{deps: deps, settings: settings, logger: log, now: time.Now}
}

func (uc *pipelineUseCase) Run(ctx context.Context) (*model.RunSummary, error) {
	errs := newErrorList(uc.settings.ErrorCap)
	summary := &model.RunSummary{Status: model.RunStatusError}
	log := uc.logger
	if id := pipeline.RequestIDFrom(ctx); id != "" {
		log = log.With(zap.String("request_id", id))
	}

	fail := func(stage string, err error) (*model.RunSummary, error) {
		errs.add(err)
		errs.fill(summary)
		summary.Status = model.RunStatusError
		log.Error("snapshot run failed", zap.String("stage", stage), zap.Error(err))
		return summary, err
	}

	if err := uc.settings.Validate(); err != nil {
		return fail("config", err)
	}

	run, err := uc.deps.Snapshot.Begin(ctx)
	if err != nil {
		return fail("guard", err)
	}
	summary.SnapshotDate = run.Date
	if run.Skipped {
		summary.Status = model.RunStatusSkipped
		summary.Reason = run.Reason
		errs.fill(summary)
		log.Info("snapshot run skipped", zap.String("snapshot_date", run.Date), zap.String("reason", run.Reason))
		return summary, nil
	}
	defer uc.deps.Snapshot.Finish(ctx, run)

	summary.RunID = run.ID
	log = log.With(zap.String("run_id", run.ID), zap.String("snapshot_date", run.Date))

	tracked, err := uc.deps.Reference.LoadTrackedSKUs(ctx)
	if err != nil {
		return fail("reference", err)
	}
	summary.TrackedSKUs = len(tracked)

	variants, err := uc.deps.Catalog.FetchActiveVariants(ctx)
	if err != nil {
		return fail("catalog", err)
	}

	resolvable := make([]model.CatalogVariant, 0, len(variants))
	itemIDs := make([]string, 0, len(variants))
	for _, v := range variants {
		if v.InventoryItemID == "" {
			errs.add(&apperr.VariantJoinWarning{SKU: v.SKU, Reason: "variant has no inventory item"})
			continue
		}
		resolvable = append(resolvable, v)
		itemIDs = append(itemIDs, v.InventoryItemID)
	}

	levels, err := uc.deps.Inventory.ResolveAvailable(ctx, uc.settings.LocationID, itemIDs)
	if err != nil {
		return fail("inventory", err)
	}
	for _, f := range levels.Failures {
		errs.add(f)
	}

	rows := make([]model.SnapshotRow, 0, len(resolvable))
	seen := make(map[string]struct{}, len(resolvable))
	untracked := 0
	for _, v := range resolvable {
		var def *model.TrackedSKU
		if d, ok := tracked[v.SKU]; ok {
			def = &d
			seen[v.SKU] = struct{}{}
		} else {
			untracked++
		}
		rows = append(rows, scoring.BuildRow(v, def, levels.Quantities[v.InventoryItemID]))
	}
	log.Debug("variants joined",
		zap.Int("variants", len(rows)),
		zap.Int("untracked_variants", untracked),
		zap.Int("tracked_missing_from_catalog", len(tracked)-len(seen)),
	)

	n, err := uc.deps.Snapshot.Write(ctx, run, rows)
	if err != nil {
		return fail("write", err)
	}

	summary.Status = model.RunStatusOK
	summary.RowsInserted = n
	errs.fill(summary)
	log.Info("snapshot run complete",
		zap.Int("rows", n),
		zap.Int("tracked_skus", summary.TrackedSKUs),
		zap.Int("error_count", summary.ErrorCount),
	)

	uc.publish(ctx, log, summary)
	return summary, nil
}

func (uc *pipelineUseCase) publish(ctx context.Context, log logger.ZapLogger, summary *model.RunSummary) {
	if uc.deps.Publisher == nil {
		return
	}
	event := model.RunCompletedEvent{
		Type:       model.EventSnapshotRunCompleted,
		OccurredAt: uc.now().UTC(),
		Summary:    *summary,
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := uc.deps.Publisher.PublishJSON(ctx, summary.SnapshotDate, event); err != nil {
		log.Warn("publish run event", zap.Error(err))
	}
}

// errorList counts every recoverable error but keeps only the first few messages.
type errorList struct {
	limit int
	count int
	msgs  []string
}

func newErrorList(limit int) *errorList {
	return &errorList{limit: limit, msgs: []string{}}
}

func (l *errorList) add(err error) {
	if err == nil {
		return
	}
	l.count++
	if len(l.msgs) < l.limit {
		l.msgs = append(l.msgs, err.Error())
	}
}

func (l *errorList) fill(s *model.RunSummary) {
	s.ErrorCount = l.count
	s.Errors = l.msgs
}
