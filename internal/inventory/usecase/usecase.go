package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/fekuna/omnipos-inventory-snapshot/internal/apperr"
	"github.com/fekuna/omnipos-inventory-snapshot/internal/inventory"
	"github.com/fekuna/omnipos-inventory-snapshot/internal/platform/gid"
	"github.com/fekuna/omnipos-inventory-snapshot/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultBatchSize   = 50
	DefaultConcurrency = 3

	// MaxBatchSize is the most ids the inventory level lookup accepts per request.
	MaxBatchSize = 50
)

type inventoryUseCase struct {
	client      inventory.Client
	batchSize   int
	concurrency int
	logger      logger.ZapLogger
}

func NewInventoryUseCase(client inventory.Client, batchSize, concurrency int, log logger.ZapLogger) inventory.UseCase {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if batchSize > MaxBatchSize {
		log.Warn("inventory batch size above platform limit, clamping",
			zap.Int("configured", batchSize),
			zap.Int("max", MaxBatchSize),
		)
		batchSize = MaxBatchSize
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &inventoryUseCase{
		client:      client,
		batchSize:   batchSize,
		concurrency: concurrency,
		logger:      log,
	}
}

// ResolveAvailable looks up available quantity per item in fixed-size batches.
// A failed batch is not fatal: its items stay at zero and the failure is
// reported in Resolution.Failures. Only cancellation of ctx aborts.
func (uc *inventoryUseCase) ResolveAvailable(ctx context.Context, locationID string, itemIDs []string) (*inventory.Resolution, error) {
	locationID = gid.Strip(locationID)
	ids := dedupe(itemIDs)
	res := &inventory.Resolution{Quantities: make(map[string]int, len(ids))}
	for _, id := range ids {
		res.Quantities[id] = 0
	}

	batches := Partition(ids, uc.batchSize)
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.concurrency)
	for i, batch := range batches {
		g.Go(func() error {
			levels, err := uc.client.InventoryLevels(gctx, locationID, batch)
			if err != nil {
				batchErr := &apperr.UpstreamInventoryBatchError{Batch: i + 1, Items: len(batch), Err: err}
				uc.logger.Warn("inventory batch failed, defaulting to zero",
					zap.Int("batch", i+1),
					zap.Int("items", len(batch)),
					zap.Error(err),
				)
				mu.Lock()
				res.Failures = append(res.Failures, batchErr)
				mu.Unlock()
				return nil
			}

			requested := make(map[string]struct{}, len(batch))
			for _, id := range batch {
				requested[id] = struct{}{}
			}

			mu.Lock()
			defer mu.Unlock()
			for _, lvl := range levels {
				if _, ok := requested[lvl.InventoryItemID]; !ok {
					continue
				}
				if lvl.LocationID != "" && gid.Strip(lvl.LocationID) != locationID {
					continue
				}
				if lvl.Available != nil {
					res.Quantities[lvl.InventoryItemID] = *lvl.Available
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("resolve inventory: %w", err)
	}

	uc.logger.Info("inventory resolved",
		zap.Int("items", len(ids)),
		zap.Int("batches", len(batches)),
		zap.Int("failed_batches", len(res.Failures)),
	)
	return res, nil
}

// Partition splits ids into consecutive chunks of at most size elements.
func Partition(ids []string, size int) [][]string {
	if size <= 0 {
		size = DefaultBatchSize
	}
	out := make([][]string, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		out = append(out, ids[start:end])
	}
	return out
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
