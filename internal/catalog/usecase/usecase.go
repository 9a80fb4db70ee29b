package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/fekuna/omnipos-inventory-snapshot/internal/apperr"
	"github.com/fekuna/omnipos-inventory-snapshot/internal/catalog"
	"github.com/fekuna/omnipos-inventory-snapshot/internal/model"
	"github.com/fekuna/omnipos-inventory-snapshot/internal/platform/gid"
	"github.com/fekuna/omnipos-inventory-snapshot/pkg/logger"
	"go.uber.org/zap"
)

const (
	DefaultPageSize = 250

	// placeholderVariantTitle is what the platform names the only variant of
	// a product without options.
	placeholderVariantTitle = "Default Title"
)

type catalogUseCase struct {
	client   catalog.Client
	pageSize int
	logger   logger.ZapLogger
}

func NewCatalogUseCase(client catalog.Client, pageSize int, log logger.ZapLogger) catalog.UseCase {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &catalogUseCase{
		client:   client,
		pageSize: pageSize,
		logger:   log,
	}
}

func (uc *catalogUseCase) FetchActiveVariants(ctx context.Context) ([]model.CatalogVariant, error) {
	var (
		variants []model.CatalogVariant
		cursor   string
		skipped  int
	)

	for page := 1; ; page++ {
		res, err := uc.client.SearchVariants(ctx, catalog.ActiveProductsQuery, cursor, uc.pageSize)
		if err != nil {
			return nil, &apperr.UpstreamCatalogError{Page: page, Err: err}
		}

		for _, node := range res.Nodes {
			v, ok := ToVariant(node)
			if !ok {
				skipped++
				continue
			}
			variants = append(variants, v)
		}

		uc.logger.Debug("catalog page fetched",
			zap.Int("page", page),
			zap.Int("nodes", len(res.Nodes)),
			zap.Bool("has_next_page", res.HasNextPage),
		)

		if !res.HasNextPage {
			break
		}
		if res.EndCursor == "" || res.EndCursor == cursor {
			return nil, &apperr.UpstreamCatalogError{Page: page, Err: errors.New("pagination cursor did not advance")}
		}
		cursor = res.EndCursor
	}

	uc.logger.Info("catalog fetched",
		zap.Int("variants", len(variants)),
		zap.Int("skipped_empty_sku", skipped),
	)
	return variants, nil
}

// ToVariant converts a raw node; ok is false when the node has no SKU.
func ToVariant(node model.CatalogNode) (model.CatalogVariant, bool) {
	sku := strings.TrimSpace(node.SKU)
	if sku == "" {
		return model.CatalogVariant{}, false
	}
	return model.CatalogVariant{
		SKU:             sku,
		ProductName:     DisplayName(node.ProductTitle, node.Title),
		VariantID:       gid.Strip(node.VariantID),
		InventoryItemID: gid.Strip(node.InventoryItemID),
	}, true
}

func DisplayName(productTitle, variantTitle string) string {
	p := strings.TrimSpace(productTitle)
	v := strings.TrimSpace(variantTitle)
	switch {
	case v == "" || v == placeholderVariantTitle:
		return p
	case p == "":
		return v
	default:
		return p + " - " + v
	}
}
