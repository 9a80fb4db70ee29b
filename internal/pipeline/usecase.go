// Package pipeline sequences one daily snapshot run.
package pipeline

import (
	"context"

	"github.com/fekuna/omnipos-inventory-snapshot/internal/model"
)

type UseCase interface {
	// Run always returns a summary. The error is non-nil only for fatal
	// failures, in which case nothing was written.
	Run(ctx context.Context) (*model.RunSummary, error)
}

// Publisher announces completed runs. Implemented by pkg/broker.
type Publisher interface {
	PublishJSON(ctx context.Context, key string, payload any) error
}

type requestIDKey struct{}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
