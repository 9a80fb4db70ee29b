// Package apperr holds the error taxonomy shared by the snapshot pipeline.
package apperr

import (
	"fmt"
	"strings"
)

// AuthorizationError is returned when the trigger secret is missing or wrong.
type AuthorizationError struct {
	Reason string
}

func (e *AuthorizationError) Error() string {
	return "unauthorized: " + e.Reason
}

// ConfigurationError covers missing settings and an empty reference table.
type ConfigurationError struct {
	Msg     string
	Missing []string
}

func (e *ConfigurationError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("configuration: %s: %s", e.Msg, strings.Join(e.Missing, ", "))
	}
	return "configuration: " + e.Msg
}

// UpstreamCatalogError aborts the run; no partial catalog is ever scored.
type UpstreamCatalogError struct {
	Page int
	Err  error
}

func (e *UpstreamCatalogError) Error() string {
	return fmt.Sprintf("catalog page %d: %v", e.Page, e.Err)
}

func (e *UpstreamCatalogError) Unwrap() error { return e.Err }

// UpstreamInventoryBatchError is recovered locally by defaulting the batch to zero.
type UpstreamInventoryBatchError struct {
	Batch int
	Items int
	Err   error
}

func (e *UpstreamInventoryBatchError) Error() string {
	return fmt.Sprintf("inventory batch %d (%d items) defaulted to zero: %v", e.Batch, e.Items, e.Err)
}

func (e *UpstreamInventoryBatchError) Unwrap() error { return e.Err }

// VariantJoinWarning is informational only.
type VariantJoinWarning struct {
	SKU    string
	Reason string
}

func (e *VariantJoinWarning) Error() string {
	return fmt.Sprintf("sku %s: %s", e.SKU, e.Reason)
}
