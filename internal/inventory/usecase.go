package inventory

import "context"

// Resolution is the result of resolving availability for a set of items.
// Quantities has an entry for every requested id.
type Resolution struct {
	Quantities map[string]int
	Failures   []error
}

type UseCase interface {
	ResolveAvailable(ctx context.Context, locationID string, itemIDs []string) (*Resolution, error)
}
