// Package gid normalizes the commerce platform's global ids.
package gid

import "strings"

// Strip removes a URI-style prefix such as "gid://shopify/InventoryItem/"
// and keeps the trailing opaque id.
func Strip(id string) string {
	id = strings.TrimSpace(id)
	if i := strings.LastIndex(id, "/"); i >= 0 {
		id = id[i+1:]
	}
	// Some ids carry a query suffix, e.g. "123?variant=1".
	if i := strings.IndexByte(id, '?'); i >= 0 {
		id = id[:i]
	}
	return id
}
