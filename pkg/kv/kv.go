// Package kv provides the key-value collaborator used to persist shopper
// state snapshots. Values are UTF-8 JSON blobs keyed by a store-specific
// namespace plus the shopper id.
package kv

import (
	"context"
	"errors"
	"strings"
)

// ErrNotFound is returned when a key has no stored value.
var ErrNotFound = errors.New("kv: key not found")

// Store is the asynchronous persistence surface the shopper sessions write to.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Del(ctx context.Context, key string) error
}

const keyNamespace = "tl"

// Key builds a namespaced storage key from the given parts.
func Key(parts ...string) string {
	clean := []string{keyNamespace}
	for _, part := range parts {
		if part == "" {
			continue
		}
		clean = append(clean, strings.TrimSpace(part))
	}
	return strings.Join(clean, ":")
}
