// Package repository provides the key-value store the service rehydrates
// from on start and writes back to after every change.
package repository

import "context"

// Keys under which the service persists its state.
const (
	KeyTokenPrice    = "tbcPrice"
	KeyEvents        = "events"
	KeyPresaleEvents = "presaleEvents"
)

// Store is a JSON key-value store.
type Store interface {
	// Get decodes the value stored under key into dst. It returns false
	// without error when the key is absent.
	Get(ctx context.Context, key string, dst any) (bool, error)

	// Set encodes value as JSON and stores it under key.
	Set(ctx context.Context, key string, value any) error

	// Close releases the store's resources.
	Close() error
}
