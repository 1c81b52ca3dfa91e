// Package credentials declares the key-value contract the server uses to
// persist serialized credential records, plus its backends: in-memory,
// PostgreSQL and S3-compatible object storage.
package credentials

import "context"

// UpdateFunc receives the current value and returns the value to store.
// Returning an error aborts the update and leaves the stored value as is.
type UpdateFunc func(old string) (string, error)

// Repository is a string-keyed, string-valued store. Keys are usernames.
type Repository interface {
	// Get returns the value stored under key, or common.ErrorNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Put stores value under key, replacing any previous value. It is the
	// plain write of the key-value store; UserService writes through Create
	// and Update, which carry the existence and atomicity checks it needs.
	Put(ctx context.Context, key, value string) error

	// Create stores value only if key is absent; otherwise it returns
	// common.ErrAlreadyExists.
	Create(ctx context.Context, key, value string) error

	// Update reads the value under key, passes it to fn and writes fn's
	// result back. A missing key yields common.ErrorNotFound. Backends
	// that detect a concurrent write return common.ErrVersionConflict.
	Update(ctx context.Context, key string, fn UpdateFunc) error
}
