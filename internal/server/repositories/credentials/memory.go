package credentials

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/kvauth/internal/common"
)

// MemoryRepository keeps records in a map. Update holds the write lock for
// the whole read-modify-write, so concurrent logins are serialized.
type MemoryRepository struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryRepository creates an empty MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{values: make(map[string]string)}
}

func (r *MemoryRepository) Get(_ context.Context, key string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.values[key]
	if !ok {
		return "", common.ErrorNotFound
	}
	return v, nil
}

func (r *MemoryRepository) Put(_ context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.values[key] = value
	return nil
}

func (r *MemoryRepository) Create(_ context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.values[key]; ok {
		return common.ErrAlreadyExists
	}
	r.values[key] = value
	return nil
}

func (r *MemoryRepository) Update(_ context.Context, key string, fn UpdateFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.values[key]
	if !ok {
		return common.ErrorNotFound
	}
	next, err := fn(old)
	if err != nil {
		return err
	}
	r.values[key] = next
	return nil
}
