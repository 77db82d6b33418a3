package integration

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepo is a simple in-memory integration repository for tests and early development.
type MemoryRepo struct {
	mu    sync.Mutex
	items map[string]Integration
}

func NewMemoryRepo() *MemoryRepo { return &MemoryRepo{items: map[string]Integration{}} }

func (r *MemoryRepo) Create(ctx context.Context, i Integration) (Integration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	i.ID = uuid.NewString()
	i.CreatedAt = now
	i.UpdatedAt = now
	if i.Config == nil {
		i.Config = map[string]any{}
	}
	r.items[i.ID] = i
	return i, nil
}

func (r *MemoryRepo) Get(ctx context.Context, id string) (Integration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.items[id]
	if !ok {
		return Integration{}, ErrNotFound
	}
	return i, nil
}

func (r *MemoryRepo) Update(ctx context.Context, i Integration) (Integration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[i.ID]; !ok {
		return Integration{}, ErrNotFound
	}
	i.UpdatedAt = time.Now().UTC()
	r.items[i.ID] = i
	return i, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *MemoryRepo) List(ctx context.Context, businessID string) ([]Integration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Integration, 0)
	for _, i := range r.items {
		if businessID != "" && i.BusinessID != businessID {
			continue
		}
		out = append(out, i)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
