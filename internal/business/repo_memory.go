package business

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepo is a simple in-memory business repository for tests and early development.
type MemoryRepo struct {
	mu    sync.Mutex
	items map[string]Business
}

func NewMemoryRepo() *MemoryRepo { return &MemoryRepo{items: map[string]Business{}} }

func (r *MemoryRepo) Create(ctx context.Context, b Business) (Business, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	b.ID = uuid.NewString()
	b.CreatedAt = now
	b.UpdatedAt = now
	r.items[b.ID] = b
	return b, nil
}

func (r *MemoryRepo) Get(ctx context.Context, id string) (Business, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.items[id]
	if !ok {
		return Business{}, ErrNotFound
	}
	return b, nil
}

func (r *MemoryRepo) FindByVoiceNumber(ctx context.Context, number string) (Business, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.items {
		if b.VoiceNumber == number && b.IsActive {
			return b, nil
		}
	}
	return Business{}, ErrNotFound
}

func (r *MemoryRepo) Update(ctx context.Context, b Business) (Business, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[b.ID]; !ok {
		return Business{}, ErrNotFound
	}
	b.UpdatedAt = time.Now().UTC()
	r.items[b.ID] = b
	return b, nil
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

func (r *MemoryRepo) List(ctx context.Context, limit, offset int) ([]Business, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]Business, 0, len(r.items))
	for _, b := range r.items {
		all = append(all, b)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })
	if offset >= len(all) {
		return []Business{}, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}
