package prompt

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepo is a simple in-memory prompt repository for tests and early development.
type MemoryRepo struct {
	mu    sync.Mutex
	items map[string]Prompt
	seq   int
	order map[string]int // insertion order for priority tie-breaks
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{items: map[string]Prompt{}, order: map[string]int{}}
}

func (r *MemoryRepo) Create(ctx context.Context, p Prompt) (Prompt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	p.ID = uuid.NewString()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.TriggerPhrases == nil {
		p.TriggerPhrases = []string{}
	}
	if p.FieldsToCollect == nil {
		p.FieldsToCollect = []string{}
	}
	r.items[p.ID] = p
	r.seq++
	r.order[p.ID] = r.seq
	return p, nil
}

func (r *MemoryRepo) Get(ctx context.Context, id string) (Prompt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.items[id]
	if !ok {
		return Prompt{}, ErrNotFound
	}
	return p, nil
}

func (r *MemoryRepo) Update(ctx context.Context, p Prompt) (Prompt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[p.ID]; !ok {
		return Prompt{}, ErrNotFound
	}
	p.UpdatedAt = time.Now().UTC()
	r.items[p.ID] = p
	return p, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ErrNotFound
	}
	delete(r.items, id)
	delete(r.order, id)
	return nil
}

func (r *MemoryRepo) List(ctx context.Context, f ListFilter) ([]Prompt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Prompt, 0)
	for _, p := range r.items {
		if f.BusinessID != "" && p.BusinessID != f.BusinessID {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		out = append(out, p)
	}
	r.sortByPriority(out)
	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return []Prompt{}, nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *MemoryRepo) ListActive(ctx context.Context, businessID string) ([]Prompt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Prompt, 0)
	for _, p := range r.items {
		if p.BusinessID == businessID && p.IsActive {
			out = append(out, p)
		}
	}
	r.sortByPriority(out)
	return out, nil
}

func (r *MemoryRepo) sortByPriority(list []Prompt) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Priority != list[j].Priority {
			return list[i].Priority > list[j].Priority
		}
		return r.order[list[i].ID] < r.order[list[j].ID]
	})
}
