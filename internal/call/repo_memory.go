package call

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepo is a simple in-memory call repository for tests and early development.
type MemoryRepo struct {
	mu    sync.Mutex
	items map[string]Call
}

func NewMemoryRepo() *MemoryRepo { return &MemoryRepo{items: map[string]Call{}} }

func (r *MemoryRepo) Create(ctx context.Context, c Call) (Call, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = uuid.NewString()
	if c.StartedAt.IsZero() {
		c.StartedAt = time.Now().UTC()
	}
	if c.Status == "" {
		c.Status = StatusInProgress
	}
	if c.CollectedInfo == nil {
		c.CollectedInfo = map[string]any{}
	}
	if c.ActionDetails == nil {
		c.ActionDetails = map[string]any{}
	}
	r.items[c.ID] = c
	return c, nil
}

func (r *MemoryRepo) Get(ctx context.Context, id string) (Call, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok {
		return Call{}, ErrNotFound
	}
	return c, nil
}

func (r *MemoryRepo) Update(ctx context.Context, c Call) (Call, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[c.ID]; !ok {
		return Call{}, ErrNotFound
	}
	r.items[c.ID] = c
	return c, nil
}

func (r *MemoryRepo) List(ctx context.Context, f ListFilter) ([]Call, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, 0)
	for _, c := range r.items {
		if f.BusinessID != "" && c.BusinessID != f.BusinessID {
			continue
		}
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return []Call{}, nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *MemoryRepo) SaveAction(ctx context.Context, id string, collected map[string]any, actionTaken string, details map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok {
		return ErrNotFound
	}
	merged := map[string]any{}
	for k, v := range c.CollectedInfo {
		merged[k] = v
	}
	for k, v := range collected {
		merged[k] = v
	}
	c.CollectedInfo = merged
	c.ActionTaken = actionTaken
	c.ActionDetails = orEmptyMap(details)
	r.items[id] = c
	return nil
}

func (r *MemoryRepo) Finalize(ctx context.Context, id string, in FinalizeInput) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok {
		return ErrNotFound
	}
	if c.EndedAt != nil {
		return nil
	}
	c.Status = in.Status
	c.DurationSeconds = in.DurationSeconds
	c.Transcript = in.Transcript
	c.CallSummary = in.CallSummary
	c.Sentiment = in.Sentiment
	ended := in.EndedAt
	c.EndedAt = &ended
	r.items[id] = c
	return nil
}
