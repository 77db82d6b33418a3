package conversation

import (
	"errors"
	"sync"
)

var (
	ErrDuplicateCall = errors.New("conversation: call already registered")
	ErrNotFound      = errors.New("conversation: call not registered")
	ErrInvalidState  = errors.New("conversation: call id and state required")
)

// Registry owns the live conversation state for every in-progress call,
// keyed by the provider call identifier.
//
// Concurrency: calls progress independently and concurrently, so the map
// structure is mutex-guarded. Within one call the webhook transport delivers
// at most one speech turn at a time, so State itself needs no locking.
type Registry struct {
	mu    sync.RWMutex
	calls map[string]*State
}

func NewRegistry() *Registry {
	return &Registry{calls: map[string]*State{}}
}

// Create registers state for a live call. At most one State may exist per
// call identifier.
func (r *Registry) Create(callID string, st *State) error {
	if callID == "" || st == nil {
		return ErrInvalidState
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.calls[callID]; ok {
		return ErrDuplicateCall
	}
	r.calls[callID] = st
	return nil
}

func (r *Registry) Get(callID string) (*State, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	st, ok := r.calls[callID]
	if !ok {
		return nil, ErrNotFound
	}
	return st, nil
}

// Remove evicts a call's state. Removing an absent call is a no-op: the
// terminal status webhook may be delivered more than once.
func (r *Registry) Remove(callID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.calls, callID)
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.calls)
}
