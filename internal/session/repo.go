package session

import (
	"context"
	"sync"
	"time"
)

// Repo persists one Session per client key
type Repo interface {
	Load(ctx context.Context, key string) (Session, error)
	Save(ctx context.Context, key string, s Session) error
	Delete(ctx context.Context, key string) error
	// Touch marks the session as active without changing it
	Touch(ctx context.Context, key string) error
	// DeleteIdle removes sessions not touched since before and returns how many were removed
	DeleteIdle(ctx context.Context, before time.Time) (int, error)
	Count(ctx context.Context) (int, error)
}

type memoryEntry struct {
	session  Session
	lastSeen time.Time
}

// MemoryRepo keeps sessions in process memory
type MemoryRepo struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (r *MemoryRepo) Load(_ context.Context, key string) (Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[key]
	if !ok {
		return Empty(), ErrNotFound
	}
	return e.session.Clone(), nil
}

func (r *MemoryRepo) Save(_ context.Context, key string, s Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[key] = memoryEntry{session: s.Clone(), lastSeen: r.now()}
	return nil
}

func (r *MemoryRepo) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, key)
	return nil
}

func (r *MemoryRepo) Touch(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[key]
	if !ok {
		return ErrNotFound
	}
	e.lastSeen = r.now()
	r.entries[key] = e
	return nil
}

func (r *MemoryRepo) DeleteIdle(_ context.Context, before time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for key, e := range r.entries {
		if e.lastSeen.Before(before) {
			delete(r.entries, key)
			removed++
		}
	}
	return removed, nil
}

func (r *MemoryRepo) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries), nil
}
