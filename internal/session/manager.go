package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Manager is the single owner of client sessions. Components read a Session
// value with Get and replace it wholesale with Set; every change is published
// to the subscribers of that key.
type Manager struct {
	repo   Repo
	logger zerolog.Logger

	mu   sync.Mutex
	subs map[string]map[chan Session]struct{}
}

func NewManager(repo Repo, logger zerolog.Logger) *Manager {
	return &Manager{
		repo:   repo,
		logger: logger,
		subs:   make(map[string]map[chan Session]struct{}),
	}
}

// Get returns the session for key. Unknown keys yield the empty session.
func (m *Manager) Get(ctx context.Context, key string) (Session, error) {
	s, err := m.repo.Load(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return Empty(), nil
	}
	if err != nil {
		return Empty(), err
	}

	if err := m.repo.Touch(ctx, key); err != nil && !errors.Is(err, ErrNotFound) {
		m.logger.Warn().Err(err).Str("session_key", key).Msg("Failed to touch session")
	}
	return s, nil
}

// Set replaces the session for key and notifies subscribers
func (m *Manager) Set(ctx context.Context, key string, s Session) error {
	if key == "" {
		return fmt.Errorf("session key is empty")
	}
	if err := m.repo.Save(ctx, key, s); err != nil {
		return err
	}
	m.publish(key, s)
	return nil
}

// Clear resets the session for key to the unauthenticated shape
func (m *Manager) Clear(ctx context.Context, key string) error {
	return m.Set(ctx, key, Empty())
}

// Subscribe returns a channel receiving every subsequent Set for key.
// The channel holds only the latest value, so slow readers skip
// intermediate states. Call cancel to release it.
func (m *Manager) Subscribe(key string) (<-chan Session, func()) {
	ch := make(chan Session, 1)

	m.mu.Lock()
	if m.subs[key] == nil {
		m.subs[key] = make(map[chan Session]struct{})
	}
	m.subs[key][ch] = struct{}{}
	m.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			delete(m.subs[key], ch)
			if len(m.subs[key]) == 0 {
				delete(m.subs, key)
			}
			close(ch)
		})
	}
	return ch, cancel
}

func (m *Manager) publish(key string, s Session) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for ch := range m.subs[key] {
		select {
		case <-ch:
		default:
		}
		ch <- s.Clone()
	}
}

// Sweep removes sessions idle for longer than idleTTL
func (m *Manager) Sweep(ctx context.Context, idleTTL time.Duration) (int, error) {
	return m.repo.DeleteIdle(ctx, time.Now().Add(-idleTTL))
}

func (m *Manager) Count(ctx context.Context) (int, error) {
	return m.repo.Count(ctx)
}
