// Package session holds the per-session cache of the most recent generation
// result, so downstream consumers (export, diagnostics on generated data)
// can reuse it without re-running the pipeline. Entries are immutable once
// stored; each generation overwrites the session's entry.
package session

import (
	"sync"
	"time"

	"github.com/latentlab/semgen/internal/config"
	"github.com/latentlab/semgen/internal/generator"
)

// Entry is one cached generation: the configuration that produced it and the
// resulting frames. Callers must not mutate the frames; Clone before editing.
type Entry struct {
	Model     *config.ModelConfig
	Result    *generator.Result
	CreatedAt time.Time
}

// Store is a concurrency-safe cache keyed by session identity. Sessions are
// independent: one session's writes are never visible through another
// session's key.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{entries: make(map[string]*Entry)}
}

// Put stores the session's latest generation, replacing any previous entry.
func (s *Store) Put(sessionID string, model *config.ModelConfig, result *generator.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[sessionID] = &Entry{Model: model, Result: result, CreatedAt: time.Now()}
}

// Get returns the session's cached generation, or false when the session has
// not generated anything yet.
func (s *Store) Get(sessionID string) (*Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[sessionID]
	return e, ok
}

// Clear drops the session's entry, ending its lifecycle.
func (s *Store) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sessionID)
}
