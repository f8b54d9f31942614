// Package vectorstore holds embedded documents in memory for similarity scans.
package vectorstore

import (
	"fmt"
	"sort"
	"sync"

	"github.com/kailas-cloud/tripagent/internal/domain"
	domdoc "github.com/kailas-cloud/tripagent/internal/domain/document"
)

// Store is a concurrency-safe map of document ID to entry.
// Readers always observe whole entries: a document and its vector are replaced together.
type Store struct {
	mu      sync.RWMutex
	dims    int
	entries map[string]domdoc.Entry
}

// New creates an empty store. dims <= 0 disables the dimension check.
func New(dims int) *Store {
	return &Store{dims: dims, entries: make(map[string]domdoc.Entry)}
}

// Put stores all entries or none. Vectors are copied on the way in.
func (s *Store) Put(entries ...domdoc.Entry) error {
	for _, e := range entries {
		if err := domain.CheckDimensions(e.Vector, s.dims); err != nil {
			return fmt.Errorf("document %s: %w", e.Document.ID(), err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		s.entries[e.Document.ID()] = domdoc.Entry{Document: e.Document, Vector: cloneVector(e.Vector)}
	}
	return nil
}

// Get returns the entry for id.
func (s *Store) Get(id string) (domdoc.Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	return e, ok
}

// Delete removes id. Returns false when it was not present.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return false
	}
	delete(s.entries, id)
	return true
}

// Len returns the number of stored entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Snapshot returns the current entries sorted by ID.
// Entries share vector backing arrays with the store; callers must not mutate them.
func (s *Store) Snapshot() []domdoc.Entry {
	s.mu.RLock()
	out := make([]domdoc.Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].Document.ID() < out[j].Document.ID()
	})
	return out
}

func cloneVector(v []float32) []float32 {
	out := make([]float32, len(v))
	copy(out, v)
	return out
}
