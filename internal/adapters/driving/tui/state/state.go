// Package state provides a namespaced key-value store for TUI pages.
//
// A Store replaces a global session dictionary: it is owned by the App and
// handed to every page through page.Context. Namespaces are created lazily on
// first access and are never removed implicitly.
package state

import "sync"

// Store partitions a flat key-value store into isolated namespaces.
// It is safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	data map[string]map[string]any
}

// New creates an empty store.
func New() *Store {
	return &Store{data: make(map[string]map[string]any)}
}

// ensure returns the namespace map, creating it when missing.
// Caller must hold the write lock.
func (s *Store) ensure(ns string) map[string]any {
	m, ok := s.data[ns]
	if !ok {
		m = make(map[string]any)
		s.data[ns] = m
	}
	return m
}

// Set stores value under key in namespace ns.
func (s *Store) Set(ns, key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensure(ns)[key] = value
}

// Get returns the value for key in ns, or def when the key is absent.
// An unseen namespace is created as a side effect.
func (s *Store) Get(ns, key string, def any) any {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.ensure(ns)[key]; ok {
		return v
	}
	return def
}

// Lookup returns the value for key in ns and whether it was present.
func (s *Store) Lookup(ns, key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.ensure(ns)[key]
	return v, ok
}

// Delete removes key from ns. Missing keys are ignored.
func (s *Store) Delete(ns, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.ensure(ns), key)
}

// Clear empties ns but keeps the namespace itself.
func (s *Store) Clear(ns string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[ns] = make(map[string]any)
}

// All returns a shallow copy of every key in ns.
func (s *Store) All(ns string) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	src := s.ensure(ns)
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

// Has reports whether ns has been created, without creating it.
func (s *Store) Has(ns string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.data[ns]
	return ok
}

// Namespaces returns the names of all created namespaces.
func (s *Store) Namespaces() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.data))
	for ns := range s.data {
		out = append(out, ns)
	}
	return out
}

// Scope returns a view of the store bound to a single namespace.
func (s *Store) Scope(ns string) *Scope {
	s.mu.Lock()
	s.ensure(ns)
	s.mu.Unlock()
	return &Scope{store: s, ns: ns}
}

// Value returns the value for key in ns as T, or def when the key is absent
// or holds a different type.
func Value[T any](s *Store, ns, key string, def T) T {
	v, ok := s.Lookup(ns, key)
	if !ok {
		return def
	}
	t, ok := v.(T)
	if !ok {
		return def
	}
	return t
}
