package state

// Scope is a Store view bound to one namespace.
type Scope struct {
	store *Store
	ns    string
}

// Namespace returns the bound namespace name.
func (s *Scope) Namespace() string { return s.ns }

// Set stores value under key.
func (s *Scope) Set(key string, value any) { s.store.Set(s.ns, key, value) }

// Get returns the value for key, or def.
func (s *Scope) Get(key string, def any) any { return s.store.Get(s.ns, key, def) }

// GetBool returns the boolean stored under key, or def.
func (s *Scope) GetBool(key string, def bool) bool { return Value(s.store, s.ns, key, def) }

// GetString returns the string stored under key, or def.
func (s *Scope) GetString(key string, def string) string { return Value(s.store, s.ns, key, def) }

// GetInt returns the int stored under key, or def.
func (s *Scope) GetInt(key string, def int) int { return Value(s.store, s.ns, key, def) }

// Delete removes key.
func (s *Scope) Delete(key string) { s.store.Delete(s.ns, key) }

// Clear empties the namespace.
func (s *Scope) Clear() { s.store.Clear(s.ns) }

// All returns a shallow copy of the namespace.
func (s *Scope) All() map[string]any { return s.store.All(s.ns) }
