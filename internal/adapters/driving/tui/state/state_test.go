package state

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SetGetRoundTrip(t *testing.T) {
	s := New()

	s.Set("chat_page", "initialized", true)

	assert.Equal(t, true, s.Get("chat_page", "initialized", false))
}

func TestStore_ClearResetsToDefault(t *testing.T) {
	s := New()
	s.Set("chat_page", "initialized", true)

	s.Clear("chat_page")

	assert.Equal(t, false, s.Get("chat_page", "initialized", false))
	assert.Empty(t, s.All("chat_page"))
	assert.True(t, s.Has("chat_page"), "clear keeps the namespace")
}

func TestStore_GetUnseenNamespace(t *testing.T) {
	s := New()
	require.False(t, s.Has("fresh"))

	got := s.Get("fresh", "missing", "fallback")

	assert.Equal(t, "fallback", got)
	assert.True(t, s.Has("fresh"), "access creates the namespace")
}

func TestStore_Delete(t *testing.T) {
	s := New()
	s.Set("ns", "a", 1)
	s.Set("ns", "b", 2)

	s.Delete("ns", "a")
	s.Delete("ns", "never-set")
	s.Delete("other", "x")

	assert.Equal(t, map[string]any{"b": 2}, s.All("ns"))
	assert.True(t, s.Has("other"))
}

func TestStore_AllIsShallowCopy(t *testing.T) {
	s := New()
	s.Set("ns", "k", "v")

	all := s.All("ns")
	all["k"] = "mutated"
	all["new"] = true

	assert.Equal(t, "v", s.Get("ns", "k", nil))
	_, ok := s.Lookup("ns", "new")
	assert.False(t, ok)
}

func TestStore_NamespacesAreIsolated(t *testing.T) {
	s := New()
	s.Set("a", "key", 1)
	s.Set("b", "key", 2)

	s.Clear("a")

	assert.Nil(t, s.Get("a", "key", nil))
	assert.Equal(t, 2, s.Get("b", "key", nil))
	assert.ElementsMatch(t, []string{"a", "b"}, s.Namespaces())
}

func TestValue_Typed(t *testing.T) {
	s := New()
	s.Set("ns", "count", 3)
	s.Set("ns", "name", "docs")

	assert.Equal(t, 3, Value(s, "ns", "count", 0))
	assert.Equal(t, "docs", Value(s, "ns", "name", ""))
	assert.Equal(t, 7, Value(s, "ns", "name", 7), "type mismatch falls back to default")
	assert.Equal(t, "x", Value(s, "ns", "missing", "x"))
}

func TestScope(t *testing.T) {
	s := New()
	scope := s.Scope("data_page")

	assert.True(t, s.Has("data_page"), "scope creation ensures the namespace")
	assert.Equal(t, "data_page", scope.Namespace())

	scope.Set("initialized", true)
	scope.Set("rows", 3)
	scope.Set("title", "Data")

	assert.True(t, scope.GetBool("initialized", false))
	assert.Equal(t, 3, scope.GetInt("rows", 0))
	assert.Equal(t, "Data", scope.GetString("title", ""))
	assert.Equal(t, true, s.Get("data_page", "initialized", false))

	scope.Delete("rows")
	assert.Equal(t, 0, scope.GetInt("rows", 0))

	scope.Clear()
	assert.Empty(t, scope.All())
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := New()
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.Set("ns", "k", i)
			_ = s.Get("ns", "k", nil)
			_ = s.All("ns")
		}(i)
	}
	wg.Wait()

	_, ok := s.Lookup("ns", "k")
	assert.True(t, ok)
}
