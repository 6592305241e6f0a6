// Package omap provides an insertion-ordered map for comparable keys.
// Entries are stored in a slice in the order of their first insertion
// and indexed by a native map. The zero value is an empty map ready to use.
//
// Map is not safe for concurrent use.
package omap

import (
	"github.com/google/go-cmp/cmp"
	"github.com/graph-guard/omap/pkg/container"
)

// Entry is a key-value pair.
type Entry[K comparable, V any] struct {
	Key   K
	Value V
}

// Map is an insertion-ordered map.
type Map[K comparable, V any] struct {
	index map[K]int // key -> index in entries
	e     []Entry[K, V]
}

var _ container.Mapper[string, int] = new(Map[string, int])

// New creates a new instance of Map.
// Repeated keys in entries keep their first position and last value.
func New[K comparable, V any](capacity int, entries ...Entry[K, V]) *Map[K, V] {
	if capacity < len(entries) {
		capacity = len(entries)
	}
	m := &Map[K, V]{
		index: make(map[K]int, capacity),
		e:     make([]Entry[K, V], 0, capacity),
	}
	for _, e := range entries {
		m.Set(e.Key, e.Value)
	}
	return m
}

// Reset removes all entries keeping the allocated capacity.
func (m *Map[K, V]) Reset() {
	var zero Entry[K, V]
	for i := range m.e {
		m.e[i] = zero
	}
	m.e = m.e[:0]
	for k := range m.index {
		delete(m.index, k)
	}
}

// Add appends a new association. Returns container.ErrorDuplicateKey
// and leaves the map unchanged if key already exists.
func (m *Map[K, V]) Add(key K, value V) error {
	if _, ok := m.index[key]; ok {
		return container.ErrorDuplicateKey{Key: key}
	}
	m.push(key, value)
	return nil
}

// Set associates key with value overwriting any existing association.
// An existing key keeps its position, a new key is appended.
func (m *Map[K, V]) Set(key K, value V) {
	if i, ok := m.index[key]; ok {
		m.e[i].Value = value
		return
	}
	m.push(key, value)
}

func (m *Map[K, V]) push(key K, value V) {
	if m.index == nil {
		m.index = make(map[K]int)
	}
	m.index[key] = len(m.e)
	m.e = append(m.e, Entry[K, V]{Key: key, Value: value})
}

// Get returns (value, true) if key exists,
// otherwise returns (zeroValue, false).
func (m *Map[K, V]) Get(key K) (value V, ok bool) {
	if i, ok := m.index[key]; ok {
		return m.e[i].Value, true
	}
	return value, false
}

// Exists returns true if key is present.
func (m *Map[K, V]) Exists(key K) bool {
	_, ok := m.index[key]
	return ok
}

// Index returns the position of the key or -1 if it wasn't found.
func (m *Map[K, V]) Index(key K) int {
	if i, ok := m.index[key]; ok {
		return i
	}
	return -1
}

// Remove removes the key preserving the order of the remaining keys.
// Noop if the key doesn't exist.
func (m *Map[K, V]) Remove(key K) {
	i, ok := m.index[key]
	if !ok {
		return
	}
	delete(m.index, key)
	copy(m.e[i:], m.e[i+1:])
	m.e[len(m.e)-1] = Entry[K, V]{}
	m.e = m.e[:len(m.e)-1]
	for ; i < len(m.e); i++ {
		m.index[m.e[i].Key] = i
	}
}

// Count returns the number of stored key-value pairs.
func (m *Map[K, V]) Count() int {
	return len(m.e)
}

// Merge sets every entry of other in other's order.
// Values of other win over existing ones, existing keys keep
// their position and new keys are appended. other is not modified.
func (m *Map[K, V]) Merge(other *Map[K, V]) {
	if other == nil || other == m {
		return
	}
	for _, e := range other.e {
		m.Set(e.Key, e.Value)
	}
}

// Union appends all entries of other. If any key of other already
// exists the first such key is returned as container.ErrorDuplicateKey
// and the map is left unchanged.
func (m *Map[K, V]) Union(other *Map[K, V]) error {
	if other == nil {
		return nil
	}
	for _, e := range other.e {
		if _, ok := m.index[e.Key]; ok {
			return container.ErrorDuplicateKey{Key: e.Key}
		}
	}
	for _, e := range other.e {
		m.push(e.Key, e.Value)
	}
	return nil
}

// Extract returns the entries in insertion order.
//
// WARNING: the returned slice aliases the map's storage and must be
// treated as read-only. It is invalidated by any subsequent mutation.
func (m *Map[K, V]) Extract() []Entry[K, V] {
	return m.e
}

// Keys returns a copy of all keys in insertion order.
func (m *Map[K, V]) Keys() []K {
	keys := make([]K, len(m.e))
	for i := range m.e {
		keys[i] = m.e[i].Key
	}
	return keys
}

// Values returns a copy of all values in insertion order.
func (m *Map[K, V]) Values() []V {
	values := make([]V, len(m.e))
	for i := range m.e {
		values[i] = m.e[i].Value
	}
	return values
}

// ToMap copies the entries into a native map losing the order.
func (m *Map[K, V]) ToMap() map[K]V {
	n := make(map[K]V, len(m.e))
	for _, e := range m.e {
		n[e.Key] = e.Value
	}
	return n
}

// Clone returns a shallow copy of the map.
func (m *Map[K, V]) Clone() *Map[K, V] {
	return New(len(m.e), m.e...)
}

// Equal returns true if both maps hold equal entries in the same order.
// A nil map is equal to an empty one.
// Values are compared using github.com/google/go-cmp
// and must therefore not contain unexported fields.
func (m *Map[K, V]) Equal(mm *Map[K, V]) bool {
	if mm == nil {
		return len(m.e) == 0
	}
	if len(m.e) != len(mm.e) {
		return false
	}
	// cmp distinguishes nil from empty slices
	return len(m.e) == 0 || cmp.Equal(m.e, mm.e)
}

// Sort always returns container.ErrSortUnsupported.
func (m *Map[K, V]) Sort(mode container.SortMode) error {
	return container.ErrSortUnsupported
}

// Visit calls fn for every stored key-value pair in insertion order.
// Returns immediately if fn returns true.
func (m *Map[K, V]) Visit(fn func(key K, value V) (stop bool)) {
	for i := range m.e {
		if fn(m.e[i].Key, m.e[i].Value) {
			break
		}
	}
}

// VisitAll calls fn for every stored key-value pair in insertion order.
func (m *Map[K, V]) VisitAll(fn func(key K, value V)) {
	for i := range m.e {
		fn(m.e[i].Key, m.e[i].Value)
	}
}
