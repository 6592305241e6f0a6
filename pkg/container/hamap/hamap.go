// Package hamap provides a collision-safe insertion-ordered hashmap
// for string and []byte keys. Entries are kept in a slice in insertion
// order, the index is a slice of hash buckets sorted by key hash and
// searched with binary search. Allocations for the index are made only
// in case of rare hash collisions.
// Any custom hasher can be provided during initialization.
// By default, XXH3 from github.com/zeebo/xxh3 is used with seed 0.
package hamap

import (
	"github.com/google/go-cmp/cmp"
	"github.com/graph-guard/omap/pkg/container"
	"github.com/zeebo/xxh3"
)

type KeyInterface interface{ string | []byte }

// slot references an entry by its position.
type slot struct {
	Pos  int
	Next *slot
}

type bucket struct {
	KeyHash uint64
	slot
}

type Hasher[K KeyInterface] interface{ Hash(K) uint64 }

// Pair is a key-value pair.
type Pair[K KeyInterface, V any] struct {
	Key   K
	Value V
}

// Map is an insertion-ordered hashmap.
//
// WARNING: In case of []byte typed keys the keys will
// be aliased and must remain immutable until the map is reset!
type Map[K KeyInterface, V any] struct {
	e      []Pair[K, V]
	d      []bucket
	hasher Hasher[K]
}

var (
	_ container.Mapper[string, int] = new(Map[string, int])
	_ container.Mapper[[]byte, int] = new(Map[[]byte, int])
)

// HasherXXH3 can be used to provide custom seeds during initialization.
type HasherXXH3[K KeyInterface] struct {
	Seed uint64
}

// Hash hashes k to a 64-bit hash value.
func (h *HasherXXH3[K]) Hash(k K) uint64 {
	return xxh3.HashSeed([]byte(k), h.Seed)
}

var (
	defaultHasherS = &HasherXXH3[string]{}
	defaultHasherB = &HasherXXH3[[]byte]{}
)

// New creates a new map instance.
// Repeated keys in pairs keep their first position and last value.
func New[K KeyInterface, V any](
	capacity int,
	hasher Hasher[K],
	pairs ...Pair[K, V],
) *Map[K, V] {
	if hasher == nil {
		var zeroKey K
		switch any(zeroKey).(type) {
		case string:
			hasher = any(defaultHasherS).(Hasher[K])
		case []byte:
			hasher = any(defaultHasherB).(Hasher[K])
		}
	}
	if capacity < len(pairs) {
		capacity = len(pairs)
	}
	m := &Map[K, V]{
		e:      make([]Pair[K, V], 0, capacity),
		d:      make([]bucket, 0, capacity),
		hasher: hasher,
	}
	for _, p := range pairs {
		m.Set(p.Key, p.Value)
	}
	return m
}

// Reset resets the map
func (m *Map[K, V]) Reset() {
	var zero Pair[K, V]
	for i := range m.e {
		m.e[i] = zero
	}
	m.e, m.d = m.e[:0], m.d[:0]
}

// Add appends a new association. Returns container.ErrorDuplicateKey
// and leaves the map unchanged if key already exists.
//
// WARNING: In case of []byte typed keys the map will alias keys!
func (m *Map[K, V]) Add(key K, value V) error {
	hash, i, hashFound, pos := m.lookup(key)
	if pos > -1 {
		return container.ErrorDuplicateKey{Key: key}
	}
	m.insert(hash, i, hashFound, key, value)
	return nil
}

// Set associates key with value overwriting any existing associations.
// An existing key keeps its position, a new key is appended.
//
// WARNING: In case of []byte typed keys the map will alias keys!
// Make sure key remains immutable during the life-time of the map
// or until the map is reset.
func (m *Map[K, V]) Set(key K, value V) {
	hash, i, hashFound, pos := m.lookup(key)
	if pos > -1 {
		m.e[pos].Value = value
		return
	}
	m.insert(hash, i, hashFound, key, value)
}

// SetFn calls fn(nil) if the key doesn't exist yet and associates
// the value returned by fn with the key. If the key already exists
// then fn is passed a pointer to the value already associated with the key.
func (m *Map[K, V]) SetFn(key K, fn func(*V) V) {
	hash, i, hashFound, pos := m.lookup(key)
	if pos > -1 {
		_ = fn(&m.e[pos].Value)
		return
	}
	m.insert(hash, i, hashFound, key, fn(nil))
}

// Get returns (value, true) if key exists,
// otherwise returns (zeroValue, false).
func (m *Map[K, V]) Get(key K) (value V, ok bool) {
	if _, _, _, pos := m.lookup(key); pos > -1 {
		return m.e[pos].Value, true
	}
	return value, false
}

// Exists returns true if key is present.
func (m *Map[K, V]) Exists(key K) bool {
	_, _, _, pos := m.lookup(key)
	return pos > -1
}

// Index returns the position of the key or -1 if it wasn't found.
func (m *Map[K, V]) Index(key K) int {
	_, _, _, pos := m.lookup(key)
	return pos
}

// Remove removes the key preserving the order of the remaining keys.
// Noop if the key doesn't exist.
func (m *Map[K, V]) Remove(key K) {
	_, i, _, pos := m.lookup(key)
	if pos < 0 {
		return
	}

	b := &m.d[i]
	if b.Pos == pos {
		if b.Next == nil {
			m.d = append(m.d[:i], m.d[i+1:]...)
		} else {
			b.slot = *b.Next
		}
	} else {
		// Hash collision
		for prev, s := &b.slot, b.Next; s != nil; prev, s = s, s.Next {
			if s.Pos == pos {
				prev.Next = s.Next
				break
			}
		}
	}

	copy(m.e[pos:], m.e[pos+1:])
	m.e[len(m.e)-1] = Pair[K, V]{}
	m.e = m.e[:len(m.e)-1]

	// Shift the positions of all subsequent entries
	for j := range m.d {
		for s := &m.d[j].slot; s != nil; s = s.Next {
			if s.Pos > pos {
				s.Pos--
			}
		}
	}
}

// Count returns the number of stored key-value pairs.
func (m *Map[K, V]) Count() int {
	return len(m.e)
}

// Merge sets every pair of other in other's order.
// Values of other win over existing ones, existing keys keep
// their position and new keys are appended. other is not modified.
func (m *Map[K, V]) Merge(other *Map[K, V]) {
	if other == nil || other == m {
		return
	}
	for _, p := range other.e {
		m.Set(p.Key, p.Value)
	}
}

// Union appends all pairs of other. If any key of other already
// exists the first such key is returned as container.ErrorDuplicateKey
// and the map is left unchanged.
func (m *Map[K, V]) Union(other *Map[K, V]) error {
	if other == nil {
		return nil
	}
	for _, p := range other.e {
		if m.Exists(p.Key) {
			return container.ErrorDuplicateKey{Key: p.Key}
		}
	}
	for _, p := range other.e {
		m.Set(p.Key, p.Value)
	}
	return nil
}

// Extract returns the pairs in insertion order.
//
// WARNING: the returned slice aliases the map's storage and must be
// treated as read-only. It is invalidated by any subsequent mutation.
func (m *Map[K, V]) Extract() []Pair[K, V] {
	return m.e
}

// Keys returns all keys in insertion order.
// []byte keys are aliased.
func (m *Map[K, V]) Keys() []K {
	keys := make([]K, len(m.e))
	for i := range m.e {
		keys[i] = m.e[i].Key
	}
	return keys
}

// Values returns all map values in insertion order.
func (m *Map[K, V]) Values() []V {
	values := make([]V, len(m.e))
	for i := range m.e {
		values[i] = m.e[i].Value
	}
	return values
}

// ToMap copies the pairs into a native map losing the order.
func (m *Map[K, V]) ToMap() map[string]V {
	n := make(map[string]V, len(m.e))
	for _, p := range m.e {
		n[string(p.Key)] = p.Value
	}
	return n
}

// Equal returns true if both maps hold equal pairs in the same order.
// A nil map is equal to an empty one.
func (m *Map[K, V]) Equal(mm *Map[K, V]) bool {
	if mm == nil {
		return len(m.e) == 0
	}
	if len(m.e) != len(mm.e) {
		return false
	}
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

// lookup returns the key hash, the bucket index (or insertion bound),
// whether a bucket with the hash exists and the position of the key
// which is -1 if the key doesn't exist.
func (m *Map[K, V]) lookup(key K) (
	hash uint64,
	i int,
	hashFound bool,
	pos int,
) {
	hash = m.hasher.Hash(key)
	i, hashFound = m.index(hash)
	if hashFound {
		for s := &m.d[i].slot; s != nil; s = s.Next {
			if string(m.e[s.Pos].Key) == string(key) {
				return hash, i, hashFound, s.Pos
			}
		}
	}
	return hash, i, hashFound, -1
}

func (m *Map[K, V]) insert(
	hash uint64,
	i int,
	hashFound bool,
	key K,
	value V,
) {
	pos := len(m.e)
	m.e = append(m.e, Pair[K, V]{Key: key, Value: value})

	if hashFound {
		s := &m.d[i].slot
		for s.Next != nil {
			s = s.Next
		}
		s.Next = &slot{Pos: pos}
		return
	}

	if i == len(m.d) {
		m.d = append(m.d, bucket{hash, slot{Pos: pos}})
		return
	}
	m.d = append(m.d[:i+1], m.d[i:]...)
	m.d[i] = bucket{hash, slot{Pos: pos}}
}

func (m *Map[K, V]) index(keyHash uint64) (i int, found bool) {
	if len(m.d) >= 256 {
		return findExp(m.d, keyHash)
	}
	return findBin(m.d, keyHash, 0, len(m.d)-1)
}

// findExp utilizes exponential binary search and returns index and true if
// the element was found, otherwise returns bound and false.
func findExp(e []bucket, keyHash uint64) (int, bool) {
	l, r := 0, 1

	if len(e) > 1 {
		for r < len(e) && e[r].KeyHash < keyHash {
			l = r
			r = r << 1
		}
	}

	return findBin(e, keyHash, l, min(r, len(e)-1))
}

// findBin utilizes binary search and returns index and true if
// the element was found, otherwise returns left bound and false.
func findBin(e []bucket, keyHash uint64, l, r int) (int, bool) {
	for l <= r {
		m := l + (r-l)>>1

		if e[m].KeyHash == keyHash {
			return m, true
		}

		if e[m].KeyHash > keyHash {
			r = m - 1
		} else {
			l = m + 1
		}
	}

	return l, false
}
