package omap

// Iterator is a cursor over a Map.
//
// Rewind takes a snapshot of the key order. Keys removed after the
// snapshot are skipped, keys added after it are only visited after
// the next Rewind. Values are always read from the map.
type Iterator[K comparable, V any] struct {
	m    *Map[K, V]
	keys []K
	pos  int
}

// Iterator returns a rewound iterator over m.
func (m *Map[K, V]) Iterator() *Iterator[K, V] {
	it := &Iterator[K, V]{m: m}
	it.Rewind()
	return it
}

// Rewind resets the cursor to the first entry.
func (it *Iterator[K, V]) Rewind() {
	it.keys = append(it.keys[:0], it.m.Keys()...)
	it.pos = 0
	it.skipRemoved()
}

// Valid returns true if the cursor references an existing entry.
func (it *Iterator[K, V]) Valid() bool {
	it.skipRemoved()
	return it.pos < len(it.keys)
}

// Key returns the key at the cursor or the zero key if !Valid().
func (it *Iterator[K, V]) Key() (key K) {
	if !it.Valid() {
		return key
	}
	return it.keys[it.pos]
}

// Current returns the value at the cursor or the zero value if !Valid().
func (it *Iterator[K, V]) Current() (value V) {
	if !it.Valid() {
		return value
	}
	value, _ = it.m.Get(it.keys[it.pos])
	return value
}

// Next advances the cursor by one entry.
func (it *Iterator[K, V]) Next() {
	if it.pos < len(it.keys) {
		it.pos++
	}
	it.skipRemoved()
}

func (it *Iterator[K, V]) skipRemoved() {
	for it.pos < len(it.keys) && !it.m.Exists(it.keys[it.pos]) {
		it.pos++
	}
}
