// package linear provides a container.Mapper implementation
// backed by a slice and linear search for benchmark reference.
package linear

import "github.com/graph-guard/omap/pkg/container"

type bucket[K comparable, V any] struct {
	Key   K
	Value V
}

type Linear[K comparable, V any] struct {
	d []bucket[K, V]
}

var _ container.Mapper[string, int] = new(Linear[string, int])

func New[K comparable, V any](capacity int) *Linear[K, V] {
	return &Linear[K, V]{
		d: make([]bucket[K, V], 0, capacity),
	}
}

func (m *Linear[K, V]) find(key K) int {
	for i := 0; i < len(m.d); i++ {
		if m.d[i].Key == key {
			return i
		}
	}
	return -1
}

func (m *Linear[K, V]) Add(key K, value V) error {
	if m.find(key) > -1 {
		return container.ErrorDuplicateKey{Key: key}
	}
	m.d = append(m.d, bucket[K, V]{Key: key, Value: value})
	return nil
}

func (m *Linear[K, V]) Set(key K, value V) {
	if i := m.find(key); i > -1 {
		m.d[i].Value = value
		return
	}
	m.d = append(m.d, bucket[K, V]{Key: key, Value: value})
}

func (m *Linear[K, V]) Remove(key K) {
	if i := m.find(key); i > -1 {
		m.d = append(m.d[:i], m.d[i+1:]...)
	}
}

func (m *Linear[K, V]) Get(key K) (v V, ok bool) {
	if i := m.find(key); i > -1 {
		return m.d[i].Value, true
	}
	return v, false
}

func (m *Linear[K, V]) Exists(key K) bool {
	return m.find(key) > -1
}

func (m *Linear[K, V]) Reset() {
	m.d = m.d[:0]
}

func (m *Linear[K, V]) Count() int {
	return len(m.d)
}

func (m *Linear[K, V]) Visit(fn func(K, V) (stop bool)) {
	for i := 0; i < len(m.d); i++ {
		if fn(m.d[i].Key, m.d[i].Value) {
			break
		}
	}
}
