// Package container defines the contract shared by the
// insertion-ordered map implementations of this module.
package container

import (
	"errors"
	"fmt"
)

// Mapper is an insertion-ordered key-value container.
// Iteration visits present keys in the order they were first inserted.
type Mapper[K any, V any] interface {
	// Add associates key with value unless key is already present,
	// in which case ErrorDuplicateKey is returned and nothing changes.
	Add(K, V) error
	// Set associates key with value overwriting any existing association
	// without changing the position of an existing key.
	Set(K, V)
	Get(K) (v V, ok bool)
	Exists(K) bool
	// Remove removes the key. Noop if the key doesn't exist.
	Remove(K)
	Count() int
	Reset()
	// Visit calls fn for every stored key-value pair in insertion order.
	// Returns immediately if fn returns true.
	Visit(fn func(K, V) (stop bool))
}

// ErrDuplicateKey is matched by any ErrorDuplicateKey using errors.Is.
var ErrDuplicateKey = errors.New("duplicate key")

// ErrSortUnsupported is returned by Sort on all implementations.
var ErrSortUnsupported = errors.New("sorting is not supported")

// SortMode names an ordering requested from Sort.
type SortMode string

// ErrorDuplicateKey is returned when a key is added
// to a container which already holds it.
type ErrorDuplicateKey struct {
	Key any
}

func (e ErrorDuplicateKey) Error() string {
	switch k := e.Key.(type) {
	case string:
		return fmt.Sprintf("duplicate key %q", k)
	case []byte:
		return fmt.Sprintf("duplicate key %q", k)
	}
	return fmt.Sprintf("duplicate key %v", e.Key)
}

func (e ErrorDuplicateKey) Is(target error) bool {
	return target == ErrDuplicateKey
}
