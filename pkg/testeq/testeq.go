// Package testeq provides comparison helpers reporting every
// difference between expected and actual container contents
// instead of stopping at the first one.
package testeq

import (
	"fmt"
	"sort"

	"github.com/google/go-cmp/cmp"
	"github.com/graph-guard/omap/pkg/container"
	"golang.org/x/exp/constraints"
)

// Writer is implemented by *testing.T and *testing.B.
type Writer interface {
	Helper()
	Errorf(fmt string, v ...any)
}

// Order checks that m visits exactly keys with values in this order.
func Order[K comparable, V any](
	writer Writer,
	m container.Mapper[K, V],
	keys []K,
	values []V,
) (ok bool) {
	writer.Helper()
	if len(keys) != len(values) {
		panic("testeq.Order: keys and values differ in length")
	}

	type entry struct {
		Key   K
		Value V
	}
	expect := make([]entry, len(keys))
	for i := range keys {
		expect[i] = entry{keys[i], values[i]}
	}
	var actual []entry
	m.Visit(func(k K, v V) (stop bool) {
		actual = append(actual, entry{k, v})
		return false
	})

	ok = Slices(writer, "entry", expect, actual,
		func(e, a entry) string {
			if e.Key != a.Key {
				return fmt.Sprintf("expected key %v, got %v", e.Key, a.Key)
			}
			if d := cmp.Diff(e.Value, a.Value); d != "" {
				return fmt.Sprintf("value of %v (-want +got):\n%s", e.Key, d)
			}
			return ""
		},
		func(e entry) string { return fmt.Sprintf("%v: %v", e.Key, e.Value) },
	)
	if c := m.Count(); c != len(actual) {
		writer.Errorf("Count() = %d but %d entries were visited", c, len(actual))
		ok = false
	}
	return ok
}

// Contents checks that m holds exactly the associations of expected
// regardless of their order.
func Contents[K constraints.Ordered, V any](
	writer Writer,
	expected map[K]V,
	m container.Mapper[K, V],
) (ok bool) {
	writer.Helper()
	actual := make(map[K]V, m.Count())
	m.Visit(func(k K, v V) (stop bool) {
		actual[k] = v
		return false
	})
	return Maps(writer, "key", expected, actual,
		func(e, a V) string {
			if d := cmp.Diff(e, a); d != "" {
				return "(-want +got):\n" + d
			}
			return ""
		},
		func(v V) string { return fmt.Sprintf("%v", v) },
	)
}

// Maps compares two native maps in ascending key order.
func Maps[K constraints.Ordered, V any](
	writer Writer,
	title string,
	expected, actual map[K]V,
	check func(expected, actual V) (errMsg string),
	stringify func(V) string,
) (ok bool) {
	writer.Helper()
	ok = true

	for _, k := range sortedKeys(expected) {
		av, found := actual[k]
		if !found {
			writer.Errorf(
				"missing %s %v (%s)",
				title, k, stringify(expected[k]),
			)
			ok = false
			continue
		}
		if msg := check(expected[k], av); msg != "" {
			writer.Errorf("mismatching %s %v: %s", title, k, msg)
			ok = false
		}
	}

	for _, k := range sortedKeys(actual) {
		if _, found := expected[k]; !found {
			writer.Errorf(
				"unexpected %s %v (%s)",
				title, k, stringify(actual[k]),
			)
			ok = false
		}
	}

	return ok
}

func sortedKeys[K constraints.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Slices compares two slices element by element.
func Slices[T any](
	writer Writer,
	title string,
	expect, actual []T,
	check func(expected, actual T) (errMsg string),
	stringify func(T) string,
) (ok bool) {
	writer.Helper()
	ok = true

	for i := 0; i < len(actual) && i < len(expect); i++ {
		if errMsg := check(expect[i], actual[i]); errMsg != "" {
			writer.Errorf(
				"mismatching %s at index %d: %s",
				title, i, errMsg,
			)
			ok = false
		}
	}
	for i := len(expect); i < len(actual); i++ {
		writer.Errorf(
			"unexpected %s at index %d (%s)",
			title, i, stringify(actual[i]),
		)
		ok = false
	}
	for i := len(actual); i < len(expect); i++ {
		writer.Errorf(
			"missing %s at index %d (%s)",
			title, i, stringify(expect[i]),
		)
		ok = false
	}
	return ok
}
