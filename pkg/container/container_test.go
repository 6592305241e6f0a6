package container_test

import (
	"errors"
	"strconv"
	"testing"

	"github.com/google/uuid"
	"github.com/graph-guard/omap/pkg/container"
	"github.com/graph-guard/omap/pkg/container/hamap"
	"github.com/graph-guard/omap/pkg/container/linear"
	"github.com/graph-guard/omap/pkg/omap"
	"github.com/graph-guard/omap/pkg/testeq"
	"github.com/stretchr/testify/require"
)

var implementations = []struct {
	Name string
	Make func(capacity int) container.Mapper[string, int]
}{
	{"omap", func(capacity int) container.Mapper[string, int] {
		return omap.New[string, int](capacity)
	}},
	{"hamap", func(capacity int) container.Mapper[string, int] {
		return hamap.New[string, int](capacity, nil)
	}},
	{"linear", func(capacity int) container.Mapper[string, int] {
		return linear.New[string, int](capacity)
	}},
}

func forEachImplT(
	t *testing.T,
	fn func(*testing.T, container.Mapper[string, int]),
) {
	for _, impl := range implementations {
		t.Run(impl.Name, func(t *testing.T) {
			fn(t, impl.Make(0))
		})
	}
}

func TestReset(t *testing.T) {
	forEachImplT(t, func(t *testing.T, m container.Mapper[string, int]) {
		numKeys := 5
		for i := 0; i < numKeys; i++ {
			m.Set(strconv.Itoa(i), i)
		}
		require.Equal(t, numKeys, m.Count())

		m.Reset()

		require.Zero(t, m.Count())
		for i := 0; i < numKeys; i++ {
			v, ok := m.Get(strconv.Itoa(i))
			require.Zero(t, v)
			require.False(t, ok)
			require.False(t, m.Exists(strconv.Itoa(i)))
		}
	})
}

func TestAdd(t *testing.T) {
	forEachImplT(t, func(t *testing.T, m container.Mapper[string, int]) {
		require.NoError(t, m.Add("a", 1))
		require.True(t, m.Exists("a"))
		require.Equal(t, 1, m.Count())

		require.NoError(t, m.Add("b", 2))
		require.Equal(t, 2, m.Count())
		testeq.Order(t, m, []string{"a", "b"}, []int{1, 2})
	})
}

func TestAddDuplicate(t *testing.T) {
	forEachImplT(t, func(t *testing.T, m container.Mapper[string, int]) {
		require.NoError(t, m.Add("x", 1))

		err := m.Add("x", 2)
		require.Error(t, err)
		require.True(t, errors.Is(err, container.ErrDuplicateKey))
		var errDup container.ErrorDuplicateKey
		require.True(t, errors.As(err, &errDup))
		require.Equal(t, "x", errDup.Key)
		require.Equal(t, `duplicate key "x"`, err.Error())

		// Unchanged
		testeq.Order(t, m, []string{"x"}, []int{1})

		// Overwrite
		m.Set("x", 2)
		testeq.Order(t, m, []string{"x"}, []int{2})
	})
}

func TestSet(t *testing.T) {
	forEachImplT(t, func(t *testing.T, m container.Mapper[string, int]) {
		m.Set("a", -1)
		m.Set("b", 0)
		m.Set("c", 1)
		testeq.Order(t, m, []string{"a", "b", "c"}, []int{-1, 0, 1})

		m.Set("b", 3)
		m.Set("a", 2)
		m.Set("c", 4)
		testeq.Order(t, m, []string{"a", "b", "c"}, []int{2, 3, 4})

		m.Set("x", 42)
		testeq.Order(t, m, []string{"a", "b", "c", "x"}, []int{2, 3, 4, 42})
	})
}

func TestGet(t *testing.T) {
	forEachImplT(t, func(t *testing.T, m container.Mapper[string, int]) {
		m.Set("a", 2)
		m.Set("b", 3)

		v, ok := m.Get("b")
		require.True(t, ok)
		require.Equal(t, 3, v)

		v, ok = m.Get("nonexistent")
		require.False(t, ok)
		require.Zero(t, v)
		require.False(t, m.Exists("nonexistent"))
	})
}

func TestRemove(t *testing.T) {
	forEachImplT(t, func(t *testing.T, m container.Mapper[string, int]) {
		m.Set("a", 1)
		m.Set("b", 2)
		m.Set("c", 3)
		m.Set("d", 4)

		m.Remove("nonexistent")
		testeq.Order(t, m,
			[]string{"a", "b", "c", "d"},
			[]int{1, 2, 3, 4},
		)

		m.Remove("b")
		require.False(t, m.Exists("b"))
		testeq.Order(t, m, []string{"a", "c", "d"}, []int{1, 3, 4})

		m.Remove("a")
		testeq.Order(t, m, []string{"c", "d"}, []int{3, 4})

		// Re-added keys are appended
		m.Set("a", 5)
		testeq.Order(t, m, []string{"c", "d", "a"}, []int{3, 4, 5})

		m.Remove("d")
		m.Remove("d")
		testeq.Order(t, m, []string{"c", "a"}, []int{3, 5})

		m.Remove("c")
		m.Remove("a")
		testeq.Order(t, m, nil, nil)
		require.Zero(t, m.Count())
	})
}

func TestVisitStop(t *testing.T) {
	forEachImplT(t, func(t *testing.T, m container.Mapper[string, int]) {
		m.Set("a", 1)
		m.Set("b", 2)
		calls := 0
		m.Visit(func(k string, v int) (stop bool) {
			require.Equal(t, "a", k)
			require.Equal(t, 1, v)
			calls++
			return true
		})
		require.Equal(t, 1, calls)
	})
}

// TestRandomized applies the same random sequence of operations
// to all implementations and expects identical contents.
func TestRandomized(t *testing.T) {
	keys := make([]string, 64)
	for i := range keys {
		keys[i] = uuid.NewString()
	}

	maps := make([]container.Mapper[string, int], len(implementations))
	for i := range implementations {
		maps[i] = implementations[i].Make(0)
	}

	for step := 0; step < 2048; step++ {
		k := keys[(step*31+step/7)%len(keys)]
		for _, m := range maps {
			switch step % 5 {
			case 0, 1:
				countBefore, existed := m.Count(), m.Exists(k)
				err := m.Add(k, step)
				if existed {
					require.ErrorIs(t, err, container.ErrDuplicateKey)
					require.Equal(t, countBefore, m.Count())
				} else {
					require.NoError(t, err)
					require.Equal(t, countBefore+1, m.Count())
				}
			case 2:
				m.Set(k, step)
			case 3:
				countBefore, existed := m.Count(), m.Exists(k)
				m.Remove(k)
				require.False(t, m.Exists(k))
				if existed {
					require.Equal(t, countBefore-1, m.Count())
				} else {
					require.Equal(t, countBefore, m.Count())
				}
			case 4:
				_, _ = m.Get(k)
			}
		}
	}

	var expectKeys []string
	var expectValues []int
	maps[len(maps)-1].Visit(func(k string, v int) (stop bool) {
		expectKeys = append(expectKeys, k)
		expectValues = append(expectValues, v)
		return false
	})
	for i, m := range maps {
		t.Run(implementations[i].Name, func(t *testing.T) {
			testeq.Order(t, m, expectKeys, expectValues)
		})
	}
}

func TestErrorDuplicateKeyMessage(t *testing.T) {
	for _, td := range []struct {
		key    any
		expect string
	}{
		{"x", `duplicate key "x"`},
		{[]byte("y"), `duplicate key "y"`},
		{42, `duplicate key 42`},
	} {
		t.Run(td.expect, func(t *testing.T) {
			err := container.ErrorDuplicateKey{Key: td.key}
			require.Equal(t, td.expect, err.Error())
			require.ErrorIs(t, err, container.ErrDuplicateKey)
		})
	}
}
