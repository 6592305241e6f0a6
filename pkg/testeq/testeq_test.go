package testeq_test

import (
	"fmt"
	"testing"

	"github.com/graph-guard/omap/pkg/omap"
	"github.com/graph-guard/omap/pkg/testeq"
	"github.com/stretchr/testify/require"
)

func TestMapsEqual(t *testing.T) {
	w := new(TestWriter)
	exp, act := map[string]string{
		"a": "1",
		"b": "2",
	}, map[string]string{
		"b": "2",
		"a": "1",
	}
	ok := testeq.Maps(w, "key", exp, act, compareStrings, stringify)
	require.Len(t, w.Writes, 0)
	require.True(t, ok)
}

func TestMapsMismatch(t *testing.T) {
	w := new(TestWriter)
	exp, act := map[string]string{
		"a": "1",
		"b": "2",
		"c": "3",
	}, map[string]string{
		"a": "y",
		"c": "3",
		"d": "4",
	}
	ok := testeq.Maps(w, "key", exp, act, compareStrings, stringify)
	require.Equal(t, []string{
		"mismatching key a: not equal",
		"missing key b (2)",
		"unexpected key d (4)",
	}, w.Writes)
	require.False(t, ok)
}

func TestSlicesMissing(t *testing.T) {
	w := new(TestWriter)
	exp, act := []string{"a", "b", "c"}, []string{"a"}
	ok := testeq.Slices(w, "key", exp, act, compareStrings, stringify)
	require.Equal(t, []string{
		"missing key at index 1 (b)",
		"missing key at index 2 (c)",
	}, w.Writes)
	require.False(t, ok)
}

func TestSlicesUnexpected(t *testing.T) {
	w := new(TestWriter)
	exp, act := []string{"x"}, []string{"a", "b"}
	ok := testeq.Slices(w, "key", exp, act, compareStrings, stringify)
	require.Equal(t, []string{
		"mismatching key at index 0: not equal",
		"unexpected key at index 1 (b)",
	}, w.Writes)
	require.False(t, ok)
}

func TestOrder(t *testing.T) {
	m := omap.New(0,
		omap.Entry[string, int]{Key: "a", Value: 1},
		omap.Entry[string, int]{Key: "b", Value: 2},
	)

	t.Run("equal", func(t *testing.T) {
		w := new(TestWriter)
		ok := testeq.Order[string, int](w, m, []string{"a", "b"}, []int{1, 2})
		require.Len(t, w.Writes, 0)
		require.True(t, ok)
	})

	t.Run("wrong_order", func(t *testing.T) {
		w := new(TestWriter)
		ok := testeq.Order[string, int](w, m, []string{"b", "a"}, []int{2, 1})
		require.Equal(t, []string{
			"mismatching entry at index 0: expected key b, got a",
			"mismatching entry at index 1: expected key a, got b",
		}, w.Writes)
		require.False(t, ok)
	})

	t.Run("missing", func(t *testing.T) {
		w := new(TestWriter)
		ok := testeq.Order[string, int](
			w, m, []string{"a", "b", "c"}, []int{1, 2, 3},
		)
		require.Equal(t, []string{
			"missing entry at index 2 (c: 3)",
		}, w.Writes)
		require.False(t, ok)
	})
}

func TestContents(t *testing.T) {
	m := omap.New(0,
		omap.Entry[string, int]{Key: "b", Value: 2},
		omap.Entry[string, int]{Key: "a", Value: 1},
	)
	w := new(TestWriter)
	ok := testeq.Contents[string, int](w, map[string]int{"a": 1, "b": 2}, m)
	require.Len(t, w.Writes, 0)
	require.True(t, ok)

	ok = testeq.Contents[string, int](w, map[string]int{"a": 1}, m)
	require.Equal(t, []string{"unexpected key b (2)"}, w.Writes)
	require.False(t, ok)
}

type TestWriter struct{ Writes []string }

func (t *TestWriter) Errorf(format string, v ...any) {
	t.Writes = append(t.Writes, fmt.Sprintf(format, v...))
}
func (t *TestWriter) Helper() {}

func compareStrings(exp, act string) (errMsg string) {
	if exp != act {
		return "not equal"
	}
	return ""
}

func stringify(s string) string { return s }
