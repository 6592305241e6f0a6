package document

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/graph-guard/omap/pkg/omap"
	"github.com/tidwall/gjson"
)

// DecodeJSON decodes a JSON object.
// Empty input and null decode to an empty map.
func DecodeJSON(data []byte, strict bool) (*Map, error) {
	if len(bytes.TrimSpace(data)) < 1 {
		return omap.New[string, any](0), nil
	}
	if !gjson.ValidBytes(data) {
		return nil, ErrorIllegal{Message: "invalid JSON"}
	}
	r := gjson.ParseBytes(data)
	if r.Type == gjson.Null {
		return omap.New[string, any](0), nil
	}
	if !r.IsObject() {
		return nil, ErrorIllegal{Message: "top-level value must be an object"}
	}
	return jsonObject(r, "", strict, 0)
}

func jsonObject(
	r gjson.Result,
	path string,
	strict bool,
	depth int,
) (*Map, error) {
	if depth > MaxDepth {
		return nil, ErrorIllegal{Path: path, Message: "nesting too deep"}
	}
	m := omap.New[string, any](0)
	var err error
	r.ForEach(func(key, value gjson.Result) bool {
		var v any
		k := key.String()
		if v, err = jsonValue(value, joinPath(path, k), strict, depth+1); err != nil {
			return false
		}
		err = set(m, path, k, v, strict)
		return err == nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func jsonValue(
	r gjson.Result,
	path string,
	strict bool,
	depth int,
) (any, error) {
	switch r.Type {
	case gjson.Null:
		return nil, nil
	case gjson.False:
		return false, nil
	case gjson.True:
		return true, nil
	case gjson.String:
		return r.Str, nil
	case gjson.Number:
		if !strings.ContainsAny(r.Raw, ".eE") {
			if i, err := strconv.ParseInt(r.Raw, 10, 64); err == nil {
				return i, nil
			}
		}
		return r.Num, nil
	}

	if r.IsObject() {
		return jsonObject(r, path, strict, depth)
	}
	if depth > MaxDepth {
		return nil, ErrorIllegal{Path: path, Message: "nesting too deep"}
	}
	s := []any{}
	var err error
	r.ForEach(func(_, value gjson.Result) bool {
		var v any
		v, err = jsonValue(value, indexPath(path, len(s)), strict, depth+1)
		s = append(s, v)
		return err == nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// EncodeJSON writes m to w as a JSON object preserving key order.
func EncodeJSON(w io.Writer, m *Map, indent bool) error {
	b := new(bytes.Buffer)
	if err := writeJSON(b, m); err != nil {
		return err
	}
	out := b.Bytes()
	if indent {
		ib := new(bytes.Buffer)
		if err := json.Indent(ib, out, "", "  "); err != nil {
			return err
		}
		out = ib.Bytes()
	}
	out = append(out, '\n')
	_, err := w.Write(out)
	return err
}

func writeJSON(b *bytes.Buffer, v any) error {
	switch v := v.(type) {
	case *Map:
		b.WriteByte('{')
		var err error
		i := 0
		v.Visit(func(key string, value any) (stop bool) {
			if i > 0 {
				b.WriteByte(',')
			}
			i++
			if err = writeScalar(b, key); err != nil {
				return true
			}
			b.WriteByte(':')
			err = writeJSON(b, value)
			return err != nil
		})
		b.WriteByte('}')
		return err
	case []any:
		b.WriteByte('[')
		for i := range v {
			if i > 0 {
				b.WriteByte(',')
			}
			if err := writeJSON(b, v[i]); err != nil {
				return err
			}
		}
		b.WriteByte(']')
		return nil
	}
	return writeScalar(b, v)
}

func writeScalar(b *bytes.Buffer, v any) error {
	e, err := json.Marshal(v)
	if err != nil {
		return err
	}
	b.Write(e)
	return nil
}
