// Package document converts YAML and JSON documents to and from
// ordered maps preserving the order of mapping keys.
//
// Mappings are represented as *omap.Map[string, any], sequences as []any.
// JSON integers decode to int64 and all other JSON numbers to float64.
// YAML scalars are resolved by gopkg.in/yaml.v3.
package document

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/graph-guard/omap/pkg/omap"
)

// Map is a decoded document mapping.
type Map = omap.Map[string, any]

type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath determines the format by the file extension.
func FormatFromPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".json":
		return FormatJSON, true
	}
	return "", false
}

// ParseFormat returns the format by name.
func ParseFormat(s string) (Format, bool) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatYAML, FormatJSON:
		return f, true
	}
	return "", false
}

// Decode decodes data in the given format.
// If strict is true, a key repeated within the same mapping
// results in container.ErrorDuplicateKey, otherwise the last
// value wins and the key keeps its first position.
func Decode(format Format, data []byte, strict bool) (*Map, error) {
	switch format {
	case FormatYAML:
		return DecodeYAML(data, strict)
	case FormatJSON:
		return DecodeJSON(data, strict)
	}
	return nil, fmt.Errorf("unsupported format: %q", format)
}

// Encode writes m to w in the given format.
func Encode(w io.Writer, format Format, m *Map) error {
	switch format {
	case FormatYAML:
		return EncodeYAML(w, m)
	case FormatJSON:
		return EncodeJSON(w, m, true)
	}
	return fmt.Errorf("unsupported format: %q", format)
}

// ErrorIllegal is returned for documents that can't be
// represented as an ordered map.
type ErrorIllegal struct {
	Path    string
	Message string
}

func (e ErrorIllegal) Error() string {
	if e.Path == "" {
		return "illegal document: " + e.Message
	}
	return "illegal document at " + e.Path + ": " + e.Message
}

// ErrorDuplicate wraps the duplicate key error of a strict decode
// with the path of the mapping containing the key.
type ErrorDuplicate struct {
	Path string
	Err  error
}

func (e ErrorDuplicate) Error() string {
	if e.Path == "" {
		return e.Err.Error()
	}
	return e.Err.Error() + " in " + e.Path
}

func (e ErrorDuplicate) Unwrap() error { return e.Err }

func set(m *Map, path, key string, value any, strict bool) error {
	if !strict {
		m.Set(key, value)
		return nil
	}
	if err := m.Add(key, value); err != nil {
		return ErrorDuplicate{Path: path, Err: err}
	}
	return nil
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func indexPath(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}
