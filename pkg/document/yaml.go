package document

import (
	"fmt"
	"io"

	"github.com/graph-guard/omap/pkg/omap"
	yaml "gopkg.in/yaml.v3"
)

// MaxDepth limits the nesting of decoded documents.
const MaxDepth = 512

// DecodeYAML decodes the first YAML document of data.
// Empty and null documents decode to an empty map.
// Aliases are expanded and merge keys ("<<") are applied,
// explicit keys of a mapping take precedence over merged ones.
func DecodeYAML(data []byte, strict bool) (*Map, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, ErrorIllegal{Message: err.Error()}
	}

	root := &doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) < 1 {
			return omap.New[string, any](0), nil
		}
		root = root.Content[0]
	}
	root = unalias(root)
	switch {
	case root.Kind == 0:
		return omap.New[string, any](0), nil
	case root.Kind == yaml.ScalarNode && root.Tag == "!!null":
		return omap.New[string, any](0), nil
	case root.Kind != yaml.MappingNode:
		return nil, ErrorIllegal{
			Message: fmt.Sprintf(
				"line %d: top-level value must be a mapping", root.Line,
			),
		}
	}
	d := yamlDecoder{strict: strict, active: map[*yaml.Node]bool{}}
	return d.mapping(root, "", 0)
}

func unalias(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

// yamlDecoder converts a node tree into ordered maps.
// It keeps track of alias expansions to reject documents
// that expand exponentially.
type yamlDecoder struct {
	strict bool

	// nodes counts all visited nodes,
	// aliased counts those visited through an alias.
	nodes      int
	aliased    int
	aliasDepth int

	// active holds the anchors currently being expanded.
	active map[*yaml.Node]bool
}

// allowedAliasRatio returns the highest tolerated share of nodes
// visited through aliases, decreasing for large documents.
func allowedAliasRatio(nodes int) float64 {
	switch {
	case nodes <= 400_000:
		return 0.99
	case nodes >= 4_000_000:
		return 0.10
	default:
		return 0.99 - 0.89*(float64(nodes-400_000)/3_600_000)
	}
}

func (d *yamlDecoder) visit(path string) error {
	d.nodes++
	if d.aliasDepth > 0 {
		d.aliased++
	}
	if d.aliased > 100 &&
		d.nodes > 1000 &&
		float64(d.aliased)/float64(d.nodes) > allowedAliasRatio(d.nodes) {
		return ErrorIllegal{Path: path, Message: "excessive aliasing"}
	}
	return nil
}

func (d *yamlDecoder) mapping(
	n *yaml.Node,
	path string,
	depth int,
) (*Map, error) {
	if depth > MaxDepth {
		return nil, ErrorIllegal{Path: path, Message: "nesting too deep"}
	}

	var explicit map[string]bool
	for i := 0; i+1 < len(n.Content); i += 2 {
		if k := unalias(n.Content[i]); !isMergeKey(k) {
			if explicit == nil {
				explicit = make(map[string]bool, len(n.Content)/2)
			}
			explicit[k.Value] = true
		}
	}

	m := omap.New[string, any](len(n.Content) / 2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k := unalias(n.Content[i])
		if k.Kind != yaml.ScalarNode {
			return nil, ErrorIllegal{
				Path: path,
				Message: fmt.Sprintf(
					"line %d: mapping key must be a scalar", k.Line,
				),
			}
		}
		if isMergeKey(k) {
			err := d.merge(m, n.Content[i+1], path, depth, explicit)
			if err != nil {
				return nil, err
			}
			continue
		}
		v, err := d.value(n.Content[i+1], joinPath(path, k.Value), depth+1)
		if err != nil {
			return nil, err
		}
		if err := set(m, path, k.Value, v, d.strict); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func isMergeKey(k *yaml.Node) bool {
	return k.Kind == yaml.ScalarNode &&
		k.Value == "<<" &&
		k.ShortTag() == "!!merge"
}

// merge applies the merge key value v to m. v is either a mapping or
// a sequence of mappings where earlier mappings take precedence.
// Keys in explicit or already in m are left untouched.
func (d *yamlDecoder) merge(
	m *Map,
	v *yaml.Node,
	path string,
	depth int,
	explicit map[string]bool,
) error {
	illegal := ErrorIllegal{
		Path: joinPath(path, "<<"),
		Message: fmt.Sprintf(
			"line %d: merge value must be a mapping "+
				"or a sequence of mappings", v.Line,
		),
	}
	sources := []*yaml.Node{v}
	if s := unalias(v); s.Kind == yaml.SequenceNode {
		sources = s.Content
	}
	for _, src := range sources {
		if unalias(src).Kind != yaml.MappingNode {
			return illegal
		}
		x, err := d.value(src, joinPath(path, "<<"), depth+1)
		if err != nil {
			return err
		}
		x.(*Map).VisitAll(func(key string, value any) {
			if !explicit[key] && !m.Exists(key) {
				m.Set(key, value)
			}
		})
	}
	return nil
}

func (d *yamlDecoder) value(
	n *yaml.Node,
	path string,
	depth int,
) (any, error) {
	if depth > MaxDepth {
		return nil, ErrorIllegal{Path: path, Message: "nesting too deep"}
	}
	if err := d.visit(path); err != nil {
		return nil, err
	}
	switch n.Kind {
	case yaml.AliasNode:
		if n.Alias == nil {
			return nil, ErrorIllegal{
				Path:    path,
				Message: fmt.Sprintf("line %d: unknown anchor %q", n.Line, n.Value),
			}
		}
		if d.active[n.Alias] {
			return nil, ErrorIllegal{
				Path: path,
				Message: fmt.Sprintf(
					"line %d: anchor %q value contains itself", n.Line, n.Value,
				),
			}
		}
		d.active[n.Alias] = true
		d.aliasDepth++
		v, err := d.value(n.Alias, path, depth)
		d.aliasDepth--
		delete(d.active, n.Alias)
		return v, err
	case yaml.MappingNode:
		return d.mapping(n, path, depth)
	case yaml.SequenceNode:
		s := make([]any, len(n.Content))
		for i := range n.Content {
			v, err := d.value(n.Content[i], indexPath(path, i), depth+1)
			if err != nil {
				return nil, err
			}
			s[i] = v
		}
		return s, nil
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, ErrorIllegal{Path: path, Message: err.Error()}
		}
		return v, nil
	}
	return nil, ErrorIllegal{
		Path:    path,
		Message: fmt.Sprintf("line %d: unsupported node", n.Line),
	}
}

// EncodeYAML writes m to w as a YAML document preserving key order.
func EncodeYAML(w io.Writer, m *Map) error {
	n, err := yamlNode(m)
	if err != nil {
		return err
	}
	e := yaml.NewEncoder(w)
	e.SetIndent(2)
	if err := e.Encode(n); err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}
	return e.Close()
}

func yamlNode(v any) (*yaml.Node, error) {
	switch v := v.(type) {
	case *Map:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		var err error
		v.Visit(func(key string, value any) (stop bool) {
			var vn *yaml.Node
			if vn, err = yamlNode(value); err != nil {
				return true
			}
			n.Content = append(n.Content, &yaml.Node{
				Kind:  yaml.ScalarNode,
				Tag:   "!!str",
				Value: key,
			}, vn)
			return false
		})
		return n, err
	case []any:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for i := range v {
			vn, err := yamlNode(v[i])
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, vn)
		}
		return n, nil
	}
	n := new(yaml.Node)
	if err := n.Encode(v); err != nil {
		return nil, fmt.Errorf("encoding %T: %w", v, err)
	}
	return n, nil
}
