package tree

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/firefly-engineering/browser-conf/internal/errors"
)

// FromYAML decodes a YAML document into a Value. An empty document
// decodes to an empty mapping.
func FromYAML(data []byte) (*Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.ConfigError("failed to parse YAML", err)
	}
	if doc.Kind == 0 {
		return Mapping(), nil
	}
	d := &yamlDecoder{}
	return d.node(&doc, "")
}

// maxAliasNodes bounds the nodes produced by expanding aliases, so nested
// aliases cannot blow up a small document.
const maxAliasNodes = 10000

type yamlDecoder struct {
	aliasDepth int
	aliasNodes int
}

func (d *yamlDecoder) node(n *yaml.Node, path string) (*Value, error) {
	if d.aliasDepth > 0 {
		d.aliasNodes++
		if d.aliasNodes > maxAliasNodes {
			return nil, errors.ValidationError(path, "aliases expand to more than %d nodes (line %d)", maxAliasNodes, n.Line)
		}
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Mapping(), nil
		}
		return d.node(n.Content[0], path)

	case yaml.AliasNode:
		if n.Alias == nil {
			return nil, errors.ValidationError(path, "unresolved alias %q", n.Value)
		}
		d.aliasDepth++
		v, err := d.node(n.Alias, path)
		d.aliasDepth--
		return v, err

	case yaml.MappingNode:
		return d.mapping(n, path)

	case yaml.SequenceNode:
		seq := &Value{Kind: KindSequence, Line: n.Line, Items: make([]*Value, 0, len(n.Content))}
		for i, item := range n.Content {
			v, err := d.node(item, JoinIndex(path, i))
			if err != nil {
				return nil, err
			}
			seq.Items = append(seq.Items, v)
		}
		return seq, nil

	case yaml.ScalarNode:
		return fromYAMLScalar(n, path)
	}
	return nil, errors.ValidationError(path, "unsupported YAML node kind %d", n.Kind)
}

func (d *yamlDecoder) mapping(n *yaml.Node, path string) (*Value, error) {
	m := &Value{Kind: KindMapping, Line: n.Line}
	var merges []*yaml.Node

	for i := 0; i+1 < len(n.Content); i += 2 {
		keyNode, valNode := n.Content[i], n.Content[i+1]
		if keyNode.ShortTag() == "!!merge" {
			merges = append(merges, valNode)
			continue
		}
		if keyNode.Kind != yaml.ScalarNode {
			return nil, errors.ValidationError(path, "mapping keys must be scalars (line %d)", keyNode.Line)
		}
		key := keyNode.Value
		if m.Has(key) {
			return nil, errors.ValidationError(JoinKey(path, key), "duplicate key (line %d)", keyNode.Line)
		}
		v, err := d.node(valNode, JoinKey(path, key))
		if err != nil {
			return nil, err
		}
		m.Entries = append(m.Entries, Entry{Key: key, Value: v})
	}

	// Explicit keys win over merged ones regardless of position.
	for _, merge := range merges {
		sources := []*yaml.Node{merge}
		if merge.Kind == yaml.SequenceNode {
			sources = merge.Content
		}
		for _, src := range sources {
			mv, err := d.node(src, path)
			if err != nil {
				return nil, err
			}
			if !mv.IsMapping() {
				return nil, errors.ValidationError(path, "merge key must reference a mapping (line %d)", src.Line)
			}
			for _, e := range mv.Entries {
				if !m.Has(e.Key) {
					m.Entries = append(m.Entries, e)
				}
			}
		}
	}
	return m, nil
}

func fromYAMLScalar(n *yaml.Node, path string) (*Value, error) {
	var v *Value
	switch n.ShortTag() {
	case "!!null":
		v = Null()
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, errors.ValidationError(path, "invalid boolean %q (line %d)", n.Value, n.Line)
		}
		v = Bool(b)
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			return nil, errors.ValidationError(path, "invalid integer %q (line %d)", n.Value, n.Line)
		}
		v = Int(i)
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, errors.ValidationError(path, "invalid float %q (line %d)", n.Value, n.Line)
		}
		v = Float(f)
	default:
		// !!str, !!timestamp, !!binary and custom tags keep their literal text.
		v = String(n.Value)
	}
	v.Line = n.Line
	return v, nil
}

// ToYAMLNode converts v into a yaml.Node suitable for yaml.Marshal.
func ToYAMLNode(v *Value) *yaml.Node {
	if v == nil {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
	switch v.Kind {
	case KindMapping:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, e := range v.Entries {
			n.Content = append(n.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Key},
				ToYAMLNode(e.Value),
			)
		}
		return n
	case KindSequence:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v.Items {
			n.Content = append(n.Content, ToYAMLNode(item))
		}
		return n
	case KindBool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: v.ScalarString()}
	case KindInt:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: v.ScalarString()}
	case KindFloat:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: v.ScalarString()}
	case KindString:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.Str}
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
}

// MarshalYAML renders v as a YAML document with two-space indentation.
func MarshalYAML(v *Value) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(ToYAMLNode(v)); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	return buf.Bytes(), nil
}
