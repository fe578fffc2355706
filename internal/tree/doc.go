// Package tree provides the typed configuration tree that every input
// format is decoded into before compilation.
//
// A Value is a tagged variant over three shapes:
//
//   - Mapping: ordered key/value entries, keys unique
//   - Sequence: ordered items
//   - Scalar: null, boolean, integer, float or string
//
// Mappings keep source order. The preference flattener does not depend on
// it, but the toolbar encoder serializes its subtree whole and the browser
// layout engine reads placements in the order they appear.
//
// # Readers
//
//	FromYAML(data)  // gopkg.in/yaml.v3 node API, anchors and merge keys resolved
//	FromTOML(data)  // github.com/BurntSushi/toml, order from MetaData.Keys
//	FromJSON(data)  // JSON or JSONC (comments, trailing commas)
//
// # Writers
//
//	MarshalJSON(v)  // compact, order-preserving, no HTML escaping
//	ToYAMLNode(v)   // for emitting YAML snippets
package tree
