package tree

import (
	"fmt"
	"strconv"
)

// Kind identifies the shape of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindSequence
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindInt:
		return "integer"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "unknown"
	}
}

// Value is one node of the configuration tree.
type Value struct {
	Kind Kind

	Bool  bool
	Int   int64
	Float float64
	Str   string

	Items   []*Value
	Entries []Entry

	// Line is the 1-based source line, or 0 when the reader does not track positions.
	Line int
}

// Entry is a single key/value pair of a mapping.
type Entry struct {
	Key   string
	Value *Value
}

// Null returns a null scalar.
func Null() *Value { return &Value{Kind: KindNull} }

// Bool returns a boolean scalar.
func Bool(b bool) *Value { return &Value{Kind: KindBool, Bool: b} }

// Int returns an integer scalar.
func Int(i int64) *Value { return &Value{Kind: KindInt, Int: i} }

// Float returns a float scalar.
func Float(f float64) *Value { return &Value{Kind: KindFloat, Float: f} }

// String returns a string scalar.
func String(s string) *Value { return &Value{Kind: KindString, Str: s} }

// Sequence returns a sequence holding items.
func Sequence(items ...*Value) *Value {
	return &Value{Kind: KindSequence, Items: items}
}

// Strings returns a sequence of string scalars.
func Strings(items ...string) *Value {
	seq := &Value{Kind: KindSequence, Items: make([]*Value, 0, len(items))}
	for _, s := range items {
		seq.Items = append(seq.Items, String(s))
	}
	return seq
}

// Mapping returns an empty mapping.
func Mapping() *Value { return &Value{Kind: KindMapping} }

// IsMapping reports whether v is a non-nil mapping.
func (v *Value) IsMapping() bool { return v != nil && v.Kind == KindMapping }

// IsSequence reports whether v is a non-nil sequence.
func (v *Value) IsSequence() bool { return v != nil && v.Kind == KindSequence }

// IsScalar reports whether v is a non-nil scalar (including null).
func (v *Value) IsScalar() bool {
	return v != nil && v.Kind != KindMapping && v.Kind != KindSequence
}

// IsNull reports whether v is absent or an explicit null.
func (v *Value) IsNull() bool { return v == nil || v.Kind == KindNull }

// Len returns the number of entries or items; scalars have length 0.
func (v *Value) Len() int {
	if v == nil {
		return 0
	}
	switch v.Kind {
	case KindMapping:
		return len(v.Entries)
	case KindSequence:
		return len(v.Items)
	}
	return 0
}

// Get returns the value stored under key in a mapping.
func (v *Value) Get(key string) (*Value, bool) {
	if !v.IsMapping() {
		return nil, false
	}
	for _, e := range v.Entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Has reports whether a mapping holds key.
func (v *Value) Has(key string) bool {
	_, ok := v.Get(key)
	return ok
}

// Set stores val under key, replacing an existing entry in place or
// appending a new one. Set panics when v is not a mapping.
func (v *Value) Set(key string, val *Value) {
	if !v.IsMapping() {
		panic("tree: Set on non-mapping value")
	}
	for i := range v.Entries {
		if v.Entries[i].Key == key {
			v.Entries[i].Value = val
			return
		}
	}
	v.Entries = append(v.Entries, Entry{Key: key, Value: val})
}

// Keys returns the mapping keys in order.
func (v *Value) Keys() []string {
	if !v.IsMapping() {
		return nil
	}
	keys := make([]string, len(v.Entries))
	for i, e := range v.Entries {
		keys[i] = e.Key
	}
	return keys
}

// ScalarString renders a scalar the way it would appear in a config file.
func (v *Value) ScalarString() string {
	if v == nil {
		return "null"
	}
	switch v.Kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case KindString:
		return v.Str
	}
	return fmt.Sprintf("<%s>", v.Kind)
}

// Clone returns a deep copy of v.
func (v *Value) Clone() *Value {
	if v == nil {
		return nil
	}
	c := *v
	if v.Items != nil {
		c.Items = make([]*Value, len(v.Items))
		for i, item := range v.Items {
			c.Items[i] = item.Clone()
		}
	}
	if v.Entries != nil {
		c.Entries = make([]Entry, len(v.Entries))
		for i, e := range v.Entries {
			c.Entries[i] = Entry{Key: e.Key, Value: e.Value.Clone()}
		}
	}
	return &c
}

// Location returns " (line N)" when the source line is known.
func (v *Value) Location() string {
	if v == nil || v.Line == 0 {
		return ""
	}
	return fmt.Sprintf(" (line %d)", v.Line)
}

// JoinKey appends key to a dotted key path.
func JoinKey(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

// JoinIndex appends a sequence index to a key path.
func JoinIndex(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}
