// Package prefs flattens nested preference trees into dotted preference
// keys and merges the unified and legacy preference sections.
package prefs

import (
	"sort"

	"github.com/firefly-engineering/browser-conf/internal/errors"
	"github.com/firefly-engineering/browser-conf/internal/tree"
)

// EnabledKey is the child key whose value is assigned to its parent
// preference when siblings are present.
const EnabledKey = "enabled"

// Set maps dotted preference keys to scalar values.
type Set struct {
	values map[string]*tree.Value
}

// NewSet returns an empty preference set.
func NewSet() *Set {
	return &Set{values: make(map[string]*tree.Value)}
}

// Put stores a value, replacing any previous value for key. It reports
// whether a previous value was replaced.
func (s *Set) Put(key string, v *tree.Value) bool {
	_, existed := s.values[key]
	s.values[key] = v
	return existed
}

// Get returns the value stored for key.
func (s *Set) Get(key string) (*tree.Value, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Len returns the number of preferences.
func (s *Set) Len() int { return len(s.values) }

// Keys returns the preference keys in sorted order.
func (s *Set) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Overlay copies every entry of o into s, with o winning on collision.
// It returns the keys of s that were overridden, sorted.
func (s *Set) Overlay(o *Set) []string {
	var overridden []string
	for _, k := range o.Keys() {
		if s.Put(k, o.values[k]) {
			overridden = append(overridden, k)
		}
	}
	return overridden
}

// Flatten joins nested mapping keys with "." down to the leaves. Leaves
// must be booleans, integers or strings.
//
// A mapping that holds "enabled" alongside other keys assigns the
// "enabled" value to its own key and flattens the remaining keys beneath
// it. A mapping whose only key is "enabled" nests normally.
func Flatten(m *tree.Value) (*Set, error) {
	return flattenSection(m, "", "")
}

// flattenSection flattens m with every key placed under prefix. Error
// paths start at section so they point back into the document.
func flattenSection(m *tree.Value, section, prefix string) (*Set, error) {
	out := NewSet()
	if m.IsNull() {
		return out, nil
	}
	if !m.IsMapping() {
		return nil, errors.ValidationError(section, "preferences must be a mapping, got %s%s", m.Kind, m.Location())
	}
	if err := flattenInto(out, m, section, prefix); err != nil {
		return nil, err
	}
	return out, nil
}

func flattenInto(out *Set, m *tree.Value, path, prefix string) error {
	for _, e := range m.Entries {
		key := tree.JoinKey(prefix, e.Key)
		at := tree.JoinKey(path, e.Key)
		v := e.Value

		if !v.IsMapping() {
			if err := putLeaf(out, at, key, v); err != nil {
				return err
			}
			continue
		}

		enabled, hasEnabled := v.Get(EnabledKey)
		if !hasEnabled || v.Len() == 1 {
			if err := flattenInto(out, v, at, key); err != nil {
				return err
			}
			continue
		}

		if err := putLeaf(out, at, key, enabled); err != nil {
			return err
		}
		rest := tree.Mapping()
		for _, child := range v.Entries {
			if child.Key != EnabledKey {
				rest.Entries = append(rest.Entries, child)
			}
		}
		if err := flattenInto(out, rest, at, key); err != nil {
			return err
		}
	}
	return nil
}

func putLeaf(out *Set, path, key string, v *tree.Value) error {
	if err := CheckLeaf(v); err != nil {
		return errors.ValidationError(path, "%v%s", err, v.Location())
	}
	out.Put(key, v)
	return nil
}

// leafError describes an unsupported preference value.
type leafError struct{ kind tree.Kind }

func (e leafError) Error() string {
	return "preference value must be a boolean, integer or string, got " + e.kind.String()
}

// CheckLeaf reports whether v can be written as a preference value.
func CheckLeaf(v *tree.Value) error {
	if v == nil {
		return leafError{tree.KindNull}
	}
	switch v.Kind {
	case tree.KindBool, tree.KindInt, tree.KindString:
		return nil
	}
	return leafError{v.Kind}
}
