// Package toolbar converts the toolbar section of a configuration document
// to and from the browser's browser.uiCustomization.state preference.
package toolbar

import (
	"github.com/firefly-engineering/browser-conf/internal/errors"
	"github.com/firefly-engineering/browser-conf/internal/tree"
)

// PrefKey is the preference holding the serialized toolbar layout.
const PrefKey = "browser.uiCustomization.state"

const section = "toolbar"

// Area is one toolbar area and its widgets, in display order.
type Area struct {
	Name    string
	Widgets []string
}

// State is the typed view of a toolbar layout. Tree keeps the complete
// mapping, including keys State does not model, in source order.
type State struct {
	Placements     []Area
	Seen           []string
	CurrentVersion int64
	HasVersion     bool

	Tree *tree.Value
}

// Area returns the widgets placed in the named area.
func (s *State) Area(name string) ([]string, bool) {
	for _, a := range s.Placements {
		if a.Name == name {
			return a.Widgets, true
		}
	}
	return nil, false
}

// Parse validates a toolbar mapping and returns its typed view.
func Parse(m *tree.Value) (*State, error) {
	if !m.IsMapping() {
		return nil, errors.ValidationError(section, "must be a mapping, got %s%s", kindOf(m), m.Location())
	}

	st := &State{Tree: m}

	placements, ok := m.Get("placements")
	if !ok || placements.IsNull() {
		return nil, errors.ValidationError(tree.JoinKey(section, "placements"), "is required")
	}
	if !placements.IsMapping() {
		return nil, errors.ValidationError(tree.JoinKey(section, "placements"), "must be a mapping of area to widget list, got %s%s", placements.Kind, placements.Location())
	}
	for _, e := range placements.Entries {
		path := tree.JoinKey(tree.JoinKey(section, "placements"), e.Key)
		widgets, err := stringList(e.Value, path)
		if err != nil {
			return nil, err
		}
		st.Placements = append(st.Placements, Area{Name: e.Key, Widgets: widgets})
	}

	if seen, ok := m.Get("seen"); ok {
		list, err := stringList(seen, tree.JoinKey(section, "seen"))
		if err != nil {
			return nil, err
		}
		st.Seen = list
	}

	if ver, ok := m.Get("currentVersion"); ok {
		if ver.Kind != tree.KindInt {
			return nil, errors.ValidationError(tree.JoinKey(section, "currentVersion"), "must be an integer, got %s%s", ver.Kind, ver.Location())
		}
		st.CurrentVersion = ver.Int
		st.HasVersion = true
	}

	return st, nil
}

// Encode validates a toolbar mapping and serializes it as compact JSON,
// keeping the nested shape and key order of the source.
func Encode(m *tree.Value) (string, error) {
	if _, err := Parse(m); err != nil {
		return "", err
	}
	data, err := tree.MarshalJSON(m)
	if err != nil {
		return "", errors.ValidationError(section, "cannot encode: %v", err)
	}
	return string(data), nil
}

// Decode parses a browser.uiCustomization.state value.
func Decode(s string) (*State, error) {
	v, err := tree.FromJSON([]byte(s))
	if err != nil {
		return nil, err
	}
	return Parse(v)
}

func stringList(v *tree.Value, path string) ([]string, error) {
	if !v.IsSequence() {
		return nil, errors.ValidationError(path, "must be a list of widget ids, got %s%s", kindOf(v), v.Location())
	}
	out := make([]string, 0, v.Len())
	for i, item := range v.Items {
		if item.Kind != tree.KindString {
			return nil, errors.ValidationError(tree.JoinIndex(path, i), "widget id must be a string, got %s%s", item.Kind, item.Location())
		}
		out = append(out, item.Str)
	}
	return out, nil
}

func kindOf(v *tree.Value) tree.Kind {
	if v == nil {
		return tree.KindNull
	}
	return v.Kind
}
