package prefs

import (
	"github.com/firefly-engineering/browser-conf/internal/logging"
	"github.com/firefly-engineering/browser-conf/internal/tree"
)

// ZenNamespace prefixes keys from the legacy zen and zen_preferences sections.
const ZenNamespace = "zen"

// Sections holds the preference sections of a document. Any of them may be nil.
type Sections struct {
	Config         *tree.Value
	Preferences    *tree.Value
	ZenPreferences *tree.Value
	Zen            *tree.Value
}

// Merge builds the effective preference set. Legacy sections are applied
// first (preferences, then zen_preferences and zen under "zen."), and the
// unified config section is overlaid on top at the dotted-key level.
func Merge(s Sections) (*Set, error) {
	out := NewSet()

	layers := []struct {
		section string
		prefix  string
		value   *tree.Value
	}{
		{"preferences", "", s.Preferences},
		{"zen_preferences", ZenNamespace, s.ZenPreferences},
		{"zen", ZenNamespace, s.Zen},
	}
	for _, l := range layers {
		flat, err := flattenSection(l.value, l.section, l.prefix)
		if err != nil {
			return nil, err
		}
		out.Overlay(flat)
	}

	unified, err := flattenSection(s.Config, "config", "")
	if err != nil {
		return nil, err
	}
	for _, key := range out.Overlay(unified) {
		logging.Debug("config overrides legacy preference", "key", key)
	}

	return out, nil
}
