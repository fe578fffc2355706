package mods

import "github.com/firefly-engineering/browser-conf/internal/tree"

// ReferencesYAML renders mods as a zen_mods block for a configuration
// document. Each entry carries both id and name so it stays readable and
// resolves even if the mod is renamed.
func ReferencesYAML(selected []Mod) ([]byte, error) {
	list := tree.Sequence()
	for _, m := range selected {
		entry := tree.Mapping()
		entry.Set("id", tree.String(m.ID))
		if m.Name != "" {
			entry.Set("name", tree.String(m.Name))
		}
		list.Items = append(list.Items, entry)
	}
	root := tree.Mapping()
	root.Set("zen_mods", list)
	return tree.MarshalYAML(root)
}
