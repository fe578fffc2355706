// Package mods looks up Zen mods in the theme store catalog and resolves
// the references listed in a configuration document.
package mods

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/firefly-engineering/browser-conf/internal/config"
)

// Resolved pairs a reference with the catalog entry it matched.
type Resolved struct {
	Ref config.ModRef
	Mod Mod
}

// Warning reports a reference that did not resolve to exactly one mod.
type Warning struct {
	Ref     string
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("mod %q: %s", w.Ref, w.Message)
}

// Resolve matches each reference against the catalog. References that
// match nothing, or more than one entry, produce a Warning instead.
func Resolve(c *Catalog, refs []config.ModRef) ([]Resolved, []Warning) {
	var resolved []Resolved
	var warnings []Warning

	for _, ref := range refs {
		m, err := c.resolve(ref)
		if err != nil {
			warnings = append(warnings, Warning{Ref: ref.String(), Message: err.Error()})
			continue
		}
		resolved = append(resolved, Resolved{Ref: ref, Mod: m})
	}
	return resolved, warnings
}

func (c *Catalog) resolve(ref config.ModRef) (Mod, error) {
	if ref.Ref != "" {
		if id, ok := parseID(ref.Ref); ok {
			if m, found := c.byID(id); found {
				return m, nil
			}
			return Mod{}, fmt.Errorf("no mod with this id in the catalog")
		}
		// catalog keys need not be UUIDs
		if m, found := c.byID(ref.Ref); found {
			return m, nil
		}
		return c.byName(ref.Ref)
	}

	if ref.ID != "" {
		id := ref.ID
		if parsed, ok := parseID(ref.ID); ok {
			id = parsed
		}
		if m, found := c.byID(id); found {
			return m, nil
		}
		if ref.Name == "" {
			return Mod{}, fmt.Errorf("no mod with this id in the catalog")
		}
	}
	return c.byName(ref.Name)
}

// parseID returns the canonical lowercase form of a UUID reference.
func parseID(s string) (string, bool) {
	u, err := uuid.Parse(s)
	if err != nil {
		return "", false
	}
	return u.String(), true
}

func (c *Catalog) byID(id string) (Mod, bool) {
	if m, ok := c.mods[id]; ok {
		return m, true
	}
	for key, m := range c.mods {
		if strings.EqualFold(key, id) {
			return m, true
		}
	}
	return Mod{}, false
}

// byName matches case-insensitively. When several entries match, a single
// exact case-sensitive match wins.
func (c *Catalog) byName(name string) (Mod, error) {
	var folded []Mod
	for _, m := range c.All() {
		if strings.EqualFold(m.Name, name) {
			folded = append(folded, m)
		}
	}

	switch len(folded) {
	case 0:
		return Mod{}, fmt.Errorf("not found in the catalog")
	case 1:
		return folded[0], nil
	}

	var exact []Mod
	for _, m := range folded {
		if m.Name == name {
			exact = append(exact, m)
		}
	}
	if len(exact) == 1 {
		return exact[0], nil
	}

	ids := make([]string, len(folded))
	for i, m := range folded {
		ids[i] = m.ID
	}
	return Mod{}, fmt.Errorf("ambiguous name matches %d mods (%s); use the id instead", len(folded), strings.Join(ids, ", "))
}
