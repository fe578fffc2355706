package policy

import (
	"sort"
	"strings"

	"github.com/firefly-engineering/browser-conf/internal/config"
	"github.com/firefly-engineering/browser-conf/internal/errors"
	"github.com/firefly-engineering/browser-conf/internal/tree"
)

const (
	DefaultContainerColor = "blue"
	DefaultContainerIcon  = "fingerprint"
)

var containerColors = map[string]bool{
	"blue": true, "turquoise": true, "green": true, "yellow": true, "orange": true,
	"red": true, "pink": true, "purple": true, "toolbar": true,
}

var containerIcons = map[string]bool{
	"fingerprint": true, "briefcase": true, "dollar": true, "cart": true, "circle": true,
	"gift": true, "vacation": true, "food": true, "fruit": true, "pet": true,
	"tree": true, "chill": true, "fence": true,
}

// Container is one entry of the Containers policy.
type Container struct {
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// BuildContainers validates container definitions and applies default
// colors and icons. Names must be unique.
func BuildContainers(defs []config.Container) ([]Container, error) {
	out := make([]Container, 0, len(defs))
	seen := make(map[string]int, len(defs))

	for i, d := range defs {
		path := tree.JoinIndex("containers", i)
		if strings.TrimSpace(d.Name) == "" {
			return nil, errors.ValidationError(tree.JoinKey(path, "name"), "container name is required")
		}
		if first, dup := seen[d.Name]; dup {
			return nil, errors.ValidationError(tree.JoinKey(path, "name"), "duplicate container name %q (first defined at %s)", d.Name, tree.JoinIndex("containers", first))
		}
		seen[d.Name] = i

		c := Container{Name: d.Name, Color: d.Color, Icon: d.Icon}
		if c.Color == "" {
			c.Color = DefaultContainerColor
		}
		if c.Icon == "" {
			c.Icon = DefaultContainerIcon
		}
		if !containerColors[c.Color] {
			return nil, errors.ValidationError(tree.JoinKey(path, "color"), "unknown color %q (valid: %s)", c.Color, validList(containerColors))
		}
		if !containerIcons[c.Icon] {
			return nil, errors.ValidationError(tree.JoinKey(path, "icon"), "unknown icon %q (valid: %s)", c.Icon, validList(containerIcons))
		}
		out = append(out, c)
	}
	return out, nil
}

func validList(set map[string]bool) string {
	names := make([]string, 0, len(set))
	for k := range set {
		names = append(names, k)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
