package apply

import (
	"fmt"

	"github.com/firefly-engineering/browser-conf/internal/config"
	"github.com/firefly-engineering/browser-conf/internal/generator"
	"github.com/firefly-engineering/browser-conf/internal/logging"
	"github.com/firefly-engineering/browser-conf/internal/policy"
	"github.com/firefly-engineering/browser-conf/internal/prefs"
	"github.com/firefly-engineering/browser-conf/internal/system"
	"github.com/firefly-engineering/browser-conf/internal/toolbar"
	"github.com/firefly-engineering/browser-conf/internal/tree"
)

// Compiled holds the outputs derived from a document before anything is
// written.
type Compiled struct {
	Prefs    *prefs.Set
	UserJS   []byte
	Policy   *policy.Document
	Policies []byte
	Warnings []string
}

// Compile validates doc and renders user.js and policies.json. Nothing is
// written; certificates are looked up through fsys.
func Compile(fsys system.FileSystem, doc *config.Document) (*Compiled, error) {
	res := &Result{}
	c, err := compile(fsys, doc, res)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// compile runs the Validated, Flattened and PoliciesBuilt steps.
func compile(fsys system.FileSystem, doc *config.Document, res *Result) (*Compiled, error) {
	c := &Compiled{}

	if err := validate(doc, c); err != nil {
		return nil, err
	}
	res.advance(StateValidated)

	set, err := prefs.Merge(prefs.Sections{
		Config:         doc.Config,
		Preferences:    doc.Preferences,
		ZenPreferences: doc.ZenPreferences,
		Zen:            doc.Zen,
	})
	if err != nil {
		return nil, err
	}
	if doc.Toolbar != nil {
		state, err := toolbar.Encode(doc.Toolbar)
		if err != nil {
			return nil, err
		}
		if set.Put(toolbar.PrefKey, tree.String(state)) {
			c.warn("toolbar section overrides %s from config", toolbar.PrefKey)
		}
	}
	c.Prefs = set
	if c.UserJS, err = generator.UserJS(set); err != nil {
		return nil, err
	}
	res.advance(StateFlattened)

	if c.Policy, err = policy.NewBuilder(fsys).Build(doc); err != nil {
		return nil, err
	}
	if c.Policies, err = generator.Policies(c.Policy); err != nil {
		return nil, err
	}
	res.advance(StatePoliciesBuilt)

	return c, nil
}

// validate checks the sections that are only decoded loosely by the
// loader and records non-fatal findings as warnings.
func validate(doc *config.Document, c *Compiled) error {
	for _, k := range doc.Unknown {
		c.warn("unknown top-level key %q ignored", k)
	}

	if doc.Toolbar != nil {
		if _, err := toolbar.Parse(doc.Toolbar); err != nil {
			return err
		}
	}

	containers, err := policy.BuildContainers(doc.Containers)
	if err != nil {
		return err
	}
	names := make(map[string]bool, len(containers))
	for _, ct := range containers {
		names[ct.Name] = true
	}
	for _, ws := range doc.Workspaces {
		if ws.DefaultContainer != "" && !names[ws.DefaultContainer] {
			c.warn("workspace %q uses container %q, which is not defined under containers", ws.Name, ws.DefaultContainer)
		}
	}
	return nil
}

func (c *Compiled) warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	logging.Debug("warning recorded", "warning", msg)
	c.Warnings = append(c.Warnings, msg)
}
