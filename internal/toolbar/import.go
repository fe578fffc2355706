package toolbar

import (
	"github.com/firefly-engineering/browser-conf/internal/errors"
	"github.com/firefly-engineering/browser-conf/internal/tree"
)

// ImportYAML converts a copied browser.uiCustomization.state value into a
// YAML "toolbar:" block ready to paste into a configuration document.
//
// The input may be the raw JSON object or that object quoted as a JSON
// string, as it appears in prefs.js. Comments and trailing commas are
// tolerated.
func ImportYAML(data []byte) ([]byte, error) {
	v, err := tree.FromJSON(data)
	if err != nil {
		return nil, err
	}
	if v.Kind == tree.KindString {
		if v, err = tree.FromJSON([]byte(v.Str)); err != nil {
			return nil, err
		}
	}
	if _, err := Parse(v); err != nil {
		return nil, err
	}

	doc := tree.Mapping()
	doc.Set(section, v)
	out, err := tree.MarshalYAML(doc)
	if err != nil {
		return nil, errors.Wrap(errors.ExitGeneralError, "failed to render toolbar", err)
	}
	return out, nil
}
