package generator

import (
	"github.com/firefly-engineering/browser-conf/internal/errors"
	"github.com/firefly-engineering/browser-conf/internal/policy"
)

// Policies renders the policy manifest as indented JSON with a trailing
// newline.
func Policies(doc *policy.Document) ([]byte, error) {
	data, err := doc.Marshal()
	if err != nil {
		return nil, errors.Wrap(errors.ExitValidationError, "failed to render policies.json", err)
	}
	return data, nil
}
