// Package policy builds the enterprise policy manifest (policies.json)
// from a configuration document.
package policy

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/firefly-engineering/browser-conf/internal/config"
	"github.com/firefly-engineering/browser-conf/internal/errors"
	"github.com/firefly-engineering/browser-conf/internal/system"
	"github.com/firefly-engineering/browser-conf/internal/tree"
)

// InstallationForced is the ExtensionSettings mode for required add-ons.
const InstallationForced = "force_installed"

// Document is the top-level policies.json object.
type Document struct {
	Policies Policies `json:"policies"`
}

// Policies holds the policy entries the tool manages. Empty entries are omitted.
type Policies struct {
	Extensions        *ExtensionsPolicy           `json:"Extensions,omitempty"`
	ExtensionSettings map[string]ExtensionSetting `json:"ExtensionSettings,omitempty"`
	Certificates      *CertificatesPolicy         `json:"Certificates,omitempty"`
	SearchEngines     *SearchEnginesPolicy        `json:"SearchEngines,omitempty"`
	Containers        *ContainersPolicy           `json:"Containers,omitempty"`
	ThirdParty        *ThirdPartyPolicy           `json:"3rdparty,omitempty"`
}

type ExtensionsPolicy struct {
	Install []string `json:"Install"`
}

type ExtensionSetting struct {
	InstallationMode string `json:"installation_mode"`
	InstallURL       string `json:"install_url"`
}

type CertificatesPolicy struct {
	Install []string `json:"Install"`
}

type SearchEnginesPolicy struct {
	Default string `json:"Default"`
}

type ContainersPolicy struct {
	Default []Container `json:"Default"`
}

type ThirdPartyPolicy struct {
	Extensions map[string]*tree.Value `json:"Extensions"`
}

// Builder assembles a policy Document.
type Builder struct {
	fs system.FileSystem
}

// NewBuilder returns a Builder that reads certificates through fsys.
func NewBuilder(fsys system.FileSystem) *Builder {
	if fsys == nil {
		fsys = system.DefaultFS()
	}
	return &Builder{fs: fsys}
}

// Build derives the policy document from doc. Each section contributes
// independently; the first failing section aborts the build.
func (b *Builder) Build(doc *config.Document) (*Document, error) {
	var p Policies

	install, settings := BuildExtensions(doc.Extensions)
	if len(install) > 0 {
		p.Extensions = &ExtensionsPolicy{Install: install}
	}
	if len(settings) > 0 {
		p.ExtensionSettings = settings
	}

	certs, err := FindCertificates(b.fs, doc.CertificatesPath(), doc.CertificatesDirSet)
	if err != nil {
		return nil, err
	}
	if len(certs) > 0 {
		p.Certificates = &CertificatesPolicy{Install: certs}
	}

	if doc.DefaultSearchEngine != "" {
		p.SearchEngines = &SearchEnginesPolicy{Default: doc.DefaultSearchEngine}
	}

	containers, err := BuildContainers(doc.Containers)
	if err != nil {
		return nil, err
	}
	if len(containers) > 0 {
		p.Containers = &ContainersPolicy{Default: containers}
	}

	third, err := buildThirdParty(doc.ExtensionSettings)
	if err != nil {
		return nil, err
	}
	if len(third) > 0 {
		p.ThirdParty = &ThirdPartyPolicy{Extensions: third}
	}

	return &Document{Policies: p}, nil
}

// BuildExtensions splits extension references into the install list and
// per-add-on forced installation settings. Every install URL is kept in
// order; for repeated identifiers the last entry's settings win.
func BuildExtensions(exts []config.Extension) ([]string, map[string]ExtensionSetting) {
	var install []string
	settings := make(map[string]ExtensionSetting)

	for _, e := range exts {
		u := e.URL
		if u == "" && e.ID != "" {
			u = AMOLatestURL(e.ID)
		}
		if u != "" {
			install = append(install, u)
		}
		if e.ID != "" {
			settings[e.ID] = ExtensionSetting{InstallationMode: InstallationForced, InstallURL: u}
		}
	}
	return install, settings
}

// AMOLatestURL returns the addons.mozilla.org download URL for the latest
// release of an add-on.
func AMOLatestURL(id string) string {
	return fmt.Sprintf("https://addons.mozilla.org/firefox/downloads/latest/%s/latest.xpi", url.PathEscape(id))
}

func buildThirdParty(settings *tree.Value) (map[string]*tree.Value, error) {
	if settings.IsNull() {
		return nil, nil
	}
	out := make(map[string]*tree.Value, settings.Len())
	for _, e := range settings.Entries {
		path := tree.JoinKey("extension_settings", e.Key)
		if !e.Value.IsMapping() {
			return nil, errors.ValidationError(path, "settings must be a mapping, got %s%s", e.Value.Kind, e.Value.Location())
		}
		if _, err := tree.MarshalJSON(e.Value); err != nil {
			return nil, errors.ValidationError(path, "settings cannot be encoded as JSON: %v", err)
		}
		out[e.Key] = e.Value
	}
	return out, nil
}

// Marshal renders the document as indented JSON with a trailing newline.
func (d *Document) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal policies: %w", err)
	}
	return append(data, '\n'), nil
}
