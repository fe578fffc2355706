package config

import (
	"sort"
	"strings"

	"github.com/firefly-engineering/browser-conf/internal/errors"
	"github.com/firefly-engineering/browser-conf/internal/tree"
)

// Document is a parsed browser configuration document.
type Document struct {
	// Source is the file the document was loaded from, if any.
	Source string
	// BaseDir is the directory relative paths in the document resolve against.
	BaseDir string

	Profile    Profile
	Extensions []Extension

	// Config is the unified preference tree. Preferences, Zen and
	// ZenPreferences are the legacy sections it supersedes.
	Config         *tree.Value
	Preferences    *tree.Value
	Zen            *tree.Value
	ZenPreferences *tree.Value

	Toolbar *tree.Value
	Mods    []ModRef

	CertificatesDir     string
	CertificatesDirSet  bool
	DefaultSearchEngine string
	SearchEngines       []SearchEngine
	Containers          []Container
	ExtensionSettings   *tree.Value
	Workspaces          []Workspace
	ModsCatalog         string

	// Unknown lists top-level keys the loader does not recognise.
	Unknown []string
}

// Profile selects the browser profile and installation to configure.
type Profile struct {
	Name           string
	InstallPath    string
	Root           string
	BrowserCommand string
}

// Extension is either a direct install URL or an add-on identifier with
// an optional explicit URL.
type Extension struct {
	ID  string
	URL string
}

// ModRef references a catalog mod by UUID or display name.
type ModRef struct {
	Ref  string
	ID   string
	Name string
}

// String returns the reference as the user wrote it.
func (r ModRef) String() string {
	switch {
	case r.Ref != "":
		return r.Ref
	case r.ID != "" && r.Name != "":
		return r.Name + " (" + r.ID + ")"
	case r.ID != "":
		return r.ID
	}
	return r.Name
}

// SearchEngine is a keyword search shortcut.
type SearchEngine struct {
	Name    string
	Keyword string
	URL     string
}

// Container is a contextual identity definition. Empty Color and Icon
// take the builder's defaults.
type Container struct {
	Name  string
	Color string
	Icon  string
}

// Workspace is a Zen workspace, documented in the setup guide.
type Workspace struct {
	Name             string
	Icon             string
	DefaultContainer string
	Essentials       []string
}

var knownKeys = map[string]bool{
	"profile":               true,
	"extensions":            true,
	"config":                true,
	"preferences":           true,
	"zen":                   true,
	"zen_preferences":       true,
	"toolbar":               true,
	"zen_mods":              true,
	"certificates_dir":      true,
	"default_search_engine": true,
	"search_engines":        true,
	"containers":            true,
	"extension_settings":    true,
	"workspaces":            true,
	"mods_catalog":          true,
}

// Decode converts a configuration tree into a Document. Errors name the
// offending key path.
func Decode(root *tree.Value) (*Document, error) {
	if root.IsNull() {
		root = tree.Mapping()
	}
	if !root.IsMapping() {
		return nil, errors.ValidationError("", "document must be a mapping, got %s", root.Kind)
	}

	doc := &Document{
		Profile: Profile{
			Name:           DefaultProfileName,
			InstallPath:    DefaultInstallPath,
			BrowserCommand: DefaultBrowserCommand,
		},
		CertificatesDir: DefaultCertificateDir,
	}

	for _, e := range root.Entries {
		if !knownKeys[e.Key] {
			doc.Unknown = append(doc.Unknown, e.Key)
		}
	}
	sort.Strings(doc.Unknown)

	if v, ok := root.Get("profile"); ok && !v.IsNull() {
		if err := decodeProfile(v, &doc.Profile); err != nil {
			return nil, err
		}
	}

	var err error
	if doc.Extensions, err = decodeExtensions(root); err != nil {
		return nil, err
	}

	for _, sec := range []struct {
		key string
		dst **tree.Value
	}{
		{"config", &doc.Config},
		{"preferences", &doc.Preferences},
		{"zen", &doc.Zen},
		{"zen_preferences", &doc.ZenPreferences},
		{"toolbar", &doc.Toolbar},
		{"extension_settings", &doc.ExtensionSettings},
	} {
		if *sec.dst, err = optionalMapping(root, sec.key); err != nil {
			return nil, err
		}
	}

	if doc.Mods, err = decodeMods(root); err != nil {
		return nil, err
	}

	if v, ok := root.Get("certificates_dir"); ok && !v.IsNull() {
		s, err := scalarString(v, "certificates_dir")
		if err != nil {
			return nil, err
		}
		doc.CertificatesDir = s
		doc.CertificatesDirSet = true
	}
	if doc.DefaultSearchEngine, err = optionalString(root, "default_search_engine"); err != nil {
		return nil, err
	}
	if doc.ModsCatalog, err = optionalString(root, "mods_catalog"); err != nil {
		return nil, err
	}
	if doc.SearchEngines, err = decodeSearchEngines(root); err != nil {
		return nil, err
	}
	if doc.Containers, err = decodeContainers(root); err != nil {
		return nil, err
	}
	if doc.Workspaces, err = decodeWorkspaces(root); err != nil {
		return nil, err
	}

	return doc, nil
}

func decodeProfile(v *tree.Value, p *Profile) error {
	if !v.IsMapping() {
		return errors.ValidationError("profile", "must be a mapping, got %s%s", v.Kind, v.Location())
	}
	fields := []struct {
		key string
		dst *string
	}{
		{"name", &p.Name},
		{"install_path", &p.InstallPath},
		{"root", &p.Root},
		{"browser_command", &p.BrowserCommand},
	}
	for _, f := range fields {
		fv, ok := v.Get(f.key)
		if !ok || fv.IsNull() {
			continue
		}
		s, err := scalarString(fv, tree.JoinKey("profile", f.key))
		if err != nil {
			return err
		}
		if s != "" {
			*f.dst = s
		}
	}
	return nil
}

func decodeExtensions(root *tree.Value) ([]Extension, error) {
	v, ok := root.Get("extensions")
	if !ok || v.IsNull() {
		return nil, nil
	}

	var out []Extension
	switch v.Kind {
	case tree.KindMapping:
		// Legacy shape: extension id -> install URL.
		for _, e := range v.Entries {
			url, err := scalarString(e.Value, tree.JoinKey("extensions", e.Key))
			if err != nil {
				return nil, err
			}
			out = append(out, Extension{ID: e.Key, URL: url})
		}
	case tree.KindSequence:
		for i, item := range v.Items {
			path := tree.JoinIndex("extensions", i)
			switch {
			case item.IsMapping():
				var ext Extension
				var err error
				if ext.ID, err = stringField(item, "id"); err != nil {
					return nil, prefixed(err, path)
				}
				if ext.URL, err = stringField(item, "url"); err != nil {
					return nil, prefixed(err, path)
				}
				if ext.ID == "" && ext.URL == "" {
					return nil, errors.ValidationError(path, "extension needs an id or a url%s", item.Location())
				}
				out = append(out, ext)
			case item.Kind == tree.KindString:
				if item.Str == "" {
					return nil, errors.ValidationError(path, "extension reference cannot be empty%s", item.Location())
				}
				if IsURL(item.Str) {
					out = append(out, Extension{URL: item.Str})
				} else {
					out = append(out, Extension{ID: item.Str})
				}
			default:
				return nil, errors.ValidationError(path, "expected string or mapping, got %s%s", item.Kind, item.Location())
			}
		}
	default:
		return nil, errors.ValidationError("extensions", "must be a sequence or mapping, got %s%s", v.Kind, v.Location())
	}
	return out, nil
}

func decodeMods(root *tree.Value) ([]ModRef, error) {
	v, ok := root.Get("zen_mods")
	if !ok || v.IsNull() {
		return nil, nil
	}
	if !v.IsSequence() {
		return nil, errors.ValidationError("zen_mods", "must be a sequence, got %s%s", v.Kind, v.Location())
	}

	out := make([]ModRef, 0, v.Len())
	for i, item := range v.Items {
		path := tree.JoinIndex("zen_mods", i)
		switch {
		case item.IsMapping():
			var ref ModRef
			var err error
			if ref.ID, err = stringField(item, "id"); err != nil {
				return nil, prefixed(err, path)
			}
			if ref.Name, err = stringField(item, "name"); err != nil {
				return nil, prefixed(err, path)
			}
			if ref.ID == "" && ref.Name == "" {
				return nil, errors.ValidationError(path, "mod reference needs an id or a name%s", item.Location())
			}
			out = append(out, ref)
		case item.Kind == tree.KindString && item.Str != "":
			out = append(out, ModRef{Ref: item.Str})
		default:
			return nil, errors.ValidationError(path, "expected non-empty string or mapping, got %s%s", item.Kind, item.Location())
		}
	}
	return out, nil
}

func decodeSearchEngines(root *tree.Value) ([]SearchEngine, error) {
	items, err := mappingList(root, "search_engines")
	if err != nil {
		return nil, err
	}
	out := make([]SearchEngine, 0, len(items))
	for i, item := range items {
		path := tree.JoinIndex("search_engines", i)
		var se SearchEngine
		if se.Name, err = stringField(item, "name"); err != nil {
			return nil, prefixed(err, path)
		}
		if se.Keyword, err = stringField(item, "keyword"); err != nil {
			return nil, prefixed(err, path)
		}
		if se.URL, err = stringField(item, "url"); err != nil {
			return nil, prefixed(err, path)
		}
		if se.Name == "" {
			se.Name = se.Keyword
		}
		if se.Name == "" || se.URL == "" {
			return nil, errors.ValidationError(path, "search engine needs a url and a name or keyword%s", item.Location())
		}
		out = append(out, se)
	}
	return out, nil
}

func decodeContainers(root *tree.Value) ([]Container, error) {
	items, err := mappingList(root, "containers")
	if err != nil {
		return nil, err
	}
	out := make([]Container, 0, len(items))
	for i, item := range items {
		path := tree.JoinIndex("containers", i)
		var c Container
		if c.Name, err = stringField(item, "name"); err != nil {
			return nil, prefixed(err, path)
		}
		if c.Color, err = stringField(item, "color"); err != nil {
			return nil, prefixed(err, path)
		}
		if c.Icon, err = stringField(item, "icon"); err != nil {
			return nil, prefixed(err, path)
		}
		out = append(out, c)
	}
	return out, nil
}

func decodeWorkspaces(root *tree.Value) ([]Workspace, error) {
	items, err := mappingList(root, "workspaces")
	if err != nil {
		return nil, err
	}
	out := make([]Workspace, 0, len(items))
	for i, item := range items {
		path := tree.JoinIndex("workspaces", i)
		var w Workspace
		if w.Name, err = stringField(item, "name"); err != nil {
			return nil, prefixed(err, path)
		}
		if w.Icon, err = stringField(item, "icon"); err != nil {
			return nil, prefixed(err, path)
		}
		if w.DefaultContainer, err = stringField(item, "default_container"); err != nil {
			return nil, prefixed(err, path)
		}
		if ess, ok := item.Get("essentials"); ok && !ess.IsNull() {
			if !ess.IsSequence() {
				return nil, errors.ValidationError(tree.JoinKey(path, "essentials"), "must be a sequence, got %s%s", ess.Kind, ess.Location())
			}
			for j, e := range ess.Items {
				s, err := scalarString(e, tree.JoinIndex(tree.JoinKey(path, "essentials"), j))
				if err != nil {
					return nil, err
				}
				w.Essentials = append(w.Essentials, s)
			}
		}
		out = append(out, w)
	}
	return out, nil
}

// mappingList returns the items of an optional sequence of mappings.
func mappingList(root *tree.Value, key string) ([]*tree.Value, error) {
	v, ok := root.Get(key)
	if !ok || v.IsNull() {
		return nil, nil
	}
	if !v.IsSequence() {
		return nil, errors.ValidationError(key, "must be a sequence, got %s%s", v.Kind, v.Location())
	}
	for i, item := range v.Items {
		if !item.IsMapping() {
			return nil, errors.ValidationError(tree.JoinIndex(key, i), "must be a mapping, got %s%s", item.Kind, item.Location())
		}
	}
	return v.Items, nil
}

func optionalMapping(root *tree.Value, key string) (*tree.Value, error) {
	v, ok := root.Get(key)
	if !ok || v.IsNull() {
		return nil, nil
	}
	if !v.IsMapping() {
		return nil, errors.ValidationError(key, "must be a mapping, got %s%s", v.Kind, v.Location())
	}
	return v, nil
}

func optionalString(root *tree.Value, key string) (string, error) {
	v, ok := root.Get(key)
	if !ok || v.IsNull() {
		return "", nil
	}
	return scalarString(v, key)
}

// stringField reads an optional string field of a mapping. The returned
// error path is relative to the mapping.
func stringField(m *tree.Value, key string) (string, error) {
	v, ok := m.Get(key)
	if !ok || v.IsNull() {
		return "", nil
	}
	return scalarString(v, key)
}

func scalarString(v *tree.Value, path string) (string, error) {
	if v.Kind != tree.KindString {
		return "", errors.ValidationError(path, "must be a string, got %s%s", v.Kind, v.Location())
	}
	return v.Str, nil
}

func prefixed(err error, prefix string) error {
	var e *errors.Error
	if errors.As(err, &e) && e.Kind == errors.KindValidation {
		c := *e
		c.Path = tree.JoinKey(prefix, e.Path)
		return &c
	}
	return err
}

// IsURL reports whether ref is an http, https or file URL.
func IsURL(ref string) bool {
	for _, scheme := range []string{"http://", "https://", "file://"} {
		if strings.HasPrefix(ref, scheme) {
			return true
		}
	}
	return false
}
