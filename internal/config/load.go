package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/firefly-engineering/browser-conf/internal/errors"
	"github.com/firefly-engineering/browser-conf/internal/tree"
)

// Format is the syntax of a configuration document.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// FormatFor picks the document syntax from a file extension. Unknown
// extensions are read as YAML.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	case ".json", ".jsonc":
		return FormatJSON
	default:
		return FormatYAML
	}
}

// ParseTree parses data in the given syntax into a configuration tree.
func ParseTree(data []byte, format Format) (*tree.Value, error) {
	switch format {
	case FormatTOML:
		return tree.FromTOML(data)
	case FormatJSON:
		return tree.FromJSON(data)
	default:
		return tree.FromYAML(data)
	}
}

// Parse decodes a document. Relative paths in the document resolve
// against baseDir.
func Parse(data []byte, format Format, baseDir string) (*Document, error) {
	root, err := ParseTree(data, format)
	if err != nil {
		return nil, err
	}
	doc, err := Decode(root)
	if err != nil {
		return nil, err
	}
	doc.BaseDir = baseDir
	return doc, nil
}

// Load reads and decodes the configuration document at path.
func Load(path string) (*Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.ConfigError("failed to resolve configuration path", err)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, errors.ConfigError("failed to read configuration "+path, err)
	}

	doc, err := Parse(data, FormatFor(abs), filepath.Dir(abs))
	if err != nil {
		return nil, err
	}
	doc.Source = abs
	return doc, nil
}

// ResolvePath makes p absolute relative to the document's base directory,
// expanding a leading "~/".
func (d *Document) ResolvePath(p string) string {
	p = ExpandHome(p)
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	base := d.BaseDir
	if base == "" {
		base = "."
	}
	abs, err := filepath.Abs(filepath.Join(base, p))
	if err != nil {
		return filepath.Join(base, p)
	}
	return abs
}

// CertificatesPath returns the absolute certificate directory.
func (d *Document) CertificatesPath() string {
	return d.ResolvePath(d.CertificatesDir)
}
