package testutil

import (
	"embed"

	"github.com/firefly-engineering/browser-conf/internal/config"
	"github.com/firefly-engineering/browser-conf/internal/mods"
)

//go:embed fixtures/*.yaml fixtures/*.json
var fixturesFS embed.FS

// FixtureBaseDir is the directory fixture documents resolve relative paths against.
const FixtureBaseDir = "/fixtures"

// LoadFixture loads a fixture file by name.
func LoadFixture(name string) ([]byte, error) {
	return fixturesFS.ReadFile("fixtures/" + name)
}

// LoadDocumentFixture parses a configuration document fixture.
func LoadDocumentFixture(name string) (*config.Document, error) {
	data, err := LoadFixture(name)
	if err != nil {
		return nil, err
	}
	return config.Parse(data, config.FormatFor(name), FixtureBaseDir)
}

// FullDocument returns the fixture that sets every document section.
func FullDocument() (*config.Document, error) {
	return LoadDocumentFixture("full.yaml")
}

// LegacyDocument returns the fixture using the legacy preference sections.
func LegacyDocument() (*config.Document, error) {
	return LoadDocumentFixture("legacy.yaml")
}

// InvalidDocument returns raw bytes of a document that fails validation.
func InvalidDocument() ([]byte, error) {
	return LoadFixture("invalid.yaml")
}

// Catalog returns the mods catalog fixture.
func Catalog() (*mods.Catalog, error) {
	data, err := LoadFixture("catalog.json")
	if err != nil {
		return nil, err
	}
	return mods.ParseCatalog(data)
}
