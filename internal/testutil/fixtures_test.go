package testutil

import (
	"testing"

	"github.com/firefly-engineering/browser-conf/internal/errors"
	"github.com/firefly-engineering/browser-conf/internal/mods"
)

func TestFullDocument(t *testing.T) {
	doc, err := FullDocument()
	if err != nil {
		t.Fatalf("FullDocument() error: %v", err)
	}

	if doc.Profile.Name != "work" {
		t.Errorf("Profile.Name = %q, want %q", doc.Profile.Name, "work")
	}
	if len(doc.Extensions) != 3 {
		t.Errorf("Extensions = %d, want 3", len(doc.Extensions))
	}
	if len(doc.Mods) != 3 || len(doc.Containers) != 3 || len(doc.Workspaces) != 2 {
		t.Errorf("mods = %d, containers = %d, workspaces = %d", len(doc.Mods), len(doc.Containers), len(doc.Workspaces))
	}
	if doc.SearchEngines[1].Name != "np" {
		t.Errorf("search engine name should default to its keyword, got %q", doc.SearchEngines[1].Name)
	}
	if doc.Toolbar == nil || doc.Config == nil || doc.ExtensionSettings == nil {
		t.Error("toolbar, config and extension_settings should be set")
	}
	if len(doc.Unknown) != 0 {
		t.Errorf("Unknown = %v", doc.Unknown)
	}
	if doc.BaseDir != FixtureBaseDir {
		t.Errorf("BaseDir = %q", doc.BaseDir)
	}
}

func TestLegacyDocument(t *testing.T) {
	doc, err := LegacyDocument()
	if err != nil {
		t.Fatalf("LegacyDocument() error: %v", err)
	}
	if doc.Config != nil {
		t.Error("legacy fixture should not have a config section")
	}
	if doc.Preferences == nil || doc.Zen == nil || doc.ZenPreferences == nil {
		t.Error("legacy sections should all be set")
	}
}

func TestInvalidDocument(t *testing.T) {
	data, err := InvalidDocument()
	if err != nil {
		t.Fatalf("InvalidDocument() error: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("fixture is empty")
	}
	// decoding succeeds; the float leaf and duplicate container fail later
	if _, err := LoadDocumentFixture("invalid.yaml"); errors.IsKind(err, errors.KindConfig) {
		t.Errorf("invalid.yaml should parse as YAML: %v", err)
	}
}

func TestCatalog(t *testing.T) {
	c, err := Catalog()
	if err != nil {
		t.Fatalf("Catalog() error: %v", err)
	}
	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}

	doc, _ := FullDocument()
	resolved, warnings := mods.Resolve(c, doc.Mods)
	if len(resolved) != 2 || len(warnings) != 1 {
		t.Errorf("resolved = %d, warnings = %d", len(resolved), len(warnings))
	}
}

func TestLoadFixture_Missing(t *testing.T) {
	if _, err := LoadFixture("nope.yaml"); err == nil {
		t.Error("LoadFixture() should fail for a missing fixture")
	}
}
