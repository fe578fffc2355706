// Package testutil provides test fixtures and utilities.
//
// This package contains embedded configuration fixtures and a test
// environment for running commands against a temporary profiles root.
//
// # Fixtures
//
// Fixtures are embedded using go:embed:
//
//	fixtures/full.yaml      every document section
//	fixtures/legacy.yaml    legacy preferences, zen and zen_preferences
//	fixtures/invalid.yaml   fails validation
//	fixtures/catalog.json   a small mods catalog
//
// # Loading Fixtures
//
//	doc, err := testutil.FullDocument()
//	doc, err := testutil.LegacyDocument()
//	catalog, err := testutil.Catalog()
//	data, err := testutil.LoadFixture("invalid.yaml")
//
// # Test Environment
//
// NewTestEnv installs an app.App as app.Default whose host records calls
// instead of launching a browser:
//
//	env := testutil.NewTestEnv(t)
//	cfg := env.WriteFixture("full.yaml")
//	// run a command against cfg, then inspect env.ReadFile(env.PolicyPath())
package testutil
