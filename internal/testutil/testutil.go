// Package testutil provides test utilities for integration tests
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/firefly-engineering/browser-conf/internal/app"
	"github.com/firefly-engineering/browser-conf/internal/config"
	"github.com/firefly-engineering/browser-conf/internal/mods"
	"github.com/firefly-engineering/browser-conf/internal/places"
	"github.com/firefly-engineering/browser-conf/internal/system"
)

// RecordingHost is a host.Host that records its calls instead of
// launching a browser or escalating privileges.
type RecordingHost struct {
	mu        sync.Mutex
	Opened    []string
	Installed map[string][]byte
	// InstallErr makes InstallPrivileged fail.
	InstallErr error
}

func (h *RecordingHost) OpenURL(_ context.Context, url string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Opened = append(h.Opened, url)
	return nil
}

func (h *RecordingHost) InstallPrivileged(_ context.Context, path string, data []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.InstallErr != nil {
		return h.InstallErr
	}
	if h.Installed == nil {
		h.Installed = make(map[string][]byte)
	}
	h.Installed[path] = data
	return nil
}

// StaticCatalog serves a fixed catalog, or Err when set.
type StaticCatalog struct {
	Catalog *mods.Catalog
	Err     error
}

func (s *StaticCatalog) Fetch(context.Context, string) (*mods.Catalog, error) {
	return s.Catalog, s.Err
}

// TestEnv holds the test environment
type TestEnv struct {
	T            *testing.T
	TmpDir       string
	Paths        *config.Paths
	ProfilesRoot string
	InstallDir   string
	ConfigDir    string
	Host         *RecordingHost
	Catalog      *StaticCatalog
	App          *app.App
	cleanup      func()
}

// NewTestEnv creates a test environment on the real filesystem under a
// temporary directory, with a recording host and the fixture catalog.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	tmpDir := t.TempDir()
	stateDir := filepath.Join(tmpDir, "state")
	paths := config.DefaultPaths().
		WithStateDir(stateDir).
		WithProfilesRoot(filepath.Join(tmpDir, "zen"))

	env := &TestEnv{
		T:            t,
		TmpDir:       tmpDir,
		Paths:        paths,
		ProfilesRoot: paths.ProfilesRoot,
		InstallDir:   filepath.Join(tmpDir, "install"),
		ConfigDir:    filepath.Join(tmpDir, "config"),
		Host:         &RecordingHost{},
	}

	for _, dir := range []string{env.ProfilesRoot, env.InstallDir, env.ConfigDir, stateDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}

	catalog, err := Catalog()
	if err != nil {
		t.Fatalf("Failed to load catalog fixture: %v", err)
	}
	env.Catalog = &StaticCatalog{Catalog: catalog}

	env.App = app.New(
		app.WithPaths(paths),
		app.WithFS(system.DefaultFS()),
		app.WithExecutor(system.NewMockExecutor()),
		app.WithHost(env.Host),
		app.WithCatalog(env.Catalog),
		app.WithPlaces(&places.Writer{}),
		app.WithInstallCandidates([]string{env.InstallDir}),
	)

	// Save original default and set test app
	originalDefault := app.Default
	app.SetDefault(env.App)
	env.cleanup = func() {
		app.SetDefault(originalDefault)
	}
	t.Cleanup(env.Cleanup)

	return env
}

// Cleanup restores the original app default
func (e *TestEnv) Cleanup() {
	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}
}

// WriteConfig writes a configuration document into the config directory
// and returns its path. With install_path left at auto, the environment's
// install directory is detected.
func (e *TestEnv) WriteConfig(name, content string) string {
	e.T.Helper()

	path := filepath.Join(e.ConfigDir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		e.T.Fatalf("Failed to write config %s: %v", name, err)
	}
	return path
}

// WriteFixture copies an embedded fixture into the config directory.
func (e *TestEnv) WriteFixture(name string) string {
	e.T.Helper()

	data, err := LoadFixture(name)
	if err != nil {
		e.T.Fatalf("Failed to load fixture %s: %v", name, err)
	}
	return e.WriteConfig(name, string(data))
}

// ProfileDir returns the default location of a profile that is not yet
// registered.
func (e *TestEnv) ProfileDir(name string) string {
	return filepath.Join(e.ProfilesRoot, name+".default")
}

// PolicyPath returns where policies.json is written for the environment's
// install directory.
func (e *TestEnv) PolicyPath() string {
	return filepath.Join(e.InstallDir, "distribution", "policies.json")
}

// ReadFile reads a file and fails the test if it cannot.
func (e *TestEnv) ReadFile(path string) string {
	e.T.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		e.T.Fatalf("Failed to read %s: %v", path, err)
	}
	return string(data)
}
