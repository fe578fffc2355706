// Package app provides the application context for browser-conf.
// It allows dependency injection for testing.
package app

import (
	"github.com/firefly-engineering/browser-conf/internal/apply"
	"github.com/firefly-engineering/browser-conf/internal/audit"
	"github.com/firefly-engineering/browser-conf/internal/config"
	"github.com/firefly-engineering/browser-conf/internal/host"
	"github.com/firefly-engineering/browser-conf/internal/mods"
	"github.com/firefly-engineering/browser-conf/internal/places"
	"github.com/firefly-engineering/browser-conf/internal/profile"
	"github.com/firefly-engineering/browser-conf/internal/system"
)

// App holds the application dependencies
type App struct {
	// Paths holds the configured paths
	Paths *config.Paths

	FS   system.FileSystem
	Exec system.CommandExecutor

	// Host performs browser and privileged side effects. When nil, one is
	// built from the document's browser command.
	Host host.Host

	// Catalog loads the mods catalog
	Catalog apply.CatalogFetcher

	// Places writes search keyword bookmarks
	Places apply.PlacesWriter

	// InstallCandidates are searched when the browser is not on PATH
	InstallCandidates []string
}

// Option is a function that configures the App
type Option func(*App)

// WithPaths sets custom paths
func WithPaths(paths *config.Paths) Option {
	return func(a *App) {
		a.Paths = paths
	}
}

// WithFS sets the filesystem
func WithFS(fsys system.FileSystem) Option {
	return func(a *App) {
		a.FS = fsys
	}
}

// WithExecutor sets the command executor
func WithExecutor(exec system.CommandExecutor) Option {
	return func(a *App) {
		a.Exec = exec
	}
}

// WithHost sets a custom host
func WithHost(h host.Host) Option {
	return func(a *App) {
		a.Host = h
	}
}

// WithCatalog sets the mods catalog source
func WithCatalog(c apply.CatalogFetcher) Option {
	return func(a *App) {
		a.Catalog = c
	}
}

// WithPlaces sets the places writer
func WithPlaces(p apply.PlacesWriter) Option {
	return func(a *App) {
		a.Places = p
	}
}

// WithInstallCandidates sets the install directories searched last
func WithInstallCandidates(dirs []string) Option {
	return func(a *App) {
		a.InstallCandidates = dirs
	}
}

// New creates a new App with the given options.
func New(opts ...Option) *App {
	app := &App{
		Paths: config.DefaultPaths(),
	}

	for _, opt := range opts {
		opt(app)
	}

	if app.FS == nil {
		app.FS = system.DefaultFS()
	}
	if app.Exec == nil {
		app.Exec = system.DefaultExecutor()
	}
	if app.Catalog == nil {
		app.Catalog = mods.NewFetcher(nil, app.FS)
	}
	if app.Places == nil {
		app.Places = &places.Writer{FS: app.FS}
	}
	if app.InstallCandidates == nil {
		app.InstallCandidates = profile.DefaultCandidates()
	}

	return app
}

// Orchestrator assembles an apply run for doc.
func (a *App) Orchestrator(doc *config.Document) (*apply.Orchestrator, error) {
	sh, err := host.New(a.Exec, a.FS, doc.Profile.BrowserCommand)
	if err != nil {
		return nil, err
	}
	var h host.Host = sh
	if a.Host != nil {
		h = a.Host
	}

	return &apply.Orchestrator{
		FS:          a.FS,
		Host:        h,
		Finder:      &profile.InstallFinder{FS: a.FS, Exec: a.Exec, Candidates: a.InstallCandidates},
		Catalog:     a.Catalog,
		Places:      a.Places,
		Paths:       a.Paths,
		BrowserArgv: sh.BrowserArgv(),
	}, nil
}

// History returns the apply history logger.
func (a *App) History() *audit.Logger {
	return audit.NewLogger(a.Paths.HistoryFile, a.FS)
}

// Default is the default application instance
var Default = New()

// SetDefault sets the default application instance (used for testing)
func SetDefault(app *App) {
	Default = app
}

// ResetDefault resets to the default application instance
func ResetDefault() {
	Default = New()
}
