// Package app provides the application context for browser-conf.
//
// This package manages application-wide dependencies using the functional
// options pattern, enabling easy testing through dependency injection.
//
// # Creating an App
//
//	// Production usage
//	a := app.New()
//
//	// Testing with custom dependencies
//	a := app.New(
//	    app.WithPaths(testPaths),
//	    app.WithFS(system.NewMockFS()),
//	    app.WithHost(fakeHost),
//	    app.WithCatalog(fakeCatalog),
//	)
//
// # Available Options
//
//	WithPaths(paths)              // Custom path configuration
//	WithFS(fs)                    // Filesystem used for every read and write
//	WithExecutor(exec)            // Command executor (PATH lookup, sudo, browser)
//	WithHost(host)                // Browser and privileged side effects
//	WithCatalog(fetcher)          // Mods catalog source
//	WithPlaces(writer)            // Search keyword writer
//	WithInstallCandidates(dirs)   // Install directories searched last
//
// Orchestrator combines these with a loaded document into an
// apply.Orchestrator.
package app
