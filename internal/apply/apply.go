// Package apply runs a configuration document against the filesystem:
// it compiles the document, writes the browser files, resolves mods and
// emits the setup guide.
package apply

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/firefly-engineering/browser-conf/internal/config"
	"github.com/firefly-engineering/browser-conf/internal/errors"
	"github.com/firefly-engineering/browser-conf/internal/generator"
	"github.com/firefly-engineering/browser-conf/internal/host"
	"github.com/firefly-engineering/browser-conf/internal/logging"
	"github.com/firefly-engineering/browser-conf/internal/mods"
	"github.com/firefly-engineering/browser-conf/internal/places"
	"github.com/firefly-engineering/browser-conf/internal/profile"
	"github.com/firefly-engineering/browser-conf/internal/system"
)

// Options control a run.
type Options struct {
	// DryRun renders everything but writes nothing and has no host side effects.
	DryRun bool
	// OpenMods opens each resolved mod's install page in the browser.
	OpenMods bool
	// OpenGuide opens the setup guide in the browser.
	OpenGuide bool
	// CatalogSource overrides the document's mods_catalog.
	CatalogSource string
}

// FileResult reports one output file.
type FileResult struct {
	Path    string
	Changed bool
	// Privileged is set when the file was installed through the host.
	Privileged bool
}

// Result is the outcome of a run. It is returned even when the run fails.
type Result struct {
	State       State
	Transitions []State

	Profile  *profile.Profile
	Install  profile.Install
	Compiled *Compiled
	Files    []FileResult

	Resolved    []mods.Resolved
	ModWarnings []mods.Warning
	Places      *places.Result

	GuidePath string
	Guide     []byte

	// Warnings are the non-fatal findings of the run, in order.
	Warnings []string
	Err      error
}

// Changed reports whether any output file changed.
func (r *Result) Changed() bool {
	for _, f := range r.Files {
		if f.Changed {
			return true
		}
	}
	return false
}

func (r *Result) warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	logging.Debug("warning recorded", "warning", msg)
	r.Warnings = append(r.Warnings, msg)
}

func (r *Result) fail(err error) (*Result, error) {
	r.Err = err
	r.advance(StateFailed)
	return r, err
}

// CatalogFetcher loads the mods catalog.
type CatalogFetcher interface {
	Fetch(ctx context.Context, source string) (*mods.Catalog, error)
}

// PlacesWriter upserts search keyword bookmarks.
type PlacesWriter interface {
	Apply(ctx context.Context, dbPath string, engines []config.SearchEngine) (*places.Result, error)
}

// Orchestrator sequences one apply run.
type Orchestrator struct {
	FS      system.FileSystem
	Host    host.Host
	Finder  *profile.InstallFinder
	Catalog CatalogFetcher
	Places  PlacesWriter
	Paths   *config.Paths
	// BrowserArgv is the browser command, used to find the installation.
	BrowserArgv []string
}

// Run applies doc. The returned Result is never nil; on failure its State
// is StateFailed and the error is also returned.
func (o *Orchestrator) Run(ctx context.Context, doc *config.Document, opts Options) (*Result, error) {
	res := &Result{State: StateLoaded, Transitions: []State{StateLoaded}}
	logging.Debug("apply started", "source", doc.Source, "dry_run", opts.DryRun)

	c, err := compile(o.FS, doc, res)
	if err != nil {
		return res.fail(err)
	}
	res.Compiled = c
	res.Warnings = append(res.Warnings, c.Warnings...)

	if err := o.write(ctx, doc, opts, res); err != nil {
		return res.fail(err)
	}
	res.advance(StateWritten)

	// Everything below is best-effort.
	o.applyPlaces(ctx, doc, opts, res)

	o.resolveMods(ctx, doc, opts, res)
	res.advance(StateModsResolved)

	o.emitGuide(ctx, doc, opts, res)
	res.advance(StateGuideEmitted)

	res.advance(StateDone)
	logging.Debug("apply finished", "files", len(res.Files), "warnings", len(res.Warnings))
	return res, nil
}

func (o *Orchestrator) profilesRoot(doc *config.Document) string {
	if doc.Profile.Root != "" {
		return doc.ResolvePath(doc.Profile.Root)
	}
	return o.Paths.ProfilesRoot
}

func (o *Orchestrator) write(ctx context.Context, doc *config.Document, opts Options, res *Result) error {
	root := o.profilesRoot(doc)

	p, err := profile.Locate(o.FS, root, doc.Profile.Name)
	if err != nil {
		return errors.ResourceError(filepath.Join(root, profile.ProfilesFile), "failed to locate profile", err)
	}
	res.Profile = p
	logging.Debug("profile located", "name", p.Name, "dir", p.Dir, "registered", p.Registered)

	installPath := doc.Profile.InstallPath
	if installPath != "" && installPath != profile.AutoInstallPath {
		installPath = doc.ResolvePath(installPath)
	}
	install, warning := o.Finder.Find(installPath, o.BrowserArgv)
	if warning != "" {
		res.warn("%s", warning)
	}
	res.Install = install
	logging.Debug("installation found", "dir", install.Dir, "source", install.Source)

	fr, err := o.writeFile(ctx, filepath.Join(p.Dir, generator.UserJSFile), res.Compiled.UserJS, false, opts)
	if err != nil {
		return err
	}
	res.Files = append(res.Files, fr)

	if err := o.register(root, p, opts, res); err != nil {
		return err
	}

	fr, err = o.writeFile(ctx, install.PolicyPath(), res.Compiled.Policies, true, opts)
	if err != nil {
		return err
	}
	res.Files = append(res.Files, fr)
	return nil
}

// writeFile writes data to path atomically unless the file already holds
// exactly data. A permission failure on a privileged path is retried
// through the host.
func (o *Orchestrator) writeFile(ctx context.Context, path string, data []byte, privileged bool, opts Options) (FileResult, error) {
	fr := FileResult{Path: path}
	existing, err := o.FS.ReadFile(path)
	fr.Changed = err != nil || !bytes.Equal(existing, data)
	if opts.DryRun || !fr.Changed {
		return fr, nil
	}

	err = o.FS.AtomicWriteFile(path, data, 0644)
	if err == nil {
		logging.Debug("wrote file", "path", path, "bytes", len(data))
		return fr, nil
	}
	if !privileged || o.Host == nil || !errors.Is(err, fs.ErrPermission) {
		return fr, errors.WriteError(path, err)
	}

	logging.Debug("direct write denied, installing with elevated permissions", "path", path, "error", err)
	if err := o.Host.InstallPrivileged(ctx, path, data); err != nil {
		return fr, errors.WriteError(path, err)
	}
	fr.Privileged = true
	return fr, nil
}

// register points profiles.ini and installs.ini at the profile.
func (o *Orchestrator) register(root string, p *profile.Profile, opts Options, res *Result) error {
	paths := []string{filepath.Join(root, profile.ProfilesFile), filepath.Join(root, profile.InstallsFile)}
	before := make(map[string][]byte, len(paths))
	for _, path := range paths {
		if data, err := o.FS.ReadFile(path); err == nil {
			before[path] = data
		}
	}

	if opts.DryRun {
		rendered := profile.RenderProfiles(before[paths[0]], p)
		res.Files = append(res.Files, FileResult{Path: paths[0], Changed: !bytes.Equal(before[paths[0]], rendered)})
		return nil
	}

	written, err := profile.Register(o.FS, root, p)
	if err != nil {
		return errors.WriteError(filepath.Join(root, profile.ProfilesFile), err)
	}
	for _, path := range written {
		after, _ := o.FS.ReadFile(path)
		old, existed := before[path]
		res.Files = append(res.Files, FileResult{Path: path, Changed: !existed || !bytes.Equal(old, after)})
	}
	return nil
}

func (o *Orchestrator) applyPlaces(ctx context.Context, doc *config.Document, opts Options, res *Result) {
	if opts.DryRun || o.Places == nil || len(doc.SearchEngines) == 0 {
		return
	}
	dbPath := filepath.Join(res.Profile.Dir, places.DatabaseFile)
	pr, err := o.Places.Apply(ctx, dbPath, doc.SearchEngines)
	switch {
	case errors.Is(err, places.ErrNoDatabase):
		res.warn("search keywords not added: %s has no %s yet; start the browser once and apply again", res.Profile.Dir, places.DatabaseFile)
	case err != nil:
		res.warn("search keywords not added: %v", err)
	default:
		res.Places = pr
		logging.Debug("search keywords applied", "created", len(pr.Created), "updated", len(pr.Updated))
	}
}

func (o *Orchestrator) resolveMods(ctx context.Context, doc *config.Document, opts Options, res *Result) {
	if len(doc.Mods) == 0 {
		return
	}

	source := opts.CatalogSource
	if source == "" {
		source = doc.ModsCatalog
	}
	if source != "" && !mods.IsRemote(source) {
		source = doc.ResolvePath(source)
	}

	var catalog *mods.Catalog
	var err error
	if o.Catalog == nil {
		err = fmt.Errorf("no catalog configured")
	} else {
		catalog, err = o.Catalog.Fetch(ctx, source)
	}
	if err != nil {
		res.warn("mods not resolved, catalog unavailable: %v", err)
		for _, ref := range doc.Mods {
			res.ModWarnings = append(res.ModWarnings, mods.Warning{Ref: ref.String(), Message: "the mods catalog could not be loaded"})
		}
		return
	}

	res.Resolved, res.ModWarnings = mods.Resolve(catalog, doc.Mods)
	for _, w := range res.ModWarnings {
		res.warn("%s", w)
	}

	if opts.DryRun || !opts.OpenMods || o.Host == nil {
		return
	}
	for _, r := range res.Resolved {
		if err := o.Host.OpenURL(ctx, r.Mod.InstallURL()); err != nil {
			res.warn("failed to open %s: %v", r.Mod.InstallURL(), err)
		}
	}
}

func (o *Orchestrator) emitGuide(ctx context.Context, doc *config.Document, opts Options, res *Result) {
	files := make([]string, 0, len(res.Files))
	for _, f := range res.Files {
		files = append(files, f.Path)
	}

	data, err := generator.Guide(generator.GuideData{
		ProfileName: doc.Profile.Name,
		Resolved:    res.Resolved,
		Warnings:    res.ModWarnings,
		Workspaces:  doc.Workspaces,
		Files:       files,
	})
	if err != nil {
		res.warn("setup guide not generated: %v", err)
		return
	}
	res.Guide = data
	res.GuidePath = filepath.Join(o.profilesRoot(doc), o.Paths.GuideName)

	fr, err := o.writeFile(ctx, res.GuidePath, data, false, opts)
	if err != nil {
		res.warn("setup guide not written: %v", err)
		res.GuidePath = ""
		return
	}
	res.Files = append(res.Files, fr)

	if opts.DryRun || !opts.OpenGuide || o.Host == nil {
		return
	}
	if err := o.Host.OpenURL(ctx, "file://"+res.GuidePath); err != nil {
		res.warn("failed to open the setup guide: %v", err)
	}
}
