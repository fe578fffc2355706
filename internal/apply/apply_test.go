package apply

import (
	"context"
	"fmt"
	"io/fs"
	"strings"
	"testing"

	"github.com/firefly-engineering/browser-conf/internal/config"
	"github.com/firefly-engineering/browser-conf/internal/errors"
	"github.com/firefly-engineering/browser-conf/internal/mods"
	"github.com/firefly-engineering/browser-conf/internal/places"
	"github.com/firefly-engineering/browser-conf/internal/profile"
	"github.com/firefly-engineering/browser-conf/internal/system"
)

const (
	root       = "/home/u/.zen"
	installDir = "/opt/zen"
	policyPath = installDir + "/distribution/policies.json"
	guidePath  = root + "/setup-guide.html"
)

const baseDoc = `
profile:
  name: work
  install_path: /opt/zen
extensions:
  - uBlock0@raymondhill.net
  - https://example.com/addon.xpi
config:
  browser:
    startup:
      page: 3
  zen:
    view:
      compact: true
default_search_engine: DuckDuckGo
containers:
  - name: Work
    color: orange
    icon: briefcase
workspaces:
  - name: Work
    default_container: Work
    essentials: [https://mail.example.com]
`

type fakeHost struct {
	opened     []string
	installed  map[string][]byte
	installErr error
}

func (h *fakeHost) OpenURL(_ context.Context, url string) error {
	h.opened = append(h.opened, url)
	return nil
}

func (h *fakeHost) InstallPrivileged(_ context.Context, path string, data []byte) error {
	if h.installErr != nil {
		return h.installErr
	}
	if h.installed == nil {
		h.installed = make(map[string][]byte)
	}
	h.installed[path] = data
	return nil
}

type fakeCatalog struct {
	catalog *mods.Catalog
	err     error
	sources []string
}

func (f *fakeCatalog) Fetch(_ context.Context, source string) (*mods.Catalog, error) {
	f.sources = append(f.sources, source)
	return f.catalog, f.err
}

type fakePlaces struct {
	err   error
	calls []string
}

func (f *fakePlaces) Apply(_ context.Context, dbPath string, engines []config.SearchEngine) (*places.Result, error) {
	f.calls = append(f.calls, dbPath)
	if f.err != nil {
		return nil, f.err
	}
	res := &places.Result{}
	for _, e := range engines {
		res.Created = append(res.Created, e.Keyword)
	}
	return res, nil
}

const catalogJSON = `{
  "8039de3b-72e1-41ea-83b3-5077cf0f98d1": {"name": "Better Find Bar"}
}`

type fixture struct {
	fs      *system.MockFS
	host    *fakeHost
	catalog *fakeCatalog
	places  *fakePlaces
	orch    *Orchestrator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mfs := system.NewMockFS()
	mfs.AddDir(installDir)
	mfs.AddDir(root)

	c, err := mods.ParseCatalog([]byte(catalogJSON))
	if err != nil {
		t.Fatal(err)
	}
	f := &fixture{
		fs:      mfs,
		host:    &fakeHost{},
		catalog: &fakeCatalog{catalog: c},
		places:  &fakePlaces{},
	}
	f.orch = &Orchestrator{
		FS:      mfs,
		Host:    f.host,
		Finder:  &profile.InstallFinder{FS: mfs, Exec: system.NewMockExecutor()},
		Catalog: f.catalog,
		Places:  f.places,
		Paths:   config.DefaultPaths().WithProfilesRoot(root),
	}
	return f
}

func parse(t *testing.T, yaml string) *config.Document {
	t.Helper()
	doc, err := config.Parse([]byte(yaml), config.FormatYAML, "/cfg")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	return doc
}

func TestRun_WritesFiles(t *testing.T) {
	f := newFixture(t)
	res, err := f.orch.Run(context.Background(), parse(t, baseDoc), Options{})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if res.State != StateDone {
		t.Errorf("State = %s, want done", res.State)
	}

	want := []State{StateLoaded, StateValidated, StateFlattened, StatePoliciesBuilt, StateWritten, StateModsResolved, StateGuideEmitted, StateDone}
	if fmt.Sprint(res.Transitions) != fmt.Sprint(want) {
		t.Errorf("Transitions = %v, want %v", res.Transitions, want)
	}

	userJS, ok := f.fs.GetFile(root + "/work.default/user.js")
	if !ok {
		t.Fatal("user.js not written")
	}
	for _, line := range []string{
		`user_pref("browser.startup.page", 3);`,
		`user_pref("zen.view.compact", true);`,
	} {
		if !strings.Contains(string(userJS), line) {
			t.Errorf("user.js missing %s", line)
		}
	}

	policies, ok := f.fs.GetFile(policyPath)
	if !ok {
		t.Fatal("policies.json not written")
	}
	for _, s := range []string{`"DuckDuckGo"`, `"uBlock0@raymondhill.net"`, `"https://example.com/addon.xpi"`, `"orange"`} {
		if !strings.Contains(string(policies), s) {
			t.Errorf("policies.json missing %s", s)
		}
	}

	if _, ok := f.fs.GetFile(root + "/profiles.ini"); !ok {
		t.Error("profiles.ini not written")
	}
	guide, ok := f.fs.GetFile(guidePath)
	if !ok {
		t.Fatal("setup guide not written")
	}
	if !strings.Contains(string(guide), "https://mail.example.com") {
		t.Error("guide should list essentials")
	}
	if res.GuidePath != guidePath {
		t.Errorf("GuidePath = %q", res.GuidePath)
	}
	if !res.Changed() {
		t.Error("first run should report changes")
	}
	if len(f.host.opened) != 0 {
		t.Errorf("nothing should be opened without options, got %v", f.host.opened)
	}
}

func TestRun_Idempotent(t *testing.T) {
	f := newFixture(t)
	doc := parse(t, baseDoc)

	first, err := f.orch.Run(context.Background(), doc, Options{})
	if err != nil {
		t.Fatalf("first Run() error: %v", err)
	}
	userJS1, _ := f.fs.GetFile(first.Files[0].Path)
	policies1, _ := f.fs.GetFile(policyPath)
	guide1, _ := f.fs.GetFile(guidePath)

	second, err := f.orch.Run(context.Background(), parse(t, baseDoc), Options{})
	if err != nil {
		t.Fatalf("second Run() error: %v", err)
	}
	for _, fr := range second.Files {
		if fr.Changed {
			t.Errorf("%s changed on the second run", fr.Path)
		}
	}

	userJS2, _ := f.fs.GetFile(second.Files[0].Path)
	policies2, _ := f.fs.GetFile(policyPath)
	guide2, _ := f.fs.GetFile(guidePath)
	if string(userJS1) != string(userJS2) || string(policies1) != string(policies2) || string(guide1) != string(guide2) {
		t.Error("outputs should be byte-identical across runs")
	}
	if n := f.fs.AtomicWrites[policyPath]; n != 1 {
		t.Errorf("policies.json written %d times, want 1", n)
	}
}

func TestRun_NonexistentModStillWritesFiles(t *testing.T) {
	f := newFixture(t)
	doc := parse(t, baseDoc+"zen_mods:\n  - Better Find Bar\n  - Does Not Exist\n")

	res, err := f.orch.Run(context.Background(), doc, Options{})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if res.State != StateDone {
		t.Errorf("State = %s", res.State)
	}
	if len(res.Resolved) != 1 || len(res.ModWarnings) != 1 {
		t.Errorf("resolved = %d, warnings = %d", len(res.Resolved), len(res.ModWarnings))
	}
	if _, ok := f.fs.GetFile(policyPath); !ok {
		t.Error("policies.json should be written despite the unresolved mod")
	}
	guide, _ := f.fs.GetFile(guidePath)
	if !strings.Contains(string(guide), "Does Not Exist") {
		t.Error("guide should list the unresolved mod as a manual step")
	}
	if !strings.Contains(string(guide), "https://zen-browser.app/mods/8039de3b-72e1-41ea-83b3-5077cf0f98d1/") {
		t.Error("guide should link the resolved mod")
	}
}

func TestRun_CatalogFailureIsOneWarning(t *testing.T) {
	f := newFixture(t)
	f.catalog.err = fmt.Errorf("connection refused")
	doc := parse(t, baseDoc+"zen_mods: [A, B]\n")

	res, err := f.orch.Run(context.Background(), doc, Options{})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	n := 0
	for _, w := range res.Warnings {
		if strings.Contains(w, "catalog") {
			n++
		}
	}
	if n != 1 {
		t.Errorf("catalog warnings = %d, want 1: %v", n, res.Warnings)
	}
	if len(res.ModWarnings) != 2 {
		t.Errorf("guide should still list both mods, got %d", len(res.ModWarnings))
	}
}

func TestRun_CatalogSource(t *testing.T) {
	f := newFixture(t)
	doc := parse(t, baseDoc+"mods_catalog: themes.json\nzen_mods: [A]\n")

	if _, err := f.orch.Run(context.Background(), doc, Options{}); err != nil {
		t.Fatal(err)
	}
	if _, err := f.orch.Run(context.Background(), doc, Options{CatalogSource: "https://mirror.example/themes.json"}); err != nil {
		t.Fatal(err)
	}
	want := []string{"/cfg/themes.json", "https://mirror.example/themes.json"}
	if fmt.Sprint(f.catalog.sources) != fmt.Sprint(want) {
		t.Errorf("sources = %v, want %v", f.catalog.sources, want)
	}
}

func TestRun_ValidationErrorWritesNothing(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		path string
	}{
		{"float preference", "config:\n  zen:\n    tabs: 1.5\n", "config.zen.tabs"},
		{"duplicate container", "containers:\n  - name: A\n  - name: A\n", "containers[1].name"},
		{"bad toolbar", "toolbar:\n  placements: [a]\n", "toolbar.placements"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			res, err := f.orch.Run(context.Background(), parse(t, tt.doc), Options{})
			if err == nil {
				t.Fatal("Run() should fail")
			}
			if !errors.IsKind(err, errors.KindValidation) {
				t.Errorf("error kind = %v, want validation: %v", err, err)
			}
			var e *errors.Error
			if errors.As(err, &e) && e.Path != tt.path {
				t.Errorf("error path = %q, want %q", e.Path, tt.path)
			}
			if res.State != StateFailed {
				t.Errorf("State = %s, want failed", res.State)
			}
			if len(f.fs.AtomicWrites) != 0 {
				t.Errorf("no file should be written, got %v", f.fs.AtomicWrites)
			}
		})
	}
}

func TestRun_MissingCertificateDir(t *testing.T) {
	f := newFixture(t)
	res, err := f.orch.Run(context.Background(), parse(t, baseDoc+"certificates_dir: certs\n"), Options{})
	if !errors.IsKind(err, errors.KindResource) {
		t.Fatalf("Run() error = %v, want resource error", err)
	}
	if res.State != StateFailed || len(f.fs.AtomicWrites) != 0 {
		t.Errorf("State = %s, writes = %v", res.State, f.fs.AtomicWrites)
	}
}

func TestRun_PrivilegedPolicyInstall(t *testing.T) {
	f := newFixture(t)
	f.fs.AtomicErrs = map[string]error{policyPath: fmt.Errorf("open: %w", fs.ErrPermission)}

	res, err := f.orch.Run(context.Background(), parse(t, baseDoc), Options{})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	data, ok := f.host.installed[policyPath]
	if !ok {
		t.Fatal("policies.json should be installed through the host")
	}
	if string(data) != string(res.Compiled.Policies) {
		t.Error("host received different policy bytes")
	}
	var found bool
	for _, fr := range res.Files {
		if fr.Path == policyPath {
			found = fr.Privileged
		}
	}
	if !found {
		t.Error("policy file result should be marked privileged")
	}
}

func TestRun_WriteErrorFails(t *testing.T) {
	f := newFixture(t)
	f.fs.AtomicErrs = map[string]error{policyPath: fmt.Errorf("disk full")}

	res, err := f.orch.Run(context.Background(), parse(t, baseDoc), Options{})
	if !errors.IsKind(err, errors.KindWrite) {
		t.Fatalf("Run() error = %v, want write error", err)
	}
	if errors.GetExitCode(err) != errors.ExitWriteError {
		t.Errorf("exit code = %d", errors.GetExitCode(err))
	}
	if res.State != StateFailed {
		t.Errorf("State = %s", res.State)
	}
	if f.host.installed != nil {
		t.Error("non-permission failures should not escalate")
	}
}

func TestRun_DryRun(t *testing.T) {
	f := newFixture(t)
	doc := parse(t, baseDoc+"zen_mods: [Better Find Bar]\nsearch_engines:\n  - {keyword: gh, url: 'https://github.com/search?q=%s'}\n")

	res, err := f.orch.Run(context.Background(), doc, Options{DryRun: true, OpenMods: true, OpenGuide: true})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(f.fs.AtomicWrites) != 0 {
		t.Errorf("dry run wrote %v", f.fs.AtomicWrites)
	}
	if len(f.host.opened) != 0 || len(f.places.calls) != 0 {
		t.Error("dry run should have no host side effects")
	}
	if len(res.Guide) == 0 || len(res.Compiled.UserJS) == 0 {
		t.Error("dry run should still render outputs")
	}
	for _, fr := range res.Files {
		if !fr.Changed {
			t.Errorf("%s should be reported as changed on a fresh profile", fr.Path)
		}
	}
}

func TestRun_OpensModsAndGuide(t *testing.T) {
	f := newFixture(t)
	doc := parse(t, baseDoc+"zen_mods: [Better Find Bar]\n")

	if _, err := f.orch.Run(context.Background(), doc, Options{OpenMods: true, OpenGuide: true}); err != nil {
		t.Fatal(err)
	}
	want := []string{
		"https://zen-browser.app/mods/8039de3b-72e1-41ea-83b3-5077cf0f98d1/",
		"file://" + guidePath,
	}
	if fmt.Sprint(f.host.opened) != fmt.Sprint(want) {
		t.Errorf("opened = %v, want %v", f.host.opened, want)
	}
}

func TestRun_Places(t *testing.T) {
	doc := baseDoc + "search_engines:\n  - {name: GitHub, keyword: gh, url: 'https://github.com/search?q=%s'}\n"

	t.Run("applied", func(t *testing.T) {
		f := newFixture(t)
		res, err := f.orch.Run(context.Background(), parse(t, doc), Options{})
		if err != nil {
			t.Fatal(err)
		}
		if len(f.places.calls) != 1 || f.places.calls[0] != root+"/work.default/places.sqlite" {
			t.Errorf("places calls = %v", f.places.calls)
		}
		if res.Places == nil || len(res.Places.Created) != 1 {
			t.Errorf("Places = %+v", res.Places)
		}
	})

	t.Run("no database yet", func(t *testing.T) {
		f := newFixture(t)
		f.places.err = places.ErrNoDatabase
		res, err := f.orch.Run(context.Background(), parse(t, doc), Options{})
		if err != nil {
			t.Fatal(err)
		}
		if res.State != StateDone {
			t.Errorf("State = %s", res.State)
		}
		if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "start the browser once") {
			t.Errorf("Warnings = %v", res.Warnings)
		}
	})
}

func TestRun_ToolbarOverridesConfigKey(t *testing.T) {
	f := newFixture(t)
	doc := parse(t, `
profile: {install_path: /opt/zen}
config:
  browser:
    uiCustomization:
      state: "{}"
toolbar:
  placements:
    nav-bar: [back-button, urlbar-container]
`)
	res, err := f.orch.Run(context.Background(), doc, Options{})
	if err != nil {
		t.Fatal(err)
	}
	v, ok := res.Compiled.Prefs.Get("browser.uiCustomization.state")
	if !ok || v.Str != `{"placements":{"nav-bar":["back-button","urlbar-container"]}}` {
		t.Errorf("toolbar pref = %v", v)
	}
	var warned bool
	for _, w := range res.Warnings {
		if strings.Contains(w, "toolbar section overrides") {
			warned = true
		}
	}
	if !warned {
		t.Errorf("expected an override warning, got %v", res.Warnings)
	}
}

func TestRun_InstallFallbackWarning(t *testing.T) {
	f := newFixture(t)
	doc := parse(t, "profile: {install_path: /nowhere}\n")

	res, err := f.orch.Run(context.Background(), doc, Options{DryRun: true})
	if err != nil {
		t.Fatal(err)
	}
	if res.Install.Source != "fallback" {
		t.Errorf("Install = %+v", res.Install)
	}
	if len(res.Warnings) == 0 || !strings.Contains(res.Warnings[0], "/nowhere") {
		t.Errorf("Warnings = %v", res.Warnings)
	}
}

func TestCompile_TOMLMatchesYAML(t *testing.T) {
	yamlDoc := parse(t, baseDoc)
	tomlDoc, err := config.Parse([]byte(`
default_search_engine = "DuckDuckGo"
extensions = ["uBlock0@raymondhill.net", "https://example.com/addon.xpi"]

[profile]
name = "work"
install_path = "/opt/zen"

[config.browser.startup]
page = 3

[config.zen.view]
compact = true

[[containers]]
name = "Work"
color = "orange"
icon = "briefcase"

[[workspaces]]
name = "Work"
default_container = "Work"
essentials = ["https://mail.example.com"]
`), config.FormatTOML, "/cfg")
	if err != nil {
		t.Fatal(err)
	}

	mfs := system.NewMockFS()
	a, err := Compile(mfs, yamlDoc)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Compile(mfs, tomlDoc)
	if err != nil {
		t.Fatal(err)
	}
	if string(a.UserJS) != string(b.UserJS) {
		t.Errorf("user.js differs:\n%s\n---\n%s", a.UserJS, b.UserJS)
	}
	if string(a.Policies) != string(b.Policies) {
		t.Errorf("policies.json differs:\n%s\n---\n%s", a.Policies, b.Policies)
	}
}

func TestCompile_WorkspaceContainerWarning(t *testing.T) {
	c, err := Compile(system.NewMockFS(), parse(t, "workspaces:\n  - {name: Play, default_container: Fun}\nbogus: 1\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Warnings) != 2 {
		t.Errorf("Warnings = %v", c.Warnings)
	}
}

func TestState_String(t *testing.T) {
	if StatePoliciesBuilt.String() != "policies-built" || State(99).String() != "state(99)" {
		t.Error("unexpected state names")
	}
	if !StateFailed.Terminal() || StateWritten.Terminal() {
		t.Error("unexpected Terminal()")
	}
}
