package profile

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/firefly-engineering/browser-conf/internal/system"
)

// AutoInstallPath asks DetectInstall to search for the installation.
const AutoInstallPath = "auto"

// FallbackInstallDir is reported when no installation can be found.
const FallbackInstallDir = "/opt/zen-browser"

// wrapperScriptMax is the size below which a launcher on PATH is treated
// as a wrapper script worth scanning for the real binary.
const wrapperScriptMax = 10000

// Install describes the browser installation directory.
type Install struct {
	Dir string
	// Source says how Dir was found: "config", "path", "common" or "fallback".
	Source string
}

// PolicyPath returns the location of the enterprise policy file.
func (i Install) PolicyPath() string {
	return filepath.Join(i.Dir, "distribution", "policies.json")
}

// InstallFinder locates the browser installation.
type InstallFinder struct {
	FS   system.FileSystem
	Exec system.CommandExecutor
	// Candidates are checked in order when PATH lookup fails.
	Candidates []string
}

// DefaultCandidates returns the common Linux install directories.
func DefaultCandidates() []string {
	c := []string{
		"/opt/zen-browser",
		"/opt/zen-browser-bin",
		"/usr/lib/zen-browser",
		"/usr/local/lib/zen-browser",
	}
	if home, err := os.UserHomeDir(); err == nil {
		c = append(c, filepath.Join(home, ".local", "share", "zen-browser"))
	}
	return c
}

// Find resolves the installation. configured is the document's
// install_path; a configured path that does not exist falls through to
// detection and is reported in the returned warning.
func (f *InstallFinder) Find(configured string, browserArgv []string) (Install, string) {
	var warning string
	if configured != "" && configured != AutoInstallPath {
		if f.FS.IsDir(configured) {
			return Install{Dir: configured, Source: "config"}, ""
		}
		warning = "configured install_path " + configured + " does not exist; detecting instead"
	}

	if len(browserArgv) > 0 {
		if dir, ok := f.fromPath(browserArgv[0]); ok {
			return Install{Dir: dir, Source: "path"}, warning
		}
	}

	for _, dir := range f.Candidates {
		if f.FS.IsDir(dir) {
			return Install{Dir: dir, Source: "common"}, warning
		}
	}

	if warning == "" {
		warning = "could not detect the browser installation; using " + FallbackInstallDir
	}
	return Install{Dir: FallbackInstallDir, Source: "fallback"}, warning
}

func (f *InstallFinder) fromPath(command string) (string, bool) {
	bin, err := f.Exec.LookPath(command)
	if err != nil {
		return "", false
	}

	if real, ok := f.wrapperTarget(bin); ok {
		return filepath.Dir(real), true
	}

	if resolved, err := filepath.EvalSymlinks(bin); err == nil {
		bin = resolved
	}
	dir := filepath.Dir(bin)
	for _, name := range []string{"zen-bin", "zen"} {
		if f.FS.Exists(filepath.Join(dir, name)) {
			return dir, true
		}
	}
	return "", false
}

// wrapperTarget scans a small launcher script for an exec line naming the
// real browser binary.
func (f *InstallFinder) wrapperTarget(bin string) (string, bool) {
	info, err := f.FS.Stat(bin)
	if err != nil || info.Size() >= wrapperScriptMax {
		return "", false
	}
	data, err := f.FS.ReadFile(bin)
	if err != nil {
		return "", false
	}

	for _, line := range strings.Split(string(data), "\n") {
		lower := strings.ToLower(line)
		if !strings.Contains(line, "exec") || !(strings.Contains(lower, "zen") || strings.Contains(lower, "browser")) {
			continue
		}
		for _, field := range strings.Fields(line) {
			field = strings.Trim(field, `"'`)
			if field != bin && strings.Contains(strings.ToLower(field), "zen") && strings.Contains(field, "/") && f.FS.Exists(field) {
				return field, true
			}
		}
	}
	return "", false
}
