package config

import (
	"os"
	"path/filepath"
)

const (
	DefaultConfigFile     = "config.yaml"
	DefaultProfileName    = "default"
	DefaultInstallPath    = "auto"
	DefaultBrowserCommand = "zen-browser"
	DefaultCertificateDir = "certificates"
	DefaultCatalogURL     = "https://raw.githubusercontent.com/zen-browser/theme-store/main/themes.json"

	GuideFileName   = "setup-guide.html"
	HistoryFileName = "history.jsonl"
	appName         = "browser-conf"
)

// Paths holds the tool's filesystem locations
type Paths struct {
	ProfilesRoot string
	StateDir     string
	HistoryFile  string
	GuideName    string
}

// DefaultPaths returns the default path configuration
func DefaultPaths() *Paths {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		stateDir = filepath.Join(home, ".local", "state")
	}
	stateDir = filepath.Join(stateDir, appName)

	return &Paths{
		ProfilesRoot: filepath.Join(home, ".zen"),
		StateDir:     stateDir,
		HistoryFile:  filepath.Join(stateDir, HistoryFileName),
		GuideName:    GuideFileName,
	}
}

// WithStateDir returns a copy of p rooted at a different state directory.
func (p *Paths) WithStateDir(dir string) *Paths {
	c := *p
	c.StateDir = dir
	c.HistoryFile = filepath.Join(dir, HistoryFileName)
	return &c
}

// WithProfilesRoot returns a copy of p using a different profiles root.
func (p *Paths) WithProfilesRoot(root string) *Paths {
	c := *p
	c.ProfilesRoot = root
	return &c
}

// GuidePath returns the location of the generated setup guide.
func (p *Paths) GuidePath() string {
	return filepath.Join(p.ProfilesRoot, p.GuideName)
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !hasHomePrefix(path) {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}

func hasHomePrefix(path string) bool {
	return len(path) >= 2 && path[0] == '~' && (path[1] == '/' || path[1] == filepath.Separator)
}
