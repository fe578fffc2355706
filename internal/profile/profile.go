// Package profile finds and registers the browser profile a configuration
// applies to, and locates the browser installation directory.
package profile

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	securejoin "github.com/cyphar/filepath-securejoin"

	"github.com/firefly-engineering/browser-conf/internal/logging"
	"github.com/firefly-engineering/browser-conf/internal/system"
)

const (
	ProfilesFile = "profiles.ini"
	InstallsFile = "installs.ini"
)

// Profile is a resolved profile directory.
type Profile struct {
	Name string
	// Dir is the absolute profile directory.
	Dir string
	// Path is the value stored in profiles.ini: relative to the root when
	// IsRelative is set, absolute otherwise.
	Path       string
	IsRelative bool
	// Registered reports whether profiles.ini already lists the profile.
	Registered bool
}

// Locate finds the named profile under root. A profile missing from
// profiles.ini resolves to <root>/<name>.default. Relative paths from
// profiles.ini cannot escape root.
func Locate(fsys system.FileSystem, root, name string) (*Profile, error) {
	if name == "" || strings.ContainsAny(name, "/\\") {
		return nil, fmt.Errorf("invalid profile name %q", name)
	}

	data, err := fsys.ReadFile(filepath.Join(root, ProfilesFile))
	if err != nil && !isNotExist(err) {
		return nil, fmt.Errorf("failed to read %s: %w", ProfilesFile, err)
	}

	if err == nil {
		ini := ParseINI(data)
		for _, s := range ini.WithPrefix("Profile") {
			if n, _ := s.Get("Name"); n != name {
				continue
			}
			path, _ := s.Get("Path")
			rel, _ := s.Get("IsRelative")
			if rel == "1" || !filepath.IsAbs(path) {
				dir, err := securejoin.SecureJoin(root, path)
				if err != nil {
					return nil, fmt.Errorf("invalid path for profile %q: %w", name, err)
				}
				return &Profile{Name: name, Dir: dir, Path: relativeTo(root, dir), IsRelative: true, Registered: true}, nil
			}
			return &Profile{Name: name, Dir: filepath.Clean(path), Path: filepath.Clean(path), Registered: true}, nil
		}
	}

	rel := name + ".default"
	return &Profile{Name: name, Dir: filepath.Join(root, rel), Path: rel, IsRelative: true}, nil
}

func relativeTo(root, dir string) string {
	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return dir
	}
	return filepath.ToSlash(rel)
}

// RenderProfiles returns profiles.ini content with p registered as the
// default profile and every install section locked to it. existing may be
// nil when the file does not exist yet.
func RenderProfiles(existing []byte, p *Profile) []byte {
	old := &INI{}
	if existing != nil {
		old = ParseINI(existing)
	}

	out := &INI{}
	general := &Section{Name: "General"}
	general.Set("StartWithLastProfile", "1")
	general.Set("Version", "2")
	out.Sections = append(out.Sections, general)

	n := 0
	found := false
	for _, s := range old.WithPrefix("Profile") {
		ns := &Section{Name: fmt.Sprintf("Profile%d", n)}
		for _, kv := range s.Keys {
			if kv.Key != "Default" {
				ns.Set(kv.Key, kv.Value)
			}
		}
		if name, _ := ns.Get("Name"); name == p.Name {
			found = true
			setProfilePath(ns, p)
			ns.Set("Default", "1")
		}
		out.Sections = append(out.Sections, ns)
		n++
	}
	if !found {
		ns := &Section{Name: fmt.Sprintf("Profile%d", n)}
		ns.Set("Name", p.Name)
		setProfilePath(ns, p)
		ns.Set("Default", "1")
		out.Sections = append(out.Sections, ns)
	}

	for _, hash := range installHashes(old, "Install") {
		out.Sections = append(out.Sections, lockedInstall("Install"+hash, p))
	}
	return out.Marshal()
}

// RenderInstalls returns installs.ini content pointing every known
// installation at p. Install hashes come from profiles.ini, or from the
// existing installs.ini when profiles.ini has none. It returns nil when no
// installation is known yet; the browser creates the file on first run.
func RenderInstalls(profilesINI, existing []byte, p *Profile) []byte {
	hashes := installHashes(ParseINI(profilesINI), "Install")
	if len(hashes) == 0 && existing != nil {
		hashes = installHashes(ParseINI(existing), "")
	}
	if len(hashes) == 0 {
		return nil
	}

	out := &INI{}
	for _, h := range hashes {
		out.Sections = append(out.Sections, lockedInstall(h, p))
	}
	return out.Marshal()
}

func setProfilePath(s *Section, p *Profile) {
	if p.IsRelative {
		s.Set("IsRelative", "1")
	} else {
		s.Set("IsRelative", "0")
	}
	s.Set("Path", p.Path)
}

func lockedInstall(name string, p *Profile) *Section {
	s := &Section{Name: name}
	s.Set("Default", p.Path)
	s.Set("Locked", "1")
	return s
}

// installHashes returns the sorted, de-duplicated section names that start
// with prefix, with the prefix removed.
func installHashes(ini *INI, prefix string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range ini.WithPrefix(prefix) {
		h := strings.TrimPrefix(s.Name, prefix)
		if h == "" || h == "General" || strings.HasPrefix(s.Name, "Profile") || seen[h] {
			continue
		}
		seen[h] = true
		out = append(out, h)
	}
	sort.Strings(out)
	return out
}

// Register writes profiles.ini and installs.ini under root so the browser
// starts with p. It returns the files it wrote.
func Register(fsys system.FileSystem, root string, p *Profile) ([]string, error) {
	profilesPath := filepath.Join(root, ProfilesFile)
	installsPath := filepath.Join(root, InstallsFile)

	existing, err := readOptional(fsys, profilesPath)
	if err != nil {
		return nil, err
	}
	profiles := RenderProfiles(existing, p)
	if err := fsys.AtomicWriteFile(profilesPath, profiles, 0644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", ProfilesFile, err)
	}
	written := []string{profilesPath}

	oldInstalls, err := readOptional(fsys, installsPath)
	if err != nil {
		return written, err
	}
	installs := RenderInstalls(profiles, oldInstalls, p)
	if installs == nil {
		logging.Debug("no installation hashes yet; leaving installs.ini to the browser")
		return written, nil
	}
	if err := fsys.AtomicWriteFile(installsPath, installs, 0644); err != nil {
		return written, fmt.Errorf("failed to write %s: %w", InstallsFile, err)
	}
	return append(written, installsPath), nil
}

func readOptional(fsys system.FileSystem, path string) ([]byte, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if isNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

func isNotExist(err error) bool {
	return err != nil && errors.Is(err, fs.ErrNotExist)
}
