package policy

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/firefly-engineering/browser-conf/internal/errors"
	"github.com/firefly-engineering/browser-conf/internal/system"
)

var certificateExts = map[string]bool{".crt": true, ".pem": true}

// FindCertificates returns the absolute paths of the .crt and .pem files
// directly inside dir, sorted. dir must already be absolute.
//
// A missing directory is an error only when required is true.
func FindCertificates(fsys system.FileSystem, dir string, required bool) ([]string, error) {
	if !fsys.Exists(dir) {
		if required {
			return nil, errors.ResourceError(dir, "certificates directory does not exist", nil)
		}
		return nil, nil
	}
	if !fsys.IsDir(dir) {
		return nil, errors.ResourceError(dir, "certificates path is not a directory", nil)
	}

	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return nil, errors.ResourceError(dir, "failed to read certificates directory", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !certificateExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		p := filepath.Join(dir, e.Name())
		if _, err := fsys.ReadFile(p); err != nil {
			return nil, errors.ResourceError(p, "certificate is not readable", err)
		}
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths, nil
}
